// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tree turns flat parent-referencing records (categories, menu
// items) into ordered forests and answers ancestor/descendant queries over
// them. Every function terminates on malformed input: dangling parents,
// duplicate ids and cycles are tolerated.
package tree

import (
	"bytes"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Node is a flat record that references its parent by id. Order is set for
// records with an explicit position (menu items) and nil otherwise.
type Node struct {
	ID       uuid.UUID  `json:"id"`
	ParentID *uuid.UUID `json:"parent_id"`
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	Order    *int       `json:"order_index,omitempty"`
}

// TreeNode is a Node placed in a forest.
type TreeNode struct {
	Node
	Depth    int        `json:"depth"`
	Children []TreeNode `json:"children,omitempty"`
}

// Build groups nodes by parent id and expands the forest from the roots.
// Nodes whose parent is not present are unreachable and silently left out,
// together with their descendants. Siblings are ordered by Order when set,
// then by name (pt-BR collation), then by id.
func Build(nodes []Node) []TreeNode {
	byParent := make(map[uuid.UUID][]Node)
	var roots []Node
	for _, n := range nodes {
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		byParent[*n.ParentID] = append(byParent[*n.ParentID], n)
	}

	b := &builder{
		byParent: byParent,
		visited:  make(map[uuid.UUID]bool, len(nodes)),
		sorter:   newSiblingSorter(),
	}
	return b.expand(roots, 0)
}

type builder struct {
	byParent map[uuid.UUID][]Node
	visited  map[uuid.UUID]bool
	sorter   *siblingSorter
}

func (b *builder) expand(level []Node, depth int) []TreeNode {
	if len(level) == 0 {
		return nil
	}
	b.sorter.sort(level)

	out := make([]TreeNode, 0, len(level))
	for _, n := range level {
		// A repeated id would otherwise expand the same subtree forever.
		if b.visited[n.ID] {
			continue
		}
		b.visited[n.ID] = true
		out = append(out, TreeNode{
			Node:     n,
			Depth:    depth,
			Children: b.expand(b.byParent[n.ID], depth+1),
		})
	}
	return out
}

// siblingSorter orders siblings. A collator is not safe for concurrent use,
// so each Build gets its own.
type siblingSorter struct {
	coll *collate.Collator
}

func newSiblingSorter() *siblingSorter {
	return &siblingSorter{coll: collate.New(language.BrazilianPortuguese)}
}

func (s *siblingSorter) sort(level []Node) {
	sort.SliceStable(level, func(i, j int) bool {
		return s.less(level[i], level[j])
	})
}

func (s *siblingSorter) less(a, b Node) bool {
	switch {
	case a.Order != nil && b.Order != nil:
		if *a.Order != *b.Order {
			return *a.Order < *b.Order
		}
	case a.Order != nil:
		return true
	case b.Order != nil:
		return false
	}
	if c := s.coll.CompareString(a.Name, b.Name); c != 0 {
		return c < 0
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

// Filter keeps the nodes whose name contains query (case-insensitive) and
// the ancestors of such nodes. Retained nodes carry only retained children.
// An empty query returns the forest unchanged.
func Filter(forest []TreeNode, query string) []TreeNode {
	q := strings.ToLower(query)
	if q == "" {
		return forest
	}
	return filter(forest, q)
}

func filter(level []TreeNode, q string) []TreeNode {
	var out []TreeNode
	for _, n := range level {
		kids := filter(n.Children, q)
		if len(kids) > 0 || strings.Contains(strings.ToLower(n.Name), q) {
			n.Children = kids
			out = append(out, n)
		}
	}
	return out
}

// Flatten walks the forest depth-first and returns every node with its
// Depth set and Children cleared. Useful for indented <select> options.
func Flatten(forest []TreeNode) []TreeNode {
	var out []TreeNode
	flatten(forest, &out)
	return out
}

func flatten(level []TreeNode, out *[]TreeNode) {
	for _, n := range level {
		children := n.Children
		n.Children = nil
		*out = append(*out, n)
		if len(children) > 0 {
			flatten(children, out)
		}
	}
}

// DescendantIDs returns every id below rootID, breadth first, excluding
// rootID itself. A visited set keeps cyclic input finite.
func DescendantIDs(nodes []Node, rootID uuid.UUID) []uuid.UUID {
	children := make(map[uuid.UUID][]uuid.UUID)
	for _, n := range nodes {
		if n.ParentID != nil {
			children[*n.ParentID] = append(children[*n.ParentID], n.ID)
		}
	}

	visited := map[uuid.UUID]bool{rootID: true}
	queue := []uuid.UUID{rootID}
	var out []uuid.UUID
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range children[id] {
			if visited[child] {
				continue
			}
			visited[child] = true
			out = append(out, child)
			queue = append(queue, child)
		}
	}
	return out
}

// AncestorIDs walks the parent chain of nodeID upward, nearest first. The
// walk stops at a root, at a parent missing from nodes, at the first node it
// has already seen, or after len(nodes) steps. nodeID itself is never
// returned.
func AncestorIDs(nodes []Node, nodeID uuid.UUID) []uuid.UUID {
	byID := make(map[uuid.UUID]Node, len(nodes))
	for _, n := range nodes {
		if _, dup := byID[n.ID]; !dup {
			byID[n.ID] = n
		}
	}

	cur, ok := byID[nodeID]
	if !ok {
		return nil
	}

	seen := map[uuid.UUID]bool{nodeID: true}
	var out []uuid.UUID
	for steps := 0; steps < len(nodes); steps++ {
		if cur.ParentID == nil {
			break
		}
		parent, ok := byID[*cur.ParentID]
		if !ok || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		out = append(out, parent.ID)
		cur = parent
	}
	return out
}

// Orphans returns the ids that Build leaves out, in input order.
func Orphans(nodes []Node) []uuid.UUID {
	reached := make(map[uuid.UUID]bool, len(nodes))
	for _, n := range Flatten(Build(nodes)) {
		reached[n.ID] = true
	}

	var out []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, n := range nodes {
		if reached[n.ID] || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n.ID)
	}
	return out
}
