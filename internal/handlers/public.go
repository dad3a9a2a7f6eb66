// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"guialocal/internal/cache"
	"guialocal/internal/hours"
	"guialocal/internal/markdown"
	"guialocal/internal/models"
	"guialocal/internal/store"
	"guialocal/internal/tree"
)

// Public groups the anonymous read endpoints. It checks the Valkey
// response cache before touching the database and stores the encoded
// body on miss.
type Public struct {
	categories *store.CategoryStore
	menus      *store.MenuStore
	listings   *store.ListingStore
	statuses   *store.ListingStatusStore
	openNow    *cache.OpenNowIndex
	respCache  *cache.ResponseCache
	loc        *time.Location
	now        func() time.Time
}

// NewPublic creates a new Public handler group. Opening hours are
// evaluated in loc.
func NewPublic(categories *store.CategoryStore, menus *store.MenuStore, listings *store.ListingStore, statuses *store.ListingStatusStore, openNow *cache.OpenNowIndex, respCache *cache.ResponseCache, loc *time.Location) *Public {
	return &Public{
		categories: categories,
		menus:      menus,
		listings:   listings,
		statuses:   statuses,
		openNow:    openNow,
		respCache:  respCache,
		loc:        loc,
		now:        time.Now,
	}
}

func (p *Public) clock() time.Time {
	return p.now().In(p.loc)
}

// serveCached answers from the response cache, or runs build, encodes its
// result and caches it for ttl.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, build func() (any, error)) {
	ctx := r.Context()
	if body, ok := p.respCache.Get(ctx, key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Write(body)
		return
	}

	data, err := build()
	if errors.Is(err, errNotFound) {
		writeError(w, http.StatusNotFound, "Registro não encontrado.")
		return
	}
	if err != nil {
		serverError(w, "build public response failed", err, "key", key)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		serverError(w, "encode public response failed", err, "key", key)
		return
	}
	p.respCache.Set(ctx, key, body, ttl)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Write(body)
}

// Categories returns the category forest. A q parameter keeps only
// matching categories and the path down to them.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	p.serveCached(w, r, cache.CategoriesKey(q), 0, func() (any, error) {
		cats, err := p.categories.List()
		if err != nil {
			return nil, err
		}
		byID := make(map[uuid.UUID]models.Category, len(cats))
		for _, c := range cats {
			byID[c.ID] = c
		}
		forest := tree.Filter(tree.Build(models.CategoryNodes(cats)), q)
		return categoryViews(forest, byID), nil
	})
}

// Menu returns the active items of the header or footer menu.
func (p *Public) Menu(w http.ResponseWriter, r *http.Request) {
	location := models.MenuLocation(chi.URLParam(r, "location"))
	if !location.Valid() {
		writeError(w, http.StatusNotFound, "Menu não encontrado.")
		return
	}
	p.serveCached(w, r, cache.MenuKey(string(location)), 0, func() (any, error) {
		forest, err := p.menus.Tree(location)
		if err != nil {
			return nil, err
		}
		return menuViews(forest), nil
	})
}

// Listings searches visible listings. category takes a category slug and
// includes its descendants; open_now=true keeps listings open right now.
func (p *Public) Listings(w http.ResponseWriter, r *http.Request) {
	now := p.clock()
	q := r.URL.Query()

	onlyOpen, _ := strconv.ParseBool(q.Get("open_now"))

	p.serveCached(w, r, cache.ListingsKey(q, now), cache.MinuteTTL, func() (any, error) {
		var categoryIDs []uuid.UUID
		if slug := q.Get("category"); slug != "" {
			ids, err := p.categorySubtree(slug)
			if err != nil {
				return nil, err
			}
			categoryIDs = ids
		}

		listings, err := p.listings.ListVisible(categoryIDs)
		if err != nil {
			return nil, err
		}

		open := p.openSet(r.Context(), listings, now)
		out := make([]listingView, 0, len(listings))
		for i := range listings {
			l := &listings[i]
			if onlyOpen && !open[l.ID] {
				continue
			}
			out = append(out, newListingView(l, summaryStatus(l, open)))
		}
		return map[string]any{"listings": out, "total": len(out)}, nil
	})
}

// categorySubtree resolves a category slug to its id and every descendant
// id.
func (p *Public) categorySubtree(slug string) ([]uuid.UUID, error) {
	cats, err := p.categories.List()
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		if c.Slug == slug {
			return append([]uuid.UUID{c.ID}, tree.DescendantIDs(models.CategoryNodes(cats), c.ID)...), nil
		}
	}
	return nil, errNotFound
}

// openSet returns the ids of open listings from the open-now index. When
// the index cannot be read it evaluates the schedules directly.
func (p *Public) openSet(ctx context.Context, listings []models.Listing, now time.Time) map[uuid.UUID]bool {
	set, err := p.openNow.Members(ctx)
	if err == nil {
		return set
	}
	slog.Warn("open-now index unavailable, evaluating hours", "error", err)

	set = make(map[uuid.UUID]bool)
	for i := range listings {
		if hours.IsOpenAt(listings[i].OpeningHours, now) {
			set[listings[i].ID] = true
		}
	}
	return set
}

func summaryStatus(l *models.Listing, open map[uuid.UUID]bool) hours.Status {
	switch {
	case l.OpeningHours.IsEmpty():
		return hours.StatusNotInformed
	case open[l.ID]:
		return hours.StatusOpen
	default:
		return hours.StatusClosed
	}
}

// Listing returns one visible listing with its live open status and the
// formatted week.
func (p *Public) Listing(w http.ResponseWriter, r *http.Request) {
	now := p.clock()
	slug := chi.URLParam(r, "slug")

	p.serveCached(w, r, cache.ListingKey(slug, now), cache.MinuteTTL, func() (any, error) {
		l, err := p.listings.FindBySlug(slug)
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, errNotFound
		}
		statuses, err := p.statuses.List()
		if err != nil {
			return nil, err
		}
		if !l.IsPubliclyVisible(statuses) {
			return nil, errNotFound
		}

		v := newListingView(l, hours.StatusAt(l.OpeningHours, now))
		v.Hours = hours.FormatWeek(l.OpeningHours, now)
		if v.DescriptionHTML, err = markdown.ToHTML(l.Description); err != nil {
			return nil, err
		}
		return v, nil
	})
}
