// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown renders listing descriptions, written by business owners
// in Markdown, to HTML using goldmark. Raw HTML in the source is dropped.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.Linkify,       // bare URLs and e-mails become links
		extension.Strikethrough,
		extension.Table,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(), // owners type line breaks the way they want them shown
	),
)

// ToHTML converts Markdown source into HTML. Raw HTML blocks and
// dangerous link schemes are omitted, since the source is untrusted.
func ToHTML(source string) (string, error) {
	if source == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
