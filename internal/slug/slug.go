// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from post titles,
// including a store-backed uniqueness probe.
package slug

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	// nonWord matches anything outside word characters and spaces.
	nonWord = regexp.MustCompile(`[^\w ]+`)
	// spaceRun collapses consecutive spaces into a single hyphen.
	spaceRun = regexp.MustCompile(` +`)
)

// Generate creates a URL-friendly slug from the given title.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonWord.ReplaceAllString(result, "")
	result = spaceRun.ReplaceAllString(result, "-")
	return result
}

// ExistsFunc reports whether a slug is already taken by another post.
// The exclude ID skips the post currently being updated (uuid.Nil on create).
type ExistsFunc func(slug string, exclude uuid.UUID) (bool, error)

// Unique derives a slug from title and probes the store until it finds a
// free candidate, appending -1, -2, … on collision. The probe is
// check-then-act: two concurrent requests with the same title can both
// see a candidate as free, and the database unique index on posts.slug
// is the final arbiter. The losing write surfaces as a conflict.
func Unique(exists ExistsFunc, title string, exclude uuid.UUID) (string, error) {
	base := Generate(title)
	candidate := base
	for counter := 1; ; counter++ {
		taken, err := exists(candidate, exclude)
		if err != nil {
			return "", fmt.Errorf("slug probe %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}
