// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage persists uploaded featured images. The default
// backend writes to a local public directory; an S3-compatible backend
// can be selected through configuration. Post records store the bare
// filename either way.
package storage

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"time"
)

// MaxUploadSize caps a single image upload (5 MB).
const MaxUploadSize = 5 << 20

// allowedExtensions is the image extension allow-list for uploads.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Store saves and removes uploaded images addressed by filename.
type Store interface {
	Save(ctx context.Context, filename, contentType string, body io.Reader, size int64) error
	Remove(ctx context.Context, filename string) error
}

// AllowedExtension reports whether the original filename carries an
// accepted image extension.
func AllowedExtension(original string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(original))]
}

// NewFilename derives a collision-resistant stored filename from the
// original upload name, preserving its extension.
// Example: "holiday.PNG" → "post-1735689600000000000-483920174.png"
func NewFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("post-%d-%d%s", time.Now().UnixNano(), rand.Intn(1_000_000_000), ext)
}
