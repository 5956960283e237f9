// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
)

func TestRegisterRequestValidate(t *testing.T) {
	valid := registerRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"}

	tests := []struct {
		name   string
		mutate func(r *registerRequest)
		wantOK bool
	}{
		{"valid", func(r *registerRequest) {}, true},
		{"username at 3", func(r *registerRequest) { r.Username = "abc" }, true},
		{"username at 30", func(r *registerRequest) { r.Username = strings.Repeat("a", 30) }, true},
		{"username too short", func(r *registerRequest) { r.Username = "ab" }, false},
		{"username too long", func(r *registerRequest) { r.Username = strings.Repeat("a", 31) }, false},
		{"empty email", func(r *registerRequest) { r.Email = "" }, false},
		{"malformed email", func(r *registerRequest) { r.Email = "plainly wrong" }, false},
		{"password at 6", func(r *registerRequest) { r.Password = "123456" }, true},
		{"password too short", func(r *registerRequest) { r.Password = "12345" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.wantOK {
				if err == nil {
					t.Fatal("expected a validation error")
				}
				if !apperr.IsKind(err, apperr.KindValidation) {
					t.Errorf("wrong kind: %v", err)
				}
			}
		})
	}
}

func TestPostInputValidate(t *testing.T) {
	valid := postInput{
		Title:    "A title",
		Content:  "Some content",
		Category: uuid.New().String(),
	}

	tests := []struct {
		name   string
		mutate func(p *postInput)
		wantOK bool
	}{
		{"valid", func(p *postInput) {}, true},
		{"title at limit", func(p *postInput) { p.Title = strings.Repeat("t", models.MaxTitleLen) }, true},
		{"title over limit", func(p *postInput) { p.Title = strings.Repeat("t", models.MaxTitleLen+1) }, false},
		{"empty title", func(p *postInput) { p.Title = "" }, false},
		{"empty content", func(p *postInput) { p.Content = "" }, false},
		{"excerpt over limit", func(p *postInput) { p.Excerpt = strings.Repeat("e", models.MaxExcerptLen+1) }, false},
		{"excerpt at limit", func(p *postInput) { p.Excerpt = strings.Repeat("e", models.MaxExcerptLen) }, true},
		{"category not a uuid", func(p *postInput) { p.Category = "tech" }, false},
		{"empty category", func(p *postInput) { p.Category = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			err := input.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.wantOK && err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestCommentRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantOK  bool
	}{
		{"one char", "x", true},
		{"max length", strings.Repeat("x", models.MaxCommentLen), true},
		{"empty", "", false},
		{"over max", strings.Repeat("x", models.MaxCommentLen+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := commentRequest{Content: tt.content}.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.wantOK && err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{"comma separated", []string{"go, postgres , api"}, []string{"go", "postgres", "api"}},
		{"repeated values", []string{"go", "postgres"}, []string{"go", "postgres"}},
		{"mixed", []string{"go,postgres", "api"}, []string{"go", "postgres", "api"}},
		{"blanks dropped", []string{" , ,go,"}, []string{"go"}},
		{"empty input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeTags(tt.values)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
