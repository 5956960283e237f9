// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
)

// registerRequest is the body of POST /api/auth/register.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r registerRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("Username is required"),
			validation.Length(3, 30).Error("Username must be between 3 and 30 characters"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Email must be a valid email address"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("Password is required"),
			validation.Length(6, 0).Error("Password must be at least 6 characters"),
		),
	)
	return asValidationError(err)
}

// loginRequest is the body of POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Email must be a valid email address"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("Password is required"),
		),
	)
	return asValidationError(err)
}

// postInput carries the writable post fields from a multipart form.
type postInput struct {
	Title    string
	Content  string
	Excerpt  string
	Category string
	Tags     []string
}

func (p postInput) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Title,
			validation.Required.Error("Title is required"),
			validation.RuneLength(1, models.MaxTitleLen).Error("Title cannot exceed 100 characters"),
		),
		validation.Field(&p.Content,
			validation.Required.Error("Content is required"),
		),
		validation.Field(&p.Excerpt,
			validation.RuneLength(0, models.MaxExcerptLen).Error("Excerpt cannot exceed 200 characters"),
		),
		validation.Field(&p.Category,
			validation.Required.Error("Category is required"),
			is.UUIDv4.Error("Category must be a valid id"),
		),
	)
	return asValidationError(err)
}

// commentRequest is the body of POST /api/posts/{id}/comments.
type commentRequest struct {
	Content string `json:"content"`
}

func (r commentRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Content,
			validation.Required.Error("Comment content is required"),
			validation.RuneLength(1, models.MaxCommentLen).Error("Comment cannot exceed 500 characters"),
		),
	)
	return asValidationError(err)
}

// categoryRequest is the body of POST /api/categories.
type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r categoryRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("Category name is required"),
			validation.RuneLength(1, models.MaxCategoryNameLen).Error("Category name cannot exceed 50 characters"),
		),
	)
	return asValidationError(err)
}

// asValidationError folds ozzo's per-field error map into a single
// client-facing validation error.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	if errs, ok := err.(validation.Errors); ok {
		parts := make([]string, 0, len(errs))
		for _, fieldErr := range errs {
			parts = append(parts, fieldErr.Error())
		}
		sort.Strings(parts)
		return apperr.Validation(strings.Join(parts, "; "))
	}
	return apperr.Validation(err.Error())
}

// normalizeTags accepts tags either as repeated form values or as a
// single comma-separated string, trimming blanks and empties.
func normalizeTags(values []string) []string {
	tags := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if t := strings.TrimSpace(part); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}
