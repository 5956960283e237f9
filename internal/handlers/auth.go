// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
	"inkwell/internal/store"
	"inkwell/internal/token"
)

// Auth groups the registration and login handlers.
type Auth struct {
	users  *store.UserStore
	signer *token.Signer
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, signer *token.Signer) *Auth {
	return &Auth{users: users, signer: signer}
}

// authResponse is returned by both register and login.
type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new user account and returns a signed token.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	// Check both unique columns up front for a friendlier message than
	// the raw constraint violation. The unique indexes still back this
	// up under concurrency.
	if existing, err := a.users.FindByEmail(req.Email); err != nil {
		respondError(w, err)
		return
	} else if existing != nil {
		respondError(w, apperr.Conflict("Email is already registered"))
		return
	}
	if existing, err := a.users.FindByUsername(req.Username); err != nil {
		respondError(w, err)
		return
	} else if existing != nil {
		respondError(w, apperr.Conflict("Username is already taken"))
		return
	}

	user, err := a.users.Create(req.Username, req.Email, req.Password, models.RoleUser)
	if err != nil {
		respondError(w, err)
		return
	}

	tok, err := a.signer.Issue(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{Token: tok, User: user})
}

// Login verifies credentials and returns a signed token.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	user, err := a.users.FindByEmail(req.Email)
	if err != nil {
		respondError(w, err)
		return
	}

	// Same response for unknown email and wrong password. Bad
	// credentials are a 400 like any other rejected input; 401 is
	// reserved for token failures.
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		respondError(w, apperr.Validation("Invalid credentials"))
		return
	}

	tok, err := a.signer.Issue(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: tok, User: user})
}
