// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

package memos

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestCreateAccount(t *testing.T) {
	session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/v1/users" || request.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", request.Method, request.URL.Path)
			writer.WriteHeader(http.StatusNotFound)
			return
		}

		var raw map[string]any
		json.NewDecoder(request.Body).Decode(&raw)
		if raw["password"] != "testpassword" {
			t.Errorf("password field = %v", raw["password"])
		}
		// The management surface uses the lowercase "displayname" key.
		if _, present := raw["displayName"]; present {
			t.Error(`management-side payload carries "displayName"; want "displayname"`)
		}

		json.NewEncoder(writer).Encode(Account{
			Name:     "users/9",
			Role:     AccountRoleUser,
			Username: raw["username"].(string),
			State:    AccountStateNormal,
		})
	}))

	account := NewAccount("testuser", "testpassword", "test@example.com")
	account.DisplayName = "Test User"

	created, err := session.CreateAccount(context.Background(), account)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if created.Name != "users/9" {
		t.Errorf("Name = %q", created.Name)
	}
	if created.Username != "testuser" {
		t.Errorf("Username = %q", created.Username)
	}
}

func TestDeleteAccount(t *testing.T) {
	requests := 0
	session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requests++
		if request.Method != http.MethodDelete || request.URL.Path != "/api/v1/users/9" {
			t.Errorf("unexpected request: %s %s", request.Method, request.URL.Path)
		}
		writer.Write([]byte("{}"))
	}))
	ctx := context.Background()

	var validationErr *ValidationError
	if err := session.DeleteAccount(ctx, &Account{}); !errors.As(err, &validationErr) {
		t.Errorf("DeleteAccount without name: error = %v, want *ValidationError", err)
	}
	if requests != 0 {
		t.Fatalf("nameless delete issued %d requests, want 0", requests)
	}

	if err := session.DeleteAccount(ctx, &Account{Name: "users/9"}); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}
}

func TestCreateAccessToken(t *testing.T) {
	session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/v1/users/9/personalAccessTokens" {
			t.Errorf("path = %s", request.URL.Path)
			writer.WriteHeader(http.StatusNotFound)
			return
		}

		var body struct {
			Parent        string `json:"parent"`
			Description   string `json:"description"`
			ExpiresInDays int    `json:"expiresInDays"`
		}
		json.NewDecoder(request.Body).Decode(&body)
		if body.Parent != "users/9" {
			t.Errorf("parent = %q", body.Parent)
		}
		if body.ExpiresInDays != 30 {
			t.Errorf("expiresInDays = %d", body.ExpiresInDays)
		}

		expires := time.Now().AddDate(0, 0, body.ExpiresInDays).UTC()
		json.NewEncoder(writer).Encode(map[string]any{
			"personalAccessToken": Token{
				Name:        "users/9/personalAccessTokens/3",
				Description: body.Description,
				CreatedAt:   time.Now().UTC(),
				ExpiresAt:   &expires,
			},
			"token": "memos_pat_plaintext_once",
		})
	}))

	record, plaintext, err := session.CreateAccessToken(context.Background(), &Account{Name: "users/9"}, "Test PAT", 30)
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}
	if record.Description != "Test PAT" {
		t.Errorf("Description = %q", record.Description)
	}
	if plaintext != "memos_pat_plaintext_once" {
		t.Errorf("plaintext = %q", plaintext)
	}
	if record.ExpiresAt == nil {
		t.Error("ExpiresAt not set")
	}
}

func TestDeleteAccessToken(t *testing.T) {
	requests := 0
	session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requests++
		if request.Method != http.MethodDelete || request.URL.Path != "/api/v1/users/9/personalAccessTokens/3" {
			t.Errorf("unexpected request: %s %s", request.Method, request.URL.Path)
		}
		writer.Write([]byte("{}"))
	}))
	ctx := context.Background()

	var validationErr *ValidationError
	if err := session.DeleteAccessToken(ctx, &Token{}); !errors.As(err, &validationErr) {
		t.Errorf("DeleteAccessToken without name: error = %v, want *ValidationError", err)
	}
	if requests != 0 {
		t.Fatalf("nameless delete issued %d requests, want 0", requests)
	}

	if err := session.DeleteAccessToken(ctx, &Token{Name: "users/9/personalAccessTokens/3"}); err != nil {
		t.Fatalf("DeleteAccessToken: %v", err)
	}
}
