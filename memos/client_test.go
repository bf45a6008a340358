// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

package memos

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/memobridge/memobridge/lib/secret"
)

// testBuffer creates a secret.Buffer from a string for testing. The
// buffer is closed when the test completes.
func testBuffer(t *testing.T, value string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromString(value)
	if err != nil {
		t.Fatalf("creating test buffer: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

// newTestSession starts an httptest server with the given handler and
// returns a root session pointed at it, authenticated with the token
// "test-token". Both are torn down when the test completes.
func newTestSession(t *testing.T, handler http.Handler) *DirectSession {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{Host: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	token, err := secret.NewFromString("test-token")
	if err != nil {
		t.Fatalf("creating token buffer: %v", err)
	}

	session := client.SessionFromToken(token)
	t.Cleanup(func() { session.Close() })
	return session
}

func TestNewClient(t *testing.T) {
	t.Run("bare host gains scheme and version prefix", func(t *testing.T) {
		client, err := NewClient(ClientConfig{Host: "localhost:5230"})
		if err != nil {
			t.Fatalf("NewClient: %v", err)
		}
		if client.baseURL != "http://localhost:5230/api/v1" {
			t.Errorf("baseURL = %q", client.baseURL)
		}
	})

	t.Run("scheme-qualified host kept", func(t *testing.T) {
		client, err := NewClient(ClientConfig{Host: "https://memos.example.net/"})
		if err != nil {
			t.Fatalf("NewClient: %v", err)
		}
		if client.baseURL != "https://memos.example.net/api/v1" {
			t.Errorf("baseURL = %q", client.baseURL)
		}
	})

	t.Run("empty host", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{}); err == nil {
			t.Fatal("expected error for empty host")
		}
	})
}

func TestDoRequest_Headers(t *testing.T) {
	var gotAuth, gotContentType string
	session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		gotAuth = request.Header.Get("Authorization")
		gotContentType = request.Header.Get("Content-Type")
		writer.Write([]byte(`{"user":{"username":"alice","role":"USER","state":"NORMAL"}}`))
	}))

	if _, err := session.CurrentUser(context.Background()); err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer credential", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
}

func TestDoRequest_ErrorShape(t *testing.T) {
	session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		writer.Write([]byte("memo not found"))
	}))

	_, err := session.GetNote(context.Background(), "memos/missing")
	if err == nil {
		t.Fatal("expected error for 404")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.Body != "memo not found" {
		t.Errorf("Body = %q", apiErr.Body)
	}
	if want := "Request failed: 404 - memo not found"; apiErr.Error() != want {
		t.Errorf("Error() = %q, want %q", apiErr.Error(), want)
	}

	if !IsStatus(err, http.StatusNotFound) {
		t.Error("IsStatus(err, 404) = false")
	}
	if IsStatus(err, http.StatusForbidden) {
		t.Error("IsStatus(err, 403) = true")
	}
}

func TestDoRequest_DecodeFailure(t *testing.T) {
	session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte("<html>not json</html>"))
	}))

	_, err := session.GetNote(context.Background(), "memos/1")
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Errorf("unexpected error text: %v", err)
	}
}
