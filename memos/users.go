// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

package memos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CreateAccount creates a user account. The Password field is consumed
// here and never returned by the server.
func (s *DirectSession) CreateAccount(ctx context.Context, account *Account) (*Account, error) {
	body, err := s.client.doRequest(ctx, http.MethodPost, "users", s.token, account)
	if err != nil {
		return nil, err
	}

	var created Account
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("memos: failed to parse create user response: %w", err)
	}

	s.client.logger.Info("created memos account", "name", created.Name, "username", created.Username)
	return &created, nil
}

// DeleteAccount deletes a user account by its name.
func (s *DirectSession) DeleteAccount(ctx context.Context, account *Account) error {
	if account.Name == "" {
		return validation("memos: account name is required for delete")
	}

	_, err := s.client.doRequest(ctx, http.MethodDelete, account.Name, s.token, nil)
	return err
}

// CreateAccessToken issues a personal access token for an account.
// Returns the token record and the plaintext credential. The plaintext
// is returned by the server exactly once, here — it can never be
// retrieved again.
func (s *DirectSession) CreateAccessToken(ctx context.Context, account *Account, description string, expiresInDays int) (*Token, string, error) {
	if account.Name == "" {
		return nil, "", validation("memos: account name is required for access token")
	}

	request := struct {
		Parent        string `json:"parent"`
		Description   string `json:"description"`
		ExpiresInDays int    `json:"expiresInDays"`
	}{Parent: account.Name, Description: description, ExpiresInDays: expiresInDays}

	body, err := s.client.doRequest(ctx, http.MethodPost, account.Name+"/personalAccessTokens", s.token, request)
	if err != nil {
		return nil, "", err
	}

	var response struct {
		PersonalAccessToken Token  `json:"personalAccessToken"`
		Token               string `json:"token"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, "", fmt.Errorf("memos: failed to parse access token response: %w", err)
	}

	s.client.logger.Info("created personal access token", "name", response.PersonalAccessToken.Name, "parent", account.Name)
	return &response.PersonalAccessToken, response.Token, nil
}

// DeleteAccessToken revokes a personal access token by its name.
func (s *DirectSession) DeleteAccessToken(ctx context.Context, token *Token) error {
	if token.Name == "" {
		return validation("memos: token name is required for delete")
	}

	_, err := s.client.doRequest(ctx, http.MethodDelete, token.Name, s.token, nil)
	return err
}
