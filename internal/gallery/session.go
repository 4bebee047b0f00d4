// Cartoshare - Map Gallery Publishing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartoshare

/*
session.go - Bearer Token Lifecycle

The gallery issues short-lived bearer tokens from POST {base}token in
exchange for the configured username/password. Every protected call first
passes through ensureValidSession, which lazily renews the token when its
expiry is less than renewalWindow away (including the no-session-yet case).

This is lazy renewal, not background refresh: it guarantees only that each
protected call starts with a token unlikely to expire during that call.
Concurrent calls may race into renewal independently; the exchange is
idempotent and the last successful one wins.
*/

package gallery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cartoshare/internal/logging"
	"github.com/tomtom215/cartoshare/internal/metrics"
	"github.com/tomtom215/cartoshare/internal/models"
)

// renewalWindow is how much remaining token lifetime triggers renewal before
// a protected call. Tokens with less than this remaining are treated as
// expired.
const renewalWindow = 4 * time.Minute

// session holds the current bearer token and its expiry. Mutated only by a
// successful token exchange; read by every protected call.
type session struct {
	accessToken string
	expiry      time.Time
}

// valid reports whether the session's token has at least renewalWindow of
// lifetime left at the given instant.
func (s session) valid(now time.Time) bool {
	return s.accessToken != "" && s.expiry.Sub(now) >= renewalWindow
}

// ensureValidSession returns a bearer token with comfortable remaining
// lifetime, performing a synchronous token exchange if needed. Authentication
// failures propagate to the caller of the protected operation; there is no
// retry.
func (c *Client) ensureValidSession(ctx context.Context) (string, error) {
	c.mu.Lock()
	current := c.session
	c.mu.Unlock()

	if current.valid(time.Now()) {
		return current.accessToken, nil
	}

	return c.authenticate(ctx)
}

// authenticate performs the token exchange and replaces the stored session on
// success. Safe to call concurrently; the last successful exchange wins.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("username", c.creds.Username)
	form.Set("password", c.creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("token"), strings.NewReader(form.Encode()))
	if err != nil {
		metrics.TokenRenewalsTotal.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.TokenRenewalsTotal.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.TokenRenewalsTotal.WithLabelValues("failure").Inc()
		body := readBodyForError(resp.Body)
		return "", fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tok models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		metrics.TokenRenewalsTotal.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		metrics.TokenRenewalsTotal.WithLabelValues("failure").Inc()
		return "", errors.New("token response contained no access token")
	}

	expiry := time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)

	c.mu.Lock()
	c.session = session{
		accessToken: tok.AccessToken,
		expiry:      expiry,
	}
	c.mu.Unlock()

	metrics.TokenRenewalsTotal.WithLabelValues("success").Inc()
	logging.Ctx(ctx).Debug().
		Time("expiry", expiry).
		Msg("Obtained gallery session token")

	return tok.AccessToken, nil
}

// Connect verifies the configured credentials by forcing a token exchange,
// regardless of any current session. A successful Connect leaves a fresh
// session in place for subsequent calls.
func (c *Client) Connect(ctx context.Context) error {
	if _, err := c.authenticate(ctx); err != nil {
		return fmt.Errorf("failed to connect to gallery: %w", err)
	}
	return nil
}
