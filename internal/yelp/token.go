// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package yelp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/pinmap/pkg/types"
)

// BearerToken exchanges the client credentials for a short-lived token.
// The result is never cached.
func (c *Client) BearerToken(ctx context.Context) (types.BearerToken, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{
		"client_id":     {c.credentials.ClientID},
		"client_secret": {c.credentials.ClientSecret},
		"grant_type":    {grantType},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiHost+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return types.BearerToken{}, &Error{Kind: ErrProvider, Op: opToken, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(ctx, opToken, req)
	if err != nil {
		return types.BearerToken{}, err
	}

	var tok types.BearerToken
	if err := json.Unmarshal(body, &tok); err != nil {
		return types.BearerToken{}, &Error{Kind: ErrParse, Op: opToken, Err: err}
	}

	var missing []string
	if strings.TrimSpace(tok.TokenType) == "" {
		missing = append(missing, "token_type")
	}
	if strings.TrimSpace(tok.AccessToken) == "" {
		missing = append(missing, "access_token")
	}
	if len(missing) > 0 {
		return types.BearerToken{}, &Error{
			Kind: ErrParse,
			Op:   opToken,
			Err:  fmt.Errorf("response missing %s", strings.Join(missing, ", ")),
		}
	}

	return tok, nil
}

// Authorization returns a fresh "<token_type> <access_token>" header value.
func (c *Client) Authorization(ctx context.Context) (string, error) {
	tok, err := c.BearerToken(ctx)
	if err != nil {
		return "", err
	}
	return tok.Authorization(), nil
}
