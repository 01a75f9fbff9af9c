// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package yelp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/pinmap/pkg/types"
)

// Fixed search parameters.
const (
	SearchRadius = 500
	SearchLimit  = 5
)

// NewQuery validates term and location and returns a query with the fixed
// radius and limit.
func NewQuery(term, location string) (types.SearchQuery, error) {
	term = strings.TrimSpace(term)
	location = strings.TrimSpace(location)

	switch {
	case term == "" && location == "":
		return types.SearchQuery{}, &Error{Kind: ErrInvalidQuery, Op: opSearch, Err: fmt.Errorf("term and location are empty")}
	case term == "":
		return types.SearchQuery{}, &Error{Kind: ErrInvalidQuery, Op: opSearch, Err: fmt.Errorf("term is empty")}
	case location == "":
		return types.SearchQuery{}, &Error{Kind: ErrInvalidQuery, Op: opSearch, Err: fmt.Errorf("location is empty")}
	}

	return types.SearchQuery{
		Term:     term,
		Location: location,
		Radius:   SearchRadius,
		Limit:    SearchLimit,
	}, nil
}

// Search fetches a token, then runs one business search for term near
// location. Invalid input fails before any network call.
func (c *Client) Search(ctx context.Context, term, location string) (types.SearchResponse, error) {
	q, err := NewQuery(term, location)
	if err != nil {
		return types.SearchResponse{}, err
	}

	auth, err := c.Authorization(ctx)
	if err != nil {
		return types.SearchResponse{}, err
	}

	return c.search(ctx, q, auth)
}

func (c *Client) search(ctx context.Context, q types.SearchQuery, auth string) (types.SearchResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{
		"term":     {q.Term},
		"location": {q.Location},
		"radius":   {strconv.Itoa(q.Radius)},
		"limit":    {strconv.Itoa(q.Limit)},
	}
	reqURL := c.apiHost + searchPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.SearchResponse{}, &Error{Kind: ErrProvider, Op: opSearch, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Authorization", auth)

	body, err := c.do(ctx, opSearch, req)
	if err != nil {
		return types.SearchResponse{}, err
	}

	var sr types.SearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return types.SearchResponse{}, &Error{Kind: ErrParse, Op: opSearch, Err: err}
	}
	return sr, nil
}
