// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pinmap search pipeline.
// Implements: credential exchange (Credentials, BearerToken);
//
//	business search (SearchQuery, SearchResponse, Business);
//	pin mapping (Pin).
package types

import (
	"fmt"
	"strings"
)

// Credentials are the long-lived client credentials issued by the search
// provider. They are supplied once when a client is constructed.
type Credentials struct {
	ClientID     string `json:"client_id" yaml:"client_id"`
	ClientSecret string `json:"client_secret" yaml:"client_secret"`
}

// Validate reports an error when either credential is blank.
func (c Credentials) Validate() error {
	var missing []string
	if strings.TrimSpace(c.ClientID) == "" {
		missing = append(missing, "client_id")
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		missing = append(missing, "client_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}

// BearerToken is the short-lived token returned by the provider's token
// endpoint. It is fetched fresh for every search.
type BearerToken struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Authorization formats the token as an Authorization header value.
func (t BearerToken) Authorization() string {
	return t.TokenType + " " + t.AccessToken
}

// SearchQuery holds the parameters sent to the business search endpoint.
type SearchQuery struct {
	Term     string
	Location string
	Radius   int
	Limit    int
}

// SearchResponse is the parsed body of a business search. Fields beyond
// Total and Businesses are ignored.
type SearchResponse struct {
	Total      int        `json:"total"`
	Businesses []Business `json:"businesses"`
}

// Business is one venue in a search response. Name and Coordinates are
// pointers so that an absent field can be told apart from a zero value.
type Business struct {
	ID          string       `json:"id,omitempty"`
	Name        *string      `json:"name"`
	URL         string       `json:"url,omitempty"`
	Rating      float64      `json:"rating,omitempty"`
	Coordinates *Coordinates `json:"coordinates"`
}

// Coordinates is the provider's geographic position for a business.
type Coordinates struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Pin is a point on the map derived from one business. It is the only
// shape the rendering layer depends on.
type Pin struct {
	Title string  `json:"title" yaml:"title"`
	Lat   float64 `json:"lat" yaml:"lat"`
	Lng   float64 `json:"lng" yaml:"lng"`
}
