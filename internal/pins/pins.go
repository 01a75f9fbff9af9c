// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pins turns provider search results into map pins and implements
// the lookup used by the web layer and the CLI.
package pins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pinmap/internal/metrics"
	"github.com/pdiddy/pinmap/internal/yelp"
	"github.com/pdiddy/pinmap/pkg/types"
)

// ErrMapping is matched by every *MappingError.
var ErrMapping = errors.New("business cannot be mapped to a pin")

// MappingError reports the business entry that lacks a required field.
type MappingError struct {
	Index int
	Field string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%v: businesses[%d] missing %s", ErrMapping, e.Index, e.Field)
}

func (e *MappingError) Unwrap() error { return ErrMapping }

// Map converts businesses to pins one-for-one, in provider order. A nil or
// empty input yields an empty, non-nil slice.
func Map(businesses []types.Business) ([]types.Pin, error) {
	out := make([]types.Pin, 0, len(businesses))
	for i, b := range businesses {
		switch {
		case b.Name == nil:
			return nil, &MappingError{Index: i, Field: "name"}
		case b.Coordinates == nil:
			return nil, &MappingError{Index: i, Field: "coordinates"}
		case b.Coordinates.Latitude == nil:
			return nil, &MappingError{Index: i, Field: "coordinates.latitude"}
		case b.Coordinates.Longitude == nil:
			return nil, &MappingError{Index: i, Field: "coordinates.longitude"}
		}
		out = append(out, types.Pin{
			Title: *b.Name,
			Lat:   *b.Coordinates.Latitude,
			Lng:   *b.Coordinates.Longitude,
		})
	}
	return out, nil
}

// Searcher runs one business search. *yelp.Client implements it.
type Searcher interface {
	Search(ctx context.Context, term, location string) (types.SearchResponse, error)
}

// Finder answers pin lookups for a search term.
type Finder struct {
	Searcher Searcher
	Log      *zap.Logger
	Metrics  *metrics.Metrics
}

// Find returns the pins for term near location. A blank term means no
// search was submitted: Find returns an empty slice without calling the
// provider.
func (f *Finder) Find(ctx context.Context, term, location string) ([]types.Pin, error) {
	log := f.Log
	if log == nil {
		log = zap.NewNop()
	}

	if strings.TrimSpace(term) == "" {
		f.Metrics.ObserveLookup("empty", 0)
		return []types.Pin{}, nil
	}

	resp, err := f.Searcher.Search(ctx, term, location)
	if err != nil {
		f.Metrics.ObserveLookup("error", 0)
		log.Warn("search failed",
			zap.String("term", term),
			zap.String("location", location),
			zap.String("kind", yelp.KindName(err)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("searching %q near %q: %w", term, location, err)
	}

	pins, err := Map(resp.Businesses)
	if err != nil {
		f.Metrics.ObserveLookup("error", 0)
		log.Warn("mapping search results failed", zap.String("term", term), zap.Error(err))
		return nil, err
	}

	f.Metrics.ObserveLookup("ok", len(pins))
	log.Debug("search complete",
		zap.String("term", term),
		zap.String("location", location),
		zap.Int("total", resp.Total),
		zap.Int("pins", len(pins)),
	)
	return pins, nil
}
