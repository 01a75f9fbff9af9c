// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pins

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pinmap/pkg/types"
)

// FormatTable writes pins as a human-readable table to w.
func FormatTable(pins []types.Pin, w io.Writer) {
	if len(pins) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-40s  %11s  %12s\n", "#", "Title", "Lat", "Lng")
	fmt.Fprintln(w, strings.Repeat("-", 73))
	for i, p := range pins {
		fmt.Fprintf(w, "%-4d  %-40s  %11.6f  %12.6f\n", i+1, truncate(p.Title, 40), p.Lat, p.Lng)
	}
	fmt.Fprintf(w, "\n%d pins\n", len(pins))
}

// FormatJSON writes pins as indented JSON to w.
func FormatJSON(pins []types.Pin, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(pins)
}

// FormatYAML writes pins as a YAML sequence to w.
func FormatYAML(pins []types.Pin, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(pins); err != nil {
		return err
	}
	return enc.Close()
}

// Write renders pins in the named format: table, json or yaml.
func Write(pins []types.Pin, format string, w io.Writer) error {
	switch strings.ToLower(format) {
	case "", "table":
		FormatTable(pins, w)
		return nil
	case "json":
		return FormatJSON(pins, w)
	case "yaml", "yml":
		return FormatYAML(pins, w)
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// truncate shortens s to at most max runes, ending in "...".
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
