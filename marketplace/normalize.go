// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketplace

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTags splits a comma-separated tag string into a clean list:
// entries are trimmed, empties dropped, duplicates removed with the
// first occurrence winning. Returns nil for an input with no tags so
// the field is omitted from payloads entirely.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var tags []string
	seen := make(map[string]bool)
	for _, piece := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(piece)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// ParseAmount converts a numeric form field (budget, proposed price)
// into an optional float. An empty or whitespace string means "not
// provided" and returns nil rather than zero, so the field is omitted
// from the payload instead of sent as 0.
func ParseAmount(raw string) (*float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, fmt.Errorf("marketplace: %q is not a number", raw)
	}
	if value < 0 {
		return nil, fmt.Errorf("marketplace: amount cannot be negative")
	}
	return &value, nil
}
