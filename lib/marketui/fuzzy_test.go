// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	"testing"

	"github.com/junegunn/fzf/src/util"
)

func matchHelper(t *testing.T, text, pattern string) FuzzyResult {
	t.Helper()
	slab := util.MakeSlab(100*1024, 2048)
	return fuzzyMatch(text, []rune(pattern), slab)
}

func TestFuzzyMatchBasic(t *testing.T) {
	result := matchHelper(t, "Build landing page", "build")
	if result.Score <= 0 {
		t.Fatal("expected a positive score for a prefix match")
	}
	if len(result.Positions) != 5 {
		t.Errorf("expected 5 matched positions, got %d", len(result.Positions))
	}
}

func TestFuzzyMatchNonContiguous(t *testing.T) {
	result := matchHelper(t, "Rework billing pipeline", "rbp")
	if result.Score <= 0 {
		t.Fatal("expected non-contiguous characters to match")
	}
	if len(result.Positions) != 3 {
		t.Errorf("expected 3 matched positions, got %d", len(result.Positions))
	}
}

func TestFuzzyMatchCaseInsensitive(t *testing.T) {
	lower := matchHelper(t, "API gateway refresh", "api")
	upper := matchHelper(t, "API gateway refresh", "API")
	if lower.Score <= 0 || upper.Score <= 0 {
		t.Fatal("expected both casings to match")
	}
	if lower.Score != upper.Score {
		t.Errorf("case should not affect score: %d vs %d", lower.Score, upper.Score)
	}
}

func TestFuzzyMatchNoMatch(t *testing.T) {
	result := matchHelper(t, "Build landing page", "zzz")
	if result.Score != 0 {
		t.Errorf("expected zero score, got %d", result.Score)
	}
	if result.Positions != nil {
		t.Errorf("expected nil positions, got %v", result.Positions)
	}
}

func TestFuzzyMatchEmptyPattern(t *testing.T) {
	result := matchHelper(t, "anything", "")
	if result.Score != 0 {
		t.Errorf("empty pattern should not score, got %d", result.Score)
	}
}

func TestFuzzyMatchOrderingPrefersContiguous(t *testing.T) {
	contiguous := matchHelper(t, "billing", "bill")
	scattered := matchHelper(t, "bottle infill", "bill")
	if contiguous.Score <= scattered.Score {
		t.Errorf("contiguous match should outscore scattered: %d vs %d",
			contiguous.Score, scattered.Score)
	}
}
