// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult holds the outcome of a fuzzy match: a relevance score
// (0 means no match) and the rune positions in the text that matched.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// fuzzyMatch scores pattern against text with the fzf V2 algorithm.
// Matching is case-insensitive: both sides are lowercased before
// scoring, which keeps position indices aligned with the original
// text. A nil slab allocates per call; pass a shared slab on hot
// paths.
func fuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}

	lowered := []rune(strings.ToLower(string(pattern)))
	chars := util.ToChars([]byte(strings.ToLower(text)))

	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Score <= 0 {
		return FuzzyResult{}
	}

	matched := FuzzyResult{Score: result.Score}
	if positions != nil {
		matched.Positions = *positions
	}
	return matched
}
