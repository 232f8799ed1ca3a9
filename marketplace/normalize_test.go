// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketplace

import (
	"reflect"
	"testing"
)

func TestParseTags(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  ,  , ", nil},
		{"simple", "go,web", []string{"go", "web"}},
		{"trims and dedupes", " go , web, go ,", []string{"go", "web"}},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			got := ParseTags(testCase.input)
			if !reflect.DeepEqual(got, testCase.want) {
				t.Errorf("ParseTags(%q) = %v, want %v", testCase.input, got, testCase.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	t.Run("empty means unset", func(t *testing.T) {
		value, err := ParseAmount("   ")
		if err != nil {
			t.Fatalf("ParseAmount failed: %v", err)
		}
		if value != nil {
			t.Errorf("got %v, want nil", *value)
		}
	})

	t.Run("parses a number", func(t *testing.T) {
		value, err := ParseAmount("1500.50")
		if err != nil {
			t.Fatalf("ParseAmount failed: %v", err)
		}
		if value == nil || *value != 1500.50 {
			t.Errorf("got %v, want 1500.50", value)
		}
	})

	t.Run("rejects non-numbers and negatives", func(t *testing.T) {
		if _, err := ParseAmount("lots"); err == nil {
			t.Error("expected error for non-number")
		}
		if _, err := ParseAmount("-5"); err == nil {
			t.Error("expected error for negative amount")
		}
	})
}
