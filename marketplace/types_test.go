// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketplace

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshal(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"RFC 3339 with zone", `"2026-01-02T15:04:05Z"`, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)},
		{"zone-less with microseconds", `"2026-01-02T15:04:05.123456"`, time.Date(2026, 1, 2, 15, 4, 5, 123456000, time.UTC)},
		{"zone-less without fraction", `"2026-01-02T15:04:05"`, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)},
		{"null", `null`, time.Time{}},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(testCase.input), &ts); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", testCase.input, err)
			}
			if !ts.Equal(testCase.want) {
				t.Errorf("got %v, want %v", ts.Time, testCase.want)
			}
		})
	}

	t.Run("garbage rejected", func(t *testing.T) {
		var ts Timestamp
		if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestRegisterRequestSkillsNeverOmitted(t *testing.T) {
	encoded, err := json.Marshal(RegisterRequest{
		Email: "e@x.com", Password: "pw", FullName: "E", Role: RoleEmployer,
		Skills: []string{},
	})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if string(decoded["skills"]) != "[]" {
		t.Errorf("skills = %s, want []", decoded["skills"])
	}
}

func TestProfileUpdatePartialEncoding(t *testing.T) {
	bio := "new bio"
	encoded, err := json.Marshal(ProfileUpdate{Bio: &bio})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(encoded) != `{"bio":"new bio"}` {
		t.Errorf("encoded = %s, want only the set field", encoded)
	}
}
