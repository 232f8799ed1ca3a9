// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHashDeterminism(t *testing.T) {
	data := []byte("final delivery v2")
	first := Hash(data)
	second := Hash(data)
	if first != second {
		t.Error("same input produced different digests")
	}
	if Hash([]byte("final delivery v3")) == first {
		t.Error("different inputs produced the same digest")
	}
}

func TestStreamingMatchesOneShot(t *testing.T) {
	data := bytes.Repeat([]byte("chunk of delivery data "), 1024)

	hasher := NewHasher()
	// Feed in uneven pieces; the digest must not depend on write
	// boundaries.
	for offset := 0; offset < len(data); {
		end := offset + 37
		if end > len(data) {
			end = len(data)
		}
		hasher.Write(data[offset:end])
		offset = end
	}

	if hasher.Sum() != Hash(data) {
		t.Error("streaming digest diverged from one-shot digest")
	}
}

func TestHashReader(t *testing.T) {
	data := "delivery content"
	digest, size, err := HashReader(strings.NewReader(data))
	if err != nil {
		t.Fatalf("HashReader failed: %v", err)
	}
	if size != int64(len(data)) {
		t.Errorf("size = %d, want %d", size, len(data))
	}
	if digest != Hash([]byte(data)) {
		t.Error("reader digest diverged from one-shot digest")
	}
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "delivery.bin")
	data := []byte("file contents")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	digest, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	if digest != Hash(data) {
		t.Error("file digest diverged from one-shot digest")
	}

	if _, err := HashFile(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	digest := Hash([]byte("x"))

	formatted := Format(digest)
	if len(formatted) != 64 {
		t.Errorf("formatted length = %d, want 64", len(formatted))
	}

	parsed, err := Parse(formatted)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed != digest {
		t.Error("round-trip mismatch")
	}

	if _, err := Parse("zz"); err == nil {
		t.Error("expected error for non-hex input")
	}
	if _, err := Parse("abcd"); err == nil {
		t.Error("expected error for short input")
	}
}

func TestFormatRef(t *testing.T) {
	digest := Hash([]byte("x"))
	ref := FormatRef(digest)
	if !strings.HasPrefix(ref, "dlv-") {
		t.Errorf("ref = %q, want dlv- prefix", ref)
	}
	if len(ref) != len("dlv-")+12 {
		t.Errorf("ref length = %d", len(ref))
	}
	if !strings.HasPrefix(Format(digest), ref[len("dlv-"):]) {
		t.Error("ref is not a prefix of the full digest")
	}
}
