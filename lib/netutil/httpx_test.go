// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"strings"
	"testing"
)

func TestReadResponse(t *testing.T) {
	data, err := ReadResponse(strings.NewReader(`{"ok":true}`))
	if err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("got %q", data)
	}
}

func TestDecodeResponse(t *testing.T) {
	var decoded struct {
		Detail string `json:"detail"`
	}
	if err := DecodeResponse(strings.NewReader(`{"detail":"not found"}`), &decoded); err != nil {
		t.Fatalf("DecodeResponse failed: %v", err)
	}
	if decoded.Detail != "not found" {
		t.Errorf("Detail = %q", decoded.Detail)
	}
}

func TestDecodeResponseInvalidJSON(t *testing.T) {
	var decoded map[string]any
	if err := DecodeResponse(strings.NewReader("<html>"), &decoded); err == nil {
		t.Error("expected error for non-JSON body")
	}
}

func TestErrorBody(t *testing.T) {
	if got := ErrorBody(strings.NewReader("boom")); got != "boom" {
		t.Errorf("ErrorBody = %q", got)
	}
}
