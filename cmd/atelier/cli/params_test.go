// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"
	"time"
)

type allTypesParams struct {
	Name     string        `flag:"name,n" desc:"a string" default:"anon"`
	Enabled  bool          `flag:"enabled" desc:"a bool" default:"true"`
	Count    int           `flag:"count" desc:"an int" default:"7"`
	BigCount int64         `flag:"big-count" desc:"an int64"`
	Price    float64       `flag:"price" desc:"a float" default:"1.5"`
	Wait     time.Duration `flag:"wait" desc:"a duration" default:"3s"`
	Tags     []string      `flag:"tags" desc:"a list" default:"a,b"`
	Ignored  string
}

func TestBindFlagsDefaults(t *testing.T) {
	var params allTypesParams
	flagSet := FlagsFromParams("test", &params)

	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if params.Name != "anon" || !params.Enabled || params.Count != 7 {
		t.Errorf("defaults not applied: %+v", params)
	}
	if params.Price != 1.5 || params.Wait != 3*time.Second {
		t.Errorf("defaults not applied: %+v", params)
	}
	if len(params.Tags) != 2 || params.Tags[0] != "a" {
		t.Errorf("slice default: %v", params.Tags)
	}
}

func TestBindFlagsParsesValues(t *testing.T) {
	var params allTypesParams
	flagSet := FlagsFromParams("test", &params)

	err := flagSet.Parse([]string{
		"-n", "kay",
		"--enabled=false",
		"--count", "3",
		"--big-count", "9000000000",
		"--price", "19.99",
		"--wait", "250ms",
		"--tags", "x,y,z",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if params.Name != "kay" || params.Enabled || params.Count != 3 {
		t.Errorf("parsed values: %+v", params)
	}
	if params.BigCount != 9000000000 || params.Price != 19.99 {
		t.Errorf("parsed values: %+v", params)
	}
	if params.Wait != 250*time.Millisecond || len(params.Tags) != 3 {
		t.Errorf("parsed values: %+v", params)
	}
}

func TestBindFlagsEmbeddedStruct(t *testing.T) {
	type withJSON struct {
		JSONOutput
		Status string `flag:"status" desc:"filter"`
	}
	var params withJSON
	flagSet := FlagsFromParams("test", &params)

	if err := flagSet.Parse([]string{"--json", "--status", "new"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !params.OutputJSON || params.Status != "new" {
		t.Errorf("embedded binding: %+v", params)
	}
}

func TestBindFlagsRejectsNonStruct(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-struct params")
		}
	}()
	FlagsFromParams("test", 42)
}

func TestCommandErrorExitCodes(t *testing.T) {
	cases := []struct {
		err  *CommandError
		want int
	}{
		{Validation("bad"), 2},
		{NotFound("missing"), 3},
		{Forbidden("nope"), 4},
		{Conflict("dup"), 5},
		{Auth("login"), 6},
		{Internal("boom"), 1},
	}
	for _, testCase := range cases {
		if got := testCase.err.ExitCode(); got != testCase.want {
			t.Errorf("%s: exit code %d, want %d", testCase.err.Category, got, testCase.want)
		}
	}
}
