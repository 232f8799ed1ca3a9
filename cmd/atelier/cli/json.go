// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"os"
	"reflect"
)

// JSONOutput is an embeddable params struct that adds --json support.
// Embedding provides the flag (through [BindFlags] tag processing)
// and the [JSONOutput.EmitJSON] method for conditional output.
//
//	type listParams struct {
//	    cli.JSONOutput
//	    Status string `flag:"status" desc:"filter by status"`
//	}
//
//	// In Run:
//	if done, err := params.EmitJSON(ideas); done {
//	    return err
//	}
//	// ... text formatting ...
type JSONOutput struct {
	OutputJSON bool `flag:"json" desc:"output as JSON"`
}

// EmitJSON writes result as indented JSON to stdout when --json is
// set. Returns (true, nil) on success, (true, err) on write failure,
// or (false, nil) when the caller should fall through to text output.
//
// Nil slices are normalized to empty slices so consumers never see a
// bare null where a list belongs.
func (j *JSONOutput) EmitJSON(result any) (bool, error) {
	if !j.OutputJSON {
		return false, nil
	}
	return true, PrintJSON(normalizeNilSlice(result))
}

// PrintJSON marshals value as indented JSON to stdout.
func PrintJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// normalizeNilSlice converts a nil slice into an empty one of the
// same type. Non-slice values pass through untouched.
func normalizeNilSlice(value any) any {
	reflected := reflect.ValueOf(value)
	if reflected.Kind() == reflect.Slice && reflected.IsNil() {
		return reflect.MakeSlice(reflected.Type(), 0, 0).Interface()
	}
	return value
}
