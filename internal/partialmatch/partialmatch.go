//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

// Package partialmatch implements one-directional structural subset
// comparison for tool-call arguments.
package partialmatch

import "reflect"

// Match reports whether actual structurally contains expected.
//
// This is a subset check, not symmetric equality: every key of an expected
// map must exist in actual with a matching value, while extra actual keys
// are ignored. Expected arrays are prefix-compared: element i of expected
// must match element i of actual, and extra actual elements are ignored;
// an expected array longer than the actual one fails. Everything else is
// compared by strict value equality.
func Match(actual, expected any) bool {
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return false
		}
		for key, expValue := range exp {
			actValue, ok := act[key]
			if !ok {
				return false
			}
			if !Match(actValue, expValue) {
				return false
			}
		}
		return true
	case []any:
		act, ok := actual.([]any)
		if !ok {
			return false
		}
		if len(exp) > len(act) {
			return false
		}
		for i := range exp {
			if !Match(act[i], exp[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(actual, expected)
	}
}
