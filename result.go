//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

// Package convcheck provides criteria-based assertions over recorded agent
// conversations: a judge-backed criteria check, a repeated-trial confidence
// check, and structural tool-call checks.
package convcheck

// Result is the outcome of one assertion operator.
//
// The host test framework decides whether to surface Message based on the
// polarity the assertion was used with; operators only report the verdict
// and its diagnostic.
type Result struct {
	pass    bool
	message string
}

// Pass reports whether the assertion held.
func (r Result) Pass() bool {
	return r.pass
}

// Message returns the diagnostic for the verdict.
func (r Result) Message() string {
	return r.message
}

// passResult builds a passing result.
func passResult(message string) Result {
	return Result{pass: true, message: message}
}

// failResult builds a failing result.
func failResult(message string) Result {
	return Result{pass: false, message: message}
}
