package testutil

import "testing"

// Step prefixes for scenario-style subtests.
const (
	stepGiven = "Given"
	stepWhen  = "When"
	stepThen  = "Then"
	stepAnd   = "And"
)

// Given runs fn as a subtest named after the scenario precondition. Like
// t.Run it reports whether fn passed, so later steps can be skipped.
func Given(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, stepGiven, desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, stepWhen, desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, stepThen, desc, fn)
}

// And continues the previous step, e.g. a second expectation on one export.
func And(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, stepAnd, desc, fn)
}

func step(t *testing.T, kind, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return t.Run(kind+" "+desc, fn)
}
