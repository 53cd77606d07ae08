package bfrun

import (
	test "testing"

	bf "nickandperla.net/bfrun/brainfuck"
)

func makeEvaluator() *Evaluator {
	return NewEvaluator(bf.MachineConfig{
		MaxInstructionExecutionCount: 10000,
		MemoryCellCount:              30,
	})
}

func TestNewEvaluator(t *test.T) {
	if makeEvaluator() == nil {
		t.Errorf("NewEvaluator() returned nil")
	}
}

func TestEvaluate(t *test.T) {
	evaluator := makeEvaluator()
	c := &Case{ID: 7, SuiteID: 3, Name: "echo", Source: ",.", Input: "a", Expected: "a"}

	result := evaluator.Evaluate(c)
	if result == nil {
		t.Fatalf("Evaluator.Evaluate() returned nil")
	}
	if result.CaseID != 7 || result.SuiteID != 3 || result.CaseName != "echo" {
		t.Errorf("Evaluation not linked to its case: %+v", result)
	}
	if !result.Parsed || !result.MachineRun {
		t.Errorf("Expected a parsed and completed run, got parsed=%v run=%v", result.Parsed, result.MachineRun)
	}
	if string(result.Output) != "a" {
		t.Errorf("Unexpected output: %q", result.Output)
	}
	if result.InstructionCount != 2 || result.InstructionsExecuted != 2 {
		t.Errorf("Unexpected counts: %d instructions, %d executed", result.InstructionCount, result.InstructionsExecuted)
	}
	if result.MachineError != nil || result.ErrorKind != "" {
		t.Errorf("Unexpected error on clean run: %s", result.ErrorKind)
	}
	if result.Distance != 0 {
		t.Errorf("Unexpected distance: %d", result.Distance)
	}
	if len(c.Program) == 0 {
		t.Errorf("Evaluate should leave the compiled program on the case")
	}
}

func TestEvaluateParseFailure(t *test.T) {
	result := makeEvaluator().Evaluate(&Case{Name: "broken", Source: "+[", Expected: "ab"})

	if result.Parsed || result.MachineRun {
		t.Errorf("Broken source should neither parse nor run")
	}
	if result.ErrorKind != "UnmatchedLoop" {
		t.Errorf("Unexpected error kind: %s", result.ErrorKind)
	}
	if result.MachineError == nil {
		t.Errorf("Expected an error message")
	}
	if result.Distance != 2 {
		t.Errorf("Expected distance 2 to the expected output, got %d", result.Distance)
	}
}

func TestEvaluateMachineFailure(t *test.T) {
	result := makeEvaluator().Evaluate(&Case{Name: "spin", Source: "+[]"})

	if !result.Parsed || result.MachineRun {
		t.Errorf("Expected parse without a completed run")
	}
	if result.ErrorKind != "InfiniteLoop" {
		t.Errorf("Unexpected error kind: %s", result.ErrorKind)
	}
	if result.InstructionsExecuted != 2 {
		t.Errorf("Expected 2 instructions executed before the abort, got %d", result.InstructionsExecuted)
	}
}

func TestEvaluateCaseMachineOverride(t *test.T) {
	c := &Case{
		Name:    "capped",
		Source:  "+[>+<]",
		Machine: bf.MachineConfig{MaxInstructionExecutionCount: 10},
	}
	result := makeEvaluator().Evaluate(c)

	if result.ErrorKind != "InfiniteLoop" {
		t.Fatalf("Unexpected error kind: %s", result.ErrorKind)
	}
	if result.InstructionsExecuted != 10 {
		t.Errorf("Expected the case ceiling of 10 to apply, got %d", result.InstructionsExecuted)
	}
}

func TestEvaluateUsesPackedProgram(t *test.T) {
	c := &Case{Name: "packed", Source: ",.", Input: "z", Expected: "z"}
	if _, err := c.Compile(); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	result := makeEvaluator().Evaluate(c)
	if string(result.Output) != "z" {
		t.Errorf("Unexpected output: %q", result.Output)
	}

	// A stale packed program is ignored in favour of the source.
	c.Source = ",.,."
	c.Input = "zy"
	result = makeEvaluator().Evaluate(c)
	if string(result.Output) != "zy" {
		t.Errorf("Stale packed program was used, output %q", result.Output)
	}
}

func TestDistance(t *test.T) {
	cases := []struct {
		expected, actual string
		distance         int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"", "ab", 2},
		{"abc", "abd", 2},
		{"abc", "ab", 1},
	}
	for _, c := range cases {
		if d := distance(c.expected, c.actual); d != c.distance {
			t.Errorf("distance(%q, %q) = %d, expected %d", c.expected, c.actual, d, c.distance)
		}
	}
}
