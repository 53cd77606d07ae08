package bfrun

import (
	"bytes"
	"context"
	"strings"
	test "testing"

	bf "nickandperla.net/bfrun/brainfuck"
)

func makeToolConfig(t *test.T) *ToolConfig {
	config := DefaultToolConfig()
	config.BatchSize = 2
	config.Workers = 3
	config.Persistence.Path = t.TempDir()
	return config
}

func makeRunnerSuite() *Suite {
	return &Suite{
		Name:           "runner",
		SelectorConfig: SelectorConfig{InstructionsExecuted: 5000},
		Cases: []*Case{
			{Name: "echo", Source: ",.", Input: "a", Expected: "a"},
			{Name: "hello", Source: HELLO_WORLD_SOURCE, Expected: "Hello World!\n"},
			{Name: "missing input", Source: ",", ExpectedError: "NoInputLeft"},
			{Name: "spin", Source: "+[>+<]", ExpectedError: "InfiniteLoop", Machine: bf.MachineConfig{MaxInstructionExecutionCount: 50}},
			{Name: "wrong", Source: "+++.", Expected: "x"},
			{Name: "bad char", Source: "+p", Expected: ""},
		},
	}
}

const HELLO_WORLD_SOURCE = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

func TestRunSuiteWithoutJournal(t *test.T) {
	var buf bytes.Buffer
	logger, _, _ := NewLogger(LogConfig{Level: "info"}, &buf)

	suite := makeRunnerSuite()
	result, err := RunSuite(context.Background(), makeToolConfig(t), suite, nil, logger)
	if err != nil {
		t.Fatalf("RunSuite failed: %v", err)
	}
	if result.Total != 6 || result.Passed != 4 || result.Failed != 2 {
		t.Errorf("Unexpected totals: %+v", result)
	}
	if result.RunID != 0 {
		t.Errorf("Unjournaled run should have no run id, got %d", result.RunID)
	}

	for i, e := range result.Evaluations {
		if e.CaseName != suite.Cases[i].Name {
			t.Errorf("Evaluation %d is for %s, expected %s", i, e.CaseName, suite.Cases[i].Name)
		}
	}
	if r := result.Evaluations[4].Reason; r != FailedOutput {
		t.Errorf("Expected output mismatch for 'wrong', got %v", r)
	}
	if r := result.Evaluations[5].Reason; r != FailedParse {
		t.Errorf("Expected parse failure for 'bad char', got %v", r)
	}
	if string(result.Evaluations[1].Output) != "Hello World!\n" {
		t.Errorf("Unexpected hello output: %q", result.Evaluations[1].Output)
	}

	failures := result.Failures()
	if len(failures) != 2 {
		t.Errorf("Expected 2 failures, got %d", len(failures))
	}
	if !strings.Contains(buf.String(), "case=wrong") || !strings.Contains(buf.String(), "suite finished") {
		t.Errorf("Unexpected log output: %s", buf.String())
	}
}

func TestRunSuiteJournaled(t *test.T) {
	config := makeToolConfig(t)
	persist, err := NewPersistence(config.Persistence, nil)
	if err != nil {
		t.Fatalf("Failed to create Persistence: %v", err)
	}
	defer persist.Shutdown()

	for run := uint(1); run <= 2; run++ {
		result, err := RunSuite(context.Background(), config, makeRunnerSuite(), persist, nil)
		if err != nil {
			t.Fatalf("RunSuite failed: %v", err)
		}
		if result.RunID != run {
			t.Errorf("Expected run id %d, got %d", run, result.RunID)
		}
		for _, e := range result.Evaluations {
			if e.RunID != run || e.ID == 0 {
				t.Errorf("Evaluation %s not journaled under run %d: %+v", e.CaseName, run, e)
			}
		}
	}

	suite, err := persist.LoadSuite("runner")
	if err != nil {
		t.Fatalf("LoadSuite failed: %v", err)
	}
	if len(suite.Cases) != 6 {
		t.Errorf("Re-running should not duplicate cases, got %d", len(suite.Cases))
	}

	m, err := persist.QueryMetrics(suite.ID)
	if err != nil {
		t.Fatalf("QueryMetrics failed: %v", err)
	}
	if m.Runs != 2 || m.Cases != 6 || m.Passed != 4 || m.Failed != 2 {
		t.Errorf("Unexpected metrics: %+v", m)
	}
}

func TestRunSuiteInvalid(t *test.T) {
	if _, err := RunSuite(context.Background(), makeToolConfig(t), &Suite{Name: "empty"}, nil, nil); err == nil {
		t.Errorf("Expected an error for an empty suite")
	}
}

func TestRunSuiteCanceled(t *test.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// A canceled run either finishes before noticing or reports the cancellation.
	result, err := RunSuite(ctx, makeToolConfig(t), makeRunnerSuite(), nil, nil)
	if err == nil && result.Total != 6 {
		t.Errorf("Unexpected result: %+v", result)
	}
}
