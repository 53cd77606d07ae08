package bfrun

import (
	"context"
	"errors"
	"fmt"
	"sync"
	test "testing"
)

func makeCases(n int) []*Case {
	cases := make([]*Case, n)
	for i := range cases {
		cases[i] = &Case{
			ID:       uint(i + 1),
			Name:     fmt.Sprintf("case-%d", i),
			Source:   ",.",
			Input:    string(rune('a' + i%26)),
			Expected: string(rune('a' + i%26)),
		}
	}
	return cases
}

func drain(ch <-chan []*Case) [][]*Case {
	var batches [][]*Case
	for b := range ch {
		batches = append(batches, b)
	}
	return batches
}

func TestBatchLoader(t *test.T) {
	cases := makeCases(7)
	loader := BatchLoader(cases, 2)

	batches := drain(loader(context.Background(), 0, 2))
	var got []*Case
	for _, b := range batches {
		if len(b) > 2 {
			t.Errorf("Batch larger than batch size: %d", len(b))
		}
		got = append(got, b...)
	}
	expected := []*Case{cases[0], cases[2], cases[4], cases[6]}
	if len(got) != len(expected) {
		t.Fatalf("Processor 0 got %d cases, expected %d", len(got), len(expected))
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("Unexpected case at %d: %s", i, got[i].Name)
		}
	}

	if n := len(drain(loader(context.Background(), 1, 2))); n != 2 {
		t.Errorf("Processor 1 expected 2 batches, got %d", n)
	}
}

func TestBatchLoaderCanceled(t *test.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// The loader must close its channel without a reader.
	ch := BatchLoader(makeCases(10), 1)(ctx, 0, 1)
	for range ch {
	}
}

func TestEngineRun(t *test.T) {
	cases := makeCases(50)
	var mu sync.Mutex
	seen := make(map[uint]*Evaluation)
	persistor := func(cs []*Case, evals []*Evaluation) error {
		mu.Lock()
		defer mu.Unlock()
		for i, c := range cs {
			seen[c.ID] = evals[i]
		}
		return nil
	}

	engine := NewEngine(4, BatchLoader(cases, 3), persistor, makeEvaluator(), NewSelector(SelectorConfig{}), nil)
	if len(engine.Processors) != 4 {
		t.Fatalf("Expected 4 processors, got %d", len(engine.Processors))
	}
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Engine.Run failed: %v", err)
	}

	if len(seen) != len(cases) {
		t.Fatalf("Expected %d evaluations, got %d", len(cases), len(seen))
	}
	for _, c := range cases {
		e := seen[c.ID]
		if e.CaseID != c.ID || e.Reason != Passed {
			t.Errorf("Case %s: unexpected evaluation %+v", c.Name, e)
		}
	}
}

func TestEngineRunPersistorError(t *test.T) {
	boom := errors.New("disk full")
	persistor := func([]*Case, []*Evaluation) error { return boom }

	engine := NewEngine(3, BatchLoader(makeCases(30), 1), persistor, makeEvaluator(), NewSelector(SelectorConfig{}), nil)
	err := engine.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Expected the persistor error, got %v", err)
	}
}

func TestEngineRunCanceled(t *test.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	persistor := func([]*Case, []*Evaluation) error { return nil }

	engine := NewEngine(2, BatchLoader(makeCases(10), 1), persistor, makeEvaluator(), NewSelector(SelectorConfig{}), nil)
	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestFirstError(t *test.T) {
	failure := errors.New("failure")
	if err := firstError([]error{nil, context.Canceled, failure}); err != failure {
		t.Errorf("Expected the real error, got %v", err)
	}
	if err := firstError([]error{nil, context.Canceled}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected cancellation, got %v", err)
	}
	if err := firstError([]error{nil, nil}); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}
