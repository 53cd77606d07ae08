package bfrun

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// SuiteResult is the outcome of one RunSuite call. Evaluations are in the
// order the suite lists its cases.
type SuiteResult struct {
	SuiteID     uint
	RunID       uint
	Total       uint
	Passed      uint
	Failed      uint
	Evaluations []*Evaluation
}

func (r *SuiteResult) Failures() []*Evaluation {
	var failures []*Evaluation
	for _, e := range r.Evaluations {
		if e.Reason != Passed {
			failures = append(failures, e)
		}
	}
	return failures
}

// RunSuite evaluates every case of suite. When persist is non-nil the suite
// and every evaluation are journaled under a fresh run id.
func RunSuite(ctx context.Context, config *ToolConfig, suite *Suite, persist *Persistence, logger *slog.Logger) (*SuiteResult, error) {
	if logger == nil {
		logger = discardLogger()
	}
	if err := suite.Validate(); err != nil {
		return nil, err
	}

	mc, err := OverlayMachineConfig(config.Machine, suite.Machine)
	if err != nil {
		return nil, err
	}

	result := &SuiteResult{Total: uint(len(suite.Cases))}

	if persist != nil {
		if err := persist.SaveSuite(suite); err != nil {
			return nil, err
		}
		if result.RunID, err = persist.NextRunID(suite.ID); err != nil {
			return nil, err
		}
		result.SuiteID = suite.ID
	}

	logger.Info("running suite",
		"suite", suite.Name,
		"cases", len(suite.Cases),
		"run", result.RunID,
		"max_instructions", mc.MaxInstructionExecutionCount,
		"tape_length", mc.MemoryCellCount)

	order := make(map[*Case]int, len(suite.Cases))
	for i, c := range suite.Cases {
		order[c] = i
	}
	evaluations := make([]*Evaluation, len(suite.Cases))

	var mu sync.Mutex
	persistor := func(cases []*Case, evals []*Evaluation) error {
		mu.Lock()
		defer mu.Unlock()
		for i, eval := range evals {
			eval.RunID = result.RunID
			evaluations[order[cases[i]]] = eval
		}
		if persist == nil {
			return nil
		}
		return persist.SaveEvaluations(evals)
	}

	engine := NewEngine(
		config.Workers,
		BatchLoader(suite.Cases, config.BatchSize),
		persistor,
		NewEvaluator(mc),
		NewSelector(suite.SelectorConfig),
		logger)

	if err := engine.Run(ctx); err != nil {
		return nil, fmt.Errorf("suite [%s] run [%d] aborted: %w", suite.Name, result.RunID, err)
	}
	// Loaders stop dealing once ctx is done, so a clean return may still be short.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("suite [%s] run [%d] aborted: %w", suite.Name, result.RunID, err)
	}

	result.Evaluations = evaluations
	for _, e := range evaluations {
		if e.Reason == Passed {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	failures := result.Failures()
	sort.SliceStable(failures, func(i, j int) bool { return failures[i].Distance > failures[j].Distance })
	for _, f := range failures {
		logger.Warn("case failed",
			"suite", suite.Name,
			"case", f.CaseName,
			"reason", f.Reason.String(),
			"error_kind", f.ErrorKind,
			"distance", f.Distance)
	}

	logger.Info("suite finished",
		"suite", suite.Name,
		"run", result.RunID,
		"passed", result.Passed,
		"failed", result.Failed)

	return result, nil
}
