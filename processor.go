package bfrun

import (
	"context"
	"fmt"
	"log/slog"
)

// CaseLoader hands processor id of total its share of the cases in batches.
// The channel is closed once the share is exhausted.
type CaseLoader func(ctx context.Context, id, total uint) <-chan []*Case

// EvaluationPersistor receives each evaluated batch. Reasons are already set.
type EvaluationPersistor func(cases []*Case, evals []*Evaluation) error

type Processor struct {
	Input     CaseLoader
	Persistor EvaluationPersistor
	Evaluator *Evaluator
	Selector  *Selector
	Logger    *slog.Logger
}

func NewProcessor(loader CaseLoader, persistor EvaluationPersistor, evaluator *Evaluator, selector *Selector, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = discardLogger()
	}
	return &Processor{
		Input:     loader,
		Evaluator: evaluator,
		Selector:  selector,
		Persistor: persistor,
		Logger:    logger,
	}
}

func (p *Processor) Run(ctx context.Context, id, total uint) error {
	input := p.Input(ctx, id, total)
	for {
		select {
		case cases, ok := <-input:
			if !ok {
				p.Logger.Debug("closing processor", "processor", id)
				return nil
			}
			evals := make([]*Evaluation, len(cases))
			for i, c := range cases {
				eval := p.Evaluator.Evaluate(c)
				eval.Reason = p.Selector.Select(c, eval)
				if eval.Reason != Passed {
					p.Logger.Debug("case failed", "case", c.Name, "reason", eval.Reason.String(), "error_kind", eval.ErrorKind)
				}
				evals[i] = eval
			}
			if err := p.Persistor(cases, evals); err != nil {
				return fmt.Errorf("processor %d: %w", id, err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// BatchLoader deals cases round robin across processors, batchSize at a
// time.
func BatchLoader(cases []*Case, batchSize uint) CaseLoader {
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	return func(ctx context.Context, id, total uint) <-chan []*Case {
		out := make(chan []*Case)
		go func() {
			defer close(out)
			batch := make([]*Case, 0, batchSize)
			send := func() bool {
				select {
				case out <- batch:
					batch = make([]*Case, 0, batchSize)
					return true
				case <-ctx.Done():
					return false
				}
			}
			for i := id; i < uint(len(cases)); i += total {
				batch = append(batch, cases[i])
				if uint(len(batch)) == batchSize && !send() {
					return
				}
			}
			if len(batch) > 0 {
				send()
			}
		}()
		return out
	}
}
