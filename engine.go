package bfrun

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

type Engine struct {
	Processors []*Processor
}

func NewEngine(workers uint, loader CaseLoader, persistor EvaluationPersistor, evaluator *Evaluator, selector *Selector, logger *slog.Logger) *Engine {
	if workers == 0 {
		workers = 1
	}
	processors := make([]*Processor, workers)
	for i := range processors {
		processors[i] = NewProcessor(loader, persistor, evaluator, selector, logger)
	}
	return &Engine{
		Processors: processors,
	}
}

// Run starts every processor and waits for them. The first processor error
// cancels the others and is returned.
func (e *Engine) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make([]error, len(e.Processors))
	var wg sync.WaitGroup
	count := uint(len(e.Processors))
	for i, processor := range e.Processors {
		wg.Add(1)
		go func(id uint, processor *Processor) {
			defer wg.Done()
			if err := processor.Run(ctx, id, count); err != nil {
				errs[id] = err
				cancel()
			}
		}(uint(i), processor)
	}

	wg.Wait()
	return firstError(errs)
}

// firstError prefers a real failure over the cancellations it caused.
func firstError(errs []error) error {
	var canceled error
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			if canceled == nil {
				canceled = err
			}
		default:
			return err
		}
	}
	return canceled
}
