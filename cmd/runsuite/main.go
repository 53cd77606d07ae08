package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"nickandperla.net/bfrun"
)

var toolConfigPath = flag.String("config", "./config.toml", "The config file for bfrun tools to use")
var suitePath = flag.String("suite", "./suite.toml", "The suite of cases to run")
var noJournal = flag.Bool("no-journal", false, "Run without recording results in the journal")

func main() {
	flag.Parse()
	os.Exit(run())
}

// run returns the process exit code: 1 when any case failed. Setup errors
// are fatal.
func run() int {
	toolConfig, err := bfrun.LoadToolConfig(*toolConfigPath)
	if err != nil {
		log.Fatalf("Unable to load bfrun config: %v", err)
	}

	logger, closeLog, err := bfrun.NewLogger(toolConfig.Log, os.Stderr)
	if err != nil {
		log.Fatalf("Unable to set up logging: %v", err)
	}
	defer closeLog()

	suite, err := bfrun.LoadSuite(*suitePath)
	if err != nil {
		log.Fatalf("Unable to load suite: %v", err)
	}

	var persist *bfrun.Persistence
	if !*noJournal {
		if persist, err = bfrun.NewPersistence(toolConfig.Persistence, logger); err != nil {
			log.Fatalf("Failed to create or initialize Persistence: %v", err)
		}
		defer func() {
			if err := persist.Shutdown(); err != nil {
				logger.Error("failed to close journal", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := bfrun.RunSuite(ctx, toolConfig, suite, persist, logger)
	if err != nil {
		logger.Error("suite run failed", "suite", suite.Name, "error", err)
		return 1
	}

	fmt.Printf("Suite %s run %d:\n", suite.Name, result.RunID)
	for _, e := range result.Evaluations {
		status := "ok"
		if e.Reason != bfrun.Passed {
			status = "FAIL (" + e.Reason.String() + ")"
		}
		fmt.Printf("  %-30s %s\n", e.CaseName, status)
		if e.Reason != bfrun.Passed && e.MachineError != nil {
			fmt.Printf("  %-30s %s\n", "", *e.MachineError)
		}
	}
	fmt.Printf("  Passed: %d/%d\n", result.Passed, result.Total)

	if result.Failed > 0 {
		return 1
	}
	return 0
}
