package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"nickandperla.net/bfrun"
)

var toolConfigPath = flag.String("config", "./config.toml", "The config file for bfrun tools to use")
var suiteName = flag.String("suite", "", "The name of the journaled suite to report on")
var keep = flag.Uint("prune", 0, "Keep only this many of the latest runs (0 = don't prune)")
var dryRun = flag.Bool("dry-run", false, "Preview what would be pruned without actually deleting")

func main() {
	flag.Parse()

	if *suiteName == "" {
		log.Fatalf("-suite is required")
	}

	toolConfig, err := bfrun.LoadToolConfig(*toolConfigPath)
	if err != nil {
		log.Fatalf("Unable to load bfrun config: %v", err)
	}

	logger, closeLog, err := bfrun.NewLogger(toolConfig.Log, os.Stderr)
	if err != nil {
		log.Fatalf("Unable to set up logging: %v", err)
	}
	defer closeLog()

	persist, err := bfrun.NewPersistence(toolConfig.Persistence, logger)
	if err != nil {
		log.Fatalf("Failed to create or initialize Persistence: %v", err)
	}
	defer persist.Shutdown()

	suite, err := persist.LoadSuite(*suiteName)
	if err != nil {
		log.Fatalf("Unable to load suite from DB: %v", err)
	}

	m, err := persist.QueryMetrics(suite.ID)
	if err != nil {
		log.Fatalf("Metrics query failed: %v", err)
	}

	fmt.Printf("Suite %s (%d cases journaled):\n", suite.Name, len(suite.Cases))
	fmt.Printf("  Runs:                      %d\n", m.Runs)
	fmt.Printf("  Latest run:                %d\n", m.LatestRun)
	fmt.Printf("  Cases in latest run:       %d\n", m.Cases)
	fmt.Printf("  Passed:                    %d\n", m.Passed)
	fmt.Printf("  Failed:                    %d\n", m.Failed)
	fmt.Printf("  Avg instructions executed: %.1f\n", m.AvgInstructionsExecuted)
	fmt.Printf("  Avg output distance:       %.1f\n", m.AvgDistance)

	reasons := make([]bfrun.FailReason, 0, len(m.ByReason))
	for r := range m.ByReason {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	for _, r := range reasons {
		fmt.Printf("    %-28s %d\n", r.String()+":", m.ByReason[r])
	}

	if *keep == 0 {
		return
	}

	if *dryRun {
		log.Printf("DRY RUN: previewing prune for suite %s", suite.Name)
	} else {
		log.Printf("Pruning suite %s down to %d runs", suite.Name, *keep)
	}

	result, err := persist.Prune(suite.ID, *keep, *dryRun)
	if err != nil {
		log.Fatalf("Prune failed: %v", err)
	}

	fmt.Printf("Suite %s prune %s:\n", suite.Name, map[bool]string{true: "(dry run)", false: "complete"}[*dryRun])
	fmt.Printf("  Total evaluations:    %d\n", result.TotalEvaluations)
	fmt.Printf("  Runs kept:            %d\n", result.KeptRuns)
	fmt.Printf("  Runs deleted:         %d\n", result.DeletedRuns)
	fmt.Printf("  Evaluations deleted:  %d\n", result.DeletedEvaluations)
}
