package bfrun

// FailReason says why a case didn't pass. Zero means it did.
type FailReason uint

const (
	Passed                     FailReason = 0
	FailedParse                FailReason = 1
	FailedMachineRun           FailReason = 2
	FailedExpectedError        FailReason = 3
	FailedOutput               FailReason = 4
	FailedInstructionsExecuted FailReason = 5
)

const (
	DefaultBatchSize uint = 100
	DefaultWorkers   uint = 4
)

func (r FailReason) String() string {
	switch r {
	case Passed:
		return "passed"
	case FailedParse:
		return "parse failed"
	case FailedMachineRun:
		return "machine run failed"
	case FailedExpectedError:
		return "expected error not raised"
	case FailedOutput:
		return "output mismatch"
	case FailedInstructionsExecuted:
		return "instruction budget exceeded"
	}
	return "unknown"
}
