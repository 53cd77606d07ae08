package bfrun

type Selector struct {
	Config SelectorConfig
}

type SelectorConfig struct {
	InstructionsExecuted uint `toml:"instructions_executed"`
}

func NewSelector(config SelectorConfig) *Selector {
	return &Selector{Config: config}
}

// Select decides whether e satisfies c. A zero InstructionsExecuted budget
// means no budget.
func (s *Selector) Select(c *Case, e *Evaluation) FailReason {
	if c.ExpectedError != "" {
		if e.ErrorKind != c.ExpectedError {
			return FailedExpectedError
		}
		return Passed
	}

	if !e.Parsed {
		return FailedParse
	}
	if !e.MachineRun {
		return FailedMachineRun
	}
	if string(e.Output) != c.Expected {
		return FailedOutput
	}
	if s.Config.InstructionsExecuted > 0 && e.InstructionsExecuted > s.Config.InstructionsExecuted {
		return FailedInstructionsExecuted
	}
	return Passed
}
