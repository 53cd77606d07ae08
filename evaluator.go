package bfrun

import (
	"errors"

	"github.com/xrash/smetrics"

	bf "nickandperla.net/bfrun/brainfuck"
)

// An Evaluation is the outcome of running one case once. Whether the case
// passed is decided afterwards by the Selector and stored in Reason.
type Evaluation struct {
	ID                   uint
	CaseID               uint `gorm:"index"`
	SuiteID              uint `gorm:"index"`
	RunID                uint `gorm:"index"`
	CaseName             string
	Parsed               bool
	MachineRun           bool
	ErrorKind            string
	MachineError         *string
	Output               []byte `gorm:"type:blob"`
	InstructionCount     uint
	InstructionsExecuted uint
	Distance             int
	Reason               FailReason
}

type Evaluator struct {
	Config bf.MachineConfig
}

func NewEvaluator(mc bf.MachineConfig) *Evaluator {
	return &Evaluator{Config: mc}
}

// Evaluate runs c on a fresh tape. A case may carry its own machine
// settings, which win over the evaluator's.
func (e *Evaluator) Evaluate(c *Case) *Evaluation {
	eval := &Evaluation{
		CaseID:   c.ID,
		SuiteID:  c.SuiteID,
		CaseName: c.Name,
	}

	program, err := e.program(c)
	if err != nil {
		eval.fail(err)
		eval.Distance = distance(c.Expected, "")
		return eval
	}
	eval.Parsed = true
	eval.InstructionCount = uint(program.Len())

	mc, err := OverlayMachineConfig(e.Config, c.Machine)
	if err != nil {
		eval.fail(err)
		eval.Distance = distance(c.Expected, "")
		return eval
	}

	machine := bf.NewMachine(&mc)
	report, err := machine.Run(program, []byte(c.Input), machine.NewTape())
	if err != nil {
		eval.fail(err)
		var eerr *bf.ExecuteError
		if errors.As(err, &eerr) {
			eval.InstructionsExecuted = eerr.InstructionsExecuted
		}
	} else {
		eval.MachineRun = true
		eval.Output = []byte(report.Output)
		eval.InstructionsExecuted = report.InstructionsExecuted
	}

	eval.Distance = distance(c.Expected, string(eval.Output))
	return eval
}

// program prefers the packed form stored with the case and falls back to
// compiling the source.
func (e *Evaluator) program(c *Case) (*bf.Program, error) {
	if len(c.Program) > 0 {
		if p, err := bf.Unpack(c.Program); err == nil && p.String() == c.Source {
			return p, nil
		}
	}
	return c.Compile()
}

func (eval *Evaluation) fail(err error) {
	msg := err.Error()
	eval.MachineError = &msg
	eval.ErrorKind = bf.ErrorKind(err)
}

// distance is the edit distance between expected and actual output, with
// substitutions costing as much as an insert plus a delete.
func distance(expected, actual string) int {
	return smetrics.WagnerFischer(expected, actual, 1, 1, 2)
}
