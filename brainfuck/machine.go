package brainfuck

import (
	"unicode/utf8"
)

const (
	DefaultMaxInstructionExecutionCount uint = 10000
	DefaultMemoryCellCount              uint = 30000
)

type MachineConfig struct {
	MaxInstructionExecutionCount uint `toml:"max_instructions"`
	MemoryCellCount              uint `toml:"tape_length"`
}

// Machine runs programs. It only holds configuration, so one Machine can
// serve concurrent Execute calls as long as each call gets its own tape.
type Machine struct {
	Config MachineConfig
}

// Report describes a successful run.
type Report struct {
	Output               string
	InstructionsExecuted uint
	DataPointer          int
}

func NewMachine(mc *MachineConfig) *Machine {
	m := &Machine{}
	if mc != nil {
		m.Config = *mc
	}
	if m.Config.MaxInstructionExecutionCount == 0 {
		m.Config.MaxInstructionExecutionCount = DefaultMaxInstructionExecutionCount
	}
	if m.Config.MemoryCellCount == 0 {
		m.Config.MemoryCellCount = DefaultMemoryCellCount
	}
	return m
}

// NewTape allocates a zeroed tape of the configured length.
func (m *Machine) NewTape() []byte {
	return make([]byte, m.Config.MemoryCellCount)
}

var defaultMachine = NewMachine(nil)

// Execute runs p with the default machine configuration.
func Execute(p *Program, input []byte, tape []byte) (string, error) {
	return defaultMachine.Execute(p, input, tape)
}

// Execute runs p against tape, which is modified in place. Output is only
// returned when the whole program completes.
func (m *Machine) Execute(p *Program, input []byte, tape []byte) (string, error) {
	report, err := m.Run(p, input, tape)
	if err != nil {
		return "", err
	}
	return report.Output, nil
}

// Run is Execute with run statistics.
func (m *Machine) Run(p *Program, input []byte, tape []byte) (*Report, error) {
	e := &execution{
		memory: NewMemoryFromCells(tape),
		input:  NewInput(input),
		limit:  m.Config.MaxInstructionExecutionCount,
	}

	if !p.Empty() && len(tape) == 0 {
		return nil, e.fail(ErrTapeBoundsExceeded)
	}

	if err := e.run(p.instructions); err != nil {
		return nil, err
	}

	if !utf8.Valid(e.output) {
		return nil, e.fail(ErrInvalidOutput)
	}

	return &Report{
		Output:               string(e.output),
		InstructionsExecuted: e.instructionCount,
		DataPointer:          e.memory.MemoryPointer,
	}, nil
}

// execution is the state of a single run.
type execution struct {
	memory           *Memory
	input            *Input
	output           []byte
	instructionCount uint
	limit            uint
}

func (e *execution) fail(err error) *ExecuteError {
	return &ExecuteError{
		Err:                  err,
		InstructionsExecuted: e.instructionCount,
		DataPointer:          e.memory.MemoryPointer,
	}
}

// tick counts one dispatched instruction or loop guard check.
func (e *execution) tick() error {
	e.instructionCount++
	if e.instructionCount >= e.limit {
		return e.fail(ErrInfiniteLoop)
	}
	return nil
}

func (e *execution) run(ins []Instruction) error {
	for _, in := range ins {
		if in.Op == OP_WHILE {
			if err := e.loop(in.Body); err != nil {
				return err
			}
			continue
		}
		if err := e.step(in.Op); err != nil {
			return err
		}
		if err := e.tick(); err != nil {
			return err
		}
	}
	return nil
}

func (e *execution) step(op OP) error {
	mem := e.memory
	switch op {
	case OP_POINTER_RIGHT:
		if err := mem.MovePointerRight(); err != nil {
			return e.fail(err)
		}
	case OP_POINTER_LEFT:
		if err := mem.MovePointerLeft(); err != nil {
			return e.fail(err)
		}
	case OP_INC:
		if err := mem.Increment(); err != nil {
			return e.fail(err)
		}
	case OP_DEC:
		if err := mem.Decrement(); err != nil {
			return e.fail(err)
		}
	case OP_OUTPUT:
		val, err := mem.GetCurrentCell()
		if err != nil {
			return e.fail(err)
		}
		e.output = append(e.output, val)
	case OP_INPUT:
		b, ok := e.input.Next()
		if !ok {
			return e.fail(ErrNoInputLeft)
		}
		if err := mem.SetCurrentCell(b); err != nil {
			return e.fail(err)
		}
	default:
		// Parse never produces anything else.
		panic("brainfuck: unknown OP " + op.String())
	}
	return nil
}

// loop runs body while the current cell is non-zero. The guard is checked
// against whatever cell the pointer is on at each iteration boundary.
func (e *execution) loop(body []Instruction) error {
	for {
		val, err := e.memory.GetCurrentCell()
		if err != nil {
			return e.fail(err)
		}
		if err := e.tick(); err != nil {
			return err
		}
		if val == 0 {
			return nil
		}
		if len(body) == 0 {
			// Nothing in the body can ever change the guard cell.
			return e.fail(ErrInfiniteLoop)
		}
		if err := e.run(body); err != nil {
			return err
		}
	}
}
