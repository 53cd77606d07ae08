package bfrun

import (
	bf "nickandperla.net/bfrun/brainfuck"
)

var knownErrorKinds = map[string]bool{
	"UnknownInstruction": true,
	"UnmatchedLoop":      true,
	"NoInputLeft":        true,
	"InfiniteLoop":       true,
	"TapeBoundsExceeded": true,
	"InvalidOutput":      true,
}

// A Case is one program run against a fixed input. It passes when the output
// matches Expected, or, when ExpectedError is set, when the run fails with
// that error kind.
type Case struct {
	ID            uint             `toml:"-"`
	SuiteID       uint             `gorm:"uniqueIndex:idx_suite_case" toml:"-"`
	Name          string           `gorm:"uniqueIndex:idx_suite_case" toml:"name"`
	Source        string           `toml:"source"`
	Input         string           `toml:"input"`
	Expected      string           `toml:"expected"`
	ExpectedError string           `toml:"expected_error"`
	Machine       bf.MachineConfig `gorm:"embedded;embeddedPrefix:machine_" toml:"machine"`
	Program       []byte           `gorm:"type:blob" toml:"-"`
	Evaluations   []*Evaluation    `toml:"-"`
}

// Compile parses the source and stores the packed program. Sources that do
// not parse leave Program empty.
func (c *Case) Compile() (*bf.Program, error) {
	p, err := bf.Parse(c.Source)
	if err != nil {
		c.Program = nil
		return nil, err
	}
	c.Program = bf.Pack(p)
	return p, nil
}
