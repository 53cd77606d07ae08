package bfrun

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	bf "nickandperla.net/bfrun/brainfuck"
)

// A Suite is a named set of cases that share machine and selector settings.
type Suite struct {
	ID             uint
	Name           string           `gorm:"uniqueIndex" toml:"name"`
	Machine        bf.MachineConfig `gorm:"embedded;embeddedPrefix:machine_" toml:"machine"`
	SelectorConfig SelectorConfig   `gorm:"embedded;embeddedPrefix:select_" toml:"select"`
	Cases          []*Case          `toml:"case"`
}

// LoadSuite decodes a suite file. A suite without a name is named after the
// file.
func LoadSuite(path string) (*Suite, error) {
	var suite Suite
	if _, err := toml.DecodeFile(path, &suite); err != nil {
		return nil, fmt.Errorf("failed to decode suite [%s]: %w", path, err)
	}
	if suite.Name == "" {
		base := filepath.Base(path)
		suite.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := suite.Validate(); err != nil {
		return nil, fmt.Errorf("invalid suite [%s]: %w", path, err)
	}
	return &suite, nil
}

func (s *Suite) Validate() error {
	if len(s.Cases) == 0 {
		return fmt.Errorf("suite [%s] has no cases", s.Name)
	}
	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("case [%d] has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("case name [%s] is used more than once", c.Name)
		}
		seen[c.Name] = true
		if c.ExpectedError != "" && !knownErrorKinds[c.ExpectedError] {
			return fmt.Errorf("case [%s] expects unknown error kind [%s]", c.Name, c.ExpectedError)
		}
	}
	return nil
}
