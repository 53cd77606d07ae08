package bfrun

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/jinzhu/copier"

	bf "nickandperla.net/bfrun/brainfuck"
)

type ToolConfig struct {
	BatchSize   uint               `toml:"batch_size"`
	Workers     uint               `toml:"workers"`
	Machine     bf.MachineConfig   `toml:"machine"`
	Persistence *PersistenceConfig `toml:"persistence"`
	Log         LogConfig          `toml:"log"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

func DefaultToolConfig() *ToolConfig {
	return &ToolConfig{
		BatchSize: DefaultBatchSize,
		Workers:   DefaultWorkers,
		Machine: bf.MachineConfig{
			MaxInstructionExecutionCount: bf.DefaultMaxInstructionExecutionCount,
			MemoryCellCount:              bf.DefaultMemoryCellCount,
		},
		Persistence: &PersistenceConfig{
			Name:          "bfrun.db",
			Path:          ".",
			SQLitePragmas: []string{"busy_timeout(5000)"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadToolConfig decodes the TOML file at path on top of the defaults, so
// keys missing from the file keep their default values.
func LoadToolConfig(path string) (*ToolConfig, error) {
	config := DefaultToolConfig()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode tool config [%s]: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tool config [%s]: %w", path, err)
	}
	return config, nil
}

func (c *ToolConfig) Validate() error {
	if c.BatchSize == 0 {
		return fmt.Errorf("batch_size must be greater than 0")
	}
	if c.Workers == 0 {
		return fmt.Errorf("workers must be greater than 0")
	}
	if c.Persistence == nil {
		return fmt.Errorf("persistence section is required")
	}
	return nil
}

// OverlayMachineConfig applies each override on top of base in order. Zero
// fields in an override leave the value underneath alone.
func OverlayMachineConfig(base bf.MachineConfig, overrides ...bf.MachineConfig) (bf.MachineConfig, error) {
	merged := base
	for _, o := range overrides {
		o := o
		if err := copier.CopyWithOption(&merged, &o, copier.Option{IgnoreEmpty: true}); err != nil {
			return base, fmt.Errorf("failed to overlay machine config: %w", err)
		}
	}
	return merged, nil
}
