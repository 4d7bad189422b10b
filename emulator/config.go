package emulator

import (
	"os"

	"github.com/BurntSushi/toml"
)

// DEFAULT_MEMORY_SIZE is the default size of machine memory.
const DEFAULT_MEMORY_SIZE = 65536

// Config is the emulator configuration.
type Config struct {
	MemorySize    uint32            `toml:"memory-size"`    // Minimum machine memory, in bytes.
	BoundsCheck   bool              `toml:"bounds-check"`   // Fault on out of range memory accesses.
	ScanMessages  bool              `toml:"scan-messages"`  // Echo '( ... )' messages.
	ParseMessages bool              `toml:"parse-messages"` // Echo '{ ... }' messages.
	Verbose       bool              `toml:"verbose"`        // Verbose assembler and cpu logging.
	Symbols       map[string]string `toml:"symbols"`        // Predefined symbol expressions.
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MemorySize:    DEFAULT_MEMORY_SIZE,
		ScanMessages:  true,
		ParseMessages: true,
	}
}

// ParseConfig parses a TOML configuration over the defaults.
func ParseConfig(data []byte) (cfg Config, err error) {
	cfg = DefaultConfig()

	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return
	}

	if cfg.MemorySize == 0 {
		err = ErrMemorySize
		return
	}

	return
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (cfg Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	cfg, err = ParseConfig(data)
	if err != nil {
		err = &ErrConfig{Path: path, Err: err}
	}

	return
}

// Define adds a predefined symbol expression.
func (cfg *Config) Define(name string, expr string) {
	if cfg.Symbols == nil {
		cfg.Symbols = map[string]string{}
	}
	cfg.Symbols[name] = expr
}
