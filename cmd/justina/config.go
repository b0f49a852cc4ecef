package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// config is the optional on-disk settings file, grounded on
// lookbusy1344-arm_emulator/config/config.go's memory-limit/flag TOML
// surface, narrowed to the two buffer-size knobs Justina's interpreter
// actually exposes.
type config struct {
	ProgramBufferBytes int `toml:"program_buffer_bytes"`
	ImmediateBufferBytes int `toml:"immediate_buffer_bytes"`
}

// loadConfig reads path if it exists, returning a zero-value config (meaning
// "use the interpreter's built-in defaults") when path is empty or absent —
// the config file is optional, never required to run justina.
func loadConfig(path string) (config, error) {
	var cfg config
	if path == "" {
 return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
 return cfg, nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
