package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const configFileName = "config.yaml"

type Config interface {
	EnvConfig
	APIConfig
	SessionConfig
}

type EnvConfig interface {
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
	GetLogLevel() string
	GetLogFormat() string
}

type mainConfig struct {
	EnvVars
	API
	Session
}

// New builds the configuration from the environment, layered over
// <data folder>/config.yaml when that file exists.
func New() (Config, error) {
	file, err := LoadFile(filepath.Join(EnvVars{}.GetDataFolder(), configFileName))
	if err != nil {
		return nil, errors.Wrap(err, "[config.New] LoadFile")
	}
	return NewWithFile(file), nil
}

// NewWithFile builds the configuration from the environment and an already parsed file.
func NewWithFile(file *File) Config {
	if file == nil {
		file = &File{}
	}
	return mainConfig{
		EnvVars: EnvVars{file: file},
		API:     API{file: file},
		Session: Session{file: file},
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
