package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// File mirrors config.yaml. Every field is optional; durations use time.ParseDuration syntax.
type File struct {
	AppName string `yaml:"app_name"`
	API     struct {
		URL         string `yaml:"url"`
		Timeout     string `yaml:"timeout"`
		TokenCookie string `yaml:"token_cookie"`
	} `yaml:"api"`
	Session struct {
		TTL            string `yaml:"ttl"`
		ResendCooldown string `yaml:"resend_cooldown"`
	} `yaml:"session"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// LoadFile parses a config file. A missing file yields an empty File.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[config.LoadFile] read")
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "[config.LoadFile] parse %s", path)
	}
	return &f, nil
}

func (f *File) value(get func(*File) string) string {
	if f == nil {
		return ""
	}
	return get(f)
}
