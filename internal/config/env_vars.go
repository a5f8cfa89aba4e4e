package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	appNameEnvVar   = "NOTES_APP_NAME"
	folderEnvVar    = "NOTES_DATA_DIR"
	envEnvVar       = "NOTES_ENV"
	logLevelEnvVar  = "NOTES_LOG_LEVEL"
	logFormatEnvVar = "NOTES_LOG_FORMAT"
)

type EnvVars struct {
	file *File
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return lookup(appNameEnvVar, e.file.value(func(f *File) string { return f.AppName }), "Notes")
}

// GetDataFolder is where the credential and config files live. It is resolved
// from the environment only, since the config file itself is found through it.
func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, filepath.Join(homeDir(), ".notes"))
}

func (EnvVars) GetEnv() string {
	return strings.ToUpper(GetEnv(envEnvVar, "DEV"))
}

func (e EnvVars) GetLogLevel() string {
	return strings.ToLower(lookup(logLevelEnvVar, e.file.value(func(f *File) string { return f.Log.Level }), "warn"))
}

func (e EnvVars) GetLogFormat() string {
	return strings.ToLower(lookup(logFormatEnvVar, e.file.value(func(f *File) string { return f.Log.Format }), "console"))
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// lookup resolves a setting with environment > file > default precedence.
func lookup(envVar, fileValue, defaultValue string) string {
	if fileValue != "" {
		defaultValue = fileValue
	}
	return GetEnv(envVar, defaultValue)
}

func lookupDuration(envVar, fileValue string, defaultValue time.Duration) time.Duration {
	raw := lookup(envVar, fileValue, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}
