package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("LOCTRACK_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("LOCTRACK_DEBUG") == "true"
}

// GetEnvName returns the deployment environment name (development/production).
func GetEnvName() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	return env
}

// GetSecret returns the symmetric key used to sign bearer tokens.
// Empty means no key was configured and the caller must supply one.
func GetSecret() string {
	return os.Getenv("JWT_SECRET_KEY")
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("LOCTRACK_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/loctrack"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("LOCTRACK_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

func GetListen() string {
	return os.Getenv("LOCTRACK_LISTEN")
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("LOCTRACK_PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return 8080
	}
	return port
}
