package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
)

// Environment variables read at startup.
const (
	envLogLevel = "ICON_MOSAIC_LOG_LEVEL"
	envAssets   = "ICON_MOSAIC_ASSETS"
)

type config struct {
	// LogLevel defaults to info.
	LogLevel log.Level

	// AssetsDir is the default icon directory for both sub-commands, with
	// "~" already expanded. Empty when unset.
	AssetsDir string
}

func loadConfig(getenv func(string) string) (*config, error) {
	cfg := &config{LogLevel: log.InfoLevel}

	if lvl := strings.TrimSpace(getenv(envLogLevel)); lvl != "" {
		parsed, err := log.ParseLevel(lvl)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envLogLevel, err)
		}
		cfg.LogLevel = parsed
	}

	dir, err := expandPath(getenv(envAssets))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", envAssets, err)
	}
	cfg.AssetsDir = dir
	return cfg, nil
}

// setupLogging sends logs to stderr; stdout carries the MCP protocol.
func setupLogging(level log.Level) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(level)
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return homedir.Expand(path)
}
