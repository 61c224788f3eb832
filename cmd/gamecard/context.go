package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"gamecard/internal/domain/config"
	"gamecard/internal/logging"
)

type commandContext struct {
	configFlag string
	logLevel   string
	logFormat  string

	configOnce sync.Once
	config     config.Config
	configErr  error
}

// ensureConfig loads the config file once. A missing file falls back to
// the defaults; flags override the log settings.
func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		path := strings.TrimSpace(c.configFlag)
		if path == "" {
			path = defaultConfigPath
		}
		cfg, err := config.LoadOrDefault(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config %s: %w", path, err)
			return
		}
		if v := strings.TrimSpace(c.logLevel); v != "" {
			cfg.Log.Level = v
		}
		if v := strings.TrimSpace(c.logFormat); v != "" {
			cfg.Log.Format = v
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(w io.Writer) (*slog.Logger, error) {
	level, format := c.logLevel, c.logFormat
	if cfg, err := c.ensureConfig(); err == nil {
		level, format = cfg.Log.Level, cfg.Log.Format
	}
	return logging.New(logging.Options{Level: level, Format: format, Writer: w})
}
