package store

import (
	"strings"

	"go.uber.org/zap"
)

type Config struct {
	file    string
	workers int
	strict  bool
	logger  *zap.SugaredLogger
}

type ConfigFunc = func(c *Config)

func (c *Config) File(file string) {
	file = strings.TrimSpace(file)
	if file == "" {
		panic("file can't be blank")
	}
	if strings.Contains(file, "?") {
		panic("file can't contain ?")
	}
	c.file = file
}

// Workers bounds both the open connections and the compression goroutines of PutMany.
func (c *Config) Workers(workers int) {
	if workers < 1 {
		panic("workers can't be < 1")
	}
	c.workers = workers
}

// Strict makes Get fail on stored data that does not decode instead of returning empty text.
func (c *Config) Strict(strict bool) {
	c.strict = strict
}

func (c *Config) Logger(logger *zap.SugaredLogger) {
	c.logger = logger
}
