package logging

import (
	"os"
	"sync"
)

var (
	instance *Logger
	mu       sync.RWMutex
)

// InitLogger builds the process-wide logger from config.
// It replaces any previously initialized instance.
func InitLogger(config *Config) error {
	logger, err := NewLogger(config)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		_ = instance.Close()
	}
	instance = logger
	return nil
}

// GetLogger returns the process-wide logger.
// Before InitLogger is called it returns an info-level stdout logger.
func GetLogger() *Logger {
	mu.RLock()
	logger := instance
	mu.RUnlock()
	if logger != nil {
		return logger
	}

	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = NewWriterLogger(os.Stdout, LevelInfo)
	}
	return instance
}
