package logger

import (
	"go.uber.org/zap"
)

// New creates a zap logger configured for the given application environment.
// Development environments get a human-readable console logger; everything
// else gets production JSON output.
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewNamed creates an environment-appropriate logger named after the service.
func NewNamed(env, service string) (*zap.Logger, error) {
	log, err := New(env)
	if err != nil {
		return nil, err
	}
	return log.Named(service), nil
}
