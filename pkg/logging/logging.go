package logging

import (
	"go.uber.org/zap"
)

// New builds the root logger for the given environment. Local and development
// environments get a human-readable console encoder; everything else gets
// production JSON output.
func New(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
