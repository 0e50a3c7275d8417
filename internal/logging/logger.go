package logging

import (
	"go.uber.org/zap"
)

// NewLogger builds the application logger. Production config writes JSON to
// stderr; DEBUG=true switches to the human-readable development encoder.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
