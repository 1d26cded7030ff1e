package testhelpers

import "github.com/imobsite/listing-manager/internal/logger"

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() logger.Logger {
	return logger.NewNopLogger()
}
