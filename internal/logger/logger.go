package logger

import (
	"go.uber.org/zap"
)

// Init builds the global zap logger. Production environments get JSON
// output and sampling, everything else gets the development console
// encoder.
func Init(environment string) error {
	var (
		logger *zap.Logger
		err    error
	)

	if environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(logger)

	return nil
}
