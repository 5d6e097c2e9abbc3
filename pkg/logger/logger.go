package logger

import (
	"go.uber.org/zap"
)

// Init builds the global logger. Production gets the JSON encoder,
// everything else the human-readable development preset.
func Init(appEnv string) error {
	var (
		log *zap.Logger
		err error
	)

	if appEnv == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(log)
	return nil
}
