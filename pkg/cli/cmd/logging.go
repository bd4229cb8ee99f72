package cmd

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

//nolint:gochecknoglobals // logrus is process wide
var loggingOnce sync.Once

// configureLogging sends the debug command log to stderr. It is only visible with --verbose.
// Cobra's error stream is not used because the executor captures it.
func configureLogging(verbose bool) {
	loggingOnce.Do(func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableLevelTruncation: true})
	})

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)

		return
	}

	logrus.SetLevel(logrus.WarnLevel)
}
