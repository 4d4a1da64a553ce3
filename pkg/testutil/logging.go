package testutil

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Importing testutil keeps test output quiet. Logs are only written when the
// test binary runs verbosely.
func init() {
	logrus.SetLevel(logrus.TraceLevel)
	if !verbose(os.Args) {
		logrus.SetOutput(io.Discard)
	}
}

func verbose(args []string) bool {
	for _, arg := range args {
		if arg == "-test.v" || strings.HasPrefix(arg, "-test.v=") && arg != "-test.v=false" {
			return true
		}
	}
	return false
}
