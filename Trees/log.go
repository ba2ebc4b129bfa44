package Trees

import "github.com/sirupsen/logrus"

// Log receives structural events (rotations, recolorings, splits, merges) at
// Debug level. It starts at Warn; raise it with Log.SetLevel. Don't replace
// the pointer, subpackages hold entries derived from it.
var Log = newLog()

func newLog() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// Debugging reports whether Debug events are emitted. Callers check it before
// building fields on hot paths.
func Debugging() bool {
	return Log.IsLevelEnabled(logrus.DebugLevel)
}
