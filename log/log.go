package log

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// FormatError renders err together with its stack trace if it carries one.
func FormatError(err error) string {
	stErr, ok := err.(stackTracer)
	if ok {
		b := &bytes.Buffer{}
		fmt.Fprintf(b, "%s\n", stErr)

		for _, f := range stErr.StackTrace() {
			fmt.Fprintf(b, "  %+v\n", f)
		}

		return b.String()
	}

	return fmt.Sprint(err)
}

// ErrorFields returns the fields to attach to a log entry about err. The
// stack trace is only included when the logger would print debug messages.
func ErrorFields(l *logrus.Logger, err error) logrus.Fields {
	f := logrus.Fields{logrus.ErrorKey: err.Error()}
	if l.IsLevelEnabled(logrus.DebugLevel) {
		if _, ok := err.(stackTracer); ok {
			f["stacktrace"] = FormatError(err)
		}
	}

	return f
}
