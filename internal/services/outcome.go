package services

import (
	"github.com/sirupsen/logrus"
)

// Outcome is the result of a best-effort side effect. Callers may inspect
// it but the primary flow never aborts on a failed Outcome.
type Outcome struct {
	Operation string
	Err       error
}

func succeeded(operation string) Outcome {
	return Outcome{Operation: operation}
}

func failed(operation string, err error) Outcome {
	return Outcome{Operation: operation, Err: err}
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// Log writes a warning for a failed outcome and does nothing otherwise.
func (o Outcome) Log(logger *logrus.Logger, fields logrus.Fields) {
	if o.Err == nil || logger == nil {
		return
	}
	entry := logger.WithError(o.Err).WithField("operation", o.Operation)
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Warn("Best-effort operation failed")
}
