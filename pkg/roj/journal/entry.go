package journal

import (
	"github.com/sambeau/roj/pkg/roj/errors"
	"github.com/sambeau/roj/pkg/roj/roj"
)

// FromRun builds the entry for a finished run. res may be nil when the
// source could not be read.
func FromRun(source, mode string, res *roj.Result, err error) Entry {
	e := Entry{Source: source, Mode: mode, Status: StatusOK}

	if res != nil {
		e.Lines = res.Lines
		e.Duration = res.Duration
		if res.Value != nil {
			e.Result = res.String()
		}
	}

	switch {
	case err == nil:
	case errors.IsHalt(err):
		e.Status = StatusHalted
	default:
		e.Status = StatusError
		e.Message = err.Error()
		if re, ok := errors.As(err); ok {
			e.ErrorCode = re.Code
			e.Message = re.Message
		}
	}
	return e
}
