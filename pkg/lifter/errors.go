package lifter

import "github.com/asmtowasm/asmtowasm/internal/errs"

func newError(line int, context, format string, args ...any) *errs.Error {
	return errs.New(errs.Lift, line, context, format, args...)
}
