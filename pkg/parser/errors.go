package parser

import "github.com/asmtowasm/asmtowasm/internal/errs"

// newError builds a parser-kind error pinned to a 1-based source line.
func newError(line int, context, format string, args ...any) *errs.Error {
	return errs.New(errs.Parse, line, context, format, args...)
}
