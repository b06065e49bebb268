package wasm

import "github.com/asmtowasm/asmtowasm/internal/errs"

func newError(context, format string, args ...any) *errs.Error {
	return errs.New(errs.Emit, 0, context, format, args...)
}
