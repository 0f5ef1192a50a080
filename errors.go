package csvimport

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// Engine-internal exceptions. These propagate to the caller (or, via the
// importer reducer, become a PARSE_ERROR/VALIDATE_ERROR message) and are
// distinct from data-level ValidationError values, which never raise.
var (
	ErrInvalidSchema     = errors.New("ErrInvalidSchema")
	ErrUnknownLocale     = errors.New("ErrUnknownLocale")
	ErrUnknownColumnType = errors.New("ErrUnknownColumnType")
	ErrRuleSpecInvalid   = errors.New("ErrRuleSpecInvalid")
)

// wrapSchemaErr attaches stack-bearing context to a NewSchema failure.
func wrapSchemaErr(sentinel error, format string, args ...interface{}) error {
	return pkgerrors.Wrapf(sentinel, format, args...)
}

// wrapRuleSpecErr attaches stack-bearing context to a ParseRuleSpec failure.
func wrapRuleSpecErr(sentinel error, format string, args ...interface{}) error {
	return pkgerrors.Wrapf(sentinel, format, args...)
}
