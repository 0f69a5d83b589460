package document

import "errors"

// Domain errors for document generation
var (
	// ErrInvalidDate reports a date field that is missing or not in
	// YYYY-MM-DD form. Builders never guess a date.
	ErrInvalidDate = errors.New("invalid date field")

	// ErrEncodeFailed reports a failure in the underlying office-format
	// encoder. No partial file is produced.
	ErrEncodeFailed = errors.New("document encoding failed")
)
