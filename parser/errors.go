package parser

import "errors"

var (
	// ErrInvalidDocument is returned when the document was processed but
	// diagnostics were recorded. The diagnostics list passed to Parse holds
	// the details.
	ErrInvalidDocument = errors.New("pbn: invalid puzzle set document")

	// ErrMalformedXML is returned when the tokenizer cannot proceed. The
	// diagnostics list ends with an xml_malformed entry wrapping the
	// tokenizer's error and its location.
	ErrMalformedXML = errors.New("pbn: malformed XML")
)
