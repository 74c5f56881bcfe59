package spec

import "errors"

// Error kinds reported while parsing a map. Every error returned by this
// module wraps exactly one of them; match with errors.Is.
var (
	// ErrMalformedAttributes: a required attribute is missing or has the wrong
	// type, or a structural rule (points parity, ellipse size) is violated.
	ErrMalformedAttributes = errors.New("malformed attributes")
	// ErrDecompressing: the inflate stream failed for a reason other than its
	// natural end.
	ErrDecompressing = errors.New("failed to decompress")
	// ErrDecoding: the tile payload is not valid base64.
	ErrDecoding = errors.New("failed to decode")
	// ErrPrematureEnd: the document ended before a closing tag or the root
	// element was seen.
	ErrPrematureEnd = errors.New("premature end of document")
	// ErrUnsupported: a recognized format variant this module does not handle.
	ErrUnsupported = errors.New("not supported")
)
