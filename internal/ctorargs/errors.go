package ctorargs

import "errors"

// Error kinds. Every error returned by this package wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	ErrMalformedABI           = errors.New("malformed ABI")
	ErrUnsupportedType        = errors.New("unsupported type")
	ErrDecode                 = errors.New("decode error")
	ErrParameterCountMismatch = errors.New("parameter count mismatch")
	ErrArgumentCountMismatch  = errors.New("argument count mismatch")
	ErrInvalidNumericLiteral  = errors.New("invalid numeric literal")
)

// kinds is the ordered list used by Kind.
var kinds = []error{
	ErrMalformedABI,
	ErrUnsupportedType,
	ErrDecode,
	ErrParameterCountMismatch,
	ErrArgumentCountMismatch,
	ErrInvalidNumericLiteral,
}

// Kind returns the sentinel that err wraps, or nil if err did not come from
// this package.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
