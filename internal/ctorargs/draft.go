package ctorargs

import (
	"fmt"
	"strings"
)

// Draft is the editable state of a constructor-argument blob. It owns the
// blob, the constructor params it is checked against and the result of the
// last validation. Edits only land when the re-encoded blob decodes cleanly.
type Draft struct {
	params []Param
	blob   string // hex, no 0x prefix
	values []Value
	err    error
}

// NewDraft extracts the constructor from abiJSON and wraps blob. Only an ABI
// problem is fatal; an undecodable blob yields a Draft whose Status reports
// the failure.
func NewDraft(abiJSON, blob string) (*Draft, error) {
	params, err := ExtractConstructor(abiJSON)
	if err != nil {
		return nil, err
	}
	return NewDraftFromParams(params, blob), nil
}

// NewDraftFromParams wraps blob for an already extracted parameter list.
func NewDraftFromParams(params []Param, blob string) *Draft {
	d := &Draft{params: params}
	d.SetBlob(blob)
	return d
}

// NewDefaultDraft starts from a zero-valued blob.
func NewDefaultDraft(params []Param) (*Draft, error) {
	blob, err := EncodeDefaults(params)
	if err != nil {
		return nil, err
	}
	return NewDraftFromParams(params, blob), nil
}

// Params returns the constructor inputs.
func (d *Draft) Params() []Param { return d.params }

// Blob returns the committed blob without a 0x prefix.
func (d *Draft) Blob() string { return d.blob }

// Values returns the decoded values of the committed blob, or the error that
// made it invalid.
func (d *Draft) Values() ([]Value, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.values, nil
}

// Status is the validation state of a Draft.
type Status struct {
	Valid bool
	Err   error // nil when Valid
}

// Message is the short inline text shown in place of the parameter table.
func (s Status) Message() string {
	switch Kind(s.Err) {
	case nil:
		return ""
	case ErrParameterCountMismatch:
		return "Invalid number of arguments"
	default:
		return "Failed to decode data"
	}
}

// Status reports whether the committed blob decodes against the params.
func (d *Draft) Status() Status {
	return Status{Valid: d.err == nil, Err: d.err}
}

// SetBlob replaces the blob wholesale, as when the raw hex is edited
// directly. The new blob is committed even when it does not decode; Status
// reports the outcome.
func (d *Draft) SetBlob(blob string) {
	d.blob = trimHexPrefix(blob)
	d.values, d.err = Decode(d.params, d.blob)
}

// Update sets every param named name to value. The current blob is decoded,
// the field substituted, everything re-encoded and then decoded again. The
// Draft is only modified if all of that succeeds; otherwise the error is
// returned and the previous blob stays committed.
func (d *Draft) Update(name, value string) error {
	blob, values, err := d.propose(name, value)
	if err != nil {
		return err
	}
	d.blob = blob
	d.values = values
	d.err = nil
	return nil
}

func (d *Draft) propose(name, value string) (string, []Value, error) {
	current, err := Decode(d.params, d.blob)
	if err != nil {
		return "", nil, fmt.Errorf("decoding current blob: %w", err)
	}

	raw := make([]string, len(d.params))
	for i, p := range d.params {
		if p.Name == name {
			raw[i] = value
		} else {
			raw[i] = current[i].String()
		}
	}

	blob, err := EncodeValues(d.params, raw)
	if err != nil {
		return "", nil, err
	}
	values, err := Decode(d.params, blob)
	if err != nil {
		return "", nil, fmt.Errorf("validating %s=%s: %w", name, strings.TrimSpace(value), err)
	}
	return blob, values, nil
}
