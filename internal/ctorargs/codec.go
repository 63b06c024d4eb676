// Package ctorargs maps contract constructor arguments between three forms:
// a comma-separated argument string, a hex blob of 32-byte words, and typed
// values described by the constructor's ABI fragment.
package ctorargs

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Param is one constructor input as declared in the ABI.
type Param struct {
	Name string
	Type string // canonical ABI type name, e.g. "uint256"
}

// ExtractConstructor parses an ABI JSON array and returns the constructor's
// inputs in declaration order. It fails with ErrMalformedABI when the JSON is
// not a valid ABI or has no constructor entry.
func ExtractConstructor(abiJSON string) ([]Param, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedABI, err)
	}

	// abi.ABI has no way to tell a missing constructor from one with no
	// inputs, so look for the entry directly.
	var entries []struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(abiJSON), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedABI, err)
	}
	found := false
	for _, e := range entries {
		if e.Type == "constructor" {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: no constructor entry", ErrMalformedABI)
	}

	params := make([]Param, len(parsed.Constructor.Inputs))
	for i, in := range parsed.Constructor.Inputs {
		params[i] = Param{Name: in.Name, Type: in.Type.String()}
	}
	return params, nil
}

// resolveTypes maps every param to its variant, failing on the first
// unsupported type before any work is done.
func resolveTypes(params []Param) ([]Type, error) {
	types := make([]Type, len(params))
	for i, p := range params {
		t, err := LookupType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", p.Name, err)
		}
		types[i] = t
	}
	return types, nil
}

// Decode splits blob into words and decodes one value per param. The blob may
// carry a 0x prefix. It never returns partial results.
func Decode(params []Param, blob string) ([]Value, error) {
	types, err := resolveTypes(params)
	if err != nil {
		return nil, err
	}

	clean := trimHexPrefix(blob)
	if len(clean)%wordHexLen != 0 {
		return nil, fmt.Errorf("%w: blob length %d is not a multiple of %d hex chars", ErrDecode, len(clean), wordHexLen)
	}
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if words := len(data) / WordSize; words != len(params) {
		return nil, fmt.Errorf("%w: blob holds %d words, constructor declares %d params", ErrParameterCountMismatch, words, len(params))
	}

	values := make([]Value, len(params))
	for i, t := range types {
		v, err := t.Decode(data[i*WordSize : (i+1)*WordSize])
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", params[i].Name, err)
		}
		values[i] = v
	}
	return values, nil
}

// EncodeDefaults returns a blob of zero words, one per param.
func EncodeDefaults(params []Param) (string, error) {
	if _, err := resolveTypes(params); err != nil {
		return "", err
	}
	return strings.Repeat("0", wordHexLen*len(params)), nil
}

// Encode encodes a comma-separated argument string. The number of arguments
// must match the number of params.
func Encode(params []Param, args string) (string, error) {
	split := SplitArgs(args)
	if len(split) != len(params) {
		return "", fmt.Errorf("%w: constructor expects %d args, got %d", ErrArgumentCountMismatch, len(params), len(split))
	}
	return EncodeValues(params, split)
}

// EncodeValues encodes one textual value per param.
func EncodeValues(params []Param, values []string) (string, error) {
	if len(values) != len(params) {
		return "", fmt.Errorf("%w: constructor expects %d args, got %d", ErrArgumentCountMismatch, len(params), len(values))
	}
	types, err := resolveTypes(params)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for i, t := range types {
		word, err := t.Encode(values[i])
		if err != nil {
			return "", fmt.Errorf("param %q: %w", params[i].Name, err)
		}
		buf.Write(word)
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

// SplitArgs splits a comma-separated argument string. An empty string means
// no arguments.
func SplitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	return strings.Split(args, ",")
}

func trimHexPrefix(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
