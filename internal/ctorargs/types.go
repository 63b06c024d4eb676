package ctorargs

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// WordSize is the width of one encoded argument in bytes.
const WordSize = 32

// wordHexLen is the width of one encoded argument in hex characters.
const wordHexLen = WordSize * 2

// Type is one supported ABI parameter type. The set is closed: the only
// implementations are the variants declared in this file, each of which owns
// its encode and decode rule. Supporting a new ABI type means adding a variant
// here and registering it in supportedTypes.
type Type interface {
	// Name is the canonical ABI type name, e.g. "uint256".
	Name() string
	// Encode converts a textual argument into one 32-byte word.
	Encode(raw string) ([]byte, error)
	// Decode converts one 32-byte word into a typed value.
	Decode(word []byte) (Value, error)

	sealed()
}

// Variants.
var (
	Uint256 Type = uint256Type{}
	Address Type = addressType{}
)

var supportedTypes = map[string]Type{
	Uint256.Name(): Uint256,
	Address.Name(): Address,
}

// LookupType returns the variant for an ABI type name.
func LookupType(name string) (Type, error) {
	t, ok := supportedTypes[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedType, name)
	}
	return t, nil
}

// Value is a decoded argument. Both supported types are unsigned integers
// underneath, so the numeric form is always available.
type Value struct {
	Type Type
	Int  *big.Int
}

// String renders the value the way a user would type it back in: decimal for
// uint256, checksummed hex for address.
func (v Value) String() string {
	if v.Int == nil {
		return ""
	}
	if v.Type == Address {
		return common.BigToAddress(v.Int).Hex()
	}
	return v.Int.String()
}

// Word returns the value encoded as a 64-char hex word.
func (v Value) Word() string {
	return hex.EncodeToString(common.LeftPadBytes(v.Int.Bytes(), WordSize))
}

// ── uint256 ──────────────────────────────────────────────────────────────────

type uint256Type struct{}

func (uint256Type) Name() string { return "uint256" }

func (uint256Type) Encode(raw string) ([]byte, error) {
	return encodeBigInt(raw)
}

func (uint256Type) Decode(word []byte) (Value, error) {
	if len(word) != WordSize {
		return Value{}, fmt.Errorf("%w: uint256 word is %d bytes, want %d", ErrDecode, len(word), WordSize)
	}
	return Value{Type: Uint256, Int: new(big.Int).SetBytes(word)}, nil
}

func (uint256Type) sealed() {}

// ── address ──────────────────────────────────────────────────────────────────

type addressType struct{}

func (addressType) Name() string { return "address" }

// Encode pads the literal's integer value to a full word. Values wider than
// 160 bits still encode; they are rejected when the word is decoded.
func (addressType) Encode(raw string) ([]byte, error) {
	return encodeBigInt(raw)
}

func (addressType) Decode(word []byte) (Value, error) {
	if len(word) != WordSize {
		return Value{}, fmt.Errorf("%w: address word is %d bytes, want %d", ErrDecode, len(word), WordSize)
	}
	for _, b := range word[:WordSize-common.AddressLength] {
		if b != 0 {
			return Value{}, fmt.Errorf("%w: address word has non-zero high bytes: 0x%x", ErrDecode, word)
		}
	}
	addr := common.BytesToAddress(word[WordSize-common.AddressLength:])
	return Value{Type: Address, Int: new(big.Int).SetBytes(addr.Bytes())}, nil
}

func (addressType) sealed() {}

// ── helpers ──────────────────────────────────────────────────────────────────

// parseBigInt accepts the same literals as a JavaScript BigInt: decimal, or
// 0x / 0o / 0b prefixed, surrounded by optional whitespace. Negative values
// and anything wider than 256 bits are rejected.
func parseBigInt(raw string) (*big.Int, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.ContainsAny(s, "_+-") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNumericLiteral, raw)
	}
	base := 10
	if len(s) > 1 && s[0] == '0' && (s[1] < '0' || s[1] > '9') {
		// 0x, 0o, 0b. A bare leading zero stays decimal.
		base = 0
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNumericLiteral, raw)
	}
	if n.BitLen() > 8*WordSize {
		return nil, fmt.Errorf("%w: %q does not fit in 256 bits", ErrInvalidNumericLiteral, raw)
	}
	return n, nil
}

func encodeBigInt(raw string) ([]byte, error) {
	n, err := parseBigInt(raw)
	if err != nil {
		return nil, err
	}
	return common.LeftPadBytes(n.Bytes(), WordSize), nil
}
