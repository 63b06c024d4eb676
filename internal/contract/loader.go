package contract

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Errors.
var (
	ErrUnknownFormat   = errors.New("unrecognised contract file")
	ErrInvalidMetadata = errors.New("invalid compiler metadata")
	ErrNoBytecode      = errors.New("contract has no bytecode")
)

// Format identifies which file layout a Contract was loaded from.
type Format string

const (
	FormatCompiled Format = "compiled" // compile-service record with embedded metadata
	FormatArtifact Format = "artifact" // Hardhat / Foundry artifact
	FormatABI      Format = "abi"      // bare ABI array, no bytecode
)

// Contract is everything the inspect, params and deploy commands need from a
// contract file, whatever its layout.
type Contract struct {
	Name         string
	Format       Format
	ABI          json.RawMessage
	Bytecode     []byte            // empty for FormatABI
	Metadata     *CompilerMetadata // nil unless the file carried solc metadata
	MetadataJSON string            // compact metadata JSON, "" when Metadata is nil
	SourceCode   string
}

// ABIString returns the ABI array as a JSON string.
func (c *Contract) ABIString() string {
	return string(c.ABI)
}

// PrettyABI returns the ABI indented for display.
func (c *Contract) PrettyABI() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, c.ABI, "", "  "); err != nil {
		return string(c.ABI)
	}
	return buf.String()
}

// Entries parses the ABI into entries for listing.
func (c *Contract) Entries() ([]ABIEntry, error) {
	return parseABI(c.ABI)
}

// RequireBytecode returns ErrNoBytecode when the contract cannot be deployed.
func (c *Contract) RequireBytecode() error {
	if len(c.Bytecode) == 0 {
		return fmt.Errorf("%w: %s (%s)", ErrNoBytecode, c.Name, c.Format)
	}
	return nil
}

// Load reads a contract file. Three layouts are detected automatically:
//   - a compiled record: {"name":..., "contract":{"evm":..., "metadata":"...", ...}}
//   - a Hardhat/Foundry artifact: {"abi":[...], "bytecode": "0x..." | {"object":"0x..."}}
//   - a raw ABI array: [{"type":"constructor",...}, ...]
func Load(path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read contract file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("contract file is empty: %s", path)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(data, name)
}

// Parse detects the layout of data and decodes it. fallbackName is used when
// the file itself does not name the contract.
func Parse(data []byte, fallbackName string) (*Contract, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnknownFormat)
	}

	if data[0] == '[' {
		abi, err := parseABI(data)
		if err != nil {
			return nil, err
		}
		if err := validateABI(abi, fallbackName); err != nil {
			return nil, err
		}
		return &Contract{Name: fallbackName, Format: FormatABI, ABI: json.RawMessage(data)}, nil
	}

	var probe struct {
		Contract json.RawMessage `json:"contract"`
		ABI      json.RawMessage `json:"abi"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}

	switch {
	case len(probe.Contract) > 0 && probe.Contract[0] == '{':
		var c Compiled
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("invalid compiled record: %w", err)
		}
		if c.Name == "" {
			c.Name = fallbackName
		}
		return ParseCompiled(&c)

	case len(probe.ABI) > 0:
		return parseArtifact(data, fallbackName)
	}

	return nil, fmt.Errorf("%w: expected a compiled record, an artifact with an \"abi\" key, or an ABI array", ErrUnknownFormat)
}

func parseArtifact(data []byte, fallbackName string) (*Contract, error) {
	var raw struct {
		ContractName string          `json:"contractName"`
		ABI          json.RawMessage `json:"abi"`
		Bytecode     json.RawMessage `json:"bytecode"`
		RawMetadata  string          `json:"rawMetadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid artifact JSON: %w", err)
	}

	if len(raw.ABI) < 2 || raw.ABI[0] != '[' {
		return nil, fmt.Errorf("artifact has no valid \"abi\" array")
	}
	abi, err := parseABI(raw.ABI)
	if err != nil {
		return nil, fmt.Errorf("parsing artifact ABI: %w", err)
	}
	if err := validateABI(abi, fallbackName); err != nil {
		return nil, err
	}

	c := &Contract{
		Name:   raw.ContractName,
		Format: FormatArtifact,
		ABI:    raw.ABI,
	}
	if c.Name == "" {
		c.Name = fallbackName
	}

	if len(raw.Bytecode) > 0 {
		bcHex, err := extractBytecodeHex(raw.Bytecode)
		if err != nil {
			return nil, fmt.Errorf("extracting bytecode from artifact: %w", err)
		}
		if c.Bytecode, err = decodeBytecode(bcHex); err != nil {
			return nil, err
		}
	}

	// Foundry artifacts keep the solc metadata as a string.
	if raw.RawMetadata != "" {
		meta, err := ParseMetadata(raw.RawMetadata)
		if err != nil {
			return nil, err
		}
		compact, err := compactJSON(raw.RawMetadata)
		if err != nil {
			return nil, err
		}
		c.Metadata = meta
		c.MetadataJSON = compact
	}
	return c, nil
}

// extractBytecodeHex handles the two common artifact formats:
//   - Hardhat:  "bytecode": "0x608060..."          (JSON string)
//   - Foundry:  "bytecode": {"object": "0x608060..."} (JSON object)
func extractBytecodeHex(raw json.RawMessage) (string, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str), nil
	}

	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Object != "" {
		return strings.TrimSpace(obj.Object), nil
	}

	return "", fmt.Errorf("bytecode field is neither a hex string nor a {\"object\":\"0x...\"} object")
}

// decodeBytecode accepts hex with or without a 0x prefix. Empty input gives
// empty bytecode.
func decodeBytecode(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode hex: %w", err)
	}
	return b, nil
}

func parseABI(data []byte) ([]ABIEntry, error) {
	var abi []ABIEntry
	if err := json.Unmarshal(data, &abi); err != nil {
		return nil, fmt.Errorf("invalid ABI JSON: expected an array of ABI entries, got parse error: %w", err)
	}
	return abi, nil
}

// validateABI checks that the parsed ABI has at least one constructor,
// function or event.
func validateABI(abi []ABIEntry, name string) error {
	if len(abi) == 0 {
		return fmt.Errorf("ABI is empty (no functions or events found): %s", name)
	}
	for _, e := range abi {
		if e.Type == "function" || e.Type == "event" || e.Type == "constructor" {
			return nil
		}
	}
	return fmt.Errorf("ABI has %d entries but none are functions, events or a constructor: %s", len(abi), name)
}
