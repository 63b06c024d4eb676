package contract

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Compiled is a compiled-contract record as produced by the compile service:
//
//	{"name": "...", "contract": {"evm": {"bytecode": {"object": "6080..."}},
//	 "metadata": "<solc metadata JSON string>", "singleFileCode": "..."}}
type Compiled struct {
	Name     string         `json:"name"`
	Contract CompiledDetail `json:"contract"`
}

// CompiledDetail is the nested contract object of a Compiled record.
type CompiledDetail struct {
	EVM struct {
		Bytecode struct {
			Object string `json:"object"`
		} `json:"bytecode"`
	} `json:"evm"`
	Metadata       string `json:"metadata"`
	SingleFileCode string `json:"singleFileCode"`
}

// CompilerMetadata is the solc metadata document embedded in a Compiled record.
type CompilerMetadata struct {
	Language string `json:"language"`
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Settings struct {
		Optimizer struct {
			Enabled bool   `json:"enabled"`
			Runs    uint64 `json:"runs"`
		} `json:"optimizer"`
	} `json:"settings"`
	Output struct {
		ABI json.RawMessage `json:"abi"`
	} `json:"output"`
}

// ParseMetadata parses a solc metadata JSON string.
func ParseMetadata(raw string) (*CompilerMetadata, error) {
	var m CompilerMetadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	return &m, nil
}

// ParseCompiled turns a Compiled record into a Contract.
func ParseCompiled(c *Compiled) (*Contract, error) {
	if c.Contract.Metadata == "" {
		return nil, fmt.Errorf("%w: compiled record %q has no metadata", ErrInvalidMetadata, c.Name)
	}
	meta, err := ParseMetadata(c.Contract.Metadata)
	if err != nil {
		return nil, err
	}
	if len(meta.Output.ABI) == 0 || meta.Output.ABI[0] != '[' {
		return nil, fmt.Errorf("%w: metadata of %q has no output.abi array", ErrInvalidMetadata, c.Name)
	}

	code, err := decodeBytecode(c.Contract.EVM.Bytecode.Object)
	if err != nil {
		return nil, err
	}

	compact, err := compactJSON(c.Contract.Metadata)
	if err != nil {
		return nil, err
	}

	return &Contract{
		Name:         c.Name,
		Format:       FormatCompiled,
		ABI:          meta.Output.ABI,
		Bytecode:     code,
		Metadata:     meta,
		MetadataJSON: compact,
		SourceCode:   c.Contract.SingleFileCode,
	}, nil
}

// CodeHash returns the Keccak-256 hash of the deployment bytecode.
func CodeHash(code []byte) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(code)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

func compactJSON(raw string) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	return buf.String(), nil
}
