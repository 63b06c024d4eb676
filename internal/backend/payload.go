package backend

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/w3deploy/internal/contract"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DeployPayload is the inner document carried as a JSON string in
// DeployRequest.Data. Field order matches what the backend stores.
type DeployPayload struct {
	Bytecode        string `json:"bytecode"`
	ConstructorArgs string `json:"constructorArgs"`
	SourceCode      string `json:"sourceCode"`
	Metadata        string `json:"metadata"`
	Name            string `json:"name"`
}

// DeployRequest is the body of POST /api/contract/new.
type DeployRequest struct {
	Data    string  `json:"data"`
	Network string  `json:"network"`
	Address *string `json:"address"` // null lets the backend choose
}

// NewDeployRequest packages a contract and its encoded constructor arguments
// for network. ctorArgs is hex with or without a 0x prefix; address may be
// empty.
func NewDeployRequest(c *contract.Contract, ctorArgs, network, address string) (*DeployRequest, error) {
	if err := c.RequireBytecode(); err != nil {
		return nil, err
	}
	if network == "" {
		return nil, fmt.Errorf("no network selected")
	}

	args, err := hexBytes(ctorArgs)
	if err != nil {
		return nil, fmt.Errorf("constructor args: %w", err)
	}

	payload := DeployPayload{
		Bytecode:        hexutil.Encode(c.Bytecode),
		ConstructorArgs: hexutil.Encode(args),
		SourceCode:      c.SourceCode,
		Metadata:        c.MetadataJSON,
		Name:            c.Name,
	}
	data, err := marshalNoEscape(payload)
	if err != nil {
		return nil, err
	}

	req := &DeployRequest{Data: string(data), Network: network}
	if address = strings.TrimSpace(address); address != "" {
		req.Address = &address
	}
	return req, nil
}

// Payload decodes Data back into its inner document.
func (r *DeployRequest) Payload() (*DeployPayload, error) {
	var p DeployPayload
	if err := json.Unmarshal([]byte(r.Data), &p); err != nil {
		return nil, fmt.Errorf("decoding deploy payload: %w", err)
	}
	return &p, nil
}

// hexBytes decodes hex that may or may not carry a 0x prefix.
func hexBytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return b, nil
}

// marshalNoEscape encodes v without escaping <, > and &, so Solidity source
// reaches the backend byte for byte.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
