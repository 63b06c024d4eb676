package contract

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMetadata = `{
  "compiler": {"version": "0.8.24+commit.e11b9ed9"},
  "language": "Solidity",
  "output": {"abi": [
    {"type":"constructor","inputs":[{"name":"a","type":"uint256"},{"name":"b","type":"address"}],"stateMutability":"nonpayable"},
    {"type":"function","name":"a","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
    {"type":"function","name":"set","inputs":[{"name":"v","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
    {"type":"event","name":"Set","inputs":[{"name":"v","type":"uint256","indexed":false}],"anonymous":false}
  ]},
  "settings": {"optimizer": {"enabled": true, "runs": 200}},
  "version": 1
}`

func writeJSON(t *testing.T, name string, v any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func compiledRecord(bytecode, metadata string) map[string]any {
	return map[string]any{
		"name": "Pair",
		"contract": map[string]any{
			"evm":            map[string]any{"bytecode": map[string]any{"object": bytecode}},
			"metadata":       metadata,
			"singleFileCode": "contract Pair {}",
		},
	}
}

// ---------------------------------------------------------------------------
// Compiled records
// ---------------------------------------------------------------------------

func TestLoadCompiledRecord(t *testing.T) {
	path := writeJSON(t, "Pair.json", compiledRecord("6080604052", testMetadata))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Pair", c.Name)
	assert.Equal(t, FormatCompiled, c.Format)
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, c.Bytecode)
	assert.Equal(t, "contract Pair {}", c.SourceCode)

	require.NotNil(t, c.Metadata)
	assert.Equal(t, "Solidity", c.Metadata.Language)
	assert.Equal(t, "0.8.24+commit.e11b9ed9", c.Metadata.Compiler.Version)
	assert.True(t, c.Metadata.Settings.Optimizer.Enabled)
	assert.Equal(t, uint64(200), c.Metadata.Settings.Optimizer.Runs)

	assert.NotContains(t, c.MetadataJSON, "\n", "metadata is re-serialized compactly")
	assert.JSONEq(t, testMetadata, c.MetadataJSON)
	assert.Contains(t, c.ABIString(), `"constructor"`)
	assert.NoError(t, c.RequireBytecode())
}

func TestLoadCompiledRecordPrefixedBytecode(t *testing.T) {
	path := writeJSON(t, "Pair.json", compiledRecord("0xaabb", testMetadata))
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb}, c.Bytecode)
}

func TestLoadCompiledRecordNameFallback(t *testing.T) {
	rec := compiledRecord("aa", testMetadata)
	delete(rec, "name")
	path := writeJSON(t, "Fallback.json", rec)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Fallback", c.Name)
}

func TestLoadCompiledRecordBadMetadata(t *testing.T) {
	path := writeJSON(t, "Pair.json", compiledRecord("aa", "{broken"))
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidMetadata)
}

func TestLoadCompiledRecordMissingMetadata(t *testing.T) {
	path := writeJSON(t, "Pair.json", compiledRecord("aa", ""))
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidMetadata)
}

func TestLoadCompiledRecordMetadataWithoutABI(t *testing.T) {
	path := writeJSON(t, "Pair.json", compiledRecord("aa", `{"language":"Solidity"}`))
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidMetadata)
}

func TestLoadCompiledRecordBadBytecode(t *testing.T) {
	path := writeJSON(t, "Pair.json", compiledRecord("zz", testMetadata))
	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid bytecode hex")
}

// ---------------------------------------------------------------------------
// Artifacts and raw ABI
// ---------------------------------------------------------------------------

func TestLoadHardhatArtifact(t *testing.T) {
	path := writeJSON(t, "Token.json", map[string]any{
		"contractName": "Token",
		"abi": []map[string]any{
			{"type": "constructor", "inputs": []map[string]string{{"name": "supply", "type": "uint256"}}},
		},
		"bytecode": "0xaabbcc",
	})

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Token", c.Name)
	assert.Equal(t, FormatArtifact, c.Format)
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc}, c.Bytecode)
	assert.Nil(t, c.Metadata)
}

func TestLoadFoundryArtifactWithMetadata(t *testing.T) {
	path := writeJSON(t, "Counter.json", map[string]any{
		"abi": []map[string]any{
			{"type": "constructor", "inputs": []map[string]string{}},
		},
		"bytecode":    map[string]string{"object": "0x6080"},
		"rawMetadata": testMetadata,
	})

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Counter", c.Name, "name falls back to file name")
	assert.Equal(t, []byte{0x60, 0x80}, c.Bytecode)
	require.NotNil(t, c.Metadata)
	assert.Equal(t, uint64(200), c.Metadata.Settings.Optimizer.Runs)
}

func TestLoadArtifactWithoutBytecode(t *testing.T) {
	path := writeJSON(t, "IFace.json", map[string]any{
		"abi": []map[string]any{{"type": "function", "name": "f", "stateMutability": "view"}},
	})

	c, err := Load(path)
	require.NoError(t, err)
	assert.ErrorIs(t, c.RequireBytecode(), ErrNoBytecode)
}

func TestLoadRawABI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Pair.abi.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"type":"constructor","inputs":[]}]`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatABI, c.Format)
	assert.Equal(t, "Pair.abi", c.Name)
	assert.ErrorIs(t, c.RequireBytecode(), ErrNoBytecode)
}

func TestLoadEmptyABIArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ABI is empty")
}

func TestLoadUnknownObject(t *testing.T) {
	path := writeJSON(t, "x.json", map[string]any{"foo": 1})
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestExtractBytecodeHexPlainString(t *testing.T) {
	got, err := extractBytecodeHex(json.RawMessage(`" 0x6080 "`))
	require.NoError(t, err)
	assert.Equal(t, "0x6080", got)
}

func TestExtractBytecodeHexFoundryObject(t *testing.T) {
	got, err := extractBytecodeHex(json.RawMessage(`{"object":"0x6080"}`))
	require.NoError(t, err)
	assert.Equal(t, "0x6080", got)
}

func TestExtractBytecodeHexInvalidType(t *testing.T) {
	_, err := extractBytecodeHex(json.RawMessage(`42`))
	assert.Error(t, err)
}

func TestCodeHashEmpty(t *testing.T) {
	// Keccak-256 of the empty string.
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", CodeHash(nil))
}

func TestPrettyABIIndents(t *testing.T) {
	c := &Contract{ABI: json.RawMessage(`[{"type":"constructor","inputs":[]}]`)}
	assert.Contains(t, c.PrettyABI(), "\n  {")
}

func TestSummarize(t *testing.T) {
	c, err := Parse([]byte(`{"abi":[]}`), "x")
	assert.Error(t, err)
	assert.Nil(t, c)

	var meta CompilerMetadata
	require.NoError(t, json.Unmarshal([]byte(testMetadata), &meta))
	entries, err := parseABI(meta.Output.ABI)
	require.NoError(t, err)

	s := Summarize(entries)
	assert.True(t, s.HasConstructor)
	assert.Equal(t, 1, s.Reads)
	assert.Equal(t, 1, s.Writes)
	assert.Equal(t, 1, s.Events)
}

func TestSignatureConstructorFromLoader(t *testing.T) {
	e := ABIEntry{Type: "constructor", Inputs: []ABIParam{{Name: "a", Type: "uint256"}, {Type: "address"}}}
	assert.Equal(t, "constructor(uint256 a, address)", e.Signature())
}
