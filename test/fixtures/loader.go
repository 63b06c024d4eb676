package fixtures

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixturesDir returns the absolute path to the fixtures directory.
func fixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// ContractPath returns the absolute path of a fixture contract file.
func ContractPath(t *testing.T, filename string) string {
	t.Helper()
	path := filepath.Join(fixturesDir(), "contracts", filename)
	_, err := os.Stat(path)
	require.NoError(t, err, "missing fixture contract: %s", filename)
	return path
}

// LoadContract loads a fixture contract file and returns its raw bytes.
func LoadContract(t *testing.T, filename string) []byte {
	t.Helper()
	data, err := os.ReadFile(ContractPath(t, filename))
	require.NoError(t, err, "failed to load fixture contract: %s", filename)
	return data
}
