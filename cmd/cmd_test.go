package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mohsinsiddi/w3deploy/internal/backend"
	"github.com/Mohsinsiddi/w3deploy/internal/config"
	"github.com/Mohsinsiddi/w3deploy/internal/contract"
	"github.com/Mohsinsiddi/w3deploy/internal/ctorargs"
	"github.com/Mohsinsiddi/w3deploy/internal/keystore"
	"github.com/Mohsinsiddi/w3deploy/test/fixtures"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wordOne = "0000000000000000000000000000000000000000000000000000000000000001"
	wordTwo = "0000000000000000000000000000000000000000000000000000000000000002"
)

// ---------------------------------------------------------------------------
// Harness: runs the root command in-process against a temp config dir.
// ---------------------------------------------------------------------------

// setup returns a fresh config dir and an empty in-memory token store.
func setup(t *testing.T) string {
	t.Helper()
	tokenStore = keystore.NewInMemory()
	t.Cleanup(func() { tokenStore = nil })
	return t.TempDir()
}

// pointBackend writes a config in dir whose backend is url.
func pointBackend(t *testing.T, dir, url string) {
	t.Helper()
	c, err := config.Load(dir)
	require.NoError(t, err)
	require.NoError(t, c.SetBackend(url))
	require.NoError(t, c.Save())
}

func runRoot(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(append([]string{"--config", dir}, args...))

	var err error
	out := captureStdout(t, func() { err = rootCmd.Execute() })
	return out, err
}

// resetFlags puts every flag back to its default; cobra keeps values between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	done := make(chan string)
	go func() {
		b, _ := io.ReadAll(r)
		done <- string(b)
	}()

	fn()
	w.Close()
	os.Stdout = orig
	return <-done
}

// ---------------------------------------------------------------------------
// Command tree
// ---------------------------------------------------------------------------

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"init", "inspect", "params", "edit", "deploy", "address", "networks", "deployments", "config"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestDeployFlags(t *testing.T) {
	for _, name := range []string{"args", "args-hex", "network", "address", "edit", "yes"} {
		assert.NotNil(t, deployCmd.Flags().Lookup(name), "deploy should have --%s", name)
	}
	assert.Equal(t, "n", deployCmd.Flags().Lookup("network").Shorthand)
}

func TestArgsFlagsMutuallyExclusive(t *testing.T) {
	dir := setup(t)
	_, err := runRoot(t, dir, "inspect", fixtures.ContractPath(t, "Pair.json"),
		"--offline", "--args", "1,2", "--args-hex", "0x00")
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// params
// ---------------------------------------------------------------------------

func TestParamsEncodeCommand(t *testing.T) {
	dir := setup(t)
	out, err := runRoot(t, dir, "params", "encode", fixtures.ContractPath(t, "Pair.json"), "1,2")
	require.NoError(t, err)
	assert.Equal(t, "0x"+wordOne+wordTwo+"\n", out)
}

func TestParamsEncodeArgumentMismatch(t *testing.T) {
	dir := setup(t)
	_, err := runRoot(t, dir, "params", "encode", fixtures.ContractPath(t, "Pair.json"), "1")
	assert.ErrorIs(t, err, ctorargs.ErrArgumentCountMismatch)
}

func TestParamsDefaultsCommand(t *testing.T) {
	dir := setup(t)
	out, err := runRoot(t, dir, "params", "defaults", fixtures.ContractPath(t, "Pair.json"))
	require.NoError(t, err)
	assert.Equal(t, "0x"+strings.Repeat("0", 128)+"\n", out)
}

func TestParamsDefaultsUnsupportedType(t *testing.T) {
	dir := setup(t)
	_, err := runRoot(t, dir, "params", "defaults", fixtures.ContractPath(t, "Tagged.abi.json"))
	assert.ErrorIs(t, err, ctorargs.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "string")
}

func TestParamsDecodeCommand(t *testing.T) {
	dir := setup(t)
	out, err := runRoot(t, dir, "params", "decode", fixtures.ContractPath(t, "Pair.json"), "0x"+wordOne+wordTwo)
	require.NoError(t, err)
	assert.Contains(t, out, "0x0000000000000000000000000000000000000002")
	assert.Contains(t, out, "uint256")
}

func TestParamsDecodeCountMismatch(t *testing.T) {
	dir := setup(t)
	out, err := runRoot(t, dir, "params", "decode", fixtures.ContractPath(t, "Pair.json"), wordOne)
	assert.ErrorIs(t, err, ctorargs.ErrParameterCountMismatch)
	assert.Contains(t, out, "Invalid number of arguments")
}

func TestParamsSetCommand(t *testing.T) {
	dir := setup(t)
	out, err := runRoot(t, dir, "params", "set", fixtures.ContractPath(t, "Pair.json"),
		wordOne+wordTwo, "a=42", "b=not-a-number", "junk")
	require.NoError(t, err)

	assert.Contains(t, out, "0x000000000000000000000000000000000000000000000000000000000000002a"+wordTwo)
	assert.Contains(t, out, "b not changed")
	assert.Contains(t, out, `skipping "junk"`)
}

func TestParamsSetInvalidStartingBlob(t *testing.T) {
	dir := setup(t)
	_, err := runRoot(t, dir, "params", "set", fixtures.ContractPath(t, "Pair.json"), "0x12", "a=1")
	assert.ErrorIs(t, err, ctorargs.ErrDecode)
}

// ---------------------------------------------------------------------------
// inspect / address / networks
// ---------------------------------------------------------------------------

func TestInspectOffline(t *testing.T) {
	dir := setup(t)
	out, err := runRoot(t, dir, "inspect", fixtures.ContractPath(t, "Pair.json"), "--offline", "--source")
	require.NoError(t, err)

	assert.Contains(t, out, "Solidity")
	assert.Contains(t, out, "0.8.24+commit.e11b9ed9")
	assert.Contains(t, out, "68 bytes")
	assert.Contains(t, out, "0x"+strings.Repeat("0", 64))
	assert.Contains(t, out, "contract Pair")
	assert.Contains(t, out, "holesky")
	assert.Contains(t, out, "amoy")
}

func TestInspectFetchesAddress(t *testing.T) {
	dir := setup(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/fancy/random", r.URL.Path)
		_, _ = w.Write([]byte(`{"address":"0x00000000000000000000000000000000000000Ab"}`))
	}))
	defer srv.Close()
	pointBackend(t, dir, srv.URL)

	out, err := runRoot(t, dir, "inspect", fixtures.ContractPath(t, "Pair.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "0x00000000000000000000000000000000000000Ab")
}

func TestAddressCommand(t *testing.T) {
	dir := setup(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"address":"0x00000000000000000000000000000000000000cd"}`))
	}))
	defer srv.Close()
	pointBackend(t, dir, srv.URL)

	out, err := runRoot(t, dir, "address")
	require.NoError(t, err)
	assert.Contains(t, out, "0x00000000000000000000000000000000000000cd")
}

func TestAddressBackendError(t *testing.T) {
	dir := setup(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	pointBackend(t, dir, srv.URL)

	_, err := runRoot(t, dir, "address")
	var se *backend.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
}

func TestNetworksCommand(t *testing.T) {
	dir := setup(t)
	out, err := runRoot(t, dir, "networks")
	require.NoError(t, err)
	assert.Contains(t, out, "holesky")
	assert.Contains(t, out, "amoy")
	assert.Contains(t, out, "2 networks")
}

// ---------------------------------------------------------------------------
// deploy
// ---------------------------------------------------------------------------

// deployServer records the single create-contract request it receives.
type deployServer struct {
	*httptest.Server
	body   []byte
	auth   string
	called int
}

func newDeployServer(t *testing.T) *deployServer {
	t.Helper()
	ds := &deployServer{}
	ds.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/contract/new", r.URL.Path)
		ds.called++
		ds.auth = r.Header.Get("Authorization")
		ds.body, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"id":"dep-1","status":"queued"}`))
	}))
	t.Cleanup(ds.Close)
	return ds
}

func (ds *deployServer) request(t *testing.T) (*backend.DeployRequest, *backend.DeployPayload) {
	t.Helper()
	var req backend.DeployRequest
	require.NoError(t, json.Unmarshal(ds.body, &req))
	p, err := req.Payload()
	require.NoError(t, err)
	return &req, p
}

func TestDeploySubmitsAndRecords(t *testing.T) {
	dir := setup(t)
	srv := newDeployServer(t)
	pointBackend(t, dir, srv.URL)

	out, err := runRoot(t, dir, "deploy", fixtures.ContractPath(t, "Pair.json"),
		"--args", "1,2", "--network", "amoy", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "dep-1")
	require.Equal(t, 1, srv.called)

	req, p := srv.request(t)
	assert.Equal(t, "amoy", req.Network)
	assert.Nil(t, req.Address)
	assert.Equal(t, "0x"+wordOne+wordTwo, p.ConstructorArgs)
	assert.True(t, strings.HasPrefix(p.Bytecode, "0x6080"))
	assert.Equal(t, "Pair", p.Name)
	assert.Contains(t, p.Metadata, `"optimizer":{"enabled":true,"runs":200}`)
	assert.Contains(t, string(srv.body), "_a < type(uint128)", "source is sent without HTML escaping")

	reg := contract.NewRegistry(filepath.Join(dir, "deployments.json"))
	require.NoError(t, reg.Load())
	d, err := reg.Get("Pair", "amoy")
	require.NoError(t, err)
	assert.Equal(t, "0x"+wordOne+wordTwo, d.ConstructorArgs)
	assert.JSONEq(t, `{"id":"dep-1","status":"queued"}`, string(d.Response))
	assert.NotEmpty(t, d.SubmittedAt)
}

func TestDeployWithAddressAndToken(t *testing.T) {
	dir := setup(t)
	require.NoError(t, tokenStore.SetToken("tok"))
	srv := newDeployServer(t)
	pointBackend(t, dir, srv.URL)

	_, err := runRoot(t, dir, "deploy", fixtures.ContractPath(t, "Pair.json"),
		"--args-hex", "0x"+wordOne+wordTwo, "--address", "0x00000000000000000000000000000000000000aa", "-y")
	require.NoError(t, err)

	req, _ := srv.request(t)
	assert.Equal(t, "holesky", req.Network, "default network is used")
	require.NotNil(t, req.Address)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", *req.Address)
	assert.Equal(t, "Bearer tok", srv.auth)
}

func TestDeployNoArgsConstructor(t *testing.T) {
	dir := setup(t)
	srv := newDeployServer(t)
	pointBackend(t, dir, srv.URL)

	_, err := runRoot(t, dir, "deploy", fixtures.ContractPath(t, "Counter.json"), "--yes")
	require.NoError(t, err)

	_, p := srv.request(t)
	assert.Equal(t, "0x", p.ConstructorArgs)
	assert.Equal(t, "Counter", p.Name)
	assert.Empty(t, p.Metadata)
}

func TestDeployRejectsMissingArgs(t *testing.T) {
	dir := setup(t)
	srv := newDeployServer(t)
	pointBackend(t, dir, srv.URL)

	_, err := runRoot(t, dir, "deploy", fixtures.ContractPath(t, "Pair.json"), "--yes")
	assert.ErrorIs(t, err, ctorargs.ErrParameterCountMismatch)
	assert.Contains(t, err.Error(), "Invalid number of arguments")
	assert.Equal(t, 0, srv.called)
}

func TestDeployRejectsUndecodableArgs(t *testing.T) {
	dir := setup(t)
	srv := newDeployServer(t)
	pointBackend(t, dir, srv.URL)

	// An address word with non-zero high bytes.
	bad := "0x" + wordOne + strings.Repeat("f", 64)
	_, err := runRoot(t, dir, "deploy", fixtures.ContractPath(t, "Pair.json"), "--args-hex", bad, "--yes")
	assert.ErrorIs(t, err, ctorargs.ErrDecode)
	assert.Equal(t, 0, srv.called)
}

func TestDeployUnknownNetwork(t *testing.T) {
	dir := setup(t)
	_, err := runRoot(t, dir, "deploy", fixtures.ContractPath(t, "Counter.json"), "--network", "mainnet", "--yes")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown network")
}

func TestDeployABIOnlyFile(t *testing.T) {
	dir := setup(t)
	_, err := runRoot(t, dir, "deploy", fixtures.ContractPath(t, "Tagged.abi.json"), "--yes")
	assert.ErrorIs(t, err, contract.ErrNoBytecode)
}

func TestDeployEditNeedsTerminal(t *testing.T) {
	dir := setup(t)
	_, err := runRoot(t, dir, "deploy", fixtures.ContractPath(t, "Pair.json"), "--edit", "--yes")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
}

func TestDeployBackendError(t *testing.T) {
	dir := setup(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad bytecode"}`, http.StatusBadRequest)
	}))
	defer srv.Close()
	pointBackend(t, dir, srv.URL)

	_, err := runRoot(t, dir, "deploy", fixtures.ContractPath(t, "Counter.json"), "--yes")
	var se *backend.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)

	_, statErr := os.Stat(filepath.Join(dir, "deployments.json"))
	assert.True(t, os.IsNotExist(statErr), "failed submissions are not recorded")
}

// ---------------------------------------------------------------------------
// deployments
// ---------------------------------------------------------------------------

func TestDeploymentsListEmpty(t *testing.T) {
	dir := setup(t)
	out, err := runRoot(t, dir, "deployments", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No deployments recorded yet.")
}

func TestDeploymentsListShowRemove(t *testing.T) {
	dir := setup(t)
	reg := contract.NewRegistry(filepath.Join(dir, "deployments.json"))
	reg.Add(&contract.Deployment{
		Name:            "Pair",
		Network:         "holesky",
		CodeHash:        "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		ConstructorArgs: "0x" + wordOne + wordTwo,
		SubmittedAt:     "2026-10-19T10:00:00Z",
		Response:        json.RawMessage(`{"id":"dep-9"}`),
	})
	require.NoError(t, reg.Save())

	out, err := runRoot(t, dir, "deployments", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Pair")
	assert.Contains(t, out, "2026-10-19T10:00:00Z")
	assert.Contains(t, out, "1 deployment recorded")

	out, err = runRoot(t, dir, "deployments", "show", "Pair")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "dep-9"`)
	assert.Contains(t, out, "chosen by backend")

	_, err = runRoot(t, dir, "deployments", "remove", "Pair", "holesky")
	require.NoError(t, err)
	_, err = runRoot(t, dir, "deployments", "show", "Pair", "holesky")
	assert.ErrorIs(t, err, contract.ErrDeploymentNotFound)
}

// ---------------------------------------------------------------------------
// config
// ---------------------------------------------------------------------------

func TestConfigCommands(t *testing.T) {
	dir := setup(t)

	_, err := runRoot(t, dir, "config", "set-backend", "https://deploy.example.com/")
	require.NoError(t, err)
	_, err = runRoot(t, dir, "config", "add-network", "sepolia")
	require.NoError(t, err)
	_, err = runRoot(t, dir, "config", "set-default-network", "sepolia")
	require.NoError(t, err)
	_, err = runRoot(t, dir, "config", "remove-network", "amoy")
	require.NoError(t, err)

	c, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://deploy.example.com", c.BackendURL)
	assert.Equal(t, "sepolia", c.DefaultNetwork)
	assert.Equal(t, []string{"holesky", "sepolia"}, c.Networks)
}

func TestConfigSetDefaultNetworkUnknown(t *testing.T) {
	dir := setup(t)
	_, err := runRoot(t, dir, "config", "set-default-network", "mainnet")
	assert.Error(t, err)
}

func TestConfigAddNetworkDuplicateIsWarning(t *testing.T) {
	dir := setup(t)
	out, err := runRoot(t, dir, "config", "add-network", "holesky")
	require.NoError(t, err)
	assert.Contains(t, out, "already configured")
}

func TestConfigTokenShownInList(t *testing.T) {
	dir := setup(t)

	out, err := runRoot(t, dir, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "not set")

	_, err = runRoot(t, dir, "config", "set-token", "  s3cret ")
	require.NoError(t, err)
	tok, err := tokenStore.Token()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", tok)

	out, err = runRoot(t, dir, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "stored in keychain")
	assert.Contains(t, out, `"backend_url"`)
}

func TestConfigClearTokenWhenNoneStored(t *testing.T) {
	dir := setup(t)
	out, err := runRoot(t, dir, "config", "clear-token")
	require.NoError(t, err)
	assert.Contains(t, out, "No backend token stored.")
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestArgsFlagsBlob(t *testing.T) {
	params := []ctorargs.Param{{Name: "a", Type: "uint256"}}

	blob, err := (&argsFlags{hex: "0xabc"}).blob(params, true)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", blob, "hex is passed through and validated later")

	blob, err = (&argsFlags{values: "1"}).blob(params, false)
	require.NoError(t, err)
	assert.Equal(t, wordOne, blob)

	blob, err = (&argsFlags{}).blob(params, true)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("0", 64), blob)

	blob, err = (&argsFlags{}).blob(params, false)
	require.NoError(t, err)
	assert.Empty(t, blob)
}

func TestCheckDraftMessage(t *testing.T) {
	d := ctorargs.NewDraftFromParams([]ctorargs.Param{{Name: "a", Type: "uint256"}}, "")
	err := checkDraft(d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constructor takes 1 argument)")

	d.SetBlob(wordOne)
	assert.NoError(t, checkDraft(d))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "0 networks", plural(0, "network"))
	assert.Equal(t, "1 network", plural(1, "network"))
	assert.Equal(t, "3 networks", plural(3, "network"))
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", prettyJSON(json.RawMessage(`{"a":1}`)))
	assert.Equal(t, "not json", prettyJSON(json.RawMessage(`not json`)))
}
