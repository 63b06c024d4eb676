// Package keystore keeps the backend API token in the OS keychain.
package keystore

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/99designs/keyring"
)

const (
	keychainService = "w3deploy"
	tokenKey        = keychainService + ".backend-token"
)

// ErrNoToken is returned when no token has been stored.
var ErrNoToken = errors.New("no backend token stored")

// TokenStore reads and writes the backend bearer token.
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	ClearToken() error
}

// Keystore wraps OS keychain access.
type Keystore struct {
	ring keyring.Keyring
}

// Default returns a keystore backed by the OS keychain.
func Default() *Keystore {
	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
	}

	// On Linux without a GUI, fall back to file-based storage.
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		ring, _ = keyring.Open(keyring.Config{
			ServiceName:     keychainService,
			AllowedBackends: []keyring.BackendType{keyring.FileBackend},
		})
	}

	return &Keystore{ring: ring}
}

// New wraps an already opened keyring.
func New(ring keyring.Keyring) *Keystore {
	return &Keystore{ring: ring}
}

// Token returns the stored token, or ErrNoToken.
func (k *Keystore) Token() (string, error) {
	if k.ring == nil {
		return "", ErrNoToken
	}
	item, err := k.ring.Get(tokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	return string(item.Data), nil
}

// SetToken stores token, replacing any previous one.
func (k *Keystore) SetToken(token string) error {
	if k.ring == nil {
		return fmt.Errorf("keystore not available")
	}
	err := k.ring.Set(keyring.Item{
		Key:   tokenKey,
		Data:  []byte(token),
		Label: "w3deploy backend token",
	})
	if err != nil {
		return fmt.Errorf("keychain store: %w", err)
	}
	return nil
}

// ClearToken removes the stored token. Clearing when nothing is stored is not an error.
func (k *Keystore) ClearToken() error {
	if k.ring == nil {
		return nil
	}
	// Backends disagree on what Remove returns for a missing key.
	if _, err := k.ring.Get(tokenKey); errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	if err := k.ring.Remove(tokenKey); err != nil {
		return fmt.Errorf("keychain remove: %w", err)
	}
	return nil
}

// InMemory is a TokenStore that keeps the token in memory (for tests).
type InMemory struct {
	token string
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory { return &InMemory{} }

func (m *InMemory) Token() (string, error) {
	if m.token == "" {
		return "", ErrNoToken
	}
	return m.token, nil
}

func (m *InMemory) SetToken(token string) error {
	m.token = token
	return nil
}

func (m *InMemory) ClearToken() error {
	m.token = ""
	return nil
}
