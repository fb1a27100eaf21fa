// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for
// the rowbase CLI. It manages all interactions with the OS credential store,
// holding the long-lived Rowbase API token, serialized auth state, and the
// PostgreSQL DSN used by the export command.
//
// On macOS the native security command is preferred; elsewhere the keyring
// library picks the platform backend (Keychain, Windows Credential Manager,
// or the freedesktop Secret Service).
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	"rowbase/cli/internal/xdg"
)

var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "rowbase"

// Keys used for storing secrets in the OS keychain.
const (
	KeyAPIToken  = "api_token"
	KeyAuthState = "auth_state"
	KeyExportDSN = "export_dsn"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	// Native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to the keyring library if the security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// GetManager returns the global keychain manager instance, creating it on
// first call. A failed initialization is retried on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}
	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}
	return globalManager, nil
}

// MustGetManager returns the global keychain manager instance.
// Panics if initialization fails.
func MustGetManager() *Manager {
	manager, err := GetManager()
	if err != nil {
		panic(err)
	}
	return manager
}

// openRing opens the OS keyring using native platform backends only.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// Pass requires the 'pass' utility: brew install pass
		allowedBackends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.PassBackend,
		}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	case "linux":
		// Headless boxes often run without a Secret Service daemon, so an
		// encrypted file under the XDG state dir is allowed as a fallback.
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.FileBackend,
		}
	default:
		return nil, errors.New("secure storage not supported on this OS")
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
	}
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}
	if runtime.GOOS == "linux" {
		if dir, err := xdg.StateDir(); err == nil {
			cfg.FileDir = dir
			cfg.FilePasswordFunc = keyring.TerminalPrompt
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. Install 'pass' as a fallback: brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}
	return ring, nil
}

func (m *Manager) set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backend != nil {
		return m.backend.Set(key, value)
	}
	return m.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
}

func (m *Manager) get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.backend != nil {
		return m.backend.Get(key)
	}
	it, err := m.ring.Get(key)
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

func (m *Manager) delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backend != nil {
		_ = m.backend.Delete(key)
		return
	}
	_ = m.ring.Remove(key)
}

// SaveAPIToken stores the long-lived Rowbase API token.
func (m *Manager) SaveAPIToken(token string) error {
	if token == "" {
		return errors.New("empty API token")
	}
	return m.set(KeyAPIToken, token)
}

// LoadAPIToken retrieves the Rowbase API token.
func (m *Manager) LoadAPIToken() (string, error) {
	token, err := m.get(KeyAPIToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("empty API token")
	}
	return token, nil
}

// SaveAuthState stores serialized auth state.
func (m *Manager) SaveAuthState(data []byte) error {
	return m.set(KeyAuthState, string(data))
}

// LoadAuthState retrieves serialized auth state.
func (m *Manager) LoadAuthState() ([]byte, error) {
	data, err := m.get(KeyAuthState)
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

// ClearAuthState removes only the stored auth state.
func (m *Manager) ClearAuthState() error {
	m.delete(KeyAuthState)
	return nil
}

// ClearAuth removes the API token and auth state.
func (m *Manager) ClearAuth() error {
	m.delete(KeyAPIToken)
	m.delete(KeyAuthState)
	return nil
}

// SaveExportDSN stores the PostgreSQL DSN used by the export command.
func (m *Manager) SaveExportDSN(dsn string) error {
	return m.set(KeyExportDSN, dsn)
}

// LoadExportDSN retrieves the export DSN.
func (m *Manager) LoadExportDSN() (string, error) {
	return m.get(KeyExportDSN)
}

// ClearExport removes export-related secrets.
func (m *Manager) ClearExport() error {
	m.delete(KeyExportDSN)
	return nil
}

// ClearAll removes every secret this CLI owns. Use with caution.
func (m *Manager) ClearAll() error {
	m.delete(KeyAPIToken)
	m.delete(KeyAuthState)
	m.delete(KeyExportDSN)
	return nil
}
