// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// State is stored serialized in the OS keychain via internal/keychain,
// next to the API token it describes.

package auth

import (
	"encoding/json"

	"rowbase/cli/internal/keychain"
)

// State represents persisted authentication state for the current user.
type State struct {
	LoggedIn bool   `json:"logged_in"`
	Org      string `json:"org"`
	Database string `json:"database"`
}

// Load reads the auth state from the keychain. Missing state yields the zero
// value.
func Load() (State, error) {
	var s State
	km, err := keychain.GetManager()
	if err != nil {
		return s, err
	}
	data, err := km.LoadAuthState()
	if err != nil || len(data) == 0 {
		// A missing keychain entry is indistinguishable from never having
		// logged in; report the zero state.
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// Save writes the auth state to the keychain.
func Save(s State) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.SaveAuthState(b)
}

// Clear removes the auth state from the keychain.
func Clear() error {
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.ClearAuthState()
}
