// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package models

import (
	"bytes"
	"fmt"
)

// IntBool is a boolean persisted as 0 or 1, matching the legacy JSON files.
// Unmarshaling also accepts true/false so hand-edited files keep loading.
type IntBool bool

// MarshalJSON encodes the flag as 0 or 1.
func (b IntBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalJSON accepts 0, 1, true and false.
func (b *IntBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "0", "false":
		*b = false
	case "1", "true":
		*b = true
	default:
		return fmt.Errorf("invalid flag value %q, want 0|1|true|false", string(data))
	}
	return nil
}
