// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// User is a registered account. The password hash never leaves the
// storage layer; User is the safe-to-serialize projection.
type User struct {
	ID    int64  `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
}
