package model

import "encoding/json"

// DeriveRequest asks for the deterministic password of a service.
// Settings, when present, is the JSON form of crypto.Settings and takes
// precedence over Profile.
type DeriveRequest struct {
	Passphrase string          `json:"passphrase"`
	Service    string          `json:"service"`
	Profile    string          `json:"profile,omitempty"`
	Settings   json.RawMessage `json:"settings,omitempty"`
}

// DeriveResponse carries the derived password and the settings used.
type DeriveResponse struct {
	Password string          `json:"password"`
	Settings json.RawMessage `json:"settings"`
}
