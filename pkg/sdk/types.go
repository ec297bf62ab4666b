package sdk

import "time"

// FlagType enumerates the value types a flag can carry.
type FlagType string

const (
	FlagBoolean FlagType = "boolean"
	FlagString  FlagType = "string"
	FlagNumber  FlagType = "number"
	FlagJSON    FlagType = "json"
)

// FlagRecord is a feature flag as returned by the origin service.
// Value holds the raw serialized form; Type says how to interpret it.
// Descriptive fields (ID, Name, Description, timestamps) are passed
// through untouched.
type FlagRecord struct {
	ID          string    `json:"id,omitempty"`
	Key         string    `json:"key"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Type        FlagType  `json:"type"`
	Value       string    `json:"value"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}
