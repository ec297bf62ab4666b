// Package flags provides the feature flag domain: the Flag entity, its
// per-type value validation, and the CRUD service the API is built on.
package flags

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"openflag/internal/core/apperror"
)

// FlagType enumerates supported value types.
type FlagType string

const (
	TypeBoolean FlagType = "boolean"
	TypeString  FlagType = "string"
	TypeNumber  FlagType = "number"
	TypeJSON    FlagType = "json"
)

// Valid reports whether t is a known flag type.
func (t FlagType) Valid() bool {
	switch t {
	case TypeBoolean, TypeString, TypeNumber, TypeJSON:
		return true
	}
	return false
}

const (
	maxKeyLen         = 255
	maxNameLen        = 255
	maxDescriptionLen = 1000
)

// Flag is a feature flag. All values are stored as strings; Type says how
// clients should interpret them.
type Flag struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Key         string    `db:"key" json:"key"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Type        FlagType  `db:"type" json:"type"`
	Value       string    `db:"value" json:"value"`
	Enabled     bool      `db:"enabled" json:"enabled"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// NewFlag creates a Flag with a time-ordered id and current timestamps.
func NewFlag(key, name string, typ FlagType, value string, enabled bool) *Flag {
	now := time.Now().UTC()
	return &Flag{
		ID:        newID(),
		Key:       key,
		Name:      name,
		Type:      typ,
		Value:     value,
		Enabled:   enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// newID generates a UUIDv7 so flags sort naturally by creation time.
func newID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Validate checks structural constraints and the type/value pairing.
func (f *Flag) Validate() error {
	if f.Key == "" {
		return apperror.NewValidation("key is required").WithDetail("field", "key")
	}
	if len(f.Key) > maxKeyLen {
		return apperror.NewValidation("key is too long").
			WithDetail("field", "key").
			WithDetail("maxLength", maxKeyLen)
	}
	if f.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if len(f.Name) > maxNameLen {
		return apperror.NewValidation("name is too long").
			WithDetail("field", "name").
			WithDetail("maxLength", maxNameLen)
	}
	if f.Description != nil && len(*f.Description) > maxDescriptionLen {
		return apperror.NewValidation("description is too long").
			WithDetail("field", "description").
			WithDetail("maxLength", maxDescriptionLen)
	}
	if !f.Type.Valid() {
		return apperror.NewValidation("unknown flag type").
			WithDetail("field", "type").
			WithDetail("value", string(f.Type))
	}
	return ValidateValue(f.Type, f.Value)
}

// ValidateValue checks that value is a legal serialization for typ.
func ValidateValue(typ FlagType, value string) error {
	switch typ {
	case TypeBoolean:
		if v := strings.ToLower(value); v != "true" && v != "false" {
			return apperror.NewValidation("boolean flags must have value 'true' or 'false'").
				WithDetail("field", "value").
				WithDetail("value", value)
		}
	case TypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return apperror.NewValidation("number flags must have a numeric value").
				WithDetail("field", "value").
				WithDetail("value", value)
		}
	case TypeJSON:
		if !json.Valid([]byte(value)) {
			return apperror.NewValidation("json flags must have valid JSON value").
				WithDetail("field", "value")
		}
	}
	return nil
}
