// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"openflag/internal/domain/flags"
)

// CreateFlagRequest is the body of POST /api/flags.
type CreateFlagRequest struct {
	Key         string          `json:"key" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description *string         `json:"description"`
	Type        *flags.FlagType `json:"type"`
	Value       *string         `json:"value"`
	Enabled     *bool           `json:"enabled"`
}

// ToEntity builds a Flag, applying the creation defaults: boolean type,
// value "false", enabled.
func (r CreateFlagRequest) ToEntity() *flags.Flag {
	typ := flags.TypeBoolean
	if r.Type != nil {
		typ = *r.Type
	}
	value := "false"
	if r.Value != nil {
		value = *r.Value
	}
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}

	flag := flags.NewFlag(r.Key, r.Name, typ, value, enabled)
	flag.Description = r.Description
	return flag
}

// UpdateFlagRequest is the body of PUT /api/flags/:id. Absent fields are
// left unchanged.
type UpdateFlagRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Type        *flags.FlagType `json:"type"`
	Value       *string         `json:"value"`
	Enabled     *bool           `json:"enabled"`
}

// ToParams converts the request into service update params.
func (r UpdateFlagRequest) ToParams() flags.UpdateParams {
	return flags.UpdateParams{
		Name:        r.Name,
		Description: r.Description,
		Type:        r.Type,
		Value:       r.Value,
		Enabled:     r.Enabled,
	}
}

// FlagResponse is the wire representation of a flag.
type FlagResponse struct {
	ID          string         `json:"id"`
	Key         string         `json:"key"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Type        flags.FlagType `json:"type"`
	Value       string         `json:"value"`
	Enabled     bool           `json:"enabled"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// FromFlag maps a domain flag to its response form.
func FromFlag(f *flags.Flag) FlagResponse {
	return FlagResponse{
		ID:          f.ID.String(),
		Key:         f.Key,
		Name:        f.Name,
		Description: f.Description,
		Type:        f.Type,
		Value:       f.Value,
		Enabled:     f.Enabled,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// FromFlags maps a slice of flags. Always returns a non-nil slice so an
// empty list serializes as [].
func FromFlags(list []flags.Flag) []FlagResponse {
	out := make([]FlagResponse, 0, len(list))
	for i := range list {
		out = append(out, FromFlag(&list[i]))
	}
	return out
}
