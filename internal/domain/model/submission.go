// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"strings"

	"github.com/okian/runboard/internal/domain/types"
)

// Validation errors for a submission. Only presence is checked.
var (
	ErrMissingName  = errors.New("missing name")
	ErrMissingTime  = errors.New("missing time")
	ErrMissingItems = errors.New("missing items")
)

// Submission is an inbound leaderboard entry as posted by a client.
// Pointer fields distinguish "absent" from the zero value.
type Submission struct {
	Name     string  `json:"name"`
	Link     *string `json:"link"`
	Time     *int64  `json:"time"`
	Items    *int    `json:"items"`
	Hardmode bool    `json:"hardmode"`
}

// Validate checks that every required field is present.
func (s Submission) Validate() error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return ErrMissingName
	case s.Time == nil:
		return ErrMissingTime
	case s.Items == nil:
		return ErrMissingItems
	}
	return nil
}

// Entry converts a validated submission to a storable entry.
// An empty link is stored as null.
func (s Submission) Entry() types.Entry {
	e := types.Entry{
		Name:     s.Name,
		Hardmode: s.Hardmode,
	}
	if s.Link != nil && *s.Link != "" {
		link := *s.Link
		e.Link = &link
	}
	if s.Time != nil {
		e.Time = *s.Time
	}
	if s.Items != nil {
		e.Items = *s.Items
	}
	return e
}
