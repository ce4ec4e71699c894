package entity

import "errors"

var (
	// ErrUnknownField is returned when a field name does not exist on the entry
	ErrUnknownField = errors.New("unknown field")
)
