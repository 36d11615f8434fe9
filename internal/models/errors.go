package models

import "errors"

// Custom errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidID     = errors.New("invalid ID format")
	ErrSameTeam      = errors.New("cannot compare a team against itself")
	ErrAgeGroupMixed = errors.New("teams belong to different age groups")
)
