package game

import "errors"

var (
	// ErrUnmappedKey is returned for a key outside the thirteen piano keys
	ErrUnmappedKey = errors.New("unmapped key")
	// ErrInputIgnored is returned when a play cannot count toward progress
	ErrInputIgnored = errors.New("input ignored")
)
