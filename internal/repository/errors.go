package repository

import "errors"

var (
	// ErrVersionConflict is returned when a versioned update matched no row.
	ErrVersionConflict = errors.New("record was modified concurrently")
	// ErrSourceNotFound is returned when an escalation references an unknown record.
	ErrSourceNotFound = errors.New("source record not found")
	// ErrSourceAlreadyEscalated is returned when a Tier-A record was already escalated.
	ErrSourceAlreadyEscalated = errors.New("source record already escalated")
	// ErrSourceNotEscalatable is returned when the source record's status forbids the link.
	ErrSourceNotEscalatable = errors.New("source record cannot be escalated")
	// ErrSourceMismatch is returned when the source belongs to another student.
	ErrSourceMismatch = errors.New("source record belongs to another student")
	// ErrAlreadyLinked is returned when a record already references a re-entry protocol.
	ErrAlreadyLinked = errors.New("record already linked to a re-entry protocol")
)
