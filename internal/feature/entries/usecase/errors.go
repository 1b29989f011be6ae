// Package usecase implements the business logic for the entries feature.
package usecase

import "errors"

var (
	// ErrOwnerNotFound is returned when the owning user cannot be resolved.
	ErrOwnerNotFound = errors.New("user not found")

	// ErrEntryNotFound is returned when an entry does not exist or does not
	// belong to the supplied owner. Ownership mismatches are deliberately
	// indistinguishable from missing entries.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrEmptyPatch is returned when an update contains no recognized fields.
	ErrEmptyPatch = errors.New("no recognized fields to update")

	// ErrStore is the generic failure surfaced when the persistence layer
	// fails unexpectedly. The underlying fault is logged, never propagated.
	ErrStore = errors.New("error saving entry")
)
