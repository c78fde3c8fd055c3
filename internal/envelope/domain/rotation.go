package domain

import (
	"time"

	"github.com/google/uuid"
)

// EncryptResult is the output of encrypting one plaintext.
type EncryptResult struct {
	Envelope   string
	KeyVersion string
}

// RewriteResult is the output of one rewrite step.
//
// When Rotated is false the envelope was already sealed under the current version and
// Envelope is the input unchanged. Plaintext is always the decrypted value; callers
// zero it when done.
type RewriteResult struct {
	Envelope   string
	Plaintext  []byte
	Rotated    bool
	OldVersion string
	NewVersion string
}

// LazyResult is the output of a read with lazy rotation.
type LazyResult struct {
	Plaintext  []byte
	Rotated    bool
	OldVersion string
	NewVersion string
}

// RotationFailure records why one identity could not be rotated.
type RotationFailure struct {
	Identity string    `json:"identity"`
	Kind     ErrorKind `json:"kind"`
	Message  string    `json:"message"`
}

// RotationReport summarizes one bulk rotation run.
//
// Attempted counts every record read from the store. Updated counts records that were
// rewritten and persisted. Records already at CurrentVersion count as attempted only.
//
// CurrentVersion is the active version when the run started. Each record is sealed
// with the version active at its own rewrite, so a key rotated mid-run shows up as a
// second entry in SealedVersions.
type RotationReport struct {
	ID                uuid.UUID         `json:"id"`
	CurrentVersion    string            `json:"current_version"`
	SealedVersions    []string          `json:"sealed_versions"`
	Attempted         int               `json:"attempted"`
	Updated           int               `json:"updated"`
	UpdatedIdentities []string          `json:"updated_identities"`
	Failures          []RotationFailure `json:"failures"`
	StartedAt         time.Time         `json:"started_at"`
	FinishedAt        time.Time         `json:"finished_at"`
}
