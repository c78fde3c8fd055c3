package dto

import (
	"time"

	envelopeDomain "github.com/allisson/fieldcrypt/internal/envelope/domain"
	recordDomain "github.com/allisson/fieldcrypt/internal/record/domain"
)

// EncryptResponse contains the result of an encryption operation.
type EncryptResponse struct {
	Envelope   string `json:"envelope"` // Format: "1:key_version:nonce:tag:ciphertext"
	KeyVersion string `json:"key_version"`
}

// MapEncryptResultToResponse converts an encrypt result to an API response.
func MapEncryptResultToResponse(result *envelopeDomain.EncryptResult) EncryptResponse {
	return EncryptResponse{
		Envelope:   result.Envelope,
		KeyVersion: result.KeyVersion,
	}
}

// RecordResponse represents a stored record in API responses.
type RecordResponse struct {
	Identity   string    `json:"identity"`
	KeyVersion string    `json:"key_version"`
	Envelope   string    `json:"envelope"`
	CreatedAt  time.Time `json:"created_at"`
}

// MapRecordToResponse converts a domain record to an API response.
func MapRecordToResponse(record *recordDomain.Record) RecordResponse {
	return RecordResponse{
		Identity:   record.Identity,
		KeyVersion: record.KeyVersion(),
		Envelope:   record.Envelope,
		CreatedAt:  record.CreatedAt,
	}
}

// RevealResponse contains a decrypted record.
// SECURITY: The Plaintext field contains sensitive data and should be transmitted over HTTPS.
type RevealResponse struct {
	Identity   string `json:"identity"`
	Plaintext  []byte `json:"plaintext"`
	Rotated    bool   `json:"rotated"`
	OldVersion string `json:"old_version"`
	NewVersion string `json:"new_version"`
}

// MapRevealedRecordToResponse converts a revealed record to an API response.
func MapRevealedRecordToResponse(revealed *recordDomain.RevealedRecord) RevealResponse {
	return RevealResponse{
		Identity:   revealed.Identity,
		Plaintext:  revealed.Plaintext,
		Rotated:    revealed.Rotated,
		OldVersion: revealed.OldVersion,
		NewVersion: revealed.NewVersion,
	}
}

// RotationFailureResponse describes one identity that could not be rotated.
type RotationFailureResponse struct {
	Identity string `json:"identity"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

// RotationReportResponse summarizes a bulk rotation run.
type RotationReportResponse struct {
	ID                string                    `json:"id"`
	CurrentVersion    string                    `json:"current_version"`
	SealedVersions    []string                  `json:"sealed_versions"`
	Attempted         int                       `json:"attempted"`
	Updated           int                       `json:"updated"`
	UpdatedIdentities []string                  `json:"updated_identities"`
	Failures          []RotationFailureResponse `json:"failures"`
	StartedAt         time.Time                 `json:"started_at"`
	FinishedAt        time.Time                 `json:"finished_at"`
}

// MapRotationReportToResponse converts a rotation report to an API response.
func MapRotationReportToResponse(report *envelopeDomain.RotationReport) RotationReportResponse {
	failures := make([]RotationFailureResponse, 0, len(report.Failures))
	for _, f := range report.Failures {
		failures = append(failures, RotationFailureResponse{
			Identity: f.Identity,
			Kind:     string(f.Kind),
			Message:  f.Message,
		})
	}

	updated := report.UpdatedIdentities
	if updated == nil {
		updated = []string{}
	}

	sealed := report.SealedVersions
	if sealed == nil {
		sealed = []string{}
	}

	return RotationReportResponse{
		ID:                report.ID.String(),
		CurrentVersion:    report.CurrentVersion,
		SealedVersions:    sealed,
		Attempted:         report.Attempted,
		Updated:           report.Updated,
		UpdatedIdentities: updated,
		Failures:          failures,
		StartedAt:         report.StartedAt,
		FinishedAt:        report.FinishedAt,
	}
}
