// Package http provides HTTP handlers for encryption, encrypted records and key rotation.
package http

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
	envelopeUseCase "github.com/allisson/fieldcrypt/internal/envelope/usecase"
	"github.com/allisson/fieldcrypt/internal/httputil"
	"github.com/allisson/fieldcrypt/internal/record/http/dto"
	recordUseCase "github.com/allisson/fieldcrypt/internal/record/usecase"
	customValidation "github.com/allisson/fieldcrypt/internal/validation"
)

// RecordHandler handles HTTP requests for encryption, records and rotation.
type RecordHandler struct {
	envelopeUseCase envelopeUseCase.EnvelopeUseCase
	recordUseCase   recordUseCase.RecordUseCase
	logger          *slog.Logger
}

// NewRecordHandler creates a new record handler with required dependencies.
func NewRecordHandler(
	envelopeUseCase envelopeUseCase.EnvelopeUseCase,
	recordUseCase recordUseCase.RecordUseCase,
	logger *slog.Logger,
) *RecordHandler {
	return &RecordHandler{
		envelopeUseCase: envelopeUseCase,
		recordUseCase:   recordUseCase,
		logger:          logger,
	}
}

// EncryptHandler encrypts plaintext under the current key version without storing it.
// POST /v1/encrypt - Returns 200 OK with the envelope and its key version.
func (h *RecordHandler) EncryptHandler(c *gin.Context) {
	var req dto.EncryptRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := base64.StdEncoding.DecodeString(req.Plaintext)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid base64 plaintext: %w", err), h.logger)
		return
	}
	defer cryptoDomain.Zero(plaintext)

	result, err := h.envelopeUseCase.Encrypt(c.Request.Context(), plaintext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEncryptResultToResponse(result))
}

// CreateHandler encrypts plaintext and stores it for a new identity.
// POST /v1/records - Returns 201 Created, or 409 Conflict when the identity exists.
func (h *RecordHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateRecordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := base64.StdEncoding.DecodeString(req.Plaintext)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid base64 plaintext: %w", err), h.logger)
		return
	}
	defer cryptoDomain.Zero(plaintext)

	record, err := h.recordUseCase.Create(c.Request.Context(), req.Identity, plaintext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRecordToResponse(record))
}

// RevealHandler decrypts the record of an identity, rotating it first when stale.
// GET /v1/records/:identity - Returns 200 OK with the plaintext. SECURITY: Plaintext is
// zeroed after the response is written.
func (h *RecordHandler) RevealHandler(c *gin.Context) {
	identity := c.Param("identity")
	if err := customValidation.Identity.Validate(identity); err != nil || identity == "" {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid identity"), h.logger)
		return
	}

	revealed, err := h.recordUseCase.Reveal(c.Request.Context(), identity)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer cryptoDomain.Zero(revealed.Plaintext)

	c.JSON(http.StatusOK, dto.MapRevealedRecordToResponse(revealed))
}

// RotateHandler rewrites every stale record under the current key version.
// POST /v1/rotations - Returns 200 OK with the rotation report. Per-record failures are
// part of the report; only failures that stop the run produce an error status.
func (h *RecordHandler) RotateHandler(c *gin.Context) {
	report, err := h.recordUseCase.RotateAll(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRotationReportToResponse(report))
}
