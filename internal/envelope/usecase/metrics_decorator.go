package usecase

import (
	"context"
	"time"

	envelopeDomain "github.com/allisson/fieldcrypt/internal/envelope/domain"
	"github.com/allisson/fieldcrypt/internal/metrics"
)

// envelopeUseCaseWithMetrics decorates EnvelopeUseCase with metrics instrumentation.
type envelopeUseCaseWithMetrics struct {
	next    EnvelopeUseCase
	metrics metrics.BusinessMetrics
}

// NewEnvelopeUseCaseWithMetrics wraps an EnvelopeUseCase with metrics recording.
func NewEnvelopeUseCaseWithMetrics(useCase EnvelopeUseCase, m metrics.BusinessMetrics) EnvelopeUseCase {
	return &envelopeUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Encrypt records metrics for encrypt operations.
func (e *envelopeUseCaseWithMetrics) Encrypt(
	ctx context.Context,
	plaintext []byte,
) (*envelopeDomain.EncryptResult, error) {
	start := time.Now()
	result, err := e.next.Encrypt(ctx, plaintext)
	record(ctx, e.metrics, "envelope", "envelope_encrypt", start, err)
	return result, err
}

// Decrypt records metrics for decrypt operations.
func (e *envelopeUseCaseWithMetrics) Decrypt(ctx context.Context, envelope string) ([]byte, error) {
	start := time.Now()
	plaintext, err := e.next.Decrypt(ctx, envelope)
	record(ctx, e.metrics, "envelope", "envelope_decrypt", start, err)
	return plaintext, err
}

// DecryptEnvelope records metrics for decrypt operations on parsed envelopes.
func (e *envelopeUseCaseWithMetrics) DecryptEnvelope(
	ctx context.Context,
	env envelopeDomain.Envelope,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := e.next.DecryptEnvelope(ctx, env)
	record(ctx, e.metrics, "envelope", "envelope_decrypt", start, err)
	return plaintext, err
}

// rotationUseCaseWithMetrics decorates RotationUseCase with metrics instrumentation.
type rotationUseCaseWithMetrics struct {
	next    RotationUseCase
	metrics metrics.BusinessMetrics
}

// NewRotationUseCaseWithMetrics wraps a RotationUseCase with metrics recording.
func NewRotationUseCaseWithMetrics(useCase RotationUseCase, m metrics.BusinessMetrics) RotationUseCase {
	return &rotationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Rewrite records metrics for single rewrite steps.
func (r *rotationUseCaseWithMetrics) Rewrite(
	ctx context.Context,
	envelope string,
) (*envelopeDomain.RewriteResult, error) {
	start := time.Now()
	result, err := r.next.Rewrite(ctx, envelope)
	record(ctx, r.metrics, "rotation", "envelope_rewrite", start, err)
	return result, err
}

// DecryptWithLazyRotation records the read and, separately, whether it rotated.
func (r *rotationUseCaseWithMetrics) DecryptWithLazyRotation(
	ctx context.Context,
	identity, envelope string,
) (*envelopeDomain.LazyResult, error) {
	start := time.Now()
	result, err := r.next.DecryptWithLazyRotation(ctx, identity, envelope)
	record(ctx, r.metrics, "rotation", "lazy_read", start, err)
	if err == nil && result.Rotated {
		r.metrics.RecordOperation(ctx, "rotation", "lazy_rotate", "success")
	}
	return result, err
}

// RotateAll records metrics for bulk rotation runs.
func (r *rotationUseCaseWithMetrics) RotateAll(ctx context.Context) (*envelopeDomain.RotationReport, error) {
	start := time.Now()
	report, err := r.next.RotateAll(ctx)
	record(ctx, r.metrics, "rotation", "rotate_all", start, err)
	if err == nil {
		recordRotationOutcomes(ctx, r.metrics, report)
	}
	return report, err
}

// recordRotationOutcomes counts a report's records by outcome and failure kind.
func recordRotationOutcomes(ctx context.Context, m metrics.BusinessMetrics, report *envelopeDomain.RotationReport) {
	failed := make(map[envelopeDomain.ErrorKind]int64)
	for _, f := range report.Failures {
		failed[f.Kind]++
	}

	unchanged := int64(report.Attempted - report.Updated - len(report.Failures))
	m.RecordRotatedRecords(ctx, metrics.OutcomeUpdated, "", int64(report.Updated))
	m.RecordRotatedRecords(ctx, metrics.OutcomeUnchanged, "", unchanged)
	for kind, count := range failed {
		m.RecordRotatedRecords(ctx, metrics.OutcomeFailed, string(kind), count)
	}
}

func record(
	ctx context.Context,
	m metrics.BusinessMetrics,
	domain, operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.RecordOperation(ctx, domain, operation, status)
	m.RecordDuration(ctx, domain, operation, time.Since(start), status)
}
