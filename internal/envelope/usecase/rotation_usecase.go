package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/fieldcrypt/internal/crypto/service"
	envelopeDomain "github.com/allisson/fieldcrypt/internal/envelope/domain"
	recordDomain "github.com/allisson/fieldcrypt/internal/record/domain"
)

// RotationConfig holds bulk rotation settings.
type RotationConfig struct {
	// BatchSize is the number of records read per page.
	BatchSize int
	// Concurrency bounds the rewrite steps running at once within a page.
	Concurrency int
	// WritesPerSecond throttles store writes. Zero disables throttling.
	WritesPerSecond float64
}

// rotationUseCase implements RotationUseCase.
type rotationUseCase struct {
	config      RotationConfig
	envelopes   EnvelopeUseCase
	keyProvider cryptoService.KeyProvider
	aeadManager cryptoService.AEADManager
	store       RecordStore
	logger      *slog.Logger
}

// Rewrite runs one rewrite step.
//
// The current key is fetched once and the same material both decides whether the
// envelope is stale and seals the new envelope, so NewVersion always names the key
// that produced it.
func (r *rotationUseCase) Rewrite(
	ctx context.Context,
	envelope string,
) (*envelopeDomain.RewriteResult, error) {
	env, err := envelopeDomain.ParseEnvelope(envelope)
	if err != nil {
		return nil, err
	}

	plaintext, err := r.envelopes.DecryptEnvelope(ctx, env)
	if err != nil {
		return nil, err
	}

	current, err := r.keyProvider.Current(ctx)
	if err != nil {
		cryptoDomain.Zero(plaintext)
		return nil, err
	}
	defer current.Zero()

	if current.Version == env.KeyVersion {
		return &envelopeDomain.RewriteResult{
			Envelope:   envelope,
			Plaintext:  plaintext,
			Rotated:    false,
			OldVersion: env.KeyVersion,
			NewVersion: env.KeyVersion,
		}, nil
	}

	rotated, err := seal(r.aeadManager, current, plaintext)
	if err != nil {
		cryptoDomain.Zero(plaintext)
		return nil, err
	}

	return &envelopeDomain.RewriteResult{
		Envelope:   rotated.String(),
		Plaintext:  plaintext,
		Rotated:    true,
		OldVersion: env.KeyVersion,
		NewVersion: current.Version,
	}, nil
}

// DecryptWithLazyRotation decrypts a stored envelope and writes back the rotated
// envelope before returning when it was sealed under an older key version.
//
// When the write fails the plaintext is discarded and ErrStoreUnavailable is returned.
func (r *rotationUseCase) DecryptWithLazyRotation(
	ctx context.Context,
	identity, envelope string,
) (*envelopeDomain.LazyResult, error) {
	result, err := r.Rewrite(ctx, envelope)
	if err != nil {
		return nil, err
	}

	if result.Rotated {
		if err := r.store.Put(ctx, identity, result.Envelope); err != nil {
			cryptoDomain.Zero(result.Plaintext)
			return nil, fmt.Errorf("%w: failed to write rotated envelope: %v", envelopeDomain.ErrStoreUnavailable, err)
		}

		if r.logger != nil {
			r.logger.Info("envelope rotated on read",
				slog.String("identity", identity),
				slog.String("old_version", result.OldVersion),
				slog.String("new_version", result.NewVersion),
			)
		}
	}

	return &envelopeDomain.LazyResult{
		Plaintext:  result.Plaintext,
		Rotated:    result.Rotated,
		OldVersion: result.OldVersion,
		NewVersion: result.NewVersion,
	}, nil
}

// RotateAll pages through the store and rewrites every stale envelope.
//
// The current version is established before any record is read; failing to do so
// aborts the run. After that, a failure on one record is recorded in the report and
// the scan continues. Failing to list a page aborts the run because no further
// records can be enumerated.
func (r *rotationUseCase) RotateAll(ctx context.Context) (*envelopeDomain.RotationReport, error) {
	current, err := r.keyProvider.Current(ctx)
	if err != nil {
		return nil, err
	}
	currentVersion := current.Version
	current.Zero()

	report := &envelopeDomain.RotationReport{
		ID:                uuid.Must(uuid.NewV7()),
		CurrentVersion:    currentVersion,
		SealedVersions:    []string{},
		UpdatedIdentities: []string{},
		Failures:          []envelopeDomain.RotationFailure{},
		StartedAt:         time.Now().UTC(),
	}

	if r.logger != nil {
		r.logger.Info("starting bulk rotation",
			slog.String("rotation_id", report.ID.String()),
			slog.String("current_version", currentVersion),
			slog.Int("batch_size", r.config.BatchSize),
			slog.Int("concurrency", r.config.Concurrency),
		)
	}

	var limiter *rate.Limiter
	if r.config.WritesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.config.WritesPerSecond), 1)
	}

	var mu sync.Mutex
	sealed := make(map[string]struct{})
	after := ""
	for {
		records, err := r.store.ListAfter(ctx, after, r.config.BatchSize)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list records: %v", envelopeDomain.ErrStoreUnavailable, err)
		}
		if len(records) == 0 {
			break
		}

		var g errgroup.Group
		g.SetLimit(r.config.Concurrency)

		for _, record := range records {
			g.Go(func() error {
				sealedWith, err := r.rotateRecord(ctx, record, limiter)

				mu.Lock()
				defer mu.Unlock()

				report.Attempted++
				switch {
				case err != nil:
					report.Failures = append(report.Failures, envelopeDomain.RotationFailure{
						Identity: record.Identity,
						Kind:     envelopeDomain.KindOf(err),
						Message:  err.Error(),
					})
				case sealedWith != "":
					report.Updated++
					report.UpdatedIdentities = append(report.UpdatedIdentities, record.Identity)
					sealed[sealedWith] = struct{}{}
				}
				return nil
			})
		}
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		after = records[len(records)-1].Identity
		if len(records) < r.config.BatchSize {
			break
		}
	}

	for version := range sealed {
		report.SealedVersions = append(report.SealedVersions, version)
	}
	sort.Strings(report.SealedVersions)
	sort.Strings(report.UpdatedIdentities)
	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].Identity < report.Failures[j].Identity
	})
	report.FinishedAt = time.Now().UTC()

	if r.logger != nil {
		r.logger.Info("bulk rotation completed",
			slog.String("rotation_id", report.ID.String()),
			slog.String("current_version", report.CurrentVersion),
			slog.Int("attempted", report.Attempted),
			slog.Int("updated", report.Updated),
			slog.Int("failed", len(report.Failures)),
		)
	}

	return report, nil
}

// rotateRecord rewrites one record and persists it when stale. It returns the key
// version of the persisted envelope, or "" when nothing was written.
func (r *rotationUseCase) rotateRecord(
	ctx context.Context,
	record *recordDomain.Record,
	limiter *rate.Limiter,
) (string, error) {
	result, err := r.Rewrite(ctx, record.Envelope)
	if err != nil {
		r.logFailure(record.Identity, err)
		return "", err
	}
	cryptoDomain.Zero(result.Plaintext)

	if !result.Rotated {
		return "", nil
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	if err := r.store.Put(ctx, record.Identity, result.Envelope); err != nil {
		err = fmt.Errorf("%w: %v", envelopeDomain.ErrStoreUnavailable, err)
		r.logFailure(record.Identity, err)
		return "", err
	}

	return result.NewVersion, nil
}

func (r *rotationUseCase) logFailure(identity string, err error) {
	if r.logger == nil {
		return
	}
	r.logger.Warn("failed to rotate record",
		slog.String("identity", identity),
		slog.String("error_kind", string(envelopeDomain.KindOf(err))),
		slog.Any("error", err),
	)
}

// NewRotationUseCase creates a new RotationUseCase.
//
// Non-positive BatchSize and Concurrency fall back to 100 and 1.
func NewRotationUseCase(
	config RotationConfig,
	envelopes EnvelopeUseCase,
	keyProvider cryptoService.KeyProvider,
	aeadManager cryptoService.AEADManager,
	store RecordStore,
	logger *slog.Logger,
) RotationUseCase {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &rotationUseCase{
		config:      config,
		envelopes:   envelopes,
		keyProvider: keyProvider,
		aeadManager: aeadManager,
		store:       store,
		logger:      logger,
	}
}
