package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	recordUseCase "github.com/allisson/fieldcrypt/internal/record/usecase"
)

// RunRotateRecords rewrites every record sealed under a stale key version and prints the
// rotation report. Per-record failures are part of the report and do not fail the command;
// only a store or key provider failure that stops the run returns an error.
func RunRotateRecords(
	ctx context.Context,
	recordUC recordUseCase.RecordUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("starting record rotation")

	report, err := recordUC.RotateAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to rotate records: %w", err)
	}

	logger.Info("record rotation completed",
		slog.String("report_id", report.ID.String()),
		slog.String("current_version", report.CurrentVersion),
		slog.Int("attempted", report.Attempted),
		slog.Int("updated", report.Updated),
		slog.Int("failed", len(report.Failures)),
	)

	if format == formatJSON {
		return writeJSON(writer, report)
	}

	_, _ = fmt.Fprintf(writer, "Rotation %s\n", report.ID)
	_, _ = fmt.Fprintf(writer, "Current version: %s\n", report.CurrentVersion)
	if len(report.SealedVersions) > 1 {
		_, _ = fmt.Fprintf(writer, "Sealed with:     %s\n", strings.Join(report.SealedVersions, ", "))
	}
	_, _ = fmt.Fprintf(writer, "Attempted:       %d\n", report.Attempted)
	_, _ = fmt.Fprintf(writer, "Updated:         %d\n", report.Updated)
	_, _ = fmt.Fprintf(writer, "Failed:          %d\n", len(report.Failures))
	_, _ = fmt.Fprintf(writer, "Duration:        %s\n", report.FinishedAt.Sub(report.StartedAt))
	for _, failure := range report.Failures {
		_, _ = fmt.Fprintf(writer, "  %s: %s (%s)\n", failure.Identity, failure.Kind, failure.Message)
	}
	return nil
}
