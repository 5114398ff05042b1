// Package worker keeps the Google Sheets season mirror converged with the
// season archive.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/amqp"
	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/ledger"
	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/sheets"
)

// MirrorWorker mirrors archived seasons to a spreadsheet. Archival events
// arrive over AMQP; a startup check and a periodic sweep cover messages
// lost while the worker was down.
type MirrorWorker struct {
	archive ledger.SeasonArchive
	mirror  sheets.SeasonMirror
}

func NewMirrorWorker(archive ledger.SeasonArchive, mirror sheets.SeasonMirror) *MirrorWorker {
	return &MirrorWorker{
		archive: archive,
		mirror:  mirror,
	}
}

// HandleSeasonArchived processes a single season archived message. The
// season is re-read from the archive; the message only names it. Already
// mirrored seasons ack without a second write.
func (w *MirrorWorker) HandleSeasonArchived(ctx context.Context, msg *amqp.SeasonArchivedMessage) error {
	slog.InfoContext(ctx, "Processing season archived message",
		"season_id", msg.SeasonID,
		"season_name", msg.Name)

	mirrored, err := w.mirror.MirroredSeasonIDs(ctx)
	if err != nil {
		return fmt.Errorf("read mirrored seasons: %w", err)
	}
	if mirrored[msg.SeasonID] {
		slog.InfoContext(ctx, "Season already mirrored, skipping", "season_id", msg.SeasonID)
		return nil
	}

	season, err := w.archive.GetSeason(ctx, msg.SeasonID)
	if err != nil {
		return fmt.Errorf("get season from archive: %w", err)
	}

	ref, err := w.mirror.AppendSeason(ctx, season)
	if err != nil {
		return fmt.Errorf("append season to mirror: %w", err)
	}

	slog.InfoContext(ctx, "Season mirrored",
		"season_id", season.ID,
		"season_name", season.Name,
		"mirror_ref", ref)
	return nil
}

// SyncMissingSeasons mirrors every archived season the spreadsheet does not
// hold yet. Runs at startup and on the periodic sweep.
func (w *MirrorWorker) SyncMissingSeasons(ctx context.Context) error {
	seasons, err := w.archive.ListSeasons(ctx)
	if err != nil {
		return fmt.Errorf("list seasons: %w", err)
	}
	if len(seasons) == 0 {
		return nil
	}

	mirrored, err := w.mirror.MirroredSeasonIDs(ctx)
	if err != nil {
		return fmt.Errorf("read mirrored seasons: %w", err)
	}

	synced := 0
	failed := 0
	for _, season := range seasons {
		if mirrored[season.ID] {
			continue
		}
		if _, err := w.mirror.AppendSeason(ctx, season); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror season",
				"season_id", season.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	if synced > 0 || failed > 0 {
		slog.InfoContext(ctx, "Mirror sweep completed",
			"total", len(seasons),
			"synced", synced,
			"errors", failed)
	}
	return nil
}

// Run consumes archival events and sweeps for missing seasons on interval
// until ctx is cancelled.
func (w *MirrorWorker) Run(ctx context.Context, client *amqp.Client, sweepInterval time.Duration) error {
	if err := w.SyncMissingSeasons(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup mirror sweep failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return client.ConsumeSeasonArchived(ctx, func(msg *amqp.SeasonArchivedMessage) error {
			return w.HandleSeasonArchived(ctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.SyncMissingSeasons(ctx); err != nil {
					slog.ErrorContext(ctx, "Periodic mirror sweep failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}
