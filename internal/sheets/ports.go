package sheets

import (
	"context"

	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/core"
)

// Ports for outbound adapters.
type (
	// SeasonWriter appends one season summary row to the mirror.
	SeasonWriter interface {
		AppendSeason(ctx context.Context, season core.Season) (rowRef string, err error)
	}

	// SeasonReader reports which season IDs the mirror already holds, so
	// the worker can catch up after downtime without writing duplicates.
	SeasonReader interface {
		MirroredSeasonIDs(ctx context.Context) (map[int64]bool, error)
	}

	// SeasonMirror is the full mirror surface the worker depends on.
	SeasonMirror interface {
		SeasonWriter
		SeasonReader
	}
)
