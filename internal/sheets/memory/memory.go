// Package memory is an in-process season mirror for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/core"
)

type Mirror struct {
	mu      sync.Mutex
	seasons []core.Season
}

func New() *Mirror {
	return &Mirror{}
}

// AppendSeason stores the season and returns a synthetic row reference.
func (m *Mirror) AppendSeason(_ context.Context, season core.Season) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seasons = append(m.seasons, season)
	return fmt.Sprintf("mem:%d", len(m.seasons)), nil
}

// MirroredSeasonIDs returns the IDs of every stored season.
func (m *Mirror) MirroredSeasonIDs(_ context.Context) (map[int64]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[int64]bool, len(m.seasons))
	for _, s := range m.seasons {
		ids[s.ID] = true
	}
	return ids, nil
}

// Seasons returns a copy of everything mirrored so far.
func (m *Mirror) Seasons() []core.Season {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Season, len(m.seasons))
	copy(out, m.seasons)
	return out
}
