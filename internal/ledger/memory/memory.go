// Package memory implements the ledger ports in process memory. It backs
// unit tests and the default development backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/core"
	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/ledger"
)

type Store struct {
	mu sync.Mutex

	members      []core.Member
	income       []core.IncomeTransaction
	expenditures []core.Expenditure
	otherIncome  []core.OtherIncome

	seasons     []core.Season
	archMembers []core.ArchivedMember
	archIncome  []core.ArchivedIncome
	archExps    []core.ArchivedExpenditure
	archOther   []core.ArchivedOtherIncome

	memberSeq, incomeSeq, expSeq, otherSeq, seasonSeq int64
}

var _ ledger.Ledger = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Close() error { return nil }

func (s *Store) CreateMember(ctx context.Context, m core.Member) (core.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberSeq++
	m.ID = s.memberSeq
	s.members = append(s.members, m)
	return m, nil
}

func (s *Store) ListMembers(ctx context.Context) ([]core.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Member, len(s.members))
	copy(out, s.members)
	return out, nil
}

func (s *Store) GetMember(ctx context.Context, id int64) (core.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.ID == id {
			return m, nil
		}
	}
	return core.Member{}, core.ErrMemberNotFound
}

func (s *Store) UpdateMember(ctx context.Context, id int64, sessions int, totalPaid core.Money) (core.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.members {
		if s.members[i].ID == id {
			s.members[i].Sessions = sessions
			s.members[i].TotalPaid = totalPaid
			return s.members[i], nil
		}
	}
	return core.Member{}, core.ErrMemberNotFound
}

func (s *Store) DeleteMember(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.members {
		if s.members[i].ID == id {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return nil
		}
	}
	return core.ErrMemberNotFound
}

func (s *Store) CreateIncome(ctx context.Context, t core.IncomeTransaction) (core.IncomeTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomeSeq++
	t.ID = s.incomeSeq
	s.income = append(s.income, t)
	return t, nil
}

func (s *Store) ListIncome(ctx context.Context) ([]core.IncomeTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.IncomeTransaction, len(s.income))
	copy(out, s.income)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) CreateExpenditure(ctx context.Context, e core.Expenditure) (core.Expenditure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expSeq++
	e.ID = s.expSeq
	s.expenditures = append(s.expenditures, e)
	return e, nil
}

func (s *Store) ListExpenditures(ctx context.Context) ([]core.Expenditure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expenditure, len(s.expenditures))
	copy(out, s.expenditures)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) CreateOtherIncome(ctx context.Context, o core.OtherIncome) (core.OtherIncome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otherSeq++
	o.ID = s.otherSeq
	s.otherIncome = append(s.otherIncome, o)
	return o, nil
}

func (s *Store) ListOtherIncome(ctx context.Context) ([]core.OtherIncome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.OtherIncome, len(s.otherIncome))
	copy(out, s.otherIncome)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// EndSeason snapshots and clears the four active ledgers under one lock.
// The in-memory store has no partial-failure mode, so atomicity is the lock.
func (s *Store) EndSeason(ctx context.Context, name string, endDate core.Date, pricing core.Pricing) (core.Season, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agg := core.ComputeAggregates(s.income, s.otherIncome, s.expenditures, pricing)
	startDate := earliestDate(s.income, s.expenditures, s.otherIncome)

	s.seasonSeq++
	season := core.Season{
		ID:              s.seasonSeq,
		Name:            name,
		StartDate:       startDate,
		EndDate:         endDate,
		StartingCapital: core.Money{},
		EndingCapital:   agg.TotalCapital,
		TotalMembers:    len(s.members),
		TotalIncome:     agg.TotalIncome,
		TotalExpenses:   agg.TotalExpenses,
	}
	s.seasons = append(s.seasons, season)

	for _, m := range s.members {
		s.archMembers = append(s.archMembers, core.ArchivedMember{SeasonID: season.ID, OriginalID: m.ID, Member: m})
	}
	for _, t := range s.income {
		s.archIncome = append(s.archIncome, core.ArchivedIncome{SeasonID: season.ID, OriginalID: t.ID, IncomeTransaction: t})
	}
	for _, e := range s.expenditures {
		s.archExps = append(s.archExps, core.ArchivedExpenditure{SeasonID: season.ID, OriginalID: e.ID, Expenditure: e})
	}
	for _, o := range s.otherIncome {
		s.archOther = append(s.archOther, core.ArchivedOtherIncome{SeasonID: season.ID, OriginalID: o.ID, OtherIncome: o})
	}

	s.members = nil
	s.income = nil
	s.expenditures = nil
	s.otherIncome = nil
	s.memberSeq, s.incomeSeq, s.expSeq, s.otherSeq = 0, 0, 0, 0

	return season, nil
}

func (s *Store) ListSeasons(ctx context.Context) ([]core.Season, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Season, len(s.seasons))
	copy(out, s.seasons)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EndDate.After(out[j].EndDate.Time)
	})
	return out, nil
}

func (s *Store) GetSeason(ctx context.Context, id int64) (core.Season, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, season := range s.seasons {
		if season.ID == id {
			return season, nil
		}
	}
	return core.Season{}, core.ErrSeasonNotFound
}

func (s *Store) ArchivedMembers(ctx context.Context, seasonID int64) ([]core.ArchivedMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.ArchivedMember
	for _, m := range s.archMembers {
		if m.SeasonID == seasonID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Store) ArchivedIncome(ctx context.Context, seasonID int64) ([]core.ArchivedIncome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.ArchivedIncome
	for _, t := range s.archIncome {
		if t.SeasonID == seasonID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) ArchivedExpenditures(ctx context.Context, seasonID int64) ([]core.ArchivedExpenditure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.ArchivedExpenditure
	for _, e := range s.archExps {
		if e.SeasonID == seasonID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) ArchivedOtherIncome(ctx context.Context, seasonID int64) ([]core.ArchivedOtherIncome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.ArchivedOtherIncome
	for _, o := range s.archOther {
		if o.SeasonID == seasonID {
			out = append(out, o)
		}
	}
	return out, nil
}

// earliestDate picks season start: the oldest transaction date, or today
// when the season saw no transactions at all.
func earliestDate(income []core.IncomeTransaction, exps []core.Expenditure, other []core.OtherIncome) core.Date {
	var earliest core.Date
	consider := func(d core.Date) {
		if d.IsZero() {
			return
		}
		if earliest.IsZero() || d.Before(earliest.Time) {
			earliest = d
		}
	}
	for _, t := range income {
		consider(t.Date)
	}
	for _, e := range exps {
		consider(e.Date)
	}
	for _, o := range other {
		consider(o.Date)
	}
	if earliest.IsZero() {
		return core.Today()
	}
	return earliest
}

// Seed loads fixture rows, assigning ids. Test helper.
func (s *Store) Seed(members []core.Member, income []core.IncomeTransaction, exps []core.Expenditure, other []core.OtherIncome) error {
	ctx := context.Background()
	for _, m := range members {
		if _, err := s.CreateMember(ctx, m); err != nil {
			return fmt.Errorf("seed member: %w", err)
		}
	}
	for _, t := range income {
		if _, err := s.CreateIncome(ctx, t); err != nil {
			return fmt.Errorf("seed income: %w", err)
		}
	}
	for _, e := range exps {
		if _, err := s.CreateExpenditure(ctx, e); err != nil {
			return fmt.Errorf("seed expenditure: %w", err)
		}
	}
	for _, o := range other {
		if _, err := s.CreateOtherIncome(ctx, o); err != nil {
			return fmt.Errorf("seed other income: %w", err)
		}
	}
	return nil
}
