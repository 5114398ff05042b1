// Package ledger defines the ports the finance engine consumes for
// persistence. Implementations own identity assignment and list ordering
// (date descending, newest ids first within a day).
package ledger

import (
	"context"

	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/core"
)

type (
	// MemberStore is the CRUD surface for active members.
	MemberStore interface {
		CreateMember(ctx context.Context, m core.Member) (core.Member, error)
		ListMembers(ctx context.Context) ([]core.Member, error)
		GetMember(ctx context.Context, id int64) (core.Member, error)
		// UpdateMember replaces the mutable fields (sessions, totalPaid).
		UpdateMember(ctx context.Context, id int64, sessions int, totalPaid core.Money) (core.Member, error)
		DeleteMember(ctx context.Context, id int64) error
	}

	// TransactionStore records the three money ledgers. Rows are immutable
	// once created; only archival moves them.
	TransactionStore interface {
		CreateIncome(ctx context.Context, t core.IncomeTransaction) (core.IncomeTransaction, error)
		ListIncome(ctx context.Context) ([]core.IncomeTransaction, error)
		CreateExpenditure(ctx context.Context, e core.Expenditure) (core.Expenditure, error)
		ListExpenditures(ctx context.Context) ([]core.Expenditure, error)
		CreateOtherIncome(ctx context.Context, o core.OtherIncome) (core.OtherIncome, error)
		ListOtherIncome(ctx context.Context) ([]core.OtherIncome, error)
	}

	// SeasonArchive closes seasons and reads back archived snapshots.
	SeasonArchive interface {
		// EndSeason atomically snapshots the four active ledgers into the
		// archive, writes the season summary, clears the actives, and
		// restarts identity counters at 1. All-or-nothing.
		EndSeason(ctx context.Context, name string, endDate core.Date, pricing core.Pricing) (core.Season, error)
		ListSeasons(ctx context.Context) ([]core.Season, error)
		GetSeason(ctx context.Context, id int64) (core.Season, error)
		ArchivedMembers(ctx context.Context, seasonID int64) ([]core.ArchivedMember, error)
		ArchivedIncome(ctx context.Context, seasonID int64) ([]core.ArchivedIncome, error)
		ArchivedExpenditures(ctx context.Context, seasonID int64) ([]core.ArchivedExpenditure, error)
		ArchivedOtherIncome(ctx context.Context, seasonID int64) ([]core.ArchivedOtherIncome, error)
	}

	// Ledger is the full store surface backing the finance service.
	Ledger interface {
		MemberStore
		TransactionStore
		SeasonArchive
		Close() error
	}
)
