package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "surfclub.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository failed: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestMemberCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	m, err := repo.CreateMember(ctx, core.Member{
		FirstName:  "Eli",
		LastName:   "Ritchie",
		Sessions:   4,
		TotalPaid:  core.Money{Cents: 42500},
		MemberType: core.FullSeason,
	})
	if err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}
	if m.ID != 1 {
		t.Errorf("first member ID = %d, want 1", m.ID)
	}

	got, err := repo.GetMember(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if got != m {
		t.Errorf("GetMember = %+v, want %+v", got, m)
	}

	updated, err := repo.UpdateMember(ctx, m.ID, 2, core.Money{Cents: 26500})
	if err != nil {
		t.Fatalf("UpdateMember failed: %v", err)
	}
	if updated.Sessions != 2 || updated.TotalPaid.Cents != 26500 {
		t.Errorf("UpdateMember = %+v", updated)
	}

	if err := repo.DeleteMember(ctx, m.ID); err != nil {
		t.Fatalf("DeleteMember failed: %v", err)
	}
	if _, err := repo.GetMember(ctx, m.ID); !errors.Is(err, core.ErrMemberNotFound) {
		t.Errorf("GetMember after delete: err = %v, want ErrMemberNotFound", err)
	}
	if err := repo.DeleteMember(ctx, m.ID); !errors.Is(err, core.ErrMemberNotFound) {
		t.Errorf("double delete: err = %v, want ErrMemberNotFound", err)
	}
	if _, err := repo.UpdateMember(ctx, 99, 1, core.Money{}); !errors.Is(err, core.ErrMemberNotFound) {
		t.Errorf("update missing: err = %v, want ErrMemberNotFound", err)
	}
}

func TestIncomeNullableColumns(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	qty := 3
	memberID := int64(7)
	withOptionals, err := repo.CreateIncome(ctx, core.IncomeTransaction{
		FirstName:   "Noa",
		LastName:    "Lani",
		PaymentType: core.PayExtraSessions,
		Quantity:    &qty,
		Amount:      core.Money{Cents: 24000},
		Date:        core.NewDate(2026, 6, 15),
		MemberID:    &memberID,
	})
	if err != nil {
		t.Fatalf("CreateIncome failed: %v", err)
	}
	withoutOptionals, err := repo.CreateIncome(ctx, core.IncomeTransaction{
		FirstName:   "Eli",
		LastName:    "Ritchie",
		PaymentType: core.PayFullSeason,
		Amount:      core.Money{Cents: 42500},
		Date:        core.NewDate(2026, 6, 20),
	})
	if err != nil {
		t.Fatalf("CreateIncome failed: %v", err)
	}

	txs, err := repo.ListIncome(ctx)
	if err != nil {
		t.Fatalf("ListIncome failed: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	// Newest date first.
	if txs[0].ID != withoutOptionals.ID {
		t.Errorf("order: got ID %d first, want %d", txs[0].ID, withoutOptionals.ID)
	}
	if txs[0].Quantity != nil || txs[0].MemberID != nil {
		t.Errorf("expected nil optionals, got %+v", txs[0])
	}
	if txs[1].Quantity == nil || *txs[1].Quantity != qty {
		t.Errorf("quantity not round-tripped: %+v", txs[1].Quantity)
	}
	if txs[1].MemberID == nil || *txs[1].MemberID != memberID {
		t.Errorf("member id not round-tripped: %+v", txs[1].MemberID)
	}
	if txs[1].ID != withOptionals.ID {
		t.Errorf("order: got ID %d second, want %d", txs[1].ID, withOptionals.ID)
	}
	if txs[1].Date.String() != "2026-06-15" {
		t.Errorf("date = %s, want 2026-06-15", txs[1].Date)
	}
}

func TestEndSeasonArchivesAndClears(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	m1, _ := repo.CreateMember(ctx, core.Member{
		FirstName: "Eli", LastName: "Ritchie", Sessions: 4,
		TotalPaid: core.Money{Cents: 42500}, MemberType: core.FullSeason,
	})
	m2, _ := repo.CreateMember(ctx, core.Member{
		FirstName: "Noa", LastName: "Lani", Sessions: 0,
		TotalPaid: core.Money{Cents: 3500}, MemberType: core.BeachPass,
	})
	if _, err := repo.CreateIncome(ctx, core.IncomeTransaction{
		FirstName: "Eli", LastName: "Ritchie", PaymentType: core.PayFullSeason,
		Amount: core.Money{Cents: 42500}, Date: core.NewDate(2026, 5, 1), MemberID: &m1.ID,
	}); err != nil {
		t.Fatalf("CreateIncome failed: %v", err)
	}
	if _, err := repo.CreateIncome(ctx, core.IncomeTransaction{
		FirstName: "Noa", LastName: "Lani", PaymentType: core.PayBeachPass,
		Amount: core.Money{Cents: 3500}, Date: core.NewDate(2026, 5, 10), MemberID: &m2.ID,
	}); err != nil {
		t.Fatalf("CreateIncome failed: %v", err)
	}
	if _, err := repo.CreateExpenditure(ctx, core.Expenditure{
		Payee: "Wax Supply Co", Reason: "Board wax",
		Amount: core.Money{Cents: 6000}, Date: core.NewDate(2026, 6, 1),
	}); err != nil {
		t.Fatalf("CreateExpenditure failed: %v", err)
	}
	if _, err := repo.CreateOtherIncome(ctx, core.OtherIncome{
		Name: "Bake Sale", Amount: core.Money{Cents: 10000}, Date: core.NewDate(2026, 5, 20),
	}); err != nil {
		t.Fatalf("CreateOtherIncome failed: %v", err)
	}

	season, err := repo.EndSeason(ctx, "Spring 2026", core.NewDate(2026, 8, 31), core.DefaultPricing())
	if err != nil {
		t.Fatalf("EndSeason failed: %v", err)
	}
	if season.StartDate.String() != "2026-05-01" {
		t.Errorf("startDate = %s, want 2026-05-01", season.StartDate)
	}
	if season.StartingCapital.Cents != 0 {
		t.Errorf("startingCapital = %d, want 0", season.StartingCapital.Cents)
	}
	wantCapital := int64(42500 + 3500 + 10000 - 6000)
	if season.EndingCapital.Cents != wantCapital {
		t.Errorf("endingCapital = %d, want %d", season.EndingCapital.Cents, wantCapital)
	}
	if season.TotalMembers != 2 {
		t.Errorf("totalMembers = %d, want 2", season.TotalMembers)
	}

	// Active tables are empty.
	members, _ := repo.ListMembers(ctx)
	income, _ := repo.ListIncome(ctx)
	exps, _ := repo.ListExpenditures(ctx)
	other, _ := repo.ListOtherIncome(ctx)
	if len(members)+len(income)+len(exps)+len(other) != 0 {
		t.Errorf("active ledgers not cleared: %d/%d/%d/%d", len(members), len(income), len(exps), len(other))
	}

	// Archive copies carry the original IDs.
	archMembers, err := repo.ArchivedMembers(ctx, season.ID)
	if err != nil {
		t.Fatalf("ArchivedMembers failed: %v", err)
	}
	if len(archMembers) != 2 {
		t.Fatalf("got %d archived members, want 2", len(archMembers))
	}
	if archMembers[0].OriginalID != m1.ID || archMembers[1].OriginalID != m2.ID {
		t.Errorf("original ids = %d, %d", archMembers[0].OriginalID, archMembers[1].OriginalID)
	}
	archOther, err := repo.ArchivedOtherIncome(ctx, season.ID)
	if err != nil {
		t.Fatalf("ArchivedOtherIncome failed: %v", err)
	}
	if len(archOther) != 1 || archOther[0].Name != "Bake Sale" {
		t.Errorf("archived other income = %+v", archOther)
	}
	archIncome, err := repo.ArchivedIncome(ctx, season.ID)
	if err != nil {
		t.Fatalf("ArchivedIncome failed: %v", err)
	}
	if len(archIncome) != 2 {
		t.Errorf("got %d archived transactions, want 2", len(archIncome))
	}

	// ID sequences restart for the next season.
	fresh, err := repo.CreateMember(ctx, core.Member{
		FirstName: "Kai", LastName: "Moana", MemberType: core.BeachPass, TotalPaid: core.Money{Cents: 3500},
	})
	if err != nil {
		t.Fatalf("CreateMember after archive failed: %v", err)
	}
	if fresh.ID != 1 {
		t.Errorf("post-archive member ID = %d, want 1", fresh.ID)
	}

	// Season summaries survive.
	seasons, err := repo.ListSeasons(ctx)
	if err != nil {
		t.Fatalf("ListSeasons failed: %v", err)
	}
	if len(seasons) != 1 || seasons[0].Name != "Spring 2026" {
		t.Errorf("seasons = %+v", seasons)
	}
}

func TestEndSeasonEmptyLedgers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	season, err := repo.EndSeason(ctx, "Quiet Season", core.Today(), core.DefaultPricing())
	if err != nil {
		t.Fatalf("EndSeason failed: %v", err)
	}
	if season.EndingCapital.Cents != 0 || season.TotalMembers != 0 {
		t.Errorf("season = %+v", season)
	}
	// No transactions: start date falls back to the archival day.
	if season.StartDate.String() != core.Today().String() {
		t.Errorf("startDate = %s, want today", season.StartDate)
	}
}

func TestGetSeasonNotFound(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetSeason(context.Background(), 42); !errors.Is(err, core.ErrSeasonNotFound) {
		t.Errorf("err = %v, want ErrSeasonNotFound", err)
	}
}

func TestClosedStoreReportsUnavailable(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := repo.ListMembers(ctx); !errors.Is(err, core.ErrStoreUnavailable) {
		t.Errorf("ListMembers on closed store: err = %v, want ErrStoreUnavailable", err)
	}
	if _, err := repo.CreateMember(ctx, core.Member{
		FirstName: "Eli", LastName: "Ritchie", MemberType: core.BeachPass,
	}); !errors.Is(err, core.ErrStoreUnavailable) {
		t.Errorf("CreateMember on closed store: err = %v, want ErrStoreUnavailable", err)
	}
	if _, err := repo.ListSeasons(ctx); !errors.Is(err, core.ErrStoreUnavailable) {
		t.Errorf("ListSeasons on closed store: err = %v, want ErrStoreUnavailable", err)
	}
}
