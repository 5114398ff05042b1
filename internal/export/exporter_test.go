package export

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/core"
	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/ledger/memory"
)

func archivedSeason(t *testing.T) (*memory.Store, core.Season) {
	t.Helper()
	store := memory.New()
	err := store.Seed(
		[]core.Member{
			{FirstName: "Eli", LastName: "Ritchie", Sessions: 4, TotalPaid: core.Money{Cents: 42500}, MemberType: core.FullSeason},
			{FirstName: "Noa", LastName: "Lani", Sessions: 2, TotalPaid: core.Money{Cents: 19500}, MemberType: core.BeachPass},
		},
		[]core.IncomeTransaction{
			{FirstName: "Eli", LastName: "Ritchie", PaymentType: core.PayFullSeason, Amount: core.Money{Cents: 42500}, Date: core.NewDate(2026, 5, 1)},
		},
		[]core.Expenditure{
			{Payee: "Wax Supply Co", Reason: "Board wax", Amount: core.Money{Cents: 6000}, Date: core.NewDate(2026, 6, 1)},
		},
		[]core.OtherIncome{
			{Name: "Bake Sale", Amount: core.Money{Cents: 10000}, Date: core.NewDate(2026, 5, 20)},
		},
	)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	season, err := store.EndSeason(context.Background(), "Spring 2026", core.NewDate(2026, 8, 31), core.DefaultPricing())
	if err != nil {
		t.Fatalf("EndSeason failed: %v", err)
	}
	return store, season
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"members", TypeMembers, false},
		{" Income ", TypeIncome, false},
		{"EXPENDITURES", TypeExpenditures, false},
		{"other-income", TypeOtherIncome, false},
		{"payroll", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if tt.wantErr {
			if !errors.Is(err, core.ErrInvalidExportType) {
				t.Errorf("ParseType(%q): err = %v, want ErrInvalidExportType", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseType(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestSeasonWorkbookMembers(t *testing.T) {
	store, season := archivedSeason(t)
	exporter := NewExporter(store)

	wb, err := exporter.SeasonWorkbook(context.Background(), season.ID, TypeMembers)
	if err != nil {
		t.Fatalf("SeasonWorkbook failed: %v", err)
	}
	if wb.Filename != "Spring_2026_Members.xlsx" {
		t.Errorf("filename = %q", wb.Filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(wb.Data))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Members")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 members", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][4] != "Total Paid" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "1" || rows[1][1] != "Eli" {
		t.Errorf("first member row = %v", rows[1])
	}
	if rows[2][5] != string(core.BeachPass) {
		t.Errorf("member type cell = %q", rows[2][5])
	}
}

func TestSeasonWorkbookPerType(t *testing.T) {
	store, season := archivedSeason(t)
	exporter := NewExporter(store)
	ctx := context.Background()

	tests := []struct {
		typ      Type
		sheet    string
		dataRows int
	}{
		{TypeIncome, "Income Transactions", 1},
		{TypeExpenditures, "Expenditures", 1},
		{TypeOtherIncome, "Other Income", 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			wb, err := exporter.SeasonWorkbook(ctx, season.ID, tt.typ)
			if err != nil {
				t.Fatalf("SeasonWorkbook failed: %v", err)
			}
			f, err := excelize.OpenReader(bytes.NewReader(wb.Data))
			if err != nil {
				t.Fatalf("workbook does not open: %v", err)
			}
			defer f.Close()
			rows, err := f.GetRows(tt.sheet)
			if err != nil {
				t.Fatalf("GetRows(%q) failed: %v", tt.sheet, err)
			}
			if len(rows) != tt.dataRows+1 {
				t.Errorf("got %d rows, want %d", len(rows), tt.dataRows+1)
			}
		})
	}
}

func TestSeasonWorkbookUnknownSeason(t *testing.T) {
	store, _ := archivedSeason(t)
	exporter := NewExporter(store)

	_, err := exporter.SeasonWorkbook(context.Background(), 999, TypeMembers)
	if !errors.Is(err, core.ErrSeasonNotFound) {
		t.Errorf("err = %v, want ErrSeasonNotFound", err)
	}
}

func TestSeasonWorkbookCached(t *testing.T) {
	store, season := archivedSeason(t)
	exporter := NewExporter(store)
	ctx := context.Background()

	first, err := exporter.SeasonWorkbook(ctx, season.ID, TypeExpenditures)
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	second, err := exporter.SeasonWorkbook(ctx, season.ID, TypeExpenditures)
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Error("cached workbook differs from the first render")
	}
}
