package core

import (
	"testing"

	"pgregory.net/rapid"
)

func TestSeasonLengthBoundary(t *testing.T) {
	p := DefaultPricing()
	cases := []struct {
		capitalCents int64
		want         int
	}{
		{1599999, 4}, // $15,999.99
		{1624999, 4}, // one cent short
		{1625000, 5}, // exactly $16,250.00
		{1625001, 5},
		{0, 4},
		{-100000, 4},
	}
	for _, c := range cases {
		if got := p.SeasonLength(Money{Cents: c.capitalCents}); got != c.want {
			t.Errorf("SeasonLength(%d cents) = %d, want %d", c.capitalCents, got, c.want)
		}
	}
}

func TestComputeAggregates(t *testing.T) {
	p := DefaultPricing()
	income := []IncomeTransaction{
		{Amount: Money{Cents: 42500}},
		{Amount: Money{Cents: 3500}},
	}
	other := []OtherIncome{{Amount: Money{Cents: 10000}}}
	exps := []Expenditure{{Amount: Money{Cents: 20000}}}

	agg := ComputeAggregates(income, other, exps, p)

	if agg.TotalIncome.Cents != 56000 {
		t.Errorf("TotalIncome = %d, want 56000", agg.TotalIncome.Cents)
	}
	if agg.TotalExpenses.Cents != 20000 {
		t.Errorf("TotalExpenses = %d, want 20000", agg.TotalExpenses.Cents)
	}
	if agg.TotalCapital.Cents != 36000 {
		t.Errorf("TotalCapital = %d, want 36000", agg.TotalCapital.Cents)
	}
	if agg.SeasonLength != 4 {
		t.Errorf("SeasonLength = %d, want 4", agg.SeasonLength)
	}
}

func TestComputeAggregatesEmpty(t *testing.T) {
	agg := ComputeAggregates(nil, nil, nil, DefaultPricing())
	if agg.TotalCapital.Cents != 0 || agg.SeasonLength != 4 {
		t.Errorf("empty ledgers: got capital %d, length %d", agg.TotalCapital.Cents, agg.SeasonLength)
	}
}

// Capital must always equal income minus expenses, and season length must
// follow the threshold, for any ledger contents.
func TestComputeAggregatesProperties(t *testing.T) {
	p := DefaultPricing()
	rapid.Check(t, func(t *rapid.T) {
		amounts := rapid.SliceOfN(rapid.Int64Range(1, 5_000_00), 0, 50)

		var income []IncomeTransaction
		for _, c := range amounts.Draw(t, "income") {
			income = append(income, IncomeTransaction{Amount: Money{Cents: c}})
		}
		var other []OtherIncome
		for _, c := range amounts.Draw(t, "other") {
			other = append(other, OtherIncome{Amount: Money{Cents: c}})
		}
		var exps []Expenditure
		for _, c := range amounts.Draw(t, "expenditures") {
			exps = append(exps, Expenditure{Amount: Money{Cents: c}})
		}

		agg := ComputeAggregates(income, other, exps, p)

		if agg.TotalCapital.Cents != agg.TotalIncome.Cents-agg.TotalExpenses.Cents {
			t.Fatalf("capital %d != income %d - expenses %d",
				agg.TotalCapital.Cents, agg.TotalIncome.Cents, agg.TotalExpenses.Cents)
		}
		wantLen := p.DefaultSeasonLength
		if agg.TotalCapital.Cents >= p.CapitalTarget.Cents {
			wantLen = p.ExtendedSeasonLength
		}
		if agg.SeasonLength != wantLen {
			t.Fatalf("season length %d, want %d at capital %d", agg.SeasonLength, wantLen, agg.TotalCapital.Cents)
		}
	})
}

func TestMemberMatchesPayee(t *testing.T) {
	m := Member{FirstName: "Eli", LastName: "Ritchie"}
	for _, payee := range []string{"Eli Ritchie", "eli ritchie", "  ELI RITCHIE  "} {
		if !m.MatchesPayee(payee) {
			t.Errorf("MatchesPayee(%q) = false, want true", payee)
		}
	}
	for _, payee := range []string{"Eli R", "Ritchie Eli", ""} {
		if m.MatchesPayee(payee) {
			t.Errorf("MatchesPayee(%q) = true, want false", payee)
		}
	}
}
