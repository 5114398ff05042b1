package core

// Pricing holds the club's fee schedule and the capital threshold that
// extends the season. Values come from configuration; the engine never
// hardcodes them.
type Pricing struct {
	CapitalTarget        Money
	SessionPrice         Money
	FullSeasonPrice      Money
	BeachPassPrice       Money
	DefaultSeasonLength  int
	ExtendedSeasonLength int
}

// DefaultPricing returns the club's standard fee schedule.
func DefaultPricing() Pricing {
	return Pricing{
		CapitalTarget:        Money{Cents: 1625000}, // $16,250
		SessionPrice:         Money{Cents: 8000},    // $80
		FullSeasonPrice:      Money{Cents: 42500},   // $425
		BeachPassPrice:       Money{Cents: 3500},    // $35
		DefaultSeasonLength:  4,
		ExtendedSeasonLength: 5,
	}
}

// SeasonLength derives the session count for the given capital.
func (p Pricing) SeasonLength(capital Money) int {
	if capital.Cents >= p.CapitalTarget.Cents {
		return p.ExtendedSeasonLength
	}
	return p.DefaultSeasonLength
}

// Aggregates are the derived figures for the active season. They are never
// stored; they are recomputed from ledger contents after every mutation.
type Aggregates struct {
	TotalIncome   Money `json:"totalIncome"`
	TotalExpenses Money `json:"totalExpenses"`
	TotalCapital  Money `json:"totalCapital"`
	SeasonLength  int   `json:"seasonLength"`
}

// ComputeAggregates is a pure function of the ledger contents.
// totalIncome = income transactions + other income, totalExpenses =
// expenditures, totalCapital = income - expenses, seasonLength per pricing.
func ComputeAggregates(income []IncomeTransaction, other []OtherIncome, expenditures []Expenditure, pricing Pricing) Aggregates {
	var totalIncome, totalExpenses Money
	for _, t := range income {
		totalIncome = totalIncome.Add(t.Amount)
	}
	for _, o := range other {
		totalIncome = totalIncome.Add(o.Amount)
	}
	for _, e := range expenditures {
		totalExpenses = totalExpenses.Add(e.Amount)
	}
	capital := totalIncome.Sub(totalExpenses)
	return Aggregates{
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		TotalCapital:  capital,
		SeasonLength:  pricing.SeasonLength(capital),
	}
}
