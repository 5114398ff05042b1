// Package finance implements the club's rule engine: how income and
// expenditure events create and reconcile members, how the derived season
// length propagates into full-season memberships, and how a season is
// closed into the archive.
package finance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/core"
	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/ledger"
)

// ArchivePublisher announces closed seasons to interested consumers (the
// Google Sheets mirror worker). Publishing is best-effort; the archive
// itself never depends on it.
type ArchivePublisher interface {
	PublishSeasonArchived(ctx context.Context, seasonID int64, name string, endingCapitalCents int64) error
}

// Service orchestrates ledger mutations and keeps the derived-state
// invariants converged after every write.
type Service struct {
	ledger  ledger.Ledger
	pricing core.Pricing
	pub     ArchivePublisher

	// Mutating operations hold the read side for their full span so that
	// season archival (the write side) never interleaves with a partially
	// applied mutation. The ledger's own transaction makes the archival
	// atomic at the store; this lock keeps the multi-step service
	// mutations out of the snapshot window.
	mu sync.RWMutex
}

func NewService(l ledger.Ledger, pricing core.Pricing, pub ArchivePublisher) *Service {
	return &Service{
		ledger:  l,
		pricing: pricing,
		pub:     pub,
	}
}

// IncomeRequest is a single income submission, dispatched on PaymentType.
type IncomeRequest struct {
	PaymentType core.PaymentType
	FirstName   string
	LastName    string
	// Quantity is the requested session count, extra-sessions only.
	Quantity int
	// OtherAmount is the custom amount, "other" payments only.
	OtherAmount core.Money
}

// IncomeResult carries whichever records the submission produced. Warning
// is non-nil when an extra-session purchase was truncated at the season
// length; the mutation still happened.
type IncomeResult struct {
	Transaction *core.IncomeTransaction `json:"transaction,omitempty"`
	Other       *core.OtherIncome       `json:"otherIncome,omitempty"`
	Member      *core.Member            `json:"member,omitempty"`
	Warning     *core.CappedWarning     `json:"-"`
}

// Aggregates recomputes the derived figures from current ledger contents.
func (s *Service) Aggregates(ctx context.Context) (core.Aggregates, error) {
	income, err := s.ledger.ListIncome(ctx)
	if err != nil {
		return core.Aggregates{}, fmt.Errorf("list income: %w", err)
	}
	other, err := s.ledger.ListOtherIncome(ctx)
	if err != nil {
		return core.Aggregates{}, fmt.Errorf("list other income: %w", err)
	}
	exps, err := s.ledger.ListExpenditures(ctx)
	if err != nil {
		return core.Aggregates{}, fmt.Errorf("list expenditures: %w", err)
	}
	return core.ComputeAggregates(income, other, exps, s.pricing), nil
}

// SubmitIncome records an income event and applies the membership rules for
// its payment type. Validation failures return before any mutation.
func (s *Service) SubmitIncome(ctx context.Context, req IncomeRequest) (IncomeResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	if first == "" || last == "" {
		return IncomeResult{}, core.ErrEmptyName
	}
	if !req.PaymentType.Valid() {
		return IncomeResult{}, fmt.Errorf("%w: %q", core.ErrInvalidPaymentType, req.PaymentType)
	}

	// "other" income bypasses membership entirely.
	if req.PaymentType == core.PayOther {
		return s.submitOtherIncome(ctx, first, last, req.OtherAmount)
	}

	agg, err := s.Aggregates(ctx)
	if err != nil {
		return IncomeResult{}, err
	}
	existing, err := s.findMemberByName(ctx, first, last)
	if err != nil {
		return IncomeResult{}, err
	}

	switch req.PaymentType {
	case core.PayFullSeason:
		if existing != nil {
			return IncomeResult{}, core.ErrDuplicateMember
		}
		return s.enrollMember(ctx, first, last, core.Member{
			FirstName:  first,
			LastName:   last,
			Sessions:   agg.SeasonLength,
			TotalPaid:  s.pricing.FullSeasonPrice,
			MemberType: core.FullSeason,
		}, req.PaymentType, nil, s.pricing.FullSeasonPrice)

	case core.PayBeachPass:
		if existing != nil {
			return IncomeResult{}, core.ErrDuplicateMember
		}
		return s.enrollMember(ctx, first, last, core.Member{
			FirstName:  first,
			LastName:   last,
			Sessions:   0,
			TotalPaid:  s.pricing.BeachPassPrice,
			MemberType: core.BeachPass,
		}, req.PaymentType, nil, s.pricing.BeachPassPrice)

	case core.PayExtraSessions:
		return s.purchaseExtraSessions(ctx, existing, req.Quantity, agg.SeasonLength)
	}

	return IncomeResult{}, fmt.Errorf("%w: %q", core.ErrInvalidPaymentType, req.PaymentType)
}

func (s *Service) submitOtherIncome(ctx context.Context, first, last string, amount core.Money) (IncomeResult, error) {
	if amount.Cents <= 0 {
		return IncomeResult{}, core.ErrInvalidAmount
	}
	rec, err := s.ledger.CreateOtherIncome(ctx, core.OtherIncome{
		Name:   first + " " + last,
		Amount: amount,
		Date:   core.Today(),
	})
	if err != nil {
		return IncomeResult{}, fmt.Errorf("create other income: %w", err)
	}
	if err := s.reconcileSeasonLength(ctx); err != nil {
		return IncomeResult{}, err
	}
	slog.InfoContext(ctx, "Other income recorded", "id", rec.ID, "name", rec.Name, "amount_cents", rec.Amount.Cents)
	return IncomeResult{Other: &rec}, nil
}

func (s *Service) enrollMember(ctx context.Context, first, last string, m core.Member, pt core.PaymentType, quantity *int, amount core.Money) (IncomeResult, error) {
	member, err := s.ledger.CreateMember(ctx, m)
	if err != nil {
		return IncomeResult{}, fmt.Errorf("create member: %w", err)
	}
	tx, err := s.ledger.CreateIncome(ctx, core.IncomeTransaction{
		FirstName:   first,
		LastName:    last,
		PaymentType: pt,
		Quantity:    quantity,
		Amount:      amount,
		Date:        core.Today(),
		MemberID:    &member.ID,
	})
	if err != nil {
		return IncomeResult{}, fmt.Errorf("create income transaction: %w", err)
	}
	if err := s.reconcileSeasonLength(ctx); err != nil {
		return IncomeResult{}, err
	}
	// The payment itself may have moved capital across the threshold;
	// return the member as reconciled.
	member, err = s.ledger.GetMember(ctx, member.ID)
	if err != nil {
		return IncomeResult{}, fmt.Errorf("reload member: %w", err)
	}
	slog.InfoContext(ctx, "Member enrolled",
		"member_id", member.ID,
		"member_name", member.FullName(),
		"member_type", string(member.MemberType),
		"sessions", member.Sessions)
	return IncomeResult{Transaction: &tx, Member: &member}, nil
}

func (s *Service) purchaseExtraSessions(ctx context.Context, member *core.Member, quantity, seasonLength int) (IncomeResult, error) {
	if member == nil {
		return IncomeResult{}, core.ErrMemberNotFound
	}
	if quantity < 1 {
		return IncomeResult{}, core.ErrInvalidQuantity
	}
	if member.MemberType == core.FullSeason {
		// Full-season members already hold the maximum allotment.
		return IncomeResult{}, core.ErrSessionCapReached
	}

	// Sessions are capped at the season length; the charge follows the
	// requested quantity, not the capped one. That asymmetry is the club's
	// policy, not an oversight.
	amount := s.pricing.SessionPrice.Times(quantity)
	newTotal := member.Sessions + quantity
	if newTotal > seasonLength {
		newTotal = seasonLength
	}
	actualAdded := newTotal - member.Sessions

	updated, err := s.ledger.UpdateMember(ctx, member.ID, newTotal, member.TotalPaid.Add(amount))
	if err != nil {
		return IncomeResult{}, fmt.Errorf("update member: %w", err)
	}
	tx, err := s.ledger.CreateIncome(ctx, core.IncomeTransaction{
		FirstName:   member.FirstName,
		LastName:    member.LastName,
		PaymentType: core.PayExtraSessions,
		Quantity:    &quantity,
		Amount:      amount,
		Date:        core.Today(),
		MemberID:    &member.ID,
	})
	if err != nil {
		return IncomeResult{}, fmt.Errorf("create income transaction: %w", err)
	}
	if err := s.reconcileSeasonLength(ctx); err != nil {
		return IncomeResult{}, err
	}

	result := IncomeResult{Transaction: &tx, Member: &updated}
	if actualAdded < quantity {
		result.Warning = &core.CappedWarning{Requested: quantity, Added: actualAdded}
		slog.WarnContext(ctx, "Extra-session purchase capped",
			"member_id", member.ID,
			"requested", quantity,
			"added", actualAdded,
			"season_length", seasonLength)
	}
	return result, nil
}

// SubmitExpenditure always records the expenditure. When the payee matches
// a member's full name (case-insensitive, trimmed) the member's sessions
// and paid total are reconciled against the refund.
func (s *Service) SubmitExpenditure(ctx context.Context, payee, reason string, amount core.Money) (core.Expenditure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payee = strings.TrimSpace(payee)
	reason = strings.TrimSpace(reason)
	if payee == "" || reason == "" {
		return core.Expenditure{}, core.ErrEmptyName
	}
	if amount.Cents <= 0 {
		return core.Expenditure{}, core.ErrInvalidAmount
	}

	exp, err := s.ledger.CreateExpenditure(ctx, core.Expenditure{
		Payee:  payee,
		Reason: reason,
		Amount: amount,
		Date:   core.Today(),
	})
	if err != nil {
		return core.Expenditure{}, fmt.Errorf("create expenditure: %w", err)
	}

	if member, err := s.findMemberByPayee(ctx, payee); err != nil {
		return core.Expenditure{}, err
	} else if member != nil {
		sessionsReturned := int(amount.Cents / s.pricing.SessionPrice.Cents)
		newSessions := member.Sessions - sessionsReturned
		if newSessions < 0 {
			newSessions = 0
		}
		// totalPaid is not clamped; a refund larger than the member's
		// lifetime payments shows up as a negative balance.
		newTotalPaid := member.TotalPaid.Sub(amount)
		if _, err := s.ledger.UpdateMember(ctx, member.ID, newSessions, newTotalPaid); err != nil {
			return core.Expenditure{}, fmt.Errorf("reconcile member %d: %w", member.ID, err)
		}
		slog.InfoContext(ctx, "Expenditure reconciled against member",
			"member_id", member.ID,
			"member_name", member.FullName(),
			"sessions_returned", sessionsReturned,
			"amount_cents", amount.Cents)
	}

	if err := s.reconcileSeasonLength(ctx); err != nil {
		return core.Expenditure{}, err
	}
	return exp, nil
}

// RemoveMember resigns a member: a full-refund expenditure for their total
// paid is recorded and the member row is deleted. The synthesized
// expenditure does not itself trigger payee reconciliation; the member is
// gone immediately after.
func (s *Service) RemoveMember(ctx context.Context, memberID int64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	member, err := s.ledger.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	if _, err := s.ledger.CreateExpenditure(ctx, core.Expenditure{
		Payee:  member.FullName(),
		Reason: "Member Resignation - Full Refund",
		Amount: member.TotalPaid,
		Date:   core.Today(),
	}); err != nil {
		return fmt.Errorf("create resignation refund: %w", err)
	}
	if err := s.ledger.DeleteMember(ctx, memberID); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if err := s.reconcileSeasonLength(ctx); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Member resigned",
		"member_id", memberID,
		"member_name", member.FullName(),
		"refund_cents", member.TotalPaid.Cents)
	return nil
}

// ReturnSessions refunds n of a member's sessions at the session price.
// Unlike expenditure-triggered reconciliation this path is bounded: n must
// be between 1 and the member's current session count.
func (s *Service) ReturnSessions(ctx context.Context, memberID int64, n int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	member, err := s.ledger.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	if n < 1 || n > member.Sessions {
		return fmt.Errorf("%w: %d (member has %d)", core.ErrInvalidQuantity, n, member.Sessions)
	}

	refund := s.pricing.SessionPrice.Times(n)
	if _, err := s.ledger.CreateExpenditure(ctx, core.Expenditure{
		Payee:  member.FullName(),
		Reason: fmt.Sprintf("Session Return - %d session(s)", n),
		Amount: refund,
		Date:   core.Today(),
	}); err != nil {
		return fmt.Errorf("create session return refund: %w", err)
	}
	if _, err := s.ledger.UpdateMember(ctx, memberID, member.Sessions-n, member.TotalPaid.Sub(refund)); err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	if err := s.reconcileSeasonLength(ctx); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Sessions returned",
		"member_id", memberID,
		"sessions", n,
		"refund_cents", refund.Cents)
	return nil
}

// EndSeason closes the active season under the ledger's atomic archival.
// It holds the write side of the service lock, so no mutation is in
// flight while the ledgers are snapshotted and cleared.
func (s *Service) EndSeason(ctx context.Context, name string, endDate core.Date) (core.Season, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Season{}, core.ErrEmptyName
	}
	if endDate.IsZero() {
		endDate = core.Today()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	season, err := s.ledger.EndSeason(ctx, name, endDate, s.pricing)
	if err != nil {
		return core.Season{}, err
	}
	slog.InfoContext(ctx, "Season archived",
		"season_id", season.ID,
		"season_name", season.Name,
		"ending_capital_cents", season.EndingCapital.Cents,
		"total_members", season.TotalMembers)

	if s.pub != nil {
		if err := s.pub.PublishSeasonArchived(ctx, season.ID, season.Name, season.EndingCapital.Cents); err != nil {
			// The archive is committed; mirroring catches up later.
			slog.ErrorContext(ctx, "Failed to publish season archived event",
				"season_id", season.ID, "error", err)
		}
	}
	return season, nil
}

// reconcileSeasonLength is the synchronous post-mutation pass that keeps
// every full-season member's allotment equal to the derived season length.
// It runs after each write that can change total capital.
func (s *Service) reconcileSeasonLength(ctx context.Context) error {
	agg, err := s.Aggregates(ctx)
	if err != nil {
		return err
	}
	members, err := s.ledger.ListMembers(ctx)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	for _, m := range members {
		if m.MemberType != core.FullSeason || m.Sessions == agg.SeasonLength {
			continue
		}
		if _, err := s.ledger.UpdateMember(ctx, m.ID, agg.SeasonLength, m.TotalPaid); err != nil {
			return fmt.Errorf("resize member %d: %w", m.ID, err)
		}
		slog.InfoContext(ctx, "Full-season member resized",
			"member_id", m.ID,
			"sessions", agg.SeasonLength)
	}
	return nil
}

func (s *Service) findMemberByName(ctx context.Context, first, last string) (*core.Member, error) {
	members, err := s.ledger.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	for i := range members {
		if members[i].HasName(first, last) {
			return &members[i], nil
		}
	}
	return nil, nil
}

func (s *Service) findMemberByPayee(ctx context.Context, payee string) (*core.Member, error) {
	members, err := s.ledger.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	for i := range members {
		if members[i].MatchesPayee(payee) {
			return &members[i], nil
		}
	}
	return nil, nil
}

// Listing passthroughs for the API layer.

func (s *Service) Members(ctx context.Context) ([]core.Member, error) {
	return s.ledger.ListMembers(ctx)
}

func (s *Service) Income(ctx context.Context) ([]core.IncomeTransaction, error) {
	return s.ledger.ListIncome(ctx)
}

func (s *Service) Expenditures(ctx context.Context) ([]core.Expenditure, error) {
	return s.ledger.ListExpenditures(ctx)
}

func (s *Service) OtherIncome(ctx context.Context) ([]core.OtherIncome, error) {
	return s.ledger.ListOtherIncome(ctx)
}

func (s *Service) Seasons(ctx context.Context) ([]core.Season, error) {
	return s.ledger.ListSeasons(ctx)
}

// Close releases the underlying ledger.
func (s *Service) Close() error {
	if s.ledger != nil {
		return s.ledger.Close()
	}
	return nil
}
