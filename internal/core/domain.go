package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	FullSeason MemberType = "full-season"
	BeachPass  MemberType = "beach-pass"
	OtherType  MemberType = "other"

	PayFullSeason    PaymentType = "full-season"
	PayBeachPass     PaymentType = "beach-pass"
	PayExtraSessions PaymentType = "extra-sessions"
	PayOther         PaymentType = "other"
)

type (
	MemberType  string
	PaymentType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Member struct {
		ID         int64      `json:"id"`
		FirstName  string     `json:"firstName"`
		LastName   string     `json:"lastName"`
		Sessions   int        `json:"sessions"`
		TotalPaid  Money      `json:"totalPaid"`
		MemberType MemberType `json:"memberType"`
	}

	IncomeTransaction struct {
		ID          int64       `json:"id"`
		FirstName   string      `json:"firstName"`
		LastName    string      `json:"lastName"`
		PaymentType PaymentType `json:"paymentType"`
		Quantity    *int        `json:"quantity,omitempty"` // only for extra-sessions
		Amount      Money       `json:"amount"`
		Date        Date        `json:"date"`
		MemberID    *int64      `json:"memberId,omitempty"`
	}

	Expenditure struct {
		ID     int64  `json:"id"`
		Payee  string `json:"payee"`
		Reason string `json:"reason"`
		Amount Money  `json:"amount"`
		Date   Date   `json:"date"`
	}

	OtherIncome struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Amount Money  `json:"amount"`
		Date   Date   `json:"date"`
	}

	Season struct {
		ID              int64  `json:"id"`
		Name            string `json:"name"`
		StartDate       Date   `json:"startDate"`
		EndDate         Date   `json:"endDate"`
		StartingCapital Money  `json:"startingCapital"`
		EndingCapital   Money  `json:"endingCapital"`
		TotalMembers    int    `json:"totalMembers"`
		TotalIncome     Money  `json:"totalIncome"`
		TotalExpenses   Money  `json:"totalExpenses"`
	}

	// Archived rows carry the season they belong to and the id the row had
	// in the active ledger before the season was closed.
	ArchivedMember struct {
		SeasonID   int64
		OriginalID int64
		Member
	}

	ArchivedIncome struct {
		SeasonID   int64
		OriginalID int64
		IncomeTransaction
	}

	ArchivedExpenditure struct {
		SeasonID   int64
		OriginalID int64
		Expenditure
	}

	ArchivedOtherIncome struct {
		SeasonID   int64
		OriginalID int64
		OtherIncome
	}
)

var (
	ErrDuplicateMember    = errors.New("member already exists")
	ErrMemberNotFound     = errors.New("member not found")
	ErrInvalidQuantity    = errors.New("invalid session quantity")
	ErrSessionCapReached  = errors.New("session cap reached")
	ErrArchival           = errors.New("season archival failed")
	ErrSeasonNotFound     = errors.New("season not found")
	ErrInvalidExportType  = errors.New("invalid export type")
	ErrStoreUnavailable   = errors.New("ledger store unavailable")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidPaymentType = errors.New("invalid payment type")
	ErrEmptyName          = errors.New("empty name")
)

// CappedWarning reports an extra-session purchase that was truncated at the
// season length. The purchase itself succeeds; the warning is informational.
type CappedWarning struct {
	Requested int
	Added     int
}

func (w *CappedWarning) Error() string {
	return fmt.Sprintf("only %d of %d requested session(s) added (capped at season length)", w.Added, w.Requested)
}

func (w *CappedWarning) Is(target error) bool { return target == ErrSessionCapReached }

// FullName returns "First Last" as used for payee matching and archives.
func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// HasName reports whether the member's name matches case-insensitively.
func (m Member) HasName(first, last string) bool {
	return strings.EqualFold(m.FirstName, strings.TrimSpace(first)) &&
		strings.EqualFold(m.LastName, strings.TrimSpace(last))
}

// MatchesPayee reports whether the member's full name equals the payee,
// case-insensitive and trimmed. This is a best-effort heuristic link, not a
// referential constraint: duplicate names or formatting differences silently
// skip reconciliation.
func (m Member) MatchesPayee(payee string) bool {
	return strings.EqualFold(m.FullName(), strings.TrimSpace(payee))
}

func (pt PaymentType) Valid() bool {
	switch pt {
	case PayFullSeason, PayBeachPass, PayExtraSessions, PayOther:
		return true
	}
	return false
}

// NewDate creates a Date at day precision in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date truncated to day precision.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
