// Package storage persists the club ledgers in SQLite.
package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/core"
	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Ledger = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", core.ErrStoreUnavailable, err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateMember(ctx context.Context, m core.Member) (core.Member, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO members (first_name, last_name, sessions, total_paid_cents, member_type)
		 VALUES (?, ?, ?, ?, ?)`,
		m.FirstName, m.LastName, m.Sessions, m.TotalPaid.Cents, string(m.MemberType))
	if err != nil {
		return core.Member{}, wrapStoreErr("insert member", err)
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return core.Member{}, fmt.Errorf("member insert id: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) ListMembers(ctx context.Context) ([]core.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, sessions, total_paid_cents, member_type
		 FROM members ORDER BY id`)
	if err != nil {
		return nil, wrapStoreErr("query members", err)
	}
	defer rows.Close()

	var members []core.Member
	for rows.Next() {
		var m core.Member
		var memberType string
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Sessions, &m.TotalPaid.Cents, &memberType); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m.MemberType = core.MemberType(memberType)
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *SQLiteRepository) GetMember(ctx context.Context, id int64) (core.Member, error) {
	var m core.Member
	var memberType string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, sessions, total_paid_cents, member_type
		 FROM members WHERE id = ?`, id).
		Scan(&m.ID, &m.FirstName, &m.LastName, &m.Sessions, &m.TotalPaid.Cents, &memberType)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Member{}, core.ErrMemberNotFound
	}
	if err != nil {
		return core.Member{}, wrapStoreErr("get member", err)
	}
	m.MemberType = core.MemberType(memberType)
	return m, nil
}

func (r *SQLiteRepository) UpdateMember(ctx context.Context, id int64, sessions int, totalPaid core.Money) (core.Member, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE members SET sessions = ?, total_paid_cents = ? WHERE id = ?`,
		sessions, totalPaid.Cents, id)
	if err != nil {
		return core.Member{}, wrapStoreErr("update member", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Member{}, fmt.Errorf("update member rows affected: %w", err)
	}
	if n == 0 {
		return core.Member{}, core.ErrMemberNotFound
	}
	return r.GetMember(ctx, id)
}

func (r *SQLiteRepository) DeleteMember(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return wrapStoreErr("delete member", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete member rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrMemberNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateIncome(ctx context.Context, t core.IncomeTransaction) (core.IncomeTransaction, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO income_transactions (first_name, last_name, payment_type, quantity, amount_cents, tx_date, member_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.FirstName, t.LastName, string(t.PaymentType),
		nullableInt(t.Quantity), t.Amount.Cents, t.Date.String(), nullableID(t.MemberID))
	if err != nil {
		return core.IncomeTransaction{}, wrapStoreErr("insert income transaction", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.IncomeTransaction{}, fmt.Errorf("income insert id: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListIncome(ctx context.Context) ([]core.IncomeTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, payment_type, quantity, amount_cents, tx_date, member_id
		 FROM income_transactions ORDER BY tx_date DESC, id DESC`)
	if err != nil {
		return nil, wrapStoreErr("query income transactions", err)
	}
	defer rows.Close()

	var txs []core.IncomeTransaction
	for rows.Next() {
		t, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (r *SQLiteRepository) CreateExpenditure(ctx context.Context, e core.Expenditure) (core.Expenditure, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenditures (payee, reason, amount_cents, tx_date) VALUES (?, ?, ?, ?)`,
		e.Payee, e.Reason, e.Amount.Cents, e.Date.String())
	if err != nil {
		return core.Expenditure{}, wrapStoreErr("insert expenditure", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return core.Expenditure{}, fmt.Errorf("expenditure insert id: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListExpenditures(ctx context.Context) ([]core.Expenditure, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, payee, reason, amount_cents, tx_date
		 FROM expenditures ORDER BY tx_date DESC, id DESC`)
	if err != nil {
		return nil, wrapStoreErr("query expenditures", err)
	}
	defer rows.Close()

	var exps []core.Expenditure
	for rows.Next() {
		e, err := scanExpenditure(rows)
		if err != nil {
			return nil, err
		}
		exps = append(exps, e)
	}
	return exps, rows.Err()
}

func (r *SQLiteRepository) CreateOtherIncome(ctx context.Context, o core.OtherIncome) (core.OtherIncome, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO other_income (name, amount_cents, tx_date) VALUES (?, ?, ?)`,
		o.Name, o.Amount.Cents, o.Date.String())
	if err != nil {
		return core.OtherIncome{}, wrapStoreErr("insert other income", err)
	}
	o.ID, err = res.LastInsertId()
	if err != nil {
		return core.OtherIncome{}, fmt.Errorf("other income insert id: %w", err)
	}
	return o, nil
}

func (r *SQLiteRepository) ListOtherIncome(ctx context.Context) ([]core.OtherIncome, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, amount_cents, tx_date
		 FROM other_income ORDER BY tx_date DESC, id DESC`)
	if err != nil {
		return nil, wrapStoreErr("query other income", err)
	}
	defer rows.Close()

	var recs []core.OtherIncome
	for rows.Next() {
		o, err := scanOtherIncome(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, o)
	}
	return recs, rows.Err()
}

// EndSeason snapshots the four active ledgers into the archive and clears
// them, all inside one transaction. Any failure rolls back; the active
// season is never left half archived.
func (r *SQLiteRepository) EndSeason(ctx context.Context, name string, endDate core.Date, pricing core.Pricing) (core.Season, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Season{}, fmt.Errorf("%w: begin archival: %v", core.ErrArchival, err)
	}
	defer tx.Rollback()

	season, err := r.archiveSeason(ctx, tx, name, endDate, pricing)
	if err != nil {
		return core.Season{}, fmt.Errorf("%w: %v", core.ErrArchival, err)
	}

	if err := tx.Commit(); err != nil {
		return core.Season{}, fmt.Errorf("%w: commit archival: %v", core.ErrArchival, err)
	}

	slog.InfoContext(ctx, "Season archived to SQLite",
		"season_id", season.ID,
		"season_name", season.Name,
		"total_members", season.TotalMembers)
	return season, nil
}

func (r *SQLiteRepository) archiveSeason(ctx context.Context, tx *sql.Tx, name string, endDate core.Date, pricing core.Pricing) (core.Season, error) {
	members, income, exps, other, err := readActiveLedgers(ctx, tx)
	if err != nil {
		return core.Season{}, err
	}

	agg := core.ComputeAggregates(income, other, exps, pricing)
	startDate := earliestDate(income, exps, other)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO seasons (name, start_date, end_date, starting_capital_cents, ending_capital_cents,
		                      total_members, total_income_cents, total_expenses_cents)
		 VALUES (?, ?, ?, 0, ?, ?, ?, ?)`,
		name, startDate.String(), endDate.String(), agg.TotalCapital.Cents,
		len(members), agg.TotalIncome.Cents, agg.TotalExpenses.Cents)
	if err != nil {
		return core.Season{}, fmt.Errorf("insert season: %w", err)
	}
	seasonID, err := res.LastInsertId()
	if err != nil {
		return core.Season{}, fmt.Errorf("season insert id: %w", err)
	}

	for _, m := range members {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO archived_members (season_id, original_id, first_name, last_name, sessions, total_paid_cents, member_type)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			seasonID, m.ID, m.FirstName, m.LastName, m.Sessions, m.TotalPaid.Cents, string(m.MemberType)); err != nil {
			return core.Season{}, fmt.Errorf("archive member %d: %w", m.ID, err)
		}
	}
	for _, t := range income {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO archived_income_transactions (season_id, original_id, first_name, last_name, payment_type, quantity, amount_cents, tx_date, member_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			seasonID, t.ID, t.FirstName, t.LastName, string(t.PaymentType),
			nullableInt(t.Quantity), t.Amount.Cents, t.Date.String(), nullableID(t.MemberID)); err != nil {
			return core.Season{}, fmt.Errorf("archive income transaction %d: %w", t.ID, err)
		}
	}
	for _, e := range exps {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO archived_expenditures (season_id, original_id, payee, reason, amount_cents, tx_date)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			seasonID, e.ID, e.Payee, e.Reason, e.Amount.Cents, e.Date.String()); err != nil {
			return core.Season{}, fmt.Errorf("archive expenditure %d: %w", e.ID, err)
		}
	}
	for _, o := range other {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO archived_other_income (season_id, original_id, name, amount_cents, tx_date)
			 VALUES (?, ?, ?, ?, ?)`,
			seasonID, o.ID, o.Name, o.Amount.Cents, o.Date.String()); err != nil {
			return core.Season{}, fmt.Errorf("archive other income %d: %w", o.ID, err)
		}
	}

	for _, table := range []string{"members", "income_transactions", "expenditures", "other_income"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return core.Season{}, fmt.Errorf("clear %s: %w", table, err)
		}
	}
	// Next season's IDs start from 1 again.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sqlite_sequence WHERE name IN ('members', 'income_transactions', 'expenditures', 'other_income')`); err != nil {
		return core.Season{}, fmt.Errorf("reset id sequences: %w", err)
	}

	return core.Season{
		ID:              seasonID,
		Name:            name,
		StartDate:       startDate,
		EndDate:         endDate,
		StartingCapital: core.Money{},
		EndingCapital:   agg.TotalCapital,
		TotalMembers:    len(members),
		TotalIncome:     agg.TotalIncome,
		TotalExpenses:   agg.TotalExpenses,
	}, nil
}

func (r *SQLiteRepository) ListSeasons(ctx context.Context) ([]core.Season, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, start_date, end_date, starting_capital_cents, ending_capital_cents,
		        total_members, total_income_cents, total_expenses_cents
		 FROM seasons ORDER BY end_date DESC, id DESC`)
	if err != nil {
		return nil, wrapStoreErr("query seasons", err)
	}
	defer rows.Close()

	var seasons []core.Season
	for rows.Next() {
		s, err := scanSeason(rows)
		if err != nil {
			return nil, err
		}
		seasons = append(seasons, s)
	}
	return seasons, rows.Err()
}

func (r *SQLiteRepository) GetSeason(ctx context.Context, id int64) (core.Season, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, start_date, end_date, starting_capital_cents, ending_capital_cents,
		        total_members, total_income_cents, total_expenses_cents
		 FROM seasons WHERE id = ?`, id)
	s, err := scanSeason(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Season{}, core.ErrSeasonNotFound
	}
	if err != nil {
		return core.Season{}, err
	}
	return s, nil
}

func (r *SQLiteRepository) ArchivedMembers(ctx context.Context, seasonID int64) ([]core.ArchivedMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT season_id, original_id, first_name, last_name, sessions, total_paid_cents, member_type
		 FROM archived_members WHERE season_id = ? ORDER BY original_id`, seasonID)
	if err != nil {
		return nil, wrapStoreErr("query archived members", err)
	}
	defer rows.Close()

	var members []core.ArchivedMember
	for rows.Next() {
		var m core.ArchivedMember
		var memberType string
		if err := rows.Scan(&m.SeasonID, &m.OriginalID, &m.FirstName, &m.LastName,
			&m.Sessions, &m.TotalPaid.Cents, &memberType); err != nil {
			return nil, fmt.Errorf("scan archived member: %w", err)
		}
		m.MemberType = core.MemberType(memberType)
		m.Member.ID = m.OriginalID
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *SQLiteRepository) ArchivedIncome(ctx context.Context, seasonID int64) ([]core.ArchivedIncome, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT season_id, original_id, first_name, last_name, payment_type, quantity, amount_cents, tx_date, member_id
		 FROM archived_income_transactions WHERE season_id = ? ORDER BY original_id`, seasonID)
	if err != nil {
		return nil, wrapStoreErr("query archived income", err)
	}
	defer rows.Close()

	var txs []core.ArchivedIncome
	for rows.Next() {
		var a core.ArchivedIncome
		var paymentType, txDate string
		var quantity, memberID sql.NullInt64
		if err := rows.Scan(&a.SeasonID, &a.OriginalID, &a.FirstName, &a.LastName,
			&paymentType, &quantity, &a.Amount.Cents, &txDate, &memberID); err != nil {
			return nil, fmt.Errorf("scan archived income: %w", err)
		}
		a.PaymentType = core.PaymentType(paymentType)
		if a.Date, err = core.ParseDate(txDate); err != nil {
			return nil, fmt.Errorf("parse archived income date: %w", err)
		}
		if quantity.Valid {
			q := int(quantity.Int64)
			a.Quantity = &q
		}
		if memberID.Valid {
			id := memberID.Int64
			a.MemberID = &id
		}
		a.IncomeTransaction.ID = a.OriginalID
		txs = append(txs, a)
	}
	return txs, rows.Err()
}

func (r *SQLiteRepository) ArchivedExpenditures(ctx context.Context, seasonID int64) ([]core.ArchivedExpenditure, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT season_id, original_id, payee, reason, amount_cents, tx_date
		 FROM archived_expenditures WHERE season_id = ? ORDER BY original_id`, seasonID)
	if err != nil {
		return nil, wrapStoreErr("query archived expenditures", err)
	}
	defer rows.Close()

	var exps []core.ArchivedExpenditure
	for rows.Next() {
		var a core.ArchivedExpenditure
		var txDate string
		if err := rows.Scan(&a.SeasonID, &a.OriginalID, &a.Payee, &a.Reason, &a.Amount.Cents, &txDate); err != nil {
			return nil, fmt.Errorf("scan archived expenditure: %w", err)
		}
		if a.Date, err = core.ParseDate(txDate); err != nil {
			return nil, fmt.Errorf("parse archived expenditure date: %w", err)
		}
		a.Expenditure.ID = a.OriginalID
		exps = append(exps, a)
	}
	return exps, rows.Err()
}

func (r *SQLiteRepository) ArchivedOtherIncome(ctx context.Context, seasonID int64) ([]core.ArchivedOtherIncome, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT season_id, original_id, name, amount_cents, tx_date
		 FROM archived_other_income WHERE season_id = ? ORDER BY original_id`, seasonID)
	if err != nil {
		return nil, wrapStoreErr("query archived other income", err)
	}
	defer rows.Close()

	var recs []core.ArchivedOtherIncome
	for rows.Next() {
		var a core.ArchivedOtherIncome
		var txDate string
		if err := rows.Scan(&a.SeasonID, &a.OriginalID, &a.Name, &a.Amount.Cents, &txDate); err != nil {
			return nil, fmt.Errorf("scan archived other income: %w", err)
		}
		if a.Date, err = core.ParseDate(txDate); err != nil {
			return nil, fmt.Errorf("parse archived other income date: %w", err)
		}
		a.OtherIncome.ID = a.OriginalID
		recs = append(recs, a)
	}
	return recs, rows.Err()
}

// readActiveLedgers loads the four active tables inside the archival
// transaction so the snapshot is consistent.
func readActiveLedgers(ctx context.Context, tx *sql.Tx) ([]core.Member, []core.IncomeTransaction, []core.Expenditure, []core.OtherIncome, error) {
	var members []core.Member
	rows, err := tx.QueryContext(ctx,
		`SELECT id, first_name, last_name, sessions, total_paid_cents, member_type FROM members ORDER BY id`)
	if err != nil {
		return nil, nil, nil, nil, wrapStoreErr("query members", err)
	}
	for rows.Next() {
		var m core.Member
		var memberType string
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Sessions, &m.TotalPaid.Cents, &memberType); err != nil {
			rows.Close()
			return nil, nil, nil, nil, fmt.Errorf("scan member: %w", err)
		}
		m.MemberType = core.MemberType(memberType)
		members = append(members, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, nil, nil, err
	}

	var income []core.IncomeTransaction
	rows, err = tx.QueryContext(ctx,
		`SELECT id, first_name, last_name, payment_type, quantity, amount_cents, tx_date, member_id
		 FROM income_transactions ORDER BY id`)
	if err != nil {
		return nil, nil, nil, nil, wrapStoreErr("query income transactions", err)
	}
	for rows.Next() {
		t, err := scanIncome(rows)
		if err != nil {
			rows.Close()
			return nil, nil, nil, nil, err
		}
		income = append(income, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, nil, nil, err
	}

	var exps []core.Expenditure
	rows, err = tx.QueryContext(ctx,
		`SELECT id, payee, reason, amount_cents, tx_date FROM expenditures ORDER BY id`)
	if err != nil {
		return nil, nil, nil, nil, wrapStoreErr("query expenditures", err)
	}
	for rows.Next() {
		e, err := scanExpenditure(rows)
		if err != nil {
			rows.Close()
			return nil, nil, nil, nil, err
		}
		exps = append(exps, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, nil, nil, err
	}

	var other []core.OtherIncome
	rows, err = tx.QueryContext(ctx,
		`SELECT id, name, amount_cents, tx_date FROM other_income ORDER BY id`)
	if err != nil {
		return nil, nil, nil, nil, wrapStoreErr("query other income", err)
	}
	for rows.Next() {
		o, err := scanOtherIncome(rows)
		if err != nil {
			rows.Close()
			return nil, nil, nil, nil, err
		}
		other = append(other, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, nil, nil, err
	}

	return members, income, exps, other, nil
}

// storeUnavailable reports whether err is a connection-level failure
// rather than a statement or data problem.
func storeUnavailable(err error) bool {
	return errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) ||
		strings.Contains(err.Error(), "database is closed")
}

// wrapStoreErr tags connection-level failures with ErrStoreUnavailable so
// the API layer can answer 503 instead of a generic 500.
func wrapStoreErr(op string, err error) error {
	if storeUnavailable(err) {
		return fmt.Errorf("%w: %s: %v", core.ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncome(row rowScanner) (core.IncomeTransaction, error) {
	var t core.IncomeTransaction
	var paymentType, txDate string
	var quantity, memberID sql.NullInt64
	if err := row.Scan(&t.ID, &t.FirstName, &t.LastName, &paymentType,
		&quantity, &t.Amount.Cents, &txDate, &memberID); err != nil {
		return core.IncomeTransaction{}, fmt.Errorf("scan income transaction: %w", err)
	}
	t.PaymentType = core.PaymentType(paymentType)
	var err error
	if t.Date, err = core.ParseDate(txDate); err != nil {
		return core.IncomeTransaction{}, fmt.Errorf("parse income date: %w", err)
	}
	if quantity.Valid {
		q := int(quantity.Int64)
		t.Quantity = &q
	}
	if memberID.Valid {
		id := memberID.Int64
		t.MemberID = &id
	}
	return t, nil
}

func scanExpenditure(row rowScanner) (core.Expenditure, error) {
	var e core.Expenditure
	var txDate string
	if err := row.Scan(&e.ID, &e.Payee, &e.Reason, &e.Amount.Cents, &txDate); err != nil {
		return core.Expenditure{}, fmt.Errorf("scan expenditure: %w", err)
	}
	var err error
	if e.Date, err = core.ParseDate(txDate); err != nil {
		return core.Expenditure{}, fmt.Errorf("parse expenditure date: %w", err)
	}
	return e, nil
}

func scanOtherIncome(row rowScanner) (core.OtherIncome, error) {
	var o core.OtherIncome
	var txDate string
	if err := row.Scan(&o.ID, &o.Name, &o.Amount.Cents, &txDate); err != nil {
		return core.OtherIncome{}, fmt.Errorf("scan other income: %w", err)
	}
	var err error
	if o.Date, err = core.ParseDate(txDate); err != nil {
		return core.OtherIncome{}, fmt.Errorf("parse other income date: %w", err)
	}
	return o, nil
}

func scanSeason(row rowScanner) (core.Season, error) {
	var s core.Season
	var startDate, endDate string
	if err := row.Scan(&s.ID, &s.Name, &startDate, &endDate, &s.StartingCapital.Cents,
		&s.EndingCapital.Cents, &s.TotalMembers, &s.TotalIncome.Cents, &s.TotalExpenses.Cents); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Season{}, err
		}
		return core.Season{}, fmt.Errorf("scan season: %w", err)
	}
	var err error
	if s.StartDate, err = core.ParseDate(startDate); err != nil {
		return core.Season{}, fmt.Errorf("parse season start date: %w", err)
	}
	if s.EndDate, err = core.ParseDate(endDate); err != nil {
		return core.Season{}, fmt.Errorf("parse season end date: %w", err)
	}
	return s, nil
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return int64(*p)
}

func nullableID(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
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
