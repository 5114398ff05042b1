// Package export renders archived season ledgers as Excel workbooks.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/cache"
	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/core"
	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/ledger"
)

// Type selects which archived ledger a workbook covers.
type Type string

const (
	TypeMembers      Type = "members"
	TypeIncome       Type = "income"
	TypeExpenditures Type = "expenditures"
	TypeOtherIncome  Type = "other-income"
)

// ParseType validates a raw export type query value.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeMembers:
		return TypeMembers, nil
	case TypeIncome:
		return TypeIncome, nil
	case TypeExpenditures:
		return TypeExpenditures, nil
	case TypeOtherIncome:
		return TypeOtherIncome, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidExportType, s)
}

// Sheet titles and header fill colors per ledger type.
var sheetStyles = map[Type]struct {
	title string
	color string
}{
	TypeMembers:      {"Members", "4472C4"},
	TypeIncome:       {"Income Transactions", "70AD47"},
	TypeExpenditures: {"Expenditures", "E74C3C"},
	TypeOtherIncome:  {"Other Income", "9B59B6"},
}

const moneyNumFmt = "$#,##0.00"

// Workbook is a rendered xlsx file ready to serve.
type Workbook struct {
	Filename string
	Data     []byte
}

// Exporter renders archive ledgers to xlsx. Archived seasons never change,
// so rendered workbooks are cached.
type Exporter struct {
	archive ledger.SeasonArchive
	cache   *cache.LRUCache[Workbook]
}

func NewExporter(archive ledger.SeasonArchive) *Exporter {
	return &Exporter{
		archive: archive,
		cache:   cache.NewLRUCache[Workbook](32, 30*time.Minute),
	}
}

// SeasonWorkbook renders one archived ledger of a season as a workbook.
func (e *Exporter) SeasonWorkbook(ctx context.Context, seasonID int64, typ Type) (Workbook, error) {
	key := fmt.Sprintf("%d:%s", seasonID, typ)
	if wb, ok := e.cache.Get(key); ok {
		return wb, nil
	}

	season, err := e.archive.GetSeason(ctx, seasonID)
	if err != nil {
		return Workbook{}, err
	}

	style, ok := sheetStyles[typ]
	if !ok {
		return Workbook{}, fmt.Errorf("%w: %q", core.ErrInvalidExportType, typ)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", style.title); err != nil {
		return Workbook{}, fmt.Errorf("name sheet: %w", err)
	}

	var headers []string
	var rows [][]any
	var moneyCols []int

	switch typ {
	case TypeMembers:
		members, err := e.archive.ArchivedMembers(ctx, seasonID)
		if err != nil {
			return Workbook{}, fmt.Errorf("load archived members: %w", err)
		}
		headers = []string{"ID", "First Name", "Last Name", "Sessions", "Total Paid", "Member Type"}
		moneyCols = []int{5}
		for _, m := range members {
			rows = append(rows, []any{m.OriginalID, m.FirstName, m.LastName, m.Sessions, m.TotalPaid.Dollars(), string(m.MemberType)})
		}
	case TypeIncome:
		txs, err := e.archive.ArchivedIncome(ctx, seasonID)
		if err != nil {
			return Workbook{}, fmt.Errorf("load archived income: %w", err)
		}
		headers = []string{"ID", "First Name", "Last Name", "Payment Type", "Quantity", "Amount", "Date"}
		moneyCols = []int{6}
		for _, t := range txs {
			var qty any
			if t.Quantity != nil {
				qty = *t.Quantity
			}
			rows = append(rows, []any{t.OriginalID, t.FirstName, t.LastName, string(t.PaymentType), qty, t.Amount.Dollars(), t.Date.String()})
		}
	case TypeExpenditures:
		exps, err := e.archive.ArchivedExpenditures(ctx, seasonID)
		if err != nil {
			return Workbook{}, fmt.Errorf("load archived expenditures: %w", err)
		}
		headers = []string{"ID", "Payee", "Reason", "Amount", "Date"}
		moneyCols = []int{4}
		for _, x := range exps {
			rows = append(rows, []any{x.OriginalID, x.Payee, x.Reason, x.Amount.Dollars(), x.Date.String()})
		}
	case TypeOtherIncome:
		recs, err := e.archive.ArchivedOtherIncome(ctx, seasonID)
		if err != nil {
			return Workbook{}, fmt.Errorf("load archived other income: %w", err)
		}
		headers = []string{"ID", "Name", "Amount", "Date"}
		moneyCols = []int{3}
		for _, o := range recs {
			rows = append(rows, []any{o.OriginalID, o.Name, o.Amount.Dollars(), o.Date.String()})
		}
	}

	if err := writeSheet(f, style.title, style.color, headers, rows, moneyCols); err != nil {
		return Workbook{}, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Workbook{}, fmt.Errorf("render workbook: %w", err)
	}

	wb := Workbook{
		Filename: workbookFilename(season.Name, style.title),
		Data:     buf.Bytes(),
	}
	e.cache.Set(key, wb)
	return wb, nil
}

func writeSheet(f *excelize.File, sheet, color string, headers []string, rows [][]any, moneyCols []int) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	numFmt := moneyNumFmt
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("money style: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		for col, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	if len(rows) > 0 {
		for _, col := range moneyCols {
			top, err := excelize.CoordinatesToCellName(col, 2)
			if err != nil {
				return fmt.Errorf("money range: %w", err)
			}
			bottom, err := excelize.CoordinatesToCellName(col, len(rows)+1)
			if err != nil {
				return fmt.Errorf("money range: %w", err)
			}
			if err := f.SetCellStyle(sheet, top, bottom, moneyStyle); err != nil {
				return fmt.Errorf("style money column: %w", err)
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return fmt.Errorf("column name: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return nil
}

func workbookFilename(seasonName, title string) string {
	clean := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	}
	return clean(seasonName) + "_" + clean(title) + ".xlsx"
}
