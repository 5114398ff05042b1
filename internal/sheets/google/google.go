// Package google mirrors season summaries to a Google Sheets spreadsheet
// using a service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/core"
	ports "github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	seasonsSheet  string
}

// Ensure interface conformance
var (
	_ ports.SeasonWriter = (*Client)(nil)
	_ ports.SeasonReader = (*Client)(nil)
	_ ports.SeasonMirror = (*Client)(nil)
)

// Columns written per season row. Column A holds the season ID so the
// mirror can be diffed against the archive.
var seasonHeader = []any{"Season ID", "Name", "Start Date", "End Date", "Starting Capital", "Ending Capital", "Members", "Total Income", "Total Expenses"}

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS
// Optional: GOOGLE_SHEET_NAME (default "Seasons")
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	seasonsSheet := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if seasonsSheet == "" {
		seasonsSheet = "Seasons"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		seasonsSheet:  seasonsSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// AppendSeason writes one season summary row below the last occupied row.
// An empty seasons sheet gets the header row first.
func (c *Client) AppendSeason(ctx context.Context, season core.Season) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:A", c.seasonsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", c.seasonsSheet, err)
	}

	nextRow := len(resp.Values) + 1
	if nextRow == 1 {
		headerRange := fmt.Sprintf("%s!A1:I1", c.seasonsSheet)
		headerVR := &gsheet.ValueRange{Values: [][]any{seasonHeader}}
		if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, headerRange, headerVR).
			ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("write header in sheet %s: %w", c.seasonsSheet, err)
		}
		nextRow = 2
	}

	dataRange := fmt.Sprintf("%s!A%d:I%d", c.seasonsSheet, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		season.ID,
		season.Name,
		season.StartDate.String(),
		season.EndDate.String(),
		season.StartingCapital.Dollars(),
		season.EndingCapital.Dollars(),
		season.TotalMembers,
		season.TotalIncome.Dollars(),
		season.TotalExpenses.Dollars(),
	}}}

	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("update row in sheet %s: %w", c.seasonsSheet, err)
	}

	slog.InfoContext(ctx, "Season mirrored to Google Sheets",
		"season_id", season.ID,
		"season_name", season.Name,
		"row", nextRow)

	return dataRange, nil
}

// MirroredSeasonIDs scans column A and returns the season IDs already
// present. Header and malformed rows are skipped.
func (c *Client) MirroredSeasonIDs(ctx context.Context) (map[int64]bool, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:A", c.seasonsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	ids := make(map[int64]bool)
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		v := strings.TrimSpace(fmt.Sprint(row[0]))
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		ids[id] = true
	}
	return ids, nil
}
