package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/core"
	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/export"
	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/finance"
	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/ledger/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *finance.Service) {
	t.Helper()
	store := memory.New()
	svc := finance.NewService(store, core.DefaultPricing(), nil)
	srv := NewServer(":0", svc, export.NewExporter(store))
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts, svc
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestSubmitIncomeEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/income", incomeRequest{
		PaymentType: "full-season", FirstName: "Eli", LastName: "Ritchie",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	body := decodeBody[incomeResponse](t, resp)
	if body.Member == nil || body.Member.Sessions != 4 {
		t.Errorf("member = %+v", body.Member)
	}
	if body.Transaction == nil {
		t.Error("expected a transaction in the response")
	}
	if body.Warning != "" {
		t.Errorf("unexpected warning %q", body.Warning)
	}

	// Same name again conflicts.
	resp = postJSON(t, ts.URL+"/api/income", incomeRequest{
		PaymentType: "full-season", FirstName: "Eli", LastName: "Ritchie",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", resp.StatusCode)
	}
}

func TestSubmitIncomeEndpointCapped(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/income", incomeRequest{
		PaymentType: "beach-pass", FirstName: "Noa", LastName: "Lani",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("enrollment status = %d, want 201", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/api/income", incomeRequest{
		PaymentType: "extra-sessions", FirstName: "Noa", LastName: "Lani", Quantity: 9,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("capped purchase status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody[incomeResponse](t, resp)
	if body.Warning == "" {
		t.Error("expected a truncation warning")
	}
	if body.Member == nil || body.Member.Sessions != 4 {
		t.Errorf("member = %+v", body.Member)
	}
}

func TestSubmitIncomeEndpointValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/income", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/api/income", incomeRequest{
		PaymentType: "full-season", FirstName: "", LastName: "Ritchie",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/api/income", incomeRequest{
		PaymentType: "sponsorship", FirstName: "Big", LastName: "Corp",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown payment type status = %d, want 400", resp.StatusCode)
	}
}

func TestAggregatesEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/income", incomeRequest{
		PaymentType: "full-season", FirstName: "Eli", LastName: "Ritchie",
	})
	resp.Body.Close()
	resp = postJSON(t, ts.URL+"/api/expenditures", expenditureRequest{
		Payee: "Wax Supply Co", Reason: "Board wax", Amount: core.Money{Cents: 2500},
	})
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/api/aggregates")
	if err != nil {
		t.Fatalf("GET /api/aggregates failed: %v", err)
	}
	agg := decodeBody[core.Aggregates](t, resp)
	if agg.TotalCapital.Cents != 40000 {
		t.Errorf("totalCapital = %d, want 40000", agg.TotalCapital.Cents)
	}
	if agg.SeasonLength != 4 {
		t.Errorf("seasonLength = %d, want 4", agg.SeasonLength)
	}
}

func TestExpenditureEndpointValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/expenditures", expenditureRequest{
		Payee: "Wax Supply Co", Reason: "Board wax", Amount: core.Money{Cents: 0},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("zero amount status = %d, want 400", resp.StatusCode)
	}
}

func TestRemoveMemberEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/income", incomeRequest{
		PaymentType: "full-season", FirstName: "Eli", LastName: "Ritchie",
	})
	body := decodeBody[incomeResponse](t, resp)

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/members?id=%d", ts.URL, body.Member.ID), nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", delResp.StatusCode)
	}

	// Removing again is a 404; a bad id is a 400.
	delResp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("second DELETE failed: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", delResp.StatusCode)
	}

	badReq, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/members?id=abc", nil)
	badResp, err := http.DefaultClient.Do(badReq)
	if err != nil {
		t.Fatalf("bad-id DELETE failed: %v", err)
	}
	badResp.Body.Close()
	if badResp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", badResp.StatusCode)
	}
}

func TestReturnSessionsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/income", incomeRequest{
		PaymentType: "full-season", FirstName: "Eli", LastName: "Ritchie",
	})
	body := decodeBody[incomeResponse](t, resp)

	resp = postJSON(t, ts.URL+"/api/members/return-sessions", returnSessionsRequest{
		MemberID: body.Member.ID, Sessions: 2,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/api/members/return-sessions", returnSessionsRequest{
		MemberID: body.Member.ID, Sessions: 10,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("over-return status = %d, want 400", resp.StatusCode)
	}
}

func TestSeasonLifecycleEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/income", incomeRequest{
		PaymentType: "full-season", FirstName: "Eli", LastName: "Ritchie",
	})
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/seasons/end-season", endSeasonRequest{Name: "Fall 2026"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("end-season status = %d, want 201", resp.StatusCode)
	}
	season := decodeBody[core.Season](t, resp)
	if season.Name != "Fall 2026" || season.EndingCapital.Cents != 42500 {
		t.Errorf("season = %+v", season)
	}

	resp, err := http.Get(ts.URL + "/api/seasons")
	if err != nil {
		t.Fatalf("GET /api/seasons failed: %v", err)
	}
	seasons := decodeBody[[]core.Season](t, resp)
	if len(seasons) != 1 {
		t.Fatalf("got %d seasons, want 1", len(seasons))
	}

	// Export the archived members ledger.
	resp, err = http.Get(fmt.Sprintf("%s/api/seasons/%d/export?type=members", ts.URL, season.ID))
	if err != nil {
		t.Fatalf("GET export failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("content type = %q", ct)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read export body: %v", err)
	}
	if len(data) == 0 {
		t.Error("export body is empty")
	}

	// Unknown type and unknown season.
	resp, err = http.Get(fmt.Sprintf("%s/api/seasons/%d/export?type=payroll", ts.URL, season.ID))
	if err != nil {
		t.Fatalf("GET export failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad type status = %d, want 400", resp.StatusCode)
	}
	resp, err = http.Get(ts.URL + "/api/seasons/999/export?type=members")
	if err != nil {
		t.Fatalf("GET export failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown season status = %d, want 404", resp.StatusCode)
	}

	// End-season name is required.
	resp = postJSON(t, ts.URL+"/api/seasons/end-season", endSeasonRequest{Name: "  "})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("blank name status = %d, want 400", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/aggregates", "application/json", bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestWriteErrorStoreUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)

	writeError(rec, req, fmt.Errorf("%w: query members: connection refused", core.ErrStoreUnavailable))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "ledger store unavailable" {
		t.Errorf("error body = %q, want %q", body.Error, "ledger store unavailable")
	}
}
