package http

import (
	"net/http"
	"strconv"

	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/core"
	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/export"
	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/finance"
)

type incomeRequest struct {
	PaymentType string     `json:"paymentType"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Quantity    int        `json:"quantity,omitempty"`
	Amount      core.Money `json:"amount,omitempty"`
}

type incomeResponse struct {
	Transaction *core.IncomeTransaction `json:"transaction,omitempty"`
	OtherIncome *core.OtherIncome       `json:"otherIncome,omitempty"`
	Member      *core.Member            `json:"member,omitempty"`
	Warning     string                  `json:"warning,omitempty"`
}

type expenditureRequest struct {
	Payee  string     `json:"payee"`
	Reason string     `json:"reason"`
	Amount core.Money `json:"amount"`
}

type returnSessionsRequest struct {
	MemberID int64 `json:"memberId"`
	Sessions int   `json:"sessions"`
}

type endSeasonRequest struct {
	Name    string    `json:"name"`
	EndDate core.Date `json:"endDate,omitempty"`
}

func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	agg, err := s.finance.Aggregates(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, agg)
}

func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request) {
	txs, err := s.finance.Income(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if txs == nil {
		txs = []core.IncomeTransaction{}
	}
	writeJSON(w, r, http.StatusOK, txs)
}

func (s *Server) handleSubmitIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	res, err := s.finance.SubmitIncome(r.Context(), finance.IncomeRequest{
		PaymentType: core.PaymentType(sanitizeInput(req.PaymentType)),
		FirstName:   sanitizeInput(req.FirstName),
		LastName:    sanitizeInput(req.LastName),
		Quantity:    req.Quantity,
		OtherAmount: req.Amount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := incomeResponse{
		Transaction: res.Transaction,
		OtherIncome: res.Other,
		Member:      res.Member,
	}
	status := http.StatusCreated
	if res.Warning != nil {
		// The mutation happened; the warning explains the truncation.
		resp.Warning = res.Warning.Error()
		status = http.StatusOK
	}
	writeJSON(w, r, status, resp)
}

func (s *Server) handleListExpenditures(w http.ResponseWriter, r *http.Request) {
	exps, err := s.finance.Expenditures(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if exps == nil {
		exps = []core.Expenditure{}
	}
	writeJSON(w, r, http.StatusOK, exps)
}

func (s *Server) handleSubmitExpenditure(w http.ResponseWriter, r *http.Request) {
	var req expenditureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	exp, err := s.finance.SubmitExpenditure(r.Context(), sanitizeInput(req.Payee), sanitizeInput(req.Reason), req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, exp)
}

func (s *Server) handleListOtherIncome(w http.ResponseWriter, r *http.Request) {
	recs, err := s.finance.OtherIncome(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []core.OtherIncome{}
	}
	writeJSON(w, r, http.StatusOK, recs)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.finance.Members(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if members == nil {
		members = []core.Member{}
	}
	writeJSON(w, r, http.StatusOK, members)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid member id"})
		return
	}
	if err := s.finance.RemoveMember(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"removed": true})
}

func (s *Server) handleReturnSessions(w http.ResponseWriter, r *http.Request) {
	var req returnSessionsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := s.finance.ReturnSessions(r.Context(), req.MemberID, req.Sessions); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"returned": true})
}

func (s *Server) handleListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := s.finance.Seasons(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if seasons == nil {
		seasons = []core.Season{}
	}
	writeJSON(w, r, http.StatusOK, seasons)
}

func (s *Server) handleEndSeason(w http.ResponseWriter, r *http.Request) {
	var req endSeasonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	season, err := s.finance.EndSeason(r.Context(), sanitizeInput(req.Name), req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, season)
}

func (s *Server) handleExportSeason(w http.ResponseWriter, r *http.Request) {
	seasonID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid season id"})
		return
	}
	typ, err := export.ParseType(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	wb, err := s.exporter.SeasonWorkbook(r.Context(), seasonID, typ)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+wb.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(wb.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(wb.Data)
}
