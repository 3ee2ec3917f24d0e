package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	GetMyBalance(w http.ResponseWriter, r *http.Request)
	GetMyTransactions(w http.ResponseWriter, r *http.Request)
	Adjust(w http.ResponseWriter, r *http.Request)
	Reconcile(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	ledger leave.Ledger
	clock  clock.Clock
}

func NewLeaveHandler(ledger leave.Ledger, clk clock.Clock) LeaveHandler {
	return &LeaveHandlerImpl{ledger: ledger, clock: clk}
}

// yearParam reads ?year, defaulting to the current year.
func (l *LeaveHandlerImpl) yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return l.clock.Now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 9999 {
		response.HandleError(w, validator.ValidationErrors{{Field: "year", Message: "year must be a four digit year"}})
		return 0, false
	}
	return year, true
}

// GetMyBalance handles GET /leave/balance?year=YYYY
func (l *LeaveHandlerImpl) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	year, ok := l.yearParam(w, r)
	if !ok {
		return
	}

	balance, err := l.ledger.GetBalance(r.Context(), id.UserID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}

// GetMyTransactions handles GET /leave/transactions?year=YYYY
func (l *LeaveHandlerImpl) GetMyTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	year, ok := l.yearParam(w, r)
	if !ok {
		return
	}

	history, err := l.ledger.History(r.Context(), id.UserID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}

// Adjust handles POST /leave/adjust
func (l *LeaveHandlerImpl) Adjust(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var req leave.AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AdjustBalance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AdjustedBy = id.UserID

	txn, err := l.ledger.Adjust(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave balance adjusted successfully", txn)
}

// Reconcile handles GET /leave/reconcile/{user_id}?year=YYYY
func (l *LeaveHandlerImpl) Reconcile(w http.ResponseWriter, r *http.Request) {
	year, ok := l.yearParam(w, r)
	if !ok {
		return
	}

	report, err := l.ledger.Reconcile(r.Context(), chi.URLParam(r, "user_id"), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}
