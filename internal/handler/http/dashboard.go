package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DashboardHandler interface {
	// GetDashboard returns the caller's month summary, balance and pending requests
	GetDashboard(w http.ResponseWriter, r *http.Request)
	// GetTeamDashboard returns daily stats and pending counts for approvers
	GetTeamDashboard(w http.ResponseWriter, r *http.Request)
	// GetMonthlySummary returns one user's month summary
	GetMonthlySummary(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetDashboard handles GET /dashboard
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	month := r.URL.Query().Get("month") // format: YYYY-MM, default: current month

	result, err := h.dashboardService.GetDashboard(r.Context(), id.UserID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetTeamDashboard handles GET /dashboard/daily
func (h *dashboardHandlerImpl) GetTeamDashboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date") // format: YYYY-MM-DD, default: today

	result, err := h.dashboardService.GetTeamDashboard(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMonthlySummary handles GET /dashboard/users/{user_id}/summary
func (h *dashboardHandlerImpl) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")

	result, err := h.dashboardService.GetMonthlySummary(r.Context(), chi.URLParam(r, "user_id"), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
