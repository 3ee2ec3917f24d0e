package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RequestHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Resubmit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type requestHandlerImpl struct {
	requestService request.RequestService
}

func NewRequestHandler(requestService request.RequestService) RequestHandler {
	return &requestHandlerImpl{requestService: requestService}
}

func caller(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
	}
	return id, ok
}

// kindParam reads {kind} in either slug or constant form.
func kindParam(w http.ResponseWriter, r *http.Request) (request.Kind, bool) {
	kind, err := request.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		response.HandleError(w, err)
		return "", false
	}
	return kind, true
}

func decodeCreate(w http.ResponseWriter, r *http.Request, handler string) (request.CreateRequest, bool) {
	var req request.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error(handler+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return request.CreateRequest{}, false
	}
	return req, true
}

// Create handles POST /requests/{kind}
func (h *requestHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	req, ok := decodeCreate(w, r, "CreateRequest")
	if !ok {
		return
	}
	req.UserID = id.UserID
	req.Kind = kind

	result, err := h.requestService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Request submitted successfully", result)
}

// Get handles GET /requests/{kind}/{id}. Employees only see their own.
func (h *requestHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}

	req, err := h.requestService.Get(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if req.UserID != id.UserID && !id.IsManager() {
		response.HandleError(w, request.ErrNotOwner)
		return
	}

	response.Success(w, req)
}

func listRequestFromQuery(r *http.Request) request.ListRequest {
	q := r.URL.Query()
	req := request.ListRequest{
		Kind:   q.Get("kind"),
		Status: q.Get("status"),
		UserID: q.Get("user_id"),
		From:   q.Get("from"),
		To:     q.Get("to"),
	}
	if page := q.Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			req.Page = p
		}
	}
	if limit := q.Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			req.Limit = l
		}
	}
	return req
}

func (h *requestHandlerImpl) list(w http.ResponseWriter, r *http.Request, listReq request.ListRequest) {
	filter, err := listReq.ToFilter()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requests, total, err := h.requestService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, response.NewMeta(filter.Page, filter.Limit, total))
}

// ListMine handles GET /requests/my
func (h *requestHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	listReq := listRequestFromQuery(r)
	listReq.UserID = id.UserID
	h.list(w, r, listReq)
}

// List handles GET /requests
func (h *requestHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, listRequestFromQuery(r))
}

// Cancel handles DELETE /requests/{kind}/{id}
func (h *requestHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}

	req, err := h.requestService.Cancel(r.Context(), kind, chi.URLParam(r, "id"), id.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Request cancelled successfully", req)
}

// Resubmit handles POST /requests/{kind}/{id}/resubmit
func (h *requestHandlerImpl) Resubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	req, ok := decodeCreate(w, r, "ResubmitRequest")
	if !ok {
		return
	}
	req.UserID = id.UserID
	req.Kind = kind

	result, err := h.requestService.Resubmit(r.Context(), kind, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Request resubmitted successfully", result)
}

// Approve handles POST /requests/{kind}/{id}/approve
func (h *requestHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}

	result, err := h.requestService.Approve(r.Context(), kind, chi.URLParam(r, "id"), id.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Request approved successfully", result)
}

// Reject handles POST /requests/{kind}/{id}/reject
func (h *requestHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}

	var req request.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RejectRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.requestService.Reject(r.Context(), kind, chi.URLParam(r, "id"), id.UserID, req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Request rejected successfully", result)
}
