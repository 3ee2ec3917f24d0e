package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/project"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var insufficient *leave.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		Fail(w, http.StatusUnprocessableEntity, CodeInsufficientBalance, "Insufficient leave balance", map[string]string{
			"requested": insufficient.Requested.String(),
			"remaining": insufficient.Remaining.String(),
		})
		return
	}

	var conflict *request.ConflictError
	if errors.As(err, &conflict) {
		details := map[string]string{
			"kind": string(conflict.Kind),
			"date": conflict.Date.Format("2006-01-02"),
		}
		if conflict.ExistingID != "" {
			details["existing_id"] = conflict.ExistingID
		}
		Conflict(w, "A conflicting request already exists", details)
		return
	}

	switch {
	// Not found
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, project.ErrProjectNotFound):
		NotFound(w, "Project not found")
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "No applicable shift")
	case errors.Is(err, timesheet.ErrTimesheetNotFound):
		NotFound(w, "Timesheet not found")
	case errors.Is(err, request.ErrRequestNotFound):
		NotFound(w, "Request not found")
	case errors.Is(err, request.ErrUnknownKind):
		NotFound(w, "Unknown request kind")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")

	// Invalid state
	case errors.Is(err, request.ErrAlreadyProcessed):
		Conflict(w, "Request already processed", nil)
	case errors.Is(err, request.ErrNotRejected):
		Conflict(w, "Only rejected requests can be resubmitted", nil)
	case errors.Is(err, request.ErrConflict):
		Conflict(w, "A conflicting request already exists", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out today", nil)
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "No check-in recorded today", nil)
	case errors.Is(err, shift.ErrShiftInUse):
		Conflict(w, err.Error(), nil)

	// Authorization
	case errors.Is(err, request.ErrUnauthorized):
		Forbidden(w, "Not allowed to process this request")
	case errors.Is(err, request.ErrApproverRequired):
		Forbidden(w, "Approver identity is required")
	case errors.Is(err, request.ErrNotOwner):
		Forbidden(w, "Request belongs to another user")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")

	// Invalid input
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, user.ErrUserInactive),
		errors.Is(err, request.ErrInvalidPayload),
		errors.Is(err, shift.ErrInvalidShiftBoundaries),
		errors.Is(err, shift.ErrInvalidShiftWindow),
		errors.Is(err, attendance.ErrCheckoutBeforeCheckin),
		errors.Is(err, attendance.ErrDifferentDays),
		errors.Is(err, leave.ErrInvalidTransactionSign),
		errors.Is(err, leave.ErrInvalidLeaveType),
		errors.Is(err, leave.ErrInvalidTransactionType):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
