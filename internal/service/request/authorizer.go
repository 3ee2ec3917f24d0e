package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

// RoleAuthorizer lets active managers and owners process requests of
// other users.
type RoleAuthorizer struct {
	users user.UserRepository
}

func NewRoleAuthorizer(users user.UserRepository) *RoleAuthorizer {
	return &RoleAuthorizer{users: users}
}

// CanApprove implements request.Authorizer.
func (a *RoleAuthorizer) CanApprove(ctx context.Context, approverID string, r request.Request) (bool, error) {
	if approverID == r.UserID {
		return false, nil
	}
	approver, err := a.users.GetByID(ctx, approverID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get approver: %w", err)
	}
	return approver.CanApprove(), nil
}

var _ request.Authorizer = (*RoleAuthorizer)(nil)
