package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
)

type requestRepositoryImpl struct {
	store *Store
}

func NewRequestRepository(store *Store) request.RequestRepository {
	return &requestRepositoryImpl{store: store}
}

// Create implements request.RequestRepository.
func (r *requestRepositoryImpl) Create(ctx context.Context, req request.Request) (request.Request, error) {
	err := r.store.run(ctx, func() error {
		dates := req.Dates()
		for _, d := range dates {
			if existing, ok := r.store.claims[claimKey{req.UserID, d, req.Kind}]; ok {
				return &request.ConflictError{Kind: req.Kind, Date: d, ExistingID: existing}
			}
		}
		for _, d := range dates {
			r.store.claims[claimKey{req.UserID, d, req.Kind}] = req.ID
		}
		r.store.requests[req.ID] = req
		return nil
	})
	return req, err
}

// GetByID implements request.RequestRepository. Soft-deleted requests
// are not found.
func (r *requestRepositoryImpl) GetByID(ctx context.Context, id string) (request.Request, error) {
	var req request.Request
	err := r.store.run(ctx, func() error {
		found, ok := r.store.requests[id]
		if !ok || found.DeletedAt != nil {
			return request.ErrRequestNotFound
		}
		req = found
		return nil
	})
	return req, err
}

// GetByIDForUpdate implements request.RequestRepository.
func (r *requestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (request.Request, error) {
	return r.GetByID(ctx, id)
}

// List implements request.RequestRepository. Newest first.
func (r *requestRepositoryImpl) List(ctx context.Context, f request.Filter) ([]request.Request, int64, error) {
	var matched []request.Request
	err := r.store.run(ctx, func() error {
		for _, req := range r.store.requests {
			if matches(req, f) {
				matched = append(matched, req)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	slices.SortFunc(matched, func(a, b request.Request) int { return b.CreatedAt.Compare(a.CreatedAt) })

	total := int64(len(matched))
	page, limit := max(f.Page, 1), f.Limit
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit
	if offset >= len(matched) {
		return []request.Request{}, total, nil
	}
	return matched[offset:min(offset+limit, len(matched))], total, nil
}

func matches(req request.Request, f request.Filter) bool {
	if req.DeletedAt != nil {
		return false
	}
	if f.UserID != nil && req.UserID != *f.UserID {
		return false
	}
	if f.Kind != nil && req.Kind != *f.Kind {
		return false
	}
	if f.Status != nil && req.Status != *f.Status {
		return false
	}
	if f.From != nil && req.EndDate.Before(*f.From) {
		return false
	}
	if f.To != nil && req.StartDate.After(*f.To) {
		return false
	}
	return true
}

// UpdateStatus implements request.RequestRepository.
func (r *requestRepositoryImpl) UpdateStatus(ctx context.Context, req request.Request) error {
	return r.store.run(ctx, func() error {
		stored, ok := r.store.requests[req.ID]
		if !ok || stored.DeletedAt != nil {
			return request.ErrRequestNotFound
		}
		stored.Status = req.Status
		stored.ApprovedBy = req.ApprovedBy
		stored.ApprovedAt = req.ApprovedAt
		stored.RejectedReason = req.RejectedReason
		stored.UpdatedAt = req.UpdatedAt
		r.store.requests[req.ID] = stored
		return nil
	})
}

// SoftDelete implements request.RequestRepository.
func (r *requestRepositoryImpl) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return r.store.run(ctx, func() error {
		stored, ok := r.store.requests[id]
		if !ok || stored.DeletedAt != nil {
			return request.ErrRequestNotFound
		}
		stored.DeletedAt = &at
		stored.UpdatedAt = at
		r.store.requests[id] = stored
		r.releaseLocked(id)
		return nil
	})
}

// ReleaseDates implements request.RequestRepository.
func (r *requestRepositoryImpl) ReleaseDates(ctx context.Context, requestID string) error {
	return r.store.run(ctx, func() error {
		r.releaseLocked(requestID)
		return nil
	})
}

func (r *requestRepositoryImpl) releaseLocked(requestID string) {
	for key, id := range r.store.claims {
		if id == requestID {
			delete(r.store.claims, key)
		}
	}
}

// FindClaims implements request.RequestRepository.
func (r *requestRepositoryImpl) FindClaims(ctx context.Context, userID string, kinds []request.Kind, from, to time.Time) ([]request.DateClaim, error) {
	var claims []request.DateClaim
	err := r.store.run(ctx, func() error {
		for key, id := range r.store.claims {
			if key.userID != userID || key.date.Before(from) || key.date.After(to) || !slices.Contains(kinds, key.kind) {
				continue
			}
			claims = append(claims, request.DateClaim{RequestID: id, UserID: userID, Kind: key.kind, WorkDate: key.date})
		}
		return nil
	})
	slices.SortFunc(claims, func(a, b request.DateClaim) int { return a.WorkDate.Compare(b.WorkDate) })
	return claims, err
}

// LockUser implements request.RequestRepository. Transactions already
// run one at a time.
func (r *requestRepositoryImpl) LockUser(ctx context.Context, userID string) error {
	return nil
}
