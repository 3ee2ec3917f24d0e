package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type requestRepositoryImpl struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) request.RequestRepository {
	return &requestRepositoryImpl{db: db}
}

const requestColumns = `
	id, user_id, kind, start_date, end_date, title, reason, status, payload,
	approved_by, approved_at, rejected_reason, resubmitted_from,
	created_at, updated_at, deleted_at
`

func scanRequest(row pgx.Row) (request.Request, error) {
	var (
		req     request.Request
		payload []byte
	)
	err := row.Scan(
		&req.ID,
		&req.UserID,
		&req.Kind,
		&req.StartDate,
		&req.EndDate,
		&req.Title,
		&req.Reason,
		&req.Status,
		&payload,
		&req.ApprovedBy,
		&req.ApprovedAt,
		&req.RejectedReason,
		&req.ResubmittedFrom,
		&req.CreatedAt,
		&req.UpdatedAt,
		&req.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request.Request{}, request.ErrRequestNotFound
		}
		return request.Request{}, err
	}
	if err := req.UnmarshalPayload(payload); err != nil {
		return request.Request{}, fmt.Errorf("request %s: %w", req.ID, err)
	}
	return req, nil
}

// Create implements request.RequestRepository.
func (r *requestRepositoryImpl) Create(ctx context.Context, req request.Request) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	payload, err := req.MarshalPayload()
	if err != nil {
		return request.Request{}, err
	}

	query := `
		INSERT INTO requests (id, user_id, kind, start_date, end_date, title, reason, status, payload,
			approved_by, approved_at, rejected_reason, resubmitted_from, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = q.Exec(ctx, query,
		req.ID, req.UserID, req.Kind, req.StartDate, req.EndDate, req.Title, req.Reason, req.Status, payload,
		req.ApprovedBy, req.ApprovedAt, req.RejectedReason, req.ResubmittedFrom, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return request.Request{}, fmt.Errorf("insert request: %w", err)
	}

	claimQuery := `
		INSERT INTO request_dates (request_id, user_id, work_date, kind, active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (user_id, work_date, kind) WHERE active DO NOTHING
	`

	for _, d := range req.Dates() {
		tag, err := q.Exec(ctx, claimQuery, req.ID, req.UserID, d, req.Kind)
		if err != nil {
			if isUniqueViolation(err) {
				return request.Request{}, &request.ConflictError{Kind: req.Kind, Date: d}
			}
			return request.Request{}, fmt.Errorf("claim %s: %w", d.Format("2006-01-02"), err)
		}
		if tag.RowsAffected() == 0 {
			var existing string
			err := q.QueryRow(ctx,
				`SELECT request_id FROM request_dates WHERE user_id = $1 AND work_date = $2 AND kind = $3 AND active`,
				req.UserID, d, req.Kind,
			).Scan(&existing)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return request.Request{}, err
			}
			return request.Request{}, &request.ConflictError{Kind: req.Kind, Date: d, ExistingID: existing}
		}
	}

	return req, nil
}

// GetByID implements request.RequestRepository.
func (r *requestRepositoryImpl) GetByID(ctx context.Context, id string) (request.Request, error) {
	q := GetQuerier(ctx, r.db)
	return scanRequest(q.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1 AND deleted_at IS NULL`, id))
}

// GetByIDForUpdate implements request.RequestRepository.
func (r *requestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (request.Request, error) {
	q := GetQuerier(ctx, r.db)
	return scanRequest(q.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id))
}

// List implements request.RequestRepository.
func (r *requestRepositoryImpl) List(ctx context.Context, f request.Filter) ([]request.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{}
	argIdx := 1
	whereClauses := []string{"deleted_at IS NULL"}

	if f.UserID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, *f.UserID)
		argIdx++
	}
	if f.Kind != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("kind = $%d", argIdx))
		args = append(args, *f.Kind)
		argIdx++
	}
	if f.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}
	if f.From != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("end_date >= $%d", argIdx))
		args = append(args, *f.From)
		argIdx++
	}
	if f.To != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("start_date <= $%d", argIdx))
		args = append(args, *f.To)
		argIdx++
	}

	where := " WHERE " + strings.Join(whereClauses, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM requests"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, limit := max(f.Page, 1), f.Limit
	if limit < 1 {
		limit = 20
	}

	query := "SELECT " + requestColumns + " FROM requests" + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]request.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}

	return requests, total, rows.Err()
}

// UpdateStatus implements request.RequestRepository.
func (r *requestRepositoryImpl) UpdateStatus(ctx context.Context, req request.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE requests
		SET status = $2, approved_by = $3, approved_at = $4, rejected_reason = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, req.ID, req.Status, req.ApprovedBy, req.ApprovedAt, req.RejectedReason, req.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return request.ErrRequestNotFound
	}
	return nil
}

// SoftDelete implements request.RequestRepository.
func (r *requestRepositoryImpl) SoftDelete(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE requests SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return request.ErrRequestNotFound
	}
	return r.ReleaseDates(ctx, id)
}

// ReleaseDates implements request.RequestRepository.
func (r *requestRepositoryImpl) ReleaseDates(ctx context.Context, requestID string) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `UPDATE request_dates SET active = FALSE WHERE request_id = $1 AND active`, requestID)
	return err
}

// FindClaims implements request.RequestRepository.
func (r *requestRepositoryImpl) FindClaims(ctx context.Context, userID string, kinds []request.Kind, from, to time.Time) ([]request.DateClaim, error) {
	q := GetQuerier(ctx, r.db)

	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}

	query := `
		SELECT request_id, user_id, kind, work_date
		FROM request_dates
		WHERE user_id = $1 AND kind = ANY($2) AND work_date BETWEEN $3 AND $4 AND active
		ORDER BY work_date
	`

	rows, err := q.Query(ctx, query, userID, names, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []request.DateClaim
	for rows.Next() {
		var c request.DateClaim
		if err := rows.Scan(&c.RequestID, &c.UserID, &c.Kind, &c.WorkDate); err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// LockUser implements request.RequestRepository with a transaction
// scoped advisory lock keyed on the user.
func (r *requestRepositoryImpl) LockUser(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID)
	return err
}
