package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

// TIME columns travel as "HH:MM" text.
const shiftColumns = `
	id, name, type, start_date, end_date,
	to_char(morning_start, 'HH24:MI'), to_char(morning_end, 'HH24:MI'),
	to_char(afternoon_start, 'HH24:MI'), to_char(afternoon_end, 'HH24:MI'),
	created_at, updated_at
`

func scanShift(row pgx.Row) (shift.WorkShift, error) {
	var (
		s                            shift.WorkShift
		morningStart, morningEnd     string
		afternoonStart, afternoonEnd string
	)
	if err := row.Scan(
		&s.ID, &s.Name, &s.Type, &s.StartDate, &s.EndDate,
		&morningStart, &morningEnd, &afternoonStart, &afternoonEnd,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return shift.WorkShift{}, err
	}

	for _, b := range []struct {
		src string
		dst *shift.TimeOfDay
	}{
		{morningStart, &s.MorningStart},
		{morningEnd, &s.MorningEnd},
		{afternoonStart, &s.AfternoonStart},
		{afternoonEnd, &s.AfternoonEnd},
	} {
		t, err := shift.ParseTimeOfDay(b.src)
		if err != nil {
			return shift.WorkShift{}, fmt.Errorf("scan shift %s: %w", s.ID, err)
		}
		*b.dst = t
	}
	return s, nil
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.WorkShift) (shift.WorkShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_shifts (id, name, type, start_date, end_date,
			morning_start, morning_end, afternoon_start, afternoon_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::time, $7::time, $8::time, $9::time, $10, $11)
		RETURNING ` + shiftColumns

	return scanShift(q.QueryRow(ctx, query,
		s.ID, s.Name, s.Type, s.StartDate, s.EndDate,
		s.MorningStart.String(), s.MorningEnd.String(), s.AfternoonStart.String(), s.AfternoonEnd.String(),
		s.CreatedAt, s.UpdatedAt,
	))
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.WorkShift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanShift(q.QueryRow(ctx, `SELECT `+shiftColumns+` FROM work_shifts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.WorkShift{}, shift.ErrShiftNotFound
		}
		return shift.WorkShift{}, err
	}
	return s, nil
}

// GetActiveForDate implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetActiveForDate(ctx context.Context, date time.Time) (shift.WorkShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM work_shifts
		WHERE start_date <= $1 AND (end_date IS NULL OR end_date >= $1)
		ORDER BY start_date DESC, created_at DESC
		LIMIT 1
	`

	s, err := scanShift(q.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.WorkShift{}, shift.ErrShiftNotFound
		}
		return shift.WorkShift{}, err
	}
	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context) ([]shift.WorkShift, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+shiftColumns+` FROM work_shifts ORDER BY start_date DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]shift.WorkShift, 0)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// Update implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Update(ctx context.Context, s shift.WorkShift) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_shifts
		SET name = $2, end_date = $3,
			morning_start = $4::time, morning_end = $5::time,
			afternoon_start = $6::time, afternoon_end = $7::time,
			updated_at = $8
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		s.ID, s.Name, s.EndDate,
		s.MorningStart.String(), s.MorningEnd.String(), s.AfternoonStart.String(), s.AfternoonEnd.String(),
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// IsReferenced implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) IsReferenced(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM timesheets WHERE shift_id = $1)`, id).Scan(&exists)
	return exists, err
}
