package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type timesheetRepositoryImpl struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepositoryImpl{db: db}
}

const timesheetColumns = `
	id, user_id, work_date, shift_id, shift_type, status,
	check_in, check_out,
	late_minutes, early_minutes, late_excused, early_excused,
	worked_minutes_morning, worked_minutes_afternoon, total_work_minutes, overtime_minutes,
	late_penalty, early_penalty, penalty_amount,
	remote_flag, day_off_reference, paid_leave, unpaid_leave,
	created_at, updated_at
`

func scanTimesheet(row pgx.Row) (timesheet.TimesheetDay, error) {
	var d timesheet.TimesheetDay
	err := row.Scan(
		&d.ID, &d.UserID, &d.WorkDate, &d.ShiftID, &d.Type, &d.Status,
		&d.CheckIn, &d.CheckOut,
		&d.LateMinutes, &d.EarlyMinutes, &d.LateExcused, &d.EarlyExcused,
		&d.WorkedMinutesMorning, &d.WorkedMinutesAfternoon, &d.TotalWorkMinutes, &d.OvertimeMinutes,
		&d.LatePenalty, &d.EarlyPenalty, &d.PenaltyAmount,
		&d.RemoteFlag, &d.DayOffReference, &d.PaidLeave, &d.UnpaidLeave,
		&d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

// EnsureExists implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) EnsureExists(ctx context.Context, day timesheet.TimesheetDay) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheets (id, user_id, work_date, shift_id, shift_type, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, work_date) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, day.ID, day.UserID, day.WorkDate, day.ShiftID, day.Type, day.Status, day.CreatedAt, day.UpdatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// GetForUpdate implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) GetForUpdate(ctx context.Context, userID string, workDate time.Time) (timesheet.TimesheetDay, error) {
	return r.get(ctx, userID, workDate, " FOR UPDATE")
}

// Get implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) Get(ctx context.Context, userID string, workDate time.Time) (timesheet.TimesheetDay, error) {
	return r.get(ctx, userID, workDate, "")
}

func (r *timesheetRepositoryImpl) get(ctx context.Context, userID string, workDate time.Time, lock string) (timesheet.TimesheetDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE user_id = $1 AND work_date = $2` + lock

	d, err := scanTimesheet(q.QueryRow(ctx, query, userID, workDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.TimesheetDay{}, timesheet.ErrTimesheetNotFound
		}
		return timesheet.TimesheetDay{}, err
	}
	return d, nil
}

// Update implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) Update(ctx context.Context, d timesheet.TimesheetDay) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheets
		SET shift_id = $2, shift_type = $3, status = $4,
			check_in = $5, check_out = $6,
			late_minutes = $7, early_minutes = $8, late_excused = $9, early_excused = $10,
			worked_minutes_morning = $11, worked_minutes_afternoon = $12,
			total_work_minutes = $13, overtime_minutes = $14,
			late_penalty = $15, early_penalty = $16, penalty_amount = $17,
			remote_flag = $18, day_off_reference = $19, paid_leave = $20, unpaid_leave = $21,
			updated_at = $22
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		d.ID, d.ShiftID, d.Type, d.Status,
		d.CheckIn, d.CheckOut,
		d.LateMinutes, d.EarlyMinutes, d.LateExcused, d.EarlyExcused,
		d.WorkedMinutesMorning, d.WorkedMinutesAfternoon,
		d.TotalWorkMinutes, d.OvertimeMinutes,
		d.LatePenalty, d.EarlyPenalty, d.PenaltyAmount,
		d.RemoteFlag, d.DayOffReference, d.PaidLeave, d.UnpaidLeave,
		d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return timesheet.ErrTimesheetNotFound
	}
	return nil
}

// ListByUser implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]timesheet.TimesheetDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timesheetColumns + `
		FROM timesheets
		WHERE user_id = $1 AND work_date BETWEEN $2 AND $3
		ORDER BY work_date
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]timesheet.TimesheetDay, 0)
	for rows.Next() {
		d, err := scanTimesheet(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
