package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
)

type timesheetRepositoryImpl struct {
	store *Store
}

func NewTimesheetRepository(store *Store) timesheet.TimesheetRepository {
	return &timesheetRepositoryImpl{store: store}
}

// EnsureExists implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) EnsureExists(ctx context.Context, day timesheet.TimesheetDay) (bool, error) {
	var created bool
	err := r.store.run(ctx, func() error {
		key := dayKey{day.UserID, clock.DateOf(day.WorkDate)}
		if _, ok := r.store.timesheets[key]; ok {
			return nil
		}
		day.WorkDate = key.date
		r.store.timesheets[key] = day
		created = true
		return nil
	})
	return created, err
}

// GetForUpdate implements timesheet.TimesheetRepository. The caller's
// transaction already holds the store lock.
func (r *timesheetRepositoryImpl) GetForUpdate(ctx context.Context, userID string, workDate time.Time) (timesheet.TimesheetDay, error) {
	return r.Get(ctx, userID, workDate)
}

// Get implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) Get(ctx context.Context, userID string, workDate time.Time) (timesheet.TimesheetDay, error) {
	var day timesheet.TimesheetDay
	err := r.store.run(ctx, func() error {
		found, ok := r.store.timesheets[dayKey{userID, clock.DateOf(workDate)}]
		if !ok {
			return timesheet.ErrTimesheetNotFound
		}
		day = found
		return nil
	})
	return day, err
}

// Update implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) Update(ctx context.Context, day timesheet.TimesheetDay) error {
	return r.store.run(ctx, func() error {
		key := dayKey{day.UserID, clock.DateOf(day.WorkDate)}
		if _, ok := r.store.timesheets[key]; !ok {
			return timesheet.ErrTimesheetNotFound
		}
		r.store.timesheets[key] = day
		return nil
	})
}

// ListByUser implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]timesheet.TimesheetDay, error) {
	from, to = clock.DateOf(from), clock.DateOf(to)
	days := []timesheet.TimesheetDay{}
	err := r.store.run(ctx, func() error {
		for key, day := range r.store.timesheets {
			if key.userID == userID && !key.date.Before(from) && !key.date.After(to) {
				days = append(days, day)
			}
		}
		return nil
	})
	slices.SortFunc(days, func(a, b timesheet.TimesheetDay) int { return a.WorkDate.Compare(b.WorkDate) })
	return days, err
}
