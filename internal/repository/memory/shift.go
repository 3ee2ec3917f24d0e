package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
)

type shiftRepositoryImpl struct {
	store *Store
}

func NewShiftRepository(store *Store) shift.ShiftRepository {
	return &shiftRepositoryImpl{store: store}
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.WorkShift) (shift.WorkShift, error) {
	err := r.store.run(ctx, func() error {
		r.store.shifts[s.ID] = s
		return nil
	})
	return s, err
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.WorkShift, error) {
	var s shift.WorkShift
	err := r.store.run(ctx, func() error {
		found, ok := r.store.shifts[id]
		if !ok {
			return shift.ErrShiftNotFound
		}
		s = found
		return nil
	})
	return s, err
}

// GetActiveForDate implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetActiveForDate(ctx context.Context, date time.Time) (shift.WorkShift, error) {
	var best *shift.WorkShift
	err := r.store.run(ctx, func() error {
		for _, s := range r.store.shifts {
			if !s.Covers(date) {
				continue
			}
			if best == nil || s.StartDate.After(best.StartDate) ||
				(s.StartDate.Equal(best.StartDate) && s.CreatedAt.After(best.CreatedAt)) {
				candidate := s
				best = &candidate
			}
		}
		if best == nil {
			return shift.ErrShiftNotFound
		}
		return nil
	})
	if err != nil {
		return shift.WorkShift{}, err
	}
	return *best, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context) ([]shift.WorkShift, error) {
	var shifts []shift.WorkShift
	err := r.store.run(ctx, func() error {
		for _, s := range r.store.shifts {
			shifts = append(shifts, s)
		}
		return nil
	})
	slices.SortFunc(shifts, func(a, b shift.WorkShift) int { return b.StartDate.Compare(a.StartDate) })
	return shifts, err
}

// Update implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Update(ctx context.Context, s shift.WorkShift) error {
	return r.store.run(ctx, func() error {
		if _, ok := r.store.shifts[s.ID]; !ok {
			return shift.ErrShiftNotFound
		}
		r.store.shifts[s.ID] = s
		return nil
	})
}

// IsReferenced implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) IsReferenced(ctx context.Context, id string) (bool, error) {
	var referenced bool
	err := r.store.run(ctx, func() error {
		for _, day := range r.store.timesheets {
			if day.ShiftID != nil && *day.ShiftID == id {
				referenced = true
				return nil
			}
		}
		return nil
	})
	return referenced, err
}
