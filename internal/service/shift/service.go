package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type shiftServiceImpl struct {
	tx        database.Transactor
	clock     clock.Clock
	shiftRepo shift.ShiftRepository
}

func NewShiftService(tx database.Transactor, clk clock.Clock, shiftRepo shift.ShiftRepository) shift.ShiftService {
	return &shiftServiceImpl{tx: tx, clock: clk, shiftRepo: shiftRepo}
}

// Create implements shift.ShiftService.
func (s *shiftServiceImpl) Create(ctx context.Context, req shift.CreateShiftRequest) (shift.WorkShift, error) {
	if err := req.Validate(); err != nil {
		return shift.WorkShift{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return shift.WorkShift{}, fmt.Errorf("failed to generate shift id: %w", err)
	}
	startDate, _ := validator.IsValidDate(req.StartDate)
	now := s.clock.Now()

	ws := shift.WorkShift{
		ID:             id.String(),
		Name:           req.Name,
		Type:           shift.ShiftType(req.Type),
		StartDate:      startDate,
		MorningStart:   shift.MustTimeOfDay(req.MorningStart),
		MorningEnd:     shift.MustTimeOfDay(req.MorningEnd),
		AfternoonStart: shift.MustTimeOfDay(req.AfternoonStart),
		AfternoonEnd:   shift.MustTimeOfDay(req.AfternoonEnd),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.EndDate != nil {
		endDate, _ := validator.IsValidDate(*req.EndDate)
		ws.EndDate = &endDate
	}
	if err := ws.CheckBoundaries(); err != nil {
		return shift.WorkShift{}, err
	}

	created, err := s.shiftRepo.Create(ctx, ws)
	if err != nil {
		return shift.WorkShift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	slog.Info("Shift created", "shift_id", created.ID, "name", created.Name, "start_date", req.StartDate)
	return created, nil
}

// Update implements shift.ShiftService. Boundaries are frozen once any
// timesheet references the shift.
func (s *shiftServiceImpl) Update(ctx context.Context, req shift.UpdateShiftRequest) (shift.WorkShift, error) {
	if err := req.Validate(); err != nil {
		return shift.WorkShift{}, err
	}

	var out shift.WorkShift
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ws, err := s.shiftRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.ChangesBoundaries() {
			referenced, err := s.shiftRepo.IsReferenced(ctx, ws.ID)
			if err != nil {
				return fmt.Errorf("failed to check shift usage: %w", err)
			}
			if referenced {
				return shift.ErrShiftInUse
			}
		}

		if req.Name != nil {
			ws.Name = *req.Name
		}
		if req.EndDate != nil {
			endDate, _ := validator.IsValidDate(*req.EndDate)
			ws.EndDate = &endDate
		}
		for _, b := range []struct {
			src *string
			dst *shift.TimeOfDay
		}{
			{req.MorningStart, &ws.MorningStart},
			{req.MorningEnd, &ws.MorningEnd},
			{req.AfternoonStart, &ws.AfternoonStart},
			{req.AfternoonEnd, &ws.AfternoonEnd},
		} {
			if b.src != nil {
				*b.dst = shift.MustTimeOfDay(*b.src)
			}
		}
		if err := ws.CheckBoundaries(); err != nil {
			return err
		}

		ws.UpdatedAt = s.clock.Now()
		if err := s.shiftRepo.Update(ctx, ws); err != nil {
			return fmt.Errorf("failed to update shift: %w", err)
		}
		out = ws
		return nil
	})
	if err != nil {
		return shift.WorkShift{}, err
	}
	return out, nil
}

// Get implements shift.ShiftService.
func (s *shiftServiceImpl) Get(ctx context.Context, id string) (shift.WorkShift, error) {
	return s.shiftRepo.GetByID(ctx, id)
}

// List implements shift.ShiftService.
func (s *shiftServiceImpl) List(ctx context.Context) ([]shift.WorkShift, error) {
	shifts, err := s.shiftRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, nil
}

// Resolve implements shift.ShiftService.
func (s *shiftServiceImpl) Resolve(ctx context.Context, date time.Time) (shift.WorkShift, error) {
	ws, err := s.shiftRepo.GetActiveForDate(ctx, clock.DateOf(date))
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.WorkShift{}, err
		}
		return shift.WorkShift{}, fmt.Errorf("failed to resolve shift: %w", err)
	}
	return ws, nil
}
