package request

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/timesheet"
)

// buildFunc validates the kind-specific fields of in and sets the payload on r.
type buildFunc func(ctx context.Context, in *request.CreateRequest, r *request.Request) error

// applyFunc runs the approval side effects of r.
type applyFunc func(ctx context.Context, r request.Request) ([]timesheet.TimesheetDay, []leave.Transaction, error)

// kindRule is everything the workflow needs to know about one kind.
// Adding a kind means adding a row here.
type kindRule struct {
	allowPast         bool
	requireWorkingDay bool
	singleDay         bool
	maxDays           int
	maxAdvanceDays    int
	backdateMaxDays   int
	build             buildFunc
	apply             applyFunc
}

func (s *RequestServiceImpl) kindRules(limits request.Limits) map[request.Kind]kindRule {
	rules := map[request.Kind]kindRule{
		request.KindRemoteWork: {
			build: s.buildRemoteWork,
			apply: timesheetsOnly(s.effects.ApplyRemoteWork),
		},
		request.KindDayOff: {
			build: s.buildDayOff,
			apply: s.applyDayOff,
		},
		request.KindOvertime: {
			singleDay: true,
			build:     s.buildOvertime,
			apply:     timesheetsOnly(s.effects.ApplyOvertime),
		},
		request.KindLateEarly: {
			allowPast:         true,
			requireWorkingDay: true,
			singleDay:         true,
			build:             s.buildLateEarly,
			apply:             timesheetsOnly(s.effects.ApplyLateEarly),
		},
		request.KindForgotCheckin: {
			allowPast:         true,
			requireWorkingDay: true,
			singleDay:         true,
			build:             s.buildForgotCheckin,
			apply:             timesheetsOnly(s.effects.ApplyForgotCheckin),
		},
	}
	for kind, rule := range rules {
		rule.maxDays = limits.MaxDays
		rule.maxAdvanceDays = limits.MaxAdvanceDays
		if rule.allowPast {
			rule.backdateMaxDays = limits.BackdateMaxDays
		}
		rules[kind] = rule
	}
	return rules
}

func timesheetsOnly(fn func(ctx context.Context, r request.Request) ([]timesheet.TimesheetDay, error)) applyFunc {
	return func(ctx context.Context, r request.Request) ([]timesheet.TimesheetDay, []leave.Transaction, error) {
		days, err := fn(ctx, r)
		return days, nil, err
	}
}

func (s *RequestServiceImpl) rule(kind request.Kind) (kindRule, error) {
	rule, ok := s.rules[kind]
	if !ok {
		return kindRule{}, request.ErrUnknownKind
	}
	return rule, nil
}
