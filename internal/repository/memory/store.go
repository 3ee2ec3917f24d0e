package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/project"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

type dayKey struct {
	userID string
	date   time.Time
}

type yearKey struct {
	userID string
	year   int
}

type claimKey struct {
	userID string
	date   time.Time
	kind   request.Kind
}

type state struct {
	users        map[string]user.User
	projects     map[string]project.Project
	shifts       map[string]shift.WorkShift
	timesheets   map[dayKey]timesheet.TimesheetDay
	balances     map[yearKey]leave.Balance
	transactions []leave.Transaction
	requests     map[string]request.Request
	claims       map[claimKey]string
}

func (s *state) clone() state {
	return state{
		users:        maps.Clone(s.users),
		projects:     maps.Clone(s.projects),
		shifts:       maps.Clone(s.shifts),
		timesheets:   maps.Clone(s.timesheets),
		balances:     maps.Clone(s.balances),
		transactions: s.transactions[:len(s.transactions):len(s.transactions)],
		requests:     maps.Clone(s.requests),
		claims:       maps.Clone(s.claims),
	}
}

// Store keeps every table in process memory. A transaction holds the
// store lock for its whole duration, which gives serializable isolation
// and makes row locks implicit.
type Store struct {
	mu sync.Mutex
	state
}

func NewStore() *Store {
	return &Store{state: state{
		users:      make(map[string]user.User),
		projects:   make(map[string]project.Project),
		shifts:     make(map[string]shift.WorkShift),
		timesheets: make(map[dayKey]timesheet.TimesheetDay),
		balances:   make(map[yearKey]leave.Balance),
		requests:   make(map[string]request.Request),
		claims:     make(map[claimKey]string),
	}}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// run executes fn under the store lock unless ctx already holds it.
func (s *Store) run(ctx context.Context, fn func() error) error {
	if s.inTx(ctx) {
		return fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

type transactorImpl struct {
	store *Store
}

func NewTransactor(store *Store) database.Transactor {
	return &transactorImpl{store: store}
}

// WithinTransaction implements database.Transactor. On error or panic
// the store is restored to its state before fn ran.
func (t *transactorImpl) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	s := t.store
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	defer func() {
		if p := recover(); p != nil {
			s.state = snapshot
			panic(p)
		}
		if err != nil {
			s.state = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}
