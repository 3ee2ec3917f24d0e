package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/project"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/hris-attendance-go/internal/service/dashboard"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	requestService "github.com/cmlabs-hris/hris-attendance-go/internal/service/request"
	shiftService "github.com/cmlabs-hris/hris-attendance-go/internal/service/shift"
	timesheetService "github.com/cmlabs-hris/hris-attendance-go/internal/service/timesheet"
)

type repositories struct {
	tx           database.Transactor
	users        user.UserRepository
	projects     project.ProjectRepository
	shifts       shift.ShiftRepository
	timesheets   timesheet.TimesheetRepository
	balances     leave.BalanceRepository
	transactions leave.TransactionRepository
	requests     request.RequestRepository
	dashboard    dashboard.DashboardRepository
}

func postgresRepositories(db *database.DB) repositories {
	return repositories{
		tx:           postgresql.NewTransactor(db),
		users:        postgresql.NewUserRepository(db),
		projects:     postgresql.NewProjectRepository(db),
		shifts:       postgresql.NewShiftRepository(db),
		timesheets:   postgresql.NewTimesheetRepository(db),
		balances:     postgresql.NewBalanceRepository(db),
		transactions: postgresql.NewTransactionRepository(db),
		requests:     postgresql.NewRequestRepository(db),
		dashboard:    postgresql.NewDashboardRepository(db),
	}
}

func memoryRepositories(store *memory.Store) repositories {
	return repositories{
		tx:           memory.NewTransactor(store),
		users:        memory.NewUserRepository(store),
		projects:     memory.NewProjectRepository(store),
		shifts:       memory.NewShiftRepository(store),
		timesheets:   memory.NewTimesheetRepository(store),
		balances:     memory.NewBalanceRepository(store),
		transactions: memory.NewTransactionRepository(store),
		requests:     memory.NewRequestRepository(store),
		dashboard:    memory.NewDashboardRepository(store),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := appHTTP.NewLogger(cfg.SlogLevel(), cfg.App.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repos repositories
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			slog.Error("Error connecting to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if cfg.Database.AutoMigrate {
			if err := postgresql.Migrate(ctx, db); err != nil {
				slog.Error("Error migrating database", "error", err)
				os.Exit(1)
			}
		}
		repos = postgresRepositories(db)
	case config.DriverMemory:
		slog.Warn("Using in-memory storage, data is lost on restart")
		repos = memoryRepositories(memory.NewStore())
	}

	clk := clock.NewReal(cfg.Work.Location)

	var rule *attendance.BlockRule
	if cfg.Penalty.Enabled {
		rule = &attendance.BlockRule{
			MinutesPerBlock: cfg.Penalty.MinutesPerBlock,
			AmountPerBlock:  cfg.Penalty.AmountPerBlock,
		}
	} else {
		slog.Warn("No penalty rule configured, penalties are zero")
	}

	policy := leave.Policy{
		AnnualPaidQuota:  cfg.Leave.AnnualPaidQuota,
		UnpaidAllowance:  cfg.Leave.UnpaidAllowance,
		MaxCarryOverDays: cfg.Leave.MaxCarryOverDays,
		Accrual:          leave.AccrualMethod(cfg.Leave.AccrualMethod),
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	calendar := attendanceService.NewCalendar(cfg.Work.WeekendDays...)
	hub := sse.NewHub()

	ledger := leaveService.NewLedgerService(repos.tx, clk, policy, repos.balances, repos.transactions)
	writer := timesheetService.NewWriter(
		repos.tx,
		clk,
		cfg.Work.Location,
		rule,
		shift.ShiftType(cfg.Work.DefaultShiftType),
		repos.timesheets,
		repos.shifts,
	)
	attendanceSvc := attendanceService.NewAttendanceService(
		clk,
		cfg.Work.Location,
		rule,
		repos.shifts,
		repos.timesheets,
		writer,
	)
	requestSvc := requestService.NewRequestService(
		repos.tx,
		clk,
		calendar,
		repos.users,
		repos.projects,
		repos.requests,
		ledger,
		writer,
		requestService.NewRoleAuthorizer(repos.users),
		requestService.NewHubPublisher(hub),
		request.Limits{
			MaxDays:         cfg.Request.MaxDays,
			MaxAdvanceDays:  cfg.Request.MaxAdvanceDays,
			BackdateMaxDays: cfg.Request.BackdateMaxDays,
		},
	)
	shiftSvc := shiftService.NewShiftService(repos.tx, clk, repos.shifts)
	dashboardSvc := dashboardService.NewDashboardService(repos.dashboard, ledger, clk)

	router := appHTTP.NewRouter(JWTService, logger, cfg.App.AllowedOrigins, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Request:    appHTTP.NewRequestHandler(requestSvc),
		Leave:      appHTTP.NewLeaveHandler(ledger, clk),
		Shift:      appHTTP.NewShiftHandler(shiftSvc, clk),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
		Events:     appHTTP.NewEventsHandler(hub),
	})

	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler()
		cron.NewLeaveJobs(ledger, repos.users, clk, policy.Accrual).RegisterJobs(scheduler)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Open event streams end when the process is signalled.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	}()

	slog.Info("Server running", "addr", "http://localhost"+server.Addr, "storage", cfg.Database.Driver)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
	}
}
