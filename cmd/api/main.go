package main

import (
	"fmt"
	"net/http"

	"github.com/workpoint-hq/hr-backend-go/internal/config"
	appHTTP "github.com/workpoint-hq/hr-backend-go/internal/handler/http"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/cron"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/database"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/jwt"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/lock"
	"github.com/workpoint-hq/hr-backend-go/internal/repository/postgresql"
	attendanceService "github.com/workpoint-hq/hr-backend-go/internal/service/attendance"
	"github.com/workpoint-hq/hr-backend-go/internal/service/balance"
	leaveService "github.com/workpoint-hq/hr-backend-go/internal/service/leave"
	notificationService "github.com/workpoint-hq/hr-backend-go/internal/service/notification"
	reconcileService "github.com/workpoint-hq/hr-backend-go/internal/service/reconcile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	txManager := postgresql.NewTxManager(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	penaltyRepo := postgresql.NewPenaltyRepository(db)

	jwtSvc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	calculator := balance.NewCalculator()
	locks := lock.NewKeyedMutex()
	notificationSvc := notificationService.NewLogService()

	attendanceSvc := attendanceService.NewService(attendanceRepo)
	detector := attendanceService.NewIssueDetector(attendanceRepo, leaveRepo, penaltyRepo)
	leaveSvc := leaveService.NewService(txManager, employeeRepo, companyRepo, leaveRepo, calculator, locks)
	autoLeaveSvc := leaveService.NewAutoLeaveService(
		txManager, employeeRepo, companyRepo, leaveRepo, penaltyRepo,
		detector, calculator, locks, notificationSvc,
	)
	reconcileSvc := reconcileService.NewService(
		txManager, employeeRepo, companyRepo, leaveRepo, penaltyRepo,
		calculator, locks, notificationSvc,
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceRepo, notificationSvc, cfg.Jobs.AutoPunchOutGrace).RegisterJobs(scheduler)
	cron.NewLeaveJobs(autoLeaveSvc, cfg.Jobs.AutoLeaveLookbackDays, cfg.Jobs.AutoLeaveDisabled).RegisterJobs(scheduler)
	cron.NewAccrualJobs(employeeRepo, companyRepo, calculator, locks).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	adminHandler := appHTTP.NewAdminHandler(detector, autoLeaveSvc, reconcileSvc, cfg.Jobs.AutoLeaveLookbackDays)

	router := appHTTP.NewRouter(jwtSvc, attendanceHandler, leaveHandler, adminHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
