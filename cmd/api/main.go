package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aydinsahin81/gts-attendance-go/internal/config"
	appHTTP "github.com/aydinsahin81/gts-attendance-go/internal/handler/http"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/cron"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/database"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/jwt"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/sse"
	"github.com/aydinsahin81/gts-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/aydinsahin81/gts-attendance-go/internal/service/attendance"
	reportService "github.com/aydinsahin81/gts-attendance-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	recordRepo := postgresql.NewRecordRepository(db)
	personnelRepo := postgresql.NewPersonnelRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	branchRepo := postgresql.NewBranchRepository(db)

	loc := cfg.Location()
	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(db, recordRepo, personnelRepo, shiftRepo, hub, loc, time.Now)
	reportSvc := reportService.NewReportService(recordRepo, personnelRepo, loc, time.Now)

	scheduler := cron.NewScheduler()
	cron.NewSweepJobs(recordRepo, hub, loc, time.Now).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	registryHandler := appHTTP.NewRegistryHandler(shiftRepo, personnelRepo, branchRepo)
	streamHandler := appHTTP.NewStreamHandler(JWTService, hub)

	router := appHTTP.NewRouter(
		cfg,
		JWTService,
		attendanceHandler,
		reportHandler,
		registryHandler,
		streamHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
