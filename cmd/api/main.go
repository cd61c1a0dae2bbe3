package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/karyaprima/payroll-backend-go/internal/config"
	appHTTP "github.com/karyaprima/payroll-backend-go/internal/handler/http"
	"github.com/karyaprima/payroll-backend-go/internal/pkg/cron"
	"github.com/karyaprima/payroll-backend-go/internal/pkg/database"
	"github.com/karyaprima/payroll-backend-go/internal/pkg/mekari"
	"github.com/karyaprima/payroll-backend-go/internal/repository/postgresql"
	"github.com/karyaprima/payroll-backend-go/internal/service/importer"
	"github.com/karyaprima/payroll-backend-go/internal/service/payroll"
	"github.com/karyaprima/payroll-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)

	calculator := payroll.NewCalculator(cfg.Payroll)
	mekariClient := mekari.NewClient(cfg.Mekari)
	importService := importer.NewImportService(attendanceRepo, calculator, mekariClient,
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		})
	reportService := report.NewReportService(attendanceRepo, cfg.Payroll)

	attendanceHandler := appHTTP.NewAttendanceHandler(reportService, importService, cfg)
	router := appHTTP.NewRouter(cfg, attendanceHandler)

	if cfg.Fetch.Enabled {
		scheduler := cron.NewScheduler()
		cron.NewAttendanceJobs(importService, cfg).RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
