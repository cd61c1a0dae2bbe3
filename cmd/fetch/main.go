package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/karyaprima/payroll-backend-go/internal/config"
	"github.com/karyaprima/payroll-backend-go/internal/pkg/database"
	"github.com/karyaprima/payroll-backend-go/internal/pkg/mekari"
	"github.com/karyaprima/payroll-backend-go/internal/repository/postgresql"
	"github.com/karyaprima/payroll-backend-go/internal/service/importer"
	"github.com/karyaprima/payroll-backend-go/internal/service/payroll"
)

// One-shot attendance pull for backfills:
//
//	fetch -from 2025-07-01 -to 2025-07-31 [-branch 21089]
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	today := time.Now().Format("2006-01-02")
	from := flag.String("from", today, "start date (YYYY-MM-DD, inclusive)")
	to := flag.String("to", today, "end date (YYYY-MM-DD, inclusive)")
	branch := flag.Int64("branch", cfg.Fetch.DefaultBranchID, "branch id to pull")
	flag.Parse()

	if cfg.Mekari.Username == "" || cfg.Mekari.Secret == "" {
		fmt.Fprintln(os.Stderr, "MEKARI_USERNAME and MEKARI_SECRET are required")
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error connecting to database:", err)
		os.Exit(1)
	}

	importService := importer.NewImportService(
		postgresql.NewAttendanceRepository(db),
		payroll.NewCalculator(cfg.Payroll),
		mekari.NewClient(cfg.Mekari),
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := importService.FetchRange(ctx, *from, *to, *branch)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Fetch failed:", err)
		os.Exit(1)
	}

	fmt.Printf("Import %s done: %d processed, %d skipped\n",
		result.ImportID, result.Processed, result.Skipped)
}
