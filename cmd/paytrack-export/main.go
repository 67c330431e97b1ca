// paytrack-export filters the payments workbook from the command line and
// writes the matching records to a new workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"paytrack/internal/config"
	applog "paytrack/internal/log"
	"paytrack/internal/report"
	"paytrack/internal/store/xlsx"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent("paytrack-export")
	applog.SetDefault(logger)

	cfg := config.Load()

	var (
		in      = flag.String("in", cfg.RecordsFile, "source workbook")
		out     = flag.String("out", "payments_filtered.xlsx", "destination workbook")
		from    = flag.String("from", "", "start date (YYYY-MM-DD, inclusive)")
		to      = flag.String("to", "", "end date (YYYY-MM-DD, inclusive)")
		client  = flag.String("client", "", "exact client filter")
		service = flag.String("service", "", "exact service filter")
	)
	flag.Parse()

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("Failed to resolve timezone", "error", err, "timezone", cfg.Timezone)
		os.Exit(1)
	}

	fromDate, err := parseDateFlag(*from, loc)
	if err != nil {
		logger.Error("Invalid -from date", "error", err, "value", *from)
		os.Exit(1)
	}
	toDate, err := parseDateFlag(*to, loc)
	if err != nil {
		logger.Error("Invalid -to date", "error", err, "value", *to)
		os.Exit(1)
	}

	ctx := context.Background()
	st := xlsx.NewStore(*in, cfg.SheetName, loc)
	records, err := st.Load(ctx)
	if err != nil {
		logger.Error("Failed to load workbook", "error", err, "path", *in)
		os.Exit(1)
	}

	filtered := report.Filter(records, fromDate, toDate, *client, *service)
	exporter := xlsx.Exporter{Sheet: cfg.SheetName}
	if err := exporter.ExportFile(ctx, filtered, *out); err != nil {
		logger.Error("Failed to write export", "error", err, "path", *out)
		os.Exit(1)
	}

	kpis := report.Summarize(filtered, time.Now().In(loc))
	fmt.Printf("exported %d of %d records to %s (total $%.2f)\n",
		len(filtered), len(records), *out, kpis.Total.Dollars())
}

func parseDateFlag(v string, loc *time.Location) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", v, loc)
}
