package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mmdatafocus/crm_backend/config"
	"github.com/mmdatafocus/crm_backend/importsync"
	"github.com/mmdatafocus/crm_backend/reconcile"
)

// import-compare runs a dry comparison of a staged payload against the
// store and writes nothing. Use it to preview what a real run would do.
func main() {
	payloadFile := flag.String("payload", "", "Local payload file (JSON)")
	payloadObject := flag.String("object", "", "Payload object in the import bucket")
	outFile := flag.String("out", "", "Optional: write the full report to this xlsx file")
	flag.Parse()

	if strings.TrimSpace(*payloadFile) == "" && strings.TrimSpace(*payloadObject) == "" {
		fmt.Fprintln(os.Stderr, "--payload or --object is required")
		os.Exit(1)
	}

	ctx := context.Background()

	var raw []byte
	var err error
	if strings.TrimSpace(*payloadFile) != "" {
		raw, err = os.ReadFile(strings.TrimSpace(*payloadFile))
	} else {
		raw, err = config.DownloadObject(ctx, strings.TrimSpace(*payloadObject))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading payload: %v\n", err)
		os.Exit(1)
	}

	doc, err := importsync.DecodePayload(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decoding payload: %v\n", err)
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	snapshot, err := importsync.LoadSnapshot(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading snapshot: %v\n", err)
		os.Exit(1)
	}

	engine := reconcile.NewEngine(reconcile.DefaultConfig(), config.GetLogger())
	report := engine.Compare(ctx, doc.Collections(), snapshot)

	printSummary(report)

	if strings.TrimSpace(*outFile) != "" {
		if err := reconcile.WriteComparisonWorkbook(report, strings.TrimSpace(*outFile)); err != nil {
			fmt.Fprintf(os.Stderr, "writing report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("report written to %s\n", strings.TrimSpace(*outFile))
	}
}

func printSummary(report *reconcile.ComparisonReport) {
	fmt.Printf("%-10s %6s %8s %10s %9s\n", "entity", "new", "updated", "unchanged", "orphaned")
	printLine("account", len(report.Accounts.New), len(report.Accounts.Updated), len(report.Accounts.Unchanged), len(report.Accounts.Orphaned))
	printLine("contact", len(report.Contacts.New), len(report.Contacts.Updated), len(report.Contacts.Unchanged), len(report.Contacts.Orphaned))
	printLine("jobsite", len(report.Jobsites.New), len(report.Jobsites.Updated), len(report.Jobsites.Unchanged), len(report.Jobsites.Orphaned))
	printLine("estimate", len(report.Estimates.New), len(report.Estimates.Updated), len(report.Estimates.Unchanged), len(report.Estimates.Orphaned))
	fmt.Printf("warnings: %d\n", len(report.Warnings))
	for _, w := range report.Warnings {
		fmt.Printf("  [%s] %s\n", w.Code, w.Message)
	}
}

func printLine(entity string, newCount, updated, unchanged, orphaned int) {
	fmt.Printf("%-10s %6d %8d %10d %9d\n", entity, newCount, updated, unchanged, orphaned)
}
