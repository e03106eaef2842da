package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mmdatafocus/crm_backend/config"
	"github.com/mmdatafocus/crm_backend/importsync"
	"github.com/mmdatafocus/crm_backend/models"
)

// import-trigger queues an import run for a staged payload object, or
// replays a failed run.
func main() {
	payloadObject := flag.String("object", "", "Payload object in the import bucket")
	dryRun := flag.Bool("dry-run", false, "Compare only, write nothing")
	retryRun := flag.Uint("retry", 0, "Retry the given failed or partial run id")
	flag.Parse()

	if strings.TrimSpace(*payloadObject) == "" && *retryRun == 0 {
		fmt.Fprintln(os.Stderr, "--object or --retry is required")
		os.Exit(1)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	var run *models.ImportRun
	var err error
	if *retryRun > 0 {
		run, err = importsync.RetryImportRun(ctx, *retryRun)
	} else {
		run, err = importsync.TriggerImportRun(ctx, strings.TrimSpace(*payloadObject), models.ImportTriggeredManual, *dryRun)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "queueing run: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("queued import run %d (dry_run=%v, object=%s)\n", run.ID, run.DryRun, run.PayloadObject)
}
