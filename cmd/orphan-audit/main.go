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

// orphan-audit lists store records the given payload no longer vouches for,
// with a provenance guess per record. Read-only.
func main() {
	payloadFile := flag.String("payload", "", "Local payload file (JSON)")
	payloadObject := flag.String("object", "", "Payload object in the import bucket")
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

	total := 0
	fmt.Printf("%-10s %-24s %-40s %-16s %s\n", "entity", "external_id", "internal_id", "provenance", "note")
	for _, o := range report.Accounts.Orphaned {
		printOrphan(reconcile.EntityAccount, o.Record, o.Provenance)
		total++
	}
	for _, o := range report.Contacts.Orphaned {
		printOrphan(reconcile.EntityContact, o.Record, o.Provenance)
		total++
	}
	for _, o := range report.Jobsites.Orphaned {
		printOrphan(reconcile.EntityJobsite, o.Record, o.Provenance)
		total++
	}
	for _, o := range report.Estimates.Orphaned {
		printOrphan(reconcile.EntityEstimate, o.Record, o.Provenance)
		total++
	}
	fmt.Printf("total orphans: %d\n", total)
}

func printOrphan(entity reconcile.EntityType, rec reconcile.Row, p reconcile.Provenance) {
	fmt.Printf("%-10s %-24s %-40s %-16s %s\n", entity, rec.ExternalKey(), rec.InternalKey(), p.Source, p.Note)
}
