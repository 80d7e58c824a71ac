package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/openfuid/fuid-registry/pkg/catalog"
	"github.com/openfuid/fuid-registry/pkg/importer"
)

func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	source := fs.String("source", "", "adapter ID to import (e.g. aws-marketplace)")
	all := fs.Bool("all", false, "import all available sources")
	dataFile := fs.String("data", "fuid_data.json", "catalog data file")
	reportDir := fs.String("report-dir", ".", "directory for import reports")
	fs.Parse(args)

	// Open source DB and seed defaults.
	sourcesDBPath := filepath.Join(filepath.Dir(*dataFile), "sources.db")
	sdb, err := importer.OpenSourceDB(sourcesDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening sources.db: %v\n", err)
		os.Exit(1)
	}
	defer sdb.Close()

	if err := sdb.Seed(importer.All()); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding sources: %v\n", err)
		os.Exit(1)
	}

	if !*all && *source == "" {
		fmt.Println("Available sources:")
		fmt.Println()
		sources, _ := sdb.ListSources()
		for _, src := range sources {
			status := ""
			if src.LastStatus != nil {
				status = fmt.Sprintf("  [%d]", *src.LastStatus)
			}
			fmt.Printf("  %-20s  %s  (%s)%s\n", src.AdapterID, src.Description, src.Platform, status)
		}
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  fuid-registry import --source <id> [--data <file>]")
		fmt.Println("  fuid-registry import --all [--data <file>]")
		return
	}

	store, err := catalog.Open(*dataFile, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening catalog: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	if *all {
		for _, a := range importer.All() {
			if err := runImport(ctx, a, sdb, store, *reportDir); err != nil {
				fmt.Fprintf(os.Stderr, "[%s] ERROR: %v\n", a.ID(), err)
			}
		}
		return
	}

	a, err := importer.Get(*source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Println("\nAvailable sources:")
		for _, a := range importer.All() {
			fmt.Printf("  %s\n", a.ID())
		}
		os.Exit(1)
	}

	if err := runImport(ctx, a, sdb, store, *reportDir); err != nil {
		fmt.Fprintf(os.Stderr, "[%s] ERROR: %v\n", a.ID(), err)
		os.Exit(1)
	}
}

func runImport(ctx context.Context, a importer.Adapter, sdb *importer.SourceDB, store *catalog.Store, reportDir string) error {
	url, err := sdb.GetURL(a.ID())
	if err != nil {
		return err
	}

	fmt.Printf("[%s] Importing from %s...\n", a.ID(), url)
	report, err := a.Import(ctx, url, store)
	if err != nil {
		return err
	}

	if err := importer.WriteReport(reportDir, report); err != nil {
		return err
	}

	fmt.Printf("[%s] OK: %d rows, %d new, %d existing, %d skipped\n",
		a.ID(), report.Rows, report.Registered, report.Existing, report.Skipped)
	return nil
}
