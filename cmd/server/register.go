package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/openfuid/fuid-registry/pkg/catalog"
)

func cmdRegister(args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	company := fs.String("company", "", "company display name (required)")
	product := fs.String("product", "", "product display name (required)")
	version := fs.String("version", "", "version string (empty means no version)")
	url := fs.String("url", "", "product listing URL")
	platform := fs.String("platform", "", "platform (e.g. AWS, Azure)")
	categories := fs.String("categories", "", "comma-separated categories")
	dataFile := fs.String("data", "fuid_data.json", "catalog data file")
	fs.Parse(args)

	if *company == "" || *product == "" {
		fmt.Fprintln(os.Stderr, "Error: --company and --product are required")
		fs.Usage()
		os.Exit(1)
	}

	store, err := catalog.Open(*dataFile, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening catalog: %v\n", err)
		os.Exit(1)
	}

	result, err := store.Register(catalog.RegisterRequest{
		Company:    *company,
		Product:    *product,
		Version:    *version,
		URL:        *url,
		Platform:   *platform,
		Categories: *categories,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}
