package importer

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openfuid/fuid-registry/pkg/catalog"
	"github.com/openfuid/fuid-registry/pkg/fuid"
)

func tempStore(t *testing.T) *catalog.Store {
	t.Helper()
	s, err := catalog.Open(filepath.Join(t.TempDir(), "data.json"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestImportCSV(t *testing.T) {
	csvData := `companyName,rawProductName,version,url,categories
Amazon,Elastic Compute Cloud,2023,https://aws.example.com/ec2,Compute
Amazon,Simple Storage Service,,https://aws.example.com/s3,Storage
Microsoft,Azure Devops Server v20.1,,https://azure.example.com/devops,DevOps
,Orphan Product,,,
Amazon,Elastic Compute Cloud,2023,https://aws.example.com/ec2,Compute
`
	store := tempStore(t)
	a := &marketplaceAdapter{id: "aws-marketplace", platform: "AWS"}
	report := &Report{AdapterID: a.id, Platform: a.platform}

	if err := a.importCSV(context.Background(), strings.NewReader(csvData), store, report); err != nil {
		t.Fatalf("importCSV: %v", err)
	}

	if report.Rows != 5 {
		t.Errorf("Rows = %d, want 5", report.Rows)
	}
	if report.Registered != 3 {
		t.Errorf("Registered = %d, want 3", report.Registered)
	}
	if report.Existing != 1 {
		t.Errorf("Existing = %d, want 1", report.Existing)
	}
	if report.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", report.Skipped)
	}

	// Version column takes priority; empty version falls back to extraction.
	snap := store.Snapshot()
	var s3, devops fuid.Entry
	snap.Each(func(_ string, e fuid.Entry) bool {
		switch e.Product {
		case "Simple Storage Service":
			s3 = e
		case "Azure Devops Server v20.1":
			devops = e
		}
		return true
	})
	if s3.Version != "NA" {
		t.Errorf("S3 version = %q, want NA (no version anywhere)", s3.Version)
	}
	if devops.Version != "20.1" {
		t.Errorf("Devops version = %q, want 20.1 (extracted from name)", devops.Version)
	}
	if s3.Platform != "AWS" {
		t.Errorf("Platform = %q, want AWS", s3.Platform)
	}
}

func TestImportCSV_AlternateHeaders(t *testing.T) {
	csvData := `vendor,title
Acme Corp,Rocket Sled 3000
`
	store := tempStore(t)
	a := &marketplaceAdapter{id: "gcp-marketplace", platform: "GCP"}
	report := &Report{}

	if err := a.importCSV(context.Background(), strings.NewReader(csvData), store, report); err != nil {
		t.Fatalf("importCSV: %v", err)
	}
	if report.Registered != 1 {
		t.Errorf("Registered = %d, want 1", report.Registered)
	}
}

func TestImportCSV_MissingColumns(t *testing.T) {
	csvData := `foo,bar
a,b
`
	store := tempStore(t)
	a := &marketplaceAdapter{id: "aws-marketplace", platform: "AWS"}

	err := a.importCSV(context.Background(), strings.NewReader(csvData), store, &Report{})
	if err == nil {
		t.Fatal("expected error for missing company/product columns")
	}
}

func TestDecodeCharset(t *testing.T) {
	a := &marketplaceAdapter{charset: "windows-1252"}

	// 0xE9 is é in windows-1252.
	raw := []byte("Soci\xe9t\xe9 G\xe9n\xe9rale")
	r, err := a.decodeCharset(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("decodeCharset: %v", err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if got := string(decoded); got != "Société Générale" {
		t.Errorf("decoded = %q, want Société Générale", got)
	}
}

func TestDecodeCharset_Unknown(t *testing.T) {
	a := &marketplaceAdapter{charset: "no-such-charset"}
	if _, err := a.decodeCharset(strings.NewReader("x")); err == nil {
		t.Fatal("expected error for unknown charset")
	}
}
