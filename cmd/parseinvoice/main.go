// parseinvoice runs the invoice text parser against a file of OCR output and
// prints the extraction as JSON. The supplier catalog comes from the
// database, or from a JSON file when -catalog is given.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/diegomarmat/chela-suppliers/internal/common"
	"github.com/diegomarmat/chela-suppliers/internal/ocr"
	"github.com/diegomarmat/chela-suppliers/internal/repository"
)

type catalogFile struct {
	Suppliers []ocr.KnownSupplier `json:"suppliers"`
}

func main() {
	catalogPath := flag.String("catalog", "", "JSON file with the supplier catalog (skips the database)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: parseinvoice [-catalog suppliers.json] <ocr-text-file>")
		os.Exit(2)
	}

	text, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("reading input: %v", err)
	}

	var suppliers []ocr.KnownSupplier
	if *catalogPath != "" {
		suppliers, err = loadCatalogFile(*catalogPath)
	} else {
		suppliers, err = loadCatalogFromDB()
	}
	if err != nil {
		log.Fatalf("loading supplier catalog: %v", err)
	}

	result := ocr.ParseInvoiceText(string(text), suppliers)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("encoding result: %v", err)
	}
}

func loadCatalogFile(path string) ([]ocr.KnownSupplier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cf catalogFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return cf.Suppliers, nil
}

func loadCatalogFromDB() ([]ocr.KnownSupplier, error) {
	_ = godotenv.Load()
	cfg := common.LoadConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Database.DSN,
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    cfg.Database.MinConns,
		DialTimeout: cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	defer db.Close(logger)

	active, err := repository.NewSupplierRepository(db, logger).ListActive(ctx)
	if err != nil {
		return nil, err
	}
	suppliers := make([]ocr.KnownSupplier, len(active))
	for i, s := range active {
		suppliers[i] = ocr.KnownSupplier{ShortName: s.ShortName, CompanyName: s.CompanyName}
	}
	return suppliers, nil
}
