package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/statement-parser/constants"
	"github.com/joseph-ayodele/statement-parser/internal/bank"
	"github.com/joseph-ayodele/statement-parser/internal/common"
	"github.com/joseph-ayodele/statement-parser/internal/ocr"
	"github.com/joseph-ayodele/statement-parser/internal/pdftext"
	"github.com/joseph-ayodele/statement-parser/internal/pipeline"
	"github.com/joseph-ayodele/statement-parser/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dbPath   = flag.String("db", ":memory:", "sqlite database path (\":memory:\" parses without persisting)")
		profiles = flag.String("profiles", "", "optional JSON bank profiles file")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		printError("Usage: parse-statement [flags] <statement.pdf> [more.pdf ...]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	_ = godotenv.Load()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	ctx := context.Background()

	repo, err := repository.OpenSQLite(ctx, *dbPath, logger)
	if err != nil {
		printError("Error: open database: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close()

	profileSet, err := bank.LoadProfiles(*profiles, logger)
	if err != nil {
		printError("Error: load profiles: %v\n", err)
		os.Exit(1)
	}
	registry, err := bank.NewRegistry(profileSet, logger)
	if err != nil {
		printError("Error: compile profiles: %v\n", err)
		os.Exit(1)
	}

	parser := pipeline.NewParser(
		pdftext.NewAdapter(logger),
		ocr.NewExtractor(ocr.Config{
			Pdftoppm:      cfg.OCR.Pdftoppm,
			Tesseract:     cfg.OCR.Tesseract,
			TesseractLang: cfg.OCR.TesseractLang,
			TessdataDir:   cfg.OCR.TessdataDir,
			DPI:           cfg.OCR.DPI,
			MaxPages:      cfg.OCR.MaxPages,
			PSM:           cfg.OCR.PSM,
		}, logger),
		registry, repo,
		pipeline.Options{OCRTimeout: cfg.OCR.Timeout, KeepRawText: false},
		logger,
	)

	docs := make([]pipeline.Document, 0, flag.NArg())
	for _, path := range flag.Args() {
		if !constants.IsAllowedExt(filepath.Ext(path)) {
			printError("Error: %s: only PDF files are supported\n", path)
			os.Exit(1)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			printError("Error: read %s: %v\n", path, err)
			os.Exit(1)
		}
		docs = append(docs, pipeline.Document{Filename: filepath.Base(path), Data: data})
	}

	start := time.Now()
	outcomes := parser.ParseBatch(ctx, docs, cfg.Parser.Workers)

	failed := 0
	for _, o := range outcomes {
		fmt.Println("============================================================")
		fmt.Printf("File:             %s\n", o.Filename)
		if o.Err != nil {
			failed++
			fmt.Printf("Error:            %v\n", o.Err)
			continue
		}
		r := o.Record
		fmt.Printf("Bank:             %s\n", r.Bank)
		fmt.Printf("Due Date:         %s\n", r.DueDate)
		fmt.Printf("Last 4 Digits:    %s\n", r.Last4Digits)
		fmt.Printf("Credit Limit:     %s\n", r.CreditLimit)
		fmt.Printf("Available Credit: %s\n", r.AvailableCredit)
		fmt.Printf("Statement Date:   %s\n", r.StatementDate)
	}
	fmt.Println("============================================================")
	fmt.Printf("Parsed %d of %d documents in %s\n", len(outcomes)-failed, len(outcomes), time.Since(start).Round(time.Millisecond))
	if failed > 0 {
		os.Exit(1)
	}
}
