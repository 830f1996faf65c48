package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/statement-parser/internal/bank"
	"github.com/joseph-ayodele/statement-parser/internal/common"
	"github.com/joseph-ayodele/statement-parser/internal/export"
	"github.com/joseph-ayodele/statement-parser/internal/ocr"
	"github.com/joseph-ayodele/statement-parser/internal/pdftext"
	"github.com/joseph-ayodele/statement-parser/internal/pipeline"
	"github.com/joseph-ayodele/statement-parser/internal/repository"
	"github.com/joseph-ayodele/statement-parser/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		repo    repository.StatementRepository
		cleanup func()
	)
	switch cfg.Database.Backend {
	case "postgres":
		pool, err := repository.OpenPostgres(ctx, repository.PoolConfig{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			logger.Error("failed to open postgres store", "error", err)
			os.Exit(1)
		}
		repo = repository.NewPostgresRepository(pool, logger)
		cleanup = pool.Close
	default:
		sq, err := repository.OpenSQLite(ctx, cfg.Database.Path, logger)
		if err != nil {
			logger.Error("failed to open sqlite store", "error", err)
			os.Exit(1)
		}
		repo = sq
		cleanup = func() { _ = sq.Close() }
	}
	defer cleanup()

	profiles, err := bank.LoadProfiles(cfg.Parser.ProfilesPath, logger)
	if err != nil {
		logger.Error("failed to load bank profiles", "error", err)
		os.Exit(1)
	}
	registry, err := bank.NewRegistry(profiles, logger)
	if err != nil {
		logger.Error("failed to compile bank profiles", "error", err)
		os.Exit(1)
	}

	textAdapter := pdftext.NewAdapter(logger)
	ocrAdapter := ocr.NewExtractor(ocr.Config{
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		PSM:           cfg.OCR.PSM,
	}, logger)

	parser := pipeline.NewParser(textAdapter, ocrAdapter, registry, repo, pipeline.Options{
		OCRTimeout:  cfg.OCR.Timeout,
		KeepRawText: cfg.Parser.KeepRawText,
	}, logger)

	exporter := export.NewService(repo, logger)
	srv := server.New(parser, repo, exporter, cfg.Parser.MaxBatchSize, cfg.Parser.Workers, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr, "db_backend", cfg.Database.Backend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown incomplete", "error", err)
	}
	logger.Info("stopped")
}
