// Package pipeline coordinates the parsing core: both text pipelines, bank
// detection, field extraction, normalization, reconciliation and the
// duplicate guard.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/statement-parser/constants"
	"github.com/joseph-ayodele/statement-parser/internal/bank"
	"github.com/joseph-ayodele/statement-parser/internal/common"
	"github.com/joseph-ayodele/statement-parser/internal/entity"
	"github.com/joseph-ayodele/statement-parser/internal/extract"
	"github.com/joseph-ayodele/statement-parser/internal/normalize"
	"github.com/joseph-ayodele/statement-parser/internal/reconcile"
	"github.com/joseph-ayodele/statement-parser/internal/repository"
)

// Options tune per-document behavior.
type Options struct {
	// OCRTimeout bounds the OCR pipeline per document. On expiry the OCR
	// text is treated as empty and reconciliation degrades to text-only.
	OCRTimeout time.Duration
	// KeepRawText stores the winning pipeline's text on the record for
	// diagnostics and later re-parsing.
	KeepRawText bool
}

// Parser runs the full statement parsing flow for one document at a time.
// Documents share no mutable state; a single Parser is safe for concurrent use.
type Parser struct {
	text     extract.TextSource
	ocr      extract.TextSource
	registry *bank.Registry
	repo     repository.StatementRepository
	opts     Options
	logger   *slog.Logger
}

func NewParser(text, ocr extract.TextSource, registry *bank.Registry, repo repository.StatementRepository, opts Options, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{text: text, ocr: ocr, registry: registry, repo: repo, opts: opts, logger: logger}
}

// Parse ingests one statement document: extract text over both pipelines,
// detect the bank, extract and normalize fields per pipeline, reconcile, and
// persist behind the duplicate guard. Re-submitting identical bytes returns
// the previously stored record without re-parsing.
func (p *Parser) Parse(ctx context.Context, data []byte, filename string) (*entity.StatementRecord, error) {
	if len(data) == 0 {
		return nil, common.NewAppError("EMPTY_INPUT", "no document bytes", common.ErrInvalidInput)
	}

	sum := sha256.Sum256(data)
	hashHex := hex.EncodeToString(sum[:])
	log := p.logger.With("filename", filename, "file_hash", hashHex[:12])

	// duplicate guard, fast path: identical bytes were parsed before
	if existing, err := p.repo.FindByHash(ctx, hashHex); err == nil {
		log.Info("duplicate content, returning existing record", "id", existing.ID)
		return existing, nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	textOut, ocrOut, err := p.extractBoth(ctx, data, log)
	if err != nil {
		return nil, err
	}

	detectSource := textOut
	if detectSource == "" {
		detectSource = ocrOut
	}
	bankID, profile := p.registry.Detect(detectSource)
	log.Info("bank detected", "bank", bankID)

	textRes := p.extractFields(profile, textOut, constants.PipelineText)
	ocrRes := p.extractFields(profile, ocrOut, constants.PipelineOCR)

	final, diags := reconcile.Merge(textRes, ocrRes, log)
	if len(diags) > 0 {
		log.Warn("pipelines disagreed on fields", "count", len(diags))
	}

	now := time.Now().UTC()
	rec := &entity.StatementRecord{
		ID:        uuid.New(),
		Filename:  filename,
		Bank:      bankID,
		ParsedAt:  now,
		UpdatedAt: now,
		FileHash:  hashHex,
	}
	for field, value := range final {
		rec.SetField(field, value)
	}
	if p.opts.KeepRawText {
		raw := textOut
		if raw == "" {
			raw = ocrOut
		}
		if raw != "" {
			rec.RawText = &raw
		}
	}

	stored, dedup, err := p.repo.InsertOrGet(ctx, rec)
	if err != nil {
		return nil, err
	}
	if dedup {
		// a concurrent submission of the same bytes won the insert
		log.Info("concurrent duplicate resolved", "id", stored.ID)
	} else {
		log.Info("statement stored", "id", stored.ID, "bank", stored.Bank)
	}
	return stored, nil
}

// extractBoth runs the two pipelines independently. Only when both error is
// the document unreadable; a single failed or empty pipeline degrades to the
// other one.
func (p *Parser) extractBoth(ctx context.Context, data []byte, log *slog.Logger) (textOut, ocrOut string, err error) {
	textOut, textErr := p.text.Extract(ctx, data)
	if textErr != nil {
		log.Warn("text pipeline failed", "error", textErr)
	}

	ocrCtx := ctx
	if p.opts.OCRTimeout > 0 {
		var cancel context.CancelFunc
		ocrCtx, cancel = context.WithTimeout(ctx, p.opts.OCRTimeout)
		defer cancel()
	}
	ocrOut, ocrErr := p.ocr.Extract(ocrCtx, data)
	if ocrErr != nil {
		// A timed-out OCR run is not a document failure: fall back to
		// text-only. The expiry is read off the context, not the returned
		// error, because a killed subprocess surfaces as an exec error.
		if errors.Is(ocrCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			log.Warn("ocr pipeline timed out", "timeout", p.opts.OCRTimeout)
			ocrOut, ocrErr = "", nil
		} else {
			log.Warn("ocr pipeline failed", "error", ocrErr)
		}
	}

	if textErr != nil && ocrErr != nil {
		return "", "", fmt.Errorf("%w: text: %v; ocr: %v", common.ErrExtractionFailure, textErr, ocrErr)
	}
	return textOut, ocrOut, nil
}

// extractFields runs one pipeline's text through the extraction engine and
// the normalizer. With no detected profile it degrades to best-effort mode
// across every configured profile.
func (p *Parser) extractFields(profile *bank.Profile, text string, source constants.Pipeline) entity.ExtractionResult {
	res := entity.NewExtractionResult(source)
	if text == "" {
		return res
	}

	var raw map[constants.Field]string
	if profile != nil {
		raw = p.registry.Extract(profile, text)
	} else {
		raw = p.registry.ExtractBestEffort(text)
	}

	for field, rawValue := range raw {
		normalized, ok := normalize.Field(field, rawValue)
		res.Fields[field] = entity.FieldValue{
			Raw:        rawValue,
			Normalized: normalized,
			Source:     source,
			Valid:      ok,
		}
		if !ok {
			p.logger.Debug("normalization rejected value",
				"field", field, "raw", rawValue, "source", source)
		}
	}
	return res
}
