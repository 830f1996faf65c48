package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/statement-parser/constants"
)

// PageSeparator marks page boundaries in concatenated OCR output.
const PageSeparator = "\n\f\n"

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI, default 300
	MaxPages      int    // 0 = no limit

	TessdataDir string
	PSM         int // e.g., 6 is good for uniform block of text
	OEM         int // 1 = LSTM; leave 0 to use default
}

// Extractor is the OCR text pipeline: rasterize each PDF page with pdftoppm,
// recognize each image with tesseract, concatenate page text in order.
//
// A page whose recognition fails is skipped, never failing the document; if
// every page fails the result is empty text. Only an unrenderable document
// (pdftoppm itself fails) returns an error.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// WithRunner swaps the command runner. Test hook.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

func (e *Extractor) Name() constants.Pipeline {
	return constants.PipelineOCR
}

// Extract writes the statement bytes to a scratch file, renders each page to
// PNG and OCRs the pages in order.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "sp-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove ocr temp dir", "dir", tmpDir, "error", err)
		}
	}()

	src := filepath.Join(tmpDir, "statement.pdf")
	if err := os.WriteFile(src, data, 0o600); err != nil {
		return "", fmt.Errorf("write scratch pdf: %w", err)
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	args := []string{"-r", fmt.Sprintf("%d", e.cfg.DPI), "-png"}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-f", "1", "-l", fmt.Sprintf("%d", e.cfg.MaxPages))
	}
	args = append(args, src, prefix)
	if _, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, args...); err != nil {
		e.logger.Error("pdftoppm failed", "error", err, "stderr", truncate(string(errb), 2<<10))
		return "", fmt.Errorf("render pages: %w", err)
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	skipped := 0
	for _, img := range matches {
		txt, err := e.tesseractOCR(ctx, img)
		if err != nil {
			// unreadable page: skip, keep the rest of the document
			e.logger.Warn("ocr page skipped", "image", filepath.Base(img), "error", err)
			skipped++
			continue
		}
		if b.Len() > 0 {
			b.WriteString(PageSeparator)
		}
		b.WriteString(txt)
	}
	e.logger.Debug("ocr extraction done", "pages", len(matches), "skipped", skipped)
	return strings.TrimSpace(b.String()), nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %s: %w", truncate(string(errb), 512), err)
	}
	return string(out), nil
}
