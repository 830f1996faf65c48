package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner abstracts the external rasterizer and recognizer binaries so the
// extractor is testable without poppler or tesseract installed.
type Runner interface {
	Run(ctx context.Context, bin string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, bin string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	attrs := []any{
		"bin", bin,
		"args", strings.Join(args, " "),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if runErr != nil {
		attrs = append(attrs, "error", runErr, "stderr", truncate(stderr.String(), 8<<10))
		slog.Error("ocr command failed", attrs...)
	} else {
		attrs = append(attrs, "stdout_bytes", stdout.Len(), "stderr_bytes", stderr.Len())
		slog.Debug("ocr command done", attrs...)
	}
	return stdout.Bytes(), stderr.Bytes(), runErr
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return fmt.Sprintf("%s... (+%d bytes)", s[:limit], len(s)-limit)
}
