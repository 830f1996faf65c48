package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/statement-parser/constants"
)

// stubRunner fakes pdftoppm and tesseract. The pdftoppm call writes empty
// PNG files next to the output prefix; each tesseract call returns the text
// configured for its page (or an error).
type stubRunner struct {
	pages      map[string]string // base image name -> recognized text
	pageErrs   map[string]error  // base image name -> recognition error
	renderErr  error
	renderN    int // pages to render on the pdftoppm call
	calls      [][]string
	renderArgs []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	switch name {
	case "pdftoppm":
		s.renderArgs = args
		if s.renderErr != nil {
			return nil, []byte("Syntax Error: couldn't read xref table"), s.renderErr
		}
		prefix := args[len(args)-1]
		for i := 1; i <= s.renderN; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), nil, 0o600); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		img := filepath.Base(args[0])
		if err := s.pageErrs[img]; err != nil {
			return nil, []byte("Error in pixReadStream"), err
		}
		return []byte(s.pages[img]), nil, nil
	default:
		return nil, nil, fmt.Errorf("unexpected command %q", name)
	}
}

func newTestExtractor(cfg Config, r Runner) *Extractor {
	return NewExtractor(cfg, nil).WithRunner(r)
}

func TestExtractConcatenatesPages(t *testing.T) {
	stub := &stubRunner{
		renderN: 2,
		pages: map[string]string{
			"page-1.png": "HDFC Bank Statement\n",
			"page-2.png": "Payment Due Date 28/06/2019\n",
		},
	}
	e := newTestExtractor(Config{}, stub)
	assert.Equal(t, constants.PipelineOCR, e.Name())

	text, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "HDFC Bank Statement\n"+PageSeparator+"Payment Due Date 28/06/2019", text)

	// one render call plus one tesseract call per page
	require.Len(t, stub.calls, 3)
	assert.Equal(t, []string{"-r", "300", "-png"}, stub.renderArgs[:3])
}

func TestExtractPageLimitAndTesseractArgs(t *testing.T) {
	stub := &stubRunner{
		renderN: 3,
		pages: map[string]string{
			"page-1.png": "one",
			"page-2.png": "two",
			"page-3.png": "three",
		},
	}
	e := newTestExtractor(Config{
		DPI:         150,
		MaxPages:    3,
		PSM:         6,
		TessdataDir: "/usr/share/tessdata",
	}, stub)

	_, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, []string{"-r", "150", "-png", "-f", "1", "-l", "3"}, stub.renderArgs[:7])

	tess := stub.calls[1]
	require.Equal(t, "tesseract", tess[0])
	assert.Equal(t, "stdout", tess[2])
	assert.Contains(t, tess, "-l")
	assert.Contains(t, tess, "eng")
	assert.Contains(t, tess, "--psm")
	assert.Contains(t, tess, "6")
	assert.Contains(t, tess, "--tessdata-dir")
	assert.Contains(t, tess, "/usr/share/tessdata")
}

func TestExtractSkipsFailedPage(t *testing.T) {
	stub := &stubRunner{
		renderN: 3,
		pages: map[string]string{
			"page-1.png": "first page",
			"page-3.png": "third page",
		},
		pageErrs: map[string]error{
			"page-2.png": errors.New("exit status 1"),
		},
	}
	e := newTestExtractor(Config{}, stub)

	text, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "first page"+PageSeparator+"third page", text)
}

func TestExtractAllPagesFailed(t *testing.T) {
	stub := &stubRunner{
		renderN: 1,
		pageErrs: map[string]error{
			"page-1.png": errors.New("exit status 1"),
		},
	}
	e := newTestExtractor(Config{}, stub)

	text, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractRenderFailure(t *testing.T) {
	stub := &stubRunner{renderErr: errors.New("exit status 3")}
	e := newTestExtractor(Config{}, stub)

	_, err := e.Extract(context.Background(), []byte("not a pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render pages")
}

func TestExtractNoPagesRendered(t *testing.T) {
	stub := &stubRunner{renderN: 0}
	e := newTestExtractor(Config{}, stub)

	_, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pages rendered")
}
