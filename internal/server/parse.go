package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/joseph-ayodele/statement-parser/constants"
	"github.com/joseph-ayodele/statement-parser/internal/pipeline"
)

// uploads are held in memory up to this size before spilling to disk
const maxUploadMemory = 32 << 20

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if !constants.IsAllowedExt(filepath.Ext(fh.Filename)) {
		return nil, fmt.Errorf("unsupported file type: %s", fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) handleParseSingle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Error: "invalid multipart form"})
		return
	}
	file, fh, err := r.FormFile("file")
	if err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Error: "missing file field"})
		return
	}
	defer file.Close()

	if !constants.IsAllowedExt(filepath.Ext(fh.Filename)) {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Error: "only PDF files are allowed"})
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, err)
		return
	}

	rec, err := s.parser.Parse(r.Context(), data, fh.Filename)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, envelope{Success: true, Data: rec, Message: "statement parsed"})
}

type batchItem struct {
	Filename string `json:"filename"`
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) handleParseMultiple(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Error: "invalid multipart form"})
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Error: "missing files field"})
		return
	}
	if len(files) > s.maxBatchSize {
		s.respond(w, http.StatusBadRequest, envelope{
			Success: false,
			Error:   fmt.Sprintf("maximum %d files allowed", s.maxBatchSize),
		})
		return
	}

	docs := make([]pipeline.Document, 0, len(files))
	readErrs := make(map[int]error)
	for i, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			readErrs[i] = err
			data = nil
		}
		docs = append(docs, pipeline.Document{Filename: fh.Filename, Data: data})
	}

	outcomes := s.parser.ParseBatch(r.Context(), docs, s.workers)

	items := make([]batchItem, len(outcomes))
	for i, o := range outcomes {
		items[i] = batchItem{Filename: o.Filename}
		if err, bad := readErrs[i]; bad {
			items[i].Error = err.Error()
			continue
		}
		if o.Err != nil {
			items[i].Error = o.Err.Error()
			continue
		}
		items[i].Success = true
		items[i].Data = o.Record
	}
	s.respond(w, http.StatusOK, envelope{Success: true, Data: items})
}
