package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/statement-parser/constants"
	"github.com/joseph-ayodele/statement-parser/internal/entity"
	"github.com/joseph-ayodele/statement-parser/internal/normalize"
)

func parseID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.repo.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	if recs == nil {
		recs = []*entity.StatementRecord{}
	}
	s.respond(w, http.StatusOK, envelope{Success: true, Data: recs})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Error: "invalid statement id"})
		return
	}
	rec, err := s.repo.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, envelope{Success: true, Data: rec})
}

// handleUpdate applies field-level edits. It never re-runs parsing, and the
// bank classification and content hash are immutable: requests naming them
// are rejected.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Error: "invalid statement id"})
		return
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Error: "invalid json body"})
		return
	}
	for _, immutable := range []string{"bank", "file_hash", "id", "parsed_at", "updated_at"} {
		if _, present := body[immutable]; present {
			s.respond(w, http.StatusBadRequest, envelope{
				Success: false,
				Error:   fmt.Sprintf("field %q is immutable", immutable),
			})
			return
		}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var patch entity.FieldPatch
	if err := json.Unmarshal(raw, &patch); err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Error: "invalid patch body"})
		return
	}
	if patch.Empty() {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Error: "no editable fields in body"})
		return
	}
	if err := normalizePatch(&patch); err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Error: err.Error()})
		return
	}

	rec, err := s.repo.UpdateFields(r.Context(), id, patch)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, envelope{Success: true, Data: rec, Message: "statement updated"})
}

// normalizePatch canonicalizes the extracted-field edits in place, so a
// stored record only ever holds normalized values or the not-found sentinel.
// The sentinel itself is a legal edit (clearing a bad extraction); filename
// is free-form and passes through.
func normalizePatch(patch *entity.FieldPatch) error {
	canon := func(f constants.Field, v *string) error {
		if v == nil || *v == constants.NotFound {
			return nil
		}
		n, ok := normalize.Field(f, *v)
		if !ok {
			return fmt.Errorf("invalid value for %s: %q", f, *v)
		}
		*v = n
		return nil
	}
	if err := canon(constants.FieldDueDate, patch.DueDate); err != nil {
		return err
	}
	if err := canon(constants.FieldLast4Digits, patch.Last4Digits); err != nil {
		return err
	}
	if err := canon(constants.FieldCreditLimit, patch.CreditLimit); err != nil {
		return err
	}
	if err := canon(constants.FieldAvailableCredit, patch.AvailableCredit); err != nil {
		return err
	}
	return canon(constants.FieldStatementDate, patch.StatementDate)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Error: "invalid statement id"})
		return
	}
	if err := s.repo.Delete(r.Context(), id); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, envelope{Success: true, Message: "statement deleted"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var from, to *time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			s.respond(w, http.StatusBadRequest, envelope{Success: false, Error: "invalid from date, use YYYY-MM-DD"})
			return
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			s.respond(w, http.StatusBadRequest, envelope{Success: false, Error: "invalid to date, use YYYY-MM-DD"})
			return
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}

	data, err := s.exporter.ExportStatementsXLSX(r.Context(), from, to)
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="statements.xlsx"`)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("failed to write export response", "error", err)
	}
}
