package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/statement-parser/constants"
	"github.com/joseph-ayodele/statement-parser/internal/common"
	"github.com/joseph-ayodele/statement-parser/internal/entity"
)

// fakeRepo serves the statement CRUD handlers from a map.
type fakeRepo struct {
	byID map[uuid.UUID]*entity.StatementRecord
}

func newFakeRepo(recs ...*entity.StatementRecord) *fakeRepo {
	f := &fakeRepo{byID: make(map[uuid.UUID]*entity.StatementRecord)}
	for _, rec := range recs {
		f.byID[rec.ID] = rec
	}
	return f
}

func (f *fakeRepo) FindByHash(context.Context, string) (*entity.StatementRecord, error) {
	return nil, common.ErrNotFound
}

func (f *fakeRepo) InsertOrGet(_ context.Context, rec *entity.StatementRecord) (*entity.StatementRecord, bool, error) {
	f.byID[rec.ID] = rec
	return rec, false, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.StatementRecord, error) {
	if rec, ok := f.byID[id]; ok {
		return rec, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeRepo) List(context.Context) ([]*entity.StatementRecord, error) {
	out := make([]*entity.StatementRecord, 0, len(f.byID))
	for _, rec := range f.byID {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeRepo) UpdateFields(_ context.Context, id uuid.UUID, patch entity.FieldPatch) (*entity.StatementRecord, error) {
	rec, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if patch.Filename != nil {
		rec.Filename = *patch.Filename
	}
	if patch.DueDate != nil {
		rec.DueDate = *patch.DueDate
	}
	if patch.Last4Digits != nil {
		rec.Last4Digits = *patch.Last4Digits
	}
	if patch.CreditLimit != nil {
		rec.CreditLimit = *patch.CreditLimit
	}
	if patch.AvailableCredit != nil {
		rec.AvailableCredit = *patch.AvailableCredit
	}
	if patch.StatementDate != nil {
		rec.StatementDate = *patch.StatementDate
	}
	rec.UpdatedAt = time.Now().UTC()
	return rec, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func sampleRecord() *entity.StatementRecord {
	now := time.Now().UTC()
	return &entity.StatementRecord{
		ID:              uuid.New(),
		Filename:        "statement.pdf",
		Bank:            constants.BankHDFC,
		DueDate:         "2019-06-28",
		Last4Digits:     "0591",
		CreditLimit:     "302000",
		AvailableCredit: "256760.00",
		StatementDate:   "2019-06-08",
		ParsedAt:        now,
		UpdatedAt:       now,
		FileHash:        "deadbeef",
	}
}

func newTestServer(repo *fakeRepo) http.Handler {
	return New(nil, repo, nil, 10, 2, nil).Router()
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr, env
}

func TestHealth(t *testing.T) {
	rr, env := doJSON(t, newTestServer(newFakeRepo()), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Success)
}

func TestGetStatement(t *testing.T) {
	rec := sampleRecord()
	h := newTestServer(newFakeRepo(rec))

	rr, env := doJSON(t, h, http.MethodGet, "/statements/"+rec.ID.String(), "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Success)

	rr, env = doJSON(t, h, http.MethodGet, "/statements/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, env.Success)

	rr, _ = doJSON(t, h, http.MethodGet, "/statements/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListStatementsEmpty(t *testing.T) {
	rr, _ := doJSON(t, newTestServer(newFakeRepo()), http.MethodGet, "/statements/", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	// empty list serializes as [], not null
	assert.Contains(t, rr.Body.String(), `"data":[]`)
}

func TestUpdateStatement(t *testing.T) {
	rec := sampleRecord()
	h := newTestServer(newFakeRepo(rec))

	rr, env := doJSON(t, h, http.MethodPut, "/statements/"+rec.ID.String(),
		`{"due_date": "2019-07-05", "filename": "corrected.pdf"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "2019-07-05", rec.DueDate)
	assert.Equal(t, "corrected.pdf", rec.Filename)
}

// Edits are canonicalized before storage: a record never holds a raw value.
func TestUpdateStatementNormalizesValues(t *testing.T) {
	rec := sampleRecord()
	h := newTestServer(newFakeRepo(rec))

	rr, env := doJSON(t, h, http.MethodPut, "/statements/"+rec.ID.String(),
		`{"due_date": "5/7/2019", "credit_limit": "Rs 3,02,000.00", "last_4_digits": "591"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "2019-07-05", rec.DueDate)
	assert.Equal(t, "302000.00", rec.CreditLimit)
	assert.Equal(t, "0591", rec.Last4Digits)

	// the sentinel clears a bad extraction
	rr, _ = doJSON(t, h, http.MethodPut, "/statements/"+rec.ID.String(),
		`{"statement_date": "NOT_FOUND"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, constants.NotFound, rec.StatementDate)
}

func TestUpdateStatementRejectsRawGarbage(t *testing.T) {
	rec := sampleRecord()
	h := newTestServer(newFakeRepo(rec))

	for _, body := range []string{
		`{"due_date": "not a date"}`,
		`{"credit_limit": "1.2.3"}`,
		`{"last_4_digits": "12345"}`,
		`{"due_date": "2019-07-05", "available_credit": "N/A"}`,
	} {
		rr, env := doJSON(t, h, http.MethodPut, "/statements/"+rec.ID.String(), body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.False(t, env.Success)
	}
	// nothing was applied
	assert.Equal(t, "2019-06-28", rec.DueDate)
	assert.Equal(t, "302000", rec.CreditLimit)
}

func TestUpdateStatementImmutableFields(t *testing.T) {
	rec := sampleRecord()
	h := newTestServer(newFakeRepo(rec))

	for _, body := range []string{
		`{"bank": "ICICI"}`,
		`{"file_hash": "cafebabe"}`,
		`{"id": "` + uuid.NewString() + `"}`,
		`{"due_date": "2019-07-05", "bank": "ICICI"}`,
	} {
		rr, env := doJSON(t, h, http.MethodPut, "/statements/"+rec.ID.String(), body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.False(t, env.Success)
	}
	// nothing was applied, not even the valid part of a mixed request
	assert.Equal(t, constants.BankHDFC, rec.Bank)
	assert.Equal(t, "2019-06-28", rec.DueDate)
}

func TestUpdateStatementEmptyBody(t *testing.T) {
	rec := sampleRecord()
	h := newTestServer(newFakeRepo(rec))

	rr, _ := doJSON(t, h, http.MethodPut, "/statements/"+rec.ID.String(), `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = doJSON(t, h, http.MethodPut, "/statements/"+rec.ID.String(), `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteStatement(t *testing.T) {
	rec := sampleRecord()
	repo := newFakeRepo(rec)
	h := newTestServer(repo)

	rr, _ := doJSON(t, h, http.MethodDelete, "/statements/"+rec.ID.String(), "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, repo.byID)

	rr, _ = doJSON(t, h, http.MethodDelete, "/statements/"+rec.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
