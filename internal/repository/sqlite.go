package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/statement-parser/constants"
	"github.com/joseph-ayodele/statement-parser/internal/common"
	"github.com/joseph-ayodele/statement-parser/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS statements (
	id               TEXT PRIMARY KEY,
	filename         TEXT NOT NULL,
	bank             TEXT NOT NULL,
	due_date         TEXT NOT NULL,
	last_4_digits    TEXT NOT NULL,
	credit_limit     TEXT NOT NULL,
	available_credit TEXT NOT NULL,
	statement_date   TEXT NOT NULL,
	parsed_at        TEXT NOT NULL,
	updated_at       TEXT NOT NULL,
	file_hash        TEXT NOT NULL UNIQUE,
	raw_text         TEXT
);
CREATE INDEX IF NOT EXISTS idx_statements_bank ON statements(bank);
CREATE INDEX IF NOT EXISTS idx_statements_parsed_at ON statements(parsed_at);
`

// SQLiteRepository stores statements in a SQLite database file, or fully in
// memory when opened with ":memory:".
type SQLiteRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (and if needed creates) the statements database.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapError(err, "open sqlite")
	}
	// a single connection keeps ":memory:" stores coherent and serializes
	// the check-then-insert of the duplicate guard
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "init sqlite schema")
	}
	logger.Info("sqlite store ready", "path", path)
	return &SQLiteRepository{db: db, logger: logger}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

const statementColumns = `id, filename, bank, due_date, last_4_digits, credit_limit,
	available_credit, statement_date, parsed_at, updated_at, file_hash, raw_text`

func (r *SQLiteRepository) FindByHash(ctx context.Context, fileHash string) (*entity.StatementRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+statementColumns+` FROM statements WHERE file_hash = ?`, fileHash)
	return scanStatement(row)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.StatementRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+statementColumns+` FROM statements WHERE id = ?`, id.String())
	return scanStatement(row)
}

func (r *SQLiteRepository) InsertOrGet(ctx context.Context, rec *entity.StatementRecord) (*entity.StatementRecord, bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO statements (`+statementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_hash) DO NOTHING`,
		rec.ID.String(), rec.Filename, string(rec.Bank),
		rec.DueDate, rec.Last4Digits, rec.CreditLimit, rec.AvailableCredit, rec.StatementDate,
		rec.ParsedAt.UTC().Format(time.RFC3339Nano), rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
		rec.FileHash, nullableString(rec.RawText),
	)
	if err != nil {
		r.logger.Error("failed to insert statement", "file_hash", rec.FileHash, "error", err)
		return nil, false, common.WrapError(err, "insert statement")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, common.WrapError(err, "insert statement")
	}
	if affected == 0 {
		// lost the race (or re-upload): surface the winner's row
		existing, err := r.FindByHash(ctx, rec.FileHash)
		if err != nil {
			return nil, false, fmt.Errorf("resolve %w: %v", common.ErrConflict, err)
		}
		return existing, true, nil
	}
	return rec, false, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*entity.StatementRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+statementColumns+` FROM statements ORDER BY parsed_at DESC`)
	if err != nil {
		return nil, common.WrapError(err, "list statements")
	}
	defer rows.Close()

	var out []*entity.StatementRecord
	for rows.Next() {
		rec, err := scanStatement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateFields(ctx context.Context, id uuid.UUID, patch entity.FieldPatch) (*entity.StatementRecord, error) {
	sets, args := patchAssignments(patch, "?")
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339Nano), id.String())

	res, err := r.db.ExecContext(ctx,
		`UPDATE statements SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		r.logger.Error("failed to update statement", "id", id, "error", err)
		return nil, common.WrapError(err, "update statement")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, common.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM statements WHERE id = ?`, id.String())
	if err != nil {
		r.logger.Error("failed to delete statement", "id", id, "error", err)
		return common.WrapError(err, "delete statement")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStatement(row rowScanner) (*entity.StatementRecord, error) {
	var (
		rec                 entity.StatementRecord
		idStr, bank         string
		parsedAt, updatedAt string
		rawText             sql.NullString
	)
	err := row.Scan(&idStr, &rec.Filename, &bank,
		&rec.DueDate, &rec.Last4Digits, &rec.CreditLimit, &rec.AvailableCredit, &rec.StatementDate,
		&parsedAt, &updatedAt, &rec.FileHash, &rawText)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "scan statement")
	}

	if rec.ID, err = uuid.Parse(idStr); err != nil {
		return nil, common.WrapError(err, "parse statement id")
	}
	// kept verbatim: profile overlays can introduce bank ids beyond the
	// built-in set, and the stored classification must round-trip
	rec.Bank = constants.Bank(bank)
	if rec.ParsedAt, err = time.Parse(time.RFC3339Nano, parsedAt); err != nil {
		return nil, common.WrapError(err, "parse parsed_at")
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, common.WrapError(err, "parse updated_at")
	}
	if rawText.Valid {
		rec.RawText = &rawText.String
	}
	return &rec, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// patchAssignments renders the non-nil patch members as SET clauses using
// the given placeholder style.
func patchAssignments(patch entity.FieldPatch, placeholder string) ([]string, []any) {
	var sets []string
	var args []any
	add := func(col string, v *string) {
		if v == nil {
			return
		}
		sets = append(sets, fmt.Sprintf("%s = %s", col, placeholder))
		args = append(args, *v)
	}
	add("filename", patch.Filename)
	add("due_date", patch.DueDate)
	add("last_4_digits", patch.Last4Digits)
	add("credit_limit", patch.CreditLimit)
	add("available_credit", patch.AvailableCredit)
	add("statement_date", patch.StatementDate)
	return sets, args
}
