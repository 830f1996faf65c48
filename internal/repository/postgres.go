package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/statement-parser/constants"
	"github.com/joseph-ayodele/statement-parser/internal/common"
	"github.com/joseph-ayodele/statement-parser/internal/entity"
)

// PoolConfig mirrors the pgx pool knobs exposed through configuration.
type PoolConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS statements (
	id               UUID PRIMARY KEY,
	filename         TEXT NOT NULL,
	bank             TEXT NOT NULL,
	due_date         TEXT NOT NULL,
	last_4_digits    TEXT NOT NULL,
	credit_limit     TEXT NOT NULL,
	available_credit TEXT NOT NULL,
	statement_date   TEXT NOT NULL,
	parsed_at        TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL,
	file_hash        TEXT NOT NULL UNIQUE,
	raw_text         TEXT
);
CREATE INDEX IF NOT EXISTS idx_statements_bank ON statements(bank);
CREATE INDEX IF NOT EXISTS idx_statements_parsed_at ON statements(parsed_at);
`

// OpenPostgres creates a pgx pool and ensures the statements schema exists.
func OpenPostgres(ctx context.Context, cfg PoolConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database config", "error", err)
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "statement-parser"

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, common.WrapError(err, "init postgres schema")
	}
	logger.Info("postgres store ready")
	return pool, nil
}

// PostgresRepository stores statements in Postgres through a pgx pool.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgresRepository(pool *pgxpool.Pool, logger *slog.Logger) *PostgresRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRepository{pool: pool, logger: logger}
}

func (r *PostgresRepository) FindByHash(ctx context.Context, fileHash string) (*entity.StatementRecord, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+statementColumns+` FROM statements WHERE file_hash = $1`, fileHash)
	return scanPgStatement(row)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.StatementRecord, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+statementColumns+` FROM statements WHERE id = $1`, id)
	return scanPgStatement(row)
}

func (r *PostgresRepository) InsertOrGet(ctx context.Context, rec *entity.StatementRecord) (*entity.StatementRecord, bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO statements (`+statementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (file_hash) DO NOTHING`,
		rec.ID, rec.Filename, string(rec.Bank),
		rec.DueDate, rec.Last4Digits, rec.CreditLimit, rec.AvailableCredit, rec.StatementDate,
		rec.ParsedAt.UTC(), rec.UpdatedAt.UTC(), rec.FileHash, rec.RawText,
	)
	if err != nil {
		r.logger.Error("failed to insert statement", "file_hash", rec.FileHash, "error", err)
		return nil, false, common.WrapError(err, "insert statement")
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.FindByHash(ctx, rec.FileHash)
		if err != nil {
			return nil, false, fmt.Errorf("resolve %w: %v", common.ErrConflict, err)
		}
		return existing, true, nil
	}
	return rec, false, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*entity.StatementRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+statementColumns+` FROM statements ORDER BY parsed_at DESC`)
	if err != nil {
		return nil, common.WrapError(err, "list statements")
	}
	defer rows.Close()

	var out []*entity.StatementRecord
	for rows.Next() {
		rec, err := scanPgStatement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateFields(ctx context.Context, id uuid.UUID, patch entity.FieldPatch) (*entity.StatementRecord, error) {
	sets, args := pgPatchAssignments(patch)
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)+1))
	args = append(args, time.Now().UTC())
	args = append(args, id)

	tag, err := r.pool.Exec(ctx,
		`UPDATE statements SET `+strings.Join(sets, ", ")+fmt.Sprintf(` WHERE id = $%d`, len(args)), args...)
	if err != nil {
		r.logger.Error("failed to update statement", "id", id, "error", err)
		return nil, common.WrapError(err, "update statement")
	}
	if tag.RowsAffected() == 0 {
		return nil, common.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM statements WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete statement", "id", id, "error", err)
		return common.WrapError(err, "delete statement")
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanPgStatement(row pgx.Row) (*entity.StatementRecord, error) {
	var (
		rec     entity.StatementRecord
		bank    string
		rawText *string
	)
	err := row.Scan(&rec.ID, &rec.Filename, &bank,
		&rec.DueDate, &rec.Last4Digits, &rec.CreditLimit, &rec.AvailableCredit, &rec.StatementDate,
		&rec.ParsedAt, &rec.UpdatedAt, &rec.FileHash, &rawText)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "scan statement")
	}
	// kept verbatim so overlay-introduced bank ids round-trip
	rec.Bank = constants.Bank(bank)
	rec.RawText = rawText
	return &rec, nil
}

func pgPatchAssignments(patch entity.FieldPatch) ([]string, []any) {
	var sets []string
	var args []any
	add := func(col string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("filename", patch.Filename)
	add("due_date", patch.DueDate)
	add("last_4_digits", patch.Last4Digits)
	add("credit_limit", patch.CreditLimit)
	add("available_credit", patch.AvailableCredit)
	add("statement_date", patch.StatementDate)
	return sets, args
}
