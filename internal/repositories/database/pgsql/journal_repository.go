package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/finbooks/bookkeeping_app/internal/apperrors"
	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/finbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/finbooks/bookkeeping_app/internal/models"
	"github.com/finbooks/bookkeeping_app/internal/utils/mapping"
	"github.com/finbooks/bookkeeping_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// NewJournalRepository creates a new repository for journal entry data.
func NewJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

const journalColumns = `journal_id, company_id, journal_date, memo, reference, status, void_reason, deleted_at, created_at, created_by, last_updated_at, last_updated_by`

// SaveJournal persists a journal entry and its lines atomically.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // No-op once committed.

	m := mapping.ToModelJournalEntry(entry)
	journalQuery := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, journalQuery,
		m.JournalID, m.CompanyID, m.JournalDate, m.Memo, m.Reference,
		m.Status, m.VoidReason, m.DeletedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal "+m.JournalID, classifyError(err))
	}

	if err := insertLines(ctx, tx, entry.Lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindJournalByID retrieves a journal entry with its lines.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`

	m, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal "+journalID, classifyError(err))
	}

	entry := mapping.ToDomainJournalEntry(m)
	lines, err := r.findLinesByJournalIDs(ctx, []string{journalID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[journalID]
	return &entry, nil
}

// FindJournalsByIDs retrieves multiple journal entries with their lines.
func (r *PgxJournalRepository) FindJournalsByIDs(ctx context.Context, journalIDs []string) (map[string]domain.JournalEntry, error) {
	if len(journalIDs) == 0 {
		return map[string]domain.JournalEntry{}, nil
	}

	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, journalIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journals by IDs", classifyError(err))
	}
	defer rows.Close()

	entries := make(map[string]domain.JournalEntry, len(journalIDs))
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal row", err)
		}
		entries[m.JournalID] = mapping.ToDomainJournalEntry(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal rows", classifyError(err))
	}

	lines, err := r.findLinesByJournalIDs(ctx, journalIDs)
	if err != nil {
		return nil, err
	}
	for id, entry := range entries {
		entry.Lines = lines[id]
		entries[id] = entry
	}
	return entries, nil
}

// QueryJournals retrieves entries matching the filter using token pagination.
// Ordering is pinned to (journal_date ASC, created_at ASC, journal_id ASC):
// reconciliation and report consumers depend on it being stable.
func (r *PgxJournalRepository) QueryJournals(ctx context.Context, filter portsrepo.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journals j
		WHERE company_id = $1
	`
	args := []any{filter.CompanyID}

	if !filter.IncludeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		query += ` AND journal_date >= $` + strconv.Itoa(len(args))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		query += ` AND journal_date <= $` + strconv.Itoa(len(args))
	}
	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		query += ` AND EXISTS (SELECT 1 FROM journal_lines l WHERE l.journal_id = j.journal_id AND l.account_id = $` + strconv.Itoa(len(args)) + `)`
	}
	if nextToken != nil {
		afterDate, afterCreated, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, errors.Join(apperrors.ErrValidation, err)
		}
		args = append(args, afterDate, afterCreated)
		query += ` AND (journal_date, created_at) > ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, limit+1) // Fetch one extra row to detect another page.
	query += `
		ORDER BY journal_date ASC, created_at ASC, journal_id ASC
		LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journals", classifyError(err))
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, limit)
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal row", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal rows", classifyError(err))
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.JournalDate, last.CreatedAt)
		token = &t
	}

	if len(entries) > 0 {
		ids := make([]string, len(entries))
		for i, entry := range entries {
			ids[i] = entry.JournalID
		}
		lines, err := r.findLinesByJournalIDs(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		for i := range entries {
			entries[i].Lines = lines[entries[i].JournalID]
		}
	}

	return entries, token, nil
}

// UpdateJournalStatus transitions an entry's status after re-reading the row
// under a lock. The expected-status guard keeps concurrent callers from
// racing the state machine into a lost update.
func (r *PgxJournalRepository) UpdateJournalStatus(ctx context.Context, journalID string, expectedStatus, newStatus domain.JournalStatus, voidReason string, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var currentStatus string
	var deletedAt *time.Time
	err = tx.QueryRow(ctx,
		`SELECT status, deleted_at FROM journals WHERE journal_id = $1 FOR UPDATE;`,
		journalID,
	).Scan(&currentStatus, &deletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock journal "+journalID, classifyError(err))
	}
	if deletedAt != nil {
		return apperrors.ErrNotFound
	}
	if currentStatus != string(expectedStatus) {
		return errors.Join(apperrors.ErrInvalidStateTransition,
			errors.New("journal "+journalID+" is "+currentStatus+", expected "+string(expectedStatus)))
	}

	var reason sql.NullString
	if voidReason != "" {
		reason = sql.NullString{String: voidReason, Valid: true}
	}
	_, err = tx.Exec(ctx, `
		UPDATE journals
		SET status = $2, void_reason = COALESCE($3, void_reason), last_updated_at = $4, last_updated_by = $5
		WHERE journal_id = $1;
	`, journalID, string(newStatus), reason, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of journal "+journalID, classifyError(err))
	}

	return r.Commit(ctx, tx)
}

// UpdateJournal updates the header fields and replaces the lines of an entry.
func (r *PgxJournalRepository) UpdateJournal(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelJournalEntry(entry)
	tag, err := tx.Exec(ctx, `
		UPDATE journals
		SET journal_date = $2, memo = $3, reference = $4, last_updated_at = $5, last_updated_by = $6
		WHERE journal_id = $1 AND deleted_at IS NULL;
	`, m.JournalID, m.JournalDate, m.Memo, m.Reference, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journal "+m.JournalID, classifyError(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE journal_id = $1;`, m.JournalID); err != nil {
		return apperrors.NewAppError(500, "failed to clear lines of journal "+m.JournalID, classifyError(err))
	}
	if err := insertLines(ctx, tx, entry.Lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SoftDeleteJournal stamps deleted_at on an entry.
func (r *PgxJournalRepository) SoftDeleteJournal(ctx context.Context, journalID string, userID string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE journals
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE journal_id = $1 AND deleted_at IS NULL;
	`, journalID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete journal "+journalID, classifyError(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// findLinesByJournalIDs loads lines for a set of journals, grouped by journal
// ID, in insertion (line_no) order.
func (r *PgxJournalRepository) findLinesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.JournalLine, error) {
	query := `
		SELECT line_id, journal_id, account_id, debit, credit, memo
		FROM journal_lines
		WHERE journal_id = ANY($1)
		ORDER BY journal_id, line_no;
	`
	rows, err := r.Pool.Query(ctx, query, journalIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", classifyError(err))
	}
	defer rows.Close()

	lines := make(map[string][]domain.JournalLine)
	for rows.Next() {
		var m models.JournalLine
		if err := rows.Scan(&m.LineID, &m.JournalID, &m.AccountID, &m.Debit, &m.Credit, &m.Memo); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line row", err)
		}
		lines[m.JournalID] = append(lines[m.JournalID], mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal line rows", classifyError(err))
	}
	return lines, nil
}

// insertLines batch-inserts journal lines, preserving slice order via line_no.
func insertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO journal_lines (line_id, journal_id, account_id, debit, credit, memo, line_no)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for i, line := range lines {
		m := mapping.ToModelJournalLine(line)
		batch.Queue(query, m.LineID, m.JournalID, m.AccountID, m.Debit, m.Credit, m.Memo, i)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert journal lines", classifyError(err))
	}
	return nil
}

func scanJournal(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	var reference, voidReason sql.NullString
	err := row.Scan(
		&m.JournalID, &m.CompanyID, &m.JournalDate, &m.Memo, &reference,
		&m.Status, &voidReason, &m.DeletedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	m.Reference = reference.String
	m.VoidReason = voidReason.String
	return m, err
}
