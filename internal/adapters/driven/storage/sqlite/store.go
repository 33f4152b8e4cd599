package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/hira-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all board store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.hira/data/board.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".hira", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "board.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// PipelineStore returns a PipelineStore interface backed by this store.
func (s *Store) PipelineStore() driven.PipelineStore {
	return &pipelineStore{store: s}
}

// ProposalStore returns a ProposalStore interface backed by this store.
func (s *Store) ProposalStore() driven.ProposalStore {
	return &proposalStore{store: s}
}

// AuditStore returns an AuditStore interface backed by this store.
func (s *Store) AuditStore() driven.AuditStore {
	return &auditStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Pipeline Store ====================

// pipelineStore implements driven.PipelineStore.
type pipelineStore struct {
	store *Store
}

var _ driven.PipelineStore = (*pipelineStore)(nil)

// Insert adds a new item to its stage's ordered list.
func (s *pipelineStore) Insert(ctx context.Context, item domain.PipelineItem, beforeItemID string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	row := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM pipeline_items WHERE id = ?", item.ID)
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("checking item: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, item.ID)
	}

	ids, err := stageOrder(ctx, tx, item.Stage, "")
	if err != nil {
		return err
	}
	ids = insertAt(ids, item.ID, indexOf(ids, beforeItemID))

	annotationsJSON, err := json.Marshal(item.Annotations)
	if err != nil {
		return fmt.Errorf("marshalling annotations: %w", err)
	}

	if item.LastUpdatedAt.IsZero() {
		item.LastUpdatedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pipeline_items (id, candidate_ref, job_ref, organization_ref, stage, position, version, last_updated_at, annotations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.CandidateRef, item.JobRef, item.OrganizationRef,
		string(item.Stage), 0, item.Version, item.LastUpdatedAt, string(annotationsJSON))
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}

	if err := writePositions(ctx, tx, ids); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves an item by ID.
func (s *pipelineStore) Get(ctx context.Context, id string) (*domain.PipelineItem, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, candidate_ref, job_ref, organization_ref, stage, position, version, last_updated_at, annotations
		FROM pipeline_items WHERE id = ?
	`, id)
	return scanItem(row, id)
}

// Move relocates an item in one transaction, guarded by the version
// check. A mismatch between expectedVersion and the stored version
// fails with domain.ErrVersionMismatch and changes nothing.
func (s *pipelineStore) Move(ctx context.Context, id string, targetStage domain.Stage, beforeItemID string, expectedVersion int64) (*domain.PipelineItem, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// The version bump doubles as the compare-and-swap: it runs first so
	// the transaction holds the write lock before anything is read, and
	// zero affected rows means another mover got there first.
	res, err := tx.ExecContext(ctx, `
		UPDATE pipeline_items SET version = version + 1, last_updated_at = ?
		WHERE id = ? AND version = ?
	`, time.Now().UTC(), id, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	if affected == 0 {
		var version int64
		row := tx.QueryRowContext(ctx, "SELECT version FROM pipeline_items WHERE id = ?", id)
		if scanErr := row.Scan(&version); scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
			}
			return nil, fmt.Errorf("reading item: %w", scanErr)
		}
		return nil, fmt.Errorf("%w: item %s is at version %d, caller expected %d",
			domain.ErrVersionMismatch, id, version, expectedVersion)
	}

	var fromStage string
	row := tx.QueryRowContext(ctx, "SELECT stage FROM pipeline_items WHERE id = ?", id)
	if err := row.Scan(&fromStage); err != nil {
		return nil, fmt.Errorf("reading item: %w", err)
	}

	// Target order excluding the moving item, so same-stage reorders
	// and cross-stage moves share one path.
	ids, err := stageOrder(ctx, tx, targetStage, id)
	if err != nil {
		return nil, err
	}
	ids = insertAt(ids, id, indexOf(ids, beforeItemID))

	if _, err := tx.ExecContext(ctx,
		"UPDATE pipeline_items SET stage = ? WHERE id = ?", string(targetStage), id); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	if err := writePositions(ctx, tx, ids); err != nil {
		return nil, err
	}

	if fromStage != string(targetStage) {
		remaining, err := stageOrder(ctx, tx, domain.Stage(fromStage), id)
		if err != nil {
			return nil, err
		}
		if err := writePositions(ctx, tx, remaining); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return s.Get(ctx, id)
}

// ListByStage returns the stage's items ordered by position.
func (s *pipelineStore) ListByStage(ctx context.Context, stage domain.Stage) ([]domain.PipelineItem, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, candidate_ref, job_ref, organization_ref, stage, position, version, last_updated_at, annotations
		FROM pipeline_items WHERE stage = ? ORDER BY position
	`, string(stage))
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []domain.PipelineItem
	for rows.Next() {
		item, err := scanItem(rows, "")
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Delete removes an item and renumbers its stage.
func (s *pipelineStore) Delete(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var stage string
	row := tx.QueryRowContext(ctx, "SELECT stage FROM pipeline_items WHERE id = ?", id)
	if err := row.Scan(&stage); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
		}
		return fmt.Errorf("reading item: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM pipeline_items WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	remaining, err := stageOrder(ctx, tx, domain.Stage(stage), "")
	if err != nil {
		return err
	}
	if err := writePositions(ctx, tx, remaining); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner, id string) (*domain.PipelineItem, error) {
	var item domain.PipelineItem
	var stage, annotationsJSON string
	var lastUpdatedAt sql.NullTime
	err := row.Scan(&item.ID, &item.CandidateRef, &item.JobRef, &item.OrganizationRef,
		&stage, &item.Position, &item.Version, &lastUpdatedAt, &annotationsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("scanning item: %w", err)
	}

	item.Stage = domain.Stage(stage)
	if lastUpdatedAt.Valid {
		item.LastUpdatedAt = lastUpdatedAt.Time
	}
	if err := json.Unmarshal([]byte(annotationsJSON), &item.Annotations); err != nil {
		return nil, fmt.Errorf("unmarshaling annotations: %w", err)
	}
	return &item, nil
}

// stageOrder returns the stage's item IDs ordered by position,
// excluding excludeID when non-empty.
func stageOrder(ctx context.Context, tx *sql.Tx, stage domain.Stage, excludeID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT id FROM pipeline_items WHERE stage = ? AND id != ? ORDER BY position",
		string(stage), excludeID)
	if err != nil {
		return nil, fmt.Errorf("reading stage order: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning stage order: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// writePositions assigns dense positions following slice order.
func writePositions(ctx context.Context, tx *sql.Tx, ids []string) error {
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, "UPDATE pipeline_items SET position = ? WHERE id = ?", i, id); err != nil {
			return fmt.Errorf("writing position: %w", err)
		}
	}
	return nil
}

func indexOf(ids []string, id string) int {
	if id == "" {
		return -1
	}
	for i, existing := range ids {
		if existing == id {
			return i
		}
	}
	return -1
}

func insertAt(ids []string, id string, at int) []string {
	if at < 0 || at >= len(ids) {
		return append(ids, id)
	}
	ids = append(ids, "")
	copy(ids[at+1:], ids[at:])
	ids[at] = id
	return ids
}

// ==================== Proposal Store ====================

// proposalStore implements driven.ProposalStore.
type proposalStore struct {
	store *Store
}

var _ driven.ProposalStore = (*proposalStore)(nil)

// Insert adds a new proposal.
func (s *proposalStore) Insert(ctx context.Context, proposal domain.Proposal) error {
	profileJSON, err := json.Marshal(proposal.Profile)
	if err != nil {
		return fmt.Errorf("marshalling profile: %w", err)
	}

	var exists int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM proposals WHERE id = ?", proposal.ID)
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("checking proposal: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, proposal.ID)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO proposals (id, source_ref, job_ref, organization_ref, profile, expectation, status, received_at, resolved_at, disclosed_item_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, proposal.ID, proposal.SourceRef, proposal.JobRef, proposal.OrganizationRef,
		string(profileJSON), proposal.Expectation, string(proposal.Status),
		proposal.ReceivedAt, nullTime(proposal.ResolvedAt), proposal.DisclosedItemID)
	if err != nil {
		return fmt.Errorf("inserting proposal: %w", err)
	}
	return nil
}

// Get retrieves a proposal by ID.
func (s *proposalStore) Get(ctx context.Context, id string) (*domain.Proposal, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_ref, job_ref, organization_ref, profile, expectation, status, received_at, resolved_at, disclosed_item_id
		FROM proposals WHERE id = ?
	`, id)
	return scanProposal(row, id)
}

// ListPending returns pending proposals, earliest received first.
func (s *proposalStore) ListPending(ctx context.Context) ([]domain.Proposal, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_ref, job_ref, organization_ref, profile, expectation, status, received_at, resolved_at, disclosed_item_id
		FROM proposals WHERE status = ? ORDER BY received_at
	`, string(domain.ProposalPending))
	if err != nil {
		return nil, fmt.Errorf("listing proposals: %w", err)
	}
	defer rows.Close()

	var proposals []domain.Proposal
	for rows.Next() {
		proposal, err := scanProposal(rows, "")
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, *proposal)
	}
	return proposals, rows.Err()
}

// Resolve moves a proposal out of pending in one atomic step.
func (s *proposalStore) Resolve(ctx context.Context, id string, status domain.ProposalStatus, resolvedAt time.Time) (*domain.Proposal, error) {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE proposals SET status = ?, resolved_at = ? WHERE id = ? AND status = ?
	`, string(status), resolvedAt, id, string(domain.ProposalPending))
	if err != nil {
		return nil, fmt.Errorf("resolving proposal: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("resolving proposal: %w", err)
	}
	if affected == 0 {
		// Either missing or already terminal; one more read tells which.
		current, getErr := s.Get(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("%w: proposal %s is already %s", domain.ErrInvalidState, id, current.Status)
	}

	return s.Get(ctx, id)
}

// MarkDisclosed links an accepted proposal to its pipeline item. Only
// accepted proposals carry the link; anything else is rejected here so
// a pending or rejected proposal can never claim an item.
func (s *proposalStore) MarkDisclosed(ctx context.Context, id, itemID string) error {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE proposals SET disclosed_item_id = ? WHERE id = ? AND status = ?",
		itemID, id, string(domain.ProposalAccepted))
	if err != nil {
		return fmt.Errorf("marking proposal disclosed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking proposal disclosed: %w", err)
	}
	if affected == 0 {
		current, getErr := s.Get(ctx, id)
		if getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: proposal %s is %s, not accepted", domain.ErrInvalidState, id, current.Status)
	}
	return nil
}

// AddRejection appends a rejection record.
func (s *proposalStore) AddRejection(ctx context.Context, record domain.RejectionRecord) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO rejection_records (proposal_id, reason, recorded_at) VALUES (?, ?, ?)
	`, record.ProposalID, string(record.Reason), record.RecordedAt)
	if err != nil {
		return fmt.Errorf("inserting rejection record: %w", err)
	}
	return nil
}

// ListRejections returns all rejection records in append order.
func (s *proposalStore) ListRejections(ctx context.Context) ([]domain.RejectionRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT proposal_id, reason, recorded_at FROM rejection_records ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing rejection records: %w", err)
	}
	defer rows.Close()

	var records []domain.RejectionRecord
	for rows.Next() {
		var record domain.RejectionRecord
		var reason string
		var recordedAt sql.NullTime
		if err := rows.Scan(&record.ProposalID, &reason, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning rejection record: %w", err)
		}
		record.Reason = domain.RejectionReason(reason)
		if recordedAt.Valid {
			record.RecordedAt = recordedAt.Time
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanProposal(row scanner, id string) (*domain.Proposal, error) {
	var proposal domain.Proposal
	var profileJSON, status string
	var receivedAt, resolvedAt sql.NullTime
	err := row.Scan(&proposal.ID, &proposal.SourceRef, &proposal.JobRef, &proposal.OrganizationRef,
		&profileJSON, &proposal.Expectation, &status, &receivedAt, &resolvedAt, &proposal.DisclosedItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: proposal %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("scanning proposal: %w", err)
	}

	if err := json.Unmarshal([]byte(profileJSON), &proposal.Profile); err != nil {
		return nil, fmt.Errorf("unmarshaling profile: %w", err)
	}
	proposal.Status = domain.ProposalStatus(status)
	if receivedAt.Valid {
		proposal.ReceivedAt = receivedAt.Time
	}
	if resolvedAt.Valid {
		proposal.ResolvedAt = resolvedAt.Time
	}
	return &proposal, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// ==================== Audit Store ====================

// auditStore implements driven.AuditStore.
type auditStore struct {
	store *Store
}

var _ driven.AuditStore = (*auditStore)(nil)

// Append adds an entry and returns its assigned sequence number.
func (s *auditStore) Append(ctx context.Context, entry domain.AuditEntry) (int64, error) {
	payloadJSON, err := json.Marshal(entry.Payload)
	if err != nil {
		return 0, fmt.Errorf("marshalling payload: %w", err)
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO audit_entries (kind, payload, recorded_at) VALUES (?, ?, ?)
	`, string(entry.Kind), string(payloadJSON), entry.RecordedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting audit entry: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading audit sequence: %w", err)
	}
	return seq, nil
}

// List returns up to limit entries with Seq greater than afterSeq.
// A non-positive limit returns all remaining entries.
func (s *auditStore) List(ctx context.Context, afterSeq int64, limit int) ([]domain.AuditEntry, error) {
	query := "SELECT seq, kind, payload, recorded_at FROM audit_entries WHERE seq > ? ORDER BY seq"
	args := []any{afterSeq}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		var kind, payloadJSON string
		var recordedAt sql.NullTime
		if err := rows.Scan(&entry.Seq, &kind, &payloadJSON, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		entry.Kind = domain.AuditKind(kind)
		if err := json.Unmarshal([]byte(payloadJSON), &entry.Payload); err != nil {
			return nil, fmt.Errorf("unmarshaling payload: %w", err)
		}
		if recordedAt.Valid {
			entry.RecordedAt = recordedAt.Time
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
