package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ppiankov/aksara/internal/model"
)

// PreviewLength is the number of leading characters of a text kept with its record
const PreviewLength = 30

// ErrNotFound is returned when no scan has the requested id
var ErrNotFound = errors.New("scan not found")

// Store persists scan aggregates in sqlite. The analysed text itself is never
// stored: only its digest, a short preview and the per-segment breakdown,
// which the janitor purges after a grace period.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and applies the schema.
// ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create store dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Digest returns the hex SHA-256 of text
func Digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Preview returns the first PreviewLength characters of text
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= PreviewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:PreviewLength]) + "..."
}

// Save persists a report. An empty ID is replaced with a new UUID; a zero
// ScannedAt is set to the current time. text is used only for the digest
// and preview.
func (s *Store) Save(ctx context.Context, report *model.Report, text string) error {
	if report == nil || report.Result == nil {
		return errors.New("save: report has no result")
	}

	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.ScannedAt.IsZero() {
		report.ScannedAt = s.now()
	}
	if report.Digest == "" {
		report.Digest = Digest(text)
	}
	report.Preview = Preview(text)

	res := report.Result
	counts, err := json.Marshal(res.Counts)
	if err != nil {
		return fmt.Errorf("encode counts: %w", err)
	}
	opinions, err := json.Marshal(res.Opinions)
	if err != nil {
		return fmt.Errorf("encode opinions: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
INSERT INTO scans (id, subject, source, digest, preview, words, oracle, probability, status,
    burstiness, perplexity, token_count, counts, citation_percentage, opinions, humanity,
    partial, ai_source, scanned_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.Subject, report.Source, report.Digest, report.Preview, report.Words,
		report.Oracle, res.Probability, string(res.Status), res.Burstiness, res.GlobalLoss,
		res.TokenCount, string(counts), res.CitationPercentage, string(opinions),
		res.HumanityBonus, boolInt(res.PartiallyAnalyzed), res.AISource,
		report.ScannedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO segments (scan_id, idx, text, words, language, is_citation, loss, score, skipped, noise, category)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare segments: %w", err)
	}
	defer stmt.Close()

	for _, seg := range res.Segments {
		var loss sql.NullFloat64
		if seg.Loss != nil {
			loss = sql.NullFloat64{Float64: *seg.Loss, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			report.ID, seg.Index, seg.Text, seg.Words, string(seg.Language),
			boolInt(seg.IsCitation), loss, seg.Score, boolInt(seg.Skipped),
			boolInt(seg.Noise), seg.Category,
		); err != nil {
			return fmt.Errorf("insert segment %d: %w", seg.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const selectScan = `
SELECT id, subject, source, digest, preview, words, oracle, probability, status,
    burstiness, perplexity, token_count, counts, citation_percentage, opinions, humanity,
    partial, ai_source, scanned_at
FROM scans`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*model.Report, error) {
	var (
		r                model.Report
		res              model.ScanResult
		status           string
		counts, opinions string
		partial          int
		scannedAt        int64
	)

	if err := row.Scan(
		&r.ID, &r.Subject, &r.Source, &r.Digest, &r.Preview, &r.Words, &r.Oracle,
		&res.Probability, &status, &res.Burstiness, &res.GlobalLoss, &res.TokenCount,
		&counts, &res.CitationPercentage, &opinions, &res.HumanityBonus,
		&partial, &res.AISource, &scannedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(counts), &res.Counts); err != nil {
		return nil, fmt.Errorf("decode counts: %w", err)
	}
	if err := json.Unmarshal([]byte(opinions), &res.Opinions); err != nil {
		return nil, fmt.Errorf("decode opinions: %w", err)
	}

	res.Status = model.Status(status)
	res.PartiallyAnalyzed = partial != 0
	r.ScannedAt = time.Unix(0, scannedAt).UTC()
	r.Result = &res

	return &r, nil
}

// Get returns the scan with the given id, including its segments if they
// have not been purged yet
func (s *Store) Get(ctx context.Context, id string) (*model.Report, error) {
	report, err := scanReport(s.db.QueryRowContext(ctx, selectScan+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get scan: %w", err)
	}

	segments, err := s.segments(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Result.Segments = segments

	return report, nil
}

func (s *Store) segments(ctx context.Context, id string) ([]model.Segment, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT idx, text, words, language, is_citation, loss, score, skipped, noise, category
FROM segments WHERE scan_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var segments []model.Segment
	for rows.Next() {
		var (
			seg                      model.Segment
			language                 string
			citation, skipped, noise int
			loss                     sql.NullFloat64
		)
		if err := rows.Scan(&seg.Index, &seg.Text, &seg.Words, &language, &citation,
			&loss, &seg.Score, &skipped, &noise, &seg.Category); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		seg.Language = model.Language(language)
		seg.IsCitation = citation != 0
		seg.Skipped = skipped != 0
		seg.Noise = noise != 0
		if loss.Valid {
			v := loss.Float64
			seg.Loss = &v
		}
		segments = append(segments, seg)
	}

	return segments, rows.Err()
}

// List returns the most recent scans without segments, newest first.
// limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]*model.Report, error) {
	query := selectScan + " ORDER BY scanned_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var reports []*model.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("list scans: %w", err)
		}
		reports = append(reports, r)
	}

	return reports, rows.Err()
}

// Delete removes one scan and its segments
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM segments WHERE scan_id = ?", id); err != nil {
		return fmt.Errorf("delete segments: %w", err)
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM scans WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete scan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Clear removes every scan and returns how many were deleted
func (s *Store) Clear(ctx context.Context) (int64, error) {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM segments"); err != nil {
		return 0, fmt.Errorf("clear segments: %w", err)
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM scans")
	if err != nil {
		return 0, fmt.Errorf("clear scans: %w", err)
	}
	return res.RowsAffected()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
