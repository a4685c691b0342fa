package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	painpoint "github.com/Lucas-Song-Dev/RedditPainpoint"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store persists documents, pain points, classifier artifacts and analysis
// runs in SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the SQLite database at path and runs pending
// migrations. Pass ":memory:" for an in-memory database (used by tests).
// A nil logger discards.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// A single connection avoids "database is locked" and keeps an
	// in-memory database alive for the life of the Store.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies the embedded SQL migrations that have not run yet.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
		s.logger.Debug("applied migration", "version", version)
	}
	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// --- Documents ---

// SaveDocuments inserts or replaces docs by id in one transaction.
func (s *Store) SaveDocuments(ctx context.Context, docs []*painpoint.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := saveDocuments(ctx, tx, docs); err != nil {
		return err
	}
	return tx.Commit()
}

func saveDocuments(ctx context.Context, tx *sql.Tx, docs []*painpoint.Document) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, title, body, source, score, num_comments, sentiment, sentiment_label, topics, pain_points, created_at, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			source = excluded.source,
			score = excluded.score,
			num_comments = excluded.num_comments,
			sentiment = excluded.sentiment,
			sentiment_label = excluded.sentiment_label,
			topics = excluded.topics,
			pain_points = excluded.pain_points,
			created_at = excluded.created_at,
			analyzed_at = excluded.analyzed_at`)
	if err != nil {
		return fmt.Errorf("prepare document upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		topics, err := marshalList(doc.Topics)
		if err != nil {
			return err
		}
		painPoints, err := marshalList(doc.PainPoints)
		if err != nil {
			return err
		}

		var sentiment, label, analyzedAt any
		if doc.Sentiment != nil {
			sentiment = doc.Sentiment.Score
			label = string(doc.Sentiment.Label)
			analyzedAt = formatTime(now)
		}
		if _, err := stmt.ExecContext(ctx,
			doc.ID, doc.Title, doc.Body, doc.Source, doc.Score, doc.NumComments,
			sentiment, label, topics, painPoints, formatTime(doc.CreatedAt), analyzedAt,
		); err != nil {
			return fmt.Errorf("upsert document %s: %w", doc.ID, err)
		}
	}
	return nil
}

// ListDocuments returns stored documents matching f, oldest first.
func (s *Store) ListDocuments(ctx context.Context, f DocumentFilter) ([]*painpoint.Document, error) {
	q := sq.Select("id", "title", "body", "source", "score", "num_comments",
		"sentiment", "sentiment_label", "topics", "pain_points", "created_at").
		From("documents").
		OrderBy("created_at ASC", "id ASC")
	if f.Source != "" {
		q = q.Where(sq.Eq{"source": f.Source})
	}
	if f.Label != "" {
		q = q.Where(sq.Eq{"sentiment_label": string(f.Label)})
	}
	if !f.Since.IsZero() {
		q = q.Where(sq.GtOrEq{"created_at": formatTime(f.Since)})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build document query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []*painpoint.Document
	for rows.Next() {
		var (
			row                docRow
			sentiment          sql.NullFloat64
			label, createdAt   sql.NullString
			topics, painPoints string
		)
		if err := rows.Scan(&row.ID, &row.Title, &row.Body, &row.Source, &row.Score, &row.NumComments,
			&sentiment, &label, &topics, &painPoints, &createdAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d := painpoint.NewDocument(row.ID, row.Title, row.Body,
			painpoint.WithSource(row.Source),
			painpoint.WithEngagement(row.Score, row.NumComments))
		if createdAt.Valid {
			t, err := parseTime(createdAt.String)
			if err != nil {
				return nil, fmt.Errorf("document %s: %w", d.ID, err)
			}
			d.CreatedAt = t
		}
		if sentiment.Valid {
			d.Sentiment = &painpoint.Sentiment{Score: sentiment.Float64, Label: painpoint.Label(label.String)}
		}
		if d.Topics, err = unmarshalList(topics); err != nil {
			return nil, fmt.Errorf("document %s topics: %w", d.ID, err)
		}
		if d.PainPoints, err = unmarshalList(painPoints); err != nil {
			return nil, fmt.Errorf("document %s pain points: %w", d.ID, err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// docRow holds the scalar columns of a documents row while scanning.
type docRow struct {
	ID, Title, Body, Source string
	Score, NumComments      int
}

// --- Pain points ---

// UpsertPainPoints writes records by key, replacing any stored record with
// the same key. Records whose key does not parse are skipped and logged; the
// number skipped is returned. SaveBatch merges instead of replacing.
func (s *Store) UpsertPainPoints(ctx context.Context, records []painpoint.PainPointRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	skipped, err := s.upsertPainPoints(ctx, tx, records)
	if err != nil {
		return skipped, err
	}
	return skipped, tx.Commit()
}

func (s *Store) upsertPainPoints(ctx context.Context, tx *sql.Tx, records []painpoint.PainPointRecord) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pain_points (key, category, indicator, product, name, description, frequency, avg_sentiment, severity, related_post_ids, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			category = excluded.category,
			indicator = excluded.indicator,
			product = excluded.product,
			name = excluded.name,
			description = excluded.description,
			frequency = excluded.frequency,
			avg_sentiment = excluded.avg_sentiment,
			severity = excluded.severity,
			related_post_ids = excluded.related_post_ids,
			updated_at = excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("prepare pain point upsert: %w", err)
	}
	defer stmt.Close()

	skipped := 0
	now := formatTime(time.Now())
	for _, rec := range records {
		parsed := painpoint.ParseKey(rec.Key)
		if parsed.Skipped {
			s.logger.Warn("skipping pain point", "key", rec.Key, "reason", parsed.Reason)
			skipped++
			continue
		}
		ids, err := marshalList(rec.RelatedPostIDs)
		if err != nil {
			return skipped, err
		}
		k := parsed.Key
		if _, err := stmt.ExecContext(ctx,
			rec.Key, string(k.Tier), k.Indicator, k.Product, rec.Name, rec.Description,
			rec.Frequency, rec.AvgSentiment, rec.Severity, ids, now,
		); err != nil {
			return skipped, fmt.Errorf("upsert pain point %s: %w", rec.Key, err)
		}
	}
	return skipped, nil
}

var painPointColumns = []string{
	"key", "category", "indicator", "product", "name", "description",
	"frequency", "avg_sentiment", "severity", "related_post_ids",
}

// ListPainPoints returns stored pain points matching f, most severe first.
func (s *Store) ListPainPoints(ctx context.Context, f PainPointFilter) ([]painpoint.PainPointRecord, error) {
	q := sq.Select(painPointColumns...).
		From("pain_points").
		OrderBy("severity DESC", "key ASC")
	if f.Category != "" {
		q = q.Where(sq.Eq{"category": string(f.Category)})
	}
	if f.Product != "" {
		q = q.Where(sq.Eq{"product": f.Product})
	}
	if f.MinSeverity > 0 {
		q = q.Where(sq.GtOrEq{"severity": f.MinSeverity})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pain point query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pain points: %w", err)
	}
	defer rows.Close()

	records := []painpoint.PainPointRecord{}
	for rows.Next() {
		rec, err := scanPainPoint(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetPainPoint returns the pain point stored under key.
func (s *Store) GetPainPoint(ctx context.Context, key string) (painpoint.PainPointRecord, error) {
	return getPainPoint(ctx, s.db, key)
}

func getPainPoint(ctx context.Context, q queryer, key string) (painpoint.PainPointRecord, error) {
	query, args, err := sq.Select(painPointColumns...).
		From("pain_points").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return painpoint.PainPointRecord{}, err
	}
	rec, err := scanPainPoint(q.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return painpoint.PainPointRecord{}, ErrNotFound
	}
	return rec, err
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPainPoint(row scanner) (painpoint.PainPointRecord, error) {
	var (
		rec      painpoint.PainPointRecord
		category string
		product  string
		ids      string
	)
	if err := row.Scan(&rec.Key, &category, &rec.Indicator, &product, &rec.Name, &rec.Description,
		&rec.Frequency, &rec.AvgSentiment, &rec.Severity, &ids); err != nil {
		if err == sql.ErrNoRows {
			return rec, err
		}
		return rec, fmt.Errorf("scan pain point: %w", err)
	}
	rec.Category = painpoint.Tier(category)
	if product != "" {
		rec.Product = &product
	}
	related, err := unmarshalList(ids)
	if err != nil {
		return rec, fmt.Errorf("pain point %s related ids: %w", rec.Key, err)
	}
	rec.RelatedPostIDs = related
	return rec, nil
}

// --- Model artifacts ---

// SaveArtifact stores blob under name, replacing any previous artifact.
func (s *Store) SaveArtifact(ctx context.Context, a Artifact) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO model_artifacts (name, blob, trained_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET blob = excluded.blob, trained_at = excluded.trained_at`,
		a.Name, a.Blob, formatTime(a.TrainedAt))
	if err != nil {
		return fmt.Errorf("save artifact %s: %w", a.Name, err)
	}
	return nil
}

// LoadArtifact returns the artifact stored under name.
func (s *Store) LoadArtifact(ctx context.Context, name string) (Artifact, error) {
	a := Artifact{Name: name}
	var trainedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT blob, trained_at FROM model_artifacts WHERE name = ?`, name,
	).Scan(&a.Blob, &trainedAt)
	if err == sql.ErrNoRows {
		return Artifact{}, ErrNotFound
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("load artifact %s: %w", name, err)
	}
	if a.TrainedAt, err = parseTime(trainedAt); err != nil {
		return Artifact{}, fmt.Errorf("artifact %s: %w", name, err)
	}
	return a, nil
}

// --- Analysis runs ---

// SaveRun stores a batch result under its run id.
func (s *Store) SaveRun(ctx context.Context, result *painpoint.BatchResult) error {
	return saveRun(ctx, s.db, result)
}

func saveRun(ctx context.Context, q queryer, result *painpoint.BatchResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	_, err = q.ExecContext(ctx,
		`INSERT OR REPLACE INTO analysis_runs (id, created_at, result) VALUES (?, ?, ?)`,
		result.RunID, formatTime(result.AnalyzedAt), string(data))
	if err != nil {
		return fmt.Errorf("save run %s: %w", result.RunID, err)
	}
	return nil
}

// SaveBatch persists the outcome of one analysis in a single transaction:
// the scored documents, the pain points and the run itself. It returns the
// number of pain points skipped for malformed keys.
//
// Pain points are merged with what is stored. A stored record keeps the
// posts that are not part of docs; posts in docs count only where result
// lists them. A record left without posts is removed.
func (s *Store) SaveBatch(ctx context.Context, docs []*painpoint.Document, result *painpoint.BatchResult) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	batch := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if doc != nil {
			batch[doc.ID] = true
		}
	}
	// Keys the batch's documents pointed at before this run; a document that
	// no longer matches must drop out of them.
	previous, err := documentPainPoints(ctx, tx, batch)
	if err != nil {
		return 0, err
	}

	if err := saveDocuments(ctx, tx, docs); err != nil {
		return 0, err
	}

	var (
		merged  []painpoint.PainPointRecord
		removed []string
		seen    = make(map[string]bool)
		skipped int
	)
	mergeKey := func(key string, fresh *painpoint.PainPointRecord) error {
		seen[key] = true
		rec, ok, err := mergePainPoint(ctx, tx, key, fresh, batch)
		if err != nil {
			return err
		}
		if ok {
			merged = append(merged, rec)
		} else {
			removed = append(removed, key)
		}
		return nil
	}
	for i := range result.PainPoints {
		rec := &result.PainPoints[i]
		if parsed := painpoint.ParseKey(rec.Key); parsed.Skipped {
			s.logger.Warn("skipping pain point", "key", rec.Key, "reason", parsed.Reason)
			skipped++
			continue
		}
		if err := mergeKey(rec.Key, rec); err != nil {
			return skipped, err
		}
	}
	for _, key := range previous {
		if seen[key] || painpoint.ParseKey(key).Skipped {
			continue
		}
		if err := mergeKey(key, nil); err != nil {
			return skipped, err
		}
	}

	if _, err := s.upsertPainPoints(ctx, tx, merged); err != nil {
		return skipped, err
	}
	if len(removed) > 0 {
		query, args, err := sq.Delete("pain_points").Where(sq.Eq{"key": removed}).ToSql()
		if err != nil {
			return skipped, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return skipped, fmt.Errorf("remove pain points: %w", err)
		}
	}
	if err := saveRun(ctx, tx, result); err != nil {
		return skipped, err
	}
	return skipped, tx.Commit()
}

// mergePainPoint folds the stored record under key with fresh, the record of
// the current batch (nil when the batch no longer produced key). Stored posts
// outside batch are weighted by their stored document sentiment, or by the
// stored average when the document is unknown. It reports false when no post
// is left.
func mergePainPoint(ctx context.Context, tx *sql.Tx, key string, fresh *painpoint.PainPointRecord, batch map[string]bool) (painpoint.PainPointRecord, bool, error) {
	parsed := painpoint.ParseKey(key).Key
	agg := painpoint.NewAggregator()

	current := make(map[string]bool)
	if fresh != nil {
		for _, id := range fresh.RelatedPostIDs {
			current[id] = true
		}
	}

	stored, err := getPainPoint(ctx, tx, key)
	switch {
	case err == ErrNotFound:
	case err != nil:
		return painpoint.PainPointRecord{}, false, err
	default:
		var kept []string
		for _, id := range stored.RelatedPostIDs {
			if !batch[id] && !current[id] {
				kept = append(kept, id)
			}
		}
		sentiments, err := documentSentiments(ctx, tx, kept)
		if err != nil {
			return painpoint.PainPointRecord{}, false, err
		}
		for _, id := range kept {
			score, ok := sentiments[id]
			if !ok {
				score = stored.AvgSentiment
			}
			agg.Add(parsed, id, score)
		}
	}

	if fresh != nil {
		for _, id := range fresh.RelatedPostIDs {
			agg.Add(parsed, id, fresh.AvgSentiment)
		}
	}
	rec, ok := agg.Record(key)
	return rec, ok, nil
}

// documentPainPoints returns the distinct pain point keys stored on the
// documents in ids, sorted.
func documentPainPoints(ctx context.Context, tx *sql.Tx, ids map[string]bool) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	list := make([]string, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	query, args, err := sq.Select("pain_points").From("documents").Where(sq.Eq{"id": list}).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query document pain points: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan document pain points: %w", err)
		}
		touched, err := unmarshalList(raw)
		if err != nil {
			return nil, err
		}
		for _, k := range touched {
			keys[k] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

// documentSentiments returns the stored sentiment of each scored document in
// ids.
func documentSentiments(ctx context.Context, tx *sql.Tx, ids []string) (map[string]float64, error) {
	out := make(map[string]float64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sq.Select("id", "sentiment").
		From("documents").
		Where(sq.And{sq.Eq{"id": ids}, sq.NotEq{"sentiment": nil}}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query document sentiment: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id    string
			score float64
		)
		if err := rows.Scan(&id, &score); err != nil {
			return nil, fmt.Errorf("scan document sentiment: %w", err)
		}
		out[id] = score
	}
	return out, rows.Err()
}

// LatestRun returns the most recently analyzed batch result.
func (s *Store) LatestRun(ctx context.Context) (*painpoint.BatchResult, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT result FROM analysis_runs ORDER BY created_at DESC, rowid DESC LIMIT 1`,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load latest run: %w", err)
	}
	var result painpoint.BatchResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("decode run: %w", err)
	}
	return &result, nil
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(data), nil
}

func unmarshalList(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list, nil
}
