package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by GetGeneration for an unknown ID.
var ErrNotFound = errors.New("generation not found")

// Generation is one QR image written to disk.
type Generation struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Content    string `json:"content"`
	Path       string `json:"path"`
	Engine     string `json:"engine"`
	Level      string `json:"level"`
	ModuleSize int    `json:"module_size"`
	Border     int    `json:"border"`
	CreatedAt  int64  `json:"created_at"`
}

// HistoryStore manages SQLite storage for generated QR codes.
type HistoryStore struct {
	db *sql.DB
}

const createGenerationsTable = `
CREATE TABLE IF NOT EXISTS generations (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL DEFAULT 'text',
    content TEXT NOT NULL,
    path TEXT NOT NULL,
    engine TEXT NOT NULL DEFAULT '',
    level TEXT NOT NULL DEFAULT 'H',
    module_size INTEGER NOT NULL DEFAULT 10,
    border INTEGER NOT NULL DEFAULT 4,
    created_at INTEGER NOT NULL
);
`

const createFTSTable = `
CREATE VIRTUAL TABLE IF NOT EXISTS generations_fts USING fts5(
    content,
    path,
    content='generations',
    content_rowid='rowid'
);
`

const createFTSTrigger = `
CREATE TRIGGER IF NOT EXISTS generations_ai AFTER INSERT ON generations BEGIN
    INSERT INTO generations_fts(rowid, content, path)
    VALUES (new.rowid, new.content, new.path);
END;
`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_generations_created_at ON generations(created_at);
CREATE INDEX IF NOT EXISTS idx_generations_kind ON generations(kind);
`

// Open opens (or creates) the SQLite database at dbPath, initialises the
// schema (generations table, FTS5 virtual table, sync trigger), and returns a
// ready-to-use HistoryStore.
func Open(dbPath string) (*HistoryStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range []string{
		createGenerationsTable,
		createFTSTable,
		createFTSTrigger,
		createIndexes,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec schema statement: %w", err)
		}
	}

	return &HistoryStore{db: db}, nil
}

// SaveGeneration inserts a record. Re-saving an existing ID is ignored.
func (s *HistoryStore) SaveGeneration(g *Generation) error {
	const query = `
		INSERT OR IGNORE INTO generations
			(id, kind, content, path, engine, level, module_size, border, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		g.ID,
		g.Kind,
		g.Content,
		g.Path,
		g.Engine,
		g.Level,
		g.ModuleSize,
		g.Border,
		g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save generation: %w", err)
	}
	return nil
}

// GetGeneration returns the record with the given ID.
func (s *HistoryStore) GetGeneration(id string) (*Generation, error) {
	const query = `
		SELECT id, kind, content, path, engine, level, module_size, border, created_at
		FROM generations
		WHERE id = ?
	`

	rows, err := s.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("get generation: %w", err)
	}
	defer rows.Close()

	gens, err := scanGenerations(rows)
	if err != nil {
		return nil, err
	}
	if len(gens) == 0 {
		return nil, ErrNotFound
	}
	return &gens[0], nil
}

// ListGenerations returns records newest first. Use limit and offset for
// pagination.
func (s *HistoryStore) ListGenerations(limit, offset int) ([]Generation, error) {
	const query = `
		SELECT id, kind, content, path, engine, level, module_size, border, created_at
		FROM generations
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	return scanGenerations(rows)
}

// SearchGenerations performs a full-text search across payload content and
// file paths using the FTS5 index. Results are ranked by relevance.
func (s *HistoryStore) SearchGenerations(query string, limit int) ([]Generation, error) {
	// Quote the whole query so FTS5 operators in user input are literal.
	escaped := strings.ReplaceAll(query, `"`, `""`)
	ftsQuery := fmt.Sprintf(`"%s"`, escaped)

	const q = `
		SELECT g.id, g.kind, g.content, g.path, g.engine, g.level,
		       g.module_size, g.border, g.created_at
		FROM generations g
		JOIN generations_fts fts ON g.rowid = fts.rowid
		WHERE generations_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`

	rows, err := s.db.Query(q, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("search generations: %w", err)
	}
	defer rows.Close()

	return scanGenerations(rows)
}

// Close closes the underlying database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// --- helpers ----------------------------------------------------------------

func scanGenerations(rows *sql.Rows) ([]Generation, error) {
	var gens []Generation
	for rows.Next() {
		var g Generation
		if err := rows.Scan(
			&g.ID, &g.Kind, &g.Content, &g.Path, &g.Engine,
			&g.Level, &g.ModuleSize, &g.Border, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan generation row: %w", err)
		}
		gens = append(gens, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generation rows: %w", err)
	}
	return gens, nil
}
