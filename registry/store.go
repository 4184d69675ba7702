package registry

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/eringen/toolmeta/locale"
)

// Store persists registry snapshots in SQLite. Rows are keyed by load
// position, not id, so a snapshot of a drifting registry keeps its
// duplicates for the validator to report. The locale table is stored with
// the tools, so a snapshot loads against the table it was saved from.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// storeVersion is kept in PRAGMA user_version. Snapshots are derived data,
// so a database written by another version is dropped and recreated.
const storeVersion = 2

func (s *Store) ensureSchema() error {
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return err
	}
	if version != storeVersion {
		if _, err := s.db.Exec(`
DROP TABLE IF EXISTS tool_content;
DROP TABLE IF EXISTS tools;
DROP TABLE IF EXISTS categories;
DROP TABLE IF EXISTS locales;
`); err != nil {
			return err
		}
	}
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS locales (
    position INTEGER PRIMARY KEY,
    code TEXT NOT NULL,
    display_name TEXT NOT NULL,
    html_lang TEXT NOT NULL,
    is_default INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS categories (
    position INTEGER PRIMARY KEY,
    id TEXT NOT NULL,
    path TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tools (
    position INTEGER PRIMARY KEY,
    id TEXT NOT NULL,
    category TEXT NOT NULL,
    path TEXT NOT NULL,
    image TEXT NOT NULL DEFAULT '',
    schema_json TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS tool_content (
    tool_position INTEGER NOT NULL REFERENCES tools(position) ON DELETE CASCADE,
    locale TEXT NOT NULL,
    title TEXT NOT NULL,
    short_description TEXT NOT NULL,
    long_description TEXT NOT NULL DEFAULT '',
    keywords_json TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (tool_position, locale)
);
`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, storeVersion))
	return err
}

// Save replaces the stored snapshot with reg in a single transaction.
func (s *Store) Save(reg *Registry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM tool_content`, `DELETE FROM tools`, `DELETE FROM categories`, `DELETE FROM locales`} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	for i, l := range reg.Table().Locales() {
		if _, err := tx.Exec(`INSERT INTO locales (position, code, display_name, html_lang, is_default) VALUES (?, ?, ?, ?, ?)`,
			i, l.Code, l.DisplayName, l.HTMLLang, l.IsDefault); err != nil {
			return fmt.Errorf("registry: save locale %q: %w", l.Code, err)
		}
	}
	for i, c := range reg.Categories() {
		if _, err := tx.Exec(`INSERT INTO categories (position, id, path) VALUES (?, ?, ?)`, i, c.ID, c.Path); err != nil {
			return fmt.Errorf("registry: save category %q: %w", c.ID, err)
		}
	}
	for i, e := range reg.RawEntries() {
		schemaJSON := ""
		if e.Schema != nil {
			b, err := json.Marshal(e.Schema)
			if err != nil {
				return fmt.Errorf("registry: encode schema for %q: %w", e.ID, err)
			}
			schemaJSON = string(b)
		}
		if _, err := tx.Exec(`INSERT INTO tools (position, id, category, path, image, schema_json) VALUES (?, ?, ?, ?, ?, ?)`,
			i, e.ID, e.Category, e.Path, e.Image, schemaJSON); err != nil {
			return fmt.Errorf("registry: save tool %q: %w", e.ID, err)
		}
		for code, c := range e.LocalizedContent {
			keywords, err := encodeKeywords(c.Keywords)
			if err != nil {
				return fmt.Errorf("registry: encode keywords %q/%q: %w", e.ID, code, err)
			}
			if _, err := tx.Exec(`INSERT INTO tool_content (tool_position, locale, title, short_description, long_description, keywords_json) VALUES (?, ?, ?, ?, ?, ?)`,
				i, code, c.Title, c.ShortDescription, c.LongDescription, keywords); err != nil {
				return fmt.Errorf("registry: save content %q/%q: %w", e.ID, code, err)
			}
		}
	}
	return tx.Commit()
}

// Load reads the stored snapshot and builds a Registry against table. When
// table is nil the stored locale table is used, falling back to
// locale.DefaultTable() for a snapshot without locales.
func (s *Store) Load(table *locale.Table) (*Registry, error) {
	if table == nil {
		t, err := s.loadTable()
		if err != nil {
			return nil, err
		}
		table = t
	}
	categories, err := s.loadCategories()
	if err != nil {
		return nil, err
	}
	entries, positions, err := s.loadTools()
	if err != nil {
		return nil, err
	}
	if err := s.loadContent(entries, positions); err != nil {
		return nil, err
	}
	return New(table, categories, entries), nil
}

func (s *Store) loadTable() (*locale.Table, error) {
	rows, err := s.db.Query(`SELECT code, display_name, html_lang, is_default FROM locales ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locales []locale.Locale
	for rows.Next() {
		var l locale.Locale
		if err := rows.Scan(&l.Code, &l.DisplayName, &l.HTMLLang, &l.IsDefault); err != nil {
			return nil, err
		}
		locales = append(locales, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(locales) == 0 {
		return nil, nil
	}
	t, err := locale.NewTable(locales, locale.DefaultReservedSegments)
	if err != nil {
		return nil, fmt.Errorf("registry: stored locales: %w", err)
	}
	return t, nil
}

func (s *Store) loadCategories() ([]Category, error) {
	rows, err := s.db.Query(`SELECT id, path FROM categories ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Path); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) loadTools() ([]Entry, map[int]int, error) {
	rows, err := s.db.Query(`SELECT position, id, category, path, image, schema_json FROM tools ORDER BY position`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var out []Entry
	positions := make(map[int]int)
	for rows.Next() {
		var pos int
		var e Entry
		var schemaJSON string
		if err := rows.Scan(&pos, &e.ID, &e.Category, &e.Path, &e.Image, &schemaJSON); err != nil {
			return nil, nil, err
		}
		if schemaJSON != "" {
			e.Schema = &Schema{}
			if err := json.Unmarshal([]byte(schemaJSON), e.Schema); err != nil {
				return nil, nil, fmt.Errorf("registry: decode schema for %q: %w", e.ID, err)
			}
		}
		e.LocalizedContent = make(map[string]Content)
		positions[pos] = len(out)
		out = append(out, e)
	}
	return out, positions, rows.Err()
}

func (s *Store) loadContent(entries []Entry, positions map[int]int) error {
	rows, err := s.db.Query(`SELECT tool_position, locale, title, short_description, long_description, keywords_json FROM tool_content`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var pos int
		var code, keywords string
		var c Content
		if err := rows.Scan(&pos, &code, &c.Title, &c.ShortDescription, &c.LongDescription, &keywords); err != nil {
			return err
		}
		idx, ok := positions[pos]
		if !ok {
			return fmt.Errorf("registry: content row references missing tool position %d", pos)
		}
		if c.Keywords, err = decodeKeywords(keywords); err != nil {
			return fmt.Errorf("registry: decode keywords for position %d/%q: %w", pos, code, err)
		}
		entries[idx].LocalizedContent[code] = c
	}
	return rows.Err()
}

// encodeKeywords stores keywords as a JSON array. Empty lists are stored as
// "" so they load back as nil.
func encodeKeywords(keywords []string) (string, error) {
	if len(keywords) == 0 {
		return "", nil
	}
	b, err := json.Marshal(keywords)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeKeywords(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}
