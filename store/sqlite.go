package store

import (
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/geoknoesis/aspect-rdf/rdf"
)

const defaultGraphKind = -1

// SQLite is a Store persisted in a SQLite database.
type SQLite struct {
	db     *sql.DB
	closed atomic.Bool
}

// OpenSQLite opens (or creates) the database at path and runs the schema.
// The path ":memory:" opens a private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	if path == ":memory:" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open statement db: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate statement db: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database connection. Later calls return ErrClosed, as do
// the other methods.
func (s *SQLite) Close() error {
	if s.closed.Swap(true) {
		return ErrClosed
	}
	return s.db.Close()
}

// Add stores the quads in one transaction.
func (s *SQLite) Add(quads ...rdf.Quad) error {
	if s.closed.Load() {
		return ErrClosed
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO statements
		(s_kind, s_value, p, o_kind, o_value, o_datatype, o_lang, g_kind, g_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, q := range quads {
		if !valid(q) {
			return rdf.ErrInvalidStatement
		}
		sKind, sValue := encodeTerm(q.S)
		oKind, oValue := encodeTerm(q.O)
		datatype, lang := literalParts(q.O)
		gKind, gValue := defaultGraphKind, ""
		if q.G != nil {
			gKind, gValue = encodeTerm(q.G)
		}
		if _, err := stmt.Exec(sKind, sValue, q.P.Value, oKind, oValue, datatype, lang, gKind, gValue); err != nil {
			return fmt.Errorf("insert statement %s: %w", q, err)
		}
	}
	return tx.Commit()
}

// Delete removes the statements matching p and returns how many were removed.
func (s *SQLite) Delete(p Pattern) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	where, args := p.sqlWhere()
	result, err := s.db.Exec(`DELETE FROM statements`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete statements: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete statements: %w", err)
	}
	return int(n), nil
}

// Match returns the statements matching p in insertion order.
func (s *SQLite) Match(p Pattern) ([]rdf.Quad, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	where, args := p.sqlWhere()
	rows, err := s.db.Query(`SELECT s_kind, s_value, p, o_kind, o_value, o_datatype, o_lang, g_kind, g_value
		FROM statements`+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("match statements: %w", err)
	}
	defer rows.Close()

	var out []rdf.Quad
	for rows.Next() {
		var (
			sKind, oKind, gKind                          int
			sValue, pred, oValue, datatype, lang, gValue string
		)
		if err := rows.Scan(&sKind, &sValue, &pred, &oKind, &oValue, &datatype, &lang, &gKind, &gValue); err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		q := rdf.Quad{
			S: decodeTerm(sKind, sValue, "", ""),
			P: rdf.NewIRI(pred),
			O: decodeTerm(oKind, oValue, datatype, lang),
		}
		if gKind != defaultGraphKind {
			q.G = decodeTerm(gKind, gValue, "", "")
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Len returns the number of statements.
func (s *SQLite) Len() (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM statements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count statements: %w", err)
	}
	return n, nil
}

func (p Pattern) sqlWhere() (string, []any) {
	var clauses []string
	var args []any
	if p.S != nil {
		kind, value := encodeTerm(p.S)
		clauses = append(clauses, "s_kind = ?", "s_value = ?")
		args = append(args, kind, value)
	}
	if p.P.Value != "" {
		clauses = append(clauses, "p = ?")
		args = append(args, p.P.Value)
	}
	if p.O != nil {
		kind, value := encodeTerm(p.O)
		datatype, lang := literalParts(p.O)
		clauses = append(clauses, "o_kind = ?", "o_value = ?", "o_datatype = ?", "o_lang = ?")
		args = append(args, kind, value, datatype, lang)
	}
	if p.G != nil {
		kind, value := encodeTerm(p.G)
		clauses = append(clauses, "g_kind = ?", "g_value = ?")
		args = append(args, kind, value)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func encodeTerm(t rdf.Term) (int, string) {
	switch v := t.(type) {
	case rdf.IRI:
		return int(rdf.TermIRI), v.Value
	case rdf.BlankNode:
		return int(rdf.TermBlankNode), v.ID
	case rdf.Literal:
		return int(rdf.TermLiteral), v.Lexical
	default:
		return defaultGraphKind, ""
	}
}

func literalParts(t rdf.Term) (string, string) {
	if lit, ok := t.(rdf.Literal); ok {
		return lit.Datatype.Value, lit.Lang
	}
	return "", ""
}

func decodeTerm(kind int, value, datatype, lang string) rdf.Term {
	switch rdf.TermKind(kind) {
	case rdf.TermBlankNode:
		return rdf.BlankNode{ID: value}
	case rdf.TermLiteral:
		return rdf.Literal{Lexical: value, Datatype: rdf.IRI{Value: datatype}, Lang: lang}
	default:
		return rdf.NewIRI(value)
	}
}
