package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-modeltranslation/pkg/model"
)

// Dialect selects placeholder syntax.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLOption customises a SQL store.
type SQLOption func(*SQL)

// WithDialect selects the placeholder style. Defaults to DialectSQLite.
func WithDialect(d Dialect) SQLOption {
	return func(s *SQL) {
		if d != "" {
			s.dialect = d
		}
	}
}

// WithKeyColumn overrides the primary key column. Defaults to "id".
func WithKeyColumn(name string) SQLOption {
	return func(s *SQL) {
		if name = strings.TrimSpace(name); name != "" {
			s.key = name
		}
	}
}

// SQL is a database/sql backed Store for one table.
type SQL struct {
	db      *sql.DB
	table   string
	key     string
	columns []string
	known   map[string]struct{}
	dialect Dialect
}

// NewSQL builds a store over table, reading and writing columns. The key
// column is always selected and never updated.
func NewSQL(db *sql.DB, table string, columns []string, options ...SQLOption) (*SQL, error) {
	if db == nil {
		return nil, errors.New("store: database is required")
	}
	s := &SQL{db: db, table: strings.TrimSpace(table), key: "id", dialect: DialectSQLite}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	switch s.dialect {
	case DialectSQLite, DialectPostgres:
	default:
		return nil, fmt.Errorf("store: unsupported dialect %q", s.dialect)
	}
	if !identifierPattern.MatchString(s.table) {
		return nil, fmt.Errorf("store: invalid table name %q", table)
	}
	if !identifierPattern.MatchString(s.key) {
		return nil, fmt.Errorf("store: invalid key column %q", s.key)
	}

	s.known = map[string]struct{}{s.key: {}}
	s.columns = []string{s.key}
	for _, col := range columns {
		col = strings.TrimSpace(col)
		if !identifierPattern.MatchString(col) {
			return nil, fmt.Errorf("store: invalid column name %q", col)
		}
		if _, dup := s.known[col]; dup {
			continue
		}
		s.known[col] = struct{}{}
		s.columns = append(s.columns, col)
	}
	return s, nil
}

// Get loads the row with id.
func (s *SQL) Get(ctx context.Context, id string) (model.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		s.selectList(), quote(s.table), quote(s.key), s.placeholder(1))
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("store: get %s: %w", id, err)
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	rec, err := s.scan(rows)
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}
	return rec, nil
}

// List loads every row ordered by key.
func (s *SQL) List(ctx context.Context) ([]model.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		s.selectList(), quote(s.table), quote(s.key))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		rec, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return out, nil
}

// Save issues an UPDATE for the changed slots of rec. A record with no
// changes is a no-op.
func (s *SQL) Save(ctx context.Context, rec model.Record) error {
	if rec == nil {
		return errors.New("store: nil record")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	slots, tracker, err := changedSlots(rec)
	if err != nil {
		return err
	}

	var (
		sets []string
		args []any
	)
	for _, slot := range slots {
		if slot == s.key {
			return fmt.Errorf("store: save %s: key column is immutable", rec.ID())
		}
		if _, ok := s.known[slot]; !ok {
			return fmt.Errorf("store: save %s: unknown column %q", rec.ID(), slot)
		}
		value, _ := rec.Get(slot)
		args = append(args, bind(value))
		sets = append(sets, fmt.Sprintf("%s = %s", quote(slot), s.placeholder(len(args))))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, rec.ID())
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		quote(s.table), strings.Join(sets, ", "), quote(s.key), s.placeholder(len(args)))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("store: save %s: %w", rec.ID(), err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, rec.ID())
	}
	tracker.ResetChanges()
	return nil
}

// CreateTable creates the table when it does not exist. Every column other
// than the key is nullable TEXT, which both dialects accept.
func (s *SQL) CreateTable(ctx context.Context) error {
	defs := []string{quote(s.key) + " TEXT PRIMARY KEY"}
	for _, col := range s.columns[1:] {
		defs = append(defs, quote(col)+" TEXT")
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(s.table), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("store: create %s: %w", s.table, err)
	}
	return nil
}

// Insert adds a row. Values for unknown columns are rejected.
func (s *SQL) Insert(ctx context.Context, id string, values map[string]any) error {
	cols := []string{quote(s.key)}
	marks := []string{s.placeholder(1)}
	args := []any{id}
	for _, col := range s.columns[1:] {
		value, ok := values[col]
		if !ok {
			continue
		}
		args = append(args, bind(value))
		cols = append(cols, quote(col))
		marks = append(marks, s.placeholder(len(args)))
	}
	for col := range values {
		if _, ok := s.known[col]; !ok {
			return fmt.Errorf("store: insert %s: unknown column %q", id, col)
		}
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(s.table), strings.Join(cols, ", "), strings.Join(marks, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("store: insert %s: %w", id, err)
	}
	return nil
}

func (s *SQL) scan(rows *sql.Rows) (*model.MapRecord, error) {
	raw := make([]any, len(s.columns))
	dest := make([]any, len(s.columns))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	values := make(map[string]any, len(s.columns))
	for i, col := range s.columns {
		values[col] = normalise(raw[i])
	}
	return model.NewMapRecord(idString(values[s.key]), values).ProtectSlots(s.key), nil
}

func (s *SQL) selectList() string {
	quoted := make([]string, len(s.columns))
	for i, col := range s.columns {
		quoted[i] = quote(col)
	}
	return strings.Join(quoted, ", ")
}

func (s *SQL) placeholder(n int) string {
	if s.dialect == DialectPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func quote(identifier string) string {
	return `"` + identifier + `"`
}

func normalise(value any) any {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case time.Time:
		return v.UTC()
	default:
		return v
	}
}

// bind stores timestamps as RFC 3339 text so every driver round-trips them
// through the TEXT columns.
func bind(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if v == nil {
			return nil
		}
		return v.UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}

func idString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

var _ Store = (*SQL)(nil)
