package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownTable is returned for table names not present in the schema.
var ErrUnknownTable = errors.New("unknown table")

// SchemaRepo reads the warehouse schema and its rows.
type SchemaRepo struct {
	db *sql.DB
}

func NewSchemaRepo(db *sql.DB) *SchemaRepo { return &SchemaRepo{db: db} }

// TableNames lists user tables in creation order.
func (r *SchemaRepo) TableNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT name FROM sqlite_master
	WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name != 'schema_migrations'
	ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Tables returns every table with its columns and record count.
func (r *SchemaRepo) Tables(ctx context.Context) ([]Table, error) {
	names, err := r.TableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	out := make([]Table, 0, len(names))
	for _, name := range names {
		t, err := r.describe(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Table describes a single table.
func (r *SchemaRepo) Table(ctx context.Context, name string) (Table, error) {
	if err := r.checkTable(ctx, name); err != nil {
		return Table{}, err
	}
	return r.describe(ctx, name)
}

func (r *SchemaRepo) describe(ctx context.Context, name string) (Table, error) {
	cols, err := r.columns(ctx, name)
	if err != nil {
		return Table{}, fmt.Errorf("columns of %s: %w", name, err)
	}
	fks, err := r.foreignKeys(ctx, name)
	if err != nil {
		return Table{}, fmt.Errorf("foreign keys of %s: %w", name, err)
	}
	for i := range cols {
		if target, ok := fks[cols[i].Name]; ok {
			cols[i].ForeignKey = target
		}
	}
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+quoteIdent(name)).Scan(&count); err != nil {
		return Table{}, fmt.Errorf("count %s: %w", name, err)
	}
	return Table{Name: name, Columns: cols, Records: count}, nil
}

func (r *SchemaRepo) columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := r.db.QueryContext(ctx, `PRAGMA table_info(`+quoteIdent(table)+`)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Column
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		out = append(out, Column{
			Name:       name,
			Type:       strings.ToUpper(typ),
			PrimaryKey: pk > 0,
			Nullable:   notNull == 0 && pk == 0,
		})
	}
	return out, rows.Err()
}

// foreignKeys maps a local column to "table.column".
func (r *SchemaRepo) foreignKeys(ctx context.Context, table string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `PRAGMA foreign_key_list(`+quoteIdent(table)+`)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var (
			id, seq                      int
			target, from                 string
			to                           sql.NullString
			onUpdate, onDelete, matchTyp string
		)
		if err := rows.Scan(&id, &seq, &target, &from, &to, &onUpdate, &onDelete, &matchTyp); err != nil {
			return nil, err
		}
		col := to.String
		if col == "" {
			col = "rowid"
		}
		out[from] = target + "." + col
	}
	return out, rows.Err()
}

// Relationships lists every foreign key in the schema.
func (r *SchemaRepo) Relationships(ctx context.Context) ([]Relationship, error) {
	tables, err := r.Tables(ctx)
	if err != nil {
		return nil, err
	}
	var out []Relationship
	for _, t := range tables {
		for _, c := range t.Columns {
			if c.ForeignKey == "" {
				continue
			}
			out = append(out, Relationship{FromTable: t.Name, FromColumn: c.Name, To: c.ForeignKey})
		}
	}
	return out, nil
}

// Rows returns up to limit rows of table in rowid order. limit <= 0 returns everything.
func (r *SchemaRepo) Rows(ctx context.Context, table string, limit int) (RowSet, error) {
	if err := r.checkTable(ctx, table); err != nil {
		return RowSet{}, err
	}
	q := `SELECT * FROM ` + quoteIdent(table) + ` ORDER BY rowid`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return RowSet{}, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return RowSet{}, err
	}
	set := RowSet{Columns: cols}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return RowSet{}, err
		}
		row := make([]Cell, len(cols))
		for i, v := range raw {
			row[i] = toCell(v)
		}
		set.Rows = append(set.Rows, row)
	}
	return set, rows.Err()
}

func (r *SchemaRepo) checkTable(ctx context.Context, name string) error {
	names, err := r.TableNames(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownTable, name)
}

func toCell(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Cell{Null: true}
	case []byte:
		return Cell{Text: string(x)}
	case string:
		return Cell{Text: x}
	case int64:
		return Cell{Text: strconv.FormatInt(x, 10)}
	case float64:
		return Cell{Text: strconv.FormatFloat(x, 'f', -1, 64)}
	case bool:
		return Cell{Text: strconv.FormatBool(x)}
	case time.Time:
		return Cell{Text: x.UTC().Format(time.DateTime)}
	default:
		return Cell{Text: fmt.Sprint(x)}
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
