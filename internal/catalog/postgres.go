package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/hashicorp/go-hclog"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jmylchreest/seasonal/internal/colour"
	"github.com/jmylchreest/seasonal/internal/match"
)

// DefaultTable is the catalog colour table.
const DefaultTable = "color"

var tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidateTable rejects table names that are not plain, optionally schema
// qualified, SQL identifiers.
func ValidateTable(table string) error {
	if !tablePattern.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	return nil
}

// Querier is implemented by *sql.DB, *sql.Tx and *sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// Postgres reads reference colours from the catalog's colour table, whose
// code column holds "[R G B]" strings.
type Postgres struct {
	db     Querier
	closer func() error
	table  string
	logger hclog.Logger
}

// OpenPostgres opens a pgx backed connection pool for dsn. The connection is
// established lazily on the first query.
func OpenPostgres(dsn, table string, logger hclog.Logger) (*Postgres, error) {
	if err := ValidateTable(table); err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	p, err := NewPostgres(db, table, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	p.closer = db.Close
	return p, nil
}

// NewPostgres reads from an existing connection.
func NewPostgres(db Querier, table string, logger hclog.Logger) (*Postgres, error) {
	if err := ValidateTable(table); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Postgres{db: db, table: table, logger: logger.Named("catalog")}, nil
}

func (p *Postgres) query() string {
	return "SELECT id, code FROM " + p.table + " ORDER BY id"
}

// References loads every colour in the table. Rows whose code does not parse
// are logged and skipped.
func (p *Postgres) References(ctx context.Context) ([]match.Reference, error) {
	rows, err := p.db.QueryContext(ctx, p.query())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", p.table, err)
	}
	defer rows.Close()

	return p.collect(rows)
}

func (p *Postgres) collect(rows rowScanner) ([]match.Reference, error) {
	refs := make([]match.Reference, 0)
	for rows.Next() {
		var (
			id   int64
			code string
		)
		if err := rows.Scan(&id, &code); err != nil {
			return nil, fmt.Errorf("scan %s: %w", p.table, err)
		}

		c, err := colour.ParseRGB(code)
		if err != nil {
			p.logger.Warn("skipping colour row", "table", p.table, "id", id, "error", err)
			continue
		}
		refs = append(refs, match.Reference{ID: fmt.Sprintf("%d", id), Color: c})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", p.table, err)
	}

	p.logger.Debug("loaded reference colours", "table", p.table, "count", len(refs))
	return refs, nil
}

// Close closes a connection opened by OpenPostgres.
func (p *Postgres) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}
