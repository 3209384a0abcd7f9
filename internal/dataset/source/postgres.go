package source

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"penguinlens/internal/dataset"
)

// Postgres reads the dataset from a table holding the seven tracked columns.
// NULL values surface as absent fields so cleaning drops those rows.
type Postgres struct {
	db      *sql.DB
	table   string
	orderBy string
}

// PostgresOption configures a Postgres source.
type PostgresOption func(*Postgres)

// WithOrderBy sets the column that defines the dataset's row order.
func WithOrderBy(column string) PostgresOption {
	return func(p *Postgres) {
		if column != "" {
			p.orderBy = column
		}
	}
}

// NewPostgres constructs a source over table. Rows are read in the order of
// the "id" column unless WithOrderBy says otherwise.
func NewPostgres(db *sql.DB, table string, opts ...PostgresOption) *Postgres {
	p := &Postgres{db: db, table: table, orderBy: "id"}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func (p *Postgres) Name() string {
	return "postgres:" + p.table
}

func (p *Postgres) query() string {
	cols := make([]string, len(dataset.Columns))
	for i, c := range dataset.Columns {
		cols[i] = pq.QuoteIdentifier(c)
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(cols, ", "),
		quoteTable(p.table),
		pq.QuoteIdentifier(p.orderBy),
	)
}

// quoteTable quotes an optionally schema-qualified table name.
func quoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = pq.QuoteIdentifier(part)
	}
	return strings.Join(parts, ".")
}

func (p *Postgres) FetchRaw(ctx context.Context) ([]dataset.RawRecord, error) {
	rows, err := p.db.QueryContext(ctx, p.query())
	if err != nil {
		return nil, fmt.Errorf("query dataset table: %w", err)
	}
	defer rows.Close()

	var out []dataset.RawRecord
	for rows.Next() {
		var (
			species, island, sex sql.NullString
			billLen, billDepth   sql.NullFloat64
			flipperLen, bodyMass sql.NullFloat64
		)
		if err := rows.Scan(&species, &island, &billLen, &billDepth, &flipperLen, &bodyMass, &sex); err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}
		raw := make(dataset.RawRecord, len(dataset.Columns))
		putString(raw, dataset.ColSpecies, species)
		putString(raw, dataset.ColIsland, island)
		putFloat(raw, dataset.ColBillLengthMM, billLen)
		putFloat(raw, dataset.ColBillDepthMM, billDepth)
		putFloat(raw, dataset.ColFlipperLengthMM, flipperLen)
		putFloat(raw, dataset.ColBodyMassG, bodyMass)
		putString(raw, dataset.ColSex, sex)
		out = append(out, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dataset rows: %w", err)
	}
	return out, nil
}

func putString(raw dataset.RawRecord, col string, v sql.NullString) {
	if v.Valid {
		raw[col] = v.String
	}
}

func putFloat(raw dataset.RawRecord, col string, v sql.NullFloat64) {
	if v.Valid {
		raw[col] = strconv.FormatFloat(v.Float64, 'f', -1, 64)
	}
}
