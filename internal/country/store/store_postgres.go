package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"countryapi/internal/country/models"
	pstrings "countryapi/pkg/platform/strings"
	"countryapi/pkg/platform/tx"
)

const selectColumns = `id, name, capital, region, population, currency_code,
	exchange_rate, estimated_gdp, flag_url, last_refreshed_at`

// PostgresStore persists countries in PostgreSQL. Every operation borrows a
// single connection from the pool and returns it before the method exits.
type PostgresStore struct {
	db        *sql.DB
	chunkSize int
}

// NewPostgres constructs a PostgreSQL-backed country store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, chunkSize: maxUpsertRows}
}

func (s *PostgresStore) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()
	return fn(conn)
}

// UpsertAll inserts countries or overwrites the existing row with the same
// name, stamping last_refreshed_at. The call is all-or-nothing: a batch that
// needs more than one statement runs inside a transaction.
func (s *PostgresStore) UpsertAll(ctx context.Context, countries []models.Country) (int64, error) {
	countries = pstrings.DedupeByKey(countries, func(c models.Country) string { return c.Name })
	if len(countries) == 0 {
		return 0, nil
	}

	var affected int64
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		if len(countries) <= s.chunkSize {
			n, err := execUpsert(ctx, conn, countries)
			affected = n
			return err
		}

		return tx.Run(ctx, conn, func(t *sql.Tx) error {
			for start := 0; start < len(countries); start += s.chunkSize {
				end := min(start+s.chunkSize, len(countries))
				n, err := execUpsert(ctx, t, countries[start:end])
				if err != nil {
					return err
				}
				affected += n
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execUpsert(ctx context.Context, db execer, countries []models.Country) (int64, error) {
	query, args := buildUpsert(countries)
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("upsert countries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("upsert rows affected: %w", err)
	}
	return n, nil
}

func buildUpsert(countries []models.Country) (string, []any) {
	var b strings.Builder
	b.WriteString(`INSERT INTO countries (
	name, capital, region, population, currency_code,
	exchange_rate, estimated_gdp, flag_url, last_refreshed_at
) VALUES `)

	args := make([]any, 0, len(countries)*upsertColumns)
	for i, c := range countries {
		if i > 0 {
			b.WriteString(", ")
		}
		base := i * upsertColumns
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, now())",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8)
		args = append(args,
			c.Name,
			c.Capital,
			c.Region,
			c.Population,
			c.CurrencyCode,
			c.ExchangeRate,
			c.EstimatedGDP,
			c.FlagURL,
		)
	}

	b.WriteString(`
ON CONFLICT (name) DO UPDATE SET
	capital = EXCLUDED.capital,
	region = EXCLUDED.region,
	population = EXCLUDED.population,
	currency_code = EXCLUDED.currency_code,
	exchange_rate = EXCLUDED.exchange_rate,
	estimated_gdp = EXCLUDED.estimated_gdp,
	flag_url = EXCLUDED.flag_url,
	last_refreshed_at = EXCLUDED.last_refreshed_at`)
	return b.String(), args
}

// Summary reports the row count, the latest refresh time and the top rows by
// estimated GDP (ties broken by name).
func (s *PostgresStore) Summary(ctx context.Context) (*models.Summary, error) {
	summary := &models.Summary{TopGDP: []models.GDPEntry{}}
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		total, last, err := queryStatus(ctx, conn)
		if err != nil {
			return err
		}
		summary.TotalCountries = total
		summary.LastRefresh = last

		rows, err := conn.QueryContext(ctx, `SELECT name, estimated_gdp
FROM countries
ORDER BY estimated_gdp DESC, name ASC
LIMIT $1`, models.TopGDPLimit)
		if err != nil {
			return fmt.Errorf("query top gdp: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var entry models.GDPEntry
			if err := rows.Scan(&entry.Name, &entry.EstimatedGDP); err != nil {
				return fmt.Errorf("scan top gdp: %w", err)
			}
			summary.TopGDP = append(summary.TopGDP, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Status reports the live row count and latest refresh time.
func (s *PostgresStore) Status(ctx context.Context) (*models.Status, error) {
	status := &models.Status{}
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		total, last, err := queryStatus(ctx, conn)
		status.TotalCountries = total
		status.LastRefreshedAt = last
		return err
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

func queryStatus(ctx context.Context, conn *sql.Conn) (int64, *time.Time, error) {
	var (
		total int64
		last  sql.NullTime
	)
	err := conn.QueryRowContext(ctx, `SELECT COUNT(*), MAX(last_refreshed_at) FROM countries`).Scan(&total, &last)
	if err != nil {
		return 0, nil, fmt.Errorf("query status: %w", err)
	}
	if !last.Valid {
		return total, nil, nil
	}
	t := last.Time.UTC()
	return total, &t, nil
}

// List returns countries matching filter. Unsorted results come back in
// insertion order.
func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]models.Country, error) {
	query := `SELECT ` + selectColumns + `
FROM countries
WHERE ($1::text IS NULL OR region = $1)
  AND ($2::text IS NULL OR currency_code = $2)
ORDER BY ` + orderClause(filter.Sort)

	var out []models.Country
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, filter.Region, filter.Currency)
		if err != nil {
			return fmt.Errorf("list countries: %w", err)
		}
		out, err = scanCountries(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func orderClause(order models.SortOrder) string {
	switch order {
	case models.SortGDPDesc:
		return "estimated_gdp DESC, name ASC"
	case models.SortGDPAsc:
		return "estimated_gdp ASC, name ASC"
	default:
		return "id ASC"
	}
}

// FindByName returns every row whose name matches exactly, or ErrNotFound.
func (s *PostgresStore) FindByName(ctx context.Context, name string) ([]models.Country, error) {
	var out []models.Country
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `SELECT `+selectColumns+` FROM countries WHERE name = $1 ORDER BY id`, name)
		if err != nil {
			return fmt.Errorf("find country: %w", err)
		}
		out, err = scanCountries(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// DeleteByName removes the row with the given name, or returns ErrNotFound.
func (s *PostgresStore) DeleteByName(ctx context.Context, name string) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, `DELETE FROM countries WHERE name = $1`, name)
		if err != nil {
			return fmt.Errorf("delete country: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete rows affected: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Ping verifies the pool can reach the database.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func scanCountries(rows *sql.Rows) ([]models.Country, error) {
	defer rows.Close()

	out := []models.Country{}
	for rows.Next() {
		var (
			c            models.Country
			capital      sql.NullString
			region       sql.NullString
			currencyCode sql.NullString
			exchangeRate sql.NullFloat64
			flagURL      sql.NullString
			refreshedAt  time.Time
		)
		if err := rows.Scan(
			&c.ID, &c.Name, &capital, &region, &c.Population, &currencyCode,
			&exchangeRate, &c.EstimatedGDP, &flagURL, &refreshedAt,
		); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		c.Capital = nullString(capital)
		c.Region = nullString(region)
		c.CurrencyCode = nullString(currencyCode)
		c.FlagURL = nullString(flagURL)
		if exchangeRate.Valid {
			rate := exchangeRate.Float64
			c.ExchangeRate = &rate
		}
		refreshedAt = refreshedAt.UTC()
		c.LastRefreshedAt = &refreshedAt
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate countries: %w", err)
	}
	return out, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
