/*
Package sqlite persists rate books in SQLite.

TABLES:

	alloc_charge:       product, year -> tp_rate, ep_rate
	keyed_rate:         table_name, product, rate_key -> rate
	                    (surrender_charge, loyalty_bonus, juvenile_lien, admin_charge)
	coi_rate:           product, gender, age -> rate
	premium_rate:       product, gender, age -> rate
	extra_premium_rate: product, gender, age, term -> rate
	modal_factor:       product -> annual, semi_annual, quarterly, monthly
	interest_rate:      product -> high, low, guaranteed
	age_validation:     product -> min_entry_age, max_entry_age, maturity_age

Rates are stored as decimal strings so a book survives a round trip exactly.
Import replaces the whole book in one transaction; there is no partial update.

USAGE:

	store, err := sqlite.New("./rates.db")
	if err != nil {
	    log.Fatal(err)
	}
	defer store.Close()

	book, err := store.Load(ctx)
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
	"github.com/ulproj/ul-projector/internal/ratetable"
)

// Store persists rate books.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) a SQLite rate store. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS alloc_charge (
		product TEXT NOT NULL,
		year INTEGER NOT NULL,
		tp_rate TEXT NOT NULL,
		ep_rate TEXT NOT NULL,
		PRIMARY KEY (product, year)
	);

	CREATE TABLE IF NOT EXISTS keyed_rate (
		table_name TEXT NOT NULL,
		product TEXT NOT NULL,
		rate_key INTEGER NOT NULL,
		rate TEXT NOT NULL,
		PRIMARY KEY (table_name, product, rate_key)
	);

	CREATE TABLE IF NOT EXISTS coi_rate (
		product TEXT NOT NULL,
		gender INTEGER NOT NULL,
		age INTEGER NOT NULL,
		rate TEXT NOT NULL,
		PRIMARY KEY (product, gender, age)
	);

	CREATE TABLE IF NOT EXISTS premium_rate (
		product TEXT NOT NULL,
		gender INTEGER NOT NULL,
		age INTEGER NOT NULL,
		rate TEXT NOT NULL,
		PRIMARY KEY (product, gender, age)
	);

	CREATE TABLE IF NOT EXISTS extra_premium_rate (
		product TEXT NOT NULL,
		gender INTEGER NOT NULL,
		age INTEGER NOT NULL,
		term INTEGER NOT NULL,
		rate TEXT NOT NULL,
		PRIMARY KEY (product, gender, age, term)
	);

	CREATE TABLE IF NOT EXISTS modal_factor (
		product TEXT PRIMARY KEY,
		annual TEXT NOT NULL,
		semi_annual TEXT NOT NULL,
		quarterly TEXT NOT NULL,
		monthly TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS interest_rate (
		product TEXT PRIMARY KEY,
		high TEXT NOT NULL,
		low TEXT NOT NULL,
		guaranteed TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS age_validation (
		product TEXT PRIMARY KEY,
		min_entry_age INTEGER NOT NULL,
		max_entry_age INTEGER NOT NULL,
		maturity_age INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

var rateTables = []string{
	"alloc_charge", "keyed_rate", "coi_rate", "premium_rate",
	"extra_premium_rate", "modal_factor", "interest_rate", "age_validation",
}

// Import replaces the stored rate book with book.
func (s *Store) Import(ctx context.Context, book *ratetable.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := book.Rows()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range rateTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	err = insertAll(ctx, tx, `INSERT INTO alloc_charge (product, year, tp_rate, ep_rate) VALUES (?, ?, ?, ?)`,
		len(rows.Allocation), func(i int) []any {
			r := rows.Allocation[i]
			return []any{string(r.Product), r.Year, r.TPRate.String(), r.EPRate.String()}
		})
	if err != nil {
		return err
	}

	err = insertAll(ctx, tx, `INSERT INTO keyed_rate (table_name, product, rate_key, rate) VALUES (?, ?, ?, ?)`,
		len(rows.Keyed), func(i int) []any {
			r := rows.Keyed[i]
			return []any{r.Table, string(r.Product), r.Key, r.Rate.String()}
		})
	if err != nil {
		return err
	}

	err = insertAll(ctx, tx, `INSERT INTO coi_rate (product, gender, age, rate) VALUES (?, ?, ?, ?)`,
		len(rows.COI), func(i int) []any {
			r := rows.COI[i]
			return []any{string(r.Product), r.Gender, r.Age, r.Rate.String()}
		})
	if err != nil {
		return err
	}

	err = insertAll(ctx, tx, `INSERT INTO premium_rate (product, gender, age, rate) VALUES (?, ?, ?, ?)`,
		len(rows.Premium), func(i int) []any {
			r := rows.Premium[i]
			return []any{string(r.Product), r.Gender, r.Age, r.Rate.String()}
		})
	if err != nil {
		return err
	}

	err = insertAll(ctx, tx, `INSERT INTO extra_premium_rate (product, gender, age, term, rate) VALUES (?, ?, ?, ?, ?)`,
		len(rows.ExtraPremium), func(i int) []any {
			r := rows.ExtraPremium[i]
			return []any{string(r.Product), r.Gender, r.Age, r.Term, r.Rate.String()}
		})
	if err != nil {
		return err
	}

	err = insertAll(ctx, tx, `INSERT INTO modal_factor (product, annual, semi_annual, quarterly, monthly) VALUES (?, ?, ?, ?, ?)`,
		len(rows.Modal), func(i int) []any {
			r := rows.Modal[i]
			f := r.Factors
			return []any{string(r.Product), f.Annual.String(), f.SemiAnnual.String(), f.Quarterly.String(), f.Monthly.String()}
		})
	if err != nil {
		return err
	}

	err = insertAll(ctx, tx, `INSERT INTO interest_rate (product, high, low, guaranteed) VALUES (?, ?, ?, ?)`,
		len(rows.Interest), func(i int) []any {
			r := rows.Interest[i]
			return []any{string(r.Product), r.Rates.High.String(), r.Rates.Low.String(), r.Rates.Guaranteed.String()}
		})
	if err != nil {
		return err
	}

	err = insertAll(ctx, tx, `INSERT INTO age_validation (product, min_entry_age, max_entry_age, maturity_age) VALUES (?, ?, ?, ?)`,
		len(rows.Ages), func(i int) []any {
			r := rows.Ages[i]
			return []any{string(r.Product), r.Bounds.MinEntryAge, r.Bounds.MaxEntryAge, r.Bounds.MaturityAge}
		})
	if err != nil {
		return err
	}

	return tx.Commit()
}

func insertAll(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}
	return nil
}

// Load rebuilds the stored rate book.
func (s *Store) Load(ctx context.Context) (*ratetable.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows ratetable.Rows

	err := s.scan(ctx, `SELECT product, year, tp_rate, ep_rate FROM alloc_charge ORDER BY product, year`,
		func(sc scanner) error {
			var r ratetable.AllocationRow
			var product, tp, ep string
			if err := sc.Scan(&product, &r.Year, &tp, &ep); err != nil {
				return err
			}
			r.Product = domain.ProductID(product)
			vals, err := decimals(tp, ep)
			if err != nil {
				return err
			}
			r.TPRate, r.EPRate = vals[0], vals[1]
			rows.Allocation = append(rows.Allocation, r)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = s.scan(ctx, `SELECT table_name, product, rate_key, rate FROM keyed_rate ORDER BY product, table_name, rate_key`,
		func(sc scanner) error {
			var r ratetable.KeyedRow
			var product, rate string
			if err := sc.Scan(&r.Table, &product, &r.Key, &rate); err != nil {
				return err
			}
			r.Product = domain.ProductID(product)
			vals, err := decimals(rate)
			if err != nil {
				return err
			}
			r.Rate = vals[0]
			rows.Keyed = append(rows.Keyed, r)
			return nil
		})
	if err != nil {
		return nil, err
	}

	genderAge := func(dst *[]ratetable.GenderAgeRow) func(sc scanner) error {
		return func(sc scanner) error {
			var r ratetable.GenderAgeRow
			var product, rate string
			if err := sc.Scan(&product, &r.Gender, &r.Age, &rate); err != nil {
				return err
			}
			r.Product = domain.ProductID(product)
			vals, err := decimals(rate)
			if err != nil {
				return err
			}
			r.Rate = vals[0]
			*dst = append(*dst, r)
			return nil
		}
	}
	if err := s.scan(ctx, `SELECT product, gender, age, rate FROM coi_rate ORDER BY product, gender, age`, genderAge(&rows.COI)); err != nil {
		return nil, err
	}
	if err := s.scan(ctx, `SELECT product, gender, age, rate FROM premium_rate ORDER BY product, gender, age`, genderAge(&rows.Premium)); err != nil {
		return nil, err
	}

	err = s.scan(ctx, `SELECT product, gender, age, term, rate FROM extra_premium_rate ORDER BY product, gender, age, term`,
		func(sc scanner) error {
			var r ratetable.ExtraPremiumRow
			var product, rate string
			if err := sc.Scan(&product, &r.Gender, &r.Age, &r.Term, &rate); err != nil {
				return err
			}
			r.Product = domain.ProductID(product)
			vals, err := decimals(rate)
			if err != nil {
				return err
			}
			r.Rate = vals[0]
			rows.ExtraPremium = append(rows.ExtraPremium, r)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = s.scan(ctx, `SELECT product, annual, semi_annual, quarterly, monthly FROM modal_factor ORDER BY product`,
		func(sc scanner) error {
			var product, a, sa, q, m string
			if err := sc.Scan(&product, &a, &sa, &q, &m); err != nil {
				return err
			}
			vals, err := decimals(a, sa, q, m)
			if err != nil {
				return err
			}
			rows.Modal = append(rows.Modal, ratetable.ModalRow{
				Product: domain.ProductID(product),
				Factors: ratetable.ModalFactors{Annual: vals[0], SemiAnnual: vals[1], Quarterly: vals[2], Monthly: vals[3]},
			})
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = s.scan(ctx, `SELECT product, high, low, guaranteed FROM interest_rate ORDER BY product`,
		func(sc scanner) error {
			var product, h, l, g string
			if err := sc.Scan(&product, &h, &l, &g); err != nil {
				return err
			}
			vals, err := decimals(h, l, g)
			if err != nil {
				return err
			}
			rows.Interest = append(rows.Interest, ratetable.InterestRow{
				Product: domain.ProductID(product),
				Rates:   ratetable.InterestRates{High: vals[0], Low: vals[1], Guaranteed: vals[2]},
			})
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = s.scan(ctx, `SELECT product, min_entry_age, max_entry_age, maturity_age FROM age_validation ORDER BY product`,
		func(sc scanner) error {
			var r ratetable.AgeRow
			var product string
			if err := sc.Scan(&product, &r.Bounds.MinEntryAge, &r.Bounds.MaxEntryAge, &r.Bounds.MaturityAge); err != nil {
				return err
			}
			r.Product = domain.ProductID(product)
			rows.Ages = append(rows.Ages, r)
			return nil
		})
	if err != nil {
		return nil, err
	}

	return ratetable.BookFromRows(rows), nil
}

// Products lists the products with any stored rate.
func (s *Store) Products(ctx context.Context) ([]domain.ProductID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT product FROM alloc_charge
		UNION SELECT product FROM keyed_rate
		UNION SELECT product FROM coi_rate
		UNION SELECT product FROM premium_rate
		UNION SELECT product FROM extra_premium_rate
		UNION SELECT product FROM modal_factor
		UNION SELECT product FROM interest_rate
		UNION SELECT product FROM age_validation
		ORDER BY product
	`
	var products []domain.ProductID
	err := s.scan(ctx, query, func(sc scanner) error {
		var p string
		if err := sc.Scan(&p); err != nil {
			return err
		}
		products = append(products, domain.ProductID(p))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scan(ctx context.Context, query string, fn func(sc scanner) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query rates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return fmt.Errorf("failed to scan rate: %w", err)
		}
	}
	return rows.Err()
}

func decimals(values ...string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid decimal %q: %w", v, err)
		}
		out[i] = d
	}
	return out, nil
}
