package ratetable

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
)

// AllocationRow is one policy year of TP/EP allocation charges.
type AllocationRow struct {
	Product domain.ProductID
	Year    int
	TPRate  decimal.Decimal
	EPRate  decimal.Decimal
}

// KeyedRow is one entry of a single-key table (surrender, loyalty, juvenile lien, admin).
type KeyedRow struct {
	Table   string
	Product domain.ProductID
	Key     int
	Rate    decimal.Decimal
}

// GenderAgeRow is one entry of a gender and age keyed table (COI, premium rate).
type GenderAgeRow struct {
	Product domain.ProductID
	Gender  int
	Age     int
	Rate    decimal.Decimal
}

// ExtraPremiumRow is one extra-premium rate.
type ExtraPremiumRow struct {
	Product domain.ProductID
	Gender  int
	Age     int
	Term    int
	Rate    decimal.Decimal
}

// ModalRow holds the modal factors of a product.
type ModalRow struct {
	Product domain.ProductID
	Factors ModalFactors
}

// InterestRow holds the crediting rates of a product.
type InterestRow struct {
	Product domain.ProductID
	Rates   InterestRates
}

// AgeRow holds the age bounds of a product.
type AgeRow struct {
	Product domain.ProductID
	Bounds  AgeBounds
}

// Rows is a flat, deterministically ordered view of a Book used for persistence.
type Rows struct {
	Allocation   []AllocationRow
	Keyed        []KeyedRow
	COI          []GenderAgeRow
	Premium      []GenderAgeRow
	ExtraPremium []ExtraPremiumRow
	Modal        []ModalRow
	Interest     []InterestRow
	Ages         []AgeRow
}

// KeyedTables lists the single-key tables carried in Rows.Keyed.
var KeyedTables = []string{TableSurrenderCharge, TableLoyaltyBonus, TableJuvenileLien, TableAdminCharge}

// Rows flattens the book.
func (b *Book) Rows() Rows {
	b.mu.RLock()
	defer b.mu.RUnlock()

	products := make([]domain.ProductID, 0, len(b.products))
	for p := range b.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i] < products[j] })

	var rows Rows
	for _, p := range products {
		tp := b.tables[productKey{p, TableTPAllocCharge}]
		ep := b.tables[productKey{p, TableEPAllocCharge}]
		years := map[int]bool{}
		for _, t := range []*Table{tp, ep} {
			if t == nil {
				continue
			}
			for k := range t.Values {
				years[k] = true
			}
		}
		for _, y := range sortedKeys(years) {
			row := AllocationRow{Product: p, Year: y, TPRate: DefaultFor(TableTPAllocCharge), EPRate: DefaultFor(TableEPAllocCharge)}
			if tp != nil {
				row.TPRate = tp.Lookup(y)
			}
			if ep != nil {
				row.EPRate = ep.Lookup(y)
			}
			rows.Allocation = append(rows.Allocation, row)
		}

		for _, name := range KeyedTables {
			t, ok := b.tables[productKey{p, name}]
			if !ok {
				continue
			}
			for _, k := range t.Keys() {
				rows.Keyed = append(rows.Keyed, KeyedRow{Table: name, Product: p, Key: k, Rate: t.Values[k]})
			}
		}

		for _, g := range []int{0, 1, 2, 9} {
			t, ok := b.coi[genderKey{p, g}]
			if !ok {
				continue
			}
			for _, k := range t.Keys() {
				rows.COI = append(rows.COI, GenderAgeRow{Product: p, Gender: g, Age: k, Rate: t.Values[k]})
			}
		}

		if f, ok := b.modal[p]; ok {
			rows.Modal = append(rows.Modal, ModalRow{Product: p, Factors: f})
		}
		if r, ok := b.interest[p]; ok {
			rows.Interest = append(rows.Interest, InterestRow{Product: p, Rates: r})
		}
		if a, ok := b.ages[p]; ok {
			rows.Ages = append(rows.Ages, AgeRow{Product: p, Bounds: a})
		}
	}

	for k, v := range b.premium {
		rows.Premium = append(rows.Premium, GenderAgeRow{Product: k.product, Gender: k.gender, Age: k.age, Rate: v})
	}
	sort.Slice(rows.Premium, func(i, j int) bool {
		a, c := rows.Premium[i], rows.Premium[j]
		if a.Product != c.Product {
			return a.Product < c.Product
		}
		if a.Gender != c.Gender {
			return a.Gender < c.Gender
		}
		return a.Age < c.Age
	})

	for k, v := range b.extraPremium {
		rows.ExtraPremium = append(rows.ExtraPremium, ExtraPremiumRow{Product: k.product, Gender: k.gender, Age: k.age, Term: k.term, Rate: v})
	}
	sort.Slice(rows.ExtraPremium, func(i, j int) bool {
		a, c := rows.ExtraPremium[i], rows.ExtraPremium[j]
		if a.Product != c.Product {
			return a.Product < c.Product
		}
		if a.Gender != c.Gender {
			return a.Gender < c.Gender
		}
		if a.Age != c.Age {
			return a.Age < c.Age
		}
		return a.Term < c.Term
	})
	return rows
}

// BookFromRows rebuilds a Book from its flat view.
func BookFromRows(rows Rows) *Book {
	b := NewBook()
	for _, r := range rows.Allocation {
		b.SetAllocationCharge(r.Product, r.Year, r.TPRate, r.EPRate)
	}
	for _, r := range rows.Keyed {
		b.mu.Lock()
		b.tableLocked(r.Product, r.Table).Set(r.Key, r.Rate)
		b.mu.Unlock()
	}
	for _, r := range rows.COI {
		b.SetCOI(r.Product, r.Gender, r.Age, r.Rate)
	}
	for _, r := range rows.Premium {
		b.SetPremiumRate(r.Product, r.Gender, r.Age, r.Rate)
	}
	for _, r := range rows.ExtraPremium {
		b.SetExtraPremiumRate(r.Product, r.Gender, r.Age, r.Term, r.Rate)
	}
	for _, r := range rows.Modal {
		b.SetModalFactors(r.Product, r.Factors)
	}
	for _, r := range rows.Interest {
		b.SetInterestRates(r.Product, r.Rates)
	}
	for _, r := range rows.Ages {
		b.SetAgeBounds(r.Product, r.Bounds)
	}
	return b
}

func sortedKeys(m map[int]bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
