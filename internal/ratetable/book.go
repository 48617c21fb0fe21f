package ratetable

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
)

type productKey struct {
	product domain.ProductID
	table   string
}

type genderKey struct {
	product domain.ProductID
	gender  int
}

type premiumKey struct {
	product domain.ProductID
	gender  int
	age     int
}

type extraPremiumKey struct {
	product domain.ProductID
	gender  int
	age     int
	term    int
}

// MaxExtraPremiumTerm caps the term key of extra-premium lookups.
const MaxExtraPremiumTerm = 99

// Book is an in-memory Provider. It is safe for concurrent use; tables are
// returned as copies so projections never observe later writes.
type Book struct {
	mu           sync.RWMutex
	products     map[domain.ProductID]bool
	tables       map[productKey]*Table
	coi          map[genderKey]*Table
	premium      map[premiumKey]decimal.Decimal
	extraPremium map[extraPremiumKey]decimal.Decimal
	modal        map[domain.ProductID]ModalFactors
	interest     map[domain.ProductID]InterestRates
	ages         map[domain.ProductID]AgeBounds
}

// NewBook creates an empty rate book.
func NewBook() *Book {
	return &Book{
		products:     make(map[domain.ProductID]bool),
		tables:       make(map[productKey]*Table),
		coi:          make(map[genderKey]*Table),
		premium:      make(map[premiumKey]decimal.Decimal),
		extraPremium: make(map[extraPremiumKey]decimal.Decimal),
		modal:        make(map[domain.ProductID]ModalFactors),
		interest:     make(map[domain.ProductID]InterestRates),
		ages:         make(map[domain.ProductID]AgeBounds),
	}
}

// Products lists the products with any data, sorted.
func (b *Book) Products() []domain.ProductID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.ProductID, 0, len(b.products))
	for p := range b.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (b *Book) tableLocked(product domain.ProductID, name string) *Table {
	k := productKey{product, name}
	t, ok := b.tables[k]
	if !ok {
		t = NewTable(name, DefaultFor(name))
		b.tables[k] = t
	}
	b.products[product] = true
	return t
}

// SetAllocationCharge stores the TP and EP allocation charge rates of a policy year.
func (b *Book) SetAllocationCharge(product domain.ProductID, year int, tpRate, epRate decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tableLocked(product, TableTPAllocCharge).Set(year, tpRate)
	b.tableLocked(product, TableEPAllocCharge).Set(year, epRate)
}

// SetSurrenderCharge stores the surrender charge rate of a policy year.
func (b *Book) SetSurrenderCharge(product domain.ProductID, year int, rate decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tableLocked(product, TableSurrenderCharge).Set(year, rate)
}

// SetLoyaltyBonus stores the loyalty bonus rate of a policy year.
func (b *Book) SetLoyaltyBonus(product domain.ProductID, year int, rate decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tableLocked(product, TableLoyaltyBonus).Set(year, rate)
}

// SetJuvenileLien stores the juvenile lien factor of an attained age.
func (b *Book) SetJuvenileLien(product domain.ProductID, age int, factor decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tableLocked(product, TableJuvenileLien).Set(age, factor)
}

// SetAdminCharge stores the monthly admin charge of a calendar year.
func (b *Book) SetAdminCharge(product domain.ProductID, calendarYear int, amount decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tableLocked(product, TableAdminCharge).Set(calendarYear, amount)
}

// SetCOI stores the annual cost-of-insurance rate of an attained age.
func (b *Book) SetCOI(product domain.ProductID, genderCode, age int, rate decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := genderKey{product, genderCode}
	t, ok := b.coi[k]
	if !ok {
		t = NewTable(TableCOI, DefaultFor(TableCOI))
		b.coi[k] = t
	}
	t.Set(age, rate)
	b.products[product] = true
}

// SetPremiumRate stores the base premium rate per 1000 sum insured.
func (b *Book) SetPremiumRate(product domain.ProductID, genderCode, age int, rate decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.premium[premiumKey{product, genderCode, age}] = rate
	b.products[product] = true
}

// SetExtraPremiumRate stores the extra-mortality premium rate.
func (b *Book) SetExtraPremiumRate(product domain.ProductID, genderCode, age, term int, rate decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.extraPremium[extraPremiumKey{product, genderCode, age, term}] = rate
	b.products[product] = true
}

// SetModalFactors stores the payment-mode factors of a product.
func (b *Book) SetModalFactors(product domain.ProductID, f ModalFactors) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modal[product] = f
	b.products[product] = true
}

// SetInterestRates stores the crediting rates of a product.
func (b *Book) SetInterestRates(product domain.ProductID, r InterestRates) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.interest[product] = r
	b.products[product] = true
}

// SetAgeBounds stores the age-validation bounds of a product.
func (b *Book) SetAgeBounds(product domain.ProductID, a AgeBounds) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ages[product] = a
	b.products[product] = true
}

// perKeyTable returns a copy of a per-key table. A product the book knows
// nothing about is a configuration error; a known product without rows for
// the table gets an empty table that resolves to the default.
func (b *Book) perKeyTable(product domain.ProductID, name string) (*Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.products[product] {
		return nil, domain.NewMissingRateError(name, string(product))
	}
	if t, ok := b.tables[productKey{product, name}]; ok {
		return t.Clone(), nil
	}
	return NewTable(name, DefaultFor(name)), nil
}

func (b *Book) TPAllocationChargeRates(product domain.ProductID) (*Table, error) {
	return b.perKeyTable(product, TableTPAllocCharge)
}

func (b *Book) EPAllocationChargeRates(product domain.ProductID) (*Table, error) {
	return b.perKeyTable(product, TableEPAllocCharge)
}

func (b *Book) SurrenderChargeRates(product domain.ProductID) (*Table, error) {
	return b.perKeyTable(product, TableSurrenderCharge)
}

func (b *Book) LoyaltyBonusRates(product domain.ProductID) (*Table, error) {
	return b.perKeyTable(product, TableLoyaltyBonus)
}

func (b *Book) JuvenileLienFactors(product domain.ProductID) (*Table, error) {
	return b.perKeyTable(product, TableJuvenileLien)
}

func (b *Book) AdminCharges(product domain.ProductID) (*Table, error) {
	return b.perKeyTable(product, TableAdminCharge)
}

func (b *Book) COIRates(product domain.ProductID, gender domain.Gender) (*Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.products[product] {
		return nil, domain.NewMissingRateError(TableCOI, string(product))
	}
	if t, ok := b.coi[genderKey{product, gender.Code()}]; ok {
		return t.Clone(), nil
	}
	return NewTable(TableCOI, DefaultFor(TableCOI)), nil
}

func (b *Book) PremiumRate(product domain.ProductID, gender domain.Gender, age int) (decimal.Decimal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rate, ok := b.premium[premiumKey{product, gender.Code(), age}]
	if !ok {
		return decimal.Zero, domain.NewMissingRateError(TablePremiumRate, fmt.Sprintf("%s/%s/%d", product, gender, age))
	}
	return rate, nil
}

// ExtraPremiumRate caps term at MaxExtraPremiumTerm before the lookup.
func (b *Book) ExtraPremiumRate(product domain.ProductID, gender domain.Gender, age, term int) (decimal.Decimal, error) {
	if term > MaxExtraPremiumTerm {
		term = MaxExtraPremiumTerm
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	rate, ok := b.extraPremium[extraPremiumKey{product, gender.Code(), age, term}]
	if !ok {
		return decimal.Zero, domain.NewMissingRateError(TableExtraPremium, fmt.Sprintf("%s/%s/%d/%d", product, gender, age, term))
	}
	return rate, nil
}

func (b *Book) ModalFactors(product domain.ProductID) (ModalFactors, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	f, ok := b.modal[product]
	if !ok {
		return ModalFactors{}, domain.NewMissingRateError(TableModalFactor, string(product))
	}
	return f, nil
}

func (b *Book) InterestRates(product domain.ProductID) (InterestRates, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.interest[product]
	if !ok {
		return InterestRates{}, domain.NewMissingRateError(TableInterestRate, string(product))
	}
	return r, nil
}

func (b *Book) AgeBounds(product domain.ProductID) (AgeBounds, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.ages[product]
	if !ok {
		return AgeBounds{}, domain.NewMissingRateError(TableAgeValidation, string(product))
	}
	return a, nil
}
