package decimal

import (
	"github.com/shopspring/decimal"
)

// Thousand is the rounding unit for modal premiums and loads.
var Thousand = decimal.NewFromInt(1000)

// Twelve converts monthly installments to annual amounts.
var Twelve = decimal.NewFromInt(12)

// CeilToMultiple rounds d up to the next multiple of unit.
// The quotient is taken exactly so the result is never below d.
func CeilToMultiple(d, unit decimal.Decimal) decimal.Decimal {
	q, r := d.QuoRem(unit, 0)
	if r.IsPositive() {
		q = q.Add(decimal.NewFromInt(1))
	}
	return q.Mul(unit)
}

// CeilToThousand rounds d up to the next multiple of 1000.
func CeilToThousand(d decimal.Decimal) decimal.Decimal {
	return CeilToMultiple(d, Thousand)
}

// Flag returns 1 for true and 0 for false.
func Flag(b bool) decimal.Decimal {
	if b {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}

// Min returns the smaller of two amounts
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of two amounts
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Sum adds a list of amounts.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
