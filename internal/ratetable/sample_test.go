package ratetable

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulproj/ul-projector/internal/domain"
)

func TestSampleBookAnchors(t *testing.T) {
	b := SampleBook()
	assert.Equal(t, []domain.ProductID{domain.ProductILP01, domain.ProductUVL01, domain.ProductUVL02, domain.ProductUVL03}, b.Products())

	tests := []struct {
		name   string
		lookup func() (decimal.Decimal, error)
		want   string
	}{
		{"male premium age 0", func() (decimal.Decimal, error) {
			return b.PremiumRate(domain.ProductUVL01, domain.GenderMale, 0)
		}, "10.6128"},
		{"male premium age 34", func() (decimal.Decimal, error) {
			return b.PremiumRate(domain.ProductUVL01, domain.GenderMale, 34)
		}, "21.04068"},
		{"female premium age 0", func() (decimal.Decimal, error) {
			return b.PremiumRate(domain.ProductUVL01, domain.GenderFemale, 0)
		}, "10.56"},
		{"male extra premium", func() (decimal.Decimal, error) {
			return b.ExtraPremiumRate(domain.ProductUVL01, domain.GenderMale, 10, 39)
		}, "1.53"},
		{"female extra premium", func() (decimal.Decimal, error) {
			return b.ExtraPremiumRate(domain.ProductUVL01, domain.GenderFemale, 20, 13)
		}, "1.19"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lookup()
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestSampleBookTables(t *testing.T) {
	b := SampleBook()

	modal, err := b.ModalFactors(domain.ProductUVL02)
	require.NoError(t, err)
	assert.True(t, modal.Monthly.Equal(decimal.RequireFromString("0.083333333")))

	rates, err := b.InterestRates(domain.ProductILP01)
	require.NoError(t, err)
	assert.True(t, rates.Guaranteed.IsZero())

	ages, err := b.AgeBounds(domain.ProductUVL01)
	require.NoError(t, err)
	assert.Equal(t, AgeBounds{MinEntryAge: -1, MaxEntryAge: 60, MaturityAge: -1}, ages)

	lb, err := b.LoyaltyBonusRates(domain.ProductUVL01)
	require.NoError(t, err)
	assert.True(t, lb.Lookup(3).IsZero())
	assert.True(t, lb.Lookup(8).Equal(decimal.RequireFromString("0.12")))

	lien, err := b.JuvenileLienFactors(domain.ProductUVL02)
	require.NoError(t, err)
	assert.True(t, lien.Lookup(0).Equal(decimal.RequireFromString("0.2")))
	assert.True(t, lien.Lookup(10).Equal(decimal.NewFromInt(1)))

	admin, err := b.AdminCharges(domain.ProductUVL03)
	require.NoError(t, err)
	assert.True(t, admin.Lookup(2024).Equal(decimal.NewFromInt(40000)))
	assert.True(t, admin.Lookup(2100).Equal(decimal.NewFromInt(66000)))

	male, err := b.COIRates(domain.ProductUVL01, domain.GenderMale)
	require.NoError(t, err)
	assert.True(t, male.Lookup(26).Equal(decimal.RequireFromString("0.00172")))
	assert.True(t, male.Lookup(99).Equal(decimal.NewFromInt(1)))
	for age := 27; age < 99; age++ {
		assert.True(t, male.Lookup(age).GreaterThan(male.Lookup(age-1)), "coi must rise after 26, age %d", age)
	}
}
