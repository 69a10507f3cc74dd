package analytics

import (
	"testing"
	"time"

	"ssf-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var factors = domain.ImpactFactors{KgCO2PerKg: 2.5, LitersWaterPerKg: 1500, AvgServingKg: 0.35}

func TestCompute_ReferenceExample(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)
	items := []domain.Listing{
		{Status: domain.StatusCollected, Quantity: 10, Unit: domain.UnitPlates, CreatedAt: day1},
		{Status: domain.StatusCollected, Quantity: 2, Unit: domain.UnitKg, CreatedAt: day1},
		{Status: domain.StatusAvailable, Quantity: 100, Unit: domain.UnitKg, CreatedAt: day2},
	}

	res := Compute(items, factors, time.UTC)

	assert.InDelta(t, 5.5, res.TotalKg, 1e-9)
	assert.Equal(t, 16, res.TotalServings)
	assert.InDelta(t, 13.75, res.CO2, 1e-9)
	assert.InDelta(t, 8250, res.Water, 1e-6)
	require.Len(t, res.Series, 1)
	assert.Equal(t, "2025-03-10", res.Series[0].Date)
	assert.InDelta(t, 5.5, res.Series[0].Kg, 1e-9)
	assert.Equal(t, 16, res.Series[0].Servings)
}

func TestCompute_UnitConversion(t *testing.T) {
	assert.InDelta(t, 3.0, ToKg(3, domain.UnitKg), 1e-9)
	assert.InDelta(t, 0.7, ToKg(2, domain.UnitPlates), 1e-9)
	assert.InDelta(t, 1.0, ToKg(5, domain.UnitPieces), 1e-9)
	assert.InDelta(t, 4.0, ToKg(4, domain.UnitLiters), 1e-9)
}

func TestCompute_SeriesSortedAndGroupedByLocalDate(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	items := []domain.Listing{
		// 20:00 UTC is already the next day at UTC+5
		{Status: domain.StatusCollected, Quantity: 1, Unit: domain.UnitKg, CreatedAt: time.Date(2025, 3, 11, 20, 0, 0, 0, time.UTC)},
		{Status: domain.StatusCollected, Quantity: 1, Unit: domain.UnitKg, CreatedAt: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)},
		{Status: domain.StatusCollected, Quantity: 1, Unit: domain.UnitKg, CreatedAt: time.Date(2025, 3, 12, 1, 0, 0, 0, time.UTC)},
	}

	res := Compute(items, factors, loc)
	require.Len(t, res.Series, 2)
	assert.Equal(t, "2025-03-10", res.Series[0].Date)
	assert.Equal(t, "2025-03-12", res.Series[1].Date)
	assert.InDelta(t, 2.0, res.Series[1].Kg, 1e-9)
	assert.Equal(t, 6, res.Series[1].Servings)
}

func TestCompute_ZeroServingMass(t *testing.T) {
	items := []domain.Listing{
		{Status: domain.StatusCollected, Quantity: 1, Unit: domain.UnitKg, CreatedAt: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)},
	}
	res := Compute(items, domain.ImpactFactors{KgCO2PerKg: 1, LitersWaterPerKg: 1}, time.UTC)
	assert.Equal(t, 0, res.TotalServings)
	require.Len(t, res.Series, 1)
	assert.Equal(t, 10000, res.Series[0].Servings)
}

func TestCompute_EmptyAndDeterministic(t *testing.T) {
	res := Compute(nil, factors, time.UTC)
	assert.Zero(t, res.TotalKg)
	assert.NotNil(t, res.Series)
	assert.Empty(t, res.Series)

	items := []domain.Listing{
		{Status: domain.StatusCollected, Quantity: 3, Unit: domain.UnitPieces, CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{Status: domain.StatusCollected, Quantity: 7, Unit: domain.UnitLiters, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	assert.Equal(t, Compute(items, factors, time.UTC), Compute(items, factors, time.UTC))
}
