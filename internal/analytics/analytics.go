// Package analytics folds collected listings into impact metrics.
package analytics

import (
	"math"
	"sort"
	"time"

	"ssf-backend/internal/domain"
)

// Unit-to-mass conversion factors. Liters count as one kilogram each.
const (
	kgPerPlate = 0.35
	kgPerPiece = 0.20
	kgPerLiter = 1.0
)

// minServingKg guards the per-day servings division.
const minServingKg = 0.0001

// Day is one point of the daily series.
type Day struct {
	Date     string  `json:"date"`
	Kg       float64 `json:"kg"`
	Servings int     `json:"servings"`
}

// Result summarises collected surplus.
type Result struct {
	TotalKg       float64 `json:"totalKg"`
	TotalServings int     `json:"totalServings"`
	CO2           float64 `json:"co2"`
	Water         float64 `json:"water"`
	Series        []Day   `json:"series"`
}

// ToKg converts a quantity in unit to kilograms.
func ToKg(qty float64, unit domain.Unit) float64 {
	switch unit {
	case domain.UnitPlates:
		return qty * kgPerPlate
	case domain.UnitPieces:
		return qty * kgPerPiece
	case domain.UnitLiters:
		return qty * kgPerLiter
	default:
		return qty
	}
}

// Compute aggregates the collected listings in items. Days are keyed by the calendar date
// of CreatedAt in loc (time.Local when nil).
func Compute(items []domain.Listing, f domain.ImpactFactors, loc *time.Location) Result {
	if loc == nil {
		loc = time.Local
	}
	res := Result{Series: []Day{}}
	byDay := map[string]*Day{}
	for _, l := range items {
		if l.Status != domain.StatusCollected {
			continue
		}
		kg := ToKg(l.Quantity, l.Unit)
		res.TotalKg += kg

		key := l.CreatedAt.In(loc).Format("2006-01-02")
		d, ok := byDay[key]
		if !ok {
			d = &Day{Date: key}
			byDay[key] = d
		}
		d.Kg += kg
		d.Servings = round(d.Kg / math.Max(minServingKg, f.AvgServingKg))
	}
	if f.AvgServingKg > 0 {
		res.TotalServings = round(res.TotalKg / f.AvgServingKg)
	}
	res.CO2 = res.TotalKg * f.KgCO2PerKg
	res.Water = res.TotalKg * f.LitersWaterPerKg

	for _, d := range byDay {
		res.Series = append(res.Series, *d)
	}
	sort.Slice(res.Series, func(i, j int) bool { return res.Series[i].Date < res.Series[j].Date })
	return res
}

// round rounds half up, the way the daily figures have always been presented.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}
