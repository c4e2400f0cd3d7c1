// Package tracker folds device signals into running totals, persists day and
// hour snapshots, and derives the gamified read model from them.
package tracker

import (
	"ecotracker/internal/models"
	"ecotracker/internal/structures"
	"math"
)

// Factors are the fixed conversion constants. Every fix counts as the same
// nominal movement quantum regardless of the real distance covered.
type Factors struct {
	DistancePerFixKm  float64
	CarbonFactorPerKm float64
}

func FactorsFromConfig(conf *structures.Config) Factors {
	return Factors{
		DistancePerFixKm:  conf.Tracker.DistancePerFixKm,
		CarbonFactorPerKm: conf.Tracker.CarbonFactorPerKm,
	}
}

// Accumulator owns RunningTotals. It is not safe for concurrent use; the
// tracker loop is its only caller.
type Accumulator struct {
	factors Factors
	totals  models.RunningTotals
	denied  bool

	// battery usage = base (seeded from today's snapshot) + level drop since
	// offset, where offset is the part of the session drop booked to earlier days
	batteryBase   float64
	batteryOffset float64
	lastDelta     float64
}

func NewAccumulator(factors Factors) *Accumulator {
	return &Accumulator{factors: factors}
}

// Seed resumes today's totals from a stored snapshot before any event arrives.
func (a *Accumulator) Seed(s models.DailySnapshot) {
	a.totals = s.Totals()
	a.batteryBase = s.BatteryUsedPercent
	a.batteryOffset = a.lastDelta
}

func (a *Accumulator) ApplyFix(fix models.Fix) {
	if a.denied {
		return
	}
	a.totals.DistanceKm += a.factors.DistancePerFixKm
	a.totals.CarbonKg += a.factors.DistancePerFixKm * a.factors.CarbonFactorPerKm
	a.totals.SpeedKmh = math.Max(0, fix.SpeedMetersPerSecond) * 3.6
	a.totals.LastLocation = &models.Location{Latitude: fix.Latitude, Longitude: fix.Longitude}
}

// ApplyBattery takes the level drop since the session reference reading
// (positive means the battery drained).
func (a *Accumulator) ApplyBattery(levelDelta float64) {
	a.lastDelta = levelDelta
	a.totals.BatteryUsedPercent = a.batteryBase + math.Max(0, (levelDelta-a.batteryOffset)*100)
}

// RebaseBattery folds the usage so far into the base when a new battery
// session starts measuring from a fresh reference level.
func (a *Accumulator) RebaseBattery() {
	a.batteryBase = a.totals.BatteryUsedPercent
	a.batteryOffset = 0
	a.lastDelta = 0
}

func (a *Accumulator) Tick() {
	a.totals.ActiveSeconds++
}

func (a *Accumulator) Deny() {
	a.denied = true
}

func (a *Accumulator) ClearDenial() {
	a.denied = false
}

func (a *Accumulator) Denied() bool {
	return a.denied
}

// Rollover starts a new calendar day. Speed and location are carried over.
func (a *Accumulator) Rollover() {
	a.totals = models.RunningTotals{
		SpeedKmh:     a.totals.SpeedKmh,
		LastLocation: a.totals.LastLocation,
	}
	a.batteryBase = 0
	a.batteryOffset = a.lastDelta
}

func (a *Accumulator) Totals() models.RunningTotals {
	t := a.totals
	if t.LastLocation != nil {
		loc := *t.LastLocation
		t.LastLocation = &loc
	}
	return t
}
