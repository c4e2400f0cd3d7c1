package tracker

import (
	"ecotracker/internal/models"
	"math"
)

const (
	xpPerKg    = 10000
	xpPerLevel = 500
)

// RankTiers is ordered by ascending threshold; Index matches the position.
var RankTiers = []models.RankTier{
	{Index: 0, Name: "Eco Rookie", MinCarbonKg: 0, Badge: "seedling"},
	{Index: 1, Name: "Green Scout", MinCarbonKg: 0.01, Badge: "leaf"},
	{Index: 2, Name: "Earth Ranger", MinCarbonKg: 0.05, Badge: "tree"},
	{Index: 3, Name: "Climate Guardian", MinCarbonKg: 0.1, Badge: "shield"},
	{Index: 4, Name: "Planet Hero", MinCarbonKg: 0.5, Badge: "globe"},
}

// RankFor returns the highest tier whose threshold is <= carbonKg.
func RankFor(carbonKg float64) models.RankTier {
	for i := len(RankTiers) - 1; i >= 0; i-- {
		if carbonKg >= RankTiers[i].MinCarbonKg {
			return RankTiers[i]
		}
	}
	return RankTiers[0]
}

// NextRankProgress is the fraction of the way from the current tier threshold
// to the next one. It is 1 on the top tier.
func NextRankProgress(carbonKg float64) float64 {
	current := RankFor(carbonKg)
	if current.Index+1 >= len(RankTiers) {
		return 1
	}
	next := RankTiers[current.Index+1]
	span := next.MinCarbonKg - current.MinCarbonKg
	p := (carbonKg - current.MinCarbonKg) / span
	return math.Min(1, math.Max(0, p))
}

func XP(carbonKg float64) int64 {
	if carbonKg <= 0 {
		return 0
	}
	return int64(math.Floor(carbonKg * xpPerKg))
}

// XPRingPercent is the progress through the current 500 XP level.
func XPRingPercent(xp int64) float64 {
	if xp <= 0 {
		return 0
	}
	return float64(xp%xpPerLevel) / xpPerLevel * 100
}

type equivalent struct {
	minCarbonKg float64
	text        string
}

// kg CO2e per everyday activity: smartphone charge 0.00822, passenger car mile 0.393.
var ecoEquivalents = []equivalent{
	{0, "Less than a single smartphone charge"},
	{0.00822, "About one smartphone charge"},
	{0.0411, "About five smartphone charges"},
	{0.0822, "About ten smartphone charges"},
	{0.1965, "About half a mile driven by car"},
	{0.393, "About one mile driven by car"},
	{1.965, "About five miles driven by car"},
}

// EcoEquivalentFor maps carbon to a human-readable comparison.
func EcoEquivalentFor(carbonKg float64) string {
	text := ecoEquivalents[0].text
	for _, e := range ecoEquivalents {
		if carbonKg >= e.minCarbonKg {
			text = e.text
		}
	}
	return text
}

// Mission is a daily goal evaluated against the day's totals.
type Mission struct {
	ID    string
	Title string
	Done  func(t models.RunningTotals) bool
}

var DailyMissions = []Mission{
	{
		ID:    "move-1km",
		Title: "Move at least 1 km",
		Done:  func(t models.RunningTotals) bool { return t.DistanceKm >= 1 },
	},
	{
		ID:    "active-10min",
		Title: "Stay active for 10 minutes",
		Done:  func(t models.RunningTotals) bool { return t.ActiveSeconds >= 600 },
	},
	{
		ID:    "low-carbon",
		Title: "Keep the footprint under 0.1 kg CO2",
		Done:  func(t models.RunningTotals) bool { return t.CarbonKg < 0.1 },
	},
	{
		ID:    "battery-saver",
		Title: "Use no more than 20% battery",
		Done:  func(t models.RunningTotals) bool { return t.BatteryUsedPercent <= 20 },
	},
}

func EvaluateMissions(t models.RunningTotals) ([]models.MissionStatus, int) {
	out := make([]models.MissionStatus, 0, len(DailyMissions))
	completed := 0
	for _, m := range DailyMissions {
		done := m.Done(t)
		if done {
			completed++
		}
		out = append(out, models.MissionStatus{ID: m.ID, Title: m.Title, Done: done})
	}
	return out, completed
}
