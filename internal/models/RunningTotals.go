package models

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RunningTotals is the in-memory state folded from device signals.
// Cumulative fields only grow within a calendar day.
type RunningTotals struct {
	CarbonKg           float64   `json:"carbonKg"`
	DistanceKm         float64   `json:"distanceKm"`
	BatteryUsedPercent float64   `json:"batteryUsedPercent"`
	SpeedKmh           float64   `json:"speedKmh"`
	LastLocation       *Location `json:"lastLocation"`
	ActiveSeconds      int64     `json:"activeSeconds"`
}

// Snapshot drops the ephemeral speed and location fields.
func (t RunningTotals) Snapshot(savedAtMs int64) DailySnapshot {
	return DailySnapshot{
		CarbonKg:           t.CarbonKg,
		BatteryUsedPercent: t.BatteryUsedPercent,
		DistanceKm:         t.DistanceKm,
		ActiveSeconds:      t.ActiveSeconds,
		LastSavedAtEpochMs: savedAtMs,
	}
}
