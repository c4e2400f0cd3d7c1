package models

// DailySnapshot is stored under "daily:{YYYY-MM-DD}".
type DailySnapshot struct {
	CarbonKg           float64 `json:"carbonKg"`
	BatteryUsedPercent float64 `json:"batteryUsedPercent"`
	DistanceKm         float64 `json:"distanceKm"`
	ActiveSeconds      int64   `json:"activeSeconds"`
	LastSavedAtEpochMs int64   `json:"lastSavedAtEpochMs"`
}

// Totals converts a stored snapshot back into running totals.
func (s DailySnapshot) Totals() RunningTotals {
	return RunningTotals{
		CarbonKg:           s.CarbonKg,
		DistanceKm:         s.DistanceKm,
		BatteryUsedPercent: s.BatteryUsedPercent,
		ActiveSeconds:      s.ActiveSeconds,
	}
}

// HourlySample is one element of the ordered list stored under "hourly:{YYYY-MM-DD}".
type HourlySample struct {
	HourLabel  string  `json:"hourLabel"`
	CarbonKg   float64 `json:"carbonKg"`
	DistanceKm float64 `json:"distanceKm"`
}

// StreakRecord is the singleton stored under "streak".
type StreakRecord struct {
	Days     int    `json:"days"`
	LastDate string `json:"lastDate"`
}

// DayHistory is one entry of the reconstructed weekly history.
type DayHistory struct {
	Date string `json:"date"`
	DailySnapshot
}
