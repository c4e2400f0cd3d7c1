package models

type Capabilities struct {
	Geolocation bool `json:"geolocation"`
	Battery     bool `json:"battery"`
	WakeLock    bool `json:"wakeLock"`
}

type RankTier struct {
	Name        string  `json:"name"`
	MinCarbonKg float64 `json:"minCarbonKg"`
	Index       int     `json:"index"`
	Badge       string  `json:"badge"`
}

type MissionStatus struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// ReadModel is everything the presentation layer renders.
// DeviceStatus is the live state of the device subscriptions.
type DeviceStatus struct {
	Watching     bool `json:"watching"`
	WakeLockHeld bool `json:"wakeLockHeld"`
	ClockRunning bool `json:"clockRunning"`
	Hidden       bool `json:"hidden"`
}

type ReadModel struct {
	CarbonKg           float64         `json:"carbonKg"`
	DistanceKm         float64         `json:"distanceKm"`
	BatteryUsedPercent float64         `json:"batteryUsedPercent"`
	SpeedKmh           float64         `json:"speedKmh"`
	LastLocation       *Location       `json:"lastLocation"`
	ActiveSeconds      int64           `json:"activeSeconds"`
	PermissionDenied   bool            `json:"permissionDenied"`
	IsTracking         bool            `json:"isTracking"`
	RankTier           RankTier        `json:"rankTier"`
	NextRankProgress   float64         `json:"nextRankProgress"`
	XP                 int64           `json:"xp"`
	XPRingPercent      float64         `json:"xpRingPercent"`
	StreakDays         int             `json:"streakDays"`
	EcoEquivalent      string          `json:"ecoEquivalent"`
	Missions           []MissionStatus `json:"missions"`
	MissionsCompleted  int             `json:"missionsCompleted"`
	Supported          Capabilities    `json:"supported"`
	Date               string          `json:"date"`
}
