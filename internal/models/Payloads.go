package models

// PositionInput is posted by the page for every watchPosition callback.
type PositionInput struct {
	Latitude    float64  `json:"latitude" validate:"float|min:-90|max:90"`
	Longitude   float64  `json:"longitude" validate:"float|min:-180|max:180"`
	Speed       *float64 `json:"speed"`
	TimestampMs int64    `json:"timestamp"`
}

type PositionErrorInput struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type BatteryInput struct {
	Level float64 `json:"level" validate:"float|min:0|max:1"`
}

type VisibilityInput struct {
	Hidden bool `json:"hidden"`
}

type SessionInput struct {
	Email    string `json:"email" validate:"required|email"`
	LoggedIn bool   `json:"loggedIn"`
}

// TrackDeviceInput mirrors the reference ingestion endpoint payload.
type TrackDeviceInput struct {
	Email       string    `json:"email" validate:"required|email"`
	Carbon      float64   `json:"carbon"`
	BatteryUsed float64   `json:"batteryUsed"`
	Distance    float64   `json:"distance"`
	Speed       float64   `json:"speed"`
	Location    *Location `json:"location"`
}
