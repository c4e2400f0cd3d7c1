package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	Driver       string        `yaml:"driver" validate:"required|in:file,memory"`
	FilePath     string        `yaml:"filePath" validate:"unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// TrackerConfig holds the conversion constants and timing of the accumulator.
type TrackerConfig struct {
	DistancePerFixKm   float64       `yaml:"distancePerFixKm" validate:"required"`
	CarbonFactorPerKm  float64       `yaml:"carbonFactorPerKm" validate:"required"`
	ActiveTickInterval time.Duration `yaml:"activeTickInterval" validate:"required|min:1"`
	FixMaxAge          time.Duration `yaml:"fixMaxAge"`
	FixTimeout         time.Duration `yaml:"fixTimeout" validate:"required|min:1"`
	HighAccuracy       bool          `yaml:"highAccuracy"`
	WakeLockRetryDelay time.Duration `yaml:"wakeLockRetryDelay" validate:"required|min:1"`
	HourlyWindow       time.Duration `yaml:"hourlyWindow" validate:"required|min:1"`
	HistoryDays        int           `yaml:"historyDays" validate:"required|uint|min:1"`
	Timezone           string        `yaml:"timezone"`
}

// DeviceConfig is the capability descriptor of the device bridge.
type DeviceConfig struct {
	Geolocation bool `yaml:"geolocation"`
	Battery     bool `yaml:"battery"`
	WakeLock    bool `yaml:"wakeLock"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Tracker     TrackerConfig `yaml:"tracker"`
	Device      DeviceConfig  `yaml:"device"`
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
}
