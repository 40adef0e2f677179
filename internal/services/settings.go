package services

import (
	"os"
	"time"
)

// Settings collects the scheduling knobs. Zero values are replaced with
// defaults by Normalize, so a literal Settings{} is safe in tests.
type Settings struct {
	// MiddayCutoff splits the business day into AM and PM periods
	MiddayCutoff string
	// OpenTime / CloseTime bound the normal operating window; shift minutes
	// outside it accrue as pre-open / post-close hours
	OpenTime  string
	CloseTime string
	// RetentionLimit is how many published versions to keep per (week, type)
	RetentionLimit int
	// QueueDelay is the fixed pause between persisted draft operations
	QueueDelay time.Duration
	// AutosaveDelay is the quiet period before draft summary totals are saved
	AutosaveDelay time.Duration
}

const (
	defaultMiddayCutoff   = "17:00"
	defaultOpenTime       = "09:00"
	defaultCloseTime      = "22:00"
	defaultRetentionLimit = 5
	defaultQueueDelay     = 300 * time.Millisecond
	defaultAutosaveDelay  = 2 * time.Second
)

// Normalize fills unset fields with defaults and returns the settings
func (s Settings) Normalize() Settings {
	if s.MiddayCutoff == "" {
		s.MiddayCutoff = defaultMiddayCutoff
	}
	if s.OpenTime == "" {
		s.OpenTime = defaultOpenTime
	}
	if s.CloseTime == "" {
		s.CloseTime = defaultCloseTime
	}
	if s.RetentionLimit <= 0 {
		s.RetentionLimit = defaultRetentionLimit
	}
	if s.QueueDelay <= 0 {
		s.QueueDelay = defaultQueueDelay
	}
	if s.AutosaveDelay <= 0 {
		s.AutosaveDelay = defaultAutosaveDelay
	}
	return s
}

// LoadSettings reads scheduling settings from environment variables
func LoadSettings() Settings {
	s := Settings{
		MiddayCutoff: os.Getenv("MIDDAY_CUTOFF"),
		OpenTime:     os.Getenv("STORE_OPEN_TIME"),
		CloseTime:    os.Getenv("STORE_CLOSE_TIME"),
	}
	return s.Normalize()
}
