package application

import "time"

// ---- small interfaces to decouple the facade from concrete infra types ----

// Translator resolves localized user-facing texts.
type Translator interface {
	T(key string, args ...interface{}) string
}

// UserTracker records user activity. SessionTracker implements it.
type UserTracker interface {
	// Touch marks the user as seen and reports whether they are new.
	Touch(userID int64, now time.Time) bool
	RecordDownload(userID int64, now time.Time)
}
