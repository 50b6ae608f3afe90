package domain

import "time"

const DefaultRadiusMiles = 5.0

// Preference is the durable per-session settings record. A save overwrites
// the whole record; there is no partial update.
type Preference struct {
	SessionID   string    `json:"session_id"`
	DisplayName string    `json:"display_name"`
	RadiusMiles float64   `json:"radius_miles"`
	Channel     string    `json:"channel"`
	LastActive  time.Time `json:"last_active"`
}
