package domain

type PostMessageRequest struct {
	Author  string  `json:"author" validate:"required"`
	Body    string  `json:"body" validate:"required"`
	Lat     float64 `json:"lat" validate:"lat"`
	Lng     float64 `json:"lng" validate:"lng"`
	Channel string  `json:"channel"`
}

type FetchNearbyRequest struct {
	Lat         float64 `json:"lat" validate:"lat"`
	Lng         float64 `json:"lng" validate:"lng"`
	RadiusMiles float64 `json:"radius_miles" validate:"omitempty,radius_miles"`
	Channel     string  `json:"channel"`
	Limit       int     `json:"limit" validate:"omitempty,min=1,max=500"`
}

type FetchNearbyResponse struct {
	Messages []Message `json:"messages"`
}

type SavePreferencesRequest struct {
	DisplayName string  `json:"display_name" validate:"required"`
	RadiusMiles float64 `json:"radius_miles" validate:"omitempty,radius_miles"`
	Channel     string  `json:"channel"`
}

// PresenceUpdate is the inbound realtime frame: a client declaring where it
// is and what it wants to hear. Every field is applied wholesale.
type PresenceUpdate struct {
	Lat         float64 `json:"lat" validate:"lat"`
	Lng         float64 `json:"lng" validate:"lng"`
	RadiusMiles float64 `json:"radius_miles"`
	Channel     string  `json:"channel"`
}
