package models

// LoadStatus reports how a persisted collection was initialised.
type LoadStatus string

const (
	// LoadStatusLoaded means the stored value was read and decoded.
	LoadStatusLoaded LoadStatus = "loaded"
	// LoadStatusEmpty means nothing was stored under the key.
	LoadStatusEmpty LoadStatus = "empty"
	// LoadStatusRecovered means the stored value was malformed and was
	// replaced by an empty collection.
	LoadStatusRecovered LoadStatus = "recovered"
)

// UsedDefault reports whether the collection started from the empty default.
func (s LoadStatus) UsedDefault() bool {
	return s != LoadStatusLoaded
}

// LoadReport carries the load status of each persisted collection.
type LoadReport struct {
	Favourites LoadStatus `json:"favourites"`
	Alerts     LoadStatus `json:"alerts"`
	History    LoadStatus `json:"history"`
}

// ProfileSummary is the account view of a profile.
type ProfileSummary struct {
	ProfileID      string     `json:"profileId"`
	FavouriteCount int        `json:"favouriteCount"`
	AlertCount     int        `json:"alertCount"`
	HistoryCount   int        `json:"historyCount"`
	Load           LoadReport `json:"load"`
}
