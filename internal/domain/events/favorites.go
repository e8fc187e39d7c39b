package events

var FavoritesChangedTopic = "FavoritesChangedEvent"

type FavoritesChanged struct {
	UserID string
	JobIDs []int64
}

var UserChangedTopic = "UserChangedEvent"

type UserChanged struct {
	UserID string
}
