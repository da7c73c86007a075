package models

// App represents a store listing as served by the remote API.
type App struct {
	AppID     int64   `json:"app_id"`
	AppName   string  `json:"app_name"`
	Icon      string  `json:"icon"`
	Price     float64 `json:"price"`
	Rating    float64 `json:"rating"`
	Downloads int64   `json:"downloads"`
}

// Free reports whether the app costs nothing.
func (a App) Free() bool {
	return a.Price == 0
}

// AppDetails is the full detail-page payload for a single app.
// It is fetched per view and never cached across views.
type AppDetails struct {
	App
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	LastUpdate  string    `json:"last_update"`
	Tags        []string  `json:"tags"`
	Comments    []Comment `json:"comments"`
}

// Comment is a user review attached to one app. The username is denormalized
// by the remote API for display.
type Comment struct {
	CommentID int64  `json:"comment_id"`
	AppID     int64  `json:"app_id"`
	UserID    int64  `json:"user_id"`
	Stars     int    `json:"stars"`
	Comment   string `json:"comment"`
	Date      string `json:"date"`
	Username  string `json:"username"`
}

// OwnedBy reports whether the comment belongs to the given user. This only
// drives which affordances the storefront shows; ownership is enforced by
// the remote API on mutation.
func (c Comment) OwnedBy(userID int64) bool {
	return c.UserID == userID
}
