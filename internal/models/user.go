package models

// User is the session identity: who is logged in and which apps the
// storefront treats as installed for them. AppIDs is a set; membership is
// optimistically maintained client-side after confirmed installs/uninstalls.
type User struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username"`
	AppIDs   []int64 `json:"app_ids"`
}

// HasApp reports whether appID is in the user's installed set.
func (u User) HasApp(appID int64) bool {
	for _, id := range u.AppIDs {
		if id == appID {
			return true
		}
	}
	return false
}
