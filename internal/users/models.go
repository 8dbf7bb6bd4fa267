// Package users defines the identity records tracked by the catalog: account
// identity, profile preferences, and the per-user wishlist.
package users

import "time"

// Status is the lifecycle state of an account.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Preferences captures user-tunable profile settings.
type Preferences struct {
	FavoriteGenres     []string `json:"favoriteGenres,omitempty"`
	FavoritePlatforms  []string `json:"favoritePlatforms,omitempty"`
	EmailNotifications bool     `json:"emailNotifications"`
	Theme              string   `json:"theme,omitempty"` // dark | light
}

// Review is a user-submitted game review kept inside profile metadata.
type Review struct {
	GameID      int64     `json:"gameId"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Metadata holds activity tracking attached to the profile.
type Metadata struct {
	GamesViewed        []int64  `json:"gamesViewed,omitempty"`
	ReviewsSubmitted   []Review `json:"reviewsSubmitted,omitempty"`
	FollowedDevelopers []string `json:"followedDevelopers,omitempty"`
}

// WishlistEntry is one saved game. Entries are keyed by GameID per owner; the
// descriptive fields are optional and come from the wishlist form.
type WishlistEntry struct {
	GameID   int64     `json:"gameId"`
	Title    string    `json:"title,omitempty"`
	Platform string    `json:"platform,omitempty"`
	Genres   []string  `json:"genres,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	AddedAt  time.Time `json:"addedAt"`
}

// User is the primary identity record. A user authenticates through Google
// (GoogleID set) or a password (PasswordHash set), or both when the accounts
// were linked by email.
type User struct {
	ID             string          `json:"id"`
	GoogleID       string          `json:"googleId,omitempty"`
	Email          string          `json:"email"`
	Username       string          `json:"username,omitempty"`
	FirstName      string          `json:"firstName,omitempty"`
	LastName       string          `json:"lastName,omitempty"`
	FullName       string          `json:"fullName,omitempty"`
	ProfilePicture string          `json:"profilePicture,omitempty"`
	PasswordHash   string          `json:"-"`
	Gender         string          `json:"gender,omitempty"`
	Platforms      []string        `json:"platforms,omitempty"`
	Status         Status          `json:"accountStatus"`
	Preferences    Preferences     `json:"preferences"`
	Metadata       Metadata        `json:"metadata"`
	Wishlist       []WishlistEntry `json:"wishlist"`
	LoginCount     int             `json:"loginCount"`
	LastLogin      *time.Time      `json:"lastLogin,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Clone returns a deep copy so store callers never share slices with the
// store's own record.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Platforms = append([]string(nil), u.Platforms...)
	cp.Preferences.FavoriteGenres = append([]string(nil), u.Preferences.FavoriteGenres...)
	cp.Preferences.FavoritePlatforms = append([]string(nil), u.Preferences.FavoritePlatforms...)
	cp.Metadata.GamesViewed = append([]int64(nil), u.Metadata.GamesViewed...)
	cp.Metadata.ReviewsSubmitted = append([]Review(nil), u.Metadata.ReviewsSubmitted...)
	cp.Metadata.FollowedDevelopers = append([]string(nil), u.Metadata.FollowedDevelopers...)
	if u.LastLogin != nil {
		t := *u.LastLogin
		cp.LastLogin = &t
	}
	cp.Wishlist = make([]WishlistEntry, len(u.Wishlist))
	for i, e := range u.Wishlist {
		cp.Wishlist[i] = e
		cp.Wishlist[i].Genres = append([]string(nil), e.Genres...)
	}
	return &cp
}

// HasWishlisted reports whether gameID is already saved.
func (u *User) HasWishlisted(gameID int64) bool {
	for _, e := range u.Wishlist {
		if e.GameID == gameID {
			return true
		}
	}
	return false
}
