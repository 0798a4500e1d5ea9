package models

import "time"

// User is a persisted mobile identity.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	FirstName      *string   `json:"firstName"`
	LastName       *string   `json:"lastName"`
	Role           string    `json:"role"`
	Theme          Theme     `json:"theme"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserPublic is the sanitized view of a User returned to clients.
type UserPublic struct {
	ID             int64    `json:"id"`
	Username       string   `json:"username"`
	FirstName      *string  `json:"firstName"`
	LastName       *string  `json:"lastName"`
	Roles          []string `json:"roles"`
	Theme          Theme    `json:"theme"`
	ProfilePicture *string  `json:"profilePicture"`
}

// Public strips credentials from u.
func (u User) Public() UserPublic {
	return UserPublic{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Roles:          []string{u.Role},
		Theme:          u.Theme,
		ProfilePicture: u.ProfilePicture,
	}
}
