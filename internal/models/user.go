package models

// User is the read-only projection of an account owned by the user service
type User struct {
	ID       string `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	IsAdmin  bool   `json:"isAdmin" db:"is_admin"`
}

// UserSummary is what page views list (no role information)
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ToSummary converts User to UserSummary
func (u *User) ToSummary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
	}
}
