package models

import "github.com/samber/lo"

// Channel represents a group conversation and its members
type Channel struct {
	ID          string   `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Description string   `json:"description" db:"description"`
	Members     []string `json:"members" db:"members"`
	Type        string   `json:"type" db:"type"`
}

// HasMember reports whether userID belongs to the channel
func (c *Channel) HasMember(userID string) bool {
	return lo.Contains(c.Members, userID)
}
