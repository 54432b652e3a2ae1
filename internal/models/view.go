package models

// ChatView is the data behind the main chat page
type ChatView struct {
	IsAdmin  bool          `json:"isAdmin"`
	Users    []UserSummary `json:"users"`
	Channels []Channel     `json:"channels"`
	UserID   string        `json:"userId"`
	Username string        `json:"username"`
}

// ChannelsView is the data behind the channel creation page
type ChannelsView struct {
	Users    []UserSummary `json:"users"`
	Channels []Channel     `json:"channels"`
	UserID   string        `json:"userId"`
	Username string        `json:"username"`
}
