package model

import "time"

// Category is a user-defined transaction grouping.
type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"` // "income" or "expense"
	Emoji     string    `json:"emoji"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryPatch holds fields that can be updated on a category.
type CategoryPatch struct {
	Name  *string
	Type  *string
	Emoji *string
	Color *string
}
