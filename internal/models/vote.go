package models

import "time"

// Vote values.
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote records a single user's judgement on a post. The combination of
// UserID and PostID is unique; a toggle-off hard-deletes the row, so votes
// deliberately carry no soft-delete column.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Value     int       `gorm:"not null" json:"value"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_votes_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_votes_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidVoteValue reports whether v is an accepted vote value.
func ValidVoteValue(v int) bool {
	return v == VoteUp || v == VoteDown
}
