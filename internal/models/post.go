// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents an authored entry in the feed. Score, Upvotes and Downvotes
// are never persisted; they are computed from the votes table at query time.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `json:"image_url"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	Tags     []Tag  `gorm:"many2many:post_tags" json:"tags"`
	// Score is the net vote total (upvotes minus downvotes), computed at query time
	Score int `gorm:"->;-:migration" json:"score"`
	// Upvotes is the count of +1 votes, computed at query time
	Upvotes int `gorm:"->;-:migration" json:"upvotes"`
	// Downvotes is the count of -1 votes, computed at query time
	Downvotes int            `gorm:"->;-:migration" json:"downvotes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TagNames returns the names of the post's tags in association order.
func (p *Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}
