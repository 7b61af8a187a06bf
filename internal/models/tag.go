package models

// Tag is a lowercase label shared across posts. Tags are weak references:
// deleting a post never deletes its tags.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null;index" json:"name"`
}
