// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tagNames []string) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	FindForFeed(ctx context.Context, query string) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post, tagNames []string) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// postDetailsSelect computes the derived vote columns in a single query.
// Score and the up/down counts are never persisted.
const postDetailsSelect = "posts.*, " +
	"COALESCE((SELECT SUM(value) FROM votes WHERE votes.post_id = posts.id), 0) AS score, " +
	"(SELECT COUNT(*) FROM votes WHERE votes.post_id = posts.id AND votes.value = 1) AS upvotes, " +
	"(SELECT COUNT(*) FROM votes WHERE votes.post_id = posts.id AND votes.value = -1) AS downvotes"

func (r *postRepository) Create(ctx context.Context, post *models.Post, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		tags, err := findOrCreateTags(tx, tagNames)
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			return nil
		}
		return tx.Model(post).Association("Tags").Append(tags)
	})
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Select(postDetailsSelect).
		Preload("Author").
		Preload("Tags").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return &post, nil
}

// FindForFeed loads every post matching the optional query, with author and
// tags preloaded and vote aggregates computed. Ranking and pagination happen
// in the service layer; this is a deliberate full scan.
func (r *postRepository) FindForFeed(ctx context.Context, query string) ([]*models.Post, error) {
	db := r.db.WithContext(ctx).Model(&models.Post{})

	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		db = db.
			Select("DISTINCT "+postDetailsSelect).
			Joins("JOIN users ON users.id = posts.author_id AND users.deleted_at IS NULL").
			Joins("LEFT JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("LEFT JOIN tags ON tags.id = post_tags.tag_id").
			Where(
				"LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR LOWER(users.username) LIKE ? OR LOWER(tags.name) LIKE ?",
				like, like, like, like,
			)
	} else {
		db = db.Select(postDetailsSelect)
	}

	var posts []*models.Post
	err := db.
		Preload("Author").
		Preload("Tags").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Select(postDetailsSelect).
		Preload("Author").
		Preload("Tags").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(post).Updates(map[string]interface{}{
			"title":     post.Title,
			"content":   post.Content,
			"image_url": post.ImageURL,
		}).Error; err != nil {
			return err
		}
		tags, err := findOrCreateTags(tx, tagNames)
		if err != nil {
			return err
		}
		return tx.Model(post).Association("Tags").Replace(tags)
	})
}

// Delete removes a post together with its comments and votes. Tag rows are
// weak references and survive; only the join rows go.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// findOrCreateTags resolves each name to an existing Tag row or creates it.
// Names are assumed already normalized to lowercase by the hashtag package;
// exact-name lookup keeps case variants from coexisting.
func findOrCreateTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		var tag models.Tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = models.Tag{Name: name}
			err = tx.Create(&tag).Error
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
