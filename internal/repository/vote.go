package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// VoteCounts holds the per-post vote tallies returned after ledger mutations.
type VoteCounts struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

// VoteRepository defines persistence operations for the vote ledger.
type VoteRepository interface {
	GetByUserAndPost(ctx context.Context, userID, postID uint) (*models.Vote, error)
	Create(ctx context.Context, vote *models.Vote) error
	UpdateValue(ctx context.Context, id uint, value int) error
	Delete(ctx context.Context, id uint) error
	CountsForPost(ctx context.Context, postID uint) (VoteCounts, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository returns a new VoteRepository implementation.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// GetByUserAndPost returns the user's vote on the post, or nil when none exists.
func (r *voteRepository) GetByUserAndPost(ctx context.Context, userID, postID uint) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *voteRepository) Create(ctx context.Context, vote *models.Vote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

func (r *voteRepository) UpdateValue(ctx context.Context, id uint, value int) error {
	return r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("id = ?", id).
		Update("value", value).Error
}

// Delete removes the vote row outright. Votes carry no soft-delete column,
// so the (user_id, post_id) unique slot is freed immediately.
func (r *voteRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Vote{}, id).Error
}

func (r *voteRepository) CountsForPost(ctx context.Context, postID uint) (VoteCounts, error) {
	var counts VoteCounts
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("post_id = ? AND value = ?", postID, models.VoteUp).
		Count(&counts.Upvotes).Error
	if err != nil {
		return counts, err
	}
	err = r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("post_id = ? AND value = ?", postID, models.VoteDown).
		Count(&counts.Downvotes).Error
	return counts, err
}
