package service

import (
	"context"
	"errors"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

type VoteService struct {
	voteRepo repository.VoteRepository
	postRepo repository.PostRepository
}

type CastVoteInput struct {
	UserID uint
	PostID uint
	Value  int
}

// VoteResult reports the post's tallies after a ledger mutation. UserVote is
// the caller's remaining vote, 0 when toggled off.
type VoteResult struct {
	PostID    uint  `json:"post_id"`
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	Score     int64 `json:"score"`
	UserVote  int   `json:"user_vote"`
}

func NewVoteService(voteRepo repository.VoteRepository, postRepo repository.PostRepository) *VoteService {
	return &VoteService{voteRepo: voteRepo, postRepo: postRepo}
}

// Cast applies one vote command against the ledger. Repeating the current
// vote removes it, voting the other way updates the row in place, and a first
// vote inserts one. The (user, post) unique index backstops concurrent
// inserts; losing that race reports a conflict rather than corrupting tallies.
func (s *VoteService) Cast(ctx context.Context, in CastVoteInput) (*VoteResult, error) {
	if !models.ValidVoteValue(in.Value) {
		return nil, models.NewValidationError("Vote value must be 1 or -1")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	existing, err := s.voteRepo.GetByUserAndPost(ctx, in.UserID, in.PostID)
	if err != nil {
		return nil, err
	}

	userVote := in.Value
	switch {
	case existing == nil:
		vote := &models.Vote{UserID: in.UserID, PostID: in.PostID, Value: in.Value}
		if err := s.voteRepo.Create(ctx, vote); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, models.NewConflictError("Vote already recorded, retry")
			}
			return nil, err
		}
		middleware.VotesCast.WithLabelValues("created").Inc()
	case existing.Value == in.Value:
		if err := s.voteRepo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		userVote = 0
		middleware.VotesCast.WithLabelValues("removed").Inc()
	default:
		if err := s.voteRepo.UpdateValue(ctx, existing.ID, in.Value); err != nil {
			return nil, err
		}
		middleware.VotesCast.WithLabelValues("flipped").Inc()
	}

	counts, err := s.voteRepo.CountsForPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	return &VoteResult{
		PostID:    in.PostID,
		Upvotes:   counts.Upvotes,
		Downvotes: counts.Downvotes,
		Score:     counts.Upvotes - counts.Downvotes,
		UserVote:  userVote,
	}, nil
}
