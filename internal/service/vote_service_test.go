package service

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCast_RejectsInvalidValue(t *testing.T) {
	svc := NewVoteService(noopVoteRepo(), noopPostRepo())

	for _, v := range []int{0, 2, -2, 42} {
		_, err := svc.Cast(context.Background(), CastVoteInput{UserID: 1, PostID: 1, Value: v})
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	}
}

func TestCast_MissingPost(t *testing.T) {
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc := NewVoteService(noopVoteRepo(), postRepo)

	_, err := svc.Cast(context.Background(), CastVoteInput{UserID: 1, PostID: 99, Value: models.VoteUp})
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestCast_FirstVoteCreates(t *testing.T) {
	var created *models.Vote
	voteRepo := noopVoteRepo()
	voteRepo.createFn = func(_ context.Context, v *models.Vote) error {
		created = v
		return nil
	}
	voteRepo.countsForPostFn = func(_ context.Context, _ uint) (repository.VoteCounts, error) {
		return repository.VoteCounts{Upvotes: 1}, nil
	}
	svc := NewVoteService(voteRepo, noopPostRepo())

	res, err := svc.Cast(context.Background(), CastVoteInput{UserID: 7, PostID: 3, Value: models.VoteUp})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint(7), created.UserID)
	assert.Equal(t, uint(3), created.PostID)
	assert.Equal(t, models.VoteUp, created.Value)
	assert.EqualValues(t, 1, res.Upvotes)
	assert.EqualValues(t, 1, res.Score)
	assert.Equal(t, models.VoteUp, res.UserVote)
}

func TestCast_SameValueTogglesOff(t *testing.T) {
	var deletedID uint
	voteRepo := noopVoteRepo()
	voteRepo.getByUserAndPostFn = func(_ context.Context, _, _ uint) (*models.Vote, error) {
		return &models.Vote{ID: 42, Value: models.VoteUp}, nil
	}
	voteRepo.deleteFn = func(_ context.Context, id uint) error {
		deletedID = id
		return nil
	}
	svc := NewVoteService(voteRepo, noopPostRepo())

	res, err := svc.Cast(context.Background(), CastVoteInput{UserID: 1, PostID: 1, Value: models.VoteUp})
	require.NoError(t, err)
	assert.Equal(t, uint(42), deletedID)
	assert.Zero(t, res.UserVote)
}

func TestCast_OppositeValueFlips(t *testing.T) {
	var updatedID uint
	var updatedValue int
	voteRepo := noopVoteRepo()
	voteRepo.getByUserAndPostFn = func(_ context.Context, _, _ uint) (*models.Vote, error) {
		return &models.Vote{ID: 42, Value: models.VoteUp}, nil
	}
	voteRepo.updateValueFn = func(_ context.Context, id uint, value int) error {
		updatedID = id
		updatedValue = value
		return nil
	}
	voteRepo.createFn = func(_ context.Context, _ *models.Vote) error {
		t.Fatal("flip must not insert a second row")
		return nil
	}
	voteRepo.countsForPostFn = func(_ context.Context, _ uint) (repository.VoteCounts, error) {
		return repository.VoteCounts{Downvotes: 1}, nil
	}
	svc := NewVoteService(voteRepo, noopPostRepo())

	res, err := svc.Cast(context.Background(), CastVoteInput{UserID: 1, PostID: 1, Value: models.VoteDown})
	require.NoError(t, err)
	assert.Equal(t, uint(42), updatedID)
	assert.Equal(t, models.VoteDown, updatedValue)
	assert.EqualValues(t, -1, res.Score)
	assert.Equal(t, models.VoteDown, res.UserVote)
}

func TestCast_DuplicateKeyRaceIsConflict(t *testing.T) {
	voteRepo := noopVoteRepo()
	voteRepo.createFn = func(_ context.Context, _ *models.Vote) error {
		return gorm.ErrDuplicatedKey
	}
	svc := NewVoteService(voteRepo, noopPostRepo())

	_, err := svc.Cast(context.Background(), CastVoteInput{UserID: 1, PostID: 1, Value: models.VoteUp})
	assertAppErrorCode(t, err, "CONFLICT")
}
