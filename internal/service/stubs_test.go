package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn       func(context.Context, *models.Post, []string) error
	getByIDFn      func(context.Context, uint) (*models.Post, error)
	findForFeedFn  func(context.Context, string) ([]*models.Post, error)
	listByAuthorFn func(context.Context, uint, int) ([]*models.Post, error)
	updateFn       func(context.Context, *models.Post, []string) error
	deleteFn       func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, tagNames []string) error {
	return s.createFn(ctx, post, tagNames)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) FindForFeed(ctx context.Context, query string) ([]*models.Post, error) {
	return s.findForFeedFn(ctx, query)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post, tagNames []string) error {
	return s.updateFn(ctx, post, tagNames)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:       func(_ context.Context, _ *models.Post, _ []string) error { return nil },
		getByIDFn:      func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		findForFeedFn:  func(_ context.Context, _ string) ([]*models.Post, error) { return nil, nil },
		listByAuthorFn: func(_ context.Context, _ uint, _ int) ([]*models.Post, error) { return nil, nil },
		updateFn:       func(_ context.Context, _ *models.Post, _ []string) error { return nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
	}
}

// voteRepoStub is a stub for repository.VoteRepository.
type voteRepoStub struct {
	getByUserAndPostFn func(context.Context, uint, uint) (*models.Vote, error)
	createFn           func(context.Context, *models.Vote) error
	updateValueFn      func(context.Context, uint, int) error
	deleteFn           func(context.Context, uint) error
	countsForPostFn    func(context.Context, uint) (repository.VoteCounts, error)
}

func (s *voteRepoStub) GetByUserAndPost(ctx context.Context, userID, postID uint) (*models.Vote, error) {
	return s.getByUserAndPostFn(ctx, userID, postID)
}
func (s *voteRepoStub) Create(ctx context.Context, vote *models.Vote) error {
	return s.createFn(ctx, vote)
}
func (s *voteRepoStub) UpdateValue(ctx context.Context, id uint, value int) error {
	return s.updateValueFn(ctx, id, value)
}
func (s *voteRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *voteRepoStub) CountsForPost(ctx context.Context, postID uint) (repository.VoteCounts, error) {
	return s.countsForPostFn(ctx, postID)
}

func noopVoteRepo() *voteRepoStub {
	return &voteRepoStub{
		getByUserAndPostFn: func(_ context.Context, _, _ uint) (*models.Vote, error) { return nil, nil },
		createFn:           func(_ context.Context, _ *models.Vote) error { return nil },
		updateValueFn:      func(_ context.Context, _ uint, _ int) error { return nil },
		deleteFn:           func(_ context.Context, _ uint) error { return nil },
		countsForPostFn: func(_ context.Context, _ uint) (repository.VoteCounts, error) {
			return repository.VoteCounts{}, nil
		},
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	getByIdentifierFn func(context.Context, string) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateFn          func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return s.getByIdentifierFn(ctx, identifier)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:         func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:      func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn:   func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByIdentifierFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:          func(_ context.Context, _ *models.User) error { return nil },
		updateFn:          func(_ context.Context, _ *models.User) error { return nil },
	}
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
