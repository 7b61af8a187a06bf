package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestPostRepository_CreateAndGetByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, db, "alice")

	post := &models.Post{
		Title:    "Hello",
		Content:  "First post about #golang",
		AuthorID: author.ID,
	}
	require.NoError(t, repo.Create(context.Background(), post, []string{"golang", "intro"}))
	require.NotZero(t, post.ID)

	got, err := repo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "alice", got.Author.Username)
	assert.ElementsMatch(t, []string{"golang", "intro"}, got.TagNames())
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, 0, got.Upvotes)
	assert.Equal(t, 0, got.Downvotes)
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	_, err := repo.GetByID(context.Background(), 9999)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPostRepository_FeedAggregates(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, db, "alice")
	voterA := createTestUser(t, db, "bob")
	voterB := createTestUser(t, db, "carol")

	post := &models.Post{Title: "Scored", Content: "body", AuthorID: author.ID}
	require.NoError(t, repo.Create(context.Background(), post, nil))

	require.NoError(t, db.Create(&models.Vote{UserID: author.ID, PostID: post.ID, Value: models.VoteUp}).Error)
	require.NoError(t, db.Create(&models.Vote{UserID: voterA.ID, PostID: post.ID, Value: models.VoteUp}).Error)
	require.NoError(t, db.Create(&models.Vote{UserID: voterB.ID, PostID: post.ID, Value: models.VoteDown}).Error)

	got, err := repo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Score)
	assert.Equal(t, 2, got.Upvotes)
	assert.Equal(t, 1, got.Downvotes)

	posts, err := repo.FindForFeed(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 1, posts[0].Score)
}

func TestPostRepository_FindForFeed_Search(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	matchTitle := &models.Post{Title: "Gopher News", Content: "plain body", AuthorID: bob.ID}
	require.NoError(t, repo.Create(context.Background(), matchTitle, nil))

	matchContent := &models.Post{Title: "other", Content: "all about gophers", AuthorID: bob.ID}
	require.NoError(t, repo.Create(context.Background(), matchContent, nil))

	matchAuthor := &models.Post{Title: "unrelated", Content: "unrelated", AuthorID: alice.ID}
	require.NoError(t, repo.Create(context.Background(), matchAuthor, nil))

	matchTag := &models.Post{Title: "tagged", Content: "tagged body", AuthorID: bob.ID}
	require.NoError(t, repo.Create(context.Background(), matchTag, []string{"gopher"}))

	posts, err := repo.FindForFeed(context.Background(), "GOPHER")
	require.NoError(t, err)
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []uint{matchTitle.ID, matchContent.ID, matchTag.ID}, ids)

	posts, err = repo.FindForFeed(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, matchAuthor.ID, posts[0].ID)
}

func TestPostRepository_FindForFeed_NoDuplicateRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, db, "alice")

	// Matches on title and on two of its tags; must still appear once.
	post := &models.Post{Title: "gopher gopher", Content: "body", AuthorID: author.ID}
	require.NoError(t, repo.Create(context.Background(), post, []string{"gopher", "gophers"}))

	posts, err := repo.FindForFeed(context.Background(), "gopher")
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestPostRepository_Update_ReplacesTags(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, db, "alice")

	post := &models.Post{Title: "v1", Content: "body", AuthorID: author.ID}
	require.NoError(t, repo.Create(context.Background(), post, []string{"old", "keep"}))

	post.Title = "v2"
	post.Content = "new body"
	require.NoError(t, repo.Update(context.Background(), post, []string{"keep", "fresh"}))

	got, err := repo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Title)
	assert.Equal(t, "new body", got.Content)
	assert.ElementsMatch(t, []string{"keep", "fresh"}, got.TagNames())

	// Detached tags stay in the tags table for reuse by other posts.
	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Where("name = ?", "old").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPostRepository_Delete_CascadesOwnedRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, db, "alice")
	commenter := createTestUser(t, db, "bob")

	post := &models.Post{Title: "doomed", Content: "body", AuthorID: author.ID}
	require.NoError(t, repo.Create(context.Background(), post, []string{"gone"}))

	require.NoError(t, db.Create(&models.Comment{Content: "hi", AuthorID: commenter.ID, PostID: post.ID}).Error)
	require.NoError(t, db.Create(&models.Vote{UserID: commenter.ID, PostID: post.ID, Value: models.VoteUp}).Error)

	require.NoError(t, repo.Delete(context.Background(), post.ID))

	_, err := repo.GetByID(context.Background(), post.ID)
	require.Error(t, err)

	var votes int64
	require.NoError(t, db.Model(&models.Vote{}).Where("post_id = ?", post.ID).Count(&votes).Error)
	assert.Zero(t, votes)

	var links int64
	require.NoError(t, db.Table("post_tags").Where("post_id = ?", post.ID).Count(&links).Error)
	assert.Zero(t, links)

	// Tags themselves survive; they are shared across posts.
	var tags int64
	require.NoError(t, db.Model(&models.Tag{}).Where("name = ?", "gone").Count(&tags).Error)
	assert.EqualValues(t, 1, tags)
}

func TestPostRepository_ListByAuthor(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(context.Background(), &models.Post{
			Title: "alice post", Content: "body", AuthorID: alice.ID,
		}, nil))
	}
	require.NoError(t, repo.Create(context.Background(), &models.Post{
		Title: "bob post", Content: "body", AuthorID: bob.ID,
	}, nil))

	posts, err := repo.ListByAuthor(context.Background(), alice.ID, 2)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, alice.ID, p.AuthorID)
	}
}

func TestFindOrCreateTags_ReusesExisting(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Tag{Name: "shared"}).Error)

	tags, err := findOrCreateTags(db, []string{"shared", "brandnew"})
	require.NoError(t, err)
	require.Len(t, tags, 2)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
