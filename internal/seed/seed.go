// Package seed creates demo data for development databases.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/hashtag"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers int
	NumPosts int
	Clean    bool
}

var topics = []string{
	"golang", "opensource", "databases", "webdev", "devops",
	"homelab", "linux", "writing", "photography", "coffee",
}

// Run populates the database with users, posts, votes and comments.
// Every seeded account logs in with the password "password123".
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 10
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 40
	}

	if opts.Clean {
		for _, table := range []string{"votes", "comments", "post_tags", "posts", "tags", "users"} {
			if err := db.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("cleaning %s: %w", table, err)
			}
		}
	}

	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		username := seedUsername(i)
		user := &models.User{
			Username:        username,
			Email:           fmt.Sprintf("%s@example.com", username),
			Password:        string(hash),
			ThemePreference: []string{models.ThemeLight, models.ThemeDark, models.ThemeSystem}[r.Intn(3)],
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, user)
	}
	log.Printf("seeded %d users", len(users))

	postRepo := repository.NewPostRepository(db)
	ctx := context.Background()

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[r.Intn(len(users))]
		topic := topics[r.Intn(len(topics))]
		content := fmt.Sprintf("%s\n\nThoughts on #%s today.", gofakeit.Paragraph(1, 3, 8, "\n"), topic)

		post := &models.Post{
			Title:     strings.TrimSuffix(gofakeit.Sentence(5), "."),
			Content:   content,
			AuthorID:  author.ID,
			CreatedAt: time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
		}
		if err := postRepo.Create(ctx, post, hashtag.Collect("", post.Title, post.Content)); err != nil {
			return fmt.Errorf("seeding post %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	log.Printf("seeded %d posts", len(posts))

	votes := 0
	for _, user := range users {
		for _, post := range posts {
			if r.Float64() > 0.3 {
				continue
			}
			value := models.VoteUp
			if r.Float64() < 0.25 {
				value = models.VoteDown
			}
			vote := &models.Vote{UserID: user.ID, PostID: post.ID, Value: value}
			if err := db.Create(vote).Error; err != nil {
				return fmt.Errorf("seeding vote: %w", err)
			}
			votes++
		}
	}
	log.Printf("seeded %d votes", votes)

	comments := 0
	for _, post := range posts {
		for i := 0; i < r.Intn(4); i++ {
			comment := &models.Comment{
				Content:  gofakeit.Sentence(8),
				AuthorID: users[r.Intn(len(users))].ID,
				PostID:   post.ID,
			}
			if err := db.Create(comment).Error; err != nil {
				return fmt.Errorf("seeding comment: %w", err)
			}
			comments++
		}
	}
	log.Printf("seeded %d comments", comments)

	return nil
}

// seedUsername builds a deterministic username that satisfies the
// registration format rules.
func seedUsername(i int) string {
	name := strings.ToLower(gofakeit.LastName())
	cleaned := make([]rune, 0, len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			cleaned = append(cleaned, r)
		}
	}
	if len(cleaned) > 14 {
		cleaned = cleaned[:14]
	}
	return fmt.Sprintf("%s_%d", string(cleaned), i)
}
