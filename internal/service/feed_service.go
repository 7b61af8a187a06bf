// Package service holds the application's business logic, between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

type FeedService struct {
	postRepo repository.PostRepository
}

type FeedInput struct {
	Search   string
	Page     int
	PerPage  int
	ViewerID uint
}

// FeedItem is the wire shape of one ranked post.
type FeedItem struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	AuthorID  uint      `json:"author_id"`
	Author    string    `json:"author"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Tags      []string  `json:"tags"`
	Score     int       `json:"score"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	CanEdit   bool      `json:"can_edit"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FeedPage struct {
	Posts   []FeedItem `json:"posts"`
	Page    int        `json:"page"`
	PerPage int        `json:"per_page"`
	Total   int        `json:"total"`
	HasMore bool       `json:"has_more"`
}

func NewFeedService(postRepo repository.PostRepository) *FeedService {
	return &FeedService{postRepo: postRepo}
}

// GetFeed returns one page of the ranked feed. Ranking is net score
// descending with recency as tiebreaker. The whole candidate set is loaded
// and sorted in memory; at this product's scale a full scan beats the
// bookkeeping a denormalized score column would need.
func (s *FeedService) GetFeed(ctx context.Context, in FeedInput) (*FeedPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	perPage := in.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	posts, err := s.postRepo.FindForFeed(ctx, strings.TrimSpace(in.Search))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Score != posts[j].Score {
			return posts[i].Score > posts[j].Score
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	total := len(posts)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	items := make([]FeedItem, 0, end-start)
	for _, p := range posts[start:end] {
		items = append(items, toFeedItem(p, in.ViewerID))
	}

	return &FeedPage{
		Posts:   items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
		HasMore: end < total,
	}, nil
}

func toFeedItem(p *models.Post, viewerID uint) FeedItem {
	return FeedItem{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		AuthorID:  p.AuthorID,
		Author:    p.Author.Username,
		AvatarURL: p.Author.AvatarURL,
		Tags:      p.TagNames(),
		Score:     p.Score,
		Upvotes:   p.Upvotes,
		Downvotes: p.Downvotes,
		CanEdit:   viewerID != 0 && viewerID == p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
