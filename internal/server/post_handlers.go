package server

import (
	"mime/multipart"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET / and GET /api/posts. Supports q, page and per_page
// query parameters.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	viewerID, _ := s.optionalUserID(c)

	page, err := s.feedService.GetFeed(c.UserContext(), service.FeedInput{
		Search:   c.Query("q"),
		Page:     parsePositiveQuery(c, "page", 1),
		PerPage:  parsePositiveQuery(c, "per_page", 10),
		ViewerID: viewerID,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(page)
}

// GetPost handles GET /post/:id.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(post)
}

// postForm is the shared payload for creating and editing posts. Multipart
// requests may attach an "image" file instead of passing image_url.
type postForm struct {
	Title    string `json:"title" form:"title"`
	Content  string `json:"content" form:"content"`
	Tags     string `json:"tags" form:"tags"`
	ImageURL string `json:"image_url" form:"image_url"`
}

// ingestAttachedImage stores a multipart image if one was attached. A failed
// upload reports its message without blocking the post mutation.
func (s *Server) ingestAttachedImage(c *fiber.Ctx, file *multipart.FileHeader) (imageURL, uploadError string) {
	src, err := file.Open()
	if err != nil {
		return "", "Could not read uploaded file"
	}
	defer src.Close()

	url, err := s.imageService.Save(c.UserContext(), service.SaveImageInput{
		Reader:   src,
		Filename: file.Filename,
		Kind:     service.ImageKindPost,
		MaxPx:    s.config.PostImageMaxPx,
	})
	if err != nil {
		return "", err.Error()
	}
	return url, ""
}

// CreatePost handles POST /post/new.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req postForm
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	uploadError := ""
	if file, err := c.FormFile("image"); err == nil && file != nil {
		var url string
		url, uploadError = s.ingestAttachedImage(c, file)
		if url != "" {
			req.ImageURL = url
		}
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Tags:     req.Tags,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	resp := fiber.Map{"post": post}
	if uploadError != "" {
		resp["upload_error"] = uploadError
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdatePost handles POST /post/:id/edit.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req postForm
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	uploadError := ""
	if file, err := c.FormFile("image"); err == nil && file != nil {
		var url string
		url, uploadError = s.ingestAttachedImage(c, file)
		if url != "" {
			req.ImageURL = url
		}
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:   userID,
		PostID:   postID,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Tags:     req.Tags,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	resp := fiber.Map{"post": post}
	if uploadError != "" {
		resp["upload_error"] = uploadError
	}
	return c.JSON(resp)
}

// DeletePost handles POST /post/:id/delete.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: userID,
		PostID: postID,
	}); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}
