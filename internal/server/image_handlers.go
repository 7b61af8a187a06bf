package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /upload/image. Unlike the attached-image path on
// post mutations, a standalone upload fails loudly.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil || file == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("An image file is required"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer src.Close()

	url, err := s.imageService.Save(c.UserContext(), service.SaveImageInput{
		Reader:   src,
		Filename: file.Filename,
		Kind:     service.ImageKindPost,
		MaxPx:    s.config.PostImageMaxPx,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
