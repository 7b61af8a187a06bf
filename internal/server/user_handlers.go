package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /u/:user_id, returning the user and their most
// recent posts.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	profile, err := s.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(profile)
}

// GetSettings handles GET /settings.
func (s *Server) GetSettings(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{
		"username":         user.Username,
		"email":            user.Email,
		"avatar_url":       user.AvatarURL,
		"theme_preference": user.ThemePreference,
	})
}

// UpdateSettings handles POST /settings. Accepts a theme change and an
// optional multipart avatar upload; a failed upload does not block the theme
// change.
func (s *Server) UpdateSettings(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Theme string `json:"theme" form:"theme"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	avatarURL := ""
	uploadError := ""
	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		src, openErr := file.Open()
		if openErr != nil {
			uploadError = "Could not read uploaded file"
		} else {
			defer src.Close()
			url, saveErr := s.imageService.Save(c.UserContext(), service.SaveImageInput{
				Reader:   src,
				Filename: file.Filename,
				Kind:     service.ImageKindAvatar,
				MaxPx:    s.config.AvatarMaxPx,
			})
			if saveErr != nil {
				uploadError = saveErr.Error()
			} else {
				avatarURL = url
			}
		}
	}

	user, err := s.userService.UpdateSettings(c.UserContext(), service.UpdateSettingsInput{
		UserID:    userID,
		Theme:     req.Theme,
		AvatarURL: avatarURL,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	resp := fiber.Map{"user": user}
	if uploadError != "" {
		resp["upload_error"] = uploadError
	}
	return c.JSON(resp)
}

// GetTheme handles GET /api/user/theme.
func (s *Server) GetTheme(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"theme": user.ThemePreference})
}
