package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// VotePost handles POST /post/:id/vote. The body may carry either
// vote_type ("up"/"down") or a numeric value (1/-1); both normalize to the
// same command.
func (s *Server) VotePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req struct {
		VoteType string `json:"vote_type" form:"vote_type"`
		Value    int    `json:"value" form:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	value := req.Value
	switch req.VoteType {
	case "up":
		value = models.VoteUp
	case "down":
		value = models.VoteDown
	case "":
		// numeric value used as-is
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("vote_type must be up or down"))
	}

	result, err := s.voteService.Cast(c.UserContext(), service.CastVoteInput{
		UserID: userID,
		PostID: postID,
		Value:  value,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(result)
}
