package handler

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"applicantreview/internal/notify"
)

type testMailRequest struct {
	To   string `json:"to" example:"ana@example.com"`
	Name string `json:"name" example:"Ana Cruz"`
	Kind string `json:"kind" example:"approve"`
}

type testMailResponse struct {
	Status string `json:"status" example:"sent"`
	To     string `json:"to"`
	Kind   string `json:"kind" example:"approval"`
}

// SendTestMail handles POST /api/admin/mail/test with {"to","name","kind"}.
// A blank kind or "approve" sends an approval, any other kind a decline; name
// defaults to "Applicant".
//
//	@Summary	Send a test decision email
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		testMailRequest	true	"Recipient, name and kind"
//	@Success	200		{object}	testMailResponse
//	@Failure	400		{object}	errorPayload
//	@Failure	401		{object}	errorPayload
//	@Failure	502		{object}	errorPayload
//	@Failure	503		{object}	errorPayload
//	@Router		/api/admin/mail/test [post]
func SendTestMail(d notify.Dispatcher, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req testMailRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		req.To = strings.TrimSpace(req.To)
		if req.To == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "Recipient email 'to' is required")
		}
		if strings.TrimSpace(req.Name) == "" {
			req.Name = "Applicant"
		}
		if d == nil || notify.IsNoop(d) {
			return writeError(c, fiber.StatusServiceUnavailable, "MAIL_DISABLED", "mail delivery is not configured")
		}

		kind := notify.ParseKind(req.Kind)
		if err := notify.Send(c.UserContext(), d, kind, req.To, req.Name); err != nil {
			return writeAppError(c, logger, err)
		}
		return c.JSON(testMailResponse{Status: "sent", To: req.To, Kind: string(kind)})
	}
}
