package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"applicantreview/internal/apperr"
	"applicantreview/internal/model"
	"applicantreview/internal/service"
)

// applicantResponse is the flat applicant representation returned by the API.
type applicantResponse struct {
	ID                 int64     `json:"id"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	Age                int       `json:"age"`
	Degree             string    `json:"degree"`
	RelevantExperience string    `json:"relevantExperience"`
	Email              string    `json:"email"`
	ProjectAppliedFor  string    `json:"projectAppliedFor"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	ResumeFileName     string    `json:"resumeFileName,omitempty"`
	ResumeContentType  string    `json:"resumeContentType,omitempty"`
}

func toResponse(a *model.Applicant) applicantResponse {
	res := applicantResponse{
		ID:                 a.ID,
		FirstName:          a.FirstName,
		LastName:           a.LastName,
		Age:                a.Age,
		Degree:             a.Degree,
		RelevantExperience: a.RelevantExperience,
		Email:              a.Email,
		ProjectAppliedFor:  a.ProjectAppliedFor,
		Status:             a.Status.String(),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
	if a.Resume != nil {
		res.ResumeFileName = a.Resume.FileName
		res.ResumeContentType = a.Resume.ContentType
	}
	return res
}

func toResponses(items []model.Applicant) []applicantResponse {
	out := make([]applicantResponse, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	return out
}

type statusRequest struct {
	Status string `json:"status"`
}

var errInvalidID = errors.New("invalid id")

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// ListApplicants handles GET /api/applicants.
//
//	@Summary	List applicants
//	@Tags		applicants
//	@Produce	json
//	@Success	200	{array}		applicantResponse
//	@Failure	500	{object}	errorPayload
//	@Router		/api/applicants [get]
func ListApplicants(svc service.ApplicantService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return writeAppError(c, logger, err)
		}
		return c.JSON(toResponses(items))
	}
}

// ListApplicantsByProject handles GET /api/applicants/project/:project.
//
//	@Summary	List applicants for one project
//	@Tags		applicants
//	@Produce	json
//	@Param		project	path		string	true	"Project name, URL-escaped"
//	@Success	200		{array}		applicantResponse
//	@Failure	400		{object}	errorPayload
//	@Router		/api/applicants/project/{project} [get]
func ListApplicantsByProject(svc service.ApplicantService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		project, err := url.PathUnescape(c.Params("project"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PROJECT", "invalid project name")
		}
		items, err := svc.ListByProject(c.UserContext(), project)
		if err != nil {
			return writeAppError(c, logger, err)
		}
		return c.JSON(toResponses(items))
	}
}

// SearchApplicants handles GET /api/applicants/search?name=.
//
//	@Summary	Case-sensitive substring search on first or last name
//	@Tags		applicants
//	@Produce	json
//	@Param		name	query		string	true	"Name fragment"
//	@Success	200		{array}		applicantResponse
//	@Failure	400		{object}	errorPayload
//	@Router		/api/applicants/search [get]
func SearchApplicants(svc service.ApplicantService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Query("name")
		if name == "" {
			return writeError(c, fiber.StatusBadRequest, "NAME_REQUIRED", "name query parameter is required")
		}
		items, err := svc.Search(c.UserContext(), name)
		if err != nil {
			return writeAppError(c, logger, err)
		}
		return c.JSON(toResponses(items))
	}
}

// GetApplicant handles GET /api/applicants/:id.
//
//	@Summary	Get an applicant
//	@Tags		applicants
//	@Produce	json
//	@Param		id	path		int	true	"Applicant ID"
//	@Success	200	{object}	applicantResponse
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/api/applicants/{id} [get]
func GetApplicant(svc service.ApplicantService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		a, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeAppError(c, logger, err)
		}
		return c.JSON(toResponse(a))
	}
}

// SubmitApplicant handles POST /api/applicants. It accepts either a JSON body or a
// multipart form with the profile fields and an optional "resume" file.
//
//	@Summary		Submit an application
//	@Description	Accepts a JSON profile, or a multipart form with the profile fields and an optional resume file.
//	@Tags			applicants
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			firstName			formData	string	false	"First name"
//	@Param			lastName			formData	string	false	"Last name"
//	@Param			age					formData	int		false	"Age, at least 18"
//	@Param			degree				formData	string	false	"Degree"
//	@Param			relevantExperience	formData	string	false	"Relevant experience"
//	@Param			email				formData	string	false	"Email"
//	@Param			projectAppliedFor	formData	string	false	"Project from /api/projects"
//	@Param			resume				formData	file	false	"Resume file"
//	@Success		201					{object}	applicantResponse
//	@Failure		400					{object}	errorPayload
//	@Failure		409					{object}	errorPayload
//	@Router			/api/applicants [post]
func SubmitApplicant(svc service.ApplicantService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			p      model.Profile
			resume *multipart.FileHeader
		)

		if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
			var err error
			if p, err = profileFromForm(c); err != nil {
				return writeAppError(c, logger, err)
			}
			if fh, err := c.FormFile("resume"); err == nil && fh.Size > 0 {
				resume = fh
			}
		} else if err := c.BodyParser(&p); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		created, err := svc.Submit(c.UserContext(), p)
		if err != nil {
			return writeAppError(c, logger, err)
		}

		if resume != nil {
			if created, err = attach(c, svc, created.ID, resume); err != nil {
				return writeAppError(c, logger, err)
			}
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(created))
	}
}

// UpdateApplicant handles PUT /api/applicants/:id with a full JSON record.
//
//	@Summary	Replace the profile and optionally the status
//	@Tags		applicants
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int						true	"Applicant ID"
//	@Param		request	body		service.ProfileUpdate	true	"Profile fields and optional status"
//	@Success	200		{object}	applicantResponse
//	@Failure	400		{object}	errorPayload
//	@Failure	404		{object}	errorPayload
//	@Failure	409		{object}	errorPayload
//	@Router		/api/applicants/{id} [put]
func UpdateApplicant(svc service.ApplicantService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in service.ProfileUpdate
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		a, err := svc.UpdateProfile(c.UserContext(), id, in)
		if err != nil {
			return writeAppError(c, logger, err)
		}
		return c.JSON(toResponse(a))
	}
}

// UploadResume handles PUT /api/applicants/:id/resume (multipart field "resume").
//
//	@Summary	Upload or replace the resume
//	@Tags		resumes
//	@Accept		mpfd
//	@Produce	json
//	@Param		id		path		int		true	"Applicant ID"
//	@Param		resume	formData	file	true	"Resume file"
//	@Success	200		{object}	applicantResponse
//	@Failure	400		{object}	errorPayload
//	@Failure	404		{object}	errorPayload
//	@Router		/api/applicants/{id}/resume [put]
func UploadResume(svc service.ApplicantService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		fh, err := c.FormFile("resume")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "resume file is required")
		}
		a, err := attach(c, svc, id, fh)
		if err != nil {
			return writeAppError(c, logger, err)
		}
		return c.JSON(toResponse(a))
	}
}

// DownloadResume handles GET /api/applicants/:id/resume?download=true|false.
//
//	@Summary	Download the resume
//	@Tags		resumes
//	@Produce	octet-stream
//	@Param		id			path		int		true	"Applicant ID"
//	@Param		download	query		bool	false	"Send as an attachment instead of inline"	default(false)
//	@Success	200			{file}		file
//	@Failure	404			{object}	errorPayload
//	@Router		/api/applicants/{id}/resume [get]
func DownloadResume(svc service.ApplicantService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		dl, err := svc.LoadResume(c.UserContext(), id)
		if err != nil {
			return writeAppError(c, logger, err)
		}

		disposition := "inline"
		if c.QueryBool("download", false) {
			disposition = "attachment"
		}
		c.Set(fiber.HeaderContentType, dl.File.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`%s; filename="%s"`, disposition, dl.FileName))

		size := -1
		if dl.File.Size > 0 {
			size = int(dl.File.Size)
		}
		return c.SendStream(dl.File.Body, size)
	}
}

// UpdateStatus handles PUT /api/applicants/:id/status with {"status": "..."}.
//
//	@Summary	Set the status (pending, approved, rejected; declined is an alias of rejected)
//	@Tags		decisions
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Applicant ID"
//	@Param		request	body		statusRequest	true	"New status"
//	@Success	200		{object}	applicantResponse
//	@Failure	400		{object}	errorPayload
//	@Failure	404		{object}	errorPayload
//	@Router		/api/applicants/{id}/status [put]
func UpdateStatus(svc service.ApplicantService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req statusRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		a, err := svc.SetStatus(c.UserContext(), id, req.Status)
		if err != nil {
			return writeAppError(c, logger, err)
		}
		return c.JSON(toResponse(a))
	}
}

// ApproveApplicant handles PUT /api/applicants/:id/approve.
//
//	@Summary	Approve and notify the applicant
//	@Tags		decisions
//	@Produce	json
//	@Param		id	path		int	true	"Applicant ID"
//	@Success	200	{object}	applicantResponse
//	@Failure	404	{object}	errorPayload
//	@Router		/api/applicants/{id}/approve [put]
func ApproveApplicant(svc service.ApplicantService, logger *slog.Logger) fiber.Handler {
	return decide(svc.Approve, logger)
}

// DeclineApplicant handles PUT /api/applicants/:id/decline.
//
//	@Summary	Decline and notify the applicant
//	@Tags		decisions
//	@Produce	json
//	@Param		id	path		int	true	"Applicant ID"
//	@Success	200	{object}	applicantResponse
//	@Failure	404	{object}	errorPayload
//	@Router		/api/applicants/{id}/decline [put]
func DeclineApplicant(svc service.ApplicantService, logger *slog.Logger) fiber.Handler {
	return decide(svc.Decline, logger)
}

// DeleteApplicant handles DELETE /api/applicants/:id.
//
//	@Summary	Delete an applicant
//	@Tags		applicants
//	@Param		id	path	int	true	"Applicant ID"
//	@Success	204
//	@Failure	404	{object}	errorPayload
//	@Router		/api/applicants/{id} [delete]
func DeleteApplicant(svc service.ApplicantService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeAppError(c, logger, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type decisionFunc func(ctx context.Context, id int64) (*model.Applicant, error)

func decide(fn decisionFunc, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		a, err := fn(c.UserContext(), id)
		if err != nil {
			return writeAppError(c, logger, err)
		}
		return c.JSON(toResponse(a))
	}
}

func attach(c *fiber.Ctx, svc service.ApplicantService, id int64, fh *multipart.FileHeader) (*model.Applicant, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Validation("Cannot open uploaded file")
	}
	defer f.Close()
	return svc.AttachResume(c.UserContext(), id, fh.Filename, fh.Header.Get(fiber.HeaderContentType), f)
}

// profileFromForm reads the profile fields of a multipart submission.
func profileFromForm(c *fiber.Ctx) (model.Profile, error) {
	p := model.Profile{
		FirstName:          c.FormValue("firstName"),
		LastName:           c.FormValue("lastName"),
		Degree:             c.FormValue("degree"),
		RelevantExperience: c.FormValue("relevantExperience"),
		Email:              c.FormValue("email"),
		ProjectAppliedFor:  c.FormValue("projectAppliedFor"),
	}
	if raw := strings.TrimSpace(c.FormValue("age")); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			return p, apperr.Validation("Age must be a number")
		}
		p.Age = age
	}
	return p, nil
}
