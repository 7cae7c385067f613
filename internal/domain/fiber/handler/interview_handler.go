package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/interview-grader/internal/dto"
	"github.com/fadilmartias/interview-grader/internal/middleware"
	"github.com/fadilmartias/interview-grader/internal/usecase"
	"github.com/fadilmartias/interview-grader/internal/util"
)

type InterviewHandler struct {
	interviews  *usecase.InterviewUsecase
	transcripts *usecase.TranscriptUsecase
}

func NewInterviewHandler(interviews *usecase.InterviewUsecase, transcripts *usecase.TranscriptUsecase) *InterviewHandler {
	return &InterviewHandler{interviews: interviews, transcripts: transcripts}
}

func (h *InterviewHandler) RegisterRoutes(app fiber.Router) {
	app.Post("/interviews/answer", h.Answer)
	app.Post("/interviews/batch", h.Batch)
	app.Post("/interviews/transcript", middleware.RateLimiter(1, 4*time.Second), h.Transcript)
}

func (h *InterviewHandler) Answer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalid(c, map[string]string{"body": "malformed JSON"})
	}
	if errs := req.Validate(); errs != nil {
		return invalid(c, errs)
	}

	res, err := h.interviews.ProcessAnswer(c.UserContext(), req)
	if err != nil {
		return fail(c, "failed to process answer", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success process answer",
		Data:    res,
	})
}

// Batch grades a whole session. With ?async=true it only enqueues it.
func (h *InterviewHandler) Batch(c *fiber.Ctx) error {
	var req dto.BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return invalid(c, map[string]string{"body": "malformed JSON"})
	}
	if errs := req.Validate(); errs != nil {
		return invalid(c, errs)
	}

	if c.QueryBool("async") {
		sub, err := h.interviews.Submit(c.UserContext(), req)
		if err != nil {
			return fail(c, "failed to submit batch", err)
		}
		return util.SuccessResponse(c, util.SuccessResponseFormat{
			Code:    fiber.StatusAccepted,
			Message: "Success submit batch",
			Data:    sub,
		})
	}

	report, err := h.interviews.ProcessBatch(c.UserContext(), req)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusFor(err),
			Message: "failed to process batch",
			Details: report,
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success process batch",
		Data:    report,
	})
}

func (h *InterviewHandler) Transcript(c *fiber.Ctx) error {
	path, cleanup, err := saveUpload(c, "file")
	if err != nil {
		return invalid(c, map[string]string{"file": err.Error()})
	}
	defer cleanup()

	res, err := h.transcripts.ProcessFile(c.UserContext(), path, c.FormValue("position"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusFor(err),
			Message: "failed to process transcript",
			Details: res,
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success process transcript",
		Data:    res,
	})
}
