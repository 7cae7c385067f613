package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/interview-grader/internal/dto"
	"github.com/fadilmartias/interview-grader/internal/usecase"
	"github.com/fadilmartias/interview-grader/internal/util"
)

type ReportHandler struct {
	uc *usecase.ReportUsecase
}

func NewReportHandler(uc *usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/interviews", h.List)
	app.Get("/interviews/:session_id", h.Detail)
	app.Get("/sessions/:session_id/report", h.SessionReport)
	app.Get("/candidates/:id/report", h.CandidateReport)
	app.Get("/statistics", h.Statistics)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListInterviews(c.UserContext(), dto.InterviewFilter{
		Page:        c.QueryInt("page", 1),
		PageSize:    c.QueryInt("page_size", usecase.DefaultPageSize),
		Candidate:   c.Query("candidate"),
		Interviewer: c.Query("interviewer"),
		Position:    c.Query("position"),
		Result:      c.Query("result"),
	})
	if err != nil {
		return fail(c, "failed to list interviews", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success list interviews",
		Data:       list.Items,
		Meta:       list.Totals,
		Pagination: list.Pagination,
	})
}

func (h *ReportHandler) Detail(c *fiber.Ctx) error {
	detail, err := h.uc.InterviewDetail(c.UserContext(), c.Params("session_id"))
	if err != nil {
		return fail(c, "interview not found", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get interview",
		Data:    detail,
	})
}

func (h *ReportHandler) SessionReport(c *fiber.Ctx) error {
	report, err := h.uc.SessionReport(c.UserContext(), c.Params("session_id"))
	if err != nil {
		return fail(c, "session not found", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get session report",
		Data:    report,
	})
}

func (h *ReportHandler) CandidateReport(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return invalid(c, map[string]string{"id": "must be a positive integer"})
	}
	report, err := h.uc.CandidateReport(c.UserContext(), uint(id))
	if err != nil {
		return fail(c, "candidate not found", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get candidate report",
		Data:    report,
	})
}

func (h *ReportHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.uc.Statistics(c.UserContext())
	if err != nil {
		return fail(c, "failed to get statistics", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get statistics",
		Data:    stats,
	})
}
