package handler

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/interview-grader/internal/usecase"
	"github.com/fadilmartias/interview-grader/internal/util"
)

type QuestionHandler struct {
	uc *usecase.QuestionUsecase
}

func NewQuestionHandler(uc *usecase.QuestionUsecase) *QuestionHandler {
	return &QuestionHandler{uc: uc}
}

func (h *QuestionHandler) RegisterRoutes(app fiber.Router) {
	app.Post("/questions/import", h.Import)
}

func (h *QuestionHandler) Import(c *fiber.Ctx) error {
	path, cleanup, err := saveUpload(c, "file")
	if err != nil {
		return invalid(c, map[string]string{"file": err.Error()})
	}
	defer cleanup()

	res, err := h.uc.ImportFile(c.UserContext(), path)
	if err != nil {
		return fail(c, "failed to import "+filepath.Base(path), err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success import questions",
		Data:    res,
	})
}
