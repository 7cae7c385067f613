package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/interview-grader/internal/importer"
	"github.com/fadilmartias/interview-grader/internal/pipeline"
	"github.com/fadilmartias/interview-grader/internal/repository"
	"github.com/fadilmartias/interview-grader/internal/usecase"
	"github.com/fadilmartias/interview-grader/internal/util"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, pipeline.ErrInvalidInput),
		errors.Is(err, importer.ErrUnsupportedFormat),
		errors.Is(err, util.ErrUnsupportedFile),
		errors.Is(err, util.ErrNoText):
		return fiber.StatusBadRequest
	case errors.Is(err, usecase.ErrNoQuestions):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, message string, err error) error {
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    statusFor(err),
		Message: message,
	}, err)
}

func invalid(c *fiber.Ctx, fields map[string]string) error {
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    fiber.StatusBadRequest,
		Message: "invalid request",
	}, util.NewFormError("invalid request", fields))
}
