package utils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/report-microservice/internal/pkg/errors"
)

type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
	// UserMessage - текст для показа пользователю, тотальный по Kind
	UserMessage string `json:"user_message,omitempty"`
}

type Meta struct {
	Total int `json:"total,omitempty"`
	Limit int `json:"limit,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := errors.AsAppError(err); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error:       appErr,
			UserMessage: errors.UserMessage(err),
		})
	}

	// Unknown error - return 500
	return c.Status(500).JSON(ErrorResponse{
		Error:       errors.ErrInternalServer,
		UserMessage: errors.UserMessage(err),
	})
}
