package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	var request registerRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := handler.authService.Register(request.Email, request.Password, time.Now(), handler.location)
	if err != nil {
		return serviceError(c, err)
	}

	token, err := handler.buildToken(user.Subject, defaultAuthTokenTTL)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var request loginRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := handler.authService.Authenticate(request.Email, request.Password)
	if err != nil {
		return serviceError(c, err)
	}

	token, err := handler.buildToken(user.Subject, defaultAuthTokenTTL)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}
