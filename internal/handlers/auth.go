package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/questly/backend/internal/services"
	"github.com/questly/backend/pkg/apperr"
	"github.com/questly/backend/pkg/utils"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	FirstName   string `json:"firstName" validate:"omitempty,min=3"`
	LastName    string `json:"lastName" validate:"omitempty,min=3"`
	IsQuester   *bool  `json:"isQuester" validate:"required"`
	IsRequester bool   `json:"isRequester"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body", nil)
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return err
	}

	token, err := h.Auth.Register(c.Context(), services.RegisterInput{
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Password:    req.Password,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		IsQuester:   *req.IsQuester,
		IsRequester: req.IsRequester,
	})
	if err != nil {
		return err
	}

	return utils.Send(c, fiber.StatusCreated, "Register user is successful", token)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body", nil)
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return err
	}

	token, err := h.Auth.Login(c.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		return err
	}

	return utils.Send(c, fiber.StatusOK, "Login user is successful", token)
}
