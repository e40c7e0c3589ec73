package handler

import (
	"errors"

	"go-pos-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SalesHandler struct {
	service service.SalesService
}

func NewSalesHandler(s service.SalesService) *SalesHandler {
	return &SalesHandler{service: s}
}

// Checkout settles a point-of-sale cart. Stock and validation failures come
// back as client errors; anything unexpected is a server error and the cart
// has already been rolled back.
// POST /api/v1/sales/checkout
func (h *SalesHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.Checkout(&req, getUserID(c), getUserName(c), getUserEmail(c))
	if err != nil {
		var stockErr *service.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			return c.Status(422).JSON(fiber.Map{"error": stockErr.Error(), "product": stockErr.ProductName})
		case errors.Is(err, service.ErrValidation):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale settled", "data": result})
}
