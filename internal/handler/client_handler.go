package handler

import (
	"errors"

	"go-pos-backoffice/internal/model"
	"go-pos-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ClientHandler struct {
	service service.ClientService
}

func NewClientHandler(s service.ClientService) *ClientHandler {
	return &ClientHandler{service: s}
}

// GetClients returns the full client registry
// GET /api/v1/clients
func (h *ClientHandler) GetClients(c *fiber.Ctx) error {
	clients, err := h.service.GetAllClients()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch clients"})
	}
	return c.JSON(clients)
}

// GetClient returns a single client by ID
// GET /api/v1/clients/:id
func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid client ID"})
	}

	client, err := h.service.GetClientByID(clientID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Client not found"})
	}
	return c.JSON(client)
}

// CreateClient registers a new client
// POST /api/v1/clients
func (h *ClientHandler) CreateClient(c *fiber.Ctx) error {
	var client model.Client
	if err := c.BodyParser(&client); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateClient(&client, getUserID(c)); err != nil {
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrClientDocumentTaken) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Client created", "data": client})
}

// UpdateClient updates an existing client
// PUT /api/v1/clients/:id
func (h *ClientHandler) UpdateClient(c *fiber.Ctx) error {
	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid client ID"})
	}

	var client model.Client
	if err := c.BodyParser(&client); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateClient(clientID, &client, getUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrClientDocumentTaken):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"message": "Client updated", "data": updated})
}

// DeleteClient removes a client from the registry
// DELETE /api/v1/clients/:id
func (h *ClientHandler) DeleteClient(c *fiber.Ctx) error {
	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid client ID"})
	}

	if err := h.service.DeleteClient(clientID); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Client deleted"})
}
