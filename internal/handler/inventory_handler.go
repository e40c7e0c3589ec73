package handler

import (
	"errors"
	"io"

	"go-pos-backoffice/internal/model"
	"go-pos-backoffice/internal/nfe"
	"go-pos-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// Helpers to pull user info from the JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system" // Shouldn't happen on protected routes
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

func getUserEmail(c *fiber.Ctx) string {
	userEmail := c.Locals("user_email")
	if userEmail == nil {
		return ""
	}
	return userEmail.(string)
}

func getUserRole(c *fiber.Ctx) string {
	userRole := c.Locals("user_role")
	if userRole == nil {
		return ""
	}
	return userRole.(string)
}

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProductByID(productID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(product)
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateProduct(&product, getUserID(c), getUserName(c), getUserEmail(c)); err != nil {
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrCodeExists) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateProduct(productID, &product, getUserID(c), getUserName(c), getUserEmail(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrCodeExists):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.DeleteProduct(productID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product removed from inventory"})
}

// ImportInvoice ingests an NF-e XML file uploaded as multipart form field
// "xml_file" and reports how many line items were processed.
// POST /api/v1/products/import
func (h *InventoryHandler) ImportInvoice(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("xml_file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Please attach an XML file as 'xml_file'"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Failed to open uploaded file"})
	}
	defer file.Close()

	doc, err := io.ReadAll(file)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Failed to read uploaded file"})
	}

	processed, err := h.service.ImportInvoice(doc, getUserID(c), getUserName(c), getUserEmail(c))
	if err != nil {
		var parseErr *nfe.ParseError
		switch {
		case errors.As(err, &parseErr), errors.Is(err, nfe.ErrNoItems):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"message":         "Invoice imported",
		"items_processed": processed,
	})
}

func (h *InventoryHandler) GetMovements(c *fiber.Ctx) error {
	movements, err := h.service.GetAllMovements()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(movements)
}

func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	movementID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid movement ID"})
	}

	movement, err := h.service.GetMovementByID(movementID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Movement not found"})
	}
	return c.JSON(movement)
}
