package api

import (
	"errors"

	"booking-service/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreditHandler struct {
	creditService service.CreditService
	validate      *validator.Validate
}

func NewCreditHandler(creditService service.CreditService) *CreditHandler {
	return &CreditHandler{
		creditService: creditService,
		validate:      validator.New(),
	}
}

type CreatePackageRequest struct {
	Name         string          `json:"name" validate:"required"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	Price        decimal.Decimal `json:"price"`
}

func (h *CreditHandler) ListPackages(c *fiber.Ctx) error {
	packages, err := h.creditService.ListPackages(c.UserContext())
	if err != nil {
		return respondFailure(c, err)
	}
	return c.JSON(packages)
}

func (h *CreditHandler) CreatePackage(c *fiber.Ctx) error {
	var request CreatePackageRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON", "details": err.Error()})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	pkg, err := h.creditService.CreatePackage(c.UserContext(), request.Name, request.CreditAmount, request.Price)
	switch {
	case errors.Is(err, service.ErrInvalidPackage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrPackageNameTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Credit package name already exists"})
	case err != nil:
		return respondFailure(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(pkg)
}

func (h *CreditHandler) DeletePackage(c *fiber.Ctx) error {
	packageID, err := uuid.Parse(c.Params("creditPackageId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid credit package ID"})
	}

	if err := h.creditService.DeletePackage(c.UserContext(), packageID); err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Credit package not found"})
		}
		return respondFailure(c, err)
	}

	return c.JSON(fiber.Map{"message": "Credit package deleted"})
}

func (h *CreditHandler) Purchase(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	packageID, err := uuid.Parse(c.Params("creditPackageId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid credit package ID"})
	}

	outcome, err := h.creditService.PurchaseCredits(c.UserContext(), userID, packageID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return respondFailure(c, err)
	}
	if !outcome.Admitted() {
		return respondRejected(c, outcome.Rejected)
	}

	return c.Status(fiber.StatusCreated).JSON(outcome.Purchase)
}
