package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"yoga_studio_backend/database"
	"yoga_studio_backend/models"
)

type PackageRequest struct {
	Name     string  `json:"name" validate:"required"`
	Kind     string  `json:"kind" validate:"required,oneof=single five ten"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"omitempty,iso4217"`
}

func creditsForKind(kind string) int {
	switch kind {
	case models.PackageFive:
		return 5
	case models.PackageTen:
		return 10
	default:
		return 1
	}
}

func CreatePackage(c *fiber.Ctx) error {
	var req PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	pkg := models.ClassPackage{
		Name:    req.Name,
		Kind:    req.Kind,
		Credits: creditsForKind(req.Kind),
		Price:   req.Price,
	}
	if req.Currency != "" {
		pkg.Currency = req.Currency
	}

	if err := database.DB.Create(&pkg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create package"})
	}
	return c.Status(fiber.StatusCreated).JSON(pkg)
}

func UpdatePackage(c *fiber.Ctx) error {
	pkgID := c.Params("packageId")
	var pkg models.ClassPackage
	if err := database.DB.First(&pkg, "id = ?", pkgID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Package not found"})
	}

	var req PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	pkg.Name = req.Name
	pkg.Kind = req.Kind
	pkg.Credits = creditsForKind(req.Kind)
	pkg.Price = req.Price
	if req.Currency != "" {
		pkg.Currency = req.Currency
	}
	database.DB.Save(&pkg)

	return c.JSON(pkg)
}

func TogglePackageStatus(c *fiber.Ctx) error {
	pkgID := c.Params("packageId")
	type Request struct {
		IsActive bool `json:"is_active"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	result := database.DB.Model(&models.ClassPackage{}).Where("id = ?", pkgID).Update("is_active", req.IsActive)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update package status"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Package not found"})
	}

	return c.JSON(fiber.Map{"message": "Package status updated successfully."})
}

func ListActivePackages(c *fiber.Ctx) error {
	var packages []models.ClassPackage
	database.DB.Where("is_active = ?", true).Order("credits asc").Find(&packages)
	return c.JSON(packages)
}

func AdminListPackages(c *fiber.Ctx) error {
	var packages []models.ClassPackage
	database.DB.Order("created_at desc").Find(&packages)
	return c.JSON(packages)
}

type PurchasePackageRequest struct {
	PaymentProvider string `json:"payment_provider" validate:"required,oneof=card cash comp"`
}

func PurchasePackage(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	pkgID, err := uuid.Parse(c.Params("packageId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid package ID format"})
	}

	var req PurchasePackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var pkg models.ClassPackage
	if err := database.DB.First(&pkg, "id = ? AND is_active = ?", pkgID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Active package not found"})
	}

	payment, err := Bookings.PurchasePackage(user, pkg, req.PaymentProvider)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process purchase: " + err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Package purchased successfully. Your credits are ready to use.",
		"payment": payment,
		"credits": State.Buckets(user.Email),
	})
}
