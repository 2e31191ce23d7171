package controllers

import (
	"strings"

	"scanbridge-backend/database"
	"scanbridge-backend/middlewares"
	"scanbridge-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Register creates the single operator account. Once one exists, further
// registrations are rejected; the service is single-tenant by design.
func Register(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return err
	}

	name := strings.TrimSpace(data["name"])
	if name == "" {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "name is required",
		})
	}
	if len(data["password"]) < 8 {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "password must be at least 8 characters",
		})
	}
	if data["password"] != data["password_confirm"] {
		c.Status(400)
		return c.JSON(fiber.Map{
			"message": "passwords do not match",
		})
	}

	var count int64
	database.DB.Model(&models.Operator{}).Count(&count)
	if count > 0 {
		c.Status(fiber.StatusConflict)
		return c.JSON(fiber.Map{
			"message": "operator account already exists",
		})
	}

	operator := models.Operator{Name: name}
	operator.SetPassword(data["password"])
	if err := database.DB.Create(&operator).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create operator",
			"error":   err.Error(),
		})
	}

	return c.JSON(operator)
}

// Login exchanges operator credentials for a Bearer token.
func Login(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return err
	}

	var operator models.Operator
	err := database.DB.Where("name = ?", strings.TrimSpace(data["name"])).First(&operator).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	if _, err := uuid.Parse(operator.Id); err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "invalid credentials",
		})
	}

	if err := operator.ComparePassword(data["password"]); err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "invalid credentials",
		})
	}

	token, err := middlewares.GenerateJWT(operator.Id)
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"message": "could not issue token",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
	})
}
