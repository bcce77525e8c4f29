package handlers

import (
	"github.com/gofiber/fiber/v2"
)

func GetMe(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	// Credits come from session state, not the row we just read: state is
	// what the booking flow debits and what survives a datastore outage.
	return c.JSON(fiber.Map{
		"id":        user.ID,
		"full_name": user.FullName,
		"email":     user.Email,
		"role":      user.Role,
		"credits":   State.Buckets(user.Email),
	})
}

func GetMyCredits(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(State.Buckets(user.Email))
}
