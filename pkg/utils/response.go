package utils

import "github.com/gofiber/fiber/v2"

// Send writes the standard response envelope. Every JSON response in
// the API, success or failure, carries the same three fields.
func Send(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func Paginated(c *fiber.Ctx, message string, data interface{}, total int64, limit int) error {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  fiber.StatusOK,
		"message": message,
		"data": fiber.Map{
			"totalPages":   totalPages,
			"totalRecords": total,
			"data":         data,
		},
	})
}
