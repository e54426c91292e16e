package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// optionalQuery returns a pointer to the query value when the key is present,
// even if its value is empty, and nil when it is absent
func optionalQuery(c *fiber.Ctx, key string) *string {
	args := c.Context().QueryArgs()
	if !args.Has(key) {
		return nil
	}
	value := string(args.Peek(key))
	return &value
}

// requiredQuery returns the query value or a 400 error naming the parameter
func requiredQuery(c *fiber.Ctx, key string) (string, error) {
	value := optionalQuery(c, key)
	if value == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "required parameter '"+key+"' is missing")
	}
	return *value, nil
}

// parseInt64Param parses an integer path parameter
func parseInt64Param(c *fiber.Ctx, key string) (int64, error) {
	raw := c.Params(key)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "parameter '"+key+"' must be an integer, got '"+raw+"'")
	}
	return value, nil
}
