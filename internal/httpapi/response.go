package httpapi

import "github.com/gofiber/fiber/v2"

// Response is the envelope of every API response.
type Response struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

const (
	MessageSuccessGetList    = "success get shopping list"
	MessageSuccessToggleItem = "item updated"
	MessageSuccessAddItem    = "item added"
	MessageSuccessRemoveItem = "item removed"
	MessageSuccessPrune      = "stale checkmarks pruned"

	MessageFailedGetList    = "failed to get shopping list"
	MessageFailedToggleItem = "failed to update item"
	MessageFailedAddItem    = "failed to add item"
	MessageFailedRemoveItem = "failed to remove item"
	MessageFailedPrune      = "failed to prune checkmarks"
	MessageUnauthorized     = "unauthorized"
)

func successResponse(c *fiber.Ctx, data interface{}, status int, message string) error {
	return c.Status(status).JSON(Response{Status: true, Message: message, Data: data})
}

func errorResponse(c *fiber.Ctx, status int, message string, err error) error {
	resp := Response{Status: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.Status(status).JSON(resp)
}
