package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"meal-planner/internal/planner"
	"meal-planner/internal/shopping"
)

// ShoppingService is the subset of shopping.Service the API binds to routes.
type ShoppingService interface {
	Generate(ctx context.Context, start time.Time) (*shopping.ShoppingList, error)
	Toggle(ctx context.Context, start time.Time, itemID string, checked bool) error
	AddCustomItem(ctx context.Context, start time.Time, in shopping.CustomItemInput) (shopping.ShoppingItem, error)
	RemoveItem(ctx context.Context, start time.Time, itemID string) (bool, error)
	Prune(ctx context.Context, start time.Time) (int, error)
}

type shoppingHandler struct {
	service   ShoppingService
	validator *validator.Validate
	now       func() time.Time
}

func newShoppingHandler(service ShoppingService, v *validator.Validate) *shoppingHandler {
	return &shoppingHandler{service: service, validator: v, now: time.Now}
}

// weekParam resolves the :start route parameter; "current" means this week's Monday.
func (h *shoppingHandler) weekParam(c *fiber.Ctx) (time.Time, error) {
	raw := c.Params("start")
	if raw == "current" {
		return planner.WeekStart(h.now()), nil
	}
	return planner.ParseDate(raw)
}

func (h *shoppingHandler) GetList(c *fiber.Ctx) error {
	start, err := h.weekParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, MessageFailedGetList, err)
	}

	list, err := h.service.Generate(c.UserContext(), start)
	if err != nil {
		return errorResponse(c, statusFor(err), MessageFailedGetList, err)
	}
	return successResponse(c, list, fiber.StatusOK, MessageSuccessGetList)
}

func (h *shoppingHandler) ToggleItem(c *fiber.Ctx) error {
	start, err := h.weekParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, MessageFailedToggleItem, err)
	}

	var req ToggleItemRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, MessageFailedToggleItem, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, MessageFailedToggleItem, validationError(err))
	}

	itemID := c.Params("id")
	if err := h.service.Toggle(c.UserContext(), start, itemID, *req.Checked); err != nil {
		return errorResponse(c, statusFor(err), MessageFailedToggleItem, err)
	}
	return successResponse(c, fiber.Map{"id": itemID, "is_checked": *req.Checked}, fiber.StatusOK, MessageSuccessToggleItem)
}

func (h *shoppingHandler) AddItem(c *fiber.Ctx) error {
	start, err := h.weekParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, MessageFailedAddItem, err)
	}

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, MessageFailedAddItem, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, MessageFailedAddItem, validationError(err))
	}

	in := shopping.CustomItemInput{Name: req.Name, Quantity: req.Quantity, Unit: req.Unit}
	if req.Category != "" {
		// Already validated by the "category" tag.
		in.Category, _ = shopping.ParseCategory(req.Category)
	}

	item, err := h.service.AddCustomItem(c.UserContext(), start, in)
	if err != nil {
		return errorResponse(c, statusFor(err), MessageFailedAddItem, err)
	}
	return successResponse(c, item, fiber.StatusCreated, MessageSuccessAddItem)
}

func (h *shoppingHandler) RemoveItem(c *fiber.Ctx) error {
	start, err := h.weekParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, MessageFailedRemoveItem, err)
	}

	removed, err := h.service.RemoveItem(c.UserContext(), start, c.Params("id"))
	if err != nil {
		return errorResponse(c, statusFor(err), MessageFailedRemoveItem, err)
	}
	if !removed {
		return errorResponse(c, fiber.StatusNotFound, MessageFailedRemoveItem, errItemNotFound)
	}
	return successResponse(c, fiber.Map{"removed": true}, fiber.StatusOK, MessageSuccessRemoveItem)
}

func (h *shoppingHandler) Prune(c *fiber.Ctx) error {
	start, err := h.weekParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, MessageFailedPrune, err)
	}

	n, err := h.service.Prune(c.UserContext(), start)
	if err != nil {
		return errorResponse(c, statusFor(err), MessageFailedPrune, err)
	}
	return successResponse(c, fiber.Map{"pruned": n}, fiber.StatusOK, MessageSuccessPrune)
}

var errItemNotFound = errors.New("item not found")

func statusFor(err error) int {
	switch {
	case errors.Is(err, shopping.ErrInvalidCategory), errors.Is(err, shopping.ErrInvalidDate):
		return fiber.StatusBadRequest
	case errors.Is(err, shopping.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
