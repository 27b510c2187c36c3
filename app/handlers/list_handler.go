package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/leadmap/prospect-api/app/dto"
	businessflow "github.com/leadmap/prospect-api/business_flow"
)

var errMissingListUUID = errors.New("list uuid path parameter is missing")

// ListHandlerInterface defines the contract for user list endpoints
type ListHandlerInterface interface {
	CreateList(c fiber.Ctx) error
	GetLists(c fiber.Ctx) error
	DeleteList(c fiber.Ctx) error
	AddItem(c fiber.Ctx) error
	RemoveItem(c fiber.Ctx) error
}

// ListHandler handles user list HTTP requests
type ListHandler struct {
	listFlow  businessflow.ListFlow
	validator *validator.Validate
}

func NewListHandler(listFlow businessflow.ListFlow) ListHandlerInterface {
	return &ListHandler{
		listFlow:  listFlow,
		validator: validator.New(),
	}
}

func (h *ListHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: &dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ListHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateList creates a named collection owned by the authenticated user.
func (h *ListHandler) CreateList(c fiber.Ctx) error {
	var req dto.CreateListRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/lists")
	defer cancel()

	result, err := h.listFlow.CreateList(ctx, userID, &req)
	if err != nil {
		log.Println("Create list failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create list", "LIST_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "List created successfully", result)
}

// GetLists returns the user's lists with item counts.
func (h *ListHandler) GetLists(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/lists")
	defer cancel()

	result, err := h.listFlow.GetLists(ctx, userID)
	if err != nil {
		log.Println("Get lists failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lists", "LIST_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Lists retrieved successfully", result)
}

// DeleteList deletes a list and all of its memberships.
func (h *ListHandler) DeleteList(c fiber.Ctx) error {
	listUUID, err := h.listUUIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "List UUID is invalid", "INVALID_LIST_UUID", nil)
	}

	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/lists/"+listUUID.String())
	defer cancel()

	if err := h.listFlow.DeleteList(ctx, userID, listUUID); err != nil {
		return h.listFlowError(c, "Delete list failed", "LIST_DELETE_FAILED", err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "List deleted successfully", nil)
}

// AddItem adds a listing identifier to a list. Adding an existing member
// succeeds and reports already_member.
func (h *ListHandler) AddItem(c fiber.Ctx) error {
	listUUID, err := h.listUUIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "List UUID is invalid", "INVALID_LIST_UUID", nil)
	}

	var req dto.AddListItemRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/lists/"+listUUID.String()+"/items")
	defer cancel()

	result, err := h.listFlow.AddItem(ctx, userID, listUUID, &req)
	if err != nil {
		return h.listFlowError(c, "Add list item failed", "LIST_ADD_FAILED", err)
	}

	status := fiber.StatusCreated
	if result.AlreadyMember {
		status = fiber.StatusOK
	}
	return h.SuccessResponse(c, status, "Item added successfully", result)
}

// RemoveItem removes a listing identifier from a list.
func (h *ListHandler) RemoveItem(c fiber.Ctx) error {
	listUUID, err := h.listUUIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "List UUID is invalid", "INVALID_LIST_UUID", nil)
	}

	itemID := c.Params("item_id")
	if itemID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Item ID is required", "MISSING_ITEM_ID", nil)
	}

	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/lists/"+listUUID.String()+"/items/"+itemID)
	defer cancel()

	if err := h.listFlow.RemoveItem(ctx, userID, listUUID, itemID); err != nil {
		return h.listFlowError(c, "Remove list item failed", "LIST_REMOVE_FAILED", err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Item removed successfully", nil)
}

func (h *ListHandler) listUUIDParam(c fiber.Ctx) (uuid.UUID, error) {
	raw := c.Params("uuid")
	if raw == "" {
		return uuid.Nil, errMissingListUUID
	}
	return uuid.Parse(raw)
}

func (h *ListHandler) listFlowError(c fiber.Ctx, logMsg, fallbackCode string, err error) error {
	switch {
	case businessflow.IsListNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "List not found", "LIST_NOT_FOUND", nil)
	case businessflow.IsListAccessDenied(err):
		return h.ErrorResponse(c, fiber.StatusForbidden, "List access denied", "LIST_ACCESS_DENIED", nil)
	case businessflow.IsItemIDRequired(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Item identifier is required", "ITEM_ID_REQUIRED", nil)
	default:
		log.Println(logMsg, err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, logMsg, fallbackCode, nil)
	}
}
