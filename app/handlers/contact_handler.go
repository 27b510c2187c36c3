package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/leadmap/prospect-api/app/dto"
	businessflow "github.com/leadmap/prospect-api/business_flow"
)

// ContactHandlerInterface defines the contract for CRM contact endpoints
type ContactHandlerInterface interface {
	SaveContact(c fiber.Ctx) error
	RemoveContact(c fiber.Ctx) error
	ListContacts(c fiber.Ctx) error
}

// ContactHandler handles CRM contact HTTP requests
type ContactHandler struct {
	contactFlow businessflow.ContactFlow
	validator   *validator.Validate
}

func NewContactHandler(contactFlow businessflow.ContactFlow) ContactHandlerInterface {
	return &ContactHandler{
		contactFlow: contactFlow,
		validator:   validator.New(),
	}
}

func (h *ContactHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: &dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ContactHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SaveContact saves a listing into the user's CRM. Saving an already-saved
// listing succeeds and reports already_saved.
func (h *ContactHandler) SaveContact(c fiber.Ctx) error {
	var req dto.SaveContactRequest
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

	ctx, cancel := createRequestContext(c, "/api/v1/contacts")
	defer cancel()

	result, err := h.contactFlow.SaveContact(ctx, userID, &req)
	if err != nil {
		if businessflow.IsIdentifierRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "listing_id or property_url is required", "IDENTIFIER_REQUIRED", nil)
		}
		log.Println("Save contact failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save contact", "CONTACT_SAVE_FAILED", nil)
	}

	status := fiber.StatusCreated
	if result.AlreadySaved {
		status = fiber.StatusOK
	}
	return h.SuccessResponse(c, status, "Contact saved successfully", result)
}

// RemoveContact removes a saved listing from the user's CRM.
func (h *ContactHandler) RemoveContact(c fiber.Ctx) error {
	sourceID := c.Params("source_id")
	if sourceID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Source ID is required", "MISSING_SOURCE_ID", nil)
	}

	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/contacts/"+sourceID)
	defer cancel()

	if err := h.contactFlow.RemoveContact(ctx, userID, sourceID); err != nil {
		if businessflow.IsIdentifierRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Source identifier is required", "IDENTIFIER_REQUIRED", nil)
		}
		log.Println("Remove contact failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove contact", "CONTACT_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Contact removed successfully", nil)
}

// ListContacts returns the user's saved CRM contacts, newest first.
func (h *ContactHandler) ListContacts(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/contacts")
	defer cancel()

	result, err := h.contactFlow.ListContacts(ctx, userID)
	if err != nil {
		log.Println("List contacts failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list contacts", "CONTACT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Contacts retrieved successfully", result)
}
