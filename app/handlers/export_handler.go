package handlers

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/leadmap/prospect-api/app/dto"
	businessflow "github.com/leadmap/prospect-api/business_flow"
)

// ExportHandlerInterface defines the contract for the listing export endpoint
type ExportHandlerInterface interface {
	Export(c fiber.Ctx) error
}

// ExportHandler handles listing export HTTP requests
type ExportHandler struct {
	exportFlow businessflow.ExportFlow
}

func NewExportHandler(exportFlow businessflow.ExportFlow) ExportHandlerInterface {
	return &ExportHandler{exportFlow: exportFlow}
}

func (h *ExportHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: &dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// Export streams the filtered listing set as a CSV or Excel download. The
// same query parameters as the dashboard apply; "format" picks the document
// type.
func (h *ExportHandler) Export(c fiber.Ctx) error {
	req := &dto.ListingsRequest{
		Filter: c.Query("filter"),
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		View:   c.Query("view"),
		Apollo: c.Query("apollo"),
	}
	if meta := c.Query("meta"); meta != "" {
		for _, token := range strings.Split(meta, ",") {
			if token = strings.TrimSpace(token); token != "" {
				req.Meta = append(req.Meta, token)
			}
		}
	}

	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/listings/export")
	defer cancel()

	result, err := h.exportFlow.Export(ctx, userID, req, c.Query("format"))
	if err != nil {
		if businessflow.IsUnsupportedExportFormat(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unsupported export format", "UNSUPPORTED_EXPORT_FORMAT", nil)
		}
		log.Println("Export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export listings", "EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, result.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+result.Filename+`"`)
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(result.Data)))
	return c.Status(fiber.StatusOK).Send(result.Data)
}
