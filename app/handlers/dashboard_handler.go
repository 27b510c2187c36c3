package handlers

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/leadmap/prospect-api/app/dto"
	"github.com/leadmap/prospect-api/app/middleware"
	"github.com/leadmap/prospect-api/app/scheduler"
	businessflow "github.com/leadmap/prospect-api/business_flow"
)

// DashboardHandlerInterface defines the contract for the listing dashboard endpoints
type DashboardHandlerInterface interface {
	GetListings(c fiber.Ctx) error
	GetCounts(c fiber.Ctx) error
	GetInsights(c fiber.Ctx) error
	PatchListing(c fiber.Ctx) error
}

// DashboardHandler handles listing dashboard HTTP requests
type DashboardHandler struct {
	dashboardFlow businessflow.DashboardFlow
	insightsFlow  businessflow.InsightsFlow
	counts        *scheduler.CountsRefresher
	validator     *validator.Validate
}

func NewDashboardHandler(
	dashboardFlow businessflow.DashboardFlow,
	insightsFlow businessflow.InsightsFlow,
	counts *scheduler.CountsRefresher,
) DashboardHandlerInterface {
	return &DashboardHandler{
		dashboardFlow: dashboardFlow,
		insightsFlow:  insightsFlow,
		counts:        counts,
		validator:     validator.New(),
	}
}

func (h *DashboardHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: &dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *DashboardHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// GetListings serves the dashboard page: category aggregation, view
// derivation, filtering, sorting and pagination in one query.
func (h *DashboardHandler) GetListings(c fiber.Ctx) error {
	req, err := h.listingsRequestFromQuery(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
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

	ctx, cancel := createRequestContext(c, "/api/v1/listings")
	defer cancel()

	start := time.Now()
	result, err := h.dashboardFlow.GetListings(ctx, userID, req)
	middleware.ObserveAggregation(time.Since(start))
	if err != nil {
		log.Println("Get listings failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch listings", "LISTINGS_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Listings retrieved successfully", result)
}

// GetCounts serves the cached per-category table sizes.
func (h *DashboardHandler) GetCounts(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, "/api/v1/listings/counts")
	defer cancel()

	snap, fromCache, err := h.counts.Counts(ctx)
	if err != nil {
		log.Println("Get counts failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch counts", "COUNTS_FETCH_FAILED", nil)
	}
	if snap == nil {
		return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Counts are not available yet", "COUNTS_NOT_READY", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Counts retrieved successfully", dto.CategoryCountsResponse{
		Counts:      snap.Counts,
		RefreshedAt: snap.RefreshedAt,
		FromCache:   fromCache,
	})
}

// GetInsights serves the in-memory analytics summary over the active
// filtered set.
func (h *DashboardHandler) GetInsights(c fiber.Ctx) error {
	req, err := h.listingsRequestFromQuery(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	userID, ok := authenticatedUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/listings/insights")
	defer cancel()

	result, err := h.insightsFlow.GetInsights(ctx, userID, req)
	if err != nil {
		log.Println("Get insights failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute insights", "INSIGHTS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Insights computed successfully", result)
}

// PatchListing applies a detail-view edit to the in-memory listing
// representation.
func (h *DashboardHandler) PatchListing(c fiber.Ctx) error {
	listingID := c.Params("id")
	if listingID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Listing ID is required", "MISSING_LISTING_ID", nil)
	}

	var req dto.PatchListingRequest
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

	ctx, cancel := createRequestContext(c, "/api/v1/listings/"+listingID)
	defer cancel()

	result, err := h.dashboardFlow.PatchListing(ctx, userID, listingID, &req)
	if err != nil {
		if businessflow.IsListingNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Listing not found", "LISTING_NOT_FOUND", nil)
		}
		log.Println("Patch listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update listing", "LISTING_PATCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Listing updated successfully", result)
}

// listingsRequestFromQuery maps the dashboard URL parameters onto the
// request DTO. Unknown values are passed through; the flow treats them as
// defaults.
func (h *DashboardHandler) listingsRequestFromQuery(c fiber.Ctx) (*dto.ListingsRequest, error) {
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
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "page must be an integer")
		}
		req.Page = page
	}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "page_size must be an integer")
		}
		req.PageSize = size
	}
	return req, nil
}
