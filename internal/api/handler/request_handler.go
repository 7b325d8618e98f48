package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handyhub/marketplace-system/internal/core/ports"
)

// RequestHandler handles HTTP requests for the service-request lifecycle.
type RequestHandler struct {
	requests ports.RequestService
	matching ports.MatchingService
}

func NewRequestHandler(requests ports.RequestService, matching ports.MatchingService) *RequestHandler {
	return &RequestHandler{requests: requests, matching: matching}
}

// Create handles POST /v1/service-requests.
//
// @Summary      Post a new service request
// @Tags         service-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createServiceRequestRequest  true  "Service request details"
// @Success      201   {object}  serviceRequestResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/service-requests [post]
func (h *RequestHandler) Create(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createServiceRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.requests.Create(c.Request().Context(), caller, toCreateRequestInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toRequestResponse(created))
}

// List handles GET /v1/service-requests — the caller's own requests,
// role-scoped: clients see what they posted, technicians what they accepted.
//
// @Summary      List my service requests
// @Tags         service-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listServiceRequestsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/service-requests [get]
func (h *RequestHandler) List(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	items, err := h.requests.ListMine(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toRequestListResponse(items))
}

// Available handles GET /v1/service-requests/available — unassigned pending
// requests matching the calling technician's skills, newest first.
//
// @Summary      List requests available to accept
// @Tags         service-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listServiceRequestsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/service-requests/available [get]
func (h *RequestHandler) Available(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	items, err := h.matching.ListAvailable(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toRequestListResponse(items))
}

// Get handles GET /v1/service-requests/:id.
//
// @Summary      Get a service request
// @Tags         service-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service request id"
// @Success      200  {object}  serviceRequestResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/service-requests/{id} [get]
func (h *RequestHandler) Get(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	req, err := h.requests.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toRequestResponse(req))
}

// Update handles PATCH /v1/service-requests/:id — lifecycle transitions
// (accept, start, complete, cancel) and technician-notes updates.
//
// @Summary      Update a service request
// @Tags         service-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                       true  "Service request id"
// @Param        body  body      updateServiceRequestRequest  true  "Fields to update"
// @Success      200   {object}  serviceRequestResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/service-requests/{id} [patch]
func (h *RequestHandler) Update(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateServiceRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.requests.Update(c.Request().Context(), caller, c.Param("id"), toUpdateRequestInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toRequestResponse(updated))
}
