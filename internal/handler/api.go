package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/gti/booking-qa/internal/models"
	"github.com/gti/booking-qa/internal/repository"
	"github.com/gti/booking-qa/internal/service"
)

type APIHandler struct {
	bookingService *service.BookingService
	validate       *validator.Validate
}

func NewAPIHandler(bookingService *service.BookingService) *APIHandler {
	return &APIHandler{
		bookingService: bookingService,
		validate:       validator.New(),
	}
}

// Health reports service readiness
// @Summary Health check
// @Description Returns ok when the service is ready to accept requests
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service status"
// @Router /health [get]
func (h *APIHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ListBookings returns all bookings
// @Summary List all bookings
// @Description Returns all bookings, newest first
// @Tags Bookings
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Booking "List of bookings"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/bookings [get]
func (h *APIHandler) ListBookings(c echo.Context) error {
	bookings, err := h.bookingService.ListBookings(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	if bookings == nil {
		bookings = []models.Booking{}
	}

	return c.JSON(http.StatusOK, bookings)
}

// GetBooking returns a single booking by ID
// @Summary Get booking by ID
// @Description Returns a single booking by its ID
// @Tags Bookings
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} models.Booking "Booking details"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/bookings/{id} [get]
func (h *APIHandler) GetBooking(c echo.Context) error {
	id := c.Param("id")

	booking, err := h.bookingService.GetBooking(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "booking not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, booking)
}

// CreateBooking creates a new booking
// @Summary Create a booking
// @Description Create a new booking for a stay
// @Tags Bookings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param booking body models.CreateBookingRequest true "Booking to create"
// @Success 201 {object} models.Booking "Created booking"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/bookings [post]
func (h *APIHandler) CreateBooking(c echo.Context) error {
	var req models.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	booking, err := h.bookingService.CreateBooking(c.Request().Context(), &req)
	if err != nil {
		if isStayDateError(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, booking)
}

// UpdateBooking replaces an existing booking
// @Summary Update a booking
// @Description Replace all fields of an existing booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Booking ID"
// @Param booking body models.UpdateBookingRequest true "Booking fields"
// @Success 200 {object} models.Booking "Updated booking"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/bookings/{id} [put]
func (h *APIHandler) UpdateBooking(c echo.Context) error {
	id := c.Param("id")

	var req models.UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	booking, err := h.bookingService.UpdateBooking(c.Request().Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "booking not found",
			})
		}
		if isStayDateError(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, booking)
}

// PatchBooking partially updates an existing booking
// @Summary Patch a booking
// @Description Update only the provided fields of an existing booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Booking ID"
// @Param booking body models.PatchBookingRequest true "Booking fields to update"
// @Success 200 {object} models.Booking "Updated booking"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/bookings/{id} [patch]
func (h *APIHandler) PatchBooking(c echo.Context) error {
	id := c.Param("id")

	var req models.PatchBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	booking, err := h.bookingService.PatchBooking(c.Request().Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "booking not found",
			})
		}
		if isStayDateError(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, booking)
}

// DeleteBooking deletes a booking
// @Summary Delete a booking
// @Description Delete a booking by its ID
// @Tags Bookings
// @Security ApiKeyAuth
// @Param id path string true "Booking ID"
// @Success 204 "Booking deleted"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/bookings/{id} [delete]
func (h *APIHandler) DeleteBooking(c echo.Context) error {
	id := c.Param("id")

	if err := h.bookingService.DeleteBooking(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "booking not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.NoContent(http.StatusNoContent)
}

// isStayDateError classifies validation failures produced by the booking
// service before any database work happens
func isStayDateError(err error) bool {
	if errors.Is(err, service.ErrInvalidStayDates) {
		return true
	}
	return strings.HasPrefix(err.Error(), "invalid checkin date") ||
		strings.HasPrefix(err.Error(), "invalid checkout date")
}
