package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gti/booking-qa/internal/models"
	"github.com/gti/booking-qa/internal/repository"
)

var ErrInvalidStayDates = errors.New("checkout must be after checkin")

type BookingService struct {
	bookingRepo    *repository.BookingRepository
	webhookService *WebhookService
}

func NewBookingService(
	bookingRepo *repository.BookingRepository,
	webhookService *WebhookService,
) *BookingService {
	return &BookingService{
		bookingRepo:    bookingRepo,
		webhookService: webhookService,
	}
}

// CreateBooking validates the stay and stores a new booking
func (s *BookingService) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := validateStay(req.CheckIn, req.CheckOut); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:              uuid.New().String(),
		Firstname:       req.Firstname,
		Lastname:        req.Lastname,
		TotalPrice:      req.TotalPrice,
		DepositPaid:     req.DepositPaid,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		AdditionalNeeds: req.AdditionalNeeds,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.webhookService.NotifyBookingEvent(EventBookingCreated, *booking)

	return booking, nil
}

// GetBooking returns a booking by ID
func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// ListBookings returns all bookings
func (s *BookingService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return s.bookingRepo.List(ctx)
}

// UpdateBooking replaces all fields of an existing booking
func (s *BookingService) UpdateBooking(ctx context.Context, id string, req *models.UpdateBookingRequest) (*models.Booking, error) {
	if err := validateStay(req.CheckIn, req.CheckOut); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:              id,
		Firstname:       req.Firstname,
		Lastname:        req.Lastname,
		TotalPrice:      req.TotalPrice,
		DepositPaid:     req.DepositPaid,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		AdditionalNeeds: req.AdditionalNeeds,
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	updated, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.webhookService.NotifyBookingEvent(EventBookingUpdated, *updated)

	return updated, nil
}

// PatchBooking applies the non-nil fields of the request to an existing
// booking
func (s *BookingService) PatchBooking(ctx context.Context, id string, req *models.PatchBookingRequest) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Firstname != nil {
		booking.Firstname = *req.Firstname
	}
	if req.Lastname != nil {
		booking.Lastname = *req.Lastname
	}
	if req.TotalPrice != nil {
		booking.TotalPrice = *req.TotalPrice
	}
	if req.DepositPaid != nil {
		booking.DepositPaid = *req.DepositPaid
	}
	if req.CheckIn != nil {
		booking.CheckIn = *req.CheckIn
	}
	if req.CheckOut != nil {
		booking.CheckOut = *req.CheckOut
	}
	if req.AdditionalNeeds != nil {
		booking.AdditionalNeeds = *req.AdditionalNeeds
	}

	if err := validateStay(booking.CheckIn, booking.CheckOut); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	updated, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.webhookService.NotifyBookingEvent(EventBookingUpdated, *updated)

	return updated, nil
}

// DeleteBooking removes a booking by ID
func (s *BookingService) DeleteBooking(ctx context.Context, id string) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.webhookService.NotifyBookingEvent(EventBookingDeleted, *booking)

	return nil
}

// validateStay checks that the checkout date falls after the checkin date
func validateStay(checkin, checkout string) error {
	in, err := time.Parse("2006-01-02", checkin)
	if err != nil {
		return fmt.Errorf("invalid checkin date: %w", err)
	}
	out, err := time.Parse("2006-01-02", checkout)
	if err != nil {
		return fmt.Errorf("invalid checkout date: %w", err)
	}

	if !out.After(in) {
		return ErrInvalidStayDates
	}

	return nil
}
