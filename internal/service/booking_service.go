package service

import (
	"context"
	"errors"

	"github.com/hijrafr/expat-services-api/internal/dto"
	"github.com/hijrafr/expat-services-api/internal/model"
	"github.com/hijrafr/expat-services-api/internal/repository"
)

var ErrSlotUnknown = errors.New("unknown consultation slot")

// Consultations run on the hour, Paris office hours.
var consultationSlots = []string{
	"09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00",
}

type BookingService struct {
	bookings *repository.BookingRepository
}

func NewBookingService(bookings *repository.BookingRepository) *BookingService {
	return &BookingService{bookings: bookings}
}

func (s *BookingService) Book(ctx context.Context, req *dto.CreateBookingRequest) (*model.Booking, error) {
	if !validSlot(req.Slot) {
		return nil, ErrSlotUnknown
	}

	booking := &model.Booking{
		BookingDate: req.BookingDate,
		Slot:        req.Slot,
		Topic:       req.Topic,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
	}
	if err := s.bookings.Insert(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// Availability returns the free slots for a date.
func (s *BookingService) Availability(ctx context.Context, date string) ([]string, error) {
	busy, err := s.bookings.BusySlots(ctx, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(busy))
	for _, slot := range busy {
		taken[slot] = true
	}

	free := make([]string, 0, len(consultationSlots))
	for _, slot := range consultationSlots {
		if !taken[slot] {
			free = append(free, slot)
		}
	}
	return free, nil
}

func validSlot(slot string) bool {
	for _, s := range consultationSlots {
		if s == slot {
			return true
		}
	}
	return false
}
