package service

import (
	"context"
	"fmt"
	"log"

	"prenotazioni/internal/db"
	"prenotazioni/internal/utils"
)

// NotifyService sends booking confirmations over SMS and email and starts
// outbound courtesy calls. Delivery runs in goroutines; a failed
// notification is logged and never fails the booking that triggered it.
type NotifyService struct {
	RestaurantName string
	CallLogs       CallLogStore
	VoiceURL       string
}

func NewNotifyService(restaurantName string, callLogs CallLogStore, voiceURL string) *NotifyService {
	return &NotifyService{
		RestaurantName: restaurantName,
		CallLogs:       callLogs,
		VoiceURL:       voiceURL,
	}
}

// BookingConfirmed implements BookingNotifier.
func (s *NotifyService) BookingConfirmed(customer *db.Customer, booking *db.Booking) {
	when := utils.SpeakableDate(booking.BookingDate)

	sms := fmt.Sprintf("%s: your reservation for %d on %s is confirmed. Confirmation code: %s.",
		s.RestaurantName, booking.PartySize, when, booking.ConfirmationCode)
	go func(phone, body, code string) {
		if err := SendSMS(phone, body); err != nil {
			log.Printf("WARNING: booking %s created, but confirmation SMS to %s failed: %v", code, phone, err)
		}
	}(customer.PhoneNumber, sms, booking.ConfirmationCode)

	if !customer.Email.Valid {
		return
	}
	name := customer.PhoneNumber
	if customer.Name.Valid {
		name = customer.Name.String
	}
	subject := fmt.Sprintf("Your %s reservation - code %s", s.RestaurantName, booking.ConfirmationCode)
	plain := fmt.Sprintf(
		"Hello %s,\n\nYour reservation at %s is confirmed.\n\n"+
			"Confirmation code: %s\n"+
			"Party size: %d\n"+
			"Date: %s\n\n"+
			"We look forward to seeing you.\n",
		name, s.RestaurantName, booking.ConfirmationCode, booking.PartySize, when)
	go func(email, toName, subj, body, code string) {
		if err := SendEmailWithSendGrid(email, toName, subj, body, ""); err != nil {
			log.Printf("WARNING: booking %s created, but confirmation email to %s failed: %v", code, email, err)
		}
	}(customer.Email.String, name, subject, plain, booking.ConfirmationCode)
}

// StartOutboundCall dials a customer through Twilio and opens an outbound
// call session so the conversation gets tracked like any inbound one.
// Returns the tracker (already started) and the provider call SID.
func (s *NotifyService) StartOutboundCall(ctx context.Context, phoneNumber, purpose string) (*CallTracker, string, error) {
	tracker := NewCallTracker(s.CallLogs, CallOutbound)
	tracker.Start(ctx, phoneNumber, purpose)

	sid, err := PlaceCall(phoneNumber, s.VoiceURL)
	if err != nil {
		tracker.Fail(ctx, fmt.Sprintf("outbound dial failed: %v", err))
		return nil, "", err
	}
	return tracker, sid, nil
}

var _ BookingNotifier = (*NotifyService)(nil)
