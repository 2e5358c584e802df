package agent

import (
	"context"

	"prenotazioni/internal/service"
)

// Instructions is the system prompt handed to the external realtime voice
// model. The model drives the conversation; this package only executes the
// tools it invokes.
const Instructions = `You are a friendly and professional restaurant voice assistant for taking reservations and helping customers.

You can: take new reservations, check availability, look up or cancel
existing bookings by confirmation code, answer menu and allergen questions,
share restaurant information (hours, location, ambience), and note special
requests.

Always be polite, warm, and professional. Ask for the necessary details step
by step (date, time, party size, name, phone number), confirm all booking
details before finalizing, and provide the confirmation code for new
bookings. If a time is not available, offer the suggested alternatives.
Dates are YYYY-MM-DD and times are HH:MM in 24-hour format.`

// Session binds one live phone call to its tracker and toolbox. Construct
// one per call, start it when the call connects, end it when the caller
// hangs up.
type Session struct {
	Tools   *Toolbox
	Tracker *service.CallTracker
}

// NewInboundSession opens tracking for an answered inbound call and returns
// a session whose toolbox links bookings to the call log.
func NewInboundSession(ctx context.Context, tools Toolbox, callLogs service.CallLogStore, phoneNumber string) *Session {
	tracker := service.NewCallTracker(callLogs, service.CallInbound)
	tracker.Start(ctx, phoneNumber, "reservation_inquiry")

	tools.Tracker = tracker
	return &Session{Tools: &tools, Tracker: tracker}
}

// End finalizes the call log. Safe to call when tracking never opened.
func (s *Session) End(ctx context.Context, transcript, notes string) {
	s.Tracker.End(ctx, transcript, notes)
}
