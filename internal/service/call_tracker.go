package service

import (
	"context"
	"log"
	"sync"
	"time"

	"prenotazioni/internal/db"
)

// CallDirection selects the initial status written to the call log.
type CallDirection int

const (
	CallInbound CallDirection = iota
	CallOutbound
)

// CallTracker records the lifecycle of a single phone session:
// Start opens a call log, End finalizes it with duration and transcript.
// Every store failure is logged and swallowed. A broken call log must never
// take down the call it describes.
type CallTracker struct {
	CallLogs  CallLogStore
	Direction CallDirection

	// Now is swappable for tests.
	Now func() time.Time

	mu          sync.Mutex
	callLogID   int
	open        bool
	phoneNumber string
}

func NewCallTracker(callLogs CallLogStore, direction CallDirection) *CallTracker {
	return &CallTracker{
		CallLogs:  callLogs,
		Direction: direction,
		Now:       time.Now,
	}
}

// Start opens the call log. Calling Start on an already-open tracker is a
// logged no-op; it never creates a second log for the same session.
func (t *CallTracker) Start(ctx context.Context, phoneNumber, purpose string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.open {
		log.Printf("Call tracking already started for %s, ignoring duplicate start", t.phoneNumber)
		return
	}

	status := db.CallAnswered
	if t.Direction == CallOutbound {
		status = db.CallIncoming
	}

	cl := &db.CallLog{
		PhoneNumber: phoneNumber,
		CallStart:   t.Now(),
		Status:      status,
	}
	if purpose != "" {
		cl.Purpose.String = purpose
		cl.Purpose.Valid = true
	}

	if err := t.CallLogs.Insert(ctx, cl); err != nil {
		log.Printf("Error starting call tracking for %s: %v", phoneNumber, err)
		return
	}
	t.callLogID = cl.ID
	t.open = true
	t.phoneNumber = phoneNumber
}

// End finalizes the call log with status completed, stamping call_end and
// the derived duration. Without an open session it is a safe no-op.
func (t *CallTracker) End(ctx context.Context, transcript, notes string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.open {
		return
	}

	var transcriptPtr, notesPtr *string
	if transcript != "" {
		transcriptPtr = &transcript
	}
	if notes != "" {
		notesPtr = &notes
	}

	_, err := t.CallLogs.End(ctx, t.callLogID, t.Now(), db.CallCompleted, transcriptPtr, notesPtr)
	if err != nil {
		log.Printf("Error ending call tracking for %s: %v", t.phoneNumber, err)
		return
	}
	t.open = false
}

// Fail closes the session with status failed, for calls that never
// connected. Same no-op and swallow rules as End.
func (t *CallTracker) Fail(ctx context.Context, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.open {
		return
	}
	var notesPtr *string
	if reason != "" {
		notesPtr = &reason
	}
	_, err := t.CallLogs.End(ctx, t.callLogID, t.Now(), db.CallFailed, nil, notesPtr)
	if err != nil {
		log.Printf("Error failing call tracking for %s: %v", t.phoneNumber, err)
		return
	}
	t.open = false
}

// AttachBooking links the current call to a booking it produced. No-op when
// no session is open; failures are logged only.
func (t *CallTracker) AttachBooking(ctx context.Context, bookingID int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.open {
		return
	}
	if err := t.CallLogs.LinkBooking(ctx, t.callLogID, bookingID); err != nil {
		log.Printf("Error linking booking %d to call log %d: %v", bookingID, t.callLogID, err)
	}
}

// CallLogID exposes the open session's log id, or 0 when none is open.
func (t *CallTracker) CallLogID() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open {
		return 0
	}
	return t.callLogID
}
