package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"prenotazioni/internal/db"
	apperrors "prenotazioni/internal/errors"
	"prenotazioni/internal/service"
)

// AgentHandler manages call sessions for the external voice layer: the
// telephony integration calls start-call when a call connects and end-call
// when it hangs up.
type AgentHandler struct {
	CallLogs service.CallLogStore
	Notify   *service.NotifyService
}

func NewAgentHandler(callLogs service.CallLogStore, notify *service.NotifyService) *AgentHandler {
	return &AgentHandler{CallLogs: callLogs, Notify: notify}
}

func (h *AgentHandler) StartCall(w http.ResponseWriter, r *http.Request) {
	var req CallStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PhoneNumber == "" {
		http.Error(w, "phone_number is required", http.StatusBadRequest)
		return
	}

	cl := &db.CallLog{
		PhoneNumber: req.PhoneNumber,
		CallStart:   time.Now(),
		Status:      db.CallIncoming,
	}
	if req.Purpose != "" {
		cl.Purpose.String = req.Purpose
		cl.Purpose.Valid = true
	}
	if err := h.CallLogs.Insert(r.Context(), cl); err != nil {
		http.Error(w, "Could not start call session", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"call_log_id": cl.ID,
		"message":     "Agent call session started",
	})
}

func (h *AgentHandler) EndCall(w http.ResponseWriter, r *http.Request) {
	var req CallEndRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var transcript, notes *string
	if req.Transcript != "" {
		transcript = &req.Transcript
	}
	if req.Notes != "" {
		notes = &req.Notes
	}

	cl, err := h.CallLogs.End(r.Context(), req.CallLogID, time.Now(), db.CallCompleted, transcript, notes)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			http.Error(w, "Call log not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Could not end call session", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"call_log": cl,
		"message":  "Call ended successfully",
	})
}

// OutboundCall dials a customer and opens an outbound call session.
func (h *AgentHandler) OutboundCall(w http.ResponseWriter, r *http.Request) {
	var req OutboundCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PhoneNumber == "" {
		http.Error(w, "phone_number is required", http.StatusBadRequest)
		return
	}
	purpose := req.Purpose
	if purpose == "" {
		purpose = "outbound_call"
	}

	tracker, callSid, err := h.Notify.StartOutboundCall(r.Context(), req.PhoneNumber, purpose)
	if err != nil {
		http.Error(w, "Could not place outbound call", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"call_log_id": tracker.CallLogID(),
		"call_sid":    callSid,
		"message":     "Outbound call initiated",
	})
}

// CallAnalytics reports aggregate call activity for the trailing N days
// (default 7).
func (h *AgentHandler) CallAnalytics(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	stats, err := h.CallLogs.Analytics(r.Context(), days)
	if err != nil {
		http.Error(w, "Could not compute call analytics", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "metrics": stats})
}
