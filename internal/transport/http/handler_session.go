package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"spot-trainer/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const maxCreateBody = 1 << 20

type SessionHandlers struct {
	mgr *session.Manager
}

func NewSessionHandlers(mgr *session.Manager) *SessionHandlers {
	return &SessionHandlers{mgr: mgr}
}

// statusFor maps a session error to its HTTP status and wire code.
func statusFor(err error) (int, string) {
	switch session.Classify(err) {
	case session.KindConfiguration, session.KindProtocol:
		return http.StatusBadRequest, session.Code(err)
	case session.KindNotFound:
		return http.StatusNotFound, session.Code(err)
	case session.KindLegality:
		return http.StatusConflict, session.Code(err)
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request_failed")
	}
	WriteHTTPError(w, status, code)
}

func (h *SessionHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func (h *SessionHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricSessionCreateTotal.Add(1)
		var req session.CreateSessionRequest
		dec := json.NewDecoder(io.LimitReader(r.Body, maxCreateBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			metricSessionCreateErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.mgr.Create(r.Context(), req)
		if err != nil {
			metricSessionCreateErrors.Add(1)
			if ctxErr := r.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				WriteHTTPError(w, http.StatusServiceUnavailable, "request_cancelled")
				return
			}
			writeSessionError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func (h *SessionHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": h.mgr.List()})
	}
}

func (h *SessionHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricSessionViewTotal.Add(1)
		seat, ok := seatParam(w, r)
		if !ok {
			return
		}
		view, err := h.mgr.View(chi.URLParam(r, "session_id"), seat)
		if err != nil {
			writeSessionError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// History exports every completed hand of one table as plain text.
func (h *SessionHandlers) History() http.HandlerFunc {
	return h.historyText(func(slot *session.TableSlot, seat int) (string, error) {
		return slot.Export(seat)
	})
}

// LastHand returns the most recent completed hand only.
func (h *SessionHandlers) LastHand() http.HandlerFunc {
	return h.historyText(func(slot *session.TableSlot, seat int) (string, error) {
		return slot.LastHistory(seat)
	})
}

func (h *SessionHandlers) historyText(render func(*session.TableSlot, int) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricHistoryExportTotal.Add(1)
		seat, ok := seatParam(w, r)
		if !ok {
			return
		}
		tableID, err := strconv.Atoi(chi.URLParam(r, "table_id"))
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var text string
		err = h.mgr.WithTable(chi.URLParam(r, "session_id"), tableID, func(slot *session.TableSlot) error {
			var err error
			text, err = render(slot, seat)
			return err
		})
		if err != nil {
			writeSessionError(w, r, err)
			return
		}
		metricHistoryExportBytes.Add(int64(len(text)))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, text)
	}
}

// seatParam reads the optional ?seat= perspective, 0 when absent.
func seatParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("seat"))
	if raw == "" {
		return 0, true
	}
	seat, err := strconv.Atoi(raw)
	if err != nil || seat < 0 || seat > 2 {
		WriteHTTPError(w, http.StatusBadRequest, "invalid_seat")
		return 0, false
	}
	return seat, true
}
