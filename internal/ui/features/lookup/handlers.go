package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/reportviewer/internal/alert"
	"github.com/leapstack-labs/reportviewer/internal/apiclient"
	"github.com/leapstack-labs/reportviewer/internal/ui/features/common"
	"github.com/leapstack-labs/reportviewer/internal/ui/inflight"
	"github.com/leapstack-labs/reportviewer/internal/ui/session"
	"github.com/starfederation/datastar-go/datastar"
)

// Handlers provides HTTP handlers for the lookup feature.
type Handlers struct {
	client       *apiclient.Client
	sessionStore sessions.Store
	inflight     *inflight.Tracker
	logger       *slog.Logger
	alertTTL     time.Duration
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *apiclient.Client, sessionStore sessions.Store, tracker *inflight.Tracker, logger *slog.Logger, alertTTL time.Duration) *Handlers {
	if alertTTL <= 0 {
		alertTTL = alert.DefaultTTL
	}
	return &Handlers{
		client:       client,
		sessionStore: sessionStore,
		inflight:     tracker,
		logger:       logger,
		alertTTL:     alertTTL,
	}
}

// SearchSSE validates the user id and fetches the user from the API.
func (h *Handlers) SearchSSE(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	if err := apiclient.ValidateUserID(signals.UserID); err != nil {
		sse := datastar.NewSSE(w, r)
		if err := sse.PatchElementTempl(FieldError(msgInvalidID)); err != nil {
			_ = sse.ConsoleError(err)
		}
		return
	}

	ctx, done := h.begin(w, r, signals.PageID)
	defer done()

	sse := datastar.NewSSE(w, r)

	_ = sse.PatchElementTempl(FieldError(""))
	_ = common.ClearNotice(sse, NoticeSlotID)

	user, err := h.client.GetUser(ctx, signals.UserID)
	if common.Superseded(ctx) {
		return
	}

	var notice alert.Alert
	switch {
	case err != nil:
		h.logger.Warn("user lookup failed", "user_id", signals.UserID, "error", err)
		notice = alert.Error(msgFetchFailed + err.Error())
	case user == nil:
		notice = alert.Error(msgNotFound)
	default:
		if err := sse.PatchElementTempl(Result(*user)); err != nil {
			_ = sse.ConsoleError(err)
		}
		return
	}

	if err := sse.PatchElementTempl(EmptyResult()); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := common.ShowNotice(sse, NoticeSlotID, notice, h.alertTTL); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// ClearSSE resets the identifier, the result and any messages. A search
// still in flight is cancelled so it cannot repaint the cleared panel.
func (h *Handlers) ClearSSE(w http.ResponseWriter, r *http.Request) {
	_, done := h.begin(w, r, common.PageID(r))
	defer done()

	sse := datastar.NewSSE(w, r)

	if err := sse.MarshalAndPatchSignals(Signals{}); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	_ = sse.PatchElementTempl(FieldError(""))
	_ = common.ClearNotice(sse, NoticeSlotID)
	if err := sse.PatchElementTempl(EmptyResult()); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// begin registers the search as the latest one for this page load,
// cancelling any earlier one.
func (h *Handlers) begin(w http.ResponseWriter, r *http.Request, pageID string) (context.Context, func()) {
	sid, err := session.ID(w, r, h.sessionStore)
	if err != nil {
		h.logger.Debug("failed to save session", "error", err)
	}
	return h.inflight.Begin(r.Context(), inflight.Key{Session: sid, Page: pageID, Action: actionSearch})
}
