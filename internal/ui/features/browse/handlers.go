package browse

import (
	"context"
	"errors"
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

// Handlers provides HTTP handlers for the browse feature.
type Handlers struct {
	client       *apiclient.Client
	sessionStore sessions.Store
	inflight     *inflight.Tracker
	logger       *slog.Logger
	alertTTL     time.Duration
	pageSize     int
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	client *apiclient.Client,
	sessionStore sessions.Store,
	tracker *inflight.Tracker,
	logger *slog.Logger,
	alertTTL time.Duration,
	pageSize int,
) *Handlers {
	if alertTTL <= 0 {
		alertTTL = alert.DefaultTTL
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Handlers{
		client:       client,
		sessionStore: sessionStore,
		inflight:     tracker,
		logger:       logger,
		alertTTL:     alertTTL,
		pageSize:     pageSize,
	}
}

// TablesSSE fills the table dropdown. It is requested once per page load
// and never retried.
func (h *Handlers) TablesSSE(w http.ResponseWriter, r *http.Request) {
	ctx, done := h.begin(w, r, common.PageID(r), actionTables)
	defer done()

	sse := datastar.NewSSE(w, r)

	tables, err := h.client.ListTables(ctx)
	if common.Superseded(ctx) {
		return
	}
	if err != nil {
		h.logger.Warn("failed to list tables", "error", err)
		msg := err.Error()
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.MessageOr(msgTablesFailed)
		}
		h.notify(sse, alert.Error(msg))
		return
	}

	if err := sse.PatchElementTempl(TableSelect(tables)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// QuerySSE fetches every row of the selected table.
func (h *Handlers) QuerySSE(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	// A missing selection is answered without touching a query in flight.
	if signals.Table == "" {
		sse := datastar.NewSSE(w, r)
		_ = common.ClearNotice(sse, NoticeSlotID)
		invalid := true
		_ = sse.MarshalAndPatchSignals(viewSignals{TableInvalid: &invalid})
		h.notify(sse, alert.Warning(msgSelectTable))
		return
	}

	ctx, done := h.begin(w, r, signals.PageID, actionQuery)
	defer done()

	sse := datastar.NewSSE(w, r)
	_ = common.ClearNotice(sse, NoticeSlotID)

	valid := false
	_ = sse.MarshalAndPatchSignals(viewSignals{TableInvalid: &valid})

	rows, err := h.client.QueryTable(ctx, signals.Table)
	if common.Superseded(ctx) {
		return
	}

	var notice alert.Alert
	switch {
	case err != nil:
		h.logger.Warn("table query failed", "table", signals.Table, "error", err)
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			notice = alert.Error(apiErr.MessageOr(msgNoData))
		} else {
			notice = alert.Error(msgErrorPrefix + err.Error())
		}
	case len(rows) == 0:
		notice = alert.Info(msgEmptyTable)
	default:
		h.logger.Debug("table queried", "table", signals.Table, "rows", len(rows))
		if err := sse.MarshalAndPatchSignals(viewSignals{BrowsePage: 1}); err != nil {
			_ = sse.ConsoleError(err)
			return
		}
		if err := sse.PatchElementTempl(Result(rows, h.pageSize)); err != nil {
			_ = sse.ConsoleError(err)
		}
		return
	}

	if err := sse.PatchElementTempl(EmptyResult()); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	h.notify(sse, notice)
}

// TestConnectionSSE asks the API to probe its database. Displayed rows are
// left alone.
func (h *Handlers) TestConnectionSSE(w http.ResponseWriter, r *http.Request) {
	ctx, done := h.begin(w, r, common.PageID(r), actionProbe)
	defer done()

	sse := datastar.NewSSE(w, r)
	_ = common.ClearNotice(sse, NoticeSlotID)

	err := h.client.TestConnection(ctx)
	if common.Superseded(ctx) {
		return
	}

	var apiErr *apiclient.APIError
	switch {
	case err == nil:
		h.notify(sse, alert.Success(msgProbeOK))
	case errors.As(err, &apiErr):
		h.logger.Warn("database probe failed", "status", apiErr.Status, "message", apiErr.Message)
		h.notify(sse, alert.Error(msgProbeFailed))
	default:
		h.logger.Warn("database probe unreachable", "error", err)
		h.notify(sse, alert.Error(msgProbeUnreached))
	}
}

// ClearSSE empties the displayed rows. Notices and in-flight requests are
// left alone.
func (h *Handlers) ClearSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	if err := sse.MarshalAndPatchSignals(viewSignals{BrowsePage: 1}); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(EmptyResult()); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// begin registers the request as the latest for its action in this page
// load, cancelling any earlier one.
func (h *Handlers) begin(w http.ResponseWriter, r *http.Request, pageID, action string) (context.Context, func()) {
	sid, err := session.ID(w, r, h.sessionStore)
	if err != nil {
		h.logger.Debug("failed to save session", "error", err)
	}
	return h.inflight.Begin(r.Context(), inflight.Key{Session: sid, Page: pageID, Action: action})
}

func (h *Handlers) notify(sse *datastar.ServerSentEventGenerator, a alert.Alert) {
	if err := common.ShowNotice(sse, NoticeSlotID, a, h.alertTTL); err != nil {
		_ = sse.ConsoleError(err)
	}
}
