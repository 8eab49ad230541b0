// Package common provides shared components and helpers for UI features.
package common

import (
	"context"
	"net/http"
	"time"

	"github.com/leapstack-labs/reportviewer/internal/alert"
	"github.com/starfederation/datastar-go/datastar"
)

// PageSignals is embedded in panel signals. PageID identifies one page
// load, so two tabs of the same browser never cancel each other.
type PageSignals struct {
	PageID string `json:"pageId,omitempty"`
}

// PageID reads the page load id from the request signals. Requests without
// readable signals share the empty id.
func PageID(r *http.Request) string {
	var signals PageSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		return ""
	}
	return signals.PageID
}

// ShowNotice patches a into the notice slot. The notice removes itself on
// the client after ttl, so the response ends right away.
func ShowNotice(sse *datastar.ServerSentEventGenerator, slotID string, a alert.Alert, ttl time.Duration) error {
	return sse.PatchElementTempl(NoticeSlot(slotID, &a, ttl))
}

// ClearNotice empties the notice slot.
func ClearNotice(sse *datastar.ServerSentEventGenerator, slotID string) error {
	return sse.PatchElementTempl(NoticeSlot(slotID, nil, 0))
}

// Superseded reports whether the request behind ctx was cancelled, either by
// the browser going away or by a newer request for the same panel action.
func Superseded(ctx context.Context) bool {
	return ctx.Err() != nil
}
