// Package lookup provides the user lookup panel.
package lookup

import "github.com/leapstack-labs/reportviewer/internal/ui/features/common"

// Element ids owned by the panel.
const (
	PanelID      = "lookup-panel"
	NoticeSlotID = "lookup-notice"
	ResultID     = "lookup-result"
	ErrorID      = "lookup-error"
)

// Messages shown by the panel.
const (
	msgInvalidID   = "User ID must be a positive integer"
	msgNotFound    = "User not found via API"
	msgFetchFailed = "Error fetching user from API: "
	msgPlaceholder = `Click "Search" to display user data.`
)

const actionSearch = "lookup/search"

// Signals represents the signals sent from the frontend.
type Signals struct {
	common.PageSignals
	UserID string `json:"userId"`
}
