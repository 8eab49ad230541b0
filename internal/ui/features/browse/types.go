// Package browse provides the table browsing panel.
package browse

import "github.com/leapstack-labs/reportviewer/internal/ui/features/common"

// Element ids and signals owned by the panel.
const (
	PanelID      = "browse-panel"
	NoticeSlotID = "browse-notice"
	ResultID     = "browse-result"
	SelectID     = "browse-table"

	// PageSignal holds the visible page of the result table.
	PageSignal = "browsePage"
)

// DefaultPageSize is the number of rows shown per page.
const DefaultPageSize = 20

// Messages shown by the panel.
const (
	msgTablesFailed   = "Failed to fetch tables"
	msgSelectTable    = "Please select a table first."
	msgNoData         = "No data found"
	msgEmptyTable     = "No data found in this table."
	msgErrorPrefix    = "Error: "
	msgProbeOK        = "Database connection successful!"
	msgProbeFailed    = "Database connection failed!"
	msgProbeUnreached = "Database connection failed! Please check your settings."
	msgPlaceholder    = `Select a table and click "Query" to display data.`
)

const (
	actionTables = "browse/tables"
	actionQuery  = "browse/query"
	actionProbe  = "browse/test-connection"
)

// Signals represents the signals sent from the frontend.
type Signals struct {
	common.PageSignals
	Table string `json:"table"`
}

// viewSignals are the panel signals patched back by the server.
type viewSignals struct {
	TableInvalid *bool `json:"tableInvalid,omitempty"`
	BrowsePage   int   `json:"browsePage,omitempty"`
}
