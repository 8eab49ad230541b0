package browse

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/reportviewer/internal/record"
	"github.com/leapstack-labs/reportviewer/internal/ui/features/common"
)

// Panel renders the browse tab, shown while the tab signal is "db".
// The table list is requested once when the panel is initialised.
func Panel() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		open := `<section id="` + PanelID + `" class="panel" data-show="$tab === 'db'" ` +
			`data-signals="{table: '', tableInvalid: false, ` + PageSignal + `: 1}" ` +
			`data-init="@get('/api/browse/tables')">` +
			`<div class="toolbar">`
		if _, err := io.WriteString(w, open); err != nil {
			return err
		}
		if err := TableSelect(nil).Render(ctx, w); err != nil {
			return err
		}
		buttons := `<button type="button" class="btn btn--primary" data-indicator:browse-loading data-attr:disabled="$browseLoading" ` +
			`data-on:click="@post('/api/browse/query')">Query</button>` +
			`<button type="button" class="btn" data-on:click="@post('/api/browse/clear')">Clear</button>` +
			`<button type="button" class="btn btn--dashed" data-on:click="@post('/api/browse/test-connection')">Test Connection</button>` +
			`</div>`
		if _, err := io.WriteString(w, buttons); err != nil {
			return err
		}
		if err := common.NoticeSlot(NoticeSlotID, nil, 0).Render(ctx, w); err != nil {
			return err
		}
		if err := EmptyResult().Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// TableSelect renders the table dropdown with one option per name.
func TableSelect(tables []string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<select id="` + SelectID + `" aria-label="Table" data-bind:table ` +
			`data-class:is-invalid="$tableInvalid" data-on:change="$tableInvalid = false">`)
		b.WriteString(`<option value="">Select a table</option>`)
		for _, t := range tables {
			name := templ.EscapeString(t)
			b.WriteString(`<option value="` + name + `">` + name + `</option>`)
		}
		b.WriteString(`</select>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// EmptyResult renders the result area without rows.
func EmptyResult() templ.Component {
	return common.Placeholder(ResultID, msgPlaceholder)
}

// Result renders rows as a paged table.
func Result(rows []record.Record, pageSize int) templ.Component {
	return common.DataTable(common.NewTableData(ResultID, rows, pageSize, PageSignal))
}
