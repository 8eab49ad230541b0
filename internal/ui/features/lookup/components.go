package lookup

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/reportviewer/internal/record"
	"github.com/leapstack-labs/reportviewer/internal/ui/features/common"
)

// Panel renders the lookup tab, shown while the tab signal is "api".
func Panel() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		open := `<section id="` + PanelID + `" class="panel" data-show="$tab === 'api'" data-signals="{userId: ''}">` +
			`<div class="toolbar">` +
			`<input id="lookup-user-id" type="text" inputmode="numeric" placeholder="Enter user ID" aria-label="User ID" ` +
			`data-bind:user-id data-on:keydown="evt.key === 'Enter' &amp;&amp; @post('/api/lookup/search')">` +
			`<button type="button" class="btn btn--primary" data-indicator:lookup-loading data-attr:disabled="$lookupLoading" ` +
			`data-on:click="@post('/api/lookup/search')">Search</button>` +
			`<button type="button" class="btn" data-on:click="@post('/api/lookup/clear')">Clear</button>` +
			`</div>`
		if _, err := io.WriteString(w, open); err != nil {
			return err
		}
		for _, c := range []templ.Component{
			FieldError(""),
			common.NoticeSlot(NoticeSlotID, nil, 0),
			EmptyResult(),
		} {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// FieldError renders the inline validation message under the input.
func FieldError(msg string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<span id="`+ErrorID+`" class="field-error">`+templ.EscapeString(msg)+`</span>`)
		return err
	})
}

// EmptyResult renders the result area before any user is shown.
func EmptyResult() templ.Component {
	return common.Placeholder(ResultID, msgPlaceholder)
}

// Result renders a single-row table for rec.
func Result(rec record.Record) templ.Component {
	return common.DataTable(common.NewTableData(ResultID, []record.Record{rec}, 0, ""))
}
