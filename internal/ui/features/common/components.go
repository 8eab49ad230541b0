package common

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/reportviewer/internal/alert"
	"github.com/leapstack-labs/reportviewer/internal/record"
	"github.com/leapstack-labs/reportviewer/internal/ui/resources"
)

// AppName is shown in page titles.
const AppName = "Report Viewer"

// render adapts a string builder callback to a templ component.
func render(fn func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		fn(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Layout renders a full HTML document around body.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!doctype html><html lang="en"><head><meta charset="utf-8">` +
			`<meta name="viewport" content="width=device-width, initial-scale=1">` +
			`<title>` + templ.EscapeString(title+" - "+AppName) + `</title>` +
			`<link rel="stylesheet" href="` + resources.StaticPath("app.css") + `">` +
			`<script type="module" src="` + resources.DatastarScript + `"></script>` +
			`</head><body>`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// NoticeSlot renders a panel's notice container, holding a when non-nil.
// A positive ttl makes the notice remove itself after that long.
func NoticeSlot(slotID string, a *alert.Alert, ttl time.Duration) templ.Component {
	return render(func(b *strings.Builder) {
		b.WriteString(`<div id="` + templ.EscapeString(slotID) + `" class="notice-slot" aria-live="polite">`)
		if a != nil {
			writeNotice(b, *a, ttl)
		}
		b.WriteString(`</div>`)
	})
}

func writeNotice(b *strings.Builder, a alert.Alert, ttl time.Duration) {
	b.WriteString(`<div id="` + templ.EscapeString(a.ID) + `" class="alert alert--` + templ.EscapeString(string(a.Kind)) + `" role="alert"`)
	if ttl > 0 {
		// The timer is bound to this element; a newer notice is never removed by it.
		b.WriteString(` data-init="setTimeout(() => el.remove(), ` + strconv.FormatInt(ttl.Milliseconds(), 10) + `)"`)
	}
	b.WriteString(`>`)
	b.WriteString(`<span class="alert__message">` + templ.EscapeString(a.Message) + `</span>`)
	b.WriteString(`<button type="button" class="alert__close" aria-label="Close" data-on:click="el.closest('.alert').remove()">&times;</button>`)
	b.WriteString(`</div>`)
}

// Placeholder renders the empty state of a result area.
func Placeholder(id, text string) templ.Component {
	return render(func(b *strings.Builder) {
		b.WriteString(`<div id="` + templ.EscapeString(id) + `"><div class="placeholder">` + templ.EscapeString(text) + `</div></div>`)
	})
}

// DataTable renders a bordered table with one column per key of the first row.
// Rows are split into pages toggled by t.PageSignal on the client.
func DataTable(t TableData) templ.Component {
	return render(func(b *strings.Builder) {
		b.WriteString(`<div id="` + templ.EscapeString(t.ID) + `">`)
		b.WriteString(`<table class="data-table"><thead><tr>`)
		for _, col := range t.Columns {
			b.WriteString(`<th>` + templ.EscapeString(col) + `</th>`)
		}
		b.WriteString(`</tr></thead>`)

		pages := t.PageCount()
		for p := 1; p <= pages; p++ {
			b.WriteString(`<tbody`)
			if pages > 1 {
				b.WriteString(` data-page="` + strconv.Itoa(p) + `" data-show="` + pageExpr(t.PageSignal, p) + `"`)
			}
			b.WriteString(`>`)
			for _, row := range t.Page(p) {
				writeRow(b, t.Columns, row)
			}
			b.WriteString(`</tbody>`)
		}
		b.WriteString(`</table>`)

		if pages > 1 {
			b.WriteString(`<nav class="pager" aria-label="Pages">`)
			for p := 1; p <= pages; p++ {
				n := strconv.Itoa(p)
				b.WriteString(`<button type="button" class="btn" data-on:click="$` + t.PageSignal + ` = ` + n + `" data-class:active="` + pageExpr(t.PageSignal, p) + `">` + n + `</button>`)
			}
			b.WriteString(`</nav>`)
		}
		b.WriteString(`</div>`)
	})
}

func writeRow(b *strings.Builder, columns []string, row record.Record) {
	b.WriteString(`<tr>`)
	for _, col := range columns {
		v, _ := row.Get(col)
		b.WriteString(`<td>` + templ.EscapeString(record.FormatValue(v)) + `</td>`)
	}
	b.WriteString(`</tr>`)
}

func pageExpr(signal string, p int) string {
	return "$" + signal + " === " + strconv.Itoa(p)
}
