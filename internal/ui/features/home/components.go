package home

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/reportviewer/internal/ui/features/browse"
	"github.com/leapstack-labs/reportviewer/internal/ui/features/common"
	"github.com/leapstack-labs/reportviewer/internal/ui/features/lookup"
)

// HomePage renders the full document for one page load.
func HomePage(baseURL, pageID string) templ.Component {
	return common.Layout(PageTitle, Shell(baseURL, pageID))
}

// Shell renders the header, the tab bar and both panels. Tab switching
// happens entirely on the client.
func Shell(baseURL, pageID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<div class="page" data-signals="{tab: '` + TabAPI + `', ` + PageIDSignal + `: '` + templ.EscapeString(pageID) + `'}">` +
			`<header class="page-header"><h1>` + templ.EscapeString(PageTitle) + `</h1>`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if err := Endpoint(baseURL).Render(ctx, w); err != nil {
			return err
		}
		nav := `</header>` +
			`<div id="updates" data-init="@get('/updates')"></div>` +
			`<nav class="tabs" role="tablist">` +
			tabButton(TabAPI, "API") +
			tabButton(TabDB, "Direct DB") +
			`</nav>`
		if _, err := io.WriteString(w, nav); err != nil {
			return err
		}
		if err := lookup.Panel().Render(ctx, w); err != nil {
			return err
		}
		if err := browse.Panel().Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// Endpoint renders the badge showing which API the panels talk to.
func Endpoint(baseURL string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<span id="`+EndpointID+`" class="api-endpoint">API: `+templ.EscapeString(baseURL)+`</span>`)
		return err
	})
}

func tabButton(value, label string) string {
	return `<button type="button" class="tab" role="tab" data-class:active="$tab === '` + value + `'" ` +
		`data-on:click="$tab = '` + value + `'">` + label + `</button>`
}
