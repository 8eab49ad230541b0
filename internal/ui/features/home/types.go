// Package home provides the page shell hosting the lookup and browse panels.
package home

// PageTitle is the heading and document title of the page.
const PageTitle = "API & Data Query Test"

// PageIDSignal carries the id of one page load. Panels send it with every
// action so overlapping requests are tracked per browser tab.
const PageIDSignal = "pageId"

// EndpointID is the element id of the API address badge.
const EndpointID = "api-endpoint"

// Tab values of the tab signal.
const (
	TabAPI = "api"
	TabDB  = "db"
)
