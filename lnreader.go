// Package lnreader mirrors a wiki-hosted light-novel catalog into a local
// store for offline reading. It fetches the catalog, novel detail pages,
// chapter content and images, and refreshes them opportunistically when the
// cached copy goes stale.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, etree/, resty/).
package lnreader

import "time"

// MainPage is the wiki key of the catalog root. Novels listed in the catalog
// use it as their parent.
const MainPage = "Main_Page"

// DefaultZoom is the zoom level assigned to freshly downloaded content.
const DefaultZoom = 1.0

// Epoch marks a timestamp that was never known.
var Epoch = time.Unix(0, 0).UTC()

// ProgressFunc receives human-readable progress notifications such as retry
// attempts, download starts and completion counts. It is purely
// observational.
type ProgressFunc func(message string)

// Notify calls fn with message if fn is not nil.
func (fn ProgressFunc) Notify(message string) {
	if fn != nil {
		fn(message)
	}
}
