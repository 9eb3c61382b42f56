package navigation

import (
	"strings"

	"github.com/vidyasagar/navsync/internal/browser"
)

// Window is the slice of the browser the service drives. browser.Sim and,
// under js/wasm, browser.JSWindow implement it.
type Window interface {
	// Href returns the full current address, escapes intact.
	Href() string
	// SetHash replaces the fragment; fragment excludes the leading '#'
	// and "" returns to the root location.
	SetHash(fragment string)
	// PushState adds a native session-history entry carrying state.
	PushState(state browser.State, url string)
	// State returns the payload of the current native entry, if any.
	State() (browser.State, bool)
	// Go steps native session history by delta.
	Go(delta int)

	OnPopState(fn func()) (remove func())
	OnHashChange(fn func()) (remove func())

	SupportsPushState() bool
	SupportsHashChange() bool
	// DocumentMode is the legacy IE compatibility mode, 0 when absent.
	DocumentMode() int

	SetTitle(title string)
	UserAgent() string
}

// LocationHash returns the fragment of href including its '#', or "".
// Reading from the full address sidesteps browsers that decode
// location.hash on access.
func LocationHash(href string) string {
	i := strings.IndexByte(href, '#')
	if i < 0 {
		return ""
	}
	return href[i:]
}
