//go:build js && wasm

package browser

import "syscall/js"

// JSWindow drives the real browser window through syscall/js.
type JSWindow struct {
	win js.Value
}

// NewJSWindow wraps the global window object.
func NewJSWindow() *JSWindow {
	return &JSWindow{win: js.Global()}
}

func (w *JSWindow) location() js.Value { return w.win.Get("location") }
func (w *JSWindow) history() js.Value  { return w.win.Get("history") }
func (w *JSWindow) document() js.Value { return w.win.Get("document") }

// Href returns location.href.
func (w *JSWindow) Href() string {
	return w.location().Get("href").String()
}

// SetHash assigns location.hash.
func (w *JSWindow) SetHash(fragment string) {
	if fragment == "" {
		w.location().Set("hash", "")
		return
	}
	w.location().Set("hash", "#"+fragment)
}

// PushState calls history.pushState with {hash: state.Hash}.
func (w *JSWindow) PushState(state State, url string) {
	payload := js.Global().Get("Object").New()
	payload.Set("hash", state.Hash)
	w.history().Call("pushState", payload, js.Null(), url)
}

// State reads history.state.hash.
func (w *JSWindow) State() (State, bool) {
	st := w.history().Get("state")
	if st.IsNull() || st.IsUndefined() {
		return State{}, false
	}
	h := st.Get("hash")
	if h.Type() != js.TypeString {
		return State{}, false
	}
	return State{Hash: h.String()}, true
}

// Go calls history.go(delta).
func (w *JSWindow) Go(delta int) {
	w.history().Call("go", delta)
}

// OnPopState listens for popstate on window.
func (w *JSWindow) OnPopState(fn func()) func() {
	return w.listen("popstate", fn)
}

// OnHashChange listens for hashchange on window.
func (w *JSWindow) OnHashChange(fn func()) func() {
	return w.listen("hashchange", fn)
}

func (w *JSWindow) listen(event string, fn func()) func() {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn()
		return nil
	})
	w.win.Call("addEventListener", event, cb)
	return func() {
		w.win.Call("removeEventListener", event, cb)
		cb.Release()
	}
}

// SupportsPushState reports whether history.pushState exists.
func (w *JSWindow) SupportsPushState() bool {
	h := w.history()
	return !h.IsUndefined() && h.Get("pushState").Type() == js.TypeFunction
}

// SupportsHashChange evaluates 'onhashchange' in window.
func (w *JSWindow) SupportsHashChange() bool {
	return js.Global().Get("Reflect").Call("has", w.win, "onhashchange").Bool()
}

// DocumentMode returns document.documentMode, 0 outside legacy IE.
func (w *JSWindow) DocumentMode() int {
	dm := w.document().Get("documentMode")
	if dm.Type() != js.TypeNumber {
		return 0
	}
	return dm.Int()
}

// SetTitle assigns document.title.
func (w *JSWindow) SetTitle(title string) {
	w.document().Set("title", title)
}

// UserAgent returns navigator.userAgent.
func (w *JSWindow) UserAgent() string {
	return w.win.Get("navigator").Get("userAgent").String()
}
