//go:build js && wasm

// Command navsync-wasm runs the navigation service inside a real browser.
// It exposes a global navsync object with set, back, forward, get, reset
// and setTitle, and re-dispatches every navigation event on window as a
// CustomEvent whose detail holds the parameters.
package main

import (
	"context"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/vidyasagar/navsync/internal/browser"
	"github.com/vidyasagar/navsync/internal/events"
	"github.com/vidyasagar/navsync/internal/logging"
	"github.com/vidyasagar/navsync/internal/navigation"
)

func main() {
	win := js.Global()

	event := navigation.DefaultEvent
	attrs := []string{navigation.KeyToken, navigation.KeyQuerystring}
	if cfg := win.Get("navsyncConfig"); cfg.Type() == js.TypeObject {
		if v := cfg.Get("event"); v.Type() == js.TypeString {
			event = v.String()
		}
		if v := cfg.Get("attributes"); v.InstanceOf(win.Get("Array")) {
			for i := 0; i < v.Length(); i++ {
				attrs = append(attrs, v.Index(i).String())
			}
		}
	}

	log, _, err := logging.New(logging.Config{Output: os.Stderr, Component: "navsync-wasm"})
	if err != nil {
		log = slog.Default()
	}

	reg := events.NewRegistry()
	reg.Register(events.Def{Name: event, Attributes: attrs})
	reg.Handle(event, func(f events.Fired) {
		detail := make(map[string]any, len(f.Params))
		for k, v := range f.Params {
			detail[k] = v
		}
		ev := win.Get("CustomEvent").New(f.Name, map[string]any{"detail": detail})
		win.Call("dispatchEvent", ev)
	})

	svc := navigation.New(browser.NewJSWindow(), reg,
		navigation.WithEvent(event),
		navigation.WithLogger(log),
		navigation.WithErrorHandler(func(err error) {
			win.Get("console").Call("error", "navsync: "+err.Error())
		}),
	)

	api := map[string]any{
		"set": js.FuncOf(func(_ js.Value, args []js.Value) any {
			if len(args) == 0 {
				return nil
			}
			if err := svc.Set(context.Background(), args[0].String()); err != nil {
				return err.Error()
			}
			return nil
		}),
		"back": js.FuncOf(func(js.Value, []js.Value) any {
			svc.Back()
			return nil
		}),
		"forward": js.FuncOf(func(js.Value, []js.Value) any {
			svc.Forward()
			return nil
		}),
		"reset": js.FuncOf(func(js.Value, []js.Value) any {
			svc.Reset()
			return nil
		}),
		"setTitle": js.FuncOf(func(_ js.Value, args []js.Value) any {
			if len(args) > 0 {
				svc.SetTitle(args[0].String())
			}
			return nil
		}),
		"get": js.FuncOf(func(js.Value, []js.Value) any {
			out := make(map[string]any)
			for k, v := range svc.Get().Map() {
				out[k] = v
			}
			return out
		}),
	}
	win.Set("navsync", js.ValueOf(api))

	if err := svc.Init(context.Background()); err != nil {
		log.Error("navsync init failed", "error", err)
	}

	select {}
}
