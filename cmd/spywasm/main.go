//go:build js && wasm

// Command spywasm drives the section router in the browser. It binds the
// scrollsync.Router to the DOM: scroll and click events in, smooth scrolling,
// address updates and active-link markers out.
package main

import (
	"syscall/js"
	"time"

	"dobosdev.hu/web/internal/nav"
	"dobosdev.hu/web/internal/scrollsync"
)

var (
	window   = js.Global()
	document = window.Get("document")
)

type viewport struct{}

func (viewport) ScrollY() float64 { return window.Get("scrollY").Float() }

func (viewport) Height() float64 { return window.Get("innerHeight").Float() }

func (viewport) ScrollTo(y float64, smooth bool) {
	behavior := "auto"
	if smooth {
		behavior = "smooth"
	}
	window.Call("scrollTo", map[string]any{"top": y, "behavior": behavior})
}

func (v viewport) Section(id string) (scrollsync.Rect, bool) {
	el := document.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return scrollsync.Rect{}, false
	}
	box := el.Call("getBoundingClientRect")
	return scrollsync.Rect{
		Top:    box.Get("top").Float() + v.ScrollY(),
		Height: box.Get("height").Float(),
	}, true
}

type history struct{}

func (history) Path() string { return window.Get("location").Get("pathname").String() }

func (history) Push(path string) {
	window.Get("history").Call("pushState", js.Null(), "", path)
}

func (history) Navigate(path string) {
	window.Get("location").Call("assign", path)
}

type documentLanguage struct{}

func (documentLanguage) Language() nav.Language {
	if lang, ok := nav.ParseLanguage(document.Get("documentElement").Get("lang").String()); ok {
		return lang
	}
	return nav.DefaultLanguage
}

type timers struct{}

func (timers) AfterFunc(d time.Duration, f func()) {
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		cb.Release()
		f()
		return nil
	})
	window.Call("setTimeout", cb, d.Milliseconds())
}

func main() {
	router := scrollsync.New(viewport{}, history{}, documentLanguage{}, timers{}, scrollsync.Options{
		OnChange: markActive,
		OnMenu:   showMenu,
	})

	on(window, "scroll", func(js.Value) { router.OnScroll() }, map[string]any{"passive": true})
	on(window, "popstate", func(js.Value) { syncFromLocation(router) }, nil)
	on(window, "hashchange", func(js.Value) { syncFromLocation(router) }, nil)
	on(document, "sections:ready", func(js.Value) { router.ContentReady() }, nil)
	on(document, "click", func(ev js.Value) {
		if modified(ev) {
			return
		}
		if toggle := closest(ev, "#menu-toggle"); toggle.Truthy() {
			router.ToggleMobileMenu()
			return
		}
		link := closest(ev, "[data-nav-target]")
		if !link.Truthy() {
			return
		}
		target := nav.Target(link.Get("dataset").Get("navTarget").String())
		if !target.Valid() {
			return
		}
		ev.Call("preventDefault")
		router.NavigateTo(target)
	}, nil)

	initial := nav.Target(document.Get("body").Get("dataset").Get("activeSection").String())
	if initial.Valid() && initial != nav.Home {
		syncFromLocation(router)
	} else {
		router.OnScroll()
	}

	select {}
}

func syncFromLocation(router *scrollsync.Router) {
	loc := window.Get("location")
	router.SyncFromURL(loc.Get("pathname").String(), loc.Get("hash").String())
}

func on(target js.Value, event string, fn func(js.Value), opts map[string]any) {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(args[0])
		return nil
	})
	if opts == nil {
		target.Call("addEventListener", event, cb)
		return
	}
	target.Call("addEventListener", event, cb, opts)
}

func closest(ev js.Value, selector string) js.Value {
	el := ev.Get("target")
	if el.IsNull() || el.Get("closest").IsUndefined() {
		return js.Null()
	}
	return el.Call("closest", selector)
}

// modified reports clicks that should keep the browser default, such as
// opening a link in a new tab.
func modified(ev js.Value) bool {
	return ev.Get("button").Int() != 0 ||
		ev.Get("ctrlKey").Bool() ||
		ev.Get("metaKey").Bool() ||
		ev.Get("shiftKey").Bool() ||
		ev.Get("altKey").Bool()
}

func markActive(t nav.Target) {
	document.Get("body").Get("dataset").Set("activeSection", string(t))
	links := document.Call("querySelectorAll", ".nav-link[data-nav-target]")
	for i := 0; i < links.Length(); i++ {
		link := links.Index(i)
		if link.Get("dataset").Get("navTarget").String() == string(t) {
			link.Call("setAttribute", "aria-current", "true")
		} else {
			link.Call("removeAttribute", "aria-current")
		}
	}
}

func showMenu(open bool) {
	toggle := document.Call("getElementById", "menu-toggle")
	menu := document.Call("getElementById", "mobile-menu")
	if toggle.IsNull() || menu.IsNull() {
		return
	}
	label := toggle.Get("dataset").Get("labelOpen")
	expanded := "false"
	if open {
		label = toggle.Get("dataset").Get("labelClose")
		expanded = "true"
	}
	toggle.Call("setAttribute", "aria-expanded", expanded)
	toggle.Call("setAttribute", "aria-label", label)
	menu.Set("hidden", !open)
	document.Get("body").Get("classList").Call("toggle", "menu-open", open)
}
