// Package scrollsync keeps the active section, the address bar and the scroll
// position of the one-page layout consistent with each other.
//
// The Router holds no reference to a real document. Everything it needs from
// the host is injected: geometry and scrolling through Viewport, the address
// bar through History, the active language through LanguageSource and
// deferred execution through Scheduler. A Router is driven from a single event
// loop and is not safe for concurrent use.
package scrollsync

import (
	"time"

	"dobosdev.hu/web/internal/nav"
)

// Defaults used when Options leave a field zero.
const (
	DefaultHeaderOffset   = 80
	DefaultMenuCloseDelay = 100 * time.Millisecond
	DefaultRetryDelay     = 300 * time.Millisecond
)

// Rect is the absolute vertical extent of a section in document coordinates.
type Rect struct {
	Top    float64
	Height float64
}

// Contains reports whether y lies within [Top, Top+Height).
func (r Rect) Contains(y float64) bool {
	return y >= r.Top && y < r.Top+r.Height
}

// Viewport exposes scroll state and section geometry.
type Viewport interface {
	ScrollY() float64
	Height() float64
	ScrollTo(y float64, smooth bool)
	// Section returns the geometry of the anchor with the given id, or false
	// when the anchor is not mounted yet.
	Section(id string) (Rect, bool)
}

// History is the address bar.
type History interface {
	Path() string
	// Push updates the address in place without navigating.
	Push(path string)
	// Navigate performs a full router navigation.
	Navigate(path string)
}

// LanguageSource reports the language currently shown.
type LanguageSource interface {
	Language() nav.Language
}

// Scheduler runs f once after d. Scheduled calls are never cancelled.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// Options tune a Router.
type Options struct {
	// HeaderOffset keeps section headings clear of the fixed header.
	HeaderOffset float64
	// MenuCloseDelay lets the mobile menu start its exit transition before scrolling.
	MenuCloseDelay time.Duration
	// RetryDelay is the wait before the single retry for an anchor that is not mounted.
	RetryDelay time.Duration
	// OnChange is called whenever the active target changes.
	OnChange func(nav.Target)
	// OnMenu is called whenever the mobile menu opens or closes.
	OnMenu func(open bool)
}

// Router is the section router / scroll-sync state machine.
type Router struct {
	vp    Viewport
	hist  History
	lang  LanguageSource
	sched Scheduler
	opts  Options

	active   nav.Target
	menuOpen bool

	// pending is a target whose anchor was missing when a scroll was requested.
	pending nav.Target
	// pendingTop asks the next content-ready signal to scroll to the top.
	pendingTop bool
}

// New builds a Router. The active target starts at home.
func New(vp Viewport, hist History, lang LanguageSource, sched Scheduler, opts Options) *Router {
	if opts.HeaderOffset == 0 {
		opts.HeaderOffset = DefaultHeaderOffset
	}
	if opts.MenuCloseDelay == 0 {
		opts.MenuCloseDelay = DefaultMenuCloseDelay
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	return &Router{
		vp:     vp,
		hist:   hist,
		lang:   lang,
		sched:  sched,
		opts:   opts,
		active: nav.Home,
	}
}

// Active returns the target currently marked active. It is never empty.
func (r *Router) Active() nav.Target { return r.active }

// MobileMenuOpen reports the mobile overlay state.
func (r *Router) MobileMenuOpen() bool { return r.menuOpen }

// ToggleMobileMenu flips the mobile overlay.
func (r *Router) ToggleMobileMenu() { r.setMenu(!r.menuOpen) }

// NavigateTo moves to target: the mobile menu closes first and the scroll
// starts once the close transition had MenuCloseDelay to begin.
func (r *Router) NavigateTo(target nav.Target) {
	if !target.Valid() {
		return
	}
	r.setMenu(false)
	r.sched.AfterFunc(r.opts.MenuCloseDelay, func() { r.navigate(target) })
}

func (r *Router) navigate(target nav.Target) {
	r.clearDeferred()
	if target == nav.Home {
		if r.hist.Path() == "/" {
			r.vp.ScrollTo(0, true)
			r.setActive(nav.Home)
			return
		}
		r.hist.Navigate("/")
		r.pendingTop = true
		return
	}

	p := nav.Path(target, r.lang.Language())
	if rect, ok := r.vp.Section(string(target)); ok {
		r.scrollTo(rect)
		if r.hist.Path() != p {
			r.hist.Push(p)
		}
		r.setActive(target)
		return
	}
	r.hist.Navigate(p)
	r.await(target)
}

// OnScroll recomputes the active section. Call it on every scroll event and
// once at mount.
func (r *Router) OnScroll() { r.ResolveActiveSection() }

// ResolveActiveSection runs the scroll-spy and returns the active target.
//
// The trigger point sits one third of the viewport below the scroll offset;
// the first section in document order whose span contains it wins. Above half
// a viewport of scroll the hero always wins. When nothing matches the previous
// target is kept.
func (r *Router) ResolveActiveSection() nav.Target {
	y := r.vp.ScrollY()
	h := r.vp.Height()
	if y < h/2 {
		r.setActive(nav.Home)
		return r.active
	}
	trigger := y + h/3
	for _, t := range nav.Targets {
		rect, ok := r.vp.Section(string(t))
		if !ok {
			continue
		}
		if rect.Contains(trigger) {
			r.setActive(t)
			break
		}
	}
	return r.active
}

// SyncFromURL scrolls to the section named by the path or hash on cold start
// or after the location changed. A hash wins over the path. The address is
// only read here, never written.
func (r *Router) SyncFromURL(path, hash string) {
	r.clearDeferred()
	target, _, ok := nav.Resolve(hash)
	if hash == "" || hash == "#" || !ok {
		target, _, ok = nav.Resolve(path)
	}
	if !ok || target == nav.Home {
		return
	}
	if rect, found := r.vp.Section(string(target)); found {
		r.scrollTo(rect)
		r.setActive(target)
		return
	}
	r.await(target)
}

// ContentReady is the mount-complete signal from the section collection.
// Scrolls waiting on a missing anchor are flushed immediately.
func (r *Router) ContentReady() {
	if r.pendingTop {
		r.pendingTop = false
		r.vp.ScrollTo(0, true)
		r.setActive(nav.Home)
	}
	r.flush()
}

// clearDeferred drops work left behind by an earlier request so only the
// latest one can still scroll.
func (r *Router) clearDeferred() {
	r.pending = ""
	r.pendingTop = false
}

// await parks target until content is ready, with one timed retry as fallback.
func (r *Router) await(target nav.Target) {
	r.pending = target
	r.sched.AfterFunc(r.opts.RetryDelay, func() {
		if r.pending != target {
			return
		}
		r.flush()
		r.pending = ""
	})
}

func (r *Router) flush() {
	if r.pending == "" {
		return
	}
	rect, ok := r.vp.Section(string(r.pending))
	if !ok {
		return
	}
	target := r.pending
	r.pending = ""
	r.scrollTo(rect)
	r.setActive(target)
}

func (r *Router) scrollTo(rect Rect) {
	y := rect.Top - r.opts.HeaderOffset
	if y < 0 {
		y = 0
	}
	r.vp.ScrollTo(y, true)
}

func (r *Router) setActive(t nav.Target) {
	if t == "" || t == r.active {
		return
	}
	r.active = t
	if r.opts.OnChange != nil {
		r.opts.OnChange(t)
	}
}

func (r *Router) setMenu(open bool) {
	if r.menuOpen == open {
		return
	}
	r.menuOpen = open
	if r.opts.OnMenu != nil {
		r.opts.OnMenu(open)
	}
}
