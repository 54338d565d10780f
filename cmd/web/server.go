package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"dobosdev.hu/web/internal/captcha"
	"dobosdev.hu/web/internal/config"
	"dobosdev.hu/web/internal/contact"
	"dobosdev.hu/web/internal/content"
	"dobosdev.hu/web/internal/handlers"
	"dobosdev.hu/web/internal/i18n"
	"dobosdev.hu/web/internal/metrics"
	mw "dobosdev.hu/web/internal/middleware"
	"dobosdev.hu/web/internal/nav"
	"dobosdev.hu/web/internal/relay"
	"dobosdev.hu/web/internal/views"
)

// app holds everything a request handler needs.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	bundle   *i18n.Bundle
	store    *content.Store
	builder  *handlers.Builder
	views    *views.Renderer
	contact  *contact.Service
	metrics  *metrics.Metrics
	sessions *mw.Sessions
	assets   fs.FS
}

// appOptions overrides collaborators, mostly for tests.
type appOptions struct {
	relay    relay.Submitter
	verifier captcha.Verifier
	assets   fs.FS
	now      func() time.Time
}

func newApp(cfg *config.Config, logger *zap.Logger, opts appOptions) (*app, error) {
	bundle, err := i18n.LoadDefault()
	if err != nil {
		return nil, err
	}
	store := content.NewDefaultStore()
	if err := store.Validate(bundle.Supported()); err != nil {
		return nil, err
	}
	m := metrics.New()

	submitter := opts.relay
	if submitter == nil {
		rc := relay.NewClient(cfg.Relay.Endpoint, cfg.Relay.AccessKey, relay.WithTimeout(cfg.Relay.Timeout))
		if !rc.Enabled() {
			logger.Warn("relay access key missing; contact submissions are not delivered")
		}
		submitter = rc
	}
	captchaClient := captcha.NewClient(cfg.Captcha.SiteKey, cfg.Captcha.Secret, cfg.Captcha.VerifyURL)
	verifier := opts.verifier
	if verifier == nil {
		verifier = captchaClient
	}

	assets := opts.assets
	if assets == nil {
		assets = os.DirFS(cfg.HTTP.AssetsDir)
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		bundle: bundle,
		store:  store,
		builder: &handlers.Builder{
			Bundle:         bundle,
			Store:          store,
			BaseURL:        cfg.HTTP.BaseURL,
			Analytics:      handlers.AnalyticsFromConfig(cfg),
			CaptchaSiteKey: captchaClient.SiteKey(),
			Now:            opts.now,
		},
		views: views.New(bundle),
		contact: contact.NewService(submitter, contact.Options{
			Subject:  cfg.Relay.Subject,
			FromName: cfg.Relay.FromName,
			Verifier: verifier,
			Limiter:  contact.NewLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst),
			Metrics:  m,
		}),
		metrics:  m,
		sessions: mw.NewSessions(cfg.Session.SigningKey, cfg.Session.SecureCookie, logger),
		assets:   assets,
	}, nil
}

func (a *app) routes() http.Handler {
	secure := a.sessions.Secure()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that overwrites it.
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(a.logger, a.metrics))
	r.Use(mw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(a.cfg.HTTP.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle(a.cfg.HTTP.MetricsPath, a.metrics.Handler())
	r.Get("/robots.txt", a.robots)
	r.Get("/sitemap.xml", a.sitemap)
	r.Handle("/assets/*", http.StripPrefix("/assets", mw.AssetsWithCache(a.assets)))

	r.Group(func(r chi.Router) {
		r.Use(mw.HTMX)
		r.Use(a.sessions.Middleware)
		r.Use(mw.CSRF(secure))
		r.Use(mw.ConsentState)
		r.Use(mw.Locale(a.bundle, secure))
		r.Use(mw.VaryLocale)

		for _, p := range nav.Paths() {
			target, _, _ := nav.Resolve(p)
			r.Get(p, a.home(target))
		}
		for _, lang := range nav.Languages {
			r.Get(nav.ReferencePathFor("{id}", lang), a.reference)
			r.Post(nav.Path(nav.Contact, lang), a.submitContact)
		}
		r.Get("/legal/{kind}", a.legal)
		r.Post("/prefs/language", a.setLanguage)
		r.Post("/prefs/consent", a.setConsent)

		r.NotFound(a.notFound)
	})
	return r
}

func (a *app) httpServer() *http.Server {
	return &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           a.routes(),
		ReadTimeout:       a.cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: a.cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      a.cfg.HTTP.WriteTimeout,
		IdleTimeout:       a.cfg.HTTP.IdleTimeout,
	}
}

// start runs the HTTP server in the background and returns its shutdown func.
func (a *app) start() func(ctx context.Context) {
	server := a.httpServer()
	go func() {
		a.logger.Info("starting webserver", zap.String("addr", server.Addr), zap.String("env", a.cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("could not start webserver", zap.Error(err))
		}
	}()
	return func(ctx context.Context) {
		a.logger.Info("stopping webserver")
		if err := server.Shutdown(ctx); err != nil {
			a.logger.Error("could not stop webserver", zap.Error(err))
		}
	}
}
