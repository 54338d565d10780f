package handlers

import (
	"dobosdev.hu/web/internal/config"
	"dobosdev.hu/web/internal/middleware"
)

// Analytics holds client instrumentation configuration surfaced to views.
type Analytics struct {
	GA4MeasurementID string // e.g. G-XXXXXXXXXX
	Debug            bool
}

// AnalyticsFromConfig builds Analytics from the loaded configuration.
func AnalyticsFromConfig(cfg *config.Config) Analytics {
	if cfg == nil {
		return Analytics{}
	}
	return Analytics{
		GA4MeasurementID: cfg.Analytics.GA4MeasurementID,
		Debug:            cfg.Analytics.Debug,
	}
}

// Allowed reports whether the analytics snippet may load under consent c.
func (a Analytics) Allowed(c middleware.Consent) bool {
	return a.GA4MeasurementID != "" && c.Analytics()
}
