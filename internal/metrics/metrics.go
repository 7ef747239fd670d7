package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OverlaysBuiltTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parkrunmap_overlays_built_total",
		Help: "Total number of track overlays constructed",
	})
	OverlayAttachTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parkrunmap_overlay_attach_total",
		Help: "Total number of site overlay attachments",
	})
	OverlayDetachTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parkrunmap_overlay_detach_total",
		Help: "Total number of site overlay detachments",
	})
	ViewportEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parkrunmap_viewport_events_total",
		Help: "Viewport change events by zoom gate result",
	}, []string{"gate"})
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "parkrunmap_sessions_active",
		Help: "Number of open map sessions",
	})
	RegistrySites = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "parkrunmap_registry_sites",
		Help: "Number of sites in the loaded registry",
	})
)

func init() {
	prometheus.MustRegister(OverlaysBuiltTotal)
	prometheus.MustRegister(OverlayAttachTotal)
	prometheus.MustRegister(OverlayDetachTotal)
	prometheus.MustRegister(ViewportEventsTotal)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(RegistrySites)
}

// Handler возвращает обработчик /metrics для Prometheus
func Handler() http.Handler { return promhttp.Handler() }
