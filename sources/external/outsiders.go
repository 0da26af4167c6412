package external

import (
	"encoding/json"
	"fmt"
	"net/http"

	"grokcord/sources/platform"
	"grokcord/sources/repository"
	"grokcord/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Outsiders struct {
	log    *tracing.Logger
	config *OutsidersConfig
	health *repository.HealthRepository
	ss     *http.Server
	sms    *http.Server
	as     *http.Server
}

type healthReport struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Build   string            `json:"build"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks"`
}

func NewOutsiders(log *tracing.Logger, config *OutsidersConfig, health *repository.HealthRepository) *Outsiders {
	systemRegistry := prometheus.NewRegistry()

	systemRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)

	x := &Outsiders{log: log, config: config, health: health}

	x.ss = &http.Server{
		Addr: fmt.Sprintf(":%d", config.StartupPort),
		Handler: platform.Curry(http.NewServeMux, func(m *http.ServeMux) {
			m.HandleFunc("/health", x.startuphandler)
		}),
	}
	x.sms = &http.Server{
		Addr: fmt.Sprintf(":%d", config.SystemMetricsPort),
		Handler: platform.Curry(http.NewServeMux, func(m *http.ServeMux) {
			m.Handle("/metrics", promhttp.HandlerFor(systemRegistry, promhttp.HandlerOpts{}))
		}),
	}
	x.as = &http.Server{
		Addr: fmt.Sprintf(":%d", config.ApplicationMetricsPort),
		Handler: platform.Curry(http.NewServeMux, func(m *http.ServeMux) {
			m.Handle("/metrics", promhttp.Handler())
		}),
	}

	return x
}

func (x *Outsiders) startup() {
	x.log.I("Startup server is starting", tracing.OutsiderKind, "startup", "port", x.config.StartupPort)

	if err := x.ss.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		x.log.F("Failed to start startup server", tracing.OutsiderKind, "startup", tracing.InnerError, err)
	}
}

func (x *Outsiders) systemMetrics() {
	x.log.I("System metrics server is starting", tracing.OutsiderKind, "system_metrics", "port", x.config.SystemMetricsPort)

	if err := x.sms.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		x.log.F("Failed to start system metrics server", tracing.OutsiderKind, "system_metrics", tracing.InnerError, err)
	}
}

func (x *Outsiders) applicationMetrics() {
	x.log.I("Application metrics server is starting", tracing.OutsiderKind, "application_metrics", "port", x.config.ApplicationMetricsPort)

	if err := x.as.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		x.log.F("Failed to start application metrics server", tracing.OutsiderKind, "application_metrics", tracing.InnerError, err)
	}
}

func (x *Outsiders) startuphandler(w http.ResponseWriter, r *http.Request) {
	x.log.D("Outsider service got a ping", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)

	report := healthReport{
		Status:  repository.HealthOK,
		Service: "grokcord",
		Version: platform.GetAppVersion(),
		Build:   platform.GetAppBuildTime(),
		Uptime:  platform.GetAppUptime().String(),
		Checks:  x.health.Check(x.log),
	}

	code := http.StatusOK
	for _, status := range report.Checks {
		if status == repository.HealthFailed {
			report.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(report)
}
