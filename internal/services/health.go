package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

// HealthCheck probes one configured backend.
type HealthCheck struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

type HealthService struct {
	checks  []HealthCheck
	timeout time.Duration
	logger  *logrus.Logger

	healthCheckStatus *prometheus.GaugeVec
	lastHealthCheck   *prometheus.GaugeVec
}

type HealthStatus struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Services    map[string]string `json:"services"`
	Critical    []string          `json:"critical_failures,omitempty"`
	NonCritical []string          `json:"non_critical_failures,omitempty"`
	Latency     time.Duration     `json:"latency,omitempty"`
}

func NewHealthService(checks []HealthCheck, reg prometheus.Registerer, logger *logrus.Logger) *HealthService {
	factory := promauto.With(reg)
	return &HealthService{
		checks:  checks,
		timeout: 5 * time.Second,
		logger:  logger,
		healthCheckStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "health_check_status",
			Help: "Health check status (1 = healthy, 0 = unhealthy)",
		}, []string{"service"}),
		lastHealthCheck: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "health_check_timestamp",
			Help: "Timestamp of last health check",
		}, []string{"service"}),
	}
}

func (s *HealthService) CheckHealth(ctx context.Context) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{
		Timestamp: start,
		Services:  make(map[string]string),
	}

	allCriticalHealthy := true
	for _, check := range s.checks {
		checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := check.Check(checkCtx)
		cancel()

		if err == nil {
			status.Services[check.Name] = "healthy"
			s.updateHealthMetrics(check.Name, true)
			continue
		}

		status.Services[check.Name] = "unhealthy"
		s.updateHealthMetrics(check.Name, false)
		if check.Critical {
			allCriticalHealthy = false
			status.Critical = append(status.Critical, check.Name)
			s.logger.WithError(err).Errorf("Critical service %s is unhealthy", check.Name)
		} else {
			status.NonCritical = append(status.NonCritical, check.Name)
			s.logger.WithError(err).Warnf("Non-critical service %s is unhealthy", check.Name)
		}
	}

	switch {
	case !allCriticalHealthy:
		status.Status = "unhealthy"
	case len(status.NonCritical) > 0:
		status.Status = "degraded"
	default:
		status.Status = "healthy"
	}
	status.Latency = time.Since(start)

	return status
}

func (s *HealthService) updateHealthMetrics(serviceName string, healthy bool) {
	if healthy {
		s.healthCheckStatus.WithLabelValues(serviceName).Set(1)
	} else {
		s.healthCheckStatus.WithLabelValues(serviceName).Set(0)
	}
	s.lastHealthCheck.WithLabelValues(serviceName).Set(float64(time.Now().Unix()))
}
