package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/poofware/mono-repo/backend/shared/go-dtos"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

const appName = "meta-service"

type metaConfig struct {
	Address  string        `env:"ADDRESS" envDefault:":8081"`
	Services []string      `env:"SERVICES" envDefault:"http://localhost:8080/health"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"2s"`
}

// serviceStatus is one probed dependency in the aggregate report.
type serviceStatus struct {
	URL     string `json:"url"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

type healthReport struct {
	dtos.HealthCheckResponse
	Services []serviceStatus `json:"services"`
}

type checker struct {
	client   *http.Client
	services []string
}

func newChecker(services []string, timeout time.Duration) *checker {
	return &checker{client: &http.Client{Timeout: timeout}, services: services}
}

// check probes every service concurrently. Results keep the configured order.
func (c *checker) check(ctx context.Context) []serviceStatus {
	out := make([]serviceStatus, len(c.services))
	var wg sync.WaitGroup
	for i, u := range c.services {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = c.probe(ctx, u)
		}()
	}
	wg.Wait()
	return out
}

func (c *checker) probe(ctx context.Context, u string) serviceStatus {
	st := serviceStatus{URL: u}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	resp, err := c.client.Do(req)
	if err != nil {
		st.Error = err.Error()
		utils.Logger.WithField("url", u).Warn("[meta-service] (Health Check) Service unreachable")
		return st
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		st.Error = resp.Status
		utils.Logger.WithField("url", u).Warn("[meta-service] (Health Check) Service unhealthy")
		return st
	}
	st.Healthy = true
	return st
}

func (c *checker) healthHandler(w http.ResponseWriter, r *http.Request) {
	statuses := c.check(r.Context())
	report := healthReport{
		HealthCheckResponse: dtos.HealthCheckResponse{
			Status:    "OK",
			Service:   appName,
			Timestamp: dtos.FormatTime(utils.NowUTC()),
		},
		Services: statuses,
	}
	code := http.StatusOK
	for _, st := range statuses {
		if !st.Healthy {
			report.Status = "UNHEALTHY"
			code = http.StatusServiceUnavailable
			break
		}
	}
	utils.RespondWithJSON(w, code, report)
}

func main() {
	utils.InitLogger(appName)

	cfg, err := env.ParseAsWithOptions[metaConfig](env.Options{Prefix: "META_"})
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to load config")
	}

	c := newChecker(cfg.Services, cfg.Timeout)
	mux := http.NewServeMux()
	mux.HandleFunc("/health", c.healthHandler)

	utils.Logger.Infof("Starting health check service on %s", cfg.Address)
	if err := http.ListenAndServe(cfg.Address, mux); err != nil {
		utils.Logger.WithError(err).Fatal("Server error")
	}
}
