package sources

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"luminary/internal/platform/config"
	"luminary/internal/platform/metrics"
	"luminary/internal/scan/models"
)

// AdapterSet maps each source domain to its concrete adapters. The seven
// domain packages each contribute one entry via BuildModules' caller.
type AdapterSet map[models.Domain][]Adapter

// Per-domain time budgets. Registries and archives are slower than search
// APIs; observed latencies drove these numbers.
var domainTimeouts = map[models.Domain]time.Duration{
	models.DomainSearch:     10 * time.Second,
	models.DomainNews:       15 * time.Second,
	models.DomainSocial:     10 * time.Second,
	models.DomainFinancial:  30 * time.Second,
	models.DomainRegulatory: 30 * time.Second,
	models.DomainAcademic:   20 * time.Second,
	models.DomainVideo:      10 * time.Second,
}

// BuildModules wraps every adapter with the resilient policy and groups
// them into their domain modules, in the canonical domain order.
func BuildModules(set AdapterSet, cfg config.Scan, logger *slog.Logger, m *metrics.Metrics, cache Cache) []*Module {
	modules := make([]*Module, 0, len(models.Domains))
	for _, domain := range models.Domains {
		adapters := set[domain]
		if len(adapters) == 0 {
			continue
		}
		timeout := domainTimeouts[domain]
		if timeout == 0 {
			timeout = cfg.AdapterTimeout
		}
		wrapped := make([]*Resilient, 0, len(adapters))
		for _, a := range adapters {
			opts := []ResilientOption{
				WithMetrics(m),
				// One request per second per provider, small burst; keeps
				// repeated scans from tripping provider-side limits.
				WithRateLimit(rate.NewLimiter(rate.Limit(1), 3)),
			}
			if cache != nil {
				opts = append(opts, WithCache(cache))
			}
			wrapped = append(wrapped, NewResilient(a, timeout, logger, opts...))
		}
		modules = append(modules, NewModule(domain, wrapped))
	}
	return modules
}
