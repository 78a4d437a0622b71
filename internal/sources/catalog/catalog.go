// Package catalog assembles the production adapter set from the seven
// domain packages. It exists so the sources package itself never imports
// its own subpackages.
package catalog

import (
	"net/http"

	"luminary/internal/platform/config"
	"luminary/internal/scan/models"
	"luminary/internal/sources"
	"luminary/internal/sources/academic"
	"luminary/internal/sources/financial"
	"luminary/internal/sources/news"
	"luminary/internal/sources/regulatory"
	"luminary/internal/sources/search"
	"luminary/internal/sources/social"
	"luminary/internal/sources/video"
)

// Default returns the full production adapter set.
func Default(providers config.Providers, client *http.Client) sources.AdapterSet {
	return sources.AdapterSet{
		models.DomainSearch:     search.Adapters(providers, client),
		models.DomainNews:       news.Adapters(providers, client),
		models.DomainSocial:     social.Adapters(providers, client),
		models.DomainFinancial:  financial.Adapters(providers, client),
		models.DomainRegulatory: regulatory.Adapters(providers, client),
		models.DomainAcademic:   academic.Adapters(providers, client),
		models.DomainVideo:      video.Adapters(providers, client),
	}
}
