package sources

import "luminary/internal/scan/models"

// Query builds the provider search string for a target: the exact name,
// plus the organization as disambiguation when present.
func Query(profile models.TargetProfile) string {
	q := `"` + profile.Name + `"`
	if profile.Organization != "" {
		q += " " + profile.Organization
	}
	return q
}
