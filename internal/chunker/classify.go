package chunker

import "strings"

// Categories assigned to policy chunks. Every chunk gets exactly one.
const (
	CategoryFerias     = "ferias"
	CategoryHomeOffice = "home_office"
	CategoryConduta    = "conduta"
	CategoryGeral      = "geral"
)

// Classify assigns a subject category from keyword rules over the lower-cased
// chunk text. Rules are ordered; the first match wins.
func Classify(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "férias") || strings.Contains(t, "ferias"):
		return CategoryFerias
	case strings.Contains(t, "home office") || strings.Contains(t, "remoto") || strings.Contains(t, "teletrabalho"):
		return CategoryHomeOffice
	case strings.Contains(t, "conduta") || strings.Contains(t, "ética") || strings.Contains(t, "etica"):
		return CategoryConduta
	default:
		return CategoryGeral
	}
}
