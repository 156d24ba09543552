package models

import "strings"

// ProviderRule maps a match pattern to a provider label. Patterns containing
// "@" match against sender addresses, all others against subjects.
type ProviderRule struct {
	Pattern string
	Label   string
}

// IsAddressPattern reports whether the rule matches sender addresses rather
// than subject keywords.
func (r ProviderRule) IsAddressPattern() bool {
	return strings.Contains(r.Pattern, "@")
}

// ProviderRuleTable is an ordered rule set; configuration order decides which
// rule wins when several match.
type ProviderRuleTable struct {
	Rules []ProviderRule
}

func (t *ProviderRuleTable) IsEmpty() bool {
	return t == nil || len(t.Rules) == 0
}
