package providers

import (
	"fmt"
	"strings"

	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/models"
)

type providerMatcherService struct{}

func NewProviderMatcherService() interfaces.ProviderMatcherService {
	return &providerMatcherService{}
}

// ParseRules parses the newline-delimited provider configuration. Lines are
// "pattern = label"; "#" comments and blank lines are skipped. A line without
// "=" or with an empty side is reported as invalid and skipped.
func (s *providerMatcherService) ParseRules(configText string) (*models.ProviderRuleTable, []string) {
	table := &models.ProviderRuleTable{}
	var invalid []string

	for lineNo, line := range strings.Split(configText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.Index(line, "=")
		if idx < 0 {
			invalid = append(invalid, fmt.Sprintf("line %d: missing '=' separator: %q", lineNo+1, line))
			continue
		}

		pattern := strings.TrimSpace(line[:idx])
		label := strings.TrimSpace(line[idx+1:])
		if pattern == "" || label == "" {
			invalid = append(invalid, fmt.Sprintf("line %d: empty pattern or label: %q", lineNo+1, line))
			continue
		}

		table.Rules = append(table.Rules, models.ProviderRule{
			Pattern: strings.ToLower(pattern),
			Label:   label,
		})
	}

	return table, invalid
}

// Resolve applies the rule table to one message. An empty table matches
// everything with an empty label. A message without a determinable sender is
// never dropped. First matching rule wins; configuration order decides ties.
func (s *providerMatcherService) Resolve(table *models.ProviderRuleTable, senderAddress, subject string) (bool, string) {
	if table.IsEmpty() {
		return true, ""
	}

	if senderAddress == "" {
		return true, ""
	}

	sender := strings.ToLower(senderAddress)
	lowerSubject := strings.ToLower(subject)

	for _, rule := range table.Rules {
		if rule.IsAddressPattern() {
			// Bidirectional substring match handles partial addresses and
			// display-name variants on either side.
			if strings.Contains(sender, rule.Pattern) || strings.Contains(rule.Pattern, sender) {
				return true, rule.Label
			}
		} else if strings.Contains(lowerSubject, rule.Pattern) {
			return true, rule.Label
		}
	}

	return false, ""
}
