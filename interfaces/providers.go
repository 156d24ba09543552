package interfaces

import (
	"github.com/customeros/mailharvest/internal/models"
)

type ProviderMatcherService interface {
	// ParseRules builds an ordered rule table from the configuration text.
	// Invalid lines are returned separately and never abort parsing.
	ParseRules(configText string) (*models.ProviderRuleTable, []string)

	// Resolve decides whether a message is included and which provider label
	// applies. First matching rule wins.
	Resolve(table *models.ProviderRuleTable, senderAddress, subject string) (include bool, label string)
}
