package interfaces

import (
	"context"
	"time"

	"github.com/customeros/mailharvest/internal/models"
)

// FilterCriteria is the accept/reject contract for one run.
type FilterCriteria struct {
	Now          time.Time
	LookbackDays int
	Keyword      string
	Rules        *models.ProviderRuleTable
}

type MessageFilterService interface {
	// Filter applies the date window, keyword and provider checks and returns
	// the accepted messages sorted by received time descending (stable ties).
	Filter(ctx context.Context, messages []*models.RawMessage, criteria FilterCriteria, observer ProgressObserver) []*models.AcceptedMessage
}
