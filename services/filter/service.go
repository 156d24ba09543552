package filter

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/customeros/mailharvest/dto"
	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/enum"
	"github.com/customeros/mailharvest/internal/models"
)

type messageFilterService struct {
	providerMatcher interfaces.ProviderMatcherService
}

func NewMessageFilterService(providerMatcher interfaces.ProviderMatcherService) interfaces.MessageFilterService {
	return &messageFilterService{
		providerMatcher: providerMatcher,
	}
}

// Filter applies the date window, keyword and provider checks per message, in
// retrieval order, then sorts the accepted set by received time descending.
// The sort is stable so ties keep the original retrieval order.
func (s *messageFilterService) Filter(ctx context.Context, messages []*models.RawMessage, criteria interfaces.FilterCriteria, observer interfaces.ProgressObserver) []*models.AcceptedMessage {
	cutoffDate := dateOnly(criteria.Now.AddDate(0, 0, -criteria.LookbackDays))

	accepted := make([]*models.AcceptedMessage, 0, len(messages))
	for _, msg := range messages {
		if !msg.HasUsableTimestamp() {
			s.notify(ctx, observer, enum.EventLevelWarning, fmt.Sprintf("Skipping message without received time: %q", msg.Subject))
			continue
		}
		if dateOnly(msg.ReceivedAt).Before(cutoffDate) {
			continue
		}

		if criteria.Keyword != "" && !strings.Contains(strings.ToLower(msg.Subject), strings.ToLower(criteria.Keyword)) {
			continue
		}

		include, label := s.providerMatcher.Resolve(criteria.Rules, msg.FromAddress, msg.Subject)
		if !include {
			continue
		}

		accepted = append(accepted, &models.AcceptedMessage{
			RawMessage:    msg,
			ProviderLabel: label,
		})
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].ReceivedAt.After(accepted[j].ReceivedAt)
	})

	return accepted
}

// dateOnly drops the time-of-day component; the lookback window compares
// calendar dates, not instants.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *messageFilterService) notify(ctx context.Context, observer interfaces.ProgressObserver, level enum.EventLevel, message string) {
	if observer == nil {
		return
	}
	observer.Notify(ctx, dto.ProgressEvent{Level: level, Message: message})
}
