package extractor

import (
	"context"

	"github.com/customeros/mailharvest/dto"
	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/enum"
	"github.com/customeros/mailharvest/internal/logger"
)

type loggerObserver struct {
	log logger.Logger
}

// NewLoggerObserver routes progress events to the application log.
func NewLoggerObserver(log logger.Logger) interfaces.ProgressObserver {
	return &loggerObserver{log: log}
}

func (o *loggerObserver) Notify(ctx context.Context, event dto.ProgressEvent) {
	switch event.Level {
	case enum.EventLevelError:
		o.log.Errorf("%s", event.Message)
	case enum.EventLevelWarning:
		o.log.Warnf("%s", event.Message)
	default:
		o.log.Infof("%s", event.Message)
	}
}

type compositeObserver struct {
	observers []interfaces.ProgressObserver
}

// NewCompositeObserver fans events out to every given observer. Nil entries
// are ignored.
func NewCompositeObserver(observers ...interfaces.ProgressObserver) interfaces.ProgressObserver {
	kept := make([]interfaces.ProgressObserver, 0, len(observers))
	for _, observer := range observers {
		if observer != nil {
			kept = append(kept, observer)
		}
	}
	return &compositeObserver{observers: kept}
}

func (o *compositeObserver) Notify(ctx context.Context, event dto.ProgressEvent) {
	for _, observer := range o.observers {
		observer.Notify(ctx, event)
	}
}
