package enum

type EventLevel string

const (
	EventLevelInfo    EventLevel = "INFO"
	EventLevelSuccess EventLevel = "SUCCESS"
	EventLevelWarning EventLevel = "WARNING"
	EventLevelError   EventLevel = "ERROR"
)

func (t EventLevel) String() string {
	return string(t)
}
