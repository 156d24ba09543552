package enum

type ExtractionMode string

const (
	ExtractionModeAll    ExtractionMode = "all"
	ExtractionModeLatest ExtractionMode = "latest"
)

func (t ExtractionMode) String() string {
	return string(t)
}

func DecodeExtractionMode(s string) ExtractionMode {
	switch s {
	case "latest":
		return ExtractionModeLatest
	default:
		return ExtractionModeAll
	}
}

type NamingFormat string

const (
	NamingFormatDate     NamingFormat = "date"
	NamingFormatYear     NamingFormat = "year"
	NamingFormatOriginal NamingFormat = "original"
	NamingFormatCustom   NamingFormat = "custom"
)

func (t NamingFormat) String() string {
	return string(t)
}

func DecodeNamingFormat(s string) NamingFormat {
	switch s {
	case "year":
		return NamingFormatYear
	case "original":
		return NamingFormatOriginal
	case "custom":
		return NamingFormatCustom
	default:
		return NamingFormatDate
	}
}

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusPartial   RunStatus = "partial"
	RunStatusFailed    RunStatus = "failed"
)

func (t RunStatus) String() string {
	return string(t)
}
