package exitcode

const (
	Success        = 0
	UsageError     = 1
	ConfigError    = 2
	DBConnError    = 3
	FetchError     = 4
	ProcessError   = 5
	PartialSuccess = 6
)
