package constants

const (
	AppName            = "habitlens"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habitlens"
	DefaultConfigFile  = "config.toml"
	DefaultDBFile      = "habitlens.db"
	Version            = "v0.1.0"

	// DateFormat is the canonical day key format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// AnalysisWindowDays is the trailing horizon every statistic is computed over.
	AnalysisWindowDays = 60
	// WeekDays and MonthDays are the sub-windows sliced from the analysis horizon.
	WeekDays  = 7
	MonthDays = 30

	// StrugglingRateThreshold is the completion rate below which a habit with history is struggling.
	StrugglingRateThreshold = 50.0

	// MultiHabitMinCompletions is how many relevant habits must be completed on a day
	// for it to count toward a multi-habit challenge.
	MultiHabitMinCompletions = 3

	// Environment variables
	EnvDatabase = "HABITLENS_DB"
	EnvTimezone = "HABITLENS_TIMEZONE"
	EnvDebug    = "HABITLENS_DEBUG"

	DefaultTimezone = "Local"
)
