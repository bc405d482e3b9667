package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                string // connection string for the database
	WaitForServices   string // duration to wait for other services to be ready
	LogLevel          string // sets the log level (zap log level values)
	SQLLogLevel       string // sets the log level for sql subsystem
	LogFormat         string // text vs json
	LogFilter         string // zapfilter rules, e.g. "*:scoring.* debug+:*"
	EnableTelemetry   bool   // enable telemetry
	TelemetryEndpoint string // endpoint for telemetry, "stdout" writes to the console
	NatsURL           string // NATS server for standings notifications, empty disables them
	NatsSubject       string // subject prefix for standings notifications
)

// Config holds the configuration values which are used by the application
type Config struct {
	RegattaID int    // regatta to work on
	Race      string // race label like "3A", empty means all races
	Output    string // output format for standings (text, json, yaml)
}
