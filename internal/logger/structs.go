package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool // human readable output instead of JSON
}

// RollingFile is one lumberjack managed log file.
type RollingFile struct {
	Name       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// LogFile implements a file based logger, one rolling file per level group.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	AccessLog        string `toml:"access"`
	AccessMaxSize    int    `toml:"accessMaxSize"`
	AccessMaxBackups int    `toml:"accessMaxBackups"`
	AccessMaxAge     int    `toml:"accessMaxAge"`

	ErrorLog        string `toml:"error"`
	ErrorMaxSize    int    `toml:"errorMaxSize"`
	ErrorMaxBackups int    `toml:"errorMaxBackups"`
	ErrorMaxAge     int    `toml:"errorMaxAge"`

	InfoLog        string `toml:"info"`
	InfoMaxSize    int    `toml:"infoMaxSize"`
	InfoMaxBackups int    `toml:"infoMaxBackups"`
	InfoMaxAge     int    `toml:"infoMaxAge"`

	TraceLog        string `toml:"trace"`
	TraceMaxSize    int    `toml:"traceMaxSize"`
	TraceMaxBackups int    `toml:"traceMaxBackups"`
	TraceMaxAge     int    `toml:"traceMaxAge"`

	WarnLog        string `toml:"warn"`
	WarnMaxSize    int    `toml:"warnMaxSize"`
	WarnMaxBackups int    `toml:"warnMaxBackups"`
	WarnMaxAge     int    `toml:"warnMaxAge"`
}

// AccessFile returns the access log file settings.
func (f LogFile) AccessFile() RollingFile {
	return RollingFile{f.AccessLog, f.AccessMaxSize, f.AccessMaxBackups, f.AccessMaxAge}
}

// ErrorFile returns the error log file settings.
func (f LogFile) ErrorFile() RollingFile {
	return RollingFile{f.ErrorLog, f.ErrorMaxSize, f.ErrorMaxBackups, f.ErrorMaxAge}
}

// InfoFile returns the info log file settings.
func (f LogFile) InfoFile() RollingFile {
	return RollingFile{f.InfoLog, f.InfoMaxSize, f.InfoMaxBackups, f.InfoMaxAge}
}

// TraceFile returns the trace log file settings.
func (f LogFile) TraceFile() RollingFile {
	return RollingFile{f.TraceLog, f.TraceMaxSize, f.TraceMaxBackups, f.TraceMaxAge}
}

// WarnFile returns the warn log file settings.
func (f LogFile) WarnFile() RollingFile {
	return RollingFile{f.WarnLog, f.WarnMaxSize, f.WarnMaxBackups, f.WarnMaxAge}
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.
	LogEnv   string

	// EnableAccessLogToConsole writes the fiber access log to the console.
	// Does not overrule Console.Enabled.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string
	ServiceName string

	// Console used mainly for docker and dev.
	Console Console

	// File logging with rotation.
	File LogFile `toml:"file"`
}
