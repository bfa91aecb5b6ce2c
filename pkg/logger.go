package pkg

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelErrOnly
	LogLevelInfo
	LogLevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelNone:
		return "none"
	case LogLevelErrOnly:
		return "error"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	}
	return fmt.Sprintf("LogLevel(%d)", int(l))
}

// ParseLogLevel accepts the names printed by LogLevel.String.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return LogLevelNone, nil
	case "error", "err":
		return LogLevelErrOnly, nil
	case "info", "":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	}
	return LogLevelNone, fmt.Errorf("unknown log level %q", s)
}

var (
	log_mu     sync.Mutex
	log_level  = LogLevelErrOnly
	log_stdout io.Writer = os.Stdout
	log_stderr io.Writer = os.Stderr
)

const log_flags = log.Lshortfile | log.LstdFlags

var (
	info_logger  = log.New(io.Discard, "INFO: ", log_flags)
	error_logger = log.New(os.Stderr, "ERROR: ", log_flags)
	fatal_logger = log.New(os.Stderr, "FATAL: ", log_flags)
	warn_logger  = log.New(io.Discard, "WARN: ", log_flags)
	debug_logger = log.New(io.Discard, "DEBUG: ", log_flags)
)

var (
	InfoLog  = info_logger.Println
	ErrorLog = error_logger.Println
	FatalLog = fatal_logger.Fatalln
	WarnLog  = warn_logger.Println
	DebugLog = debug_logger.Println
)

func GetLogLevel() LogLevel {
	log_mu.Lock()
	defer log_mu.Unlock()
	return log_level
}

func SetLogLevel(level LogLevel) {
	log_mu.Lock()
	defer log_mu.Unlock()
	log_level = level
	applyLogLevel()
}

// SetLogOutput redirects every logger; tests use it to capture or silence output.
func SetLogOutput(stdout, stderr io.Writer) {
	log_mu.Lock()
	defer log_mu.Unlock()
	log_stdout, log_stderr = stdout, stderr
	applyLogLevel()
}

func applyLogLevel() {
	error_out, info_out, debug_out := io.Discard, io.Discard, io.Discard
	switch log_level {
	case LogLevelErrOnly:
		error_out = log_stderr
	case LogLevelInfo:
		error_out, info_out = log_stderr, log_stdout
	case LogLevelDebug:
		error_out, info_out, debug_out = log_stderr, log_stdout, log_stdout
	}

	error_logger.SetOutput(error_out)
	// fatal always reaches stderr; the process is about to exit
	fatal_logger.SetOutput(log_stderr)
	info_logger.SetOutput(info_out)
	warn_logger.SetOutput(info_out)
	debug_logger.SetOutput(debug_out)
}
