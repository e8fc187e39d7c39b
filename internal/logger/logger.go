package logger

import (
	"github.com/maxaizer/jobboard/internal/config"
	log "github.com/sirupsen/logrus"
	"io"
	"os"
	"path/filepath"
)

const ErrorTypeField = "error_type"

const (
	ErrorTypeDb         = "db"
	ErrorTypeBackendApi = "backend_api"
	ErrorTypeValidation = "validation"
	ErrorTypeEnrichment = "enrichment"
	ErrorTypeSession    = "session"
)

var logFile *os.File

func Setup(cfg config.LoggerConfig) {

	if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	var err error
	logFile, err = os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(multiWriter)

	customFormatter := &log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000 -0700",
	}
	log.SetFormatter(customFormatter)
	addErrorCountingHook()

	if cfg.AppName != "" {
		log.AddHook(&appNameHook{appName: cfg.AppName})
	}

	log.SetLevel(toLogrusLevel(cfg.LogLevel))
}

func Cleanup() {
	if logFile != nil {
		_ = logFile.Close()
	}
}

func toLogrusLevel(level config.LogLevel) log.Level {
	switch level {
	case config.LevelDebug:
		return log.DebugLevel
	case config.LevelWarning:
		return log.WarnLevel
	case config.LevelError:
		return log.ErrorLevel
	case config.LevelFatal:
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

type appNameHook struct {
	appName string
}

func (h *appNameHook) Fire(entry *log.Entry) error {
	entry.Data["app"] = h.appName
	return nil
}

func (h *appNameHook) Levels() []log.Level {
	return log.AllLevels
}
