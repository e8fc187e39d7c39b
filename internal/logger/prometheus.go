package logger

import (
	"github.com/maxaizer/jobboard/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const errorTypeUnclassified = "unclassified"

var knownErrorTypes = map[string]struct{}{
	ErrorTypeDb:         {},
	ErrorTypeBackendApi: {},
	ErrorTypeEnrichment: {},
	ErrorTypeSession:    {},
	ErrorTypeValidation: {},
}

// errorCountingHook counts error entries by error_type and level.
// Entries without a known error_type are counted as unclassified.
type errorCountingHook struct{}

func (h *errorCountingHook) Fire(entry *log.Entry) error {
	metrics.ErrorsCounter.WithLabelValues(classify(entry), entry.Level.String()).Inc()
	return nil
}

func (h *errorCountingHook) Levels() []log.Level {
	return []log.Level{
		log.ErrorLevel,
		log.FatalLevel,
		log.PanicLevel,
	}
}

func classify(entry *log.Entry) string {
	errorType, ok := entry.Data[ErrorTypeField].(string)
	if !ok {
		return errorTypeUnclassified
	}
	if _, known := knownErrorTypes[errorType]; !known {
		return errorTypeUnclassified
	}
	return errorType
}

func addErrorCountingHook() {
	log.AddHook(&errorCountingHook{})
}
