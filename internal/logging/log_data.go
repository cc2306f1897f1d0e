package logging

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LogData accumulates fields and millisecond timings over the life of one
// request so the wrapper can emit a single summary line. The mutex guards
// timings because timers may be stopped from other goroutines.
type LogData struct {
	mu      sync.Mutex
	timings map[string]int64
	fields  map[string]interface{}
	logger  *logrus.Logger
}

func NewLogData(logger *logrus.Logger) *LogData {
	return &LogData{
		timings: make(map[string]int64),
		fields:  make(map[string]interface{}),
		logger:  logger,
	}
}

// AddTiming starts a timer named entryName and returns the function that
// stops it and records the elapsed milliseconds.
func (l *LogData) AddTiming(entryName string) func() {
	startTime := time.Now()

	return func() {
		elapsed := time.Since(startTime).Milliseconds()
		l.mu.Lock()
		defer l.mu.Unlock()
		l.timings[entryName] = elapsed
	}
}

// AddData records a key/value pair on the summary line.
func (l *LogData) AddData(key string, value interface{}) {
	l.fields[key] = value
}

// Log returns an entry carrying every recorded field and timing.
func (l *LogData) Log() *logrus.Entry {
	entry := logrus.NewEntry(l.logger)

	for key, value := range l.fields {
		entry = entry.WithField(key, value)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, value := range l.timings {
		entry = entry.WithField(key, value)
	}

	return entry
}
