package logx

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Fields is a map of structured log fields
type Fields map[string]interface{}

// LogEntry is a single record handed to a Formatter
type LogEntry struct {
	Level     Level
	Message   string
	Fields    Fields
	Timestamp time.Time
	Err       error
}

// Formatter renders a LogEntry to bytes
type Formatter interface {
	Format(entry *LogEntry) ([]byte, error)
}

// ConsoleFormatter renders human-readable single-line output
type ConsoleFormatter struct {
	TimeFormat string
}

func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{TimeFormat: "2006-01-02 15:04:05"}
}

func (f *ConsoleFormatter) Format(entry *LogEntry) ([]byte, error) {
	var b strings.Builder

	b.WriteString(entry.Timestamp.Format(f.TimeFormat))
	b.WriteString(" [")
	b.WriteString(entry.Level.String())
	b.WriteString("] ")
	b.WriteString(entry.Message)

	if entry.Err != nil {
		fmt.Fprintf(&b, " error=%v", entry.Err)
	}

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
		}
	}

	b.WriteString("\n")
	return []byte(b.String()), nil
}

// JSONFormatter renders one JSON object per line
type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format(entry *LogEntry) ([]byte, error) {
	record := map[string]interface{}{
		"timestamp": entry.Timestamp.Format(time.RFC3339Nano),
		"level":     entry.Level.String(),
		"message":   entry.Message,
	}
	if entry.Err != nil {
		record["error"] = entry.Err.Error()
	}
	for k, v := range entry.Fields {
		record[k] = v
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
