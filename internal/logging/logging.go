package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LineFormatter renders entries as:
// [2025-12-23 20:14:04] [warn ] [model_registry.go:88] remove refused | id=openai
type LineFormatter struct{}

func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	buffer := entry.Buffer
	if buffer == nil {
		buffer = &bytes.Buffer{}
	}

	level := entry.Level.String()
	if level == "warning" {
		level = "warn"
	}

	fmt.Fprintf(buffer, "[%s] [%-5s]", entry.Time.Format("2006-01-02 15:04:05"), level)
	if entry.Caller != nil {
		fmt.Fprintf(buffer, " [%s:%d]", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}
	buffer.WriteString(" ")
	buffer.WriteString(strings.TrimRight(entry.Message, "\r\n"))

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buffer.WriteString(" |")
		for i, k := range keys {
			if i > 0 {
				buffer.WriteString(",")
			}
			fmt.Fprintf(buffer, " %s=%v", k, entry.Data[k])
		}
	}
	buffer.WriteString("\n")
	return buffer.Bytes(), nil
}

// Options configures New.
type Options struct {
	Level logrus.Level
	// File enables rotating file output in addition to stdout.
	File string
}

// New builds the application logger. The returned closer releases the log file.
func New(opts Options) (*logrus.Logger, io.Closer) {
	logger := logrus.New()
	logger.SetLevel(opts.Level)
	logger.SetReportCaller(true)
	logger.SetFormatter(&LineFormatter{})

	if opts.File == "" {
		logger.SetOutput(os.Stdout)
		return logger, nopCloser{}
	}

	rotating := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, rotating))
	return logger, rotating
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
