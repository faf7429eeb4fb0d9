package logging

import "github.com/sirupsen/logrus"

// WailsLogger routes framework logs into logrus. It satisfies
// github.com/wailsapp/wails/v2/pkg/logger.Logger.
type WailsLogger struct {
	log logrus.FieldLogger
}

func NewWailsLogger(log logrus.FieldLogger) *WailsLogger {
	return &WailsLogger{log: log.WithField("source", "wails")}
}

func (l *WailsLogger) Print(message string)   { l.log.Print(message) }
func (l *WailsLogger) Trace(message string)   { l.log.Debug(message) }
func (l *WailsLogger) Debug(message string)   { l.log.Debug(message) }
func (l *WailsLogger) Info(message string)    { l.log.Info(message) }
func (l *WailsLogger) Warning(message string) { l.log.Warn(message) }
func (l *WailsLogger) Error(message string)   { l.log.Error(message) }
func (l *WailsLogger) Fatal(message string)   { l.log.Fatal(message) }
