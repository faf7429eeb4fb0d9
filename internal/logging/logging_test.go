package logging

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	wailslogger "github.com/wailsapp/wails/v2/pkg/logger"
)

func TestLineFormatter_Format(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2025, 12, 23, 20, 14, 4, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "remove refused\n",
		Data:    logrus.Fields{"index": 0, "id": "openai"},
	}

	out, err := (&LineFormatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2025-12-23 20:14:04] [warn ] remove refused | id=openai, index=0\n", string(out))
}

func TestWailsLogger_RoutesLevels(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)

	var l wailslogger.Logger = NewWailsLogger(base)
	l.Warning("careful")
	l.Error("broken")
	l.Trace("noise")

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, logrus.WarnLevel, entries[0].Level)
	assert.Equal(t, logrus.ErrorLevel, entries[1].Level)
	assert.Equal(t, logrus.DebugLevel, entries[2].Level)
	assert.Equal(t, "wails", entries[0].Data["source"])
}

func TestNew_FileOutput(t *testing.T) {
	path := t.TempDir() + "/app.log"
	logger, closer := New(Options{Level: logrus.InfoLevel, File: path})
	defer closer.Close()

	logger.Info("hello file")
	assert.True(t, strings.HasSuffix(path, "app.log"))
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
