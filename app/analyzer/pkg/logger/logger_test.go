package logger

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestCustomFormatter_Format(t *testing.T) {
	_, file, line, _ := runtime.Caller(0)
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "Potential spoiler detected in summary",
		Caller:  &runtime.Frame{File: file, Line: line},
		Data:    logrus.Fields{},
	}
	entry.Logger.SetReportCaller(true)

	out, err := (&CustomFormatter{}).Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "[2026-05-04 03:02:01] [WARN] [" + filepath.Base(file)
	if !strings.HasPrefix(string(out), want) {
		t.Errorf("Format() = %q, want prefix %q", out, want)
	}
	if !strings.HasSuffix(string(out), "Potential spoiler detected in summary\n") {
		t.Errorf("Format() = %q", out)
	}
}

func TestCustomFormatter_FieldsSorted(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "agent done",
		Data:    logrus.Fields{"stage": "CRITIQUED", "agent": "Critic", "progress": 23, "movie": "Heat"},
	}

	for i := 0; i < 20; i++ {
		out, err := (&CustomFormatter{}).Format(entry)
		if err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		if !strings.HasSuffix(string(out), "agent done agent=Critic movie=Heat progress=23 stage=CRITIQUED\n") {
			t.Fatalf("Format() = %q", out)
		}
	}
}

func TestInitLogger_FileAndLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "analyzer.log")
	if err := InitLogger("debug", path); err != nil {
		t.Fatalf("InitLogger() error = %v", err)
	}
	if Log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v", Log.GetLevel())
	}

	if err := InitLogger("nonsense", ""); err != nil {
		t.Fatalf("InitLogger() error = %v", err)
	}
	if Log.GetLevel() != logrus.InfoLevel {
		t.Errorf("fallback level = %v", Log.GetLevel())
	}
}
