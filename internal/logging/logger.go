package logging

import (
	"log/slog"
	"os"

	"gorm.io/gorm"
)

// Bootstrap installs the stdout JSON logger used during startup, before the
// database-backed error sink exists.
func Bootstrap() {
	slog.SetDefault(slog.New(stdoutHandler()))
}

// AttachDatabase swaps the default logger for one that also batches ERROR+
// records into system_logs. The returned handler must be stopped on
// shutdown so buffered records flush.
func AttachDatabase(db *gorm.DB) *PGHandler {
	pg := NewPGHandler(db)
	slog.SetDefault(slog.New(NewMultiHandler(stdoutHandler(), pg)))
	return pg
}

func stdoutHandler() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
}
