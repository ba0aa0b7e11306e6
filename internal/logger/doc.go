// Package logger provides a small leveled, thread-safe logging facility.
//
// Each entry carries a timestamp, a level, an optional component tag (the
// list name, "client", "scenario", ...) and a printf-style message.
//
// # Basic Usage
//
//	logger.Info("", "Scenario started")
//	logger.Debug("orders", "InsertOrReplace(%d): before lock", 42)
//
// Creating a custom logger:
//
//	l := logger.New(os.Stderr, logger.LevelDebug)
//	l.Debug("orders", "found = %v", true)
//
// Levels can be parsed from configuration strings with ParseLevel.
// Messages below the configured level are filtered.
package logger
