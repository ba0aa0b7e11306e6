package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level はログレベルを表す
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel は文字列からログレベルを返す（大文字小文字を区別しない）
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

// Logger はスレッドセーフなロガー
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	minLevel Level
}

// Default はデフォルトのロガー
var Default = New(os.Stderr, LevelInfo)

// New は新しいロガーを作成する
func New(out io.Writer, minLevel Level) *Logger {
	if out == nil {
		out = io.Discard
	}
	return &Logger{
		out:      out,
		minLevel: minLevel,
	}
}

// Discard は何も出力しないロガーを返す
func Discard() *Logger {
	return New(io.Discard, LevelError+1)
}

// SetLevel はログレベルを設定する
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// SetOutput は出力先を差し替える
func (l *Logger) SetOutput(out io.Writer) {
	if out == nil {
		out = io.Discard
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = out
}

// Enabled は指定レベルが出力対象かどうかを返す
func (l *Logger) Enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.minLevel
}

// log は指定されたレベルでログを出力する
func (l *Logger) log(level Level, component string, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.minLevel {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	msg := fmt.Sprintf(format, args...)

	if component != "" {
		_, _ = fmt.Fprintf(l.out, "[%s] [%s] [%s] %s\n", timestamp, level, component, msg)
	} else {
		_, _ = fmt.Fprintf(l.out, "[%s] [%s] %s\n", timestamp, level, msg)
	}
}

// Debug はデバッグログを出力する
func (l *Logger) Debug(component string, format string, args ...any) {
	l.log(LevelDebug, component, format, args...)
}

// Info は情報ログを出力する
func (l *Logger) Info(component string, format string, args ...any) {
	l.log(LevelInfo, component, format, args...)
}

// Warn は警告ログを出力する
func (l *Logger) Warn(component string, format string, args ...any) {
	l.log(LevelWarn, component, format, args...)
}

// Error はエラーログを出力する
func (l *Logger) Error(component string, format string, args ...any) {
	l.log(LevelError, component, format, args...)
}

// グローバル関数（デフォルトロガーを使用）

// Debug はデバッグログを出力する
func Debug(component string, format string, args ...any) {
	Default.Debug(component, format, args...)
}

// Info は情報ログを出力する
func Info(component string, format string, args ...any) {
	Default.Info(component, format, args...)
}

// Warn は警告ログを出力する
func Warn(component string, format string, args ...any) {
	Default.Warn(component, format, args...)
}

// Error はエラーログを出力する
func Error(component string, format string, args ...any) {
	Default.Error(component, format, args...)
}
