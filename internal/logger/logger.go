// Package logger содержит настройку структурированного логирования
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	globalLogger = zap.NewNop()
	mu           sync.RWMutex
)

// LogLevel определяет уровень логирования
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Config определяет параметры логирования
type Config struct {
	Level      LogLevel
	OutputPath string // Файл логов; пустая строка отключает запись в файл
	Console    bool   // Писать ли в stderr
	MaxSize    int    // Мегабайты до ротации
	MaxBackups int
	MaxAge     int // Дни
	Compress   bool
}

// ParseLevel преобразует LogLevel в уровень zap
func ParseLevel(level LogLevel) (zapcore.Level, error) {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel, nil
	case InfoLevel, "":
		return zapcore.InfoLevel, nil
	case WarnLevel:
		return zapcore.WarnLevel, nil
	case ErrorLevel:
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("неизвестный уровень логирования: %q", level)
}

// New создает логгер по конфигурации
func New(config Config) (*zap.Logger, error) {
	level, err := ParseLevel(config.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var cores []zapcore.Core
	if config.Console {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stderr),
			level,
		))
	}

	if config.OutputPath != "" {
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0755); err != nil {
			return nil, fmt.Errorf("ошибка создания каталога логов: %w", err)
		}

		// Ротация файла через lumberjack
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   config.OutputPath,
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			fileWriter,
			level,
		))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	return zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

// InitLogger создает глобальный логгер
func InitLogger(config Config) error {
	l, err := New(config)
	if err != nil {
		return err
	}
	mu.Lock()
	globalLogger = l
	mu.Unlock()
	return nil
}

// L возвращает глобальный логгер. До InitLogger это no-op логгер.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Sync сбрасывает буферы глобального логгера
func Sync() {
	_ = L().Sync()
}

// Debug выводит сообщение уровня debug
func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

// Info выводит сообщение уровня info
func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

// Warn выводит сообщение уровня warn
func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

// Error выводит сообщение уровня error
func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}

// Вспомогательные функции для создания полей

func String(key string, val string) zap.Field {
	return zap.String(key, val)
}

func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

func Float64(key string, val float64) zap.Field {
	return zap.Float64(key, val)
}

func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

// ErrorField создает поле с ошибкой
func ErrorField(err error) zap.Field {
	return zap.Error(err)
}

// Duration создает поле длительности
func Duration(key string, val time.Duration) zap.Field {
	return zap.Duration(key, val)
}
