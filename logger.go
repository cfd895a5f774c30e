package main

import (
	"log/slog"
	"os"
)

type Logger interface {
	Debug(msg string, kvs ...any)
	Info(msg string, kvs ...any)
	Error(err error, msg string, kvs ...any)
}

var (
	DefaultLogger Logger = newSlogLogger(slog.LevelInfo)
	VerboseLogger Logger = newSlogLogger(slog.LevelDebug)
)

type slogLogger struct {
	l *slog.Logger
}

func newSlogLogger(level slog.Level) *slogLogger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &slogLogger{l: slog.New(h)}
}

func (s *slogLogger) Debug(msg string, kvs ...any) {
	s.l.Debug(msg, kvs...)
}

func (s *slogLogger) Info(msg string, kvs ...any) {
	s.l.Info(msg, kvs...)
}

func (s *slogLogger) Error(err error, msg string, kvs ...any) {
	if err != nil {
		kvs = append(kvs, "error", err)
	}
	s.l.Error(msg, kvs...)
}
