// Package logger используется для инициализации и создания логгера.
// Используется как для обычных сообщений логирования, так и для логгирования HTTP-запросов и HTTP-ответов
package logger

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Log — глобальная переменная для логгера, используется по умолчанию как No-op (пустой логгер).
var Log *zap.Logger = zap.NewNop()

type ctxKey struct{}

// Initialize инициализирует логгер с заданным уровнем логирования.
// Принимает строку, содержащую уровень логирования (например, "debug", "info").
// Возвращает ошибку, если уровень логирования не может быть разобран или произошла ошибка при инициализации.
func Initialize(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("log level parsing: %v", err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	zl, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("zap initialization: %v", err)
	}
	Log = zl
	return nil
}

// FromContext возвращает логгер с полем request_id, если запрос прошел через Middleware.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return Log
}

// Middleware логирует HTTP-запросы и HTTP-ответы. Каждому запросу
// назначается идентификатор, он же возвращается в заголовке X-Request-ID.
func Middleware(h http.Handler) http.Handler {
	logFn := func(rw http.ResponseWriter, r *http.Request) {
		reqData := NewRequestData()
		reqData.Set(r.URL.Path, r.Method)
		reqData.SetID(r.Header.Get(RequestIDHeader))

		reqLog := Log.With(zap.String("request_id", reqData.GetID()))
		reqLog.Info("Got request",
			zap.String("URI", reqData.GetURI()),
			zap.String("Method", reqData.GetMethod()),
			zap.String("Content-Type", r.Header.Get("Content-Type")),
			zap.String("Accept-Encoding", r.Header.Get("Accept-Encoding")),
		)

		respData := NewResponseData()
		lw := NewLoggingResponseWriter(rw, respData)
		lw.Header().Set(RequestIDHeader, reqData.GetID())

		h.ServeHTTP(lw, r.WithContext(context.WithValue(r.Context(), ctxKey{}, reqLog)))
		reqLog.Info("Sending response",
			zap.Int("Status", respData.StatusCode()),
			zap.Int("Response Size", respData.Size()),
			zap.String("Content-Type", respData.respContentType),
			zap.String("Content-Encoding", respData.respContentEncoding),
			zap.Duration("Time spent", reqData.TimeSpent()),
		)
	}
	return http.HandlerFunc(logFn)
}

// HandlerWithLogger — вариант Middleware для отдельного http.HandlerFunc.
func HandlerWithLogger(h http.HandlerFunc) http.HandlerFunc {
	return Middleware(h).ServeHTTP
}
