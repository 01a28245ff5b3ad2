package server

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/Fuonder/dagfs.git/internal/logger"
	"go.uber.org/zap"
)

var validContentTypes = map[string]struct{}{
	"text/plain":                      {},
	"text/plain; charset=UTF-8":       {},
	"text/plain; charset=utf-8":       {},
	"application/json":                {},
	"application/json; charset=utf-8": {},
}

func isValidContentType(ct string) bool {
	_, ok := validContentTypes[ct]
	return ok || ct == ""
}

// isIPTrusted проверяет входит ли переданный IP адрес в диапазон CIDR.
func isIPTrusted(ipStr string, cidr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		logger.Log.Info("invalid IP", zap.String("ip", ipStr))
		return false
	}

	_, subnet, err := net.ParseCIDR(cidr)
	if err != nil {
		logger.Log.Warn("invalid CIDR", zap.String("cidr", cidr))
		return false
	}

	return subnet.Contains(ip)
}

// CheckSubnet - middleware, который проверяет, что IP отправителя из
// заголовка X-Real-IP входит в доверенную подсеть.
func (h *Handler) CheckSubnet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if h.trustedSubnet == "" {
			next.ServeHTTP(rw, r)
			return
		}
		ipStr := r.Header.Get("X-Real-IP")
		if ipStr == "" {
			logger.Log.Debug("missing X-Real-IP header")
			http.Error(rw, "Missing X-Real-IP header", http.StatusBadRequest)
			return
		}

		if !isIPTrusted(ipStr, h.trustedSubnet) {
			logger.Log.Info("IP not trusted", zap.String("ip", ipStr))
			http.Error(rw, "Forbidden: IP not in trusted subnet", http.StatusForbidden)
			return
		}
		next.ServeHTTP(rw, r)
	})
}

// CheckMethod проверяет, что метод запроса является GET или POST.
func (h *Handler) CheckMethod(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodGet {
			logger.Log.Info("wrong method", zap.String("method", r.Method))
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CheckContentType валидирует заголовок Content-Type входящего запроса.
func (h *Handler) CheckContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isValidContentType(r.Header.Get("Content-Type")) {
			logger.Log.Info("wrong content type",
				zap.String("Content-Type", r.Header.Get("Content-Type")))
			http.Error(w, "invalid content type", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GzipMiddleware обеспечивает сжатие и/или распаковку тела запроса/ответа с использованием GZIP,
// если это поддерживается клиентом.
func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		ow := rw
		if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			cw := newGzipWriter(rw)
			ow = cw
			defer func() {
				if err := cw.Close(); err != nil {
					logger.Log.Debug("can not close writer", zap.Error(err))
				}
			}()
		}
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			cr, err := newGzipReader(r.Body)
			if err != nil {
				http.Error(rw, "malformed gzip body", http.StatusBadRequest)
				return
			}
			r.Body = cr
			defer func() {
				if err := cr.Close(); err != nil {
					logger.Log.Debug("can not close reader", zap.Error(err))
				}
			}()
		}
		next.ServeHTTP(ow, r)
	})
}

// HashMiddleware проверяет подпись HMAC (если задан ключ) и отклоняет запросы с некорректной подписью.
// Подпись считается по распакованному телу запроса.
func (h *Handler) HashMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if h.hashKey == "" {
			next.ServeHTTP(rw, r)
			return
		}
		packetHash := r.Header.Get(HashHeader)
		if packetHash == "" {
			logger.Log.Debug("no HMAC in request found, skipping validation")
			next.ServeHTTP(rw, r)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(rw, "Error reading request body", http.StatusBadRequest)
			return
		}
		if err := validateHMAC(packetHash, body, h.hashKey); err != nil {
			logger.Log.Info("HMAC validation failed", zap.Error(err))
			http.Error(rw, ErrMismatchedHash.Error(), http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(rw, r)
	})
}

// WithHashing добавляет подпись HMAC к ответу сервера, если задан ключ.
func (h *Handler) WithHashing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if h.hashKey == "" {
			next.ServeHTTP(rw, r)
			return
		}
		hw := newHashWriter(rw, h.hashKey)
		next.ServeHTTP(hw, r)
		if err := hw.flush(); err != nil {
			logger.Log.Debug("can not write signed response", zap.Error(err))
		}
	})
}
