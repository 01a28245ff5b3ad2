// hmacSHA256.go содержит обертку для ResponseWriter и функции генерации и валидации подписи.
package server

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
)

// HashHeader — заголовок с HMAC-SHA256 подписью тела.
const HashHeader = "HashSHA256"

// hashWriter — обертка над http.ResponseWriter, которая накапливает тело
// ответа, чтобы отправить подпись в заголовке HashSHA256 до самого тела.
type hashWriter struct {
	w      http.ResponseWriter
	key    string
	status int
	body   bytes.Buffer
}

// newHashWriter создает новый hashWriter с заданным HMAC-ключом.
func newHashWriter(w http.ResponseWriter, key string) *hashWriter {
	return &hashWriter{
		w:   w,
		key: key,
	}
}

// Header возвращает заголовки HTTP-ответа.
func (hw *hashWriter) Header() http.Header {
	return hw.w.Header()
}

// Write сохраняет часть тела ответа.
func (hw *hashWriter) Write(p []byte) (int, error) {
	return hw.body.Write(p)
}

// WriteHeader запоминает статус, он будет отправлен вместе с подписью.
func (hw *hashWriter) WriteHeader(statusCode int) {
	if hw.status == 0 {
		hw.status = statusCode
	}
}

// flush подписывает накопленное тело и отправляет ответ.
func (hw *hashWriter) flush() error {
	if hw.status == 0 {
		hw.status = http.StatusOK
	}
	hw.w.Header().Set(HashHeader, CalculateHMAC(hw.body.Bytes(), hw.key))
	hw.w.WriteHeader(hw.status)
	_, err := hw.w.Write(hw.body.Bytes())
	return err
}

// CalculateHMAC вычисляет HMAC-SHA256 для заданного тела сообщения и ключа.
// Возвращает HMAC в виде строки, закодированной в base64.
func CalculateHMAC(body []byte, key string) string {
	hm := hmac.New(sha256.New, []byte(key))
	hm.Write(body)
	return base64.URLEncoding.EncodeToString(hm.Sum(nil))
}

// validateHMAC проверяет, совпадает ли HMAC-подпись из запроса с вычисленным значением.
// Возвращает ErrMismatchedHash в случае несовпадения.
func validateHMAC(packetHash string, body []byte, key string) error {
	got, err := base64.URLEncoding.DecodeString(packetHash)
	if err != nil {
		return ErrMismatchedHash
	}
	want, _ := base64.URLEncoding.DecodeString(CalculateHMAC(body, key))
	if !hmac.Equal(got, want) {
		return ErrMismatchedHash
	}
	return nil
}
