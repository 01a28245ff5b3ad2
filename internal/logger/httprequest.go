package logger

import (
	"fmt"
	"time"

	uuid "github.com/satori/go.uuid"
)

// RequestIDHeader — заголовок, в котором клиент может передать свой
// идентификатор запроса. Сервер возвращает его в ответе.
const RequestIDHeader = "X-Request-ID"

// RequestData содержит сведения о входящем HTTP-запросе.
type RequestData struct {
	id        string
	url       string
	method    string
	timeStart time.Time
}

// NewRequestData создает RequestData с новым идентификатором запроса.
func NewRequestData() *RequestData {
	return &RequestData{id: uuid.NewV4().String(), timeStart: time.Now()}
}

func (r *RequestData) Set(uri string, method string) {
	r.url = uri
	r.method = method
}

// SetID заменяет сгенерированный идентификатор на переданный клиентом.
func (r *RequestData) SetID(id string) {
	if id != "" {
		r.id = id
	}
}

func (r *RequestData) GetID() string {
	return r.id
}

func (r *RequestData) GetMethod() string {
	return r.method
}

func (r *RequestData) GetURI() string {
	return r.url
}

func (r *RequestData) TimeSpent() time.Duration {
	return time.Since(r.timeStart)
}

func (r *RequestData) String() string {
	return fmt.Sprintf("request:\n\tID:\t%s\n\tURI:\t%s\n\tMETHOD:\t%s\n\tTIMESTART:\t%s\n\n",
		r.id, r.url, r.method, r.timeStart.String())
}
