package models

import "time"

// ChmodRequest — тело запроса POST /files/chmod.
type ChmodRequest struct {
	Path      string   `json:"path"`
	Mode      ModeSpec `json:"mode"`
	Recursive bool     `json:"recursive,omitempty"`
	Flush     bool     `json:"flush,omitempty"`
}

// MkdirRequest — тело запроса POST /files/mkdir.
type MkdirRequest struct {
	Path    string     `json:"path"`
	Parents bool       `json:"parents,omitempty"`
	Mode    *ModeSpec  `json:"mode,omitempty"`
	MTime   *time.Time `json:"mtime,omitempty"`
	Flush   bool       `json:"flush,omitempty"`
}

// WriteRequest — тело запроса POST /files/write. Data передается в base64.
type WriteRequest struct {
	Path                string     `json:"path"`
	Data                []byte     `json:"data"`
	Create              bool       `json:"create,omitempty"`
	Mode                *ModeSpec  `json:"mode,omitempty"`
	MTime               *time.Time `json:"mtime,omitempty"`
	Flush               bool       `json:"flush,omitempty"`
	ShardSplitThreshold *int       `json:"shard_split_threshold,omitempty"`
}

// TouchRequest — тело запроса POST /files/touch.
type TouchRequest struct {
	Path  string     `json:"path"`
	MTime *time.Time `json:"mtime,omitempty"`
	Flush bool       `json:"flush,omitempty"`
}

// RootResponse — ответ на изменяющие запросы: корень после изменения.
type RootResponse struct {
	Root    string `json:"root"`
	Version uint64 `json:"version"`
	Pending bool   `json:"pending"`
}

// ReadResponse — ответ GET /files/read.
type ReadResponse struct {
	Path string `json:"path"`
	Data []byte `json:"data"`
}

// OctalMode возвращает режим из числового значения или восьмеричной строки.
// Символьная запись здесь не допускается: создаваемой записи не к чему ее применить.
func (s ModeSpec) OctalMode() (Mode, error) {
	if s.Numeric != nil {
		if !s.Numeric.Valid() {
			return 0, ErrInvalidMode
		}
		return *s.Numeric, nil
	}
	return ParseOctal(s.Text)
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// ModTime возвращает mtime запроса или нулевое время, если поле не задано.
func (r MkdirRequest) ModTime() time.Time { return timeOrZero(r.MTime) }

func (r WriteRequest) ModTime() time.Time { return timeOrZero(r.MTime) }

func (r TouchRequest) ModTime() time.Time { return timeOrZero(r.MTime) }
