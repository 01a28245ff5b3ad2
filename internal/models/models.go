package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Kind — тип записи в дереве файлов.
type Kind uint8

const (
	KindFile Kind = iota + 1
	KindDirectory
	KindShardedDirectory
	// KindShard — внутренний узел HAMT, пользователю не виден.
	KindShard
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindShardedDirectory:
		return "hamt-sharded-directory"
	case KindShard:
		return "hamt-shard"
	default:
		return "unknown"
	}
}

// IsDir сообщает, может ли запись содержать дочерние записи.
func (k Kind) IsDir() bool {
	return k == KindDirectory || k == KindShardedDirectory
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "file":
		*k = KindFile
	case "directory":
		*k = KindDirectory
	case "hamt-sharded-directory":
		*k = KindShardedDirectory
	case "hamt-shard":
		*k = KindShard
	default:
		return fmt.Errorf("unknown entry type: %s", s)
	}
	return nil
}

// Stat — ответ на запрос stat.
type Stat struct {
	CID   string    `json:"cid"`
	Type  Kind      `json:"type"`
	Mode  Mode      `json:"mode"`
	MTime time.Time `json:"mtime"`
	Size  int64     `json:"size"`
	// Blocks — число блоков, на которые ссылается запись напрямую.
	Blocks int `json:"blocks"`
}

// DirEntry — элемент листинга каталога.
type DirEntry struct {
	Name string `json:"name"`
	CID  string `json:"cid"`
	Type Kind   `json:"type"`
	Mode Mode   `json:"mode"`
	Size int64  `json:"size"`
}

// FSStat — сведения о хранилище блоков и о диске под ним.
type FSStat struct {
	Root       string  `json:"root"`
	Version    uint64  `json:"version"`
	Pending    bool    `json:"pending"`
	Blocks     int     `json:"blocks"`
	TotalBytes uint64  `json:"total_bytes"`
	FreeBytes  uint64  `json:"free_bytes"`
	UsedBytes  uint64  `json:"used_bytes"`
	UsedPct    float64 `json:"used_percent"`
}

// ModeSpec — значение поля mode в запросе: либо строка ("0755", "a+X"),
// либо уже числовое значение (493).
type ModeSpec struct {
	Text    string
	Numeric *Mode
}

func (s ModeSpec) IsNumeric() bool {
	return s.Numeric != nil
}

func (s ModeSpec) String() string {
	if s.Numeric != nil {
		return s.Numeric.String()
	}
	return s.Text
}

func (s ModeSpec) MarshalJSON() ([]byte, error) {
	if s.Numeric != nil {
		return json.Marshal(uint32(*s.Numeric))
	}
	return json.Marshal(s.Text)
}

func (s *ModeSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		s.Numeric = nil
		return json.Unmarshal(data, &s.Text)
	}
	var v uint32
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("mode must be a string or an integer: %w", err)
	}
	m := Mode(v)
	s.Text = ""
	s.Numeric = &m
	return nil
}

// ModePtr возвращает указатель на значение, удобно для опций.
func ModePtr(m Mode) *Mode {
	return &m
}
