// Package server описывает функционал, который необходим для работы HTTP севера.
// В том числе HTTP endpoint'ы дерева файлов и дополнительные HTTP middleware функции.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Fuonder/dagfs.git/internal/buildinfo"
	"github.com/Fuonder/dagfs.git/internal/chmod"
	"github.com/Fuonder/dagfs.git/internal/logger"
	"github.com/Fuonder/dagfs.git/internal/mfs"
	"github.com/Fuonder/dagfs.git/internal/modeexpr"
	"github.com/Fuonder/dagfs.git/internal/models"
	"github.com/Fuonder/dagfs.git/internal/storage"
	"go.uber.org/zap"
)

// ErrorResponse описывает структуру ошибки, которая возвращается в случае проблем при обработке запроса.
type ErrorResponse struct {
	Code    int    `json:"code"`              // HTTP-код ошибки.
	Message string `json:"message"`           // Человекочитаемое сообщение об ошибке.
	Details string `json:"details,omitempty"` // Текст исходной ошибки.
}

var (
	ErrNotInitialized = errors.New("handler dependency not initialized")
	ErrBadRequest     = errors.New("malformed request")
	ErrMismatchedHash = errors.New("mismatched hash")
)

// Handler реализует обработчики HTTP-запросов к дереву файлов.
type Handler struct {
	fReader   FileReader                   // Чтение дерева.
	fWriter   FileWriter                   // Изменение дерева.
	modes     ModeChanger                  // Изменение прав доступа.
	stats     FSStatReader                 // Сведения о хранилище.
	dbHandler storage.BlockDatabaseHandler // Проверка соединения с БД, может быть nil.
	build     *buildinfo.BuildInfo

	hashKey       string // Ключ для проверки/генерации HMAC.
	trustedSubnet string // Подсеть, из которой разрешены изменяющие запросы.
}

// NewHandler создает новый экземпляр Handler и инициализирует зависимости.
func NewHandler(fReader FileReader,
	fWriter FileWriter,
	modes ModeChanger,
	stats FSStatReader,
	dbHandler storage.BlockDatabaseHandler,
	build *buildinfo.BuildInfo,
	hashKey string,
	trustedSubnet string) *Handler {
	return &Handler{
		fReader:       fReader,
		fWriter:       fWriter,
		modes:         modes,
		stats:         stats,
		dbHandler:     dbHandler,
		build:         build,
		hashKey:       hashKey,
		trustedSubnet: trustedSubnet,
	}
}

// statusFor сопоставляет ошибку с HTTP-статусом.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, modeexpr.ErrMalformedModeExpression),
		errors.Is(err, models.ErrInvalidMode),
		errors.Is(err, mfs.ErrInvalidPath),
		errors.Is(err, mfs.ErrNotDir),
		errors.Is(err, mfs.ErrIsDir):
		return http.StatusBadRequest
	case errors.Is(err, mfs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, chmod.ErrTraversalConflict),
		errors.Is(err, mfs.ErrExist):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(rw http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	logger.FromContext(r.Context()).Info("request failed", zap.Int("code", code), zap.Error(err))
	writeJSON(rw, code, ErrorResponse{
		Code:    code,
		Message: http.StatusText(code),
		Details: err.Error(),
	})
}

func writeJSON(rw http.ResponseWriter, code int, v any) {
	resp, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error("can not marshal response", zap.Error(err))
		http.Error(rw, "internal server error", http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)
	if _, err := rw.Write(resp); err != nil {
		logger.Log.Debug("can not write response", zap.Error(err))
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

func requirePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: path is required", ErrBadRequest)
	}
	return nil
}

func rootResponse(root mfs.Root, flushed bool) models.RootResponse {
	return models.RootResponse{Root: root.CID.String(), Version: root.Version, Pending: !flushed}
}

func modeOption(spec *models.ModeSpec) (*models.Mode, error) {
	if spec == nil {
		return nil, nil
	}
	m, err := spec.OctalMode()
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ChmodHandler изменяет права доступа записи или поддерева.
//
// Тело запроса: models.ChmodRequest, mode — строка ("0755", "a+X") или число.
//
// Возвращает:
//
//   - 200 OK: models.RootResponse с новым корнем.
//   - 400 Bad Request: некорректное выражение прав или путь.
//   - 404 Not Found: запись не найдена.
//   - 409 Conflict: поддерево не удалось обойти целиком, ничего не изменено.
func (h *Handler) ChmodHandler(rw http.ResponseWriter, r *http.Request) {
	if h.modes == nil {
		writeError(rw, r, ErrNotInitialized)
		return
	}
	var req models.ChmodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(rw, r, err)
		return
	}
	if err := requirePath(req.Path); err != nil {
		writeError(rw, r, err)
		return
	}

	opts := chmod.Options{Recursive: req.Recursive, Flush: req.Flush}
	var (
		root mfs.Root
		err  error
	)
	if req.Mode.IsNumeric() {
		root, err = h.modes.ChmodMode(r.Context(), req.Path, *req.Mode.Numeric, opts)
	} else {
		root, err = h.modes.Chmod(r.Context(), req.Path, req.Mode.Text, opts)
	}
	if err != nil {
		writeError(rw, r, err)
		return
	}
	writeJSON(rw, http.StatusOK, rootResponse(root, req.Flush))
}

// MkdirHandler создает каталог.
//
// Возвращает:
//
//   - 200 OK: models.RootResponse.
//   - 404 Not Found: нет родительского каталога и parents не задан.
//   - 409 Conflict: запись уже существует.
func (h *Handler) MkdirHandler(rw http.ResponseWriter, r *http.Request) {
	if h.fWriter == nil {
		writeError(rw, r, ErrNotInitialized)
		return
	}
	var req models.MkdirRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(rw, r, err)
		return
	}
	if err := requirePath(req.Path); err != nil {
		writeError(rw, r, err)
		return
	}
	mode, err := modeOption(req.Mode)
	if err != nil {
		writeError(rw, r, err)
		return
	}
	root, err := h.fWriter.Mkdir(r.Context(), req.Path, mfs.MkdirOptions{
		Parents: req.Parents,
		Mode:    mode,
		MTime:   req.ModTime(),
		Flush:   req.Flush,
	})
	if err != nil {
		writeError(rw, r, err)
		return
	}
	writeJSON(rw, http.StatusOK, rootResponse(root, req.Flush))
}

// WriteHandler заменяет содержимое файла.
func (h *Handler) WriteHandler(rw http.ResponseWriter, r *http.Request) {
	if h.fWriter == nil {
		writeError(rw, r, ErrNotInitialized)
		return
	}
	var req models.WriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(rw, r, err)
		return
	}
	if err := requirePath(req.Path); err != nil {
		writeError(rw, r, err)
		return
	}
	mode, err := modeOption(req.Mode)
	if err != nil {
		writeError(rw, r, err)
		return
	}
	if req.ShardSplitThreshold != nil && *req.ShardSplitThreshold < 0 {
		writeError(rw, r, fmt.Errorf("%w: negative shard_split_threshold", ErrBadRequest))
		return
	}
	root, err := h.fWriter.Write(r.Context(), req.Path, req.Data, mfs.WriteOptions{
		Create:              req.Create,
		Mode:                mode,
		MTime:               req.ModTime(),
		Flush:               req.Flush,
		ShardSplitThreshold: req.ShardSplitThreshold,
	})
	if err != nil {
		writeError(rw, r, err)
		return
	}
	writeJSON(rw, http.StatusOK, rootResponse(root, req.Flush))
}

// TouchHandler создает пустой файл или обновляет mtime.
func (h *Handler) TouchHandler(rw http.ResponseWriter, r *http.Request) {
	if h.fWriter == nil {
		writeError(rw, r, ErrNotInitialized)
		return
	}
	var req models.TouchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(rw, r, err)
		return
	}
	if err := requirePath(req.Path); err != nil {
		writeError(rw, r, err)
		return
	}
	root, err := h.fWriter.Touch(r.Context(), req.Path, mfs.TouchOptions{MTime: req.ModTime(), Flush: req.Flush})
	if err != nil {
		writeError(rw, r, err)
		return
	}
	writeJSON(rw, http.StatusOK, rootResponse(root, req.Flush))
}

// FlushHandler сохраняет отложенный корень.
func (h *Handler) FlushHandler(rw http.ResponseWriter, r *http.Request) {
	if h.fWriter == nil {
		writeError(rw, r, ErrNotInitialized)
		return
	}
	root, err := h.fWriter.Flush(r.Context())
	if err != nil {
		writeError(rw, r, err)
		return
	}
	writeJSON(rw, http.StatusOK, rootResponse(root, true))
}

// StatHandler возвращает models.Stat записи ?path=.
func (h *Handler) StatHandler(rw http.ResponseWriter, r *http.Request) {
	if h.fReader == nil {
		writeError(rw, r, ErrNotInitialized)
		return
	}
	path := r.URL.Query().Get("path")
	if err := requirePath(path); err != nil {
		writeError(rw, r, err)
		return
	}
	st, err := h.fReader.Stat(r.Context(), path)
	if err != nil {
		writeError(rw, r, err)
		return
	}
	writeJSON(rw, http.StatusOK, st)
}

// LsHandler возвращает содержимое каталога ?path=, упорядоченное по имени.
func (h *Handler) LsHandler(rw http.ResponseWriter, r *http.Request) {
	if h.fReader == nil {
		writeError(rw, r, ErrNotInitialized)
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}
	entries, err := h.fReader.Ls(r.Context(), path)
	if err != nil {
		writeError(rw, r, err)
		return
	}
	if entries == nil {
		entries = []models.DirEntry{}
	}
	writeJSON(rw, http.StatusOK, entries)
}

// ReadHandler возвращает содержимое файла ?path= в base64.
func (h *Handler) ReadHandler(rw http.ResponseWriter, r *http.Request) {
	if h.fReader == nil {
		writeError(rw, r, ErrNotInitialized)
		return
	}
	path := r.URL.Query().Get("path")
	if err := requirePath(path); err != nil {
		writeError(rw, r, err)
		return
	}
	data, err := h.fReader.Read(r.Context(), path)
	if err != nil {
		writeError(rw, r, err)
		return
	}
	writeJSON(rw, http.StatusOK, models.ReadResponse{Path: path, Data: data})
}

// StatFSHandler возвращает сведения о корне, хранилище и диске.
func (h *Handler) StatFSHandler(rw http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		writeError(rw, r, ErrNotInitialized)
		return
	}
	st, err := h.stats.StatFS(r.Context())
	if err != nil {
		writeError(rw, r, err)
		return
	}
	writeJSON(rw, http.StatusOK, st)
}

// PingHandler проверяет доступность хранилища. Для хранилищ без базы
// данных всегда возвращает 200.
func (h *Handler) PingHandler(rw http.ResponseWriter, r *http.Request) {
	if h.dbHandler != nil {
		if err := h.dbHandler.CheckConnection(); err != nil {
			logger.Log.Info("database is not accessible", zap.Error(err))
			writeError(rw, r, err)
			return
		}
	}
	rw.Header().Set("Content-Type", "text/plain")
	rw.WriteHeader(http.StatusOK)
	_, _ = rw.Write([]byte("OK"))
}

// VersionHandler возвращает сведения о сборке.
func (h *Handler) VersionHandler(rw http.ResponseWriter, r *http.Request) {
	if h.build == nil {
		writeError(rw, r, ErrNotInitialized)
		return
	}
	writeJSON(rw, http.StatusOK, h.build)
}
