package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Fuonder/dagfs.git/internal/buildinfo"
	"github.com/Fuonder/dagfs.git/internal/chmod"
	"github.com/Fuonder/dagfs.git/internal/mfs"
	"github.com/Fuonder/dagfs.git/internal/modeexpr"
	"github.com/Fuonder/dagfs.git/internal/models"
	"github.com/Fuonder/dagfs.git/internal/server/mocks"
	"github.com/Fuonder/dagfs.git/internal/statfs"
	"github.com/Fuonder/dagfs.git/internal/storage"
	storagemocks "github.com/Fuonder/dagfs.git/internal/storage/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	fs    *mfs.FS
	store *storage.MemStorage
}

func newTestServer(t *testing.T, key, subnet string) *testServer {
	t.Helper()
	st, err := storage.NewMemStorage()
	require.NoError(t, err)
	fs, err := mfs.New(context.Background(), st, mfs.Options{})
	require.NoError(t, err)

	build := buildinfo.NewBuildInfo("v0.1.0", "abc1234", "2024-01-01T12:00:00Z", nil)
	h := NewHandler(fs, fs, chmod.New(chmod.FromFS(fs)), statfs.NewCollector(fs, t.TempDir()), nil, build, key, subnet)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, fs: fs, store: st}
}

func (ts *testServer) post(t *testing.T, path string, body any) (int, []byte) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := ts.Client().Post(ts.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (ts *testServer) get(t *testing.T, path string) (int, []byte) {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (ts *testServer) stat(t *testing.T, path string) models.Stat {
	t.Helper()
	code, body := ts.get(t, "/files/stat?path="+path)
	require.Equal(t, http.StatusOK, code, string(body))
	var st models.Stat
	require.NoError(t, json.Unmarshal(body, &st))
	return st
}

func TestRouter_RecursiveChmod(t *testing.T) {
	ts := newTestServer(t, "", "")

	code, body := ts.post(t, "/files/mkdir", map[string]any{"path": "/dir/sub", "parents": true})
	require.Equal(t, http.StatusOK, code, string(body))
	code, body = ts.post(t, "/files/write", map[string]any{
		"path": "/dir/file", "data": []byte("hello"), "create": true, "mode": "0644",
	})
	require.Equal(t, http.StatusOK, code, string(body))

	code, body = ts.post(t, "/files/chmod", map[string]any{"path": "/dir", "mode": "u+X", "recursive": true, "flush": true})
	require.Equal(t, http.StatusOK, code, string(body))

	var root models.RootResponse
	require.NoError(t, json.Unmarshal(body, &root))
	assert.False(t, root.Pending)
	assert.Equal(t, ts.fs.Root().CID.String(), root.Root)

	saved, err := ts.store.LoadRoot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, root.Root, saved.String())

	assert.Equal(t, models.Mode(0755), ts.stat(t, "/dir").Mode)
	assert.Equal(t, models.Mode(0755), ts.stat(t, "/dir/sub").Mode)
	assert.Equal(t, models.Mode(0644), ts.stat(t, "/dir/file").Mode)
}

func TestRouter_NumericChmodAndRead(t *testing.T) {
	ts := newTestServer(t, "", "")

	code, body := ts.post(t, "/files/write", map[string]any{"path": "/f", "data": []byte("data"), "create": true})
	require.Equal(t, http.StatusOK, code, string(body))

	code, body = ts.post(t, "/files/chmod", map[string]any{"path": "/f", "mode": 0o4711})
	require.Equal(t, http.StatusOK, code, string(body))
	var root models.RootResponse
	require.NoError(t, json.Unmarshal(body, &root))
	assert.True(t, root.Pending)
	assert.True(t, ts.fs.Pending())

	assert.Equal(t, models.Mode(0o4711), ts.stat(t, "/f").Mode)

	code, body = ts.get(t, "/files/read?path=/f")
	require.Equal(t, http.StatusOK, code, string(body))
	var rd models.ReadResponse
	require.NoError(t, json.Unmarshal(body, &rd))
	assert.Equal(t, []byte("data"), rd.Data)

	code, body = ts.post(t, "/files/flush", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.False(t, ts.fs.Pending())
}

func TestRouter_LsAndTouch(t *testing.T) {
	ts := newTestServer(t, "", "")

	for _, name := range []string{"/c", "/a", "/b"} {
		code, body := ts.post(t, "/files/touch", map[string]any{"path": name})
		require.Equal(t, http.StatusOK, code, string(body))
	}

	code, body := ts.get(t, "/files/ls")
	require.Equal(t, http.StatusOK, code, string(body))
	var entries []models.DirEntry
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].Name)
	assert.Equal(t, "b", entries[1].Name)
	assert.Equal(t, "c", entries[2].Name)
	assert.Equal(t, models.KindFile, entries[0].Type)

	code, body = ts.post(t, "/files/mkdir", map[string]any{"path": "/empty"})
	require.Equal(t, http.StatusOK, code, string(body))
	code, body = ts.get(t, "/files/ls?path=/empty")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))
}

func TestRouter_Errors(t *testing.T) {
	ts := newTestServer(t, "", "")
	code, body := ts.post(t, "/files/write", map[string]any{"path": "/f", "data": []byte("x"), "create": true})
	require.Equal(t, http.StatusOK, code, string(body))
	before := ts.fs.Root()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{"malformed expression", http.MethodPost, "/files/chmod", `{"path":"/f","mode":"u+q"}`, http.StatusBadRequest},
		{"mode out of range", http.MethodPost, "/files/chmod", `{"path":"/f","mode":8192}`, http.StatusBadRequest},
		{"missing entry", http.MethodPost, "/files/chmod", `{"path":"/nope","mode":"0755"}`, http.StatusNotFound},
		{"missing path", http.MethodPost, "/files/chmod", `{"mode":"0755"}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/files/chmod", `{"path":"/f","mode":"0755","bogus":1}`, http.StatusBadRequest},
		{"broken json", http.MethodPost, "/files/mkdir", `{"path":`, http.StatusBadRequest},
		{"mkdir exists", http.MethodPost, "/files/mkdir", `{"path":"/f"}`, http.StatusConflict},
		{"mkdir no parent", http.MethodPost, "/files/mkdir", `{"path":"/x/y"}`, http.StatusNotFound},
		{"mkdir symbolic mode", http.MethodPost, "/files/mkdir", `{"path":"/d","mode":"a+x"}`, http.StatusBadRequest},
		{"write under file", http.MethodPost, "/files/write", `{"path":"/f/g","data":"","create":true}`, http.StatusBadRequest},
		{"write without create", http.MethodPost, "/files/write", `{"path":"/g","data":""}`, http.StatusNotFound},
		{"negative threshold", http.MethodPost, "/files/write", `{"path":"/g","data":"","create":true,"shard_split_threshold":-1}`, http.StatusBadRequest},
		{"read directory", http.MethodGet, "/files/read?path=/", "", http.StatusBadRequest},
		{"stat relative path", http.MethodGet, "/files/stat?path=f", "", http.StatusBadRequest},
		{"stat without path", http.MethodGet, "/files/stat", "", http.StatusBadRequest},
		{"ls file", http.MethodGet, "/files/ls?path=/f", "", http.StatusBadRequest},
		{"wrong method", http.MethodPut, "/files/chmod", `{}`, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")
			resp, err := ts.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.code, resp.StatusCode)
			if tt.code != http.StatusMethodNotAllowed {
				var er ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&er))
				assert.Equal(t, tt.code, er.Code)
				assert.NotEmpty(t, er.Details)
			}
			assert.Equal(t, before, ts.fs.Root())
		})
	}
}

func TestRouter_Hashing(t *testing.T) {
	const key = "secret"
	ts := newTestServer(t, key, "")

	payload := []byte(`{"path":"/f","data":"","create":true}`)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/files/write", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HashHeader, CalculateHMAC(payload, "wrong"))
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err = http.NewRequest(http.MethodPost, ts.URL+"/files/write", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HashHeader, CalculateHMAC(payload, key))
	resp, err = ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, CalculateHMAC(body, key), resp.Header.Get(HashHeader))
}

func TestRouter_TrustedSubnet(t *testing.T) {
	ts := newTestServer(t, "", "10.0.0.0/8")

	send := func(ip string) int {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/files/touch", strings.NewReader(`{"path":"/t"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		if ip != "" {
			req.Header.Set("X-Real-IP", ip)
		}
		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusBadRequest, send(""))
	assert.Equal(t, http.StatusForbidden, send("192.168.0.1"))
	assert.Equal(t, http.StatusOK, send("10.1.2.3"))

	code, _ := ts.get(t, "/files/stat?path=/t")
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_VersionAndStatFS(t *testing.T) {
	ts := newTestServer(t, "", "")

	code, body := ts.get(t, "/version")
	require.Equal(t, http.StatusOK, code)
	var build buildinfo.BuildInfo
	require.NoError(t, json.Unmarshal(body, &build))
	assert.Equal(t, "v0.1.0", build.BuildVersion)
	assert.Equal(t, "abc1234", build.BuildCommit)

	code, body = ts.get(t, "/statfs")
	require.Equal(t, http.StatusOK, code, string(body))
	var st models.FSStat
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, ts.fs.Root().CID.String(), st.Root)
	assert.Equal(t, 1, st.Blocks)

	code, body = ts.get(t, "/ping")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", string(body))
}

func TestHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"traversal conflict", fmt.Errorf("%w: /a: %w", chmod.ErrTraversalConflict, storage.ErrBlockNotFound), http.StatusConflict},
		{"not found", &mfs.FSError{Op: "chmod", Path: "/a", Err: mfs.ErrNotFound}, http.StatusNotFound},
		{"malformed", &modeexpr.ParseError{Index: 0, Clause: "u+q", Reason: "unknown permission"}, http.StatusBadRequest},
		{"storage failure", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			modes := mocks.NewMockModeChanger(ctrl)
			modes.EXPECT().
				Chmod(gomock.Any(), "/a", "a+X", chmod.Options{Recursive: true}).
				Return(mfs.Root{}, tt.err)

			h := NewHandler(nil, nil, modes, nil, nil, nil, "", "")
			req := httptest.NewRequest(http.MethodPost, "/files/chmod",
				strings.NewReader(`{"path":"/a","mode":"a+X","recursive":true}`))
			rr := httptest.NewRecorder()
			h.ChmodHandler(rr, req)

			assert.Equal(t, tt.code, rr.Code)
			var er ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &er))
			assert.Equal(t, tt.code, er.Code)
			assert.Equal(t, http.StatusText(tt.code), er.Message)
		})
	}
}

func TestHandler_MockedTree(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := mocks.NewMockFileReader(ctrl)
	writer := mocks.NewMockFileWriter(ctrl)
	stats := mocks.NewMockFSStatReader(ctrl)
	h := NewHandler(reader, writer, nil, stats, nil, nil, "", "")

	reader.EXPECT().Stat(gomock.Any(), "/a").Return(models.Stat{CID: "sha256-aa", Type: models.KindFile, Mode: 0600}, nil)
	writer.EXPECT().Flush(gomock.Any()).Return(mfs.Root{Version: 7}, nil)
	stats.EXPECT().StatFS(gomock.Any()).Return(models.FSStat{}, errors.New("boom"))

	rr := httptest.NewRecorder()
	h.StatHandler(rr, httptest.NewRequest(http.MethodGet, "/files/stat?path=/a", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"cid":"sha256-aa","type":"file","mode":384,"mtime":"0001-01-01T00:00:00Z","size":0,"blocks":0}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.FlushHandler(rr, httptest.NewRequest(http.MethodPost, "/files/flush", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var root models.RootResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &root))
	assert.Equal(t, uint64(7), root.Version)
	assert.False(t, root.Pending)

	rr = httptest.NewRecorder()
	h.StatFSHandler(rr, httptest.NewRequest(http.MethodGet, "/statfs", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = httptest.NewRecorder()
	h.ChmodHandler(rr, httptest.NewRequest(http.MethodPost, "/files/chmod", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandler_Ping(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := storagemocks.NewMockBlockDatabaseHandler(ctrl)
	gomock.InOrder(
		db.EXPECT().CheckConnection().Return(nil),
		db.EXPECT().CheckConnection().Return(errors.New("connection refused")),
	)
	h := NewHandler(nil, nil, nil, nil, db, nil, "", "")

	rr := httptest.NewRecorder()
	h.PingHandler(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.PingHandler(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
