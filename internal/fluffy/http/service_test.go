package http

import (
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sjzar/fluffy/internal/fluffy/conf"
	"github.com/sjzar/fluffy/internal/fluffy/ctx"
	"github.com/sjzar/fluffy/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *ctx.Context) {
	t.Helper()
	c := ctx.New(&conf.TUIConfig{DLLs: []string{"/lib/a.dll"}, AutoRefresh: true}, nil)
	return NewService(c, c), c
}

func get(t *testing.T, s *Service, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _ := newTestService(t)
	w := get(t, s, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestProcessesNotReady(t *testing.T) {
	s, _ := newTestService(t)
	w := get(t, s, "/api/v1/process", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProcesses(t *testing.T) {
	s, c := newTestService(t)
	c.ApplySnapshot([]model.Process{
		{Name: "demo.exe", PID: 4242, ExePath: `C:\demo\demo.exe`},
		{Name: "other.exe", PID: 7, ExePath: `C:\other.exe`},
	})
	c.ApplyIcon(4242, mustIcon(t, 1, 1, []byte{1, 2, 3, 255}))

	w := get(t, s, "/api/v1/process?keyword=DEMO", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items []struct {
			Name    string `json:"name"`
			PID     uint32 `json:"pid"`
			ExePath string `json:"exe_path"`
			HasIcon bool   `json:"has_icon"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "demo.exe", body.Items[0].Name)
	assert.Equal(t, uint32(4242), body.Items[0].PID)
	assert.True(t, body.Items[0].HasIcon)

	w = get(t, s, "/api/v1/process?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Name,PID,ExePath\ndemo.exe,4242,C:\\demo\\demo.exe\nother.exe,7,C:\\other.exe\n", w.Body.String())
}

func TestProcessesCSVQuoting(t *testing.T) {
	s, c := newTestService(t)
	c.ApplySnapshot([]model.Process{
		{Name: `say "hi".exe`, PID: 5, ExePath: `C:\a,b\say.exe`},
	})

	w := get(t, s, "/api/v1/process?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Name,PID,ExePath\n\"say \"\"hi\"\".exe\",5,\"C:\\a,b\\say.exe\"\n", w.Body.String())

	rows, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{`say "hi".exe`, "5", `C:\a,b\say.exe`}, rows[1])
}

func TestProcessByPID(t *testing.T) {
	s, c := newTestService(t)
	c.ApplySnapshot([]model.Process{{Name: "demo.exe", PID: 4242}})

	w := get(t, s, "/api/v1/process/4242", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"has_icon":false`)

	w = get(t, s, "/api/v1/process/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(t, s, "/api/v1/process/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(t, s, "/api/v1/process/4294967296", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIcon(t *testing.T) {
	s, c := newTestService(t)
	c.ApplySnapshot([]model.Process{{Name: "demo.exe", PID: 4242, ExePath: "/p/demo.exe"}})

	w := get(t, s, "/api/v1/icon/4242", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	pixels := []byte{
		255, 0, 0, 255, 0, 255, 0, 128,
		0, 0, 255, 0, 10, 20, 30, 255,
	}
	c.ApplyIcon(4242, mustIcon(t, 2, 2, pixels))

	w = get(t, s, "/api/v1/icon/4242", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	r, g, b, a := img.At(0, 0).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
	_, _, _, a = img.At(0, 1).RGBA()
	assert.Equal(t, uint32(0), a)

	w = get(t, s, "/api/v1/icon/4242", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestIconETagDependsOnContent(t *testing.T) {
	a := mustIcon(t, 1, 2, make([]byte, 8))
	b := mustIcon(t, 2, 1, make([]byte, 8))
	c := mustIcon(t, 1, 2, []byte{0, 0, 0, 0, 0, 0, 0, 1})

	assert.Equal(t, iconETag(a), iconETag(mustIcon(t, 1, 2, make([]byte, 8))))
	assert.NotEqual(t, iconETag(a), iconETag(b))
	assert.NotEqual(t, iconETag(a), iconETag(c))
}

func TestLibraries(t *testing.T) {
	s, c := newTestService(t)
	require.NoError(t, c.SelectLibrary(0))

	w := get(t, s, "/api/v1/library", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[{"path":"/lib/a.dll","selected":true,"missing":false}],"total":1}`, w.Body.String())
}

func TestNoRouteAndReadOnly(t *testing.T) {
	s, _ := newTestService(t)

	w := get(t, s, "/api/v1/inject", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/library", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGzip(t *testing.T) {
	s, c := newTestService(t)
	var list []model.Process
	for i := 0; i < 200; i++ {
		list = append(list, model.Process{
			Name:    fmt.Sprintf("worker-%03d.exe", i),
			PID:     uint32(1000 + i),
			ExePath: fmt.Sprintf(`C:\Program Files\Vendor\Product\bin\worker-%03d.exe`, i),
		})
	}
	c.ApplySnapshot(list)

	w := get(t, s, "/api/v1/process", map[string]string{"Accept-Encoding": "gzip"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "worker-199.exe")
}

func TestStartStop(t *testing.T) {
	c := ctx.New(&conf.TUIConfig{HTTPAddr: "127.0.0.1:0"}, nil)
	s := NewService(c, c)

	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}

func mustIcon(t *testing.T, w, h uint32, pixels []byte) *model.Icon {
	t.Helper()
	icon, err := model.NewIcon(w, h, pixels)
	require.NoError(t, err)
	return icon
}
