package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukkan78/film-simulator/internal/adjust"
	"github.com/lukkan78/film-simulator/internal/config"
	diag "github.com/lukkan78/film-simulator/internal/diagnostics"
	"github.com/lukkan78/film-simulator/internal/frame"
	"github.com/lukkan78/film-simulator/internal/imageio"
	"github.com/lukkan78/film-simulator/internal/pipeline"
)

func newTestServer(t *testing.T) (*State, *httptest.Server) {
	t.Helper()
	st := NewState(Options{
		Processor: pipeline.New(pipeline.Options{Seed: 1}),
		Preview:   config.PreviewCfg{MaxDim: 16, Format: "png"},
	})
	srv := httptest.NewServer(st.Handler())
	t.Cleanup(srv.Close)
	return st, srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v), string(data))
}

func pngUpload(t *testing.T, w, h int, c color.NRGBA) string {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, imageio.Encode(&b, frame.Filled(w, h, c.R, c.G, c.B, c.A).Image(), imageio.PNG, 0))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b.Bytes())
}

func TestSessionUploadThenProcess(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv, "/session")

	require.NoError(t, conn.WriteJSON(inMsg{Type: "image", Data: pngUpload(t, 32, 8, color.NRGBA{128, 128, 128, 255})}))
	var img imageMsg
	readJSON(t, conn, &img)
	assert.Equal(t, imageMsg{Type: "image", Width: 16, Height: 4}, img)

	s := adjust.DefaultSettings()
	s.GrainIntensity = 0
	s.Contrast = 50
	require.NoError(t, conn.WriteJSON(inMsg{Type: "process", Profile: "original", Settings: &s}))

	var fr frameMsg
	readJSON(t, conn, &fr)
	require.Equal(t, "frame", fr.Type)
	assert.Equal(t, imageio.PNG, fr.Format)
	assert.Equal(t, "image/png", fr.MIME)
	assert.False(t, fr.Timings.FellBack)
	assert.Equal(t, "original", fr.Timings.Profile)

	raw, err := base64.StdEncoding.DecodeString(fr.Data)
	require.NoError(t, err)
	decoded, err := imageio.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	out := frame.FromImage(decoded)
	assert.Equal(t, 16, out.Width)
	assert.Equal(t, 4, out.Height)
	r, g, b, _ := out.At(3, 2)
	assert.Equal(t, [3]uint8{128, 128, 128}, [3]uint8{r, g, b})

	// The same request again is answered from the last result.
	require.NoError(t, conn.WriteJSON(inMsg{Type: "process", Profile: "original", Settings: &s}))
	var again frameMsg
	readJSON(t, conn, &again)
	assert.True(t, again.Reused)
	assert.Greater(t, again.Generation, fr.Generation)
}

func TestSessionErrors(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv, "/session")

	var e errorMsg
	require.NoError(t, conn.WriteJSON(inMsg{Type: "process", Profile: "original"}))
	readJSON(t, conn, &e)
	assert.Equal(t, diag.CodeBadMessage, e.Code)

	require.NoError(t, conn.WriteJSON(inMsg{Type: "image", Data: "!!!"}))
	readJSON(t, conn, &e)
	assert.Equal(t, diag.CodeImageDecode, e.Code)

	require.NoError(t, conn.WriteJSON(inMsg{Type: "image", Data: pngUpload(t, 2, 2, color.NRGBA{1, 2, 3, 255})}))
	var img imageMsg
	readJSON(t, conn, &img)

	require.NoError(t, conn.WriteJSON(inMsg{Type: "process", Profile: "holga"}))
	readJSON(t, conn, &e)
	assert.Equal(t, diag.CodeProfileUnknown, e.Code)

	require.NoError(t, conn.WriteJSON(inMsg{Type: "lut", Profile: "x", Data: "LUT_3D_SIZE 2\n"}))
	readJSON(t, conn, &e)
	assert.Equal(t, diag.CodeLUTInvalid, e.Code)

	require.NoError(t, conn.WriteJSON(inMsg{Type: "dance"}))
	readJSON(t, conn, &e)
	assert.Equal(t, diag.CodeBadMessage, e.Code)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	readJSON(t, conn, &e)
	assert.Equal(t, diag.CodeBadMessage, e.Code)
}

func TestClientSuppliedLUT(t *testing.T) {
	st, srv := newTestServer(t)
	conn := dial(t, srv, "/session")
	require.NoError(t, conn.WriteJSON(inMsg{Type: "lut", Profile: "portra400", Data: "LUT_3D_SIZE 1\n0 0 0\n"}))
	var ack ackMsg
	readJSON(t, conn, &ack)
	assert.Equal(t, ackMsg{Type: "lut", Profiles: []string{"portra400"}}, ack)
	assert.Equal(t, 1, st.proc.CachedLUTs())

	require.NoError(t, conn.WriteJSON(inMsg{Type: "image", Data: pngUpload(t, 2, 2, color.NRGBA{200, 200, 200, 255})}))
	var img imageMsg
	readJSON(t, conn, &img)
	s := adjust.Settings{Strength: 100}
	require.NoError(t, conn.WriteJSON(inMsg{Type: "process", Profile: "portra400", Settings: &s}))
	var fr frameMsg
	readJSON(t, conn, &fr)
	assert.True(t, fr.Timings.LUT)
	raw, _ := base64.StdEncoding.DecodeString(fr.Data)
	decoded, err := imageio.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	r, _, _, _ := frame.FromImage(decoded).At(0, 0)
	assert.Equal(t, uint8(0), r, "single-entry black LUT maps everything to black")
}

func TestDiagStreamAndHealth(t *testing.T) {
	_, srv := newTestServer(t)
	dc := dial(t, srv, "/diag")

	require.Eventually(t, func() bool {
		return health(t, srv)["diag_clients"] == float64(1)
	}, 5*time.Second, 10*time.Millisecond)

	conn := dial(t, srv, "/session")
	require.NoError(t, conn.WriteJSON(inMsg{Type: "image", Data: pngUpload(t, 2, 2, color.NRGBA{1, 2, 3, 255})}))

	var d diag.Diagnostic
	readJSON(t, dc, &d)
	assert.Equal(t, diag.CodeImageLoaded, d.Code)
	assert.Equal(t, diag.Info, d.Severity)

	h := health(t, srv)
	assert.Equal(t, float64(42), h["profiles"])
	assert.Equal(t, float64(1), h["sessions"])
}

func TestProfilesEndpoint(t *testing.T) {
	_, srv := newTestServer(t)

	var all struct {
		Categories []struct {
			ID       string            `json:"id"`
			Profiles []json.RawMessage `json:"profiles"`
		} `json:"categories"`
	}
	getJSON(t, srv.URL+"/profiles", &all)
	require.Len(t, all.Categories, 4)
	n := 0
	for _, c := range all.Categories {
		n += len(c.Profiles)
	}
	assert.Equal(t, 42, n)

	getJSON(t, srv.URL+"/profiles?category=bw", &all)
	require.Len(t, all.Categories, 1)
	assert.Len(t, all.Categories[0].Profiles, 12)

	resp, err := http.Get(srv.URL + "/profiles?category=disposable")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	_, srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/profiles", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func health(t *testing.T, srv *httptest.Server) map[string]any {
	t.Helper()
	var h map[string]any
	getJSON(t, srv.URL+"/health", &h)
	return h
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
