package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/townsquare-server/internal/config"
	"github.com/vovakirdan/townsquare-server/internal/core"
	"github.com/vovakirdan/townsquare-server/internal/store/sqlite"
)

// fakeVideoEngine keeps transport tests independent of any media provider.
type fakeVideoEngine struct {
	err error
}

func (f *fakeVideoEngine) Mint(_ context.Context, _, participantID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "video-" + participantID, nil
}

type testEnv struct {
	ts       *httptest.Server
	registry *core.TownRegistry
	video    *fakeVideoEngine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	video := &fakeVideoEngine{}
	registry := core.NewTownRegistry(video, core.DefaultChatRules(0, nil))

	logger := zerolog.Nop()
	cfg := config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}

	server := NewServer(registry, st, &cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, registry: registry, video: video}
}

// doJSON performs a request with an optional bearer token and JSON body, and
// decodes the JSON response into out when out is non-nil.
func (e *testEnv) doJSON(t *testing.T, method, path, bearer string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := stdhttp.NewRequest(method, e.ts.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := e.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (e *testEnv) createTown(t *testing.T, friendlyName string, public bool) CreateTownResponse {
	t.Helper()
	var created CreateTownResponse
	status := e.doJSON(t, stdhttp.MethodPost, "/api/towns", "", CreateTownRequest{
		FriendlyName:     friendlyName,
		IsPubliclyListed: public,
	}, &created)
	if status != stdhttp.StatusCreated {
		t.Fatalf("create town status = %d", status)
	}
	return created
}

func (e *testEnv) joinTown(t *testing.T, townID, userName string) JoinTownResponse {
	t.Helper()
	var joined JoinTownResponse
	status := e.doJSON(t, stdhttp.MethodPost, "/api/towns/"+townID+"/join", "", JoinTownRequest{UserName: userName}, &joined)
	if status != stdhttp.StatusOK {
		t.Fatalf("join town status = %d", status)
	}
	return joined
}
