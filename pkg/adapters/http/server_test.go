package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/scorm"
	"github.com/aretw0/scorm/pkg/adapters/memory"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/registry"
	"github.com/aretw0/scorm/pkg/session"
	"github.com/aretw0/scorm/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer hosts sessions whose commits are posted back to the same server.
func newTestServer(t *testing.T, format domain.PayloadFormat) (*httptest.Server, *memory.Store) {
	t.Helper()
	var handler http.Handler
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	settings := scorm.DefaultSettings()
	settings.CommitDestination = ts.URL + "/commits"
	settings.CommitPayloadFormat = string(format)

	store := memory.NewStore()
	mgr := session.NewManager(registry.Default(), session.WithSessionOptions(
		scorm.WithSettings(settings),
		scorm.WithTransport(transport.NewHTTP()),
	))
	handler = NewHandler(mgr, WithCommitStore(store))
	return ts, store
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func call(t *testing.T, base, id, method string, args ...string) session.CallResult {
	t.Helper()
	resp := doJSON(t, http.MethodPost, base+"/sessions/"+id+"/calls", CallRequest{Method: method, Args: args})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res session.CallResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestServer_SessionLifecycle(t *testing.T) {
	ts, store := newTestServer(t, domain.FormatJSON)

	resp := doJSON(t, http.MethodPost, ts.URL+"/sessions", CreateSessionRequest{
		Variant:   "scorm12",
		SessionID: "learner-1",
		Data:      map[string]any{"core": map[string]any{"student_name": "Doe, Jane"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "learner-1", created.SessionID)
	assert.Contains(t, created.Methods, "LMSSetValue")

	assert.Equal(t, session.CallResult{Result: "true", ErrorCode: "0"}, call(t, ts.URL, "learner-1", "LMSInitialize", ""))
	assert.Equal(t, "Doe, Jane", call(t, ts.URL, "learner-1", "LMSGetValue", "cmi.core.student_name").Result)
	assert.Equal(t, session.CallResult{Result: "false", ErrorCode: "403"},
		call(t, ts.URL, "learner-1", "LMSSetValue", "cmi.core.student_name", "x"))
	assert.Equal(t, "true", call(t, ts.URL, "learner-1", "LMSSetValue", "cmi.core.lesson_status", "passed").Result)
	assert.Equal(t, session.CallResult{Result: "true", ErrorCode: "0"}, call(t, ts.URL, "learner-1", "LMSCommit", ""))

	rec, err := store.Load(context.Background(), "learner-1")
	require.NoError(t, err)
	assert.Equal(t, "scorm12", rec.Variant)
	assert.False(t, rec.Terminated)
	assert.Contains(t, string(rec.Body), `"lesson_status":"passed"`)

	resp = doJSON(t, http.MethodGet, ts.URL+"/sessions/learner-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, domain.StateInitialized.String(), got.State)
	assert.NotNil(t, got.Data["cmi"])

	resp = doJSON(t, http.MethodDelete, ts.URL+"/sessions/learner-1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	rec, err = store.Load(context.Background(), "learner-1")
	require.NoError(t, err)
	assert.True(t, rec.Terminated)

	resp = doJSON(t, http.MethodGet, ts.URL+"/sessions/learner-1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_BadRequests(t *testing.T) {
	ts, _ := newTestServer(t, domain.FormatJSON)

	resp := doJSON(t, http.MethodPost, ts.URL+"/sessions", CreateSessionRequest{Variant: "scorm3000"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/sessions/missing/calls", CallRequest{Method: "LMSInitialize", Args: []string{""}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/sessions", CreateSessionRequest{Variant: "scorm2004", SessionID: "s"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/sessions/s/calls", CallRequest{Method: "LMSInitialize", Args: []string{""}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/sessions/s/calls", CallRequest{Method: "SetValue", Args: []string{"cmi.location"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ParamsCommit(t *testing.T) {
	ts, store := newTestServer(t, domain.FormatParams)

	resp := doJSON(t, http.MethodPost, ts.URL+"/sessions", CreateSessionRequest{Variant: "scorm2004", SessionID: "s2004"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	call(t, ts.URL, "s2004", "Initialize", "")
	assert.Equal(t, "true", call(t, ts.URL, "s2004", "SetValue", "cmi.location", "page 3&4").Result)
	assert.Equal(t, session.CallResult{Result: "true", ErrorCode: "0"}, call(t, ts.URL, "s2004", "Terminate", ""))

	rec, err := store.Load(context.Background(), "s2004")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatParams, rec.Format)
	assert.True(t, rec.Terminated)
	var tokens []string
	require.NoError(t, json.Unmarshal(rec.Body, &tokens))
	assert.Contains(t, tokens, "cmi.location=page 3&4")

	resp = doJSON(t, http.MethodGet, ts.URL+"/commits", nil)
	var ids []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ids))
	assert.Equal(t, []string{"s2004"}, ids)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/commits/s2004", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, http.MethodGet, ts.URL+"/commits/s2004", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ReceiveCommitRejects(t *testing.T) {
	ts, _ := newTestServer(t, domain.FormatJSON)

	resp, err := http.Post(ts.URL+"/commits", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var r receipt
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	assert.Equal(t, receipt{Result: "false", ErrorCode: "101"}, r)

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/commits", strings.NewReader(`not json`))
	req.Header.Set(transport.HeaderSession, "s")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestServer_PreviewCommit(t *testing.T) {
	ts, _ := newTestServer(t, domain.FormatFlattened)

	doJSON(t, http.MethodPost, ts.URL+"/sessions", CreateSessionRequest{Variant: "scorm12", SessionID: "p"})
	call(t, ts.URL, "p", "LMSInitialize", "")
	call(t, ts.URL, "p", "LMSSetValue", "cmi.core.lesson_location", "intro")

	resp := doJSON(t, http.MethodGet, ts.URL+"/sessions/p/commit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var flat map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&flat))
	assert.Equal(t, "intro", flat["cmi.core.lesson_location"])
}

func TestSubscribeEvents_Session(t *testing.T) {
	ts, _ := newTestServer(t, domain.FormatJSON)
	doJSON(t, http.MethodPost, ts.URL+"/sessions", CreateSessionRequest{Variant: "scorm12", SessionID: "sse"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sessions/sse/events?watch=SetValue", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	call(t, ts.URL, "sse", "LMSInitialize", "")
	call(t, ts.URL, "sse", "LMSSetValue", "cmi.core.lesson_status", "passed")

	var data string
	for lines.Scan() {
		if strings.HasPrefix(lines.Text(), "data: {") {
			data = strings.TrimPrefix(lines.Text(), "data: ")
			break
		}
	}
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	assert.Equal(t, Event{Operation: domain.OpSetValue, Element: "cmi.core.lesson_status", Value: "passed"}, ev)
}

func TestServer_Info(t *testing.T) {
	ts, _ := newTestServer(t, domain.FormatJSON)

	resp := doJSON(t, http.MethodGet, ts.URL+"/info", nil)
	var info map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, "scorm-http", info["app"])
	assert.Equal(t, strings.TrimSpace(scorm.Version), info["version"])
	assert.Equal(t, true, info["commits"])
}

func TestParseParams(t *testing.T) {
	tokens, err := parseParams("b=2&a=x%26y&c=")
	require.NoError(t, err)
	assert.Equal(t, []string{"b=2", "a=x&y", "c="}, tokens)

	_, err = parseParams("a=%zz")
	assert.Error(t, err)
}
