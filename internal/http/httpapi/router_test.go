package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"rescue/internal/adapter/boltstore"
	"rescue/internal/cases"
	"rescue/internal/domain"
	"rescue/internal/http/handlers"
	"rescue/internal/identity"
	"rescue/internal/storage"
	"rescue/internal/validation"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	store, err := boltstore.Open(filepath.Join(dir, "rescue.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	blobDir := filepath.Join(dir, "blobs")
	ts := httptest.NewUnstartedServer(nil)
	blobs, err := storage.NewFileStore(blobDir, "http://"+ts.Listener.Addr().String()+"/static")
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	v := validation.New()
	tokens, err := identity.NewTokens("router-test-secret")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	app := handlers.NewApp(
		cases.NewService(store, blobs, v, time.Minute, zerolog.Nop()),
		identity.NewService(store, tokens, v, time.Hour, zerolog.Nop()),
		v, zerolog.Nop(), 1<<20,
	)
	ts.Config.Handler = NewRouter(app, Options{
		Logger:         zerolog.Nop(),
		DefaultLocale:  "en",
		AllowedOrigins: []string{"*"},
		StaticDir:      blobDir,
	})
	ts.Start()
	t.Cleanup(ts.Close)
	return &testServer{Server: ts}
}

func (s *testServer) do(t *testing.T, method, path, token string, body io.Reader, contentType string, headers ...string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func (s *testServer) postJSON(t *testing.T, path, token string, v any) (*http.Response, []byte) {
	t.Helper()
	b, _ := json.Marshal(v)
	return s.do(t, http.MethodPost, path, token, bytes.NewReader(b), "application/json")
}

func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	resp, body := s.postJSON(t, "/v1/auth/register", "", map[string]string{"email": email, "password": "secret123"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d body=%s", resp.StatusCode, body)
	}
	var sess identity.Session
	if err := json.Unmarshal(body, &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return sess.Token
}

func reportForm(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("field: %v", err)
		}
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "dog photo.png")
		if err != nil {
			t.Fatalf("file: %v", err)
		}
		_, _ = fw.Write(image)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

var streetDog = map[string]string{
	"animal_type": "dog",
	"title":       "Injured street dog",
	"description": "Hit by a scooter near the market",
	"location":    "Pune",
	"severity":    "severe",
	"goal":        "5000",
}

func (s *testServer) report(t *testing.T, token string) string {
	t.Helper()
	body, ct := reportForm(t, streetDog, pngHeader)
	resp, data := s.do(t, http.MethodPost, "/v1/cases", token, body, ct)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("report status = %d body=%s", resp.StatusCode, data)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &out); err != nil || out.ID == "" {
		t.Fatalf("report response %s: %v", data, err)
	}
	return out.ID
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, body := srv.do(t, http.MethodGet, "/v1/healthz", "", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !bytes.Contains(body, []byte(`"ok"`)) {
		t.Fatalf("body = %s", body)
	}
}

func TestReportAndDonateFlow(t *testing.T) {
	srv := newTestServer(t)
	token := srv.register(t, "asha@example.com")
	id := srv.report(t, token)

	resp, body := srv.do(t, http.MethodGet, "/v1/cases/"+id, "", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	var c domain.Case
	if err := json.Unmarshal(body, &c); err != nil {
		t.Fatalf("decode case: %v", err)
	}
	if c.Raised != 0 || c.Status != domain.CaseStatusOpen || c.Goal != 5000 {
		t.Fatalf("new case = %+v", c)
	}

	u, err := url.Parse(c.ImageURL)
	if err != nil {
		t.Fatalf("image url: %v", err)
	}
	resp, img := srv.do(t, http.MethodGet, u.Path, "", nil, "")
	if resp.StatusCode != http.StatusOK || !bytes.Equal(img, pngHeader) {
		t.Fatalf("static image status = %d", resp.StatusCode)
	}

	for _, amount := range []int64{1000, 2000} {
		resp, body = srv.postJSON(t, "/v1/cases/"+id+"/donations", token, map[string]any{"amount": amount, "method": "upi"})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("donate status = %d body=%s", resp.StatusCode, body)
		}
	}

	resp, body = srv.do(t, http.MethodGet, "/v1/cases", "", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list struct {
		Items []domain.Case `json:"items"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].Raised != 3000 {
		t.Fatalf("list = %+v", list.Items)
	}

	resp, body = srv.do(t, http.MethodGet, "/v1/cases/"+id+"/donations?limit=1", "", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("donations status = %d", resp.StatusCode)
	}
	var donations struct {
		Items []domain.Donation `json:"items"`
	}
	if err := json.Unmarshal(body, &donations); err != nil {
		t.Fatalf("decode donations: %v", err)
	}
	if len(donations.Items) != 1 || donations.Items[0].Amount != 2000 {
		t.Fatalf("donations = %+v", donations.Items)
	}

	resp, body = srv.do(t, http.MethodGet, "/v1/stats", "", nil, "")
	var st domain.CaseStats
	if err := json.Unmarshal(body, &st); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("stats %d %s", resp.StatusCode, body)
	}
	if st.TotalCases != 1 || st.TotalRaised != 3000 || st.TotalGoal != 5000 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestMutationsRequireToken(t *testing.T) {
	srv := newTestServer(t)
	body, ct := reportForm(t, streetDog, pngHeader)
	resp, _ := srv.do(t, http.MethodPost, "/v1/cases", "", body, ct)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("report without token = %d", resp.StatusCode)
	}

	resp, _ = srv.postJSON(t, "/v1/cases/anything/donations", "", map[string]any{"amount": 10})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("donate without token = %d", resp.StatusCode)
	}

	resp, _ = srv.postJSON(t, "/v1/cases/anything/donations", "forged.token.value", map[string]any{"amount": 10})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("donate with bad token = %d", resp.StatusCode)
	}
}

func TestDonateErrors(t *testing.T) {
	srv := newTestServer(t)
	token := srv.register(t, "ravi@example.com")
	id := srv.report(t, token)

	tests := []struct {
		name   string
		path   string
		body   map[string]any
		status int
		code   string
	}{
		{"zero amount", "/v1/cases/" + id + "/donations", map[string]any{"amount": 0}, http.StatusBadRequest, "invalid_amount"},
		{"negative amount", "/v1/cases/" + id + "/donations", map[string]any{"amount": -5}, http.StatusBadRequest, "invalid_amount"},
		{"unknown method", "/v1/cases/" + id + "/donations", map[string]any{"amount": 5, "method": "cash"}, http.StatusBadRequest, "invalid_input"},
		{"unknown case", "/v1/cases/missing/donations", map[string]any{"amount": 5}, http.StatusNotFound, "not_found"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := srv.postJSON(t, tc.path, token, tc.body)
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d body=%s", resp.StatusCode, tc.status, body)
			}
			var e struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(body, &e)
			if e.Error != tc.code {
				t.Fatalf("code = %q, want %q", e.Error, tc.code)
			}
		})
	}

	_, body := srv.do(t, http.MethodGet, "/v1/cases/"+id, "", nil, "")
	var c domain.Case
	_ = json.Unmarshal(body, &c)
	if c.Raised != 0 {
		t.Fatalf("raised = %d after rejected donations", c.Raised)
	}
}

func TestReportRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)
	token := srv.register(t, "neha@example.com")

	noImage, ct := reportForm(t, streetDog, nil)
	resp, body := srv.do(t, http.MethodPost, "/v1/cases", token, noImage, ct)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing image status = %d body=%s", resp.StatusCode, body)
	}

	notImage, ct := reportForm(t, streetDog, []byte("plain text, not a picture"))
	resp, _ = srv.do(t, http.MethodPost, "/v1/cases", token, notImage, ct)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-image status = %d", resp.StatusCode)
	}

	bad := map[string]string{"animal_type": "cat", "title": "Cat", "location": "Goa", "severity": "extreme", "goal": "abc"}
	form, ct := reportForm(t, bad, pngHeader)
	resp, _ = srv.do(t, http.MethodPost, "/v1/cases", token, form, ct)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad goal status = %d", resp.StatusCode)
	}
}

func TestAuthSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "kiran@example.com")

	resp, _ := srv.postJSON(t, "/v1/auth/register", "", map[string]string{"email": "KIRAN@example.com", "password": "secret123"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register = %d", resp.StatusCode)
	}

	resp, _ = srv.postJSON(t, "/v1/auth/login", "", map[string]string{"email": "kiran@example.com", "password": "wrong-password"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login = %d", resp.StatusCode)
	}

	resp, body := srv.postJSON(t, "/v1/auth/login", "", map[string]string{"email": "kiran@example.com", "password": "secret123"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login = %d body=%s", resp.StatusCode, body)
	}
	var sess identity.Session
	_ = json.Unmarshal(body, &sess)

	resp, body = srv.do(t, http.MethodGet, "/v1/me", sess.Token, nil, "")
	if resp.StatusCode != http.StatusOK || !bytes.Contains(body, []byte("kiran@example.com")) {
		t.Fatalf("me = %d %s", resp.StatusCode, body)
	}

	resp, _ = srv.do(t, http.MethodPost, "/v1/auth/logout", sess.Token, nil, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout = %d", resp.StatusCode)
	}

	resp, _ = srv.do(t, http.MethodGet, "/v1/me", sess.Token, nil, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me after logout = %d", resp.StatusCode)
	}
}

func TestResponsesAreLocalized(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := srv.do(t, http.MethodGet, "/v1/cases/missing", "", nil, "", "Accept-Language", "hi-IN,hi;q=0.9")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Language"); got != "hi" {
		t.Fatalf("Content-Language = %q", got)
	}
}

func TestStaticDoesNotListImages(t *testing.T) {
	srv := newTestServer(t)
	token := srv.register(t, "dev@example.com")
	srv.report(t, token)

	for _, p := range []string{"/static/", "/static/cases/"} {
		resp, body := srv.do(t, http.MethodGet, p, "", nil, "")
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("GET %s = %d, want 404", p, resp.StatusCode)
		}
		if bytes.Contains(body, []byte(".png")) {
			t.Fatalf("GET %s leaked keys: %s", p, body)
		}
	}
}

func TestOversizedDonationBodyRejected(t *testing.T) {
	srv := newTestServer(t)
	token := srv.register(t, "big@example.com")
	id := srv.report(t, token)

	payload := `{"amount":10,"method":"` + strings.Repeat("x", 1<<17) + `"}`
	resp, _ := srv.do(t, http.MethodPost, "/v1/cases/"+id+"/donations", token, strings.NewReader(payload), "application/json")
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", resp.StatusCode)
	}
}
