package main

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/api"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/notify"
	"github.com/Zachkp/portfolio/internal/session"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type apiCall struct {
	Method      string
	Path        string
	Token       string
	ContentType string
	Body        string
}

// contentAPI stands in for the remote content API.
type contentAPI struct {
	mu     sync.Mutex
	calls  []apiCall
	routes map[string]cannedResponse
}

type cannedResponse struct {
	status int
	body   string
}

func newContentAPI(t *testing.T) (*contentAPI, *httptest.Server) {
	t.Helper()
	a := &contentAPI{routes: map[string]cannedResponse{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		a.mu.Lock()
		a.calls = append(a.calls, apiCall{r.Method, r.URL.Path, r.Header.Get(api.TokenHeader), r.Header.Get("Content-Type"), string(body)})
		resp, ok := a.routes[r.Method+" "+r.URL.Path]
		a.mu.Unlock()
		if !ok {
			resp = cannedResponse{http.StatusNotFound, `{"message":"not found"}`}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		_, _ = w.Write([]byte(resp.body))
	}))
	t.Cleanup(srv.Close)
	return a, srv
}

func (a *contentAPI) on(route string, status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.routes[route] = cannedResponse{status, body}
}

func (a *contentAPI) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

func (a *contentAPI) callsTo(method, path string) []apiCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []apiCall
	for _, c := range a.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// site is the portfolio server under test plus a browser-like client with cookies.
type site struct {
	t      *testing.T
	api    *contentAPI
	apiURL string
	srv    *server
	url    string
	client *http.Client
}

func newSite(t *testing.T) *site {
	t.Helper()
	fake, apiSrv := newContentAPI(t)

	cfg := &config.Config{
		Env:             "development",
		APIURL:          apiSrv.URL,
		APITimeout:      5 * time.Second,
		AdminPath:       "dashboard",
		SessionLifetime: time.Hour,
		CSRFKey:         strings.Repeat("k", config.MinCSRFKeyLength),
		ContactSubject:  "Portfolio Inquiry",
		CVPath:          "testdata/missing-cv.pdf",
	}

	sm := scs.New()
	sm.Store = memstore.New()
	sessions := session.NewManager(sm)

	client := api.New(cfg.APIURL, sessions, api.WithTimeout(cfg.APITimeout))
	srv, err := newServer(cfg, sessions, client, notify.Noop{}, clock.NewMock())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &site{
		t:      t,
		api:    fake,
		apiURL: apiSrv.URL,
		srv:    srv,
		url:    ts.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (s *site) do(method, path string, form url.Values, htmx bool) (*http.Response, string) {
	s.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, s.url+path, body)
	require.NoError(s.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	resp, err := s.client.Do(req)
	require.NoError(s.t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp, string(raw)
}

func (s *site) get(path string) (*http.Response, string) {
	return s.do(http.MethodGet, path, nil, false)
}

func (s *site) post(path string, form url.Values) (*http.Response, string) {
	return s.do(http.MethodPost, path, form, true)
}

func TestIndexRendersSkeletonsWithoutCallingAPI(t *testing.T) {
	s := newSite(t)

	resp, body := s.get("/")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1+2+6+3, strings.Count(body, "animate-pulse"))
	assert.Contains(t, body, "Fetching career history...")
	for _, kind := range []string{"experience", "education", "projects", "reviews"} {
		assert.Contains(t, body, `hx-get="/sections/`+kind+`"`)
	}
	assert.Contains(t, body, `id="testimonials"`)
	assert.Zero(t, s.api.count())
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
}

func TestIndexShowsSiteCopy(t *testing.T) {
	s := newSite(t)

	_, body := s.get("/")

	assert.Contains(t, body, "Tech Explorer &amp; Problem Solver.")
	assert.Contains(t, body, "solid foundation in Computer Science")
	assert.Contains(t, body, "bold ideas and")
	assert.Contains(t, body, "React.js")
	assert.NotContains(t, body, "Muay Thai")
}

func TestSectionFragmentRendersItemsInOrder(t *testing.T) {
	s := newSite(t)
	s.api.on("GET /projects", 200, `{"data":[
		{"_id":"p2","title":"Zeta Tracker","techStack":["Go"],"githubLink":"github.com/zach/zeta","description":"**fast**"},
		{"_id":"p1","title":"Alpha CLI","techStack":["HTMX"],"image":"/uploads/a.png"}
	]}`)

	resp, body := s.get("/sections/projects")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `data-state="ready"`)
	assert.Less(t, strings.Index(body, "Zeta Tracker"), strings.Index(body, "Alpha CLI"))
	assert.Contains(t, body, `href="https://github.com/zach/zeta"`)
	assert.Contains(t, body, "<strong>fast</strong>")
	assert.Contains(t, body, s.apiURL+"/uploads/a.png")
}

func TestSectionFragmentFailureShowsEmptyText(t *testing.T) {
	s := newSite(t)
	s.api.on("GET /education", 500, `{"message":"db down"}`)
	s.api.on("GET /reviews", 200, `[]`)

	_, body := s.get("/sections/education")
	assert.Contains(t, body, `data-state="failed"`)
	assert.Contains(t, body, "Academic records are currently being updated.")

	_, body = s.get("/sections/reviews")
	assert.Contains(t, body, `data-state="empty"`)
	assert.Contains(t, body, "No client transmissions decoded yet.")

	resp, _ := s.get("/sections/messages")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestContactSubmitSuccess(t *testing.T) {
	s := newSite(t)
	s.api.on("POST /contact", 201, `{"success":true}`)

	resp, body := s.post("/contact", url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"subject": {""},
		"message": {"Let's build something."},
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Message Sent!")
	assert.Contains(t, body, `hx-trigger="load delay:5s"`)
	calls := s.api.callsTo(http.MethodPost, "/contact")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Body, `"subject":"Portfolio Inquiry"`)
	assert.Empty(t, calls[0].Token)

	_, form := s.get("/contact-form")
	assert.Contains(t, form, `name="name" type="text" value=""`)
	assert.Contains(t, form, `value="Portfolio Inquiry"`)
}

func TestContactSubmitFailureKeepsInput(t *testing.T) {
	s := newSite(t)
	s.api.on("POST /contact", 500, `{"message":"Server unreachable"}`)

	resp, body := s.post("/contact", url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"subject": {"Hello"},
		"message": {"Let's build something."},
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Server unreachable")
	assert.Contains(t, body, `value="Ada"`)
	assert.Contains(t, body, "Let&#39;s build something.")
}

func TestContactFormsAreSeparatePerVisitor(t *testing.T) {
	s := newSite(t)
	s.api.on("POST /contact", 500, `{"message":"Server unreachable"}`)
	s.post("/contact", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"hi"}})

	other := newSiteClient(t, s)
	_, body := other.get("/contact-form")

	assert.NotContains(t, body, "Server unreachable")
	assert.NotContains(t, body, `value="Ada"`)
}

func TestHealthAndMissingCV(t *testing.T) {
	s := newSite(t)

	resp, body := s.get("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	resp, _ = s.get("/cv")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// newSiteClient is a second browser against the same server.
func newSiteClient(t *testing.T, s *site) *site {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := *s
	c.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &c
}
