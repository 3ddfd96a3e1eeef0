package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	qt "github.com/frankban/quicktest"
	"github.com/jhchabran/ideaboard"
	"github.com/jhchabran/ideaboard/pgstore"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

const (
	dbString       = "user=postgres dbname=ideaboard_test sslmode=disable password=postgres host=127.0.0.1"
	testServerHost = "localhost:8081"
)

func truncateDatabase(db *sqlx.DB) {
	db.MustExec("TRUNCATE TABLE ideas RESTART IDENTITY;")
}

// testingLogWriter is an output target for zerolog which will print on the testing logger.
type testingLogWriter struct {
	c *qt.C
}

// Write outputs on the passed bytes on the test logger
func (l *testingLogWriter) Write(p []byte) (n int, err error) {
	str := string(p[0 : len(p)-1]) // drop the final \n
	l.c.Log(str)
	return len(p), nil
}

// A struct to hold the server and its components.
// Provides a few helpers for convenience.
type testContext struct {
	c          *qt.C
	server     *ideaboard.Server
	testServer *httptest.Server
	pgStore    *pgstore.PGStore
}

// newTestContext creates a server instance with its component initialized for integration testing.
func newTestContext(c *qt.C) *testContext {
	tc := testContext{c: c}

	w := testingLogWriter{c}
	output := zerolog.ConsoleWriter{Out: &w, NoColor: true}
	logger := zerolog.New(output)

	tc.pgStore = pgstore.New(dbString)
	tc.server = ideaboard.NewServer(
		&ideaboard.ServerConfig{Addr: testServerHost},
		logger,
		tc.pgStore,
	)

	return &tc
}

// prepareServer connects the store and fires the test server. The database is
// truncated when the test finishes.
func (tc *testContext) prepareServer() {
	err := tc.server.Prepare()
	tc.c.Assert(err, qt.IsNil)

	tc.testServer = httptest.NewServer(tc.server)
	tc.c.Cleanup(func() {
		tc.testServer.Close()
		truncateDatabase(tc.pgStore.DB())
	})
}

// url returns an url to the test server based on the given path
func (tc *testContext) url(path string) string {
	return tc.testServer.URL + path
}

// postJSON posts a raw JSON body to the given path.
func (tc *testContext) postJSON(path string, body string) *http.Response {
	resp, err := http.Post(tc.url(path), "application/json", strings.NewReader(body))
	tc.c.Assert(err, qt.IsNil)
	return resp
}

// decode reads the whole response body into out.
func (tc *testContext) decode(resp *http.Response, out interface{}) {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	tc.c.Assert(err, qt.IsNil)
	tc.c.Assert(json.Unmarshal(b, out), qt.IsNil, qt.Commentf("body: %s", b))
}
