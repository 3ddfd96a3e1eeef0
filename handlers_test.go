package ideaboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/rs/zerolog"
)

// newTestServer wires a Server over a memStore and exposes it through an
// httptest server.
func newTestServer(c *qt.C, store *memStore) (*Server, *httptest.Server) {
	s := NewServer(&ServerConfig{Addr: "localhost:8081"}, zerolog.Nop(), store)
	c.Assert(s.Prepare(), qt.IsNil)

	ts := httptest.NewServer(s)
	c.Cleanup(ts.Close)

	return s, ts
}

func postJSON(c *qt.C, url string, body string) *http.Response {
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	c.Assert(err, qt.IsNil)
	return resp
}

func decodeBody(c *qt.C, resp *http.Response, out interface{}) {
	defer resp.Body.Close()
	c.Assert(json.NewDecoder(resp.Body).Decode(out), qt.IsNil)
}

func TestHandleListIdeas(t *testing.T) {
	c := qt.New(t)

	c.Run("empty board serves an empty array", func(c *qt.C) {
		_, ts := newTestServer(c, &memStore{})

		resp, err := http.Get(ts.URL + "/api/ideas")
		c.Assert(err, qt.IsNil)
		c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
		c.Assert(resp.Header.Get("Content-Type"), qt.Equals, "application/json")

		ideas := []*Idea{}
		decodeBody(c, resp, &ideas)
		c.Assert(ideas, qt.HasLen, 0)
	})

	c.Run("newest first", func(c *qt.C) {
		store := &memStore{}
		_, ts := newTestServer(c, store)

		base, _ := time.Parse(time.RFC3339, "2020-01-01T12:00:00Z")
		clock := base
		withFakeNow(func() time.Time { clock = clock.Add(time.Second); return clock }, func() {
			for _, text := range []string{"A", "B", "C"} {
				resp := postJSON(c, ts.URL+"/api/ideas", fmt.Sprintf(`{"text": %q}`, text))
				c.Assert(resp.StatusCode, qt.Equals, http.StatusCreated)
				resp.Body.Close()
			}
		})

		resp, err := http.Get(ts.URL + "/api/ideas")
		c.Assert(err, qt.IsNil)

		ideas := []*Idea{}
		decodeBody(c, resp, &ideas)
		c.Assert(ideas, qt.HasLen, 3)
		c.Assert(ideas[0].Text, qt.Equals, "C")
		c.Assert(ideas[2].Text, qt.Equals, "A")
	})

	c.Run("persistence failure gets a generic 500", func(c *qt.C) {
		store := &memStore{}
		_, ts := newTestServer(c, store)

		// the store goes away after startup
		store.setFailing(true)

		resp, err := http.Get(ts.URL + "/api/ideas")
		c.Assert(err, qt.IsNil)
		c.Assert(resp.StatusCode, qt.Equals, http.StatusInternalServerError)

		var body map[string]string
		decodeBody(c, resp, &body)
		c.Assert(body["error"], qt.Equals, "Failed to fetch ideas")
	})
}

func TestHandleCreateIdea(t *testing.T) {
	c := qt.New(t)

	c.Run("OK", func(c *qt.C) {
		_, ts := newTestServer(c, &memStore{})

		resp := postJSON(c, ts.URL+"/api/ideas", `{"text": "  Build a better mousetrap  "}`)
		c.Assert(resp.StatusCode, qt.Equals, http.StatusCreated)

		idea := Idea{}
		decodeBody(c, resp, &idea)
		c.Assert(idea.ID, qt.Equals, int64(1))
		c.Assert(idea.Text, qt.Equals, "Build a better mousetrap")
		c.Assert(idea.Upvotes, qt.Equals, 0)
		c.Assert(idea.CreatedAt.IsZero(), qt.IsFalse)
	})

	c.Run("created_at serializes as RFC 3339", func(c *qt.C) {
		_, ts := newTestServer(c, &memStore{})

		resp := postJSON(c, ts.URL+"/api/ideas", `{"text": "timestamped"}`)
		var body map[string]interface{}
		decodeBody(c, resp, &body)

		raw, ok := body["created_at"].(string)
		c.Assert(ok, qt.IsTrue)
		_, err := time.Parse(time.RFC3339, raw)
		c.Assert(err, qt.IsNil)
	})

	c.Run("blank text gets a 400 and nothing is persisted", func(c *qt.C) {
		store := &memStore{}
		_, ts := newTestServer(c, store)

		for _, payload := range []string{`{"text": ""}`, `{"text": "   "}`, `{}`} {
			resp := postJSON(c, ts.URL+"/api/ideas", payload)
			c.Assert(resp.StatusCode, qt.Equals, http.StatusBadRequest, qt.Commentf("payload %v", payload))

			var body map[string]string
			decodeBody(c, resp, &body)
			c.Assert(body["error"], qt.Not(qt.Equals), "")
		}
		c.Assert(store.count(), qt.Equals, 0)
	})

	c.Run("text over 280 characters gets a 400", func(c *qt.C) {
		_, ts := newTestServer(c, &memStore{})

		payload, err := json.Marshal(map[string]string{"text": strings.Repeat("a", 281)})
		c.Assert(err, qt.IsNil)

		resp := postJSON(c, ts.URL+"/api/ideas", string(payload))
		c.Assert(resp.StatusCode, qt.Equals, http.StatusBadRequest)
		resp.Body.Close()
	})

	c.Run("malformed JSON gets a 400", func(c *qt.C) {
		_, ts := newTestServer(c, &memStore{})

		resp := postJSON(c, ts.URL+"/api/ideas", `{"text": `)
		c.Assert(resp.StatusCode, qt.Equals, http.StatusBadRequest)
		resp.Body.Close()
	})

	c.Run("hooks run on creation and cannot fail the request", func(c *qt.C) {
		store := &memStore{}
		s := NewServer(&ServerConfig{Addr: "localhost:8081"}, zerolog.Nop(), store)

		var hooked []*Idea
		s.AddIdeaHook(func(idea *Idea) error {
			hooked = append(hooked, idea)
			return fmt.Errorf("webhook down")
		})

		c.Assert(s.Prepare(), qt.IsNil)
		ts := httptest.NewServer(s)
		c.Cleanup(ts.Close)

		resp := postJSON(c, ts.URL+"/api/ideas", `{"text": "hooked"}`)
		c.Assert(resp.StatusCode, qt.Equals, http.StatusCreated)
		resp.Body.Close()

		c.Assert(hooked, qt.HasLen, 1)
		c.Assert(hooked[0].Text, qt.Equals, "hooked")
	})
}

func TestHandleUpvoteIdea(t *testing.T) {
	c := qt.New(t)

	c.Run("OK", func(c *qt.C) {
		_, ts := newTestServer(c, &memStore{})

		resp := postJSON(c, ts.URL+"/api/ideas", `{"text": "upvote me"}`)
		created := Idea{}
		decodeBody(c, resp, &created)

		resp = postJSON(c, ts.URL+fmt.Sprintf("/api/ideas/%v/upvote", created.ID), "")
		c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)

		updated := Idea{}
		decodeBody(c, resp, &updated)
		c.Assert(updated.ID, qt.Equals, created.ID)
		c.Assert(updated.Upvotes, qt.Equals, 1)
		c.Assert(updated.Text, qt.Equals, "upvote me")
	})

	c.Run("non-existing id gets a 404", func(c *qt.C) {
		_, ts := newTestServer(c, &memStore{})

		resp := postJSON(c, ts.URL+"/api/ideas/999999/upvote", "")
		c.Assert(resp.StatusCode, qt.Equals, http.StatusNotFound)

		var body map[string]string
		decodeBody(c, resp, &body)
		c.Assert(body["error"], qt.Equals, "idea not found")
	})

	c.Run("unparsable id gets a 404", func(c *qt.C) {
		_, ts := newTestServer(c, &memStore{})

		resp := postJSON(c, ts.URL+"/api/ideas/not-a-number/upvote", "")
		c.Assert(resp.StatusCode, qt.Equals, http.StatusNotFound)
		resp.Body.Close()
	})
}

func TestHandleHealth(t *testing.T) {
	c := qt.New(t)
	_, ts := newTestServer(c, &memStore{})

	resp, err := http.Get(ts.URL + "/health")
	c.Assert(err, qt.IsNil)
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)

	var body map[string]string
	decodeBody(c, resp, &body)
	c.Assert(body["status"], qt.Equals, "ok")

	_, err = time.Parse(time.RFC3339, body["timestamp"])
	c.Assert(err, qt.IsNil)
}

func TestCrossOriginHeaders(t *testing.T) {
	c := qt.New(t)

	c.Run("echoes the request origin whatever it is", func(c *qt.C) {
		_, ts := newTestServer(c, &memStore{})

		req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/ideas", nil)
		c.Assert(err, qt.IsNil)
		req.Header.Set("Origin", "http://some-frontend.example")

		resp, err := http.DefaultClient.Do(req)
		c.Assert(err, qt.IsNil)
		defer resp.Body.Close()
		c.Assert(resp.Header.Get("Access-Control-Allow-Origin"), qt.Equals, "http://some-frontend.example")
	})

	c.Run("answers preflight requests", func(c *qt.C) {
		_, ts := newTestServer(c, &memStore{})

		req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/ideas", nil)
		c.Assert(err, qt.IsNil)
		req.Header.Set("Origin", "http://some-frontend.example")
		req.Header.Set("Access-Control-Request-Method", "POST")

		resp, err := http.DefaultClient.Do(req)
		c.Assert(err, qt.IsNil)
		defer resp.Body.Close()
		c.Assert(resp.StatusCode, qt.Equals, http.StatusNoContent)
		c.Assert(resp.Header.Get("Access-Control-Allow-Methods"), qt.Contains, "POST")
	})

	c.Run("falls back to the configured origin, then to a wildcard", func(c *qt.C) {
		s := NewServer(&ServerConfig{Addr: "localhost:8081", AllowedOrigin: "http://conf.example"}, zerolog.Nop(), &memStore{})
		c.Assert(s.Prepare(), qt.IsNil)
		ts := httptest.NewServer(s)
		c.Cleanup(ts.Close)

		resp, err := http.Get(ts.URL + "/api/ideas")
		c.Assert(err, qt.IsNil)
		defer resp.Body.Close()
		c.Assert(resp.Header.Get("Access-Control-Allow-Origin"), qt.Equals, "http://conf.example")
	})
}

func TestRequestIDHeader(t *testing.T) {
	c := qt.New(t)
	_, ts := newTestServer(c, &memStore{})

	first, err := http.Get(ts.URL + "/api/ideas")
	c.Assert(err, qt.IsNil)
	first.Body.Close()
	second, err := http.Get(ts.URL + "/api/ideas")
	c.Assert(err, qt.IsNil)
	second.Body.Close()

	c.Assert(first.Header.Get("X-Request-ID"), qt.Not(qt.Equals), "")
	c.Assert(first.Header.Get("X-Request-ID"), qt.Not(qt.Equals), second.Header.Get("X-Request-ID"))
}
