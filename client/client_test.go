package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestClientErrors(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	c.Run("decodes error bodies into an APIError", func(c *qt.C) {
		_, _, ts := newTestBoard(c)
		api := New(ts.URL)

		_, err := api.CreateIdea(ctx, "   ")
		var apiErr *APIError
		c.Assert(errors.As(err, &apiErr), qt.IsTrue)
		c.Assert(apiErr.StatusCode, qt.Equals, http.StatusBadRequest)
		c.Assert(apiErr.Message, qt.Equals, "idea text is required")

		_, err = api.UpvoteIdea(ctx, 999999)
		c.Assert(errors.As(err, &apiErr), qt.IsTrue)
		c.Assert(apiErr.StatusCode, qt.Equals, http.StatusNotFound)
		c.Assert(apiErr.Message, qt.Equals, "idea not found")
	})

	c.Run("round trips an idea", func(c *qt.C) {
		_, _, ts := newTestBoard(c)
		api := New(ts.URL + "/")

		created, err := api.CreateIdea(ctx, " trailing slash tolerated ")
		c.Assert(err, qt.IsNil)
		c.Assert(created.Text, qt.Equals, "trailing slash tolerated")

		updated, err := api.UpvoteIdea(ctx, created.ID)
		c.Assert(err, qt.IsNil)
		c.Assert(updated.Upvotes, qt.Equals, 1)

		ideas, err := api.ListIdeas(ctx)
		c.Assert(err, qt.IsNil)
		c.Assert(ideas, qt.HasLen, 1)
		c.Assert(ideas[0].ID, qt.Equals, created.ID)
	})
}
