package ideaboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
)

// HandleHealth handles liveness requests.
func (s *Server) HandleHealth() httprouter.Handle {
	return func(res http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		s.respondJSON(res, http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"timestamp": NowFunc().UTC().Format(time.RFC3339),
		})
	}
}

// HandleListIdeas handles requests listing every idea, newest first.
func (s *Server) HandleListIdeas() httprouter.Handle {
	return func(res http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		ideas, err := s.service.ListIdeas()
		if err != nil {
			s.respondError(res, req, err, "Failed to fetch ideas")
			return
		}

		if ideas == nil {
			ideas = []*Idea{}
		}

		s.respondJSON(res, http.StatusOK, ideas)
	}
}

// HandleCreateIdea handles requests submitting a new idea. The payload is
// `{"text": "..."}`; the created record is returned with a 201.
func (s *Server) HandleCreateIdea() httprouter.Handle {
	return func(res http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			s.Logger.Warn().Err(err).Msg("Failed to parse request body")
			Validation("invalid JSON body").RespondError(res, req)
			return
		}

		idea, err := s.service.CreateIdea(payload.Text)
		if err != nil {
			s.respondError(res, req, err, "Failed to create idea")
			return
		}

		for _, h := range s.ideaHooks {
			if err := h(idea); err != nil {
				s.Logger.Warn().Err(err).Int64("id", idea.ID).Msg("Idea hook failed")
			}
		}

		s.respondJSON(res, http.StatusCreated, idea)
	}
}

// HandleUpvoteIdea handles requests incrementing an idea's upvote counter,
// returning the updated record. An id that does not resolve to an idea,
// numeric or not, gets a 404.
func (s *Server) HandleUpvoteIdea() httprouter.Handle {
	return func(res http.ResponseWriter, req *http.Request, params httprouter.Params) {
		rawID := params.ByName("id")
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			s.Logger.Debug().Str("id", rawID).Msg("Unparsable idea id")
			NotFound(0).RespondError(res, req)
			return
		}

		idea, err := s.service.UpvoteIdea(id)
		if err != nil {
			s.respondError(res, req, err, "Failed to upvote idea")
			return
		}

		s.respondJSON(res, http.StatusOK, idea)
	}
}

func (s *Server) respondJSON(res http.ResponseWriter, status int, body interface{}) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	if err := json.NewEncoder(res).Encode(body); err != nil {
		s.Logger.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError lets typed errors write their own response and maps anything
// else to a generic 500, logging the detail server-side only.
func (s *Server) respondError(res http.ResponseWriter, req *http.Request, err error, msg string) {
	var responder ErrorResponder
	if errors.As(err, &responder) && responder.RespondError(res, req) {
		s.Logger.Debug().Err(err).Str("request_id", ctxRequestID(req.Context())).Msg(msg)
		return
	}

	s.Logger.Error().Err(err).Str("request_id", ctxRequestID(req.Context())).Msg(msg)
	respondJSONError(res, http.StatusInternalServerError, msg)
}
