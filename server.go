package ideaboard

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

// IdeaHook runs after an idea has been created, for side effects such as
// announcing it somewhere. A failing hook is logged but never fails the
// request, the idea is already persisted at that point.
type IdeaHook func(idea *Idea) error

type ServerConfig struct {
	Addr string
	// AllowedOrigin is the configured frontend origin. It is advisory only,
	// see corsMiddleware.
	AllowedOrigin string
}

type Server struct {
	Logger          zerolog.Logger
	config          *ServerConfig
	store           Store
	service         *Service
	router          *httprouter.Router
	done            chan struct{}
	idleConnsClosed chan struct{}
	ideaHooks       []IdeaHook
}

func NewServer(config *ServerConfig, logger zerolog.Logger, store Store) *Server {
	return &Server{
		config:          config,
		Logger:          logger,
		store:           store,
		service:         NewService(store),
		router:          httprouter.New(),
		done:            make(chan struct{}),
		idleConnsClosed: make(chan struct{}),
	}
}

// AddIdeaHook registers a hook ran after each successful idea creation.
func (s *Server) AddIdeaHook(h IdeaHook) {
	s.ideaHooks = append(s.ideaHooks, h)
}

// Prepare connects the store, which also ensures the schema exists, and
// declares the routes. It must be called before Start; a returned error means
// the process must not serve requests.
func (s *Server) Prepare() error {
	err := s.store.Connect()
	if err != nil {
		return err
	}

	withMiddlewares(func(m middleware) {
		s.router.GET("/api/ideas", m(s.HandleListIdeas()))
		s.router.POST("/api/ideas", m(s.HandleCreateIdea()))
		s.router.POST("/api/ideas/:id/upvote", m(s.HandleUpvoteIdea()))
		s.router.GET("/health", m(s.HandleHealth()))
	},
		s.requestIDMiddleware(),
		s.corsMiddleware(),
		s.logRequestMiddleware(),
	)

	// preflight requests never reach the route handlers
	s.router.GlobalOPTIONS = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeCORSHeaders(w, r)
		w.WriteHeader(http.StatusNoContent)
	})

	return nil
}

func (s *Server) Start() error {
	httpServer := http.Server{Addr: s.config.Addr, Handler: s}

	go func() {
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			// should probably bubble this up
			s.Logger.Fatal().Err(err).Msg("Cannot listen and serve")
		}
	}()

	<-s.done

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return err
	}
	close(s.idleConnsClosed)

	return nil
}

func (s *Server) Stop() {
	close(s.done)
	<-s.idleConnsClosed
}

func (s *Server) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(res, req)
}
