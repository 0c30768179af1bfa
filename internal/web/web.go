// Package web implements the LoL Metrics JSON API.
package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/Aezurly/Lol-Metrics/internal/aggregate"
	"github.com/Aezurly/Lol-Metrics/internal/lol"
	"github.com/Aezurly/Lol-Metrics/internal/metrics"
	"github.com/Aezurly/Lol-Metrics/internal/store"
	"github.com/Aezurly/Lol-Metrics/internal/strategy/evolution"
	"github.com/Aezurly/Lol-Metrics/internal/strategy/radar"
	"github.com/Aezurly/Lol-Metrics/internal/strategy/recap"
	"github.com/Aezurly/Lol-Metrics/internal/strategy/scrim"
)

// A Reloader ingests match files and the team roster on demand.
type Reloader interface {
	LoadNewMatches(ctx context.Context) (int, error)
	ReloadTeams(ctx context.Context) error
	ReloadAll(ctx context.Context) (int, error)
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request errors.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithCORSOrigins sets the browser origins allowed to call the API.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithReloadLimit limits each client IP to requests reloads per window.
func WithReloadLimit(requests int, window time.Duration) Option {
	return func(s *Server) {
		s.limit = requests
		s.window = window
	}
}

// Server serves the LoL Metrics API.
type Server struct {
	store  *store.Store
	reload Reloader
	log    *slog.Logger

	origins []string
	limit   int
	window  time.Duration

	champions aggregate.ChampionCache
}

// NewServer returns a new Server that reads from s and reloads through r.
func NewServer(s *store.Store, r Reloader, opts ...Option) *Server {
	srv := &Server{
		store:   s,
		reload:  r,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		origins: []string{"http://localhost:4000", "http://localhost:4200"},
		limit:   10,
		window:  time.Minute,
	}
	for _, o := range opts {
		o(srv)
	}
	return srv
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	c := corslib.New(corslib.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	})
	r.Use(c.Handler)

	r.Get("/", s.handleSummary)
	r.Get("/status", s.handleStatus)

	r.Group(func(r chi.Router) {
		r.Use(RateLimit(s.limit, s.window))
		r.Post("/reload", s.handleReload)
		r.Post("/reload-teams", s.handleReloadTeams)
		r.Post("/reload-all", s.handleReloadAll)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireReady(s.store))

		r.Get("/team-id-by-player/{playerId}", s.handleTeamIDByPlayer)
		r.Post("/player-stats-for-matches/{playerId}", s.handlePlayerStatsForMatches)

		r.Route("/players/{playerId}", func(r chi.Router) {
			r.Get("/", s.handlePlayer)
			r.Get("/champions", s.handleChampions)
			r.Get("/radar", s.handleRadar)
			r.Get("/evolution", s.handleEvolution)
		})

		r.Get("/matches/{matchId}/recap", s.handleRecap)
		r.Get("/scrims", s.handleScrims)
	})

	return r
}

// Sync runs a data sync using the provided function, then repeats every
// interval. It blocks until the context is cancelled.
func Sync(ctx context.Context, syncFn func(context.Context) error, interval time.Duration, log *slog.Logger) {
	if err := syncFn(ctx); err != nil {
		log.Error("initial sync failed", "err", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := syncFn(ctx); err != nil {
				log.Error("periodic sync failed", "err", err)
			}
		}
	}
}

// Summary.

type summary struct {
	MatchIDs   []string      `json:"matchIds"`
	PlayerList []*lol.Player `json:"playerList"`
	TeamList   []*lol.Team   `json:"teamList"`
}

// handleSummary ingests any new match files before answering, so the first
// request after startup waits for data rather than failing. Ingestion runs to
// completion even if the client goes away.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if _, err := s.reload.LoadNewMatches(context.WithoutCancel(r.Context())); err != nil {
		s.internalError(w, "load matches", err)
		return
	}
	writeJSON(w, http.StatusOK, summary{
		MatchIDs:   s.store.MatchIDs(),
		PlayerList: s.store.Players(),
		TeamList:   s.store.Teams(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Status())
}

// Reloads.

type message struct {
	Message string `json:"message"`
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if _, err := s.reload.LoadNewMatches(context.WithoutCancel(r.Context())); err != nil {
		s.internalError(w, "reload matches", err)
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "Matches reloaded successfully"})
}

func (s *Server) handleReloadTeams(w http.ResponseWriter, r *http.Request) {
	if err := s.reload.ReloadTeams(context.WithoutCancel(r.Context())); err != nil {
		s.internalError(w, "reload teams", err)
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "Teams reloaded successfully"})
}

func (s *Server) handleReloadAll(w http.ResponseWriter, r *http.Request) {
	s.champions.Reset()
	if _, err := s.reload.ReloadAll(context.WithoutCancel(r.Context())); err != nil {
		s.internalError(w, "reload all", err)
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "Teams and matches reloaded successfully"})
}

// Players.

func (s *Server) handleTeamIDByPlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "playerId")
	team, ok := s.store.TeamIDForPlayer(id)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No team for player "+id)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

type matchIDs struct {
	MatchIDs []string `json:"matchIds"`
}

func (s *Server) handlePlayerStatsForMatches(w http.ResponseWriter, r *http.Request) {
	p, ok := s.player(w, r)
	if !ok {
		return
	}

	var body matchIDs
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid body: "+err.Error())
		return
	}
	ids := body.MatchIDs
	if len(ids) == 0 {
		ids = p.MatchIDs
	}
	writeJSON(w, http.StatusOK, aggregate.Subset(s.store, p.UID, ids))
}

type playerView struct {
	*lol.Player

	TeamName string          `json:"teamName"`
	Metrics  metrics.Summary `json:"metrics"`
	KDABand  radar.Band      `json:"kdaBand"`
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	p, ok := s.player(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, playerView{
		Player:   p,
		TeamName: s.store.TeamName(p.Team()),
		Metrics:  metrics.Summarize(p.Stats, p.Matches()),
		KDABand:  radar.KDABand(s.store.Players(), p),
	})
}

func (s *Server) handleChampions(w http.ResponseWriter, r *http.Request) {
	p, ok := s.player(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.champions.PerChampion(s.store, p))
}

func (s *Server) handleRadar(w http.ResponseWriter, r *http.Request) {
	p, ok := s.player(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, radar.Radar(p, s.store.Players()))
}

func (s *Server) handleEvolution(w http.ResponseWriter, r *http.Request) {
	p, ok := s.player(w, r)
	if !ok {
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = string(evolution.Week)
	}
	g, err := evolution.ParseGranularity(period)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	var opts []evolution.Option
	if r.URL.Query().Get("roleAverage") == "true" {
		opts = append(opts, evolution.WithRoleAverage(s.store.Players()))
	}
	writeJSON(w, http.StatusOK, evolution.Bucket(s.store, p, g, opts...))
}

// player writes a 404 and returns false if the requested player is unknown.
func (s *Server) player(w http.ResponseWriter, r *http.Request) (*lol.Player, bool) {
	id := chi.URLParam(r, "playerId")
	p, ok := s.store.Player(id)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Player "+id+" not found")
		return nil, false
	}
	return p, true
}

// Matches.

func (s *Server) handleRecap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "matchId")
	m, ok := s.store.Match(id)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Match "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, recap.Build(m, s.store))
}

func (s *Server) handleScrims(w http.ResponseWriter, _ *http.Request) {
	scrims := scrim.Group(s.store.Matches(), s.store, scrim.WithLogger(s.log))
	views := make([]scrim.View, 0, len(scrims))
	for _, sc := range scrims {
		views = append(views, scrim.NewView(sc, s.store.TeamName))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.log.Error(op, "err", err)
	if errors.Is(err, context.Canceled) {
		return
	}
	writeError(w, http.StatusInternalServerError, "INTERNAL", op+" failed")
}
