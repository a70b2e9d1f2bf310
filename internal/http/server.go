package http

import (
	"net/http"

	"github.com/laurentkvb/squash-go/internal/config"
	"github.com/laurentkvb/squash-go/internal/league"
	"github.com/laurentkvb/squash-go/internal/metrics"
	"github.com/laurentkvb/squash-go/internal/session"
)

func NewServer(store league.LeagueStore, sessionMgr *session.Manager, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Store:          store,
		Session:        sessionMgr,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.PlayersHandler(), paramsMiddleware))
	s.Router.Handle("/players/delete", Chain(s.DeletePlayerHandler(), paramsMiddleware))
	s.Router.Handle("/players/stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/history", Chain(s.HistoryHandler(), paramsMiddleware))
	s.Router.Handle("/history/delete", Chain(s.DeleteRecordHandler(), paramsMiddleware))
	s.Router.Handle("/match/start", Chain(s.StartMatchHandler(), paramsMiddleware))
	s.Router.Handle("/match/current", Chain(s.CurrentMatchHandler(), paramsMiddleware))
	s.Router.Handle("/match/point", Chain(s.RecordPointHandler(), paramsMiddleware))
	s.Router.Handle("/match/undo", Chain(s.UndoPointHandler(), paramsMiddleware))
	s.Router.Handle("/match/finalize", Chain(s.FinalizeMatchHandler(), paramsMiddleware))
	s.Router.Handle("/match/abandon", Chain(s.AbandonMatchHandler(), paramsMiddleware))
	s.Router.Handle("/match/rematch", Chain(s.RematchHandler(), paramsMiddleware))
	s.Router.Handle("/match/manual", Chain(s.ManualMatchHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
