package http

import (
	"net/http"

	"github.com/laurentkvb/squash-go/internal/config"
	"github.com/laurentkvb/squash-go/internal/league"
	"github.com/laurentkvb/squash-go/internal/metrics"
	"github.com/laurentkvb/squash-go/internal/session"
)

type Server struct {
	Store          league.LeagueStore
	Session        *session.Manager
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}
