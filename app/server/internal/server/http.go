package server

import (
	"time"

	"github.com/go-chi/cors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iWorld-y/cine_mind/app/server/internal/conf"
	"github.com/iWorld-y/cine_mind/app/server/internal/service"
)

func NewHTTPServer(c *conf.Server, s *service.CineMindService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
		http.Filter(corsFilter(c.Cors)),
	}
	if c.Http != nil && c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http != nil && c.Http.Timeout != "" {
		if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)
	service.RegisterCineMindHTTPServer(srv, s)
	srv.Handle("/metrics", promhttp.Handler())
	return srv
}

// corsFilter 默认允许任意来源
func corsFilter(c *conf.CORS) http.FilterFunc {
	origins := []string{"*"}
	if c != nil && len(c.AllowedOrigins) > 0 {
		origins = c.AllowedOrigins
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
