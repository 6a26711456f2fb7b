package service

import (
	"context"
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationAnalyzeMovie      = "/cinemind.v1.CineMind/AnalyzeMovie"
	OperationListAnalyses      = "/cinemind.v1.CineMind/ListAnalyses"
	OperationCreateStatusCheck = "/cinemind.v1.CineMind/CreateStatusCheck"
	OperationListStatusChecks  = "/cinemind.v1.CineMind/ListStatusChecks"
)

// RegisterCineMindHTTPServer 注册 /api 下的路由
func RegisterCineMindHTTPServer(s *http.Server, svc *CineMindService) {
	// 路由前缀会去掉结尾的斜杠，根路径单独注册
	s.HandleFunc("/api/", rootHandler(svc))

	r := s.Route("/api")
	r.POST("/analyze-movie", analyzeMovieHandler(svc))
	r.GET("/analyses", listAnalysesHandler(svc))
	r.POST("/status", createStatusCheckHandler(svc))
	r.GET("/status", listStatusChecksHandler(svc))
}

func rootHandler(svc *CineMindService) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			w.WriteHeader(nethttp.StatusMethodNotAllowed)
			return
		}
		out, err := svc.Root(r.Context())
		if err != nil {
			http.DefaultErrorEncoder(w, r, err)
			return
		}
		if err := http.DefaultResponseEncoder(w, r, out); err != nil {
			http.DefaultErrorEncoder(w, r, err)
		}
	}
}

func analyzeMovieHandler(svc *CineMindService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in AnalyzeMovieRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationAnalyzeMovie)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return svc.AnalyzeMovie(ctx, req.(*AnalyzeMovieRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func listAnalysesHandler(svc *CineMindService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		limit, err := parseLimit(ctx.Query().Get("limit"))
		if err != nil {
			return err
		}
		in := ListAnalysesRequest{Limit: limit}
		http.SetOperation(ctx, OperationListAnalyses)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return svc.ListAnalyses(ctx, req.(*ListAnalysesRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func createStatusCheckHandler(svc *CineMindService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in StatusCheckCreate
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationCreateStatusCheck)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return svc.CreateStatusCheck(ctx, req.(*StatusCheckCreate))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func listStatusChecksHandler(svc *CineMindService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, OperationListStatusChecks)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return svc.ListStatusChecks(ctx)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}
