package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/cine_mind/app/server/internal/biz"
	"github.com/iWorld-y/cine_mind/app/server/internal/data"
	"github.com/iWorld-y/cine_mind/app/server/internal/service"
)

// ProviderSet 是 CineMind 服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewGRPCServer,
	NewAnalyzer,

	// Data providers
	data.NewData,
	data.NewAnalysisRepo,
	data.NewStatusRepo,

	// UseCase providers
	biz.NewAnalysisUseCase,
	biz.NewStatusUseCase,

	// Service providers
	service.NewCineMindService,
)
