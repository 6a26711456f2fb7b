package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/config"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/storage"
	"github.com/iWorld-y/cine_mind/app/server/internal/conf"
)

type Data struct {
	store storage.Store
}

// NewData 按配置打开存储，未配置时使用内存存储
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)
	sc := config.StoreConfig{Driver: "memory"}
	if c != nil && c.Database != nil {
		sc = config.StoreConfig{Driver: c.Database.Driver, DSN: c.Database.Source, Database: c.Database.Name}
	}

	ctx := context.Background()
	store, err := storage.NewStore(ctx, sc)
	if err != nil {
		return nil, nil, err
	}
	helper.Infof("store opened: driver=%s", sc.Driver)

	cleanup := func() {
		helper.Info("closing the data resources")
		if err := store.Close(ctx); err != nil {
			helper.Errorf("failed to close store: %v", err)
		}
	}
	return &Data{store: store}, cleanup, nil
}
