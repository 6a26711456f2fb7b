package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/config"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/engine"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/logger"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/model"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/storage"
)

func main() {
	confPath := flag.String("conf", "configs/config.yaml", "配置文件路径")
	title := flag.String("title", "", "要分析的电影或剧集名称")
	genres := flag.String("genres", "", "喜欢的类型，逗号分隔")
	languages := flag.String("languages", "", "喜欢的语言，逗号分隔")
	movies := flag.String("movies", "", "喜欢的电影，逗号分隔")
	mood := flag.String("mood", "", "当前心情")
	save := flag.Bool("save", false, "是否把结果写入存储")
	flag.Parse()

	if *title == "" && flag.NArg() > 0 {
		*title = strings.Join(flag.Args(), " ")
	}

	// 1. 加载 .env 与配置
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用环境变量")
	}
	cfg, err := config.LoadConfig(*confPath)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}

	// 2. 初始化日志
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}

	prefs := &model.Preferences{
		FavoriteGenres:    splitList(*genres),
		FavoriteLanguages: splitList(*languages),
		FavoriteMovies:    splitList(*movies),
		CurrentMood:       *mood,
	}

	// Fatalf 会跳过 defer，资源在 run 内部释放后再退出
	out, err := run(context.Background(), cfg, *title, prefs, *save)
	if err != nil {
		logger.Log.Fatalf("%v", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
}

func run(ctx context.Context, cfg *config.Config, title string, prefs *model.Preferences, save bool) ([]byte, error) {
	// 3. 初始化引擎
	eng, err := engine.NewEngineFromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("引擎初始化失败: %w", err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Log.Warnf("关闭 LLM 客户端失败: %v", err)
		}
	}()

	// 4. 执行分析
	result, err := eng.Run(ctx, engine.RunOptions{
		Title:       title,
		Preferences: prefs,
		ProgressCallback: func(stage engine.Stage, progress int) {
			logger.Log.Debugf("[%3d%%] %s", progress, stage)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("分析失败: %w", err)
	}

	// 5. 可选持久化
	if save {
		store, err := storage.NewStore(ctx, cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("无法连接存储: %w", err)
		}
		defer func() {
			if err := store.Close(ctx); err != nil {
				logger.Log.Warnf("关闭存储失败: %v", err)
			}
		}()
		if err := store.SaveAnalysis(ctx, result); err != nil {
			return nil, fmt.Errorf("保存分析结果失败: %w", err)
		}
		logger.Log.Infof("分析结果已保存: %s", result.ID)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化结果失败: %w", err)
	}
	return out, nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
