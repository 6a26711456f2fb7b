package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/model"
)

const (
	analysesTable     = "movie_analyses"
	statusChecksTable = "status_checks"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var analysisColumns = []string{
	"id", "movie_title", "genre", "overall_sentiment", "critic_analysis", "audience_sentiment",
	"summary", "recommendations", "personalized_recommendations", "instagram_captions", "analyzed_at",
}

// PostgresStore 基于 database/sql 的 PostgreSQL 存储。
// 列表字段存为 JSONB，时间戳存为定长文本。
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore 连接数据库并初始化表结构
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS movie_analyses (
			id TEXT PRIMARY KEY,
			movie_title TEXT NOT NULL,
			genre TEXT,
			overall_sentiment TEXT,
			critic_analysis TEXT,
			audience_sentiment TEXT,
			summary TEXT,
			recommendations JSONB NOT NULL DEFAULT '[]',
			personalized_recommendations JSONB NOT NULL DEFAULT '[]',
			instagram_captions JSONB NOT NULL DEFAULT '[]',
			analyzed_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_movie_analyses_analyzed_at ON movie_analyses (analyzed_at DESC)`,
		`CREATE TABLE IF NOT EXISTS status_checks (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			client_name TEXT NOT NULL,
			checked_at TEXT NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) SaveAnalysis(ctx context.Context, result *model.AnalysisResult) error {
	query, args, err := insertAnalysisQuery(result)
	if err != nil {
		return fmt.Errorf("build insert analysis: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecentAnalyses(ctx context.Context, limit int) ([]*model.AnalysisResult, error) {
	limit = ClampLimit(limit, DefaultAnalysesLimit, MaxAnalysesLimit)
	query, args, err := recentAnalysesQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("build list analyses: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var items []*model.AnalysisResult
	for rows.Next() {
		var (
			r                        model.AnalysisResult
			recs, personal, captions []byte
			analyzed                 string
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.Genre, &r.OverallSentiment, &r.CriticAnalysis,
			&r.AudienceSentiment, &r.Summary, &recs, &personal, &captions, &analyzed); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		if err := decodeAnalysisLists(&r, recs, personal, captions); err != nil {
			return nil, fmt.Errorf("decode analysis %s: %w", r.ID, err)
		}
		if r.Timestamp, err = model.ParseTimestamp(analyzed); err != nil {
			return nil, fmt.Errorf("parse timestamp of %s: %w", r.ID, err)
		}
		items = append(items, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) SaveStatusCheck(ctx context.Context, check *model.StatusCheck) error {
	query, args, err := psql.Insert(statusChecksTable).
		Columns("id", "client_name", "checked_at").
		Values(check.ID, check.ClientName, model.FormatTimestamp(check.Timestamp)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert status check: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert status check: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListStatusChecks(ctx context.Context, limit int) ([]*model.StatusCheck, error) {
	limit = ClampLimit(limit, MaxStatusChecks, MaxStatusChecks)
	query, args, err := psql.Select("id", "client_name", "checked_at").
		From(statusChecksTable).
		OrderBy("seq ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list status checks: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query status checks: %w", err)
	}
	defer rows.Close()

	var items []*model.StatusCheck
	for rows.Next() {
		var c model.StatusCheck
		var checked string
		if err := rows.Scan(&c.ID, &c.ClientName, &checked); err != nil {
			return nil, fmt.Errorf("scan status check: %w", err)
		}
		if c.Timestamp, err = model.ParseTimestamp(checked); err != nil {
			return nil, fmt.Errorf("parse timestamp of %s: %w", c.ID, err)
		}
		items = append(items, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return items, nil
}

func insertAnalysisQuery(r *model.AnalysisResult) (string, []any, error) {
	recs, err := json.Marshal(nonNil(r.Recommendations))
	if err != nil {
		return "", nil, err
	}
	personal, err := json.Marshal(nonNil(r.PersonalizedRecommendations))
	if err != nil {
		return "", nil, err
	}
	captions, err := json.Marshal(nonNil(r.InstagramCaptions))
	if err != nil {
		return "", nil, err
	}

	return psql.Insert(analysesTable).
		Columns(analysisColumns...).
		Values(r.ID, r.Title, r.Genre, r.OverallSentiment, r.CriticAnalysis, r.AudienceSentiment,
			r.Summary, string(recs), string(personal), string(captions), model.FormatTimestamp(r.Timestamp)).
		ToSql()
}

func recentAnalysesQuery(limit int) (string, []any, error) {
	// 定长 UTC 文本的字典序与时间序一致
	return psql.Select(analysisColumns...).
		From(analysesTable).
		OrderBy("analyzed_at DESC").
		Limit(uint64(limit)).
		ToSql()
}

func decodeAnalysisLists(r *model.AnalysisResult, recs, personal, captions []byte) error {
	r.Recommendations = []model.Recommendation{}
	r.PersonalizedRecommendations = []model.Recommendation{}
	r.InstagramCaptions = []string{}
	if err := json.Unmarshal(recs, &r.Recommendations); err != nil {
		return err
	}
	if err := json.Unmarshal(personal, &r.PersonalizedRecommendations); err != nil {
		return err
	}
	return json.Unmarshal(captions, &r.InstagramCaptions)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
