package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/model"
)

// DefaultMongoDatabase 未配置数据库名时使用
const DefaultMongoDatabase = "cinemind"

// analysisDoc movie_analyses 集合中的文档，timestamp 存为定长文本
type analysisDoc struct {
	ID                          string                 `bson:"id"`
	Title                       string                 `bson:"movie_title"`
	Genre                       string                 `bson:"genre"`
	OverallSentiment            string                 `bson:"overall_sentiment"`
	CriticAnalysis              string                 `bson:"critic_analysis"`
	AudienceSentiment           string                 `bson:"audience_sentiment"`
	Summary                     string                 `bson:"summary"`
	Recommendations             []model.Recommendation `bson:"recommendations"`
	PersonalizedRecommendations []model.Recommendation `bson:"personalized_recommendations"`
	InstagramCaptions           []string               `bson:"instagram_captions"`
	Timestamp                   string                 `bson:"timestamp"`
}

// statusCheckDoc status_checks 集合中的文档
type statusCheckDoc struct {
	ID         string `bson:"id"`
	ClientName string `bson:"client_name"`
	Timestamp  string `bson:"timestamp"`
}

// MongoStore 基于 MongoDB 的文档存储
type MongoStore struct {
	client   *mongo.Client
	analyses *mongo.Collection
	checks   *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore 连接 MongoDB
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	if database == "" {
		database = DefaultMongoDatabase
	}
	db := client.Database(database)
	return &MongoStore{
		client:   client,
		analyses: db.Collection(analysesTable),
		checks:   db.Collection(statusChecksTable),
	}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) SaveAnalysis(ctx context.Context, result *model.AnalysisResult) error {
	if _, err := s.analyses.InsertOne(ctx, toAnalysisDoc(result)); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (s *MongoStore) ListRecentAnalyses(ctx context.Context, limit int) ([]*model.AnalysisResult, error) {
	limit = ClampLimit(limit, DefaultAnalysesLimit, MaxAnalysesLimit)
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"_id": 0})

	cur, err := s.analyses.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find analyses: %w", err)
	}
	var docs []analysisDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode analyses: %w", err)
	}

	items := make([]*model.AnalysisResult, 0, len(docs))
	for i := range docs {
		r, err := docs[i].toResult()
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, nil
}

func (s *MongoStore) SaveStatusCheck(ctx context.Context, check *model.StatusCheck) error {
	doc := statusCheckDoc{ID: check.ID, ClientName: check.ClientName, Timestamp: model.FormatTimestamp(check.Timestamp)}
	if _, err := s.checks.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert status check: %w", err)
	}
	return nil
}

func (s *MongoStore) ListStatusChecks(ctx context.Context, limit int) ([]*model.StatusCheck, error) {
	limit = ClampLimit(limit, MaxStatusChecks, MaxStatusChecks)
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"_id": 0})

	cur, err := s.checks.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find status checks: %w", err)
	}
	var docs []statusCheckDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode status checks: %w", err)
	}

	items := make([]*model.StatusCheck, 0, len(docs))
	for _, d := range docs {
		ts, err := model.ParseTimestamp(d.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp of %s: %w", d.ID, err)
		}
		items = append(items, &model.StatusCheck{ID: d.ID, ClientName: d.ClientName, Timestamp: ts})
	}
	return items, nil
}

func toAnalysisDoc(r *model.AnalysisResult) analysisDoc {
	return analysisDoc{
		ID:                          r.ID,
		Title:                       r.Title,
		Genre:                       r.Genre,
		OverallSentiment:            r.OverallSentiment,
		CriticAnalysis:              r.CriticAnalysis,
		AudienceSentiment:           r.AudienceSentiment,
		Summary:                     r.Summary,
		Recommendations:             nonNil(r.Recommendations),
		PersonalizedRecommendations: nonNil(r.PersonalizedRecommendations),
		InstagramCaptions:           nonNil(r.InstagramCaptions),
		Timestamp:                   model.FormatTimestamp(r.Timestamp),
	}
}

func (d *analysisDoc) toResult() (*model.AnalysisResult, error) {
	ts, err := model.ParseTimestamp(d.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp of %s: %w", d.ID, err)
	}
	return &model.AnalysisResult{
		ID:                          d.ID,
		Title:                       d.Title,
		Genre:                       d.Genre,
		OverallSentiment:            d.OverallSentiment,
		CriticAnalysis:              d.CriticAnalysis,
		AudienceSentiment:           d.AudienceSentiment,
		Summary:                     d.Summary,
		Recommendations:             nonNil(d.Recommendations),
		PersonalizedRecommendations: nonNil(d.PersonalizedRecommendations),
		InstagramCaptions:           nonNil(d.InstagramCaptions),
		Timestamp:                   ts,
	}, nil
}
