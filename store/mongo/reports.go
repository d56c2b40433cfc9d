package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/life-lessons/api-go/models"
)

type reportStore struct {
	coll *mongo.Collection
}

func (s *reportStore) List(ctx context.Context) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find reports: %w", err)
	}
	var docs []reportDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	reports := make([]models.Report, 0, len(docs))
	for i := range docs {
		reports = append(reports, docs[i].toDomain())
	}
	return reports, nil
}

func (s *reportStore) FindByLessonAndReporter(ctx context.Context, lessonID, reporterUserID string) (*models.Report, error) {
	var doc reportDocument
	err := s.coll.FindOne(ctx, bson.M{"lessonId": lessonID, "reporterUserId": reporterUserID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	report := doc.toDomain()
	return &report, nil
}

func (s *reportStore) Create(ctx context.Context, report *models.Report) error {
	doc := reportDocument{
		LessonID:       report.LessonID,
		ReporterUserID: report.ReporterUserID,
		ReporterEmail:  report.ReporterEmail,
		Reason:         report.Reason,
		Status:         report.Status,
		CreatedAt:      report.CreatedAt,
	}
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrAlreadyExists
		}
		return fmt.Errorf("insert report: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		report.ID = oid.Hex()
	}
	return nil
}

func (s *reportStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}
