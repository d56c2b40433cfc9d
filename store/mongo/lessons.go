package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/life-lessons/api-go/models"
)

type lessonStore struct {
	coll *mongo.Collection
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.ErrInvalidID
	}
	return oid, nil
}

func substring(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func lessonQuery(f models.LessonFilter) bson.M {
	query := bson.M{}
	if f.Email != "" {
		query["email"] = f.Email
	}
	if f.Title != "" {
		query["title"] = substring(f.Title)
	}
	if f.Category != "" {
		query["category"] = substring(f.Category)
	}
	if f.Emotion != "" {
		query["emotion"] = substring(f.Emotion)
	}
	switch f.Visibility {
	case "":
	case models.VisibilityPublic:
		// Lessons written before visibility existed have no such field.
		query["visibility"] = bson.M{"$in": bson.A{models.VisibilityPublic, nil}}
	default:
		query["visibility"] = f.Visibility
	}
	if f.SavedBy != "" {
		query["savedBy"] = f.SavedBy
	}
	if f.Featured {
		query["isFeatured"] = true
	}
	return query
}

func (s *lessonStore) List(ctx context.Context, f models.LessonFilter) ([]models.Lesson, error) {
	opts := options.Find()
	switch f.Sort {
	case models.SortRecentlyUpdated:
		opts.SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "createdAt", Value: -1}})
	default:
		opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	}
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cursor, err := s.coll.Find(ctx, lessonQuery(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find lessons: %w", err)
	}
	var docs []lessonDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode lessons: %w", err)
	}

	lessons := make([]models.Lesson, 0, len(docs))
	for i := range docs {
		lessons = append(lessons, docs[i].toDomain())
	}
	return lessons, nil
}

func (s *lessonStore) Get(ctx context.Context, id string) (*models.Lesson, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc lessonDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("find lesson: %w", err)
	}
	lesson := doc.toDomain()
	return &lesson, nil
}

func (s *lessonStore) Create(ctx context.Context, lesson *models.Lesson) error {
	res, err := s.coll.InsertOne(ctx, toLessonDocument(lesson))
	if err != nil {
		return fmt.Errorf("insert lesson: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		lesson.ID = oid.Hex()
	}
	return nil
}

func (s *lessonStore) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Lesson, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc lessonDocument
	if err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("update lesson: %w", err)
	}
	lesson := doc.toDomain()
	return &lesson, nil
}

func (s *lessonStore) Update(ctx context.Context, id string, p models.LessonPatch) (*models.Lesson, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": p.UpdatedAt}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Emotion != nil {
		set["emotion"] = *p.Emotion
	}
	if p.AccessLevel != nil {
		set["accessLevel"] = *p.AccessLevel
	}
	if p.Visibility != nil {
		set["visibility"] = *p.Visibility
	}
	if p.Image != nil {
		set["image"] = *p.Image
	}

	return s.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
}

func engagementFields(set models.EngagementSet) (members, counter string, err error) {
	switch set {
	case models.SetReactions:
		return "reactedBy", "reactions", nil
	case models.SetSaves:
		return "savedBy", "saves", nil
	}
	return "", "", fmt.Errorf("unknown engagement set %q", set)
}

func (s *lessonStore) toggle(ctx context.Context, id string, set models.EngagementSet, member string, add bool) (int, bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, false, err
	}
	membersField, counterField, err := engagementFields(set)
	if err != nil {
		return 0, false, err
	}

	var filter, update bson.M
	if add {
		filter = bson.M{"_id": oid, membersField: bson.M{"$ne": member}}
		update = bson.M{
			"$addToSet": bson.M{membersField: member},
			"$inc":      bson.M{counterField: 1},
		}
	} else {
		filter = bson.M{"_id": oid, membersField: member}
		update = bson.M{
			"$pull": bson.M{membersField: member},
			"$inc":  bson.M{counterField: -1},
		}
	}

	lesson, err := s.findOneAndUpdate(ctx, filter, update)
	if errors.Is(err, models.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if set == models.SetReactions {
		return lesson.Reactions, true, nil
	}
	return lesson.Saves, true, nil
}

func (s *lessonStore) AddMember(ctx context.Context, id string, set models.EngagementSet, member string) (int, bool, error) {
	return s.toggle(ctx, id, set, member, true)
}

func (s *lessonStore) RemoveMember(ctx context.Context, id string, set models.EngagementSet, member string) (int, bool, error) {
	return s.toggle(ctx, id, set, member, false)
}

func (s *lessonStore) SetFlag(ctx context.Context, id string, flag models.ModerationFlag, value bool) (*models.Lesson, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	switch flag {
	case models.FlagFeatured, models.FlagReviewed:
	default:
		return nil, fmt.Errorf("%w: unknown flag %q", models.ErrInvalidInput, flag)
	}
	return s.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{string(flag): value}})
}

func (s *lessonStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *lessonStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}
