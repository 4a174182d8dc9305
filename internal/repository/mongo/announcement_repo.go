package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/markjakearzadon/announcements-gobackend/internal/models"
	"github.com/markjakearzadon/announcements-gobackend/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultCollectionName = "announcements"

type AnnouncementRepository struct {
	collection *mongo.Collection
}

func NewAnnouncementRepository(db *mongo.Database, collectionName string) *AnnouncementRepository {
	if collectionName == "" {
		collectionName = DefaultCollectionName
	}
	return &AnnouncementRepository{collection: db.Collection(collectionName)}
}

// announcementDocument is the stored shape. The id is the service generated
// UUID string, not an ObjectID.
type announcementDocument struct {
	ID          string             `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	CreatedAt   primitive.DateTime `bson:"created_at"`
}

func toDocument(a *models.Announcement) *announcementDocument {
	return &announcementDocument{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		CreatedAt:   primitive.NewDateTimeFromTime(a.CreatedAt),
	}
}

func toModel(doc *announcementDocument) *models.Announcement {
	return &models.Announcement{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		CreatedAt:   doc.CreatedAt.Time().UTC(),
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", repository.ErrStoreUnavailable, op, err)
}

// EnsureIndexes creates the created_at index used for newest-first reads.
func (r *AnnouncementRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("created_at_desc"),
	})
	if err != nil {
		return unavailable("create created_at index", err)
	}
	return nil
}

func (r *AnnouncementRepository) ListAll(ctx context.Context) ([]*models.Announcement, error) {
	cur, err := r.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, unavailable("find announcements", err)
	}
	defer cur.Close(ctx)

	var docs []announcementDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable("decode announcements", err)
	}

	announcements := make([]*models.Announcement, 0, len(docs))
	for i := range docs {
		announcements = append(announcements, toModel(&docs[i]))
	}
	return announcements, nil
}

func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	var doc announcementDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, unavailable("find announcement", err)
	}
	return toModel(&doc), nil
}

func (r *AnnouncementRepository) Insert(ctx context.Context, announcement *models.Announcement) error {
	if _, err := r.collection.InsertOne(ctx, toDocument(announcement)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("announcement %s already exists: %w", announcement.ID, err)
		}
		return unavailable("insert announcement", err)
	}
	return nil
}

func (r *AnnouncementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	update := bson.M{
		"$set": bson.M{
			"title":       announcement.Title,
			"description": announcement.Description,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": announcement.ID}, update)
	if err != nil {
		return unavailable("update announcement", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, unavailable("delete announcement", err)
	}
	return res.DeletedCount > 0, nil
}
