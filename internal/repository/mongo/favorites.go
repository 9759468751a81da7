package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mediahub/discoveryservice/internal/domain"
)

type FavoriteRepository struct {
	collection *mongo.Collection
}

type favoriteDoc struct {
	ID       string    `bson:"_id"`
	UserID   string    `bson:"userId"`
	ItemID   string    `bson:"itemId"`
	Category string    `bson:"category"`
	Item     bson.M    `bson:"item"`
	AddedAt  time.Time `bson:"addedAt"`
}

func NewFavoriteRepository(client *mongo.Client, dbName, collectionName string) *FavoriteRepository {
	return &FavoriteRepository{collection: client.Database(dbName).Collection(collectionName)}
}

func Connect(ctx context.Context, uri string, extra ...*options.ClientOptions) (*mongo.Client, error) {
	opts := append([]*options.ClientOptions{options.Client().ApplyURI(uri)}, extra...)
	client, err := mongo.Connect(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the unique (user, item, category) index that backs
// duplicate detection, plus the listing index.
func (r *FavoriteRepository) EnsureIndexes(ctx context.Context) error {
	if r == nil || r.collection == nil {
		return nil
	}
	models := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "itemId", Value: 1},
				{Key: "category", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("user_item_category"),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "addedAt", Value: -1}}},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, models)
	return err
}

func (r *FavoriteRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, nil)
}

// Insert adds the entry unless the user already saved the same item in the
// same category. The upsert only writes on insert, so a concurrent duplicate
// either matches the existing document or trips the unique index.
func (r *FavoriteRepository) Insert(ctx context.Context, entry domain.FavoriteEntry) error {
	doc := toFavoriteDoc(entry)
	filter := bson.M{
		"userId":   doc.UserID,
		"itemId":   doc.ItemID,
		"category": doc.Category,
	}
	update := bson.M{"$setOnInsert": doc}

	res, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	if res.UpsertedCount == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, userID, itemID string, category domain.Category) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{
		"userId":   userID,
		"itemId":   itemID,
		"category": string(category),
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) List(ctx context.Context, filter domain.FavoriteFilter) ([]domain.FavoriteEntry, error) {
	query := bson.M{"userId": filter.UserID}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []favoriteDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.FavoriteEntry, 0, len(docs))
	for _, doc := range docs {
		out = append(out, fromFavoriteDoc(doc))
	}
	return out, nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, itemID string, category domain.Category) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"userId":   userID,
		"itemId":   itemID,
		"category": string(category),
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func toFavoriteDoc(entry domain.FavoriteEntry) favoriteDoc {
	item := bson.M{}
	for key, value := range entry.Item {
		item[key] = value
	}
	return favoriteDoc{
		ID:       entry.ID,
		UserID:   entry.UserID,
		ItemID:   entry.ItemID,
		Category: string(entry.Category),
		Item:     item,
		AddedAt:  entry.AddedAt.UTC(),
	}
}

func fromFavoriteDoc(doc favoriteDoc) domain.FavoriteEntry {
	item, _ := normalizeBSON(map[string]any(doc.Item)).(map[string]any)
	return domain.FavoriteEntry{
		ID:       doc.ID,
		UserID:   doc.UserID,
		ItemID:   doc.ItemID,
		Category: domain.Category(doc.Category),
		Item:     item,
		AddedAt:  doc.AddedAt.UTC(),
	}
}

// normalizeBSON converts decoded driver types back into plain JSON-shaped
// values.
func normalizeBSON(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, nested := range typed {
			out[key] = normalizeBSON(nested)
		}
		return out
	case primitive.M:
		return normalizeBSON(map[string]any(typed))
	case primitive.D:
		out := make(map[string]any, len(typed))
		for _, elem := range typed {
			out[elem.Key] = normalizeBSON(elem.Value)
		}
		return out
	case primitive.A:
		return normalizeBSON([]any(typed))
	case []any:
		out := make([]any, len(typed))
		for i, nested := range typed {
			out[i] = normalizeBSON(nested)
		}
		return out
	case primitive.DateTime:
		return typed.Time().UTC()
	case primitive.ObjectID:
		return typed.Hex()
	default:
		return value
	}
}
