package services

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"lostfound-server/models"
	"lostfound-server/utils/errors"
)

// earthRadiusKm converts a kilometre radius into the angular radius
// $centerSphere expects. Must stay in sync with documents indexed under
// the same constant.
const earthRadiusKm = 6378.1

const cacheTTL = 24 * time.Hour

// ItemService persists lost/found items in MongoDB. The Redis client is
// optional; when present, get-by-id reads through it.
type ItemService struct {
	collection  *mongo.Collection
	redisClient *redis.Client
}

// CreateItemInput carries the caller-supplied fields for a new item.
type CreateItemInput struct {
	Name        string
	Email       string
	Phoneno     string
	Title       string
	Description string
	Image       string
	Tags        []string
	Location    *models.GeoPoint
}

func NewItemService(client *mongo.Client, dbName string, redisClient *redis.Client) *ItemService {
	collection := client.Database(dbName).Collection("items")

	// Ensure the 2dsphere index backing radius queries
	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	}
	_, err := collection.Indexes().CreateOne(context.Background(), indexModel)
	if err != nil {
		log.Printf("Failed to create 2dsphere index on items: %v", err)
	}

	return &ItemService{
		collection:  collection,
		redisClient: redisClient,
	}
}

// Create validates the required fields and inserts a new item. Location
// defaults to (0,0) when the caller supplies none.
func (s *ItemService) Create(ctx context.Context, input CreateItemInput) (models.Item, error) {
	for _, field := range []string{input.Name, input.Email, input.Phoneno, input.Title, input.Description} {
		if strings.TrimSpace(field) == "" {
			return models.Item{}, errors.ErrMissingFields
		}
	}

	now := time.Now().UTC()
	item := models.Item{
		Name:        input.Name,
		Email:       input.Email,
		Phoneno:     input.Phoneno,
		Title:       input.Title,
		Description: input.Description,
		Image:       input.Image,
		Tags:        input.Tags,
		Location:    models.NewGeoPoint(0, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Location != nil {
		item.Location = *input.Location
	}

	result, err := s.collection.InsertOne(ctx, item)
	if err != nil {
		return models.Item{}, err
	}
	item.ID = result.InsertedID.(primitive.ObjectID)

	return item, nil
}

// ListAll returns every stored item in store-native order.
func (s *ItemService) ListAll(ctx context.Context) ([]models.Item, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID retrieves an item from Redis or MongoDB
func (s *ItemService) GetByID(ctx context.Context, id string) (models.Item, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Item{}, errors.ErrInvalidID
	}

	var item models.Item

	// Check Redis first
	if s.redisClient != nil {
		itemJSON, err := s.redisClient.Get(ctx, "item:"+id).Result()
		if err == nil {
			if err := json.Unmarshal([]byte(itemJSON), &item); err != nil {
				log.Printf("Failed to unmarshal cached item %s: %v", id, err)
			} else {
				return item, nil
			}
		}
	}

	err = s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Item{}, errors.ErrItemNotFound
		}
		return models.Item{}, err
	}

	// Cache in Redis; items never change after create
	if s.redisClient != nil {
		itemJSONBytes, err := json.Marshal(item)
		if err == nil {
			s.redisClient.Set(ctx, "item:"+id, itemJSONBytes, cacheTTL)
		}
	}

	return item, nil
}

// DeleteByID removes an item permanently. Deleting a missing id reports
// not-found rather than silently succeeding.
func (s *ItemService) DeleteByID(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.ErrInvalidID
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return errors.ErrItemNotFound
	}

	if s.redisClient != nil {
		if err := s.redisClient.Del(ctx, "item:"+id).Err(); err != nil {
			log.Printf("Failed to evict item %s from Redis: %v", id, err)
		}
	}

	return nil
}

// TextSearch returns items whose title or description contains the query,
// case-insensitively.
func (s *ItemService) TextSearch(ctx context.Context, query string) ([]models.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.ErrEmptyQuery
	}

	cursor, err := s.collection.Find(ctx, textSearchFilter(query))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// textSearchFilter builds the title/description substring filter. The
// query is user-supplied free text, so regex metacharacters are escaped
// before it is used as a pattern.
func textSearchFilter(query string) bson.M {
	pattern := regexp.QuoteMeta(query)
	return bson.M{
		"$or": []bson.M{
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"description": bson.M{"$regex": pattern, "$options": "i"}},
		},
	}
}

// RadiusSearch returns items whose location lies within radiusKm of the
// given center.
func (s *ItemService) RadiusSearch(ctx context.Context, lng, lat, radiusKm float64) ([]models.Item, error) {
	cursor, err := s.collection.Find(ctx, radiusFilter(lng, lat, radiusKm))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// radiusFilter builds the $centerSphere containment filter, longitude
// first.
func radiusFilter(lng, lat, radiusKm float64) bson.M {
	return bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": []interface{}{
					[]float64{lng, lat},
					radiusKm / earthRadiusKm,
				},
			},
		},
	}
}
