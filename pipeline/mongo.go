package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-scrape-drinks/config"
	"github.com/aluiziolira/go-scrape-drinks/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoWriter writes records to a MongoDB collection.
type MongoWriter struct {
	client     *mongo.Client
	collection *mongo.Collection
	mode       string
	count      int
}

// NewMongoWriter connects to uri and verifies the server is reachable.
func NewMongoWriter(uri, database, collection, mode string) (*MongoWriter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoWriter{
		client:     client,
		collection: client.Database(database).Collection(collection),
		mode:       mode,
	}, nil
}

func (mw *MongoWriter) Write(records []*models.ProductRecord) error {
	if len(records) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	docs := make([]any, 0, len(records))
	for _, r := range records {
		doc, err := productDocument(r)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	if mw.mode == config.ModeUpdate {
		for _, doc := range docs {
			d := doc.(bson.M)
			_, err := mw.collection.UpdateOne(ctx,
				bson.M{"url": d["url"]},
				bson.M{"$set": d},
				options.Update().SetUpsert(true),
			)
			if err != nil {
				return fmt.Errorf("mongodb upsert %v: %w", d["url"], err)
			}
		}
	} else if _, err := mw.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("mongodb insert: %w", err)
	}

	mw.count += len(records)
	slog.Debug("records stored in mongodb", slog.Int("count", len(records)), slog.Int("total", mw.count))
	return nil
}

func (mw *MongoWriter) Close() error {
	slog.Info("mongodb writer closing", slog.Int("total_records", mw.count))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return mw.client.Disconnect(ctx)
}

func (mw *MongoWriter) Validate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mw.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping: %w", err)
	}
	return nil
}

func productDocument(r *models.ProductRecord) (bson.M, error) {
	price, err := primitive.ParseDecimal128(r.Price.StringFixed(2))
	if err != nil {
		return nil, fmt.Errorf("encode price %s: %w", r.Price, err)
	}
	return bson.M{
		"retailer":        r.Retailer.String(),
		"brand":           r.Brand,
		"name":            r.Name,
		"price":           price,
		"url":             r.URL,
		"volume_liters":   r.VolumeLiters,
		"alcohol_percent": r.AlcoholPercent,
		"standard_drinks": r.StandardDrinks,
		"efficiency":      r.Efficiency,
		"image_url":       r.ImageURL,
		"scraped_at":      r.ScrapedAt,
	}, nil
}
