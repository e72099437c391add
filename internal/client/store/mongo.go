package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"accountdesk/internal/client/models"
	"accountdesk/pkg/domain"
	"accountdesk/pkg/platform/sentinel"
)

// CollectionClients is the MongoDB collection holding client documents.
const CollectionClients = "clients"

// MongoStore persists clients as documents; income is kept as Decimal128 so the
// stored value matches what the classifier saw.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongo constructs a MongoDB-backed client store on db.
func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(CollectionClients)}
}

type clientDocument struct {
	ID           string          `bson:"_id"`
	Name         string          `bson:"name"`
	TaxID        string          `bson:"tax_id"`
	Income       bson.Decimal128 `bson:"income"`
	Region       string          `bson:"region"`
	BirthDate    time.Time       `bson:"birth_date"`
	RegisteredAt time.Time       `bson:"registered_at"`
	Segment      string          `bson:"segment"`
	ManagerName  string          `bson:"manager_name"`
	ManagerID    string          `bson:"manager_id"`
}

var registrationOrder = bson.D{{Key: "registered_at", Value: 1}, {Key: "_id", Value: 1}}

// EnsureIndexes creates the segment index used by segment reports.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "segment", Value: 1}, {Key: "registered_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create client indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, client *models.Client) error {
	doc, err := toClientDocument(client)
	if err != nil {
		return err
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id domain.ClientID) (*models.Client, error) {
	var doc clientDocument
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find client by id: %w", err)
	}
	return fromClientDocument(doc)
}

func (s *MongoStore) FindByIDs(ctx context.Context, ids []domain.ClientID) ([]*models.Client, error) {
	raw := make(bson.A, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}
	cursor, err := s.coll.Find(ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: raw}}}},
		options.Find().SetSort(registrationOrder))
	if err != nil {
		return nil, fmt.Errorf("find clients by ids: %w", err)
	}
	var docs []clientDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}
	clients := make([]*models.Client, 0, len(docs))
	for _, doc := range docs {
		c, err := fromClientDocument(doc)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, nil
}

// Each walks the cursor one document at a time.
func (s *MongoStore) Each(ctx context.Context, segment domain.Segment, yield func(*models.Client) bool) error {
	filter := bson.D{}
	if segment != "" {
		filter = bson.D{{Key: "segment", Value: segment.String()}}
	}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(registrationOrder))
	if err != nil {
		return fmt.Errorf("list clients: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc clientDocument
		if err := cursor.Decode(&doc); err != nil {
			return fmt.Errorf("decode client: %w", err)
		}
		c, err := fromClientDocument(doc)
		if err != nil {
			return err
		}
		if !yield(c) {
			return nil
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("iterate clients: %w", err)
	}
	return nil
}

func (s *MongoStore) Count(ctx context.Context) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return int(n), nil
}

func toClientDocument(c *models.Client) (clientDocument, error) {
	income, err := bson.ParseDecimal128(c.Income.String())
	if err != nil {
		return clientDocument{}, fmt.Errorf("encode income %s: %w", c.Income, err)
	}
	return clientDocument{
		ID:           c.ID.String(),
		Name:         c.Name,
		TaxID:        c.TaxID,
		Income:       income,
		Region:       c.Region.String(),
		BirthDate:    c.BirthDate,
		RegisteredAt: c.RegisteredAt,
		Segment:      c.Segment.String(),
		ManagerName:  c.ManagerName,
		ManagerID:    c.ManagerID.String(),
	}, nil
}

func fromClientDocument(doc clientDocument) (*models.Client, error) {
	clientID, err := domain.ParseClientID(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parse client id %q: %w", doc.ID, err)
	}
	managerID, err := domain.ParseManagerID(doc.ManagerID)
	if err != nil {
		return nil, fmt.Errorf("parse manager id %q: %w", doc.ManagerID, err)
	}
	income, err := decimal.NewFromString(doc.Income.String())
	if err != nil {
		return nil, fmt.Errorf("decode income for client %s: %w", doc.ID, err)
	}
	return &models.Client{
		ID:           clientID,
		Name:         doc.Name,
		TaxID:        doc.TaxID,
		Income:       income,
		Region:       domain.Region(doc.Region),
		BirthDate:    doc.BirthDate,
		RegisteredAt: doc.RegisteredAt,
		Segment:      domain.Segment(doc.Segment),
		ManagerName:  doc.ManagerName,
		ManagerID:    managerID,
	}, nil
}
