package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"accountdesk/internal/manager/models"
	"accountdesk/pkg/domain"
	"accountdesk/pkg/platform/sentinel"
)

// CollectionManagers is the MongoDB collection holding manager documents.
const CollectionManagers = "managers"

// MongoStore persists managers as documents with an embedded roster array;
// AddClient relies on $addToSet for set semantics.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongo constructs a MongoDB-backed manager store on db.
func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(CollectionManagers)}
}

type managerDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Region    string    `bson:"region"`
	Segment   string    `bson:"segment"`
	Clients   []string  `bson:"clients"`
	CreatedAt time.Time `bson:"created_at"`
}

// EnsureIndexes creates the lookup indexes used by candidate selection and name lookups.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "segment", Value: 1}, {Key: "region", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create manager indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, manager *models.Manager) error {
	if _, err := s.coll.InsertOne(ctx, toManagerDocument(manager)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create manager: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id domain.ManagerID) (*models.Manager, error) {
	return s.findOne(ctx, "find manager by id", bson.D{{Key: "_id", Value: id.String()}})
}

func (s *MongoStore) FindByName(ctx context.Context, name string) (*models.Manager, error) {
	return s.findOne(ctx, "find manager by name", bson.D{{Key: "name", Value: name}},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
}

func (s *MongoStore) FindByRegionAndSegment(ctx context.Context, region domain.Region, segment domain.Segment) ([]*models.Manager, error) {
	filter := bson.D{
		{Key: "segment", Value: segment.String()},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "region", Value: region.String()}},
			bson.D{{Key: "region", Value: domain.RegionGeneral.String()}},
		}},
	}
	return s.find(ctx, "find candidate managers", filter)
}

func (s *MongoStore) AddClient(ctx context.Context, managerID domain.ManagerID, clientID domain.ClientID) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: managerID.String()}},
		bson.D{{Key: "$addToSet", Value: bson.D{{Key: "clients", Value: clientID.String()}}}},
	)
	if err != nil {
		return fmt.Errorf("add client to manager: %w", err)
	}
	if res.MatchedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *MongoStore) DistinctSegments(ctx context.Context) ([]domain.Segment, error) {
	var raw []string
	if err := s.coll.Distinct(ctx, "segment", bson.D{}).Decode(&raw); err != nil {
		return nil, fmt.Errorf("list manager segments: %w", err)
	}
	segments := make([]domain.Segment, 0, len(raw))
	for _, seg := range raw {
		segments = append(segments, domain.Segment(seg))
	}
	return segments, nil
}

func (s *MongoStore) List(ctx context.Context) ([]*models.Manager, error) {
	return s.find(ctx, "list managers", bson.D{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
}

func (s *MongoStore) findOne(ctx context.Context, op string, filter bson.D, opts ...options.Lister[options.FindOneOptions]) (*models.Manager, error) {
	var doc managerDocument
	if err := s.coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return fromManagerDocument(doc)
}

func (s *MongoStore) find(ctx context.Context, op string, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]*models.Manager, error) {
	cursor, err := s.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var docs []managerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	managers := make([]*models.Manager, 0, len(docs))
	for _, doc := range docs {
		m, err := fromManagerDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		managers = append(managers, m)
	}
	return managers, nil
}

func toManagerDocument(m *models.Manager) managerDocument {
	clients := make([]string, 0, len(m.Clients))
	for _, c := range m.Clients {
		clients = append(clients, c.String())
	}
	return managerDocument{
		ID:        m.ID.String(),
		Name:      m.Name,
		Region:    m.Region.String(),
		Segment:   m.Segment.String(),
		Clients:   clients,
		CreatedAt: m.CreatedAt,
	}
}

func fromManagerDocument(doc managerDocument) (*models.Manager, error) {
	managerID, err := domain.ParseManagerID(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parse manager id %q: %w", doc.ID, err)
	}
	clients := make([]domain.ClientID, 0, len(doc.Clients))
	for _, raw := range doc.Clients {
		clientID, err := domain.ParseClientID(raw)
		if err != nil {
			return nil, fmt.Errorf("parse roster client id %q: %w", raw, err)
		}
		clients = append(clients, clientID)
	}
	return &models.Manager{
		ID:        managerID,
		Name:      doc.Name,
		Region:    domain.Region(doc.Region),
		Segment:   domain.Segment(doc.Segment),
		Clients:   clients,
		CreatedAt: doc.CreatedAt,
	}, nil
}
