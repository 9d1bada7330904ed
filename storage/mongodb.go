package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cvedex/core"
	"cvedex/metrics"
	"cvedex/search"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Cursor interface for mocking
type Cursor interface {
	All(ctx context.Context, results interface{}) error
	Close(ctx context.Context) error
}

// SingleResult interface for mocking
type SingleResult interface {
	Decode(v interface{}) error
}

// Collection is the subset of *mongo.Collection the store reads through.
type Collection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) SingleResult
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (Cursor, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

// mongoCollection adapts *mongo.Collection to Collection
type mongoCollection struct {
	*mongo.Collection
}

func (m *mongoCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	cursor, err := m.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return cursor, nil
}

func (m *mongoCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) SingleResult {
	return m.Collection.FindOne(ctx, filter, opts...)
}

func (m *mongoCollection) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (Cursor, error) {
	cursor, err := m.Collection.Aggregate(ctx, pipeline, opts...)
	if err != nil {
		return nil, err
	}
	return cursor, nil
}

// MongoDB holds the MongoDB client and database
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoDB creates a new MongoDB connection
func NewMongoDB(uri, dbName string, maxPoolSize uint64, timeout time.Duration, logger *zap.SugaredLogger) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri).SetMaxPoolSize(maxPoolSize)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Infow("Connected to MongoDB successfully", "database", dbName)

	return &MongoDB{
		Client:   client,
		Database: client.Database(dbName),
	}, nil
}

// MongoStore implements Store over the cves, vendors and products
// collections.
type MongoStore struct {
	mongoDB         *MongoDB
	Vulnerabilities Collection
	Vendors         Collection
	Products        Collection
	logger          *zap.SugaredLogger
}

// NewMongoStore wires the collections of an open connection.
func NewMongoStore(db *MongoDB, logger *zap.SugaredLogger) *MongoStore {
	return &MongoStore{
		mongoDB:         db,
		Vulnerabilities: &mongoCollection{db.Database.Collection(VulnerabilitiesCollection)},
		Vendors:         &mongoCollection{db.Database.Collection(VendorsCollection)},
		Products:        &mongoCollection{db.Database.Collection(ProductsCollection)},
		logger:          logger,
	}
}

// HealthCheck performs a health check on the MongoDB connection
func (s *MongoStore) HealthCheck(ctx context.Context) error {
	if s.mongoDB == nil {
		return errors.New("mongodb not connected")
	}
	return s.mongoDB.Client.Ping(ctx, nil)
}

// Close closes the MongoDB connection
func (s *MongoStore) Close(ctx context.Context) error {
	if s.mongoDB == nil {
		return nil
	}
	return s.mongoDB.Client.Disconnect(ctx)
}

func (s *MongoStore) fail(op string, err error) error {
	metrics.StorageErrors.WithLabelValues("mongodb", op).Inc()
	s.logger.Errorw("MongoDB operation failed", "operation", op, "error", err)
	return core.Upstream(op, err)
}

func (s *MongoStore) count(ctx context.Context, coll Collection, op string, filter *search.ASTNode) (int64, error) {
	q, err := translateFilter(filter)
	if err != nil {
		return 0, core.InvalidArgumentf("%s: %v", op, err)
	}
	n, err := coll.CountDocuments(ctx, q)
	if err != nil {
		return 0, s.fail(op, err)
	}
	return n, nil
}

// find runs a query and decodes every document into results.
func (s *MongoStore) find(ctx context.Context, coll Collection, op string, filter *search.ASTNode, opts FindOptions, results interface{}) error {
	q, err := translateFilter(filter)
	if err != nil {
		return core.InvalidArgumentf("%s: %v", op, err)
	}

	findOpts := options.Find()
	if sort := translateSort(opts.Sort); sort != nil {
		findOpts.SetSort(sort)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if proj := translateProjection(opts.Fields); proj != nil {
		findOpts.SetProjection(proj)
	}

	cursor, err := coll.Find(ctx, q, findOpts)
	if err != nil {
		return s.fail(op, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		return s.fail(op, err)
	}
	return nil
}

func (s *MongoStore) findOne(ctx context.Context, coll Collection, op string, filter bson.M, result interface{}) (bool, error) {
	err := coll.FindOne(ctx, filter).Decode(result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, s.fail(op, err)
	}
	return true, nil
}

// CountVulnerabilities counts records matching filter
func (s *MongoStore) CountVulnerabilities(ctx context.Context, filter *search.ASTNode) (int64, error) {
	return s.count(ctx, s.Vulnerabilities, "count_vulnerabilities", filter)
}

// FindVulnerabilities returns one page of matching records
func (s *MongoStore) FindVulnerabilities(ctx context.Context, filter *search.ASTNode, opts FindOptions) ([]core.Vulnerability, error) {
	var docs []vulnerabilityDoc
	if err := s.find(ctx, s.Vulnerabilities, "find_vulnerabilities", filter, opts, &docs); err != nil {
		return nil, err
	}
	out := make([]core.Vulnerability, len(docs))
	for i := range docs {
		out[i] = docs[i].toCore()
	}
	return out, nil
}

// GetVulnerability looks a record up by CVE id
func (s *MongoStore) GetVulnerability(ctx context.Context, cveID string) (*core.Vulnerability, error) {
	var doc vulnerabilityDoc
	found, err := s.findOne(ctx, s.Vulnerabilities, "get_vulnerability", bson.M{search.FieldCVEID: cveID}, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, core.NotFoundf("vulnerability %s", cveID)
	}
	v := doc.toCore()
	return &v, nil
}

// AggregateVulnerabilityBuckets groups dated records by period
func (s *MongoStore) AggregateVulnerabilityBuckets(ctx context.Context, filter *search.ASTNode, period search.Period) ([]search.Bucket, error) {
	const op = "aggregate_vulnerability_buckets"
	q, err := translateFilter(filter)
	if err != nil {
		return nil, core.InvalidArgumentf("%s: %v", op, err)
	}

	cursor, err := s.Vulnerabilities.Aggregate(ctx, bucketPipeline(q, period))
	if err != nil {
		return nil, s.fail(op, err)
	}
	defer cursor.Close(ctx)

	var docs []bucketDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, s.fail(op, err)
	}

	out := make([]search.Bucket, len(docs))
	for i, d := range docs {
		out[i] = search.Bucket{
			Year:     d.ID.Year,
			Month:    d.ID.Month,
			Day:      d.ID.Day,
			Week:     d.ID.Week,
			Count:    d.Count,
			AvgScore: d.AvgScore,
		}
	}
	return out, nil
}

// CountVendors counts vendors matching filter
func (s *MongoStore) CountVendors(ctx context.Context, filter *search.ASTNode) (int64, error) {
	return s.count(ctx, s.Vendors, "count_vendors", filter)
}

// FindVendors returns one page of matching vendors
func (s *MongoStore) FindVendors(ctx context.Context, filter *search.ASTNode, opts FindOptions) ([]core.Vendor, error) {
	var docs []vendorDoc
	if err := s.find(ctx, s.Vendors, "find_vendors", filter, opts, &docs); err != nil {
		return nil, err
	}
	out := make([]core.Vendor, len(docs))
	for i := range docs {
		out[i] = docs[i].toCore()
	}
	return out, nil
}

// GetVendor looks a vendor up by id
func (s *MongoStore) GetVendor(ctx context.Context, id string) (*core.Vendor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, core.NotFoundf("vendor %s", id)
	}
	var doc vendorDoc
	found, err := s.findOne(ctx, s.Vendors, "get_vendor", bson.M{"_id": oid}, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, core.NotFoundf("vendor %s", id)
	}
	v := doc.toCore()
	return &v, nil
}

// CountProducts counts products matching filter
func (s *MongoStore) CountProducts(ctx context.Context, filter *search.ASTNode) (int64, error) {
	return s.count(ctx, s.Products, "count_products", filter)
}

// FindProducts returns one page of matching products
func (s *MongoStore) FindProducts(ctx context.Context, filter *search.ASTNode, opts FindOptions) ([]core.Product, error) {
	var docs []productDoc
	if err := s.find(ctx, s.Products, "find_products", filter, opts, &docs); err != nil {
		return nil, err
	}
	out := make([]core.Product, len(docs))
	for i := range docs {
		out[i] = docs[i].toCore()
	}
	return out, nil
}

// GetProduct looks a product up by id
func (s *MongoStore) GetProduct(ctx context.Context, id string) (*core.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, core.NotFoundf("product %s", id)
	}
	var doc productDoc
	found, err := s.findOne(ctx, s.Products, "get_product", bson.M{"_id": oid}, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, core.NotFoundf("product %s", id)
	}
	p := doc.toCore()
	return &p, nil
}
