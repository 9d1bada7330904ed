package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"cvedex/core"
	"cvedex/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zaptest"
)

// MongoDB test container configuration
const (
	mongoImage                 = "mongo:7.0"
	mongoPort                  = "27017/tcp"
	mongoTestDatabase          = "cvedex_integration_test"
	mongoContainerStartTimeout = 120 * time.Second
)

// mongoFixture holds the ids of the seeded documents
type mongoFixture struct {
	microsoft primitive.ObjectID
	apache    primitive.ObjectID
	windows   primitive.ObjectID
	log4j     primitive.ObjectID
}

// setupMongoTestContainer starts MongoDB, connects a store to it and seeds
// the three collections. The container is terminated on cleanup.
func setupMongoTestContainer(t *testing.T) (*MongoStore, mongoFixture) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        mongoImage,
			ExposedPorts: []string{mongoPort},
			WaitingFor: wait.ForLog("Waiting for connections").
				WithStartupTimeout(mongoContainerStartTimeout),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start MongoDB container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate MongoDB container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err, "Failed to get container host")
	port, err := container.MappedPort(ctx, mongoPort)
	require.NoError(t, err, "Failed to get mapped port")

	uri := fmt.Sprintf("mongodb://%s:%s", host, port.Port())
	logger := zaptest.NewLogger(t).Sugar()
	db, err := NewMongoDB(uri, mongoTestDatabase, 5, 30*time.Second, logger)
	require.NoError(t, err, "Failed to connect to MongoDB container")

	store := NewMongoStore(db, logger)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	return store, seedMongo(t, db)
}

func seedMongo(t *testing.T, db *MongoDB) mongoFixture {
	t.Helper()
	ctx := context.Background()
	fx := mongoFixture{
		microsoft: primitive.NewObjectID(),
		apache:    primitive.NewObjectID(),
		windows:   primitive.NewObjectID(),
		log4j:     primitive.NewObjectID(),
	}
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	}

	_, err := db.Database.Collection(VendorsCollection).InsertMany(ctx, []interface{}{
		bson.M{"_id": fx.microsoft, "name": "Microsoft", "productCount": 1, "cveCount": 1},
		bson.M{"_id": fx.apache, "name": "Apache", "productCount": 1, "cveCount": 2},
	})
	require.NoError(t, err)

	_, err = db.Database.Collection(ProductsCollection).InsertMany(ctx, []interface{}{
		bson.M{"_id": fx.windows, "name": "Windows 10", "vendor": fx.microsoft, "vendorName": "Microsoft", "cveCount": 1},
		bson.M{"_id": fx.log4j, "name": "log4j", "vendor": fx.apache, "vendorName": "Apache", "cveCount": 2},
	})
	require.NoError(t, err)

	_, err = db.Database.Collection(VulnerabilitiesCollection).InsertMany(ctx, []interface{}{
		bson.M{
			"cveId":         "CVE-2021-44228",
			"description":   "Apache Log4j2 JNDI features allow (remote) code execution",
			"cvssScore":     10.0,
			"publishedDate": date(2021, time.December, 10),
			"problemType":   bson.A{bson.M{"cweId": "CWE-502"}},
			"affectedProducts": bson.A{bson.M{
				"product": fx.log4j, "vendor": fx.apache,
				"productName": "log4j", "vendorName": "Apache",
			}},
		},
		bson.M{
			"cveId":         "CVE-2021-0001",
			"description":   "remote attackers crash the c++ parser",
			"cvssScore":     5.0,
			"publishedDate": date(2021, time.January, 3),
			"affectedProducts": bson.A{bson.M{
				"product": fx.log4j, "vendor": fx.apache,
				"productName": "log4j", "vendorName": "Apache",
			}},
		},
		bson.M{
			"cveId":         "CVE-2020-9999",
			"description":   "Windows kernel information disclosure",
			"publishedDate": date(2020, time.December, 30),
			"affectedProducts": bson.A{bson.M{
				"product": fx.windows, "vendor": fx.microsoft,
				"productName": "Windows 10", "vendorName": "Microsoft",
			}},
		},
	})
	require.NoError(t, err)

	return fx
}

func TestMongoStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping MongoDB integration test in short mode")
	}

	store, fx := setupMongoTestContainer(t)
	ctx := context.Background()

	t.Run("contains treats the operand literally", func(t *testing.T) {
		n, err := store.CountVulnerabilities(ctx, search.Cond(search.FieldDescription, search.OpContains, "(remote)"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = store.CountVulnerabilities(ctx, search.Cond(search.FieldDescription, search.OpContains, "C++"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = store.CountVulnerabilities(ctx, search.Cond(search.FieldDescription, search.OpContains, "REMOTE"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("startswith is anchored", func(t *testing.T) {
		vendors, err := store.FindVendors(ctx, search.Cond(search.FieldName, search.OpStartsWith, "apa"), FindOptions{})
		require.NoError(t, err)
		require.Len(t, vendors, 1)
		assert.Equal(t, "Apache", vendors[0].Name)
		assert.Equal(t, fx.apache.Hex(), vendors[0].ID)

		n, err := store.CountVendors(ctx, search.Cond(search.FieldName, search.OpStartsWith, "pache"))
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("reference fields take hex ids", func(t *testing.T) {
		n, err := store.CountVulnerabilities(ctx, search.Cond(search.FieldAffectedVendor, search.OpEquals, fx.apache.Hex()))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = store.CountVulnerabilities(ctx, search.Cond(search.FieldAffectedProduct, search.OpEquals, "not-an-id"))
		require.NoError(t, err)
		assert.Zero(t, n)

		products, err := store.FindProducts(ctx, search.Cond(search.FieldID, search.OpIn, []string{fx.windows.Hex(), "bogus"}), FindOptions{})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Windows 10", products[0].Name)
		assert.Equal(t, fx.microsoft.Hex(), products[0].Vendor.ID)
	})

	t.Run("score range and cwe", func(t *testing.T) {
		filter := search.And(
			search.Cond(search.FieldCVSSScore, search.OpGTE, 9.0),
			search.Cond(search.FieldCWEID, search.OpEquals, "CWE-502"),
		)
		vulns, err := store.FindVulnerabilities(ctx, filter, FindOptions{})
		require.NoError(t, err)
		require.Len(t, vulns, 1)
		assert.Equal(t, "CVE-2021-44228", vulns[0].CVEID)
		require.Len(t, vulns[0].AffectedProducts, 1)
		assert.Equal(t, fx.log4j.Hex(), vulns[0].AffectedProducts[0].Product)
	})

	t.Run("sort skip limit and projection", func(t *testing.T) {
		vulns, err := store.FindVulnerabilities(ctx, nil, FindOptions{
			Sort:   []SortField{{Field: search.FieldPublishedDate, Desc: true}},
			Skip:   1,
			Limit:  1,
			Fields: []string{search.FieldCVEID},
		})
		require.NoError(t, err)
		require.Len(t, vulns, 1)
		assert.Equal(t, "CVE-2021-0001", vulns[0].CVEID)
		assert.Empty(t, vulns[0].Description)
	})

	t.Run("lookups", func(t *testing.T) {
		v, err := store.GetVulnerability(ctx, "CVE-2020-9999")
		require.NoError(t, err)
		assert.Nil(t, v.CVSSScore)
		assert.Equal(t, time.UTC, v.PublishedDate.Location())

		vendor, err := store.GetVendor(ctx, fx.microsoft.Hex())
		require.NoError(t, err)
		assert.Equal(t, "Microsoft", vendor.Name)

		_, err = store.GetProduct(ctx, primitive.NewObjectID().Hex())
		assert.True(t, errors.Is(err, core.ErrNotFound))

		_, err = store.GetVendor(ctx, "nope")
		assert.True(t, errors.Is(err, core.ErrNotFound))
	})

	t.Run("week buckets use the iso week year", func(t *testing.T) {
		buckets, err := store.AggregateVulnerabilityBuckets(ctx, nil, search.PeriodWeek)
		require.NoError(t, err)

		byKey := make(map[string]search.Bucket, len(buckets))
		for _, b := range buckets {
			byKey[b.Label(search.PeriodWeek)] = b
		}
		require.Len(t, byKey, 2)

		// 2020-12-30 and 2021-01-03 both fall in ISO week 53 of 2020
		w53, ok := byKey["2020-W53"]
		require.True(t, ok, "buckets: %v", buckets)
		assert.Equal(t, 2, w53.Count)
		require.NotNil(t, w53.AvgScore)
		assert.InDelta(t, 5.0, *w53.AvgScore, 0.001)

		w49, ok := byKey["2021-W49"]
		require.True(t, ok, "buckets: %v", buckets)
		assert.Equal(t, 1, w49.Count)
	})

	t.Run("month buckets agree with BucketKey", func(t *testing.T) {
		buckets, err := store.AggregateVulnerabilityBuckets(ctx,
			search.Cond(search.FieldAffectedVendor, search.OpEquals, fx.microsoft.Hex()), search.PeriodMonth)
		require.NoError(t, err)
		require.Len(t, buckets, 1)

		want := search.BucketKey(time.Date(2020, time.December, 30, 0, 0, 0, 0, time.UTC), search.PeriodMonth)
		assert.Equal(t, want.Year, buckets[0].Year)
		assert.Equal(t, want.Month, buckets[0].Month)
		assert.Equal(t, 1, buckets[0].Count)
		assert.Nil(t, buckets[0].AvgScore)
	})

	t.Run("health check", func(t *testing.T) {
		assert.NoError(t, store.HealthCheck(ctx))
	})
}
