// Package qdrant provides a Qdrant vector database driver over gRPC.
package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	qdrantclient "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/litemindhq/litemind/pkg/vector"
)

const (
	// DefaultCollectionName is the default collection for document chunks.
	DefaultCollectionName = "agent_assist_docs"

	payloadChunkID = "chunk_id"
	payloadText    = "text"
)

// pointNamespace seeds deterministic UUIDv5 point ids from chunk ids, so
// re-ingesting the same chunk id always maps to the same Qdrant point.
var pointNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// Driver implements vector.Driver using Qdrant's gRPC API.
type Driver struct {
	conn           *grpc.ClientConn
	collections    qdrantclient.CollectionsClient
	points         qdrantclient.PointsClient
	collectionName string
	dimensions     uint
	logger         *zap.Logger
}

// Config holds configuration for the Qdrant driver.
type Config struct {
	// Addr is the Qdrant gRPC address (e.g., "localhost:6334").
	Addr string

	// CollectionName is the name of the collection to use.
	// Defaults to DefaultCollectionName if empty.
	CollectionName string

	// Dimensions is the number of dimensions for the embedding vectors.
	Dimensions uint

	// CreateIfMissing controls whether a missing collection is created.
	CreateIfMissing bool
}

// NewDriver creates a new Qdrant vector driver.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.Addr == "" {
		return nil, fmt.Errorf("qdrant address is required")
	}

	if c.Dimensions == 0 {
		return nil, fmt.Errorf("qdrant embedding dimensions cannot be 0, must be configured")
	}

	collectionName := c.CollectionName
	if collectionName == "" {
		collectionName = DefaultCollectionName
	}

	conn, err := grpc.NewClient(c.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to qdrant: %v", vector.ErrConnection, err)
	}

	d := &Driver{
		conn:           conn,
		collections:    qdrantclient.NewCollectionsClient(conn),
		points:         qdrantclient.NewPointsClient(conn),
		collectionName: collectionName,
		dimensions:     c.Dimensions,
		logger:         logger,
	}

	if err := d.resolveCollection(context.Background(), c.CreateIfMissing); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info("connected to Qdrant",
		zap.String("addr", c.Addr),
		zap.String("collection", collectionName),
		zap.Uint("dimensions", c.Dimensions),
	)

	return d, nil
}

// resolveCollection checks the collection exists, creating it when
// createIfMissing is set.
func (d *Driver) resolveCollection(ctx context.Context, createIfMissing bool) error {
	collections, err := d.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("%w: listing collections: %v", vector.ErrConnection, err)
	}

	for _, col := range collections.GetCollections() {
		if col.GetName() == d.collectionName {
			return nil
		}
	}

	if !createIfMissing {
		return fmt.Errorf("%w: collection %q does not exist, run ingestion first",
			vector.ErrNotFound, d.collectionName)
	}

	_, err = d.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: d.collectionName,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     uint64(d.dimensions),
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection %q: %w", d.collectionName, err)
	}

	return nil
}

// Upsert stores entries. Point ids are derived deterministically from chunk
// ids, so an entry with an existing chunk id replaces the stored point.
func (d *Driver) Upsert(ctx context.Context, entries []vector.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	points := make([]*qdrantclient.PointStruct, 0, len(entries))
	for _, entry := range entries {
		if uint(len(entry.Embedding)) != d.dimensions {
			return fmt.Errorf("%w: entry %s has %d dimensions, index expects %d",
				vector.ErrDimension, entry.ID, len(entry.Embedding), d.dimensions)
		}

		payload := map[string]*qdrantclient.Value{
			payloadChunkID: {Kind: &qdrantclient.Value_StringValue{StringValue: entry.ID}},
			payloadText:    {Kind: &qdrantclient.Value_StringValue{StringValue: entry.Text}},
		}
		for k, v := range entry.Metadata {
			payload[k] = &qdrantclient.Value{Kind: &qdrantclient.Value_StringValue{StringValue: v}}
		}

		points = append(points, &qdrantclient.PointStruct{
			Id: &qdrantclient.PointId{
				PointIdOptions: &qdrantclient.PointId_Uuid{
					Uuid: uuid.NewSHA1(pointNamespace, []byte(entry.ID)).String(),
				},
			},
			Vectors: &qdrantclient.Vectors{
				VectorsOptions: &qdrantclient.Vectors_Vector{
					Vector: &qdrantclient.Vector{
						Data: entry.Embedding,
					},
				},
			},
			Payload: payload,
		})
	}

	_, err := d.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: d.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upserting points: %w", err)
	}

	d.logger.Debug("upserted entries into qdrant",
		zap.Int("count", len(entries)),
	)

	return nil
}

// Query finds the k nearest entries to the given embedding.
func (d *Driver) Query(ctx context.Context, embedding []float32, k int) ([]vector.Result, error) {
	if k <= 0 {
		k = 5
	}

	resp, err := d.points.Search(ctx, &qdrantclient.SearchPoints{
		CollectionName: d.collectionName,
		Vector:         embedding,
		Limit:          uint64(k),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching points: %w", err)
	}

	results := make([]vector.Result, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		entry := entryFromPayload(point.GetPayload())

		// Cosine scores are similarities (higher = closer); expose the
		// complement so callers always order by ascending distance.
		results = append(results, vector.Result{
			Entry:    entry,
			Distance: 1 - point.GetScore(),
		})
	}

	d.logger.Debug("queried qdrant",
		zap.Int("results", len(results)),
	)

	return results, nil
}

// List returns every stored entry via the scroll API.
func (d *Driver) List(ctx context.Context) ([]vector.Entry, error) {
	var (
		entries []vector.Entry
		offset  *qdrantclient.PointId
	)

	limit := uint32(256)
	for {
		resp, err := d.points.Scroll(ctx, &qdrantclient.ScrollPoints{
			CollectionName: d.collectionName,
			Limit:          &limit,
			Offset:         offset,
			WithPayload: &qdrantclient.WithPayloadSelector{
				SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: true},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("scrolling points: %w", err)
		}

		for _, point := range resp.GetResult() {
			entries = append(entries, entryFromPayload(point.GetPayload()))
		}

		offset = resp.GetNextPageOffset()
		if offset == nil {
			return entries, nil
		}
	}
}

// Count returns the number of stored entries.
func (d *Driver) Count(ctx context.Context) (int, error) {
	exact := true
	resp, err := d.points.Count(ctx, &qdrantclient.CountPoints{
		CollectionName: d.collectionName,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("counting points: %w", err)
	}
	return int(resp.GetResult().GetCount()), nil
}

// Close closes the gRPC connection.
func (d *Driver) Close() error {
	return d.conn.Close()
}

// entryFromPayload rebuilds a vector.Entry from a point payload. The
// chunk_id and text keys are reserved; remaining string values become
// metadata.
func entryFromPayload(payload map[string]*qdrantclient.Value) vector.Entry {
	entry := vector.Entry{
		Metadata: make(map[string]string),
	}

	for k, v := range payload {
		s := v.GetStringValue()
		switch k {
		case payloadChunkID:
			entry.ID = s
		case payloadText:
			entry.Text = s
		default:
			entry.Metadata[k] = s
		}
	}

	return entry
}

// Ensure Driver implements vector.Driver
var _ vector.Driver = (*Driver)(nil)
