// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	qdrantclient "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/JosephJoshua/onepaper/internal/rank"
	"github.com/JosephJoshua/onepaper/pkg/types"
)

// QdrantIndex keeps embeddings in a Qdrant collection reached over gRPC.
type QdrantIndex struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	collection  string
	dimension   int
}

// NewQdrantIndex connects to Qdrant and creates the collection if it is
// missing. The collection uses cosine distance.
func NewQdrantIndex(cfg types.VectorConfig) (*QdrantIndex, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6334"
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "papers"
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant at %s: %w", addr, err)
	}

	idx := &QdrantIndex{
		conn:        conn,
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		collection:  collection,
		dimension:   cfg.Dimension,
	}
	if err := idx.ensureCollection(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}
	return idx, nil
}

func (q *QdrantIndex) ensureCollection(ctx context.Context) error {
	collections, err := q.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("listing collections: %w", err)
	}
	for _, col := range collections.GetCollections() {
		if col.GetName() == q.collection {
			return nil
		}
	}

	_, err = q.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     uint64(q.dimension),
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", q.collection, err)
	}
	return nil
}

// Upsert inserts or replaces the point for a paper. The point ID is a
// UUID derived from the paper ID so re-ingesting a paper overwrites its
// previous vector, and the paper ID travels in the payload for lookups.
func (q *QdrantIndex) Upsert(ctx context.Context, paperID string, vector []float32) error {
	point := &qdrantclient.PointStruct{
		Id: &qdrantclient.PointId{
			PointIdOptions: &qdrantclient.PointId_Uuid{
				Uuid: uuid.NewSHA1(uuid.NameSpaceURL, []byte(paperID)).String(),
			},
		},
		Vectors: &qdrantclient.Vectors{
			VectorsOptions: &qdrantclient.Vectors_Vector{
				Vector: &qdrantclient.Vector{Data: vector},
			},
		},
		Payload: map[string]*qdrantclient.Value{
			"paper_id": {Kind: &qdrantclient.Value_StringValue{StringValue: paperID}},
		},
	}

	_, err := q.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: q.collection,
		Points:         []*qdrantclient.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("upserting point for %s: %w", paperID, err)
	}
	return nil
}

// Nearest runs a cosine search and maps the scored points back to paper
// IDs via the payload.
func (q *QdrantIndex) Nearest(ctx context.Context, vector []float32, k int) ([]rank.Neighbor, error) {
	if k <= 0 {
		return nil, nil
	}
	resp, err := q.points.Search(ctx, &qdrantclient.SearchPoints{
		CollectionName: q.collection,
		Vector:         vector,
		Limit:          uint64(k),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching collection %s: %w", q.collection, err)
	}

	neighbors := make([]rank.Neighbor, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		payload := point.GetPayload()["paper_id"]
		paperID := payload.GetStringValue()
		if paperID == "" {
			continue
		}
		neighbors = append(neighbors, rank.Neighbor{
			PaperID:    paperID,
			Similarity: float64(point.GetScore()),
		})
	}
	return neighbors, nil
}

// Close tears down the gRPC connection.
func (q *QdrantIndex) Close() error {
	return q.conn.Close()
}
