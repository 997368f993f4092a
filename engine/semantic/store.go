// Package semantic owns vector storage for the bankrag engine. VectorStore
// is the sole owner of all Qdrant operations; MemStore provides the same
// semantics in memory for tests and dependency-free runs.
package semantic

import (
	"context"
	"fmt"

	"github.com/bankrag/bankrag/engine/domain"
	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Reserved payload keys; all other payload entries are document metadata.
const (
	payloadContent    = "content"
	payloadSourceType = "source_type"
	payloadSourceID   = "source_id"
)

// VectorStore is the Qdrant-backed document store.
type VectorStore struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
}

// New creates a VectorStore connected to Qdrant at the given gRPC address.
func New(addr, collection string) (*VectorStore, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("semantic: dial qdrant %s: %w", addr, err)
	}
	return &VectorStore{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

// NewWithClients creates a VectorStore with injected clients, for tests.
func NewWithClients(points pb.PointsClient, collections pb.CollectionsClient, collection string) *VectorStore {
	return &VectorStore{points: points, collections: collections, collection: collection}
}

// Close closes the underlying gRPC connection.
func (v *VectorStore) Close() error {
	if v.conn == nil {
		return nil
	}
	return v.conn.Close()
}

// EnsureCollection creates the cosine-distance collection if absent. The
// dimension is fixed for the lifetime of the corpus.
func (v *VectorStore) EnsureCollection(ctx context.Context, dims int) error {
	list, err := v.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("semantic: list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == v.collection {
			return nil
		}
	}

	_, err = v.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: v.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("semantic: create collection %s: %w", v.collection, err)
	}
	return nil
}

// Insert stores a single embedded document.
func (v *VectorStore) Insert(ctx context.Context, doc domain.Document) error {
	return v.BatchInsert(ctx, []domain.Document{doc})
}

// BatchInsert stores embedded documents. Called by engine/index.
func (v *VectorStore) BatchInsert(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, len(docs))
	for i, doc := range docs {
		payload := map[string]*pb.Value{
			payloadContent:    {Kind: &pb.Value_StringValue{StringValue: doc.Content}},
			payloadSourceType: {Kind: &pb.Value_StringValue{StringValue: string(doc.SourceType)}},
			payloadSourceID:   {Kind: &pb.Value_StringValue{StringValue: doc.SourceID}},
		}
		for k, val := range doc.Metadata {
			payload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: val}}
		}

		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: uuid.NewString()},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: doc.Embedding},
				},
			},
			Payload: payload,
		}
	}

	wait := true
	_, err := v.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: v.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("semantic: upsert %d points: %w", len(docs), err)
	}
	return nil
}

// Search performs thresholded k-NN search. With an empty typeFilter the
// reserved chat source type is excluded; with a filter, results are
// restricted to exactly that type. Qdrant's cosine score over normalized
// vectors is the similarity directly.
func (v *VectorStore) Search(ctx context.Context, vector []float32, topK int, threshold float64, typeFilter domain.SourceType) ([]domain.RankedResult, error) {
	scoreThreshold := float32(threshold)
	req := &pb.SearchPoints{
		CollectionName: v.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		ScoreThreshold: &scoreThreshold,
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	}

	if typeFilter != "" {
		req.Filter = &pb.Filter{
			Must: []*pb.Condition{fieldMatch(payloadSourceType, string(typeFilter))},
		}
	} else {
		req.Filter = &pb.Filter{
			MustNot: []*pb.Condition{fieldMatch(payloadSourceType, string(domain.SourceChatHistory))},
		}
	}

	resp, err := v.points.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("semantic: search: %w", err)
	}

	results := make([]domain.RankedResult, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		rr := domain.RankedResult{Similarity: float64(r.GetScore())}
		for k, val := range r.GetPayload() {
			s := val.GetStringValue()
			switch k {
			case payloadContent:
				rr.Content = s
			case payloadSourceType:
				rr.SourceType = domain.SourceType(s)
			case payloadSourceID:
				rr.SourceID = s
			default:
				if rr.Metadata == nil {
					rr.Metadata = make(map[string]string)
				}
				rr.Metadata[k] = s
			}
		}
		results[i] = rr
	}
	return results, nil
}

// Count returns the number of stored documents.
func (v *VectorStore) Count(ctx context.Context) (uint64, error) {
	exact := true
	resp, err := v.points.Count(ctx, &pb.CountPoints{
		CollectionName: v.collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("semantic: count: %w", err)
	}
	return resp.GetResult().GetCount(), nil
}

// DeleteAll removes every stored document. Used only for a full re-index.
func (v *VectorStore) DeleteAll(ctx context.Context) error {
	wait := true
	_, err := v.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: v.collection,
		Wait:           &wait,
		Points: &pb.PointsSelector{
			// An empty filter matches all points.
			PointsSelectorOneOf: &pb.PointsSelector_Filter{Filter: &pb.Filter{}},
		},
	})
	if err != nil {
		return fmt.Errorf("semantic: delete all: %w", err)
	}
	return nil
}

func fieldMatch(key, value string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key: key,
				Match: &pb.Match{
					MatchValue: &pb.Match_Keyword{Keyword: value},
				},
			},
		},
	}
}
