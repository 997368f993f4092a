package semantic

import (
	"context"
	"errors"
	"testing"

	"github.com/bankrag/bankrag/engine/domain"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
)

// --- mocks ---

type mockPoints struct {
	pb.PointsClient
	upsertResp *pb.PointsOperationResponse
	upsertErr  error
	lastUpsert *pb.UpsertPoints
	searchResp *pb.SearchResponse
	searchErr  error
	lastSearch *pb.SearchPoints
	countResp  *pb.CountResponse
	countErr   error
	deleteResp *pb.PointsOperationResponse
	deleteErr  error
	lastDelete *pb.DeletePoints
}

func (m *mockPoints) Upsert(_ context.Context, req *pb.UpsertPoints, _ ...grpc.CallOption) (*pb.PointsOperationResponse, error) {
	m.lastUpsert = req
	return m.upsertResp, m.upsertErr
}

func (m *mockPoints) Search(_ context.Context, req *pb.SearchPoints, _ ...grpc.CallOption) (*pb.SearchResponse, error) {
	m.lastSearch = req
	return m.searchResp, m.searchErr
}

func (m *mockPoints) Count(_ context.Context, _ *pb.CountPoints, _ ...grpc.CallOption) (*pb.CountResponse, error) {
	return m.countResp, m.countErr
}

func (m *mockPoints) Delete(_ context.Context, req *pb.DeletePoints, _ ...grpc.CallOption) (*pb.PointsOperationResponse, error) {
	m.lastDelete = req
	return m.deleteResp, m.deleteErr
}

type mockCollections struct {
	pb.CollectionsClient
	listResp   *pb.ListCollectionsResponse
	listErr    error
	createResp *pb.CollectionOperationResponse
	createErr  error
	lastCreate *pb.CreateCollection
}

func (m *mockCollections) List(_ context.Context, _ *pb.ListCollectionsRequest, _ ...grpc.CallOption) (*pb.ListCollectionsResponse, error) {
	return m.listResp, m.listErr
}

func (m *mockCollections) Create(_ context.Context, req *pb.CreateCollection, _ ...grpc.CallOption) (*pb.CollectionOperationResponse, error) {
	m.lastCreate = req
	return m.createResp, m.createErr
}

// --- tests ---

func TestCloseNilConn(t *testing.T) {
	vs := NewWithClients(&mockPoints{}, &mockCollections{}, "bankrag")
	if err := vs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestEnsureCollectionAlreadyExists(t *testing.T) {
	cols := &mockCollections{
		listResp: &pb.ListCollectionsResponse{
			Collections: []*pb.CollectionDescription{{Name: "bankrag"}},
		},
	}
	vs := NewWithClients(&mockPoints{}, cols, "bankrag")
	if err := vs.EnsureCollection(context.Background(), 384); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols.lastCreate != nil {
		t.Error("should not create when the collection exists")
	}
}

func TestEnsureCollectionCreatesCosine(t *testing.T) {
	cols := &mockCollections{
		listResp:   &pb.ListCollectionsResponse{},
		createResp: &pb.CollectionOperationResponse{Result: true},
	}
	vs := NewWithClients(&mockPoints{}, cols, "bankrag")
	if err := vs.EnsureCollection(context.Background(), 384); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	params := cols.lastCreate.GetVectorsConfig().GetParams()
	if params.GetSize() != 384 {
		t.Errorf("size = %d, want 384", params.GetSize())
	}
	if params.GetDistance() != pb.Distance_Cosine {
		t.Errorf("distance = %v, want cosine", params.GetDistance())
	}
}

func TestEnsureCollectionListError(t *testing.T) {
	cols := &mockCollections{listErr: errors.New("rpc fail")}
	vs := NewWithClients(&mockPoints{}, cols, "bankrag")
	if err := vs.EnsureCollection(context.Background(), 384); err == nil {
		t.Fatal("expected error")
	}
}

func TestBatchInsertPayload(t *testing.T) {
	points := &mockPoints{upsertResp: &pb.PointsOperationResponse{}}
	vs := NewWithClients(points, &mockCollections{}, "bankrag")

	docs := []domain.Document{
		{
			Content:    "Overdraft fee is $35.",
			SourceType: domain.SourcePolicy,
			SourceID:   "overdraft-policy",
			Metadata:   map[string]string{"policy_id": "overdraft-policy"},
			Embedding:  []float32{0.1, 0.2},
		},
	}
	if err := vs.BatchInsert(context.Background(), docs); err != nil {
		t.Fatalf("BatchInsert: %v", err)
	}

	pts := points.lastUpsert.GetPoints()
	if len(pts) != 1 {
		t.Fatalf("got %d points, want 1", len(pts))
	}
	payload := pts[0].GetPayload()
	if payload["source_type"].GetStringValue() != "POLICY" {
		t.Errorf("source_type payload = %q", payload["source_type"].GetStringValue())
	}
	if payload["source_id"].GetStringValue() != "overdraft-policy" {
		t.Errorf("source_id payload = %q", payload["source_id"].GetStringValue())
	}
	if payload["policy_id"].GetStringValue() != "overdraft-policy" {
		t.Errorf("metadata payload = %q", payload["policy_id"].GetStringValue())
	}
	if pts[0].GetId().GetUuid() == "" {
		t.Error("point id should be a generated uuid")
	}
}

func TestBatchInsertEmpty(t *testing.T) {
	points := &mockPoints{}
	vs := NewWithClients(points, &mockCollections{}, "bankrag")
	if err := vs.BatchInsert(context.Background(), nil); err != nil {
		t.Fatalf("BatchInsert empty: %v", err)
	}
	if points.lastUpsert != nil {
		t.Error("empty batch should not hit the store")
	}
}

func TestSearchDefaultExcludesChat(t *testing.T) {
	points := &mockPoints{searchResp: &pb.SearchResponse{}}
	vs := NewWithClients(points, &mockCollections{}, "bankrag")

	if _, err := vs.Search(context.Background(), []float32{0.1}, 5, 0.3, ""); err != nil {
		t.Fatalf("Search: %v", err)
	}

	req := points.lastSearch
	if req.GetScoreThreshold() != 0.3 {
		t.Errorf("score threshold = %v, want 0.3", req.GetScoreThreshold())
	}
	if req.GetLimit() != 5 {
		t.Errorf("limit = %d, want 5", req.GetLimit())
	}
	mustNot := req.GetFilter().GetMustNot()
	if len(mustNot) != 1 {
		t.Fatalf("expected one must_not condition, got %d", len(mustNot))
	}
	fc := mustNot[0].GetField()
	if fc.GetKey() != "source_type" || fc.GetMatch().GetKeyword() != "CHAT_HISTORY" {
		t.Errorf("default search must exclude chat history, got %v", fc)
	}
}

func TestSearchWithTypeFilter(t *testing.T) {
	points := &mockPoints{searchResp: &pb.SearchResponse{}}
	vs := NewWithClients(points, &mockCollections{}, "bankrag")

	if _, err := vs.Search(context.Background(), []float32{0.1}, 5, 0, domain.SourcePolicy); err != nil {
		t.Fatalf("Search: %v", err)
	}

	must := points.lastSearch.GetFilter().GetMust()
	if len(must) != 1 {
		t.Fatalf("expected one must condition, got %d", len(must))
	}
	fc := must[0].GetField()
	if fc.GetKey() != "source_type" || fc.GetMatch().GetKeyword() != "POLICY" {
		t.Errorf("filtered search must restrict by type, got %v", fc)
	}
}

func TestSearchMapsResults(t *testing.T) {
	points := &mockPoints{
		searchResp: &pb.SearchResponse{
			Result: []*pb.ScoredPoint{
				{
					Score: 0.91,
					Payload: map[string]*pb.Value{
						"content":     {Kind: &pb.Value_StringValue{StringValue: "Overdraft fee is $35."}},
						"source_type": {Kind: &pb.Value_StringValue{StringValue: "POLICY"}},
						"source_id":   {Kind: &pb.Value_StringValue{StringValue: "overdraft-policy"}},
						"policy_id":   {Kind: &pb.Value_StringValue{StringValue: "overdraft-policy"}},
					},
				},
			},
		},
	}
	vs := NewWithClients(points, &mockCollections{}, "bankrag")

	results, err := vs.Search(context.Background(), []float32{0.1}, 1, 0, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	r := results[0]
	if r.SourceType != domain.SourcePolicy || r.SourceID != "overdraft-policy" {
		t.Errorf("unexpected mapping: %+v", r)
	}
	if r.Similarity < 0.90 || r.Similarity > 0.92 {
		t.Errorf("similarity = %v", r.Similarity)
	}
	if r.Metadata["policy_id"] != "overdraft-policy" {
		t.Errorf("metadata not collected: %v", r.Metadata)
	}
}

func TestSearchError(t *testing.T) {
	points := &mockPoints{searchErr: errors.New("store down")}
	vs := NewWithClients(points, &mockCollections{}, "bankrag")
	if _, err := vs.Search(context.Background(), []float32{0.1}, 5, 0, ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestCount(t *testing.T) {
	points := &mockPoints{
		countResp: &pb.CountResponse{Result: &pb.CountResult{Count: 42}},
	}
	vs := NewWithClients(points, &mockCollections{}, "bankrag")
	n, err := vs.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 42 {
		t.Errorf("count = %d, want 42", n)
	}
}

func TestDeleteAllMatchesEverything(t *testing.T) {
	points := &mockPoints{deleteResp: &pb.PointsOperationResponse{}}
	vs := NewWithClients(points, &mockCollections{}, "bankrag")
	if err := vs.DeleteAll(context.Background()); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	f := points.lastDelete.GetPoints().GetFilter()
	if f == nil || len(f.GetMust()) != 0 || len(f.GetMustNot()) != 0 {
		t.Errorf("delete-all should use an empty match-all filter, got %v", f)
	}
}

func TestFieldMatch(t *testing.T) {
	cond := fieldMatch("source_type", "POLICY")
	fc := cond.GetField()
	if fc == nil {
		t.Fatal("expected field condition")
	}
	if fc.Key != "source_type" || fc.Match.GetKeyword() != "POLICY" {
		t.Errorf("unexpected condition: %v", fc)
	}
}
