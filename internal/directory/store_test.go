package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HerbHall/wispgate/internal/store"
)

func testStore(t *testing.T) *RouterStore {
	t.Helper()
	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := db.Migrate(ctx, "directory", migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRouterStore(db.DB())
}

func testRecord(id, host string) *RouterRecord {
	now := time.Now().UTC().Truncate(time.Second)
	return &RouterRecord{
		ID:             id,
		Name:           "gw-" + host,
		Host:           host,
		Port:           8728,
		APIType:        "legacy",
		Username:       "api-svc",
		SealedPassword: []byte("sealed-bytes"),
		Notes:          "",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestRouterStore_InsertAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rec := testRecord("r1", "10.0.0.1")
	if err := s.InsertRouter(ctx, rec); err != nil {
		t.Fatalf("InsertRouter: %v", err)
	}

	got, err := s.GetRouter(ctx, "r1")
	if err != nil {
		t.Fatalf("GetRouter: %v", err)
	}
	if got == nil {
		t.Fatal("GetRouter returned nil, want record")
	}
	if got.Host != "10.0.0.1" {
		t.Errorf("Host = %q, want %q", got.Host, "10.0.0.1")
	}
	if got.APIType != "legacy" {
		t.Errorf("APIType = %q, want %q", got.APIType, "legacy")
	}
	if string(got.SealedPassword) != "sealed-bytes" {
		t.Errorf("SealedPassword = %q, want %q", got.SealedPassword, "sealed-bytes")
	}
}

func TestRouterStore_GetMissing(t *testing.T) {
	s := testStore(t)

	got, err := s.GetRouter(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetRouter: %v", err)
	}
	if got != nil {
		t.Errorf("GetRouter missing = %+v, want nil", got)
	}
}

func TestRouterStore_ListOrdersByCreation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first := testRecord("r1", "10.0.0.1")
	second := testRecord("r2", "10.0.0.2")
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	second.UpdatedAt = second.CreatedAt

	if err := s.InsertRouter(ctx, second); err != nil {
		t.Fatalf("InsertRouter: %v", err)
	}
	if err := s.InsertRouter(ctx, first); err != nil {
		t.Fatalf("InsertRouter: %v", err)
	}

	recs, err := s.ListRouters(ctx)
	if err != nil {
		t.Fatalf("ListRouters: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	if recs[0].ID != "r1" || recs[1].ID != "r2" {
		t.Errorf("order = [%s, %s], want [r1, r2]", recs[0].ID, recs[1].ID)
	}
}

func TestRouterStore_Update(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rec := testRecord("r1", "10.0.0.1")
	if err := s.InsertRouter(ctx, rec); err != nil {
		t.Fatalf("InsertRouter: %v", err)
	}

	rec.Host = "10.0.0.99"
	rec.APIType = "rest"
	rec.Port = 443
	rec.UpdatedAt = rec.UpdatedAt.Add(time.Minute)
	if err := s.UpdateRouter(ctx, rec); err != nil {
		t.Fatalf("UpdateRouter: %v", err)
	}

	got, err := s.GetRouter(ctx, "r1")
	if err != nil {
		t.Fatalf("GetRouter: %v", err)
	}
	if got.Host != "10.0.0.99" || got.APIType != "rest" || got.Port != 443 {
		t.Errorf("updated record = %+v", got)
	}
}

func TestRouterStore_UpdateMissing(t *testing.T) {
	s := testStore(t)

	err := s.UpdateRouter(context.Background(), testRecord("ghost", "10.0.0.1"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateRouter missing = %v, want ErrNotFound", err)
	}
}

func TestRouterStore_Delete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.InsertRouter(ctx, testRecord("r1", "10.0.0.1")); err != nil {
		t.Fatalf("InsertRouter: %v", err)
	}
	if err := s.DeleteRouter(ctx, "r1"); err != nil {
		t.Fatalf("DeleteRouter: %v", err)
	}

	got, err := s.GetRouter(ctx, "r1")
	if err != nil {
		t.Fatalf("GetRouter: %v", err)
	}
	if got != nil {
		t.Error("record still present after delete")
	}

	if err := s.DeleteRouter(ctx, "r1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteRouter missing = %v, want ErrNotFound", err)
	}
}

func TestRouterStore_Count(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	count, err := s.RouterCount(ctx)
	if err != nil {
		t.Fatalf("RouterCount: %v", err)
	}
	if count != 0 {
		t.Errorf("empty count = %d, want 0", count)
	}

	if err := s.InsertRouter(ctx, testRecord("r1", "10.0.0.1")); err != nil {
		t.Fatalf("InsertRouter: %v", err)
	}
	count, err = s.RouterCount(ctx)
	if err != nil {
		t.Fatalf("RouterCount: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestRouterStore_Meta(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	meta, err := s.GetMeta(ctx)
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if meta != nil {
		t.Fatalf("GetMeta on empty table = %+v, want nil", meta)
	}

	if err := s.UpsertMeta(ctx, []byte("salt-1"), []byte("blob-1")); err != nil {
		t.Fatalf("UpsertMeta: %v", err)
	}
	meta, err = s.GetMeta(ctx)
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if meta == nil {
		t.Fatal("GetMeta returned nil after upsert")
	}
	if string(meta.Salt) != "salt-1" || string(meta.Verification) != "blob-1" {
		t.Errorf("meta = %+v", meta)
	}

	// Second upsert replaces the singleton row.
	if err := s.UpsertMeta(ctx, []byte("salt-2"), []byte("blob-2")); err != nil {
		t.Fatalf("UpsertMeta (replace): %v", err)
	}
	meta, err = s.GetMeta(ctx)
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if string(meta.Salt) != "salt-2" {
		t.Errorf("Salt after replace = %q, want %q", meta.Salt, "salt-2")
	}
}
