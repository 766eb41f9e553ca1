package repo

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/claim-gateway/internal/domain"
)

func newRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "repo_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestResolveChatActor_Idempotent(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	a1, err := ResolveChatActor(ctx, db, "sess-1")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	a2, err := ResolveChatActor(ctx, db, "sess-1")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if a1.ID == 0 || a1.ID != a2.ID {
		t.Fatalf("expected same id, got %d and %d", a1.ID, a2.ID)
	}

	var n int64
	db.Model(&domain.ChatActor{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected 1 chat actor, got %d", n)
	}
}

func TestResolveChatActor_ConcurrentSameKey(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	const workers = 8
	ids := make([]uint, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := ResolveChatActor(ctx, db, "shared")
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = a.ID
		}(i)
	}
	wg.Wait()

	for i := range ids {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Fatalf("worker %d saw id %d, worker 0 saw %d", i, ids[i], ids[0])
		}
	}
	var n int64
	db.Model(&domain.ChatActor{}).Where("session_id = ?", "shared").Count(&n)
	if n != 1 {
		t.Fatalf("expected exactly 1 row, got %d", n)
	}
}

func TestResolveTelegramActor_UsernameUpdate(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	a, err := ResolveTelegramActor(ctx, db, 42, "bob")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if a.Username == nil || *a.Username != "bob" {
		t.Fatalf("expected username bob, got %v", a.Username)
	}

	// Empty username never clears the stored value.
	b, err := ResolveTelegramActor(ctx, db, 42, "")
	if err != nil {
		t.Fatalf("resolve empty: %v", err)
	}
	if b.ID != a.ID || b.Username == nil || *b.Username != "bob" {
		t.Fatalf("unexpected actor after empty username: %+v", b)
	}

	// A different username is persisted in place.
	c, err := ResolveTelegramActor(ctx, db, 42, "robert")
	if err != nil {
		t.Fatalf("resolve rename: %v", err)
	}
	if c.ID != a.ID {
		t.Fatalf("rename created a new actor: %d vs %d", c.ID, a.ID)
	}
	var stored domain.TelegramActor
	if err := db.First(&stored, a.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Username == nil || *stored.Username != "robert" {
		t.Fatalf("expected stored username robert, got %v", stored.Username)
	}
	if !stored.CreatedAt.Equal(a.CreatedAt) {
		t.Fatalf("created_at must be immutable: %v vs %v", stored.CreatedAt, a.CreatedAt)
	}
}

func TestCreateAndFindAPIActor(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	if _, err := FindAPIActor(ctx, db, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	a, err := CreateAPIActor(ctx, db, "Acme", "key-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := FindAPIActor(ctx, db, "key-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != a.ID || got.CompanyName != "Acme" {
		t.Fatalf("unexpected actor: %+v", got)
	}

	if _, err := CreateAPIActor(ctx, db, "Other", "key-1"); err == nil {
		t.Fatalf("expected unique violation for duplicate api key")
	}
}

func TestListActors_InsertionOrder(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	for _, s := range []string{"a", "b", "c"} {
		if _, err := ResolveChatActor(ctx, db, s); err != nil {
			t.Fatalf("seed %s: %v", s, err)
		}
	}
	list, err := ListChatActors(ctx, db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].SessionID != "a" || list[2].SessionID != "c" {
		t.Fatalf("unexpected order: %+v", list)
	}

	tg, err := ListTelegramActors(ctx, db)
	if err != nil || len(tg) != 0 {
		t.Fatalf("expected empty telegram list, got %v %v", tg, err)
	}
	api, err := ListAPIActors(ctx, db)
	if err != nil || api == nil || len(api) != 0 {
		t.Fatalf("expected empty non-nil api list, got %v %v", api, err)
	}
}

func TestResolve_ErrorWhenTablesMissing(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if _, err := ResolveChatActor(context.Background(), db, "s"); err == nil {
		t.Fatalf("expected error without schema")
	}
}
