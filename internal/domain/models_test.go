package domain

import (
	"path/filepath"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "domain_models.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	// Enforce FKs so SET NULL actually executes.
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(&ChatActor{}, &TelegramActor{}, &APIActor{}, &InteractionLog{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		(ChatActor{}).TableName():      "chat_actors",
		(TelegramActor{}).TableName():  "telegram_actors",
		(APIActor{}).TableName():       "api_actors",
		(InteractionLog{}).TableName(): "interaction_logs",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestSource_Valid(t *testing.T) {
	for _, s := range []Source{SourceChat, SourceTelegram, SourceAPI, SourceVerify} {
		if !s.Valid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	if Source("ukweli").Valid() {
		t.Fatalf("unknown source should be invalid")
	}
}

func TestActorRef_SetActorKeepsExactlyOneColumn(t *testing.T) {
	l := NewInteractionLog(SourceChat, ChatRef(7), "q", "a")
	if l.ChatActorID == nil || *l.ChatActorID != 7 || l.TelegramActorID != nil || l.APIActorID != nil {
		t.Fatalf("chat ref not applied: %+v", l)
	}
	if got := l.Actor(); got != ChatRef(7) {
		t.Fatalf("Actor() = %v", got)
	}

	l.SetActor(APIRef(3))
	if l.ChatActorID != nil || l.APIActorID == nil || *l.APIActorID != 3 {
		t.Fatalf("api ref not applied exclusively: %+v", l)
	}

	l.SetActor(NoActor)
	if !l.Actor().IsZero() {
		t.Fatalf("expected NoActor, got %v", l.Actor())
	}
	if NoActor.String() != "none" || TelegramRef(9).String() != "telegram:9" {
		t.Fatalf("unexpected String(): %q %q", NoActor.String(), TelegramRef(9).String())
	}
}

func TestUniqueIdentityKeys(t *testing.T) {
	db := newDomainDB(t)

	if err := db.Create(&ChatActor{SessionID: "s1"}).Error; err != nil {
		t.Fatalf("seed chat actor: %v", err)
	}
	if err := db.Create(&ChatActor{SessionID: "s1"}).Error; err == nil {
		t.Fatalf("expected unique violation on session_id")
	}
	if err := db.Create(&TelegramActor{TelegramID: 42}).Error; err != nil {
		t.Fatalf("seed telegram actor: %v", err)
	}
	if err := db.Create(&TelegramActor{TelegramID: 42}).Error; err == nil {
		t.Fatalf("expected unique violation on telegram_id")
	}
	if err := db.Create(&APIActor{CompanyName: "a", APIKey: "k"}).Error; err != nil {
		t.Fatalf("seed api actor: %v", err)
	}
	if err := db.Create(&APIActor{CompanyName: "b", APIKey: "k"}).Error; err == nil {
		t.Fatalf("expected unique violation on api_key")
	}
}

func TestDeletingActorClearsLogReference(t *testing.T) {
	db := newDomainDB(t)

	actor := &TelegramActor{TelegramID: 42}
	if err := db.Create(actor).Error; err != nil {
		t.Fatalf("seed actor: %v", err)
	}
	l := NewInteractionLog(SourceTelegram, actor.Ref(), "claim", "verdict")
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("seed log: %v", err)
	}

	if err := db.Delete(&TelegramActor{}, actor.ID).Error; err != nil {
		t.Fatalf("delete actor: %v", err)
	}

	var got InteractionLog
	if err := db.First(&got, l.ID).Error; err != nil {
		t.Fatalf("log row should survive actor deletion: %v", err)
	}
	if !got.Actor().IsZero() {
		t.Fatalf("expected cleared reference, got %v", got.Actor())
	}
	if got.RequestText != "claim" || got.ResponseText != "verdict" {
		t.Fatalf("log content changed: %+v", got)
	}
}

func TestSourceCheckConstraint(t *testing.T) {
	db := newDomainDB(t)
	bad := &InteractionLog{Source: Source("ukweli"), RequestText: "x", ResponseText: "y"}
	if err := db.Create(bad).Error; err == nil {
		t.Fatalf("expected CHECK constraint failure for unknown source")
	}
}
