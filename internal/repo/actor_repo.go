// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the actor store: get-or-create
// resolution for the three actor variants and API key lookup.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
//
// Identity resolution:
//   - Resolve* functions insert with ON CONFLICT DO NOTHING and then read the
//     row back by its identity key. The unique index decides the winner when
//     several callers race on the same key; every caller observes the same
//     row id afterwards.
//
// Error semantics:
//   - Lookups of a missing record return ErrNotFound (gorm.ErrRecordNotFound).
//   - Any other DB error is propagated unchanged.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/claim-gateway/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ResolveChatActor returns the ChatActor for sessionID, creating it on first
// contact.
func ResolveChatActor(ctx context.Context, db *gorm.DB, sessionID string) (*domain.ChatActor, error) {
	seed := &domain.ChatActor{SessionID: sessionID, CreatedAt: time.Now().UTC()}
	if err := insertIgnore(ctx, db, seed); err != nil {
		return nil, err
	}
	var a domain.ChatActor
	if err := db.WithContext(ctx).Where("session_id = ?", sessionID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ResolveTelegramActor returns the TelegramActor for telegramID, creating it
// on first contact. When username is non-empty and differs from the stored
// value, the stored value is updated in place.
func ResolveTelegramActor(ctx context.Context, db *gorm.DB, telegramID int64, username string) (*domain.TelegramActor, error) {
	seed := &domain.TelegramActor{TelegramID: telegramID, CreatedAt: time.Now().UTC()}
	if username != "" {
		seed.Username = &username
	}
	if err := insertIgnore(ctx, db, seed); err != nil {
		return nil, err
	}

	var a domain.TelegramActor
	if err := db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&a).Error; err != nil {
		return nil, err
	}

	if username != "" && (a.Username == nil || *a.Username != username) {
		if err := db.WithContext(ctx).
			Model(&domain.TelegramActor{}).
			Where("id = ?", a.ID).
			Update("username", username).Error; err != nil {
			return nil, err
		}
		a.Username = &username
	}
	return &a, nil
}

// CreateAPIActor registers a new API client under apiKey. The key must be
// unique; a collision surfaces as a raw constraint error.
func CreateAPIActor(ctx context.Context, db *gorm.DB, companyName, apiKey string) (*domain.APIActor, error) {
	a := &domain.APIActor{
		CompanyName: companyName,
		APIKey:      apiKey,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// FindAPIActor looks up the API client owning apiKey. It never creates rows;
// an unknown key yields ErrNotFound.
func FindAPIActor(ctx context.Context, db *gorm.DB, apiKey string) (*domain.APIActor, error) {
	var a domain.APIActor
	if err := db.WithContext(ctx).Where("api_key = ?", apiKey).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListChatActors returns every chat actor in insertion order.
func ListChatActors(ctx context.Context, db *gorm.DB) ([]domain.ChatActor, error) {
	out := []domain.ChatActor{}
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// ListTelegramActors returns every Telegram actor in insertion order.
func ListTelegramActors(ctx context.Context, db *gorm.DB) ([]domain.TelegramActor, error) {
	out := []domain.TelegramActor{}
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// ListAPIActors returns every API actor in insertion order.
func ListAPIActors(ctx context.Context, db *gorm.DB) ([]domain.APIActor, error) {
	out := []domain.APIActor{}
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// insertIgnore inserts row unless a row with the same unique key exists.
func insertIgnore(ctx context.Context, db *gorm.DB, row any) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}
