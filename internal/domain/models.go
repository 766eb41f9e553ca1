// Package domain defines the persistence models for the gateway: the three
// actor variants (web chat session, Telegram user, API client) and the
// append-only interaction log. These types are mapped with GORM and form the
// core data layer shared by the repository and service layers.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Source identifies the channel an interaction arrived through.
type Source string

const (
	SourceChat     Source = "chat"
	SourceTelegram Source = "telegram"
	SourceAPI      Source = "api"
	SourceVerify   Source = "verify"
)

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	switch s {
	case SourceChat, SourceTelegram, SourceAPI, SourceVerify:
		return true
	}
	return false
}

// ChatActor is an anonymous web chat caller identified by its session key.
//
// Fields:
//   - ID: auto-increment primary key.
//   - SessionID: channel session key (unique).
//   - CreatedAt: set once on insert.
type ChatActor struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	SessionID string    `json:"session_id" gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for ChatActor.
func (ChatActor) TableName() string { return "chat_actors" }

// TelegramActor is a Telegram user identified by its numeric chat id.
// Username is the only mutable field; it follows the latest webhook payload.
type TelegramActor struct {
	ID         uint      `json:"id"          gorm:"primaryKey"`
	TelegramID int64     `json:"telegram_id" gorm:"not null;uniqueIndex"`
	Username   *string   `json:"username"    gorm:"type:varchar(255)"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the database table name for TelegramActor.
func (TelegramActor) TableName() string { return "telegram_actors" }

// APIActor is an API client registered through key issuance.
type APIActor struct {
	ID          uint      `json:"id"           gorm:"primaryKey"`
	CompanyName string    `json:"company_name" gorm:"type:varchar(255);not null"`
	APIKey      string    `json:"api_key"      gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for APIActor.
func (APIActor) TableName() string { return "api_actors" }

// InteractionLog is one request/response attempt through the pipeline,
// successful or not. Rows are append-only; the only mutation the gateway
// performs is an explicit delete by id.
//
// At most one of the three actor columns is set (see ActorRef). The columns
// are weak references: deleting an actor clears the column and keeps the row.
//
// Fields:
//   - Source: channel the attempt came through.
//   - RequestText: raw or composed input, stored untruncated.
//   - ResponseText: the output returned to the caller, or the literal error
//     message on failure.
//   - Payload: structured verifier result for verify/telegram rows, if any.
//   - CreatedAt: set once on insert.
type InteractionLog struct {
	ID              uint           `json:"id"            gorm:"primaryKey"`
	Source          Source         `json:"source"        gorm:"type:varchar(20);not null;index;check:source IN ('chat','telegram','api','verify')"`
	ChatActorID     *uint          `json:"chat_user"     gorm:"index"`
	TelegramActorID *uint          `json:"telegram_user" gorm:"index"`
	APIActorID      *uint          `json:"api_user"      gorm:"index"`
	RequestText     string         `json:"request_text"  gorm:"type:text;not null"`
	ResponseText    string         `json:"response_text" gorm:"type:text;not null"`
	Payload         datatypes.JSON `json:"payload,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`

	ChatActor     *ChatActor     `json:"-" gorm:"foreignKey:ChatActorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	TelegramActor *TelegramActor `json:"-" gorm:"foreignKey:TelegramActorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	APIActor      *APIActor      `json:"-" gorm:"foreignKey:APIActorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for InteractionLog.
func (InteractionLog) TableName() string { return "interaction_logs" }

// NewInteractionLog builds an unsaved log row linked to the actor named by ref.
func NewInteractionLog(source Source, ref ActorRef, request, response string) *InteractionLog {
	l := &InteractionLog{
		Source:       source,
		RequestText:  request,
		ResponseText: response,
	}
	l.SetActor(ref)
	return l
}

// Actor returns the actor this row is linked to, or NoActor.
func (l *InteractionLog) Actor() ActorRef {
	switch {
	case l.ChatActorID != nil:
		return ChatRef(*l.ChatActorID)
	case l.TelegramActorID != nil:
		return TelegramRef(*l.TelegramActorID)
	case l.APIActorID != nil:
		return APIRef(*l.APIActorID)
	}
	return NoActor
}

// SetActor replaces the actor link so that exactly the column named by ref
// (or none) is set.
func (l *InteractionLog) SetActor(ref ActorRef) {
	l.ChatActorID, l.TelegramActorID, l.APIActorID = nil, nil, nil
	id := ref.ID
	switch ref.Kind {
	case ActorChat:
		l.ChatActorID = &id
	case ActorTelegram:
		l.TelegramActorID = &id
	case ActorAPI:
		l.APIActorID = &id
	}
}
