package domain

import "strconv"

// ActorKind names one of the three actor variants.
type ActorKind uint8

const (
	ActorNone ActorKind = iota
	ActorChat
	ActorTelegram
	ActorAPI
)

// String returns the lowercase variant name ("" for ActorNone).
func (k ActorKind) String() string {
	switch k {
	case ActorChat:
		return "chat"
	case ActorTelegram:
		return "telegram"
	case ActorAPI:
		return "api"
	}
	return ""
}

// ActorRef is a reference to exactly one actor of one variant, or to none.
// The zero value is NoActor.
type ActorRef struct {
	Kind ActorKind
	ID   uint
}

// NoActor is the empty reference used for attempts with no resolved caller
// (e.g. an unknown API key).
var NoActor = ActorRef{}

func ChatRef(id uint) ActorRef     { return ActorRef{Kind: ActorChat, ID: id} }
func TelegramRef(id uint) ActorRef { return ActorRef{Kind: ActorTelegram, ID: id} }
func APIRef(id uint) ActorRef      { return ActorRef{Kind: ActorAPI, ID: id} }

// IsZero reports whether r references no actor.
func (r ActorRef) IsZero() bool { return r.Kind == ActorNone }

// String renders the reference as "<kind>:<id>" for logs.
func (r ActorRef) String() string {
	if r.IsZero() {
		return "none"
	}
	return r.Kind.String() + ":" + strconv.FormatUint(uint64(r.ID), 10)
}

// Ref returns the reference to a.
func (a *ChatActor) Ref() ActorRef { return ChatRef(a.ID) }

// Ref returns the reference to a.
func (a *TelegramActor) Ref() ActorRef { return TelegramRef(a.ID) }

// Ref returns the reference to a.
func (a *APIActor) Ref() ActorRef { return APIRef(a.ID) }
