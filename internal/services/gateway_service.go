// Package services – GatewayService
//
// This file implements GatewayService, the application-level component that
// runs every channel through the same pipeline:
//
//  1. validate the channel input
//  2. resolve (or create) the calling actor
//  3. invoke the Responder or the Verifier
//  4. append exactly one interaction log row, success or failure
//  5. return the channel-shaped reply
//
// Validation failures return before anything is written. Every failure after
// actor resolution, and every unknown API key, is logged with the literal
// error message as response text before the error is returned.
//
// Observability: all public methods are OpenTelemetry-instrumented; analysis
// failures are logged at warn level through the request-scoped zerolog logger.

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/claim-gateway/internal/analysis"
	"github.com/tbourn/claim-gateway/internal/domain"
	"github.com/tbourn/claim-gateway/internal/extract"
	"github.com/tbourn/claim-gateway/internal/notify"
	"github.com/tbourn/claim-gateway/internal/repo"
	"github.com/tbourn/claim-gateway/internal/sysutil"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/unicode/norm"
)

// Responder generates free-form text for a prompt.
type Responder interface {
	Generate(ctx context.Context, text string) (string, error)
}

// Verifier fact-checks a claim.
type Verifier interface {
	Verify(ctx context.Context, claim string) (analysis.Verification, error)
}

// TelegramAnalyzer selects which analysis client answers Telegram messages.
type TelegramAnalyzer string

const (
	// AnalyzeWithVerifier fact-checks the message and replies with the
	// rendered evidence summary. The log stores the result JSON.
	AnalyzeWithVerifier TelegramAnalyzer = "verifier"
	// AnalyzeWithResponder replies with generated text, which is also what
	// the log stores.
	AnalyzeWithResponder TelegramAnalyzer = "responder"
)

// ParseTelegramAnalyzer maps a config value to a TelegramAnalyzer. Unknown
// values report ok=false.
func ParseTelegramAnalyzer(s string) (TelegramAnalyzer, bool) {
	switch TelegramAnalyzer(strings.ToLower(strings.TrimSpace(s))) {
	case "", AnalyzeWithVerifier:
		return AnalyzeWithVerifier, true
	case AnalyzeWithResponder:
		return AnalyzeWithResponder, true
	}
	return AnalyzeWithVerifier, false
}

// GatewayService coordinates actors, analysis clients and the interaction log.
type GatewayService struct {
	DB        *gorm.DB
	Responder Responder
	Verifier  Verifier
	Extractor extract.Extractor // nil means extract.Default{}
	Notifier  notify.Notifier   // nil disables outbound Telegram messages

	// TelegramAnalyzer defaults to AnalyzeWithVerifier.
	TelegramAnalyzer TelegramAnalyzer

	// NewAPIKey mints API keys; defaults to a random UUIDv4 string.
	NewAPIKey func() string
}

// TelegramUpdate is the subset of a Telegram Bot API update the webhook reads.
type TelegramUpdate struct {
	Message *TelegramMessage `json:"message"`
}

// TelegramMessage is an inbound Telegram message.
type TelegramMessage struct {
	Chat *TelegramChat `json:"chat"`
	Text *string       `json:"text"`
}

// TelegramChat identifies the sender's chat.
type TelegramChat struct {
	ID        *int64 `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// TelegramResult is the outcome of one webhook delivery.
type TelegramResult struct {
	ChatID int64
	Reply  string // text handed to the notifier
	Failed bool   // analysis failed and Reply is the apology
}

// APIMessageResult is the reply of the API message channel.
type APIMessageResult struct {
	Response  string `json:"response"`
	APIUserID uint   `json:"api_user_id"`
}

// Snapshot is every actor of every variant plus every log, unpaginated.
type Snapshot struct {
	ChatUsers     []domain.ChatActor      `json:"chat_users"`
	TelegramUsers []domain.TelegramActor  `json:"telegram_users"`
	APIUsers      []domain.APIActor       `json:"api_users"`
	MessageLogs   []domain.InteractionLog `json:"message_logs"`
}

func tracer() trace.Tracer { return otel.Tracer("services/GatewayService") }

// Chat answers a web chat message for the session identified by sessionID.
func (s *GatewayService) Chat(ctx context.Context, sessionID, message string) (string, error) {
	ctx, span := tracer().Start(ctx, "Chat",
		trace.WithAttributes(attribute.String("channel", string(domain.SourceChat))),
	)
	defer span.End()

	message = normalize(message)
	if sessionID == "" || message == "" {
		return "", ErrInvalidPayload
	}

	actor, err := repo.ResolveChatActor(ctx, s.DB, sessionID)
	if err != nil {
		return "", storageErr("resolve chat actor", err)
	}
	return s.respond(ctx, domain.SourceChat, actor.Ref(), message)
}

// ChatUpload answers a web chat message with an attached document. The
// extracted text follows the message after a blank line; without a message
// the extracted text is sent alone.
func (s *GatewayService) ChatUpload(ctx context.Context, sessionID, message, fileName string, data []byte) (string, error) {
	ctx, span := tracer().Start(ctx, "ChatUpload",
		trace.WithAttributes(
			attribute.String("channel", string(domain.SourceChat)),
			attribute.String("file.name", fileName),
			attribute.Int("file.size", len(data)),
		),
	)
	defer span.End()

	if sessionID == "" {
		return "", ErrInvalidPayload
	}
	message = normalize(message)

	actor, err := repo.ResolveChatActor(ctx, s.DB, sessionID)
	if err != nil {
		return "", storageErr("resolve chat actor", err)
	}

	ex := s.Extractor
	if ex == nil {
		ex = extract.Default{}
	}
	extracted, err := ex.Extract(data, fileName)
	if err != nil {
		req := message
		if req == "" {
			req = fileName
		}
		zerolog.Ctx(ctx).Warn().Err(err).Str("file_name", fileName).Msg("file extraction failed")
		if lerr := s.record(ctx, domain.SourceChat, actor.Ref(), req, "Failed to extract file text: "+err.Error(), nil); lerr != nil {
			return "", lerr
		}
		return "", ErrUnreadableFile
	}

	combined := extracted
	if message != "" {
		combined = strings.TrimSpace(message + "\n\n" + extracted)
	}
	return s.respond(ctx, domain.SourceChat, actor.Ref(), combined)
}

// Telegram handles one webhook update. Analysis failures never surface as
// errors: they are logged and the user receives TelegramApology. The reply
// is handed to the Notifier in every case where an actor was resolved.
func (s *GatewayService) Telegram(ctx context.Context, u TelegramUpdate) (TelegramResult, error) {
	ctx, span := tracer().Start(ctx, "Telegram",
		trace.WithAttributes(attribute.String("channel", string(domain.SourceTelegram))),
	)
	defer span.End()

	if u.Message == nil || u.Message.Chat == nil || u.Message.Chat.ID == nil || u.Message.Text == nil {
		return TelegramResult{}, ErrInvalidPayload
	}
	chatID := *u.Message.Chat.ID
	text := normalize(*u.Message.Text)
	username := sysutil.FirstNonEmpty(u.Message.Chat.Username, u.Message.Chat.FirstName)
	span.SetAttributes(attribute.Int64("telegram.chat_id", chatID))

	actor, err := repo.ResolveTelegramActor(ctx, s.DB, chatID, username)
	if err != nil {
		return TelegramResult{}, storageErr("resolve telegram actor", err)
	}

	res := TelegramResult{ChatID: chatID}
	var (
		logged  string
		payload []byte
	)
	switch s.TelegramAnalyzer {
	case AnalyzeWithResponder:
		var out string
		out, err = s.Responder.Generate(ctx, text)
		res.Reply, logged = out, out
	default:
		var v analysis.Verification
		v, err = s.Verifier.Verify(ctx, text)
		if err == nil {
			res.Reply = RenderVerification(v)
			logged, payload = string(v.Raw()), v.Raw()
		}
	}
	if err != nil {
		s.warnAnalysis(ctx, domain.SourceTelegram, actor.Ref(), err)
		res.Reply, res.Failed = TelegramApology, true
		logged, payload = err.Error(), nil
	}

	lerr := s.record(ctx, domain.SourceTelegram, actor.Ref(), text, logged, payload)
	if s.Notifier != nil {
		s.Notifier.Notify(ctx, chatID, res.Reply)
	}
	if lerr != nil {
		return res, lerr
	}
	return res, nil
}

// APIMessage answers message for the API client owning apiKey.
func (s *GatewayService) APIMessage(ctx context.Context, apiKey, message string) (APIMessageResult, error) {
	ctx, span := tracer().Start(ctx, "APIMessage",
		trace.WithAttributes(attribute.String("channel", string(domain.SourceAPI))),
	)
	defer span.End()

	message = normalize(message)
	if apiKey == "" || message == "" {
		return APIMessageResult{}, ErrInvalidPayload
	}

	actor, err := s.authenticate(ctx, domain.SourceAPI, apiKey, message)
	if err != nil {
		return APIMessageResult{}, err
	}
	out, err := s.respond(ctx, domain.SourceAPI, actor.Ref(), message)
	if err != nil {
		return APIMessageResult{}, err
	}
	return APIMessageResult{Response: out, APIUserID: actor.ID}, nil
}

// APIVerify fact-checks claim for the API client owning apiKey and returns
// the Verifier result verbatim.
func (s *GatewayService) APIVerify(ctx context.Context, apiKey, claim string) (analysis.Verification, error) {
	ctx, span := tracer().Start(ctx, "APIVerify",
		trace.WithAttributes(attribute.String("channel", string(domain.SourceVerify))),
	)
	defer span.End()

	claim = normalize(claim)
	if apiKey == "" || claim == "" {
		return analysis.Verification{}, ErrInvalidPayload
	}

	actor, err := s.authenticate(ctx, domain.SourceVerify, apiKey, claim)
	if err != nil {
		return analysis.Verification{}, err
	}

	v, err := s.Verifier.Verify(ctx, claim)
	if err != nil {
		s.warnAnalysis(ctx, domain.SourceVerify, actor.Ref(), err)
		if lerr := s.record(ctx, domain.SourceVerify, actor.Ref(), claim, err.Error(), nil); lerr != nil {
			return analysis.Verification{}, lerr
		}
		return analysis.Verification{}, err
	}
	if err := s.record(ctx, domain.SourceVerify, actor.Ref(), claim, string(v.Raw()), v.Raw()); err != nil {
		return analysis.Verification{}, err
	}
	return v, nil
}

// IssueAPIKey registers a new API client and returns it with its fresh key.
func (s *GatewayService) IssueAPIKey(ctx context.Context, companyName string) (*domain.APIActor, error) {
	ctx, span := tracer().Start(ctx, "IssueAPIKey")
	defer span.End()

	companyName = normalize(companyName)
	if companyName == "" {
		return nil, ErrInvalidPayload
	}
	gen := s.NewAPIKey
	if gen == nil {
		gen = uuid.NewString
	}
	a, err := repo.CreateAPIActor(ctx, s.DB, companyName, gen())
	if err != nil {
		return nil, storageErr("create api actor", err)
	}
	return a, nil
}

// Snapshot returns every actor and every log row in insertion order.
func (s *GatewayService) Snapshot(ctx context.Context) (Snapshot, error) {
	ctx, span := tracer().Start(ctx, "Snapshot")
	defer span.End()

	var (
		out Snapshot
		err error
	)
	if out.ChatUsers, err = repo.ListChatActors(ctx, s.DB); err != nil {
		return Snapshot{}, storageErr("list chat actors", err)
	}
	if out.TelegramUsers, err = repo.ListTelegramActors(ctx, s.DB); err != nil {
		return Snapshot{}, storageErr("list telegram actors", err)
	}
	if out.APIUsers, err = repo.ListAPIActors(ctx, s.DB); err != nil {
		return Snapshot{}, storageErr("list api actors", err)
	}
	if out.MessageLogs, err = repo.ListLogs(ctx, s.DB); err != nil {
		return Snapshot{}, storageErr("list logs", err)
	}
	return out, nil
}

// DeleteLog removes the log row id. Actors are never affected.
func (s *GatewayService) DeleteLog(ctx context.Context, id uint) error {
	ctx, span := tracer().Start(ctx, "DeleteLog",
		trace.WithAttributes(attribute.Int64("log.id", int64(id))),
	)
	defer span.End()

	if err := repo.DeleteLog(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrLogNotFound
		}
		return storageErr("delete log", err)
	}
	return nil
}

// respond runs the Responder for an already resolved actor and records the
// attempt.
func (s *GatewayService) respond(ctx context.Context, source domain.Source, ref domain.ActorRef, text string) (string, error) {
	out, err := s.Responder.Generate(ctx, text)
	if err != nil {
		s.warnAnalysis(ctx, source, ref, err)
		if lerr := s.record(ctx, source, ref, text, err.Error(), nil); lerr != nil {
			return "", lerr
		}
		return "", err
	}
	if err := s.record(ctx, source, ref, text, out, nil); err != nil {
		return "", err
	}
	return out, nil
}

// authenticate looks up the API client owning apiKey. An unknown key is
// logged without an actor link and reported as ErrInvalidAPIKey.
func (s *GatewayService) authenticate(ctx context.Context, source domain.Source, apiKey, request string) (*domain.APIActor, error) {
	actor, err := repo.FindAPIActor(ctx, s.DB, apiKey)
	if err == nil {
		return actor, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, storageErr("find api actor", err)
	}
	if lerr := s.record(ctx, source, domain.NoActor, request, ErrInvalidAPIKey.Error(), nil); lerr != nil {
		return nil, lerr
	}
	return nil, ErrInvalidAPIKey
}

// record appends one interaction log row.
func (s *GatewayService) record(ctx context.Context, source domain.Source, ref domain.ActorRef, request, response string, payload []byte) error {
	l := domain.NewInteractionLog(source, ref, request, response)
	if len(payload) > 0 {
		l.Payload = datatypes.JSON(payload)
	}
	if err := repo.CreateLog(ctx, s.DB, l); err != nil {
		return storageErr("create log", err)
	}
	return nil
}

func (s *GatewayService) warnAnalysis(ctx context.Context, source domain.Source, ref domain.ActorRef, err error) {
	zerolog.Ctx(ctx).Warn().
		Err(err).
		Str("source", string(source)).
		Str("actor", ref.String()).
		Str("outcome", analysis.Outcome(err)).
		Msg("analysis call failed")
}

// normalize trims surrounding whitespace and converts text to NFC so that
// visually identical input is stored and forwarded identically.
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
