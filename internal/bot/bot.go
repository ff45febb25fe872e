package bot

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/petsos-dev/availability/internal/audio"
	"github.com/petsos-dev/availability/internal/extract"
	"github.com/petsos-dev/availability/internal/reconcile"
	"github.com/petsos-dev/availability/internal/session"
	"github.com/petsos-dev/availability/internal/storage"
	"github.com/petsos-dev/availability/internal/transcribe"
)

const (
	platform       = "telegram"
	handlerTimeout = 60 * time.Second
)

// Deps collects everything the bot needs. All fields are required except
// Throttle, which may be nil when no Redis is configured.
type Deps struct {
	API         *tgbotapi.BotAPI
	Logger      *slog.Logger
	Sessions    *session.Manager
	Extractor   *extract.Extractor
	Transcriber transcribe.Transcriber
	Converter   *audio.Converter
	Vets        *storage.VetRepository
	Slots       *storage.SlotRepository
	Engine      *reconcile.Engine
	Throttle    *extract.Throttle
	Location    *time.Location
}

// Bot is the Telegram transport: it receives updates, routes them to the
// conversation handlers, and replies.
type Bot struct {
	api         *tgbotapi.BotAPI
	logger      *slog.Logger
	sessions    *session.Manager
	extractor   *extract.Extractor
	transcriber transcribe.Transcriber
	converter   *audio.Converter
	vets        *storage.VetRepository
	slots       *storage.SlotRepository
	engine      *reconcile.Engine
	throttle    *extract.Throttle
	loc         *time.Location
	now         func() time.Time
	httpClient  *http.Client
}

func New(deps Deps) *Bot {
	return &Bot{
		api:         deps.API,
		logger:      deps.Logger,
		sessions:    deps.Sessions,
		extractor:   deps.Extractor,
		transcriber: deps.Transcriber,
		converter:   deps.Converter,
		vets:        deps.Vets,
		slots:       deps.Slots,
		engine:      deps.Engine,
		throttle:    deps.Throttle,
		loc:         deps.Location,
		now:         time.Now,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Run consumes the long-poll update stream until the context is cancelled.
// Each update is handled in its own goroutine so a slow extraction does not
// block other users.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	b.logger.Info("bot started", "username", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.dispatch(update)
		}
	}
}

func (b *Bot) dispatch(update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panic", "panic", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		msg := update.Message
		switch {
		case msg.Contact != nil:
			b.handleContact(ctx, msg)
		case msg.IsCommand():
			b.handleCommand(ctx, msg)
		case msg.Voice != nil:
			b.handleVoice(ctx, msg)
		case msg.Text != "":
			b.handleText(ctx, msg)
		}
	}
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("send message failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Error("send failed", "error", err)
	}
}

// upsertVet registers or refreshes the sender's owner record on every
// interaction so the display name stays current.
func (b *Bot) upsertVet(ctx context.Context, from *tgbotapi.User) (storage.Vet, error) {
	return b.vets.Upsert(ctx, platform, from.ID, displayName(from))
}

func displayName(from *tgbotapi.User) string {
	name := from.FirstName
	if from.LastName != "" {
		name += " " + from.LastName
	}
	if name == "" {
		name = from.UserName
	}
	return name
}
