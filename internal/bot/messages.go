package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/petsos-dev/availability/internal/audio"
	"github.com/petsos-dev/availability/internal/extract"
	"github.com/petsos-dev/availability/internal/session"
)

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := b.upsertVet(ctx, msg.From); err != nil {
		b.logger.Error("vet upsert failed", "user_id", msg.From.ID, "error", err)
	}

	state, err := b.sessions.State(ctx, msg.From.ID)
	if err != nil {
		b.logger.Error("session state failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, "Сталася помилка, спробуйте ще раз.")
		return
	}
	if state == session.StateIdle {
		b.reply(msg.Chat.ID, "Щоб додати години прийому, скористайтесь командою /add_slots.")
		return
	}

	b.runExtraction(ctx, msg, msg.Text, session.SourceText)
}

func (b *Bot) handleVoice(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := b.upsertVet(ctx, msg.From); err != nil {
		b.logger.Error("vet upsert failed", "user_id", msg.From.ID, "error", err)
	}

	state, err := b.sessions.State(ctx, msg.From.ID)
	if err != nil {
		b.logger.Error("session state failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, "Сталася помилка, спробуйте ще раз.")
		return
	}
	if state == session.StateIdle {
		b.reply(msg.Chat.ID, "Щоб додати години прийому, скористайтесь командою /add_slots.")
		return
	}

	transcript, err := b.transcribeVoice(ctx, msg.Voice.FileID)
	if err != nil {
		b.logger.Error("voice transcription failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, "Не вдалося обробити голосове повідомлення, спробуйте текстом.")
		return
	}
	if transcript == "" {
		b.reply(msg.Chat.ID, "Не вдалося розпізнати мову в голосовому повідомленні. Спробуйте ще раз або напишіть текстом.")
		return
	}

	b.runExtraction(ctx, msg, transcript, session.SourceVoice)
}

// transcribeVoice downloads the voice note, converts it to mp3, and runs it
// through the transcriber. Temp files are removed regardless of outcome.
func (b *Bot) transcribeVoice(ctx context.Context, fileID string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("resolve voice file: %w", err)
	}

	base := filepath.Join(os.TempDir(), "voice-"+uuid.NewString())
	oggPath := base + ".oga"
	mp3Path := base + ".mp3"
	defer audio.Cleanup(oggPath, mp3Path)

	if err := b.downloadFile(ctx, url, oggPath); err != nil {
		return "", fmt.Errorf("download voice file: %w", err)
	}
	if err := b.converter.OggToMP3(ctx, oggPath, mp3Path); err != nil {
		return "", err
	}
	return b.transcriber.Transcribe(ctx, mp3Path)
}

func (b *Bot) downloadFile(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, resp.Body)
	return err
}

// runExtraction is the shared tail of the text and voice paths: throttle,
// extract, and either hold a proposal for confirmation or explain why
// nothing came out.
func (b *Bot) runExtraction(ctx context.Context, msg *tgbotapi.Message, transcript string, sourceType session.SourceType) {
	allowed, err := b.throttle.Allow(ctx, msg.From.ID)
	if err != nil {
		b.logger.Error("throttle check failed", "user_id", msg.From.ID, "error", err)
		// Fail open: a broken limiter should not block the flow.
		allowed = true
	}
	if !allowed {
		b.reply(msg.Chat.ID, "Забагато запитів поспіль. Зачекайте хвилину та спробуйте ще раз.")
		return
	}

	slots, err := b.extractor.Extract(ctx, transcript)
	if err != nil {
		if errors.Is(err, extract.ErrNoParsableStructure) {
			b.reply(msg.Chat.ID, "Не вдалося розібрати відповідь. Спробуйте переформулювати повідомлення.")
			return
		}
		b.logger.Error("extraction failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, "Сталася помилка під час розпізнавання, спробуйте ще раз.")
		return
	}
	if len(slots) == 0 {
		b.reply(msg.Chat.ID, fmt.Sprintf("Я не знайшов жодного слота у повідомленні:\n«%s»\n\nВкажіть, будь ласка, дату, час і тип прийому.", transcript))
		return
	}

	proposal := session.Proposal{Slots: slots, Source: transcript, SourceType: sourceType}
	if err := b.sessions.Hold(ctx, msg.From.ID, proposal); err != nil {
		b.logger.Error("hold proposal failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, "Сталася помилка, спробуйте ще раз.")
		return
	}

	confirm := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("Ось що я зрозумів:\n\n%s\n\nВсе вірно?", formatSlots(slots)))
	confirm.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Підтвердити", fmt.Sprintf("confirm_%d", msg.From.ID)),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Змінити", fmt.Sprintf("edit_%d", msg.From.ID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Скасувати", fmt.Sprintf("cancel_%d", msg.From.ID)),
		),
	)
	b.send(confirm)
}

func (b *Bot) handleContact(ctx context.Context, msg *tgbotapi.Message) {
	// Only the sender's own contact card counts as sharing a phone number.
	if msg.Contact.UserID != msg.From.ID {
		b.reply(msg.Chat.ID, "Будь ласка, поділіться власним номером через кнопку.")
		return
	}
	if err := b.vets.SetPhone(ctx, platform, msg.From.ID, msg.Contact.PhoneNumber); err != nil {
		b.logger.Error("set phone failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, "Не вдалося зберегти номер, спробуйте ще раз.")
		return
	}

	done := tgbotapi.NewMessage(msg.Chat.ID, "Дякую! Номер збережено. Тепер можна додавати години через /add_slots.")
	done.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.send(done)
}
