package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/petsos-dev/availability/internal/session"
)

// parseCallback splits inline-button data of the form <action>_<userID>.
// The trailing numeric segment is the identity the button was addressed to.
func parseCallback(data string) (action string, ownerID int64, ok bool) {
	i := strings.LastIndex(data, "_")
	if i <= 0 {
		return "", 0, false
	}
	id, err := strconv.ParseInt(data[i+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return data[:i], id, true
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	action, ownerID, ok := parseCallback(cq.Data)
	if !ok {
		b.answerCallback(cq.ID, "")
		return
	}

	// A button always encodes who it was addressed to. Anyone else pressing
	// it is rejected without touching the owner's state.
	if !session.Authorized(cq.From.ID, ownerID) {
		b.answerCallback(cq.ID, "Ця кнопка адресована не вам.")
		return
	}
	b.answerCallback(cq.ID, "")
	b.removeKeyboard(cq)

	chatID := cq.Message.Chat.ID
	switch action {
	case "confirm":
		b.confirmProposal(ctx, cq.From, chatID)
	case "edit":
		b.requestEdit(ctx, ownerID, chatID)
	case "cancel":
		if err := b.sessions.Discard(ctx, ownerID); err != nil {
			b.logger.Error("discard failed", "user_id", ownerID, "error", err)
		}
		b.reply(chatID, "Скасовано.")
	case "clear_confirm":
		b.confirmClear(ctx, cq.From, chatID)
	case "clear_cancel":
		if err := b.sessions.DropPendingClear(ctx, ownerID); err != nil {
			b.logger.Error("drop pending clear failed", "user_id", ownerID, "error", err)
		}
		b.reply(chatID, "Скасовано.")
	default:
		b.logger.Warn("unknown callback action", "action", action)
	}
}

func (b *Bot) confirmProposal(ctx context.Context, from *tgbotapi.User, chatID int64) {
	proposal, err := b.sessions.HeldProposal(ctx, from.ID)
	if err != nil {
		b.logger.Error("load proposal failed", "user_id", from.ID, "error", err)
		b.reply(chatID, "Сталася помилка, спробуйте ще раз.")
		return
	}
	if proposal == nil {
		b.reply(chatID, "Немає активної пропозиції. Скористайтесь /add_slots.")
		return
	}

	vet, err := b.upsertVet(ctx, from)
	if err != nil {
		b.logger.Error("vet upsert failed", "user_id", from.ID, "error", err)
		b.reply(chatID, "Сталася помилка, спробуйте ще раз.")
		return
	}

	inserted, err := b.engine.SaveSlots(ctx, vet.ID, proposal.Slots, string(proposal.SourceType))
	if err != nil {
		// The proposal stays held so the user can retry confirming.
		b.logger.Error("save slots failed", "vet_id", vet.ID, "error", err)
		b.reply(chatID, "Не вдалося зберегти слоти. Спробуйте підтвердити ще раз.")
		return
	}
	if err := b.sessions.Discard(ctx, from.ID); err != nil {
		b.logger.Error("discard after confirm failed", "user_id", from.ID, "error", err)
	}

	if inserted == 0 {
		b.reply(chatID, "Усі ці слоти вже були збережені раніше.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Збережено нових слотів: %d. Дякую!", inserted))
}

func (b *Bot) requestEdit(ctx context.Context, userID, chatID int64) {
	err := b.sessions.RequestCorrection(ctx, userID)
	if errors.Is(err, session.ErrNoProposal) {
		b.reply(chatID, "Немає активної пропозиції. Скористайтесь /add_slots.")
		return
	}
	if err != nil {
		b.logger.Error("request correction failed", "user_id", userID, "error", err)
		b.reply(chatID, "Сталася помилка, спробуйте ще раз.")
		return
	}
	b.reply(chatID, "Надішліть виправлений варіант — він замінить попередній.")
}

func (b *Bot) confirmClear(ctx context.Context, from *tgbotapi.User, chatID int64) {
	yearMonth, err := b.sessions.PendingClear(ctx, from.ID)
	if err != nil {
		b.logger.Error("load pending clear failed", "user_id", from.ID, "error", err)
		b.reply(chatID, "Сталася помилка, спробуйте ще раз.")
		return
	}
	if yearMonth == "" {
		b.reply(chatID, "Немає запиту на очищення. Скористайтесь /clear_month.")
		return
	}

	vet, err := b.upsertVet(ctx, from)
	if err != nil {
		b.logger.Error("vet upsert failed", "user_id", from.ID, "error", err)
		b.reply(chatID, "Сталася помилка, спробуйте ще раз.")
		return
	}

	removed, err := b.engine.ClearMonth(ctx, vet.ID, yearMonth)
	if err != nil {
		b.logger.Error("clear month failed", "vet_id", vet.ID, "month", yearMonth, "error", err)
		b.reply(chatID, "Не вдалося очистити місяць, спробуйте ще раз.")
		return
	}
	if err := b.sessions.DropPendingClear(ctx, from.ID); err != nil {
		b.logger.Error("drop pending clear failed", "user_id", from.ID, "error", err)
	}
	b.reply(chatID, fmt.Sprintf("Видалено слотів за %s: %d.", yearMonth, removed))
}

func (b *Bot) answerCallback(id, text string) {
	cb := tgbotapi.NewCallback(id, text)
	if text != "" {
		cb.ShowAlert = true
	}
	if _, err := b.api.Request(cb); err != nil {
		b.logger.Error("answer callback failed", "error", err)
	}
}

func (b *Bot) removeKeyboard(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(cq.Message.Chat.ID, cq.Message.MessageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := b.api.Request(edit); err != nil {
		b.logger.Debug("remove keyboard failed", "error", err)
	}
}
