package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/petsos-dev/availability/internal/domain"
	"github.com/petsos-dev/availability/internal/export"
	"github.com/petsos-dev/availability/internal/reconcile"
)

const startText = `Вітаю! Я допомагаю вести графік ваших чергувань.

Команди:
/add_slots — додати години прийому (текстом або голосом)
/my_slots [YYYY-MM] — мої збережені слоти
/clear_month [YYYY-MM] — очистити місяць
/export_month [YYYY-MM] [csv|xlsx] — вивантажити місяць файлом`

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	vet, err := b.upsertVet(ctx, msg.From)
	if err != nil {
		b.logger.Error("vet upsert failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, "Сталася помилка, спробуйте ще раз.")
		return
	}

	switch msg.Command() {
	case "start":
		b.cmdStart(msg, vet.Phone, vet.IsAdmin)
	case "add_slots":
		b.cmdAddSlots(ctx, msg, vet.Phone)
	case "my_slots":
		b.cmdMySlots(ctx, msg, vet.ID)
	case "clear_month":
		b.cmdClearMonth(ctx, msg)
	case "export_month":
		b.cmdExportMonth(ctx, msg, vet.ID)
	case "admin_schedule":
		b.cmdAdminSchedule(ctx, msg, vet.IsAdmin)
	default:
		b.reply(msg.Chat.ID, "Невідома команда. Скористайтесь /start для списку команд.")
	}
}

func (b *Bot) cmdStart(msg *tgbotapi.Message, phone string, isAdmin bool) {
	text := startText
	if isAdmin {
		text += "\n/admin_schedule [0-2] — розклад покриття всіх лікарів"
	}
	if phone == "" {
		req := tgbotapi.NewMessage(msg.Chat.ID, text+"\n\nБудь ласка, поділіться номером телефону, щоб адміністратор міг з вами зв'язатися.")
		req.ReplyMarkup = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact("📱 Поділитися номером")),
		)
		b.send(req)
		return
	}
	b.reply(msg.Chat.ID, text)
}

func (b *Bot) cmdAddSlots(ctx context.Context, msg *tgbotapi.Message, phone string) {
	if phone == "" {
		req := tgbotapi.NewMessage(msg.Chat.ID, "Спершу поділіться, будь ласка, номером телефону, щоб адміністратор міг з вами зв'язатися.")
		req.ReplyMarkup = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact("📱 Поділитися номером")),
		)
		b.send(req)
		return
	}
	if err := b.sessions.Begin(ctx, msg.From.ID); err != nil {
		b.logger.Error("session begin failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, "Сталася помилка, спробуйте ще раз.")
		return
	}
	b.reply(msg.Chat.ID, "Напишіть або надиктуйте, коли ви можете приймати. Наприклад: «завтра з 10 до 13 невідкладна, в середу з 15 до 18 плановий».")
}

func (b *Bot) cmdMySlots(ctx context.Context, msg *tgbotapi.Message, vetID int64) {
	yearMonth, err := b.parseYearMonth(msg.CommandArguments())
	if err != nil {
		b.reply(msg.Chat.ID, "Невірний формат місяця. Приклад: /my_slots 2025-06")
		return
	}
	first, last, err := reconcile.MonthBounds(yearMonth)
	if err != nil {
		b.reply(msg.Chat.ID, "Невірний формат місяця. Приклад: /my_slots 2025-06")
		return
	}

	records, err := b.slots.ListRange(ctx, vetID, first, last)
	if err != nil {
		b.logger.Error("list slots failed", "vet_id", vetID, "error", err)
		b.reply(msg.Chat.ID, "Не вдалося завантажити слоти, спробуйте пізніше.")
		return
	}
	if len(records) == 0 {
		b.reply(msg.Chat.ID, fmt.Sprintf("За %s немає збережених слотів.", yearMonth))
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("Ваші слоти за %s:\n%s", yearMonth, formatRecords(records)))
}

func (b *Bot) cmdClearMonth(ctx context.Context, msg *tgbotapi.Message) {
	yearMonth, err := b.parseYearMonth(msg.CommandArguments())
	if err != nil {
		b.reply(msg.Chat.ID, "Невірний формат місяця. Приклад: /clear_month 2025-06")
		return
	}
	if err := b.sessions.SetPendingClear(ctx, msg.From.ID, yearMonth); err != nil {
		b.logger.Error("set pending clear failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, "Сталася помилка, спробуйте ще раз.")
		return
	}

	prompt := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("Видалити всі ваші слоти за %s? Цю дію не можна скасувати.", yearMonth))
	prompt.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Так, видалити", fmt.Sprintf("clear_confirm_%d", msg.From.ID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Ні", fmt.Sprintf("clear_cancel_%d", msg.From.ID)),
		),
	)
	b.send(prompt)
}

func (b *Bot) cmdExportMonth(ctx context.Context, msg *tgbotapi.Message, vetID int64) {
	monthArg, format := splitExportArgs(msg.CommandArguments())
	yearMonth, err := b.parseYearMonth(monthArg)
	if err != nil {
		b.reply(msg.Chat.ID, "Невірний формат. Приклад: /export_month 2025-06 csv")
		return
	}
	first, last, err := reconcile.MonthBounds(yearMonth)
	if err != nil {
		b.reply(msg.Chat.ID, "Невірний формат. Приклад: /export_month 2025-06 csv")
		return
	}

	records, err := b.slots.ListRange(ctx, vetID, first, last)
	if err != nil {
		b.logger.Error("list slots failed", "vet_id", vetID, "error", err)
		b.reply(msg.Chat.ID, "Не вдалося завантажити слоти, спробуйте пізніше.")
		return
	}
	if len(records) == 0 {
		b.reply(msg.Chat.ID, fmt.Sprintf("За %s немає збережених слотів.", yearMonth))
		return
	}

	slots := make([]domain.Slot, 0, len(records))
	for _, r := range records {
		slots = append(slots, r.Slot)
	}

	// No explicit format means both documents, as the full export.
	formats := []string{"csv", "xlsx"}
	if format != "" {
		formats = []string{format}
	}
	for _, f := range formats {
		var data []byte
		if f == "csv" {
			data, err = export.MonthCSV(slots)
		} else {
			data, err = export.MonthXLSX(slots)
		}
		if err != nil {
			b.logger.Error("export build failed", "vet_id", vetID, "format", f, "error", err)
			b.reply(msg.Chat.ID, "Не вдалося сформувати файл, спробуйте пізніше.")
			return
		}
		b.send(tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{
			Name:  export.MonthFileName(yearMonth, f),
			Bytes: data,
		}))
	}
}

func (b *Bot) cmdAdminSchedule(ctx context.Context, msg *tgbotapi.Message, isAdmin bool) {
	if !isAdmin {
		b.reply(msg.Chat.ID, "Ця команда доступна лише адміністраторам.")
		return
	}
	yearMonth, err := b.parseAdminMonth(msg.CommandArguments())
	if err != nil {
		b.reply(msg.Chat.ID, "Вкажіть зсув місяця від 0 до 2. Приклад: /admin_schedule 1")
		return
	}
	first, last, err := reconcile.MonthBounds(yearMonth)
	if err != nil {
		b.reply(msg.Chat.ID, "Вкажіть зсув місяця від 0 до 2. Приклад: /admin_schedule 1")
		return
	}

	urgent, err := b.namedSlots(ctx, first, last, domain.TypeURGENT)
	if err != nil {
		b.logger.Error("admin schedule failed", "month", yearMonth, "error", err)
		b.reply(msg.Chat.ID, "Не вдалося сформувати розклад, спробуйте пізніше.")
		return
	}
	vp, err := b.namedSlots(ctx, first, last, domain.TypeVP)
	if err != nil {
		b.logger.Error("admin schedule failed", "month", yearMonth, "error", err)
		b.reply(msg.Chat.ID, "Не вдалося сформувати розклад, спробуйте пізніше.")
		return
	}

	data, err := export.AdminWorkbook(urgent, vp, yearMonth)
	if err != nil {
		b.logger.Error("admin workbook build failed", "month", yearMonth, "error", err)
		b.reply(msg.Chat.ID, "Не вдалося сформувати розклад, спробуйте пізніше.")
		return
	}
	b.send(tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{
		Name:  export.AdminFileName(yearMonth),
		Bytes: data,
	}))
}

func (b *Bot) namedSlots(ctx context.Context, first, last string, t domain.SlotType) ([]export.NamedSlot, error) {
	records, err := b.slots.ListRangeByType(ctx, first, last, t)
	if err != nil {
		return nil, err
	}
	named := make([]export.NamedSlot, 0, len(records))
	for _, r := range records {
		named = append(named, export.NamedSlot{Slot: r.Slot, VetName: r.VetName})
	}
	return named, nil
}

// parseYearMonth resolves a command's month argument: empty means the
// current month, "next" the following one, otherwise an explicit YYYY-MM.
func (b *Bot) parseYearMonth(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	switch arg {
	case "":
		return monthOffset(b.now().In(b.loc), 0), nil
	case "next":
		return monthOffset(b.now().In(b.loc), 1), nil
	}
	if _, err := time.Parse("2006-01", arg); err != nil {
		return "", err
	}
	return arg, nil
}

// parseAdminMonth resolves the admin schedule's month argument: an offset
// of 0 (current month, the default), 1, or 2.
func (b *Bot) parseAdminMonth(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return monthOffset(b.now().In(b.loc), 0), nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 || n > 2 {
		return "", fmt.Errorf("month offset must be 0..2, got %q", arg)
	}
	return monthOffset(b.now().In(b.loc), n), nil
}

func monthOffset(t time.Time, months int) string {
	// Anchor to the first of the month so AddDate cannot skip short months.
	anchored := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return anchored.AddDate(0, months, 0).Format("2006-01")
}

func splitExportArgs(args string) (month, format string) {
	fields := strings.Fields(args)
	for _, f := range fields {
		lower := strings.ToLower(f)
		if lower == "csv" || lower == "xlsx" {
			format = lower
			continue
		}
		month = f
	}
	return month, format
}
