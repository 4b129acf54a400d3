package handlers

import (
	"errors"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/iradiada19-art/arnold-swimminpool/parser"
	"github.com/iradiada19-art/arnold-swimminpool/schedule"
	"github.com/iradiada19-art/arnold-swimminpool/storage"
	"github.com/iradiada19-art/arnold-swimminpool/types"
)

type Handler struct {
	Bot     *tgbotapi.BotAPI
	Store   *storage.Storage
	PageURL string
}

func New(bot *tgbotapi.BotAPI, store *storage.Storage, pageURL string) *Handler {
	return &Handler{
		Bot:     bot,
		Store:   store,
		PageURL: pageURL,
	}
}

func (h *Handler) HandleStart(msg *tgbotapi.Message) {
	text := "👋 Привет! Я подскажу, когда в бассейне свободное плавание.\n\n" +
		"Доступные команды:\n" +
		"/schedule — расписание свободного плавания на неделю\n" +
		"/evening — только вечерние сеансы (с 18:00)\n" +
		"/subscribe — подписаться на вечернюю рассылку\n" +
		"/unsubscribe — отписаться от рассылки"
	h.Bot.Send(tgbotapi.NewMessage(msg.Chat.ID, text))
}

func (h *Handler) HandleSchedule(msg *tgbotapi.Message) {
	h.sendSchedule(msg.Chat.ID, false)
}

func (h *Handler) HandleEvening(msg *tgbotapi.Message) {
	h.sendSchedule(msg.Chat.ID, true)
}

func (h *Handler) sendSchedule(chatID int64, eveningOnly bool) {
	week, err := h.LoadSchedule()
	if err != nil {
		if errors.Is(err, types.ErrParseFailure) {
			h.Bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Не удалось разобрать расписание — похоже, бассейн сменил формат файла."))
		} else {
			h.Bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Не удалось загрузить расписание. Попробуй позже."))
		}
		return
	}

	reply := tgbotapi.NewMessage(chatID, BuildMessageHTML(week, eveningOnly))
	reply.ParseMode = tgbotapi.ModeHTML
	h.Bot.Send(reply)
}

func (h *Handler) HandleSubscribe(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	subscribed, err := h.Store.IsSubscribed(chatID)
	if err != nil {
		h.Bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Ошибка при проверке подписки."))
		return
	}
	if subscribed {
		h.Bot.Send(tgbotapi.NewMessage(chatID, "Ты уже подписан на вечернюю рассылку."))
		return
	}

	if err := h.Store.Subscribe(chatID); err != nil {
		h.Bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Не удалось оформить подписку."))
		return
	}
	h.Bot.Send(tgbotapi.NewMessage(chatID, "✅ Подписка оформлена.\n\nКаждый день буду присылать вечерние сеансы свободного плавания."))
}

func (h *Handler) HandleUnsubscribe(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	subscribed, err := h.Store.IsSubscribed(chatID)
	if err != nil {
		h.Bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Ошибка при проверке подписки."))
		return
	}
	if !subscribed {
		h.Bot.Send(tgbotapi.NewMessage(chatID, "У тебя нет активной подписки.\n\nИспользуй /subscribe чтобы подписаться."))
		return
	}

	if err := h.Store.Unsubscribe(chatID); err != nil {
		h.Bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Не удалось отменить подписку."))
		return
	}
	h.Bot.Send(tgbotapi.NewMessage(chatID, "✅ Подписка отменена."))
}

// LoadSchedule возвращает расписание недели: сначала из кеша, при промахе —
// полный цикл страница → ссылка → книга → разбор, с записью в кеш.
func (h *Handler) LoadSchedule() (*types.WeekSchedule, error) {
	week, err := h.Store.GetSchedule()
	if err != nil {
		log.Printf("⚠️ Schedule cache read failed: %v", err)
	}
	if week != nil {
		log.Printf("📋 Loaded schedule from cache (%d days)", len(week.Days))
		return week, nil
	}

	link, err := parser.FindScheduleLink(h.PageURL)
	if err != nil {
		return nil, err
	}

	data, err := parser.DownloadWorkbook(link)
	if err != nil {
		return nil, err
	}

	week, err = schedule.ExtractWeek(data)
	if err != nil {
		return nil, err
	}

	if err := h.Store.SaveSchedule(week); err != nil {
		log.Printf("⚠️ Failed to cache schedule: %v", err)
	}
	return week, nil
}
