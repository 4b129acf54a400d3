package notifier

import (
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/iradiada19-art/arnold-swimminpool/handlers"
	"github.com/iradiada19-art/arnold-swimminpool/parser"
	"github.com/iradiada19-art/arnold-swimminpool/schedule"
	"github.com/iradiada19-art/arnold-swimminpool/storage"
	"github.com/iradiada19-art/arnold-swimminpool/types"
)

// digestHour — час отправки вечерней рассылки (локальное время).
const digestHour = 17

type Notifier struct {
	Bot     *tgbotapi.BotAPI
	Store   *storage.Storage
	PageURL string
}

func New(bot *tgbotapi.BotAPI, store *storage.Storage, pageURL string) *Notifier {
	return &Notifier{
		Bot:     bot,
		Store:   store,
		PageURL: pageURL,
	}
}

// Start запускает горутину вечерней рассылки
func (n *Notifier) Start() {
	log.Println("🔔 Evening digest service started")
	go n.loop()
}

func (n *Notifier) loop() {
	for {
		wait := untilNext(digestHour)
		log.Printf("💤 Next evening digest in %s", wait.Round(time.Minute))
		time.Sleep(wait)
		n.sendDigest()
	}
}

// untilNext возвращает время до ближайшего наступления часа hour
func untilNext(hour int) time.Duration {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// sendDigest обновляет расписание и рассылает вечерние сеансы подписчикам
func (n *Notifier) sendDigest() {
	subscribers, err := n.Store.Subscribers()
	if err != nil {
		log.Printf("⚠️ Error fetching subscribers: %v", err)
		return
	}
	if len(subscribers) == 0 {
		log.Println("📭 No digest subscribers, skipping")
		return
	}

	week, err := n.refreshSchedule()
	if err != nil {
		log.Printf("⚠️ Digest schedule refresh failed: %v", err)
		return
	}

	text := handlers.BuildMessageHTML(week, true)

	log.Printf("📬 Sending evening digest to %d subscribers", len(subscribers))
	for _, chatID := range subscribers {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := n.Bot.Send(msg); err != nil {
			log.Printf("⚠️ Failed to send digest to chatID %d: %v", chatID, err)
		}
	}
}

// refreshSchedule скачивает и разбирает свежую книгу, минуя кеш, и
// перезаписывает кеш результатом
func (n *Notifier) refreshSchedule() (*types.WeekSchedule, error) {
	link, err := parser.FindScheduleLink(n.PageURL)
	if err != nil {
		return nil, err
	}

	data, err := parser.DownloadWorkbook(link)
	if err != nil {
		return nil, err
	}

	week, err := schedule.ExtractWeek(data)
	if err != nil {
		return nil, err
	}

	if err := n.Store.SaveSchedule(week); err != nil {
		log.Printf("⚠️ Failed to cache schedule: %v", err)
	}
	return week, nil
}
