package main

import (
	"log"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/iradiada19-art/arnold-swimminpool/handlers"
	"github.com/iradiada19-art/arnold-swimminpool/notifier"
	"github.com/iradiada19-art/arnold-swimminpool/parser"
	"github.com/iradiada19-art/arnold-swimminpool/storage"
)

var store *storage.Storage

func initStorage() {
	addr := os.Getenv("REDIS_ADDR")
	pass := os.Getenv("REDIS_PASSWORD")
	db := 0 // pool-bot
	store = storage.New(addr, pass, db)

	// тестируем подключение
	if err := store.Ping(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
}

func main() {
	// Бассейн живет по московскому времени
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		log.Printf("⚠️ Failed to load Moscow timezone: %v (using UTC)", err)
	} else {
		time.Local = loc
		log.Printf("🌍 Timezone set to Europe/Moscow (current time: %s)", time.Now().Format("2006-01-02 15:04:05 MST"))
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatal("❌ TELEGRAM_BOT_TOKEN not set")
	}

	pageURL := os.Getenv("POOL_PAGE_URL")
	if pageURL == "" {
		pageURL = parser.DefaultPageURL
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("🤖 Authorized on account %s", bot.Self.UserName)

	initStorage()

	// Запускаем вечернюю рассылку в отдельной горутине
	digest := notifier.New(bot, store, pageURL)
	digest.Start()

	handler := handlers.New(bot, store, pageURL)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	log.Println("✅ Bot is running...")

	for update := range updates {
		if update.Message != nil {
			handleMessage(bot, handler, update.Message)
		}
	}
}

func handleMessage(bot *tgbotapi.BotAPI, h *handlers.Handler, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.HandleStart(msg)

	case "schedule":
		h.HandleSchedule(msg)

	case "evening":
		h.HandleEvening(msg)

	case "subscribe":
		h.HandleSubscribe(msg)

	case "unsubscribe":
		h.HandleUnsubscribe(msg)

	default:
		bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Неизвестная команда. Попробуй /start"))
	}
}
