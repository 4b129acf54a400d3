package storage

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iradiada19-art/arnold-swimminpool/types"
)

var ctx = context.Background()

const (
	scheduleKey = "cache:schedule"
	// Расписание публикуют раз в неделю, кеша на 6 часов достаточно.
	scheduleTTL = 6 * time.Hour

	subscribersKey = "subs:evening"
)

type Storage struct {
	client *redis.Client
}

func New(addr, password string, db int) *Storage {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,     // например: "localhost:6379"
		Password: password, // можно пустым
		DB:       db,
	})
	return &Storage{client: rdb}
}

func (s *Storage) Ping() error {
	return s.client.Ping(ctx).Err()
}

// ===== Кеширование расписания =====

// SaveSchedule сохраняет распарсенное расписание недели в кеш
func (s *Storage) SaveSchedule(week *types.WeekSchedule) error {
	data, err := json.Marshal(week)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, scheduleKey, data, scheduleTTL).Err()
}

// GetSchedule получает расписание из кеша; (nil, nil) если кеш пуст
func (s *Storage) GetSchedule() (*types.WeekSchedule, error) {
	val, err := s.client.Get(ctx, scheduleKey).Result()
	if err == redis.Nil {
		return nil, nil // кеш пуст
	}
	if err != nil {
		return nil, err
	}
	var week types.WeekSchedule
	if err := json.Unmarshal([]byte(val), &week); err != nil {
		return nil, err
	}
	return &week, nil
}

// ===== Подписка на вечернюю рассылку =====

// Subscribe добавляет чат в рассылку вечерних сеансов
func (s *Storage) Subscribe(chatID int64) error {
	return s.client.SAdd(ctx, subscribersKey, chatID).Err()
}

// Unsubscribe убирает чат из рассылки
func (s *Storage) Unsubscribe(chatID int64) error {
	return s.client.SRem(ctx, subscribersKey, chatID).Err()
}

// IsSubscribed проверяет, подписан ли чат
func (s *Storage) IsSubscribed(chatID int64) (bool, error) {
	return s.client.SIsMember(ctx, subscribersKey, chatID).Result()
}

// Subscribers возвращает все подписанные чаты
func (s *Storage) Subscribers() ([]int64, error) {
	members, err := s.client.SMembers(ctx, subscribersKey).Result()
	if err != nil {
		return nil, err
	}

	chatIDs := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		chatIDs = append(chatIDs, id)
	}
	return chatIDs, nil
}
