package parser

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultPageURL — страница бассейна с расписанием, можно переопределить
	// через POOL_PAGE_URL.
	DefaultPageURL = "https://arnold-sport.ru/basseyn/raspisanie/"

	userAgent = "Mozilla/5.0 (compatible; PoolScheduleBot/1.0)"

	// Якорь со ссылкой на книгу ищем по тексту.
	linkTextMarker = "расписан"
)

var (
	lastRequest time.Time

	httpClient = &http.Client{
		Timeout: 20 * time.Second,
	}
)

// rateLimit добавляет задержку между запросами к сайту бассейна
func rateLimit() {
	delay := time.Duration(200+rand.Intn(301)) * time.Millisecond
	elapsed := time.Since(lastRequest)

	if elapsed < delay {
		time.Sleep(delay - elapsed)
	}
	lastRequest = time.Now()
}

// FindScheduleLink загружает страницу бассейна и находит ссылку на книгу
// с расписанием: первый якорь, чей текст содержит "расписан", а href
// указывает на .xlsx/.xls. Относительные ссылки резолвятся от pageURL.
func FindScheduleLink(pageURL string) (string, error) {
	rateLimit()

	log.Printf("🌐 Fetching schedule page: %s", pageURL)

	req, err := http.NewRequest("GET", pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("страница расписания: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}

	link := ""
	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, exists := s.Attr("href")
		if !exists {
			return true
		}

		text := strings.ToLower(strings.TrimSpace(s.Text()))
		if !strings.Contains(text, linkTextMarker) {
			return true
		}

		// Отрезаем query-параметры перед проверкой расширения
		hrefPath := strings.Split(href, "?")[0]
		lower := strings.ToLower(hrefPath)
		if !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xls") {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		link = base.ResolveReference(ref).String()
		return false
	})

	if link == "" {
		return "", fmt.Errorf("ссылка на файл расписания не найдена на %s", pageURL)
	}

	log.Printf("📎 Found workbook link: %s", link)
	return link, nil
}

// DownloadWorkbook скачивает книгу с расписанием и возвращает её байты.
func DownloadWorkbook(fileURL string) ([]byte, error) {
	rateLimit()

	log.Printf("⬇️ Downloading workbook: %s", fileURL)

	req, err := http.NewRequest("GET", fileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("скачивание файла расписания: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Workbook downloaded (%d bytes)", len(data))
	return data, nil
}
