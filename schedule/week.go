package schedule

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/iradiada19-art/arnold-swimminpool/types"
)

// Дни недели по позиции колонки: первая найденная колонка с датой — понедельник.
var weekdayNames = []string{
	"Понедельник",
	"Вторник",
	"Среда",
	"Четверг",
	"Пятница",
	"Суббота",
	"Воскресенье",
}

const (
	// headerScanLimit bounds the date-header search so a malformed sheet
	// is not scanned end to end.
	headerScanLimit = 60

	// headerMinDates — минимум ячеек с датой в строке, чтобы считать её
	// заголовком (отсекает случайный текст, похожий на дату).
	headerMinDates = 3

	// maxDays — одна неделя, лишние колонки игнорируются.
	maxDays = 7
)

var (
	// "16 февраля" — одна-две цифры, пробел, кириллица.
	dateRe = regexp.MustCompile(`^\d{1,2}\s+[а-яёА-ЯЁ]+`)

	// Строка со временем: "с 08:00 до 09:00", хвост после "с" целиком.
	timeRangeRe = regexp.MustCompile(`с\s*\d{1,2}:\d{2}.*$`)

	// Час из одной цифры сразу после "с" дополняется нулём.
	hourPadRe = regexp.MustCompile(`^с\s*(\d):`)
)

// category is the classifier state: what kind of slot the time lines below
// the last marker cell belong to.
type category int

const (
	catNone category = iota
	catFree
	catSanitaryTime
	catSanitaryDay
)

// ExtractWeek parses workbook bytes into a WeekSchedule. Every sheet is
// tried independently; the sheet whose extraction fills the most days wins.
// If no sheet yields a populated day the workbook format is unrecognized
// and types.ErrParseFailure is returned.
func ExtractWeek(data []byte) (*types.WeekSchedule, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("открытие книги: %w", err)
	}
	defer f.Close()

	var grids [][][]string
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		grids = append(grids, rows)
	}
	return extractBest(grids)
}

// extractBest runs the extraction over every sheet grid and keeps the result
// with the strictly highest score (days with at least one time range).
// Ties keep the first sheet found.
func extractBest(grids [][][]string) (*types.WeekSchedule, error) {
	var best *types.WeekSchedule
	bestScore := 0

	for _, grid := range grids {
		week, score, ok := extractSheet(grid)
		if !ok {
			// Нет строки с датами — лист пропускаем молча.
			continue
		}
		if score > bestScore {
			best = week
			bestScore = score
		}
	}

	if best == nil {
		return nil, types.ErrParseFailure
	}
	return best, nil
}

// extractSheet extracts a WeekSchedule from one sheet's raw cell grid.
// Returns ok=false when the sheet has no date-header row.
func extractSheet(raw [][]string) (*types.WeekSchedule, int, bool) {
	grid := make([][]string, len(raw))
	for r, row := range raw {
		grid[r] = make([]string, len(row))
		for c, cell := range row {
			grid[r][c] = NormalizeCell(cell)
		}
	}

	headerRow, dateCols, ok := findDateHeader(grid)
	if !ok {
		return nil, 0, false
	}

	week := &types.WeekSchedule{Days: make([]types.Day, 0, len(dateCols))}
	score := 0
	for i, col := range dateCols {
		day := classifyColumn(grid, headerRow, col)
		day.Key = weekdayNames[i] + " – " + grid[headerRow][col]
		if !day.Empty() {
			score++
		}
		week.Days = append(week.Days, day)
	}
	return week, score, true
}

// findDateHeader scans the first headerScanLimit rows for the row listing
// per-day dates and returns its index plus the date column indices in
// left-to-right order, capped at maxDays.
func findDateHeader(grid [][]string) (int, []int, bool) {
	limit := len(grid)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for r := 0; r < limit; r++ {
		var cols []int
		for c, cell := range grid[r] {
			if dateRe.MatchString(cell) {
				cols = append(cols, c)
			}
		}
		if len(cols) >= headerMinDates {
			if len(cols) > maxDays {
				cols = cols[:maxDays]
			}
			return r, cols, true
		}
	}
	return 0, nil, false
}

// classifyColumn folds classifyStep over the cells below one day's header
// cell, top to bottom, and buckets the emitted time ranges by category.
func classifyColumn(grid [][]string, headerRow, col int) types.Day {
	var day types.Day

	state := catNone
	for r := headerRow + 1; r < len(grid); r++ {
		if col >= len(grid[r]) {
			continue
		}
		cell := grid[r][col]
		if cell == "" {
			continue
		}

		var emit category
		var rng string
		state, emit, rng = classifyStep(state, cell)
		if emit == catNone || rng == "" {
			continue
		}
		switch emit {
		case catFree:
			day.Free = append(day.Free, rng)
		case catSanitaryTime:
			day.SanitaryTime = append(day.SanitaryTime, rng)
		case catSanitaryDay:
			day.SanitaryDay = append(day.SanitaryDay, rng)
		}
	}

	day.Free = dedupe(day.Free)
	day.SanitaryTime = dedupe(day.SanitaryTime)
	day.SanitaryDay = dedupe(day.SanitaryDay)
	return day
}

// classifyStep is the classifier transition function: current state plus one
// non-empty cell gives the next state, the category to emit into (catNone
// when nothing is emitted) and the extracted time range. Marker precedence:
// "семейное" is skipped outright, "санитарный день" before the broader
// "санитар", then "свободное", then plain time lines in the active state.
func classifyStep(state category, cell string) (category, category, string) {
	lower := strings.ToLower(cell)

	switch {
	case strings.Contains(lower, "семейное"):
		// Семейное плавание — не про нас, состояние не трогаем.
		return state, catNone, ""

	case strings.Contains(lower, "санитарный день"):
		return catSanitaryDay, catSanitaryDay, extractTimeRange(lower)

	case strings.Contains(lower, "санитар"):
		return catSanitaryTime, catSanitaryTime, extractTimeRange(lower)

	case strings.Contains(lower, "свободное"):
		return catFree, catFree, extractTimeRange(lower)

	case state != catNone && timeRangeRe.MatchString(lower):
		return state, state, extractTimeRange(lower)

	default:
		return state, catNone, ""
	}
}

// extractTimeRange pulls the trailing "с HH:MM ..." substring out of a cell,
// zero-padding a single-digit hour right after "с". Returns "" when the cell
// carries no time range.
func extractTimeRange(cell string) string {
	m := timeRangeRe.FindString(cell)
	if m == "" {
		return ""
	}
	return hourPadRe.ReplaceAllString(m, "с 0$1:")
}

// dedupe removes duplicates preserving first-occurrence order.
func dedupe(in []string) []string {
	if len(in) < 2 {
		return in
	}
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			out = append(out, s)
			seen[s] = true
		}
	}
	return out
}
