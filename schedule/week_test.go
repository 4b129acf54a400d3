package schedule

import (
	"errors"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/iradiada19-art/arnold-swimminpool/types"
)

// headerGrid builds a sheet grid shaped like the real workbook: a title row,
// a blank row, the date header at row 2 and the day columns below it.
func headerGrid(columns map[int][]string) [][]string {
	g := [][]string{
		{"", "Бассейн «Арнольд»"},
		{},
		{"", "16 февраля", "17 февраля", "18 февраля", "", "", "", ""},
	}

	rows := 0
	for _, cells := range columns {
		if len(cells) > rows {
			rows = len(cells)
		}
	}
	for r := 0; r < rows; r++ {
		row := make([]string, 8)
		for col, cells := range columns {
			if r < len(cells) {
				row[col] = cells[r]
			}
		}
		g = append(g, row)
	}
	return g
}

func TestFindDateHeader(t *testing.T) {
	g := headerGrid(nil)
	row, cols, ok := findDateHeader(g)
	if !ok {
		t.Fatal("header row not found")
	}
	if row != 2 {
		t.Errorf("header row = %d, want 2", row)
	}
	if want := []int{1, 2, 3}; !reflect.DeepEqual(cols, want) {
		t.Errorf("date columns = %v, want %v", cols, want)
	}
}

func TestFindDateHeaderTooFewDates(t *testing.T) {
	g := [][]string{
		{"", "16 февраля", "17 февраля"},
	}
	if _, _, ok := findDateHeader(g); ok {
		t.Error("row with 2 date cells must not count as header")
	}
}

func TestFindDateHeaderScanBound(t *testing.T) {
	g := make([][]string, 0, 70)
	for i := 0; i < 65; i++ {
		g = append(g, []string{""})
	}
	// валидный заголовок, но за пределом 60 строк
	g = append(g, []string{"", "16 февраля", "17 февраля", "18 февраля"})
	if _, _, ok := findDateHeader(g); ok {
		t.Error("header beyond the 60-row bound must be ignored")
	}
}

func TestFindDateHeaderCapsAtSevenColumns(t *testing.T) {
	g := [][]string{
		{"1 марта", "2 марта", "3 марта", "4 марта", "5 марта", "6 марта", "7 марта", "8 марта", "9 марта"},
	}
	_, cols, ok := findDateHeader(g)
	if !ok {
		t.Fatal("header row not found")
	}
	if len(cols) != 7 {
		t.Errorf("got %d date columns, want cap of 7", len(cols))
	}
}

func TestClassifyColumnScenarioA(t *testing.T) {
	g := headerGrid(map[int][]string{
		1: {"Свободное плавание", "с 07:00 до 09:00", "Санитарное время", "с 09:00 до 09:30"},
	})

	week, score, ok := extractSheet(g)
	if !ok {
		t.Fatal("extractSheet failed to find header")
	}
	if score != 1 {
		t.Errorf("score = %d, want 1", score)
	}

	day := week.Days[0]
	if day.Key != "Понедельник – 16 февраля" {
		t.Errorf("day key = %q", day.Key)
	}
	if want := []string{"с 07:00 до 09:00"}; !reflect.DeepEqual(day.Free, want) {
		t.Errorf("free = %v, want %v", day.Free, want)
	}
	if want := []string{"с 09:00 до 09:30"}; !reflect.DeepEqual(day.SanitaryTime, want) {
		t.Errorf("sanitary_time = %v, want %v", day.SanitaryTime, want)
	}
	if len(day.SanitaryDay) != 0 {
		t.Errorf("sanitary_day = %v, want empty", day.SanitaryDay)
	}
}

func TestClassifyColumnHourPadding(t *testing.T) {
	g := headerGrid(map[int][]string{
		1: {"Свободное плавание", "с 8:00 до 9:00"},
	})

	week, _, _ := extractSheet(g)
	// дополняется только час сразу после "с"
	if want := []string{"с 08:00 до 9:00"}; !reflect.DeepEqual(week.Days[0].Free, want) {
		t.Errorf("free = %v, want %v", week.Days[0].Free, want)
	}
}

func TestClassifyColumnDeduplicates(t *testing.T) {
	g := headerGrid(map[int][]string{
		1: {"Свободное плавание", "с 07:00 до 09:00", "с 10:00 до 12:00", "с 07:00 до 09:00"},
	})

	week, _, _ := extractSheet(g)
	want := []string{"с 07:00 до 09:00", "с 10:00 до 12:00"}
	if !reflect.DeepEqual(week.Days[0].Free, want) {
		t.Errorf("free = %v, want %v", week.Days[0].Free, want)
	}
}

func TestClassifyColumnSanitaryDayPrecedence(t *testing.T) {
	// "санитарный день" содержит и "санитар" — побеждает более узкое правило
	g := headerGrid(map[int][]string{
		1: {"Санитарный день с 08:00 до 20:00"},
	})

	week, _, _ := extractSheet(g)
	day := week.Days[0]
	if want := []string{"с 08:00 до 20:00"}; !reflect.DeepEqual(day.SanitaryDay, want) {
		t.Errorf("sanitary_day = %v, want %v", day.SanitaryDay, want)
	}
	if len(day.SanitaryTime) != 0 {
		t.Errorf("sanitary_time = %v, want empty", day.SanitaryTime)
	}
}

func TestClassifyColumnInlineMarkerTime(t *testing.T) {
	g := headerGrid(map[int][]string{
		1: {"Санитарное время с 09:00 до 09:30", "с 21:45 до 22:00"},
	})

	week, _, _ := extractSheet(g)
	want := []string{"с 09:00 до 09:30", "с 21:45 до 22:00"}
	if !reflect.DeepEqual(week.Days[0].SanitaryTime, want) {
		t.Errorf("sanitary_time = %v, want %v", week.Days[0].SanitaryTime, want)
	}
}

func TestClassifyColumnFamilyExcluded(t *testing.T) {
	// Scenario C: только семейное плавание — все три списка пустые
	g := headerGrid(map[int][]string{
		1: {"Семейное плавание с 10:00 до 11:00"},
	})

	week, score, _ := extractSheet(g)
	if !week.Days[0].Empty() {
		t.Errorf("family-only column must yield an empty day, got %+v", week.Days[0])
	}
	if score != 0 {
		t.Errorf("score = %d, want 0", score)
	}
}

func TestClassifyColumnFamilyKeepsState(t *testing.T) {
	// Семейная строка не сбрасывает текущую категорию
	g := headerGrid(map[int][]string{
		1: {"Свободное плавание", "Семейное плавание с 10:00 до 11:00", "с 12:00 до 13:00"},
	})

	week, _, _ := extractSheet(g)
	if want := []string{"с 12:00 до 13:00"}; !reflect.DeepEqual(week.Days[0].Free, want) {
		t.Errorf("free = %v, want %v", week.Days[0].Free, want)
	}
}

func TestClassifyColumnTimeWithoutMarkerIgnored(t *testing.T) {
	g := headerGrid(map[int][]string{
		1: {"с 07:00 до 09:00", "Свободное плавание", "с 10:00 до 12:00"},
	})

	week, _, _ := extractSheet(g)
	// строка времени до первого маркера не попадает никуда
	if want := []string{"с 10:00 до 12:00"}; !reflect.DeepEqual(week.Days[0].Free, want) {
		t.Errorf("free = %v, want %v", week.Days[0].Free, want)
	}
}

func TestClassifyStepTransitions(t *testing.T) {
	tests := []struct {
		name      string
		state     category
		cell      string
		wantState category
		wantEmit  category
		wantRange string
	}{
		{"free marker", catNone, "Свободное плавание", catFree, catFree, ""},
		{"sanitary time marker", catFree, "Санитарное время", catSanitaryTime, catSanitaryTime, ""},
		{"sanitary day marker", catFree, "Санитарный день", catSanitaryDay, catSanitaryDay, ""},
		{"family skip keeps state", catSanitaryTime, "Семейное плавание с 10:00 до 11:00", catSanitaryTime, catNone, ""},
		{"time in active state", catFree, "с 07:00 до 09:00", catFree, catFree, "с 07:00 до 09:00"},
		{"time without state", catNone, "с 07:00 до 09:00", catNone, catNone, ""},
		{"unrelated text", catFree, "взрослые и дети", catFree, catNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, emit, rng := classifyStep(tt.state, NormalizeCell(tt.cell))
			if state != tt.wantState || emit != tt.wantEmit || rng != tt.wantRange {
				t.Errorf("classifyStep(%v, %q) = (%v, %v, %q), want (%v, %v, %q)",
					tt.state, tt.cell, state, emit, rng, tt.wantState, tt.wantEmit, tt.wantRange)
			}
		})
	}
}

func TestExtractBestPicksHighestScore(t *testing.T) {
	sparse := headerGrid(map[int][]string{
		1: {"Свободное плавание", "с 07:00 до 09:00"},
	})
	full := headerGrid(map[int][]string{
		1: {"Свободное плавание", "с 07:00 до 09:00"},
		2: {"Свободное плавание", "с 12:00 до 13:00"},
		3: {"Санитарный день с 08:00 до 20:00"},
	})

	// порядок листов не должен влиять на выбор
	for _, grids := range [][][][]string{{sparse, full}, {full, sparse}} {
		week, err := extractBest(grids)
		if err != nil {
			t.Fatalf("extractBest: %v", err)
		}
		populated := 0
		for _, d := range week.Days {
			if !d.Empty() {
				populated++
			}
		}
		if populated != 3 {
			t.Errorf("selected sheet has %d populated days, want 3", populated)
		}
	}
}

func TestExtractBestParseFailure(t *testing.T) {
	grids := [][][]string{
		{{"ничего похожего на заголовок"}},
		{{""}, {"и здесь тоже"}},
	}
	_, err := extractBest(grids)
	if !errors.Is(err, types.ErrParseFailure) {
		t.Errorf("err = %v, want ErrParseFailure", err)
	}
}

// buildWorkbook собирает xlsx в памяти: имя листа → ячейки (axis → value).
func buildWorkbook(t *testing.T, sheets map[string]map[string]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, cells := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatal(err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatal(err)
			}
		}
		for axis, value := range cells {
			if err := f.SetCellValue(name, axis, value); err != nil {
				t.Fatal(err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractWeekSkipsSheetWithoutHeader(t *testing.T) {
	// Scenario D: первый лист без заголовка дат, второй валидный
	data := buildWorkbook(t, map[string]map[string]string{
		"Инструкция": {
			"A1": "Правила посещения бассейна",
		},
		"Неделя": {
			"B3": "16 февраля", "C3": "17 февраля", "D3": "18 февраля",
			"B4": "Свободное плавание",
			"B5": "с 07:00 до 09:00",
			"C4": "Свободное плавание",
			"C5": "с 12:00 до 13:00",
		},
	})

	week, err := ExtractWeek(data)
	if err != nil {
		t.Fatalf("ExtractWeek: %v", err)
	}
	if len(week.Days) != 3 {
		t.Fatalf("got %d days, want 3", len(week.Days))
	}
	if want := []string{"с 07:00 до 09:00"}; !reflect.DeepEqual(week.Days[0].Free, want) {
		t.Errorf("monday free = %v, want %v", week.Days[0].Free, want)
	}
	if !week.Days[2].Empty() {
		t.Errorf("wednesday must be empty, got %+v", week.Days[2])
	}
}

func TestExtractWeekParseFailure(t *testing.T) {
	// Scenario E: ни на одном листе нет строки с датами
	data := buildWorkbook(t, map[string]map[string]string{
		"Лист1": {"A1": "пусто"},
		"Лист2": {"A1": "тоже пусто"},
	})

	_, err := ExtractWeek(data)
	if !errors.Is(err, types.ErrParseFailure) {
		t.Errorf("err = %v, want ErrParseFailure", err)
	}
}

func TestExtractWeekBadBytes(t *testing.T) {
	if _, err := ExtractWeek([]byte("не xlsx")); err == nil {
		t.Error("garbage bytes must fail")
	}
}
