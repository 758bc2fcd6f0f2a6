package dataset

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{"2006-01-02", "2006/01/02", "02/01/2006", "2006-01-02 15:04:05"}

// columnTypes pins the numeric columns; everything else is read as text and
// parsed here so that 0/1 and true/false flags are both accepted.
var columnTypes = map[string]series.Type{
	ColPopulation: series.Int,
	ColTempC:      series.Float,
	ColRainMM:     series.Float,
	ColWasteKG:    series.Float,
}

func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(columnTypes),
	}
}

// Load reads the dataset at path. Files ending in .xlsx are read from their
// first sheet, anything else is parsed as CSV.
func Load(path string) ([]WasteRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadWorkbook(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer file.Close()

	return LoadReader(file)
}

// LoadReader parses CSV content with a header row.
func LoadReader(r io.Reader) ([]WasteRecord, error) {
	return fromFrame(dataframe.ReadCSV(r, loadOptions()...))
}

func loadWorkbook(path string) ([]WasteRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook %s has no sheets", ErrDataUnavailable, path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	// GetRows drops trailing empty cells; pad so every row matches the header.
	if len(rows) > 0 {
		width := len(rows[0])
		for i, row := range rows {
			for len(row) < width {
				row = append(row, "")
			}
			rows[i] = row
		}
	}

	return fromFrame(dataframe.LoadRecords(rows, loadOptions()...))
}

func fromFrame(df dataframe.DataFrame) ([]WasteRecord, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, df.Err)
	}

	present := make(map[string]bool, len(df.Names()))
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, col := range Columns {
		if !present[col] {
			return nil, fmt.Errorf("%w: missing column %q", ErrDataUnavailable, col)
		}
	}

	population, err := df.Col(ColPopulation).Int()
	if err != nil {
		return nil, fmt.Errorf("%w: column %s: %v", ErrDataUnavailable, ColPopulation, err)
	}

	areas := df.Col(ColArea).Records()
	dates := df.Col(ColDate).Records()
	dayNames := df.Col(ColDayName).Records()
	temps := df.Col(ColTempC).Float()
	rains := df.Col(ColRainMM).Float()
	weekends := df.Col(ColIsWeekend).Records()
	holidays := df.Col(ColIsHoliday).Records()
	campaigns := df.Col(ColRecyclingCampaign).Records()
	wastes := df.Col(ColWasteKG).Float()
	overflows := df.Col(ColOverflow).Records()

	records := make([]WasteRecord, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		line := i + 2

		date, err := parseDate(dates[i])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrDataUnavailable, line, err)
		}

		for j, v := range []float64{temps[i], rains[i], wastes[i]} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: line %d: missing %s", ErrDataUnavailable, line, floatColumns[j])
			}
		}

		flags := make([]bool, 4)
		for j, raw := range []string{weekends[i], holidays[i], campaigns[i], overflows[i]} {
			flags[j], err = parseFlag(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrDataUnavailable, line, err)
			}
		}

		records = append(records, WasteRecord{
			Area:              strings.TrimSpace(areas[i]),
			Date:              date,
			DayName:           strings.TrimSpace(dayNames[i]),
			Population:        population[i],
			TempC:             temps[i],
			RainMM:            rains[i],
			IsWeekend:         flags[0],
			IsHoliday:         flags[1],
			RecyclingCampaign: flags[2],
			WasteKG:           wastes[i],
			Overflow:          flags[3],
		})
	}

	return records, nil
}

// floatColumns are checked for missing values in this order.
var floatColumns = []string{ColTempC, ColRainMM, ColWasteKG}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func parseFlag(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "1.0":
		return true, nil
	case "0.0":
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid flag %q", raw)
	}
	return b, nil
}
