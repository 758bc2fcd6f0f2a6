// Package report exports session results as an Excel workbook and a markdown
// summary.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"wastewise/internal/dataset"
	"wastewise/internal/estimator"
	"wastewise/internal/session"
)

const (
	SheetSummary  = "Ringkasan_Area"
	SheetDaily    = "Perbandingan_Harian"
	SheetTrend    = "Tren_Terakhir"
	SheetModel    = "Model_Regresi"
	SheetAccuracy = "Prediksi_Uji"
)

// Workbook builds the dashboard workbook. area limits the trend sheet to one
// area; an empty area includes every area.
func Workbook(s *session.Session, area string, trendDays int) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	for _, sheet := range []string{SheetDaily, SheetTrend, SheetModel, SheetAccuracy} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}

	steps := []func() error{
		func() error { return writeSummary(f, s) },
		func() error { return writeDaily(f, s) },
		func() error { return writeTrend(f, s, area, trendDays) },
		func() error { return writeModel(f, s) },
		func() error { return writeAccuracy(f, s) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeHeader(f *excelize.File, sheet string, headers ...string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, 20); err != nil {
			return err
		}
	}
	return writeRow(f, sheet, 1, values...)
}

func writeSummary(f *excelize.File, s *session.Session) error {
	if err := writeHeader(f, SheetSummary, "Area", "Jumlah Hari", "Rata-rata Sampah (kg)",
		"Rata-rata Global (kg)", "Selisih (kg)", "Tingkat Luapan (%)",
		"Rata-rata Populasi", "Populasi Terakhir"); err != nil {
		return err
	}

	for i, sum := range s.Summaries() {
		if err := writeRow(f, SheetSummary, i+2,
			sum.Area,
			sum.Records,
			round2(sum.AvgWasteKG),
			round2(sum.GlobalAvgWasteKG),
			round2(sum.DeltaKG),
			round2(sum.OverflowRatePct),
			round2(sum.AvgPopulation),
			sum.LatestPopulation,
		); err != nil {
			return err
		}
	}
	return nil
}

func writeDaily(f *excelize.File, s *session.Session) error {
	areas := s.Areas()

	headers := append([]string{"Hari"}, areas...)
	headers = append(headers, "Semua Area")
	if err := writeHeader(f, SheetDaily, headers...); err != nil {
		return err
	}

	global := dataset.GroupMeanByDayName(s.Records(), dataset.DayOrder)
	columns := make([][]dataset.DayMean, 0, len(areas)+1)
	for _, area := range areas {
		cmp, err := s.DailyComparison(area)
		if err != nil {
			return err
		}
		columns = append(columns, cmp.Local)
	}
	columns = append(columns, global)

	for i, day := range dataset.DayOrder {
		values := []interface{}{day}
		for _, col := range columns {
			if col[i].Mean == nil {
				values = append(values, "")
				continue
			}
			values = append(values, round2(*col[i].Mean))
		}
		if err := writeRow(f, SheetDaily, i+2, values...); err != nil {
			return err
		}
	}
	return nil
}

func writeTrend(f *excelize.File, s *session.Session, area string, days int) error {
	if err := writeHeader(f, SheetTrend, "Area", "Tanggal", "Hari", "Sampah (kg)", "Luapan"); err != nil {
		return err
	}

	areas := s.Areas()
	if area != "" {
		areas = []string{area}
	}

	row := 2
	for _, a := range areas {
		recent, err := s.RecentTrend(a, days)
		if err != nil {
			return err
		}
		for _, rec := range recent {
			overflow := "Tidak"
			if rec.Overflow {
				overflow = "Ya"
			}
			if err := writeRow(f, SheetTrend, row, rec.Area, rec.Date.Format("2006-01-02"), rec.DayName, rec.WasteKG, overflow); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeModel(f *excelize.File, s *session.Session) error {
	if err := writeHeader(f, SheetModel, "Parameter", "Nilai"); err != nil {
		return err
	}

	model, err := s.Model()
	if err != nil {
		return writeRow(f, SheetModel, 2, "Status", err.Error())
	}

	row := 2
	if err := writeRow(f, SheetModel, row, "intercept", model.Intercept()); err != nil {
		return err
	}
	for j, c := range model.Coef() {
		row++
		if err := writeRow(f, SheetModel, row, estimator.FeatureNames[j], c); err != nil {
			return err
		}
	}

	row++
	if err := writeRow(f, SheetModel, row, "baris latih", model.TrainRows()); err != nil {
		return err
	}

	metrics, err := s.Evaluation()
	if err != nil {
		return writeRow(f, SheetModel, row+1, "Status", err.Error())
	}
	if err := writeRow(f, SheetModel, row+1, "MSE", metrics.MSE); err != nil {
		return err
	}
	return writeRow(f, SheetModel, row+2, "R2", metrics.R2)
}

func writeAccuracy(f *excelize.File, s *session.Session) error {
	if err := writeHeader(f, SheetAccuracy, "Tanggal", "Aktual (kg)", "Prediksi (kg)", "Selisih (kg)"); err != nil {
		return err
	}

	series, err := s.AccuracySeries()
	if err != nil {
		return writeRow(f, SheetAccuracy, 2, fmt.Sprintf("Tidak tersedia: %v", err))
	}

	for i, pt := range series {
		if err := writeRow(f, SheetAccuracy, i+2,
			pt.Date.Format("2006-01-02"),
			round2(pt.Actual),
			round2(pt.Predicted),
			round2(pt.Actual-pt.Predicted),
		); err != nil {
			return err
		}
	}
	return nil
}
