// Package charts renders the dashboard charts with gonum/plot.
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"wastewise/internal/dataset"
	"wastewise/internal/estimator"
)

var ErrNoData = errors.New("charts: nothing to plot")

var (
	areaColor   = color.RGBA{R: 5, G: 150, B: 105, A: 255}
	globalColor = color.RGBA{R: 100, G: 116, B: 139, A: 255}
	actualColor = color.RGBA{R: 15, G: 23, B: 42, A: 255}
)

// Default output sizes.
const (
	Width  = 12 * vg.Inch
	Height = 6 * vg.Inch
)

// DailyChart draws the weekday means of an area next to the all-area means.
// Days without records are drawn empty and marked in the tick label.
func DailyChart(area string, local, global []dataset.DayMean) (*plot.Plot, error) {
	if len(local) == 0 || len(local) != len(global) {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Perbandingan Harian: %s vs Semua Area", area)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Rata-rata Sampah (kg)"

	localValues := make(plotter.Values, len(local))
	globalValues := make(plotter.Values, len(global))
	labels := make([]string, len(local))

	for i := range local {
		labels[i] = local[i].Day
		if local[i].Mean != nil {
			localValues[i] = *local[i].Mean
		} else {
			labels[i] += " (n/a)"
		}
		if global[i].Mean != nil {
			globalValues[i] = *global[i].Mean
		}
	}

	width := vg.Points(18)

	localBars, err := plotter.NewBarChart(localValues, width)
	if err != nil {
		return nil, err
	}
	localBars.Color = areaColor
	localBars.LineStyle.Width = vg.Length(0)
	localBars.Offset = -width / 2

	globalBars, err := plotter.NewBarChart(globalValues, width)
	if err != nil {
		return nil, err
	}
	globalBars.Color = globalColor
	globalBars.LineStyle.Width = vg.Length(0)
	globalBars.Offset = width / 2

	p.Add(localBars, globalBars, plotter.NewGrid())
	p.Legend.Add("Area "+area, localBars)
	p.Legend.Add("Rata-rata semua area", globalBars)
	p.Legend.Top = true

	p.NominalX(labels...)
	p.Y.Min = 0

	return p, nil
}

// TrendChart draws waste_kg over the given records in dataset order.
func TrendChart(area string, records []dataset.WasteRecord) (*plot.Plot, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Tren Sampah %d Hari Terakhir: %s", len(records), area)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Tanggal"
	p.Y.Label.Text = "Sampah (kg)"

	points := make(plotter.XYs, len(records))
	labels := make([]string, len(records))
	for i, rec := range records {
		points[i].X = float64(i)
		points[i].Y = rec.WasteKG
		labels[i] = rec.Date.Format("02 Jan")
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return nil, err
	}
	line.Color = areaColor
	line.Width = vg.Points(2)

	p.Add(line, plotter.NewGrid())
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight

	return p, nil
}

// AccuracyChart draws observed against predicted waste for the held-out days.
func AccuracyChart(series []estimator.SeriesPoint, metrics estimator.Metrics) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Aktual vs Prediksi (R² %.3f, MSE %.1f)", metrics.R2, metrics.MSE)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Hari uji"
	p.Y.Label.Text = "Sampah (kg)"

	actual := make(plotter.XYs, len(series))
	predicted := make(plotter.XYs, len(series))
	for i, pt := range series {
		actual[i] = plotter.XY{X: float64(i), Y: pt.Actual}
		predicted[i] = plotter.XY{X: float64(i), Y: pt.Predicted}
	}

	actualLine, err := plotter.NewLine(actual)
	if err != nil {
		return nil, err
	}
	actualLine.Color = actualColor
	actualLine.Width = vg.Points(1.5)

	predictedLine, err := plotter.NewLine(predicted)
	if err != nil {
		return nil, err
	}
	predictedLine.Color = areaColor
	predictedLine.Width = vg.Points(1.5)
	predictedLine.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}

	p.Add(actualLine, predictedLine, plotter.NewGrid())
	p.Legend.Add("Aktual", actualLine)
	p.Legend.Add("Prediksi", predictedLine)
	p.Legend.Top = true

	return p, nil
}

// Save writes p as an image; the format follows the file extension.
func Save(p *plot.Plot, path string) error {
	return p.Save(Width, Height, path)
}

// WritePNG streams p as PNG.
func WritePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
