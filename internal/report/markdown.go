package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"wastewise/internal/estimator"
	"wastewise/internal/session"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatKG(v float64) string {
	if math.Abs(v) >= 1000 {
		return fmt.Sprintf("%.2fK", v/1000)
	}
	return fmt.Sprintf("%.1f", v)
}

// WriteMarkdown writes the summary report of a session.
func WriteMarkdown(w io.Writer, s *session.Session, generated time.Time) error {
	var b strings.Builder

	b.WriteString("# LAPORAN ANALISIS SAMPAH\n")
	b.WriteString("## Waste Wisdom: ringkasan per area dan model prediksi\n\n")

	b.WriteString("### 📊 RINGKASAN\n\n")
	summaries := s.Summaries()
	fmt.Fprintf(&b, "- **Jumlah Area**: %d\n", len(summaries))
	fmt.Fprintf(&b, "- **Jumlah Data Harian**: %d\n", s.Len())
	fmt.Fprintf(&b, "- **Rata-rata Sampah Semua Area**: %s kg\n", formatKG(s.GlobalAvgWaste()))

	b.WriteString("\n### 📍 DATA SEMUA AREA\n\n")
	b.WriteString("| Area | Hari | Rata-rata (kg) | Selisih vs Global (kg) | Luapan (%) | Populasi Terakhir |\n")
	b.WriteString("|------|------|----------------|------------------------|------------|-------------------|\n")
	for _, sum := range summaries {
		fmt.Fprintf(&b, "| %s | %d | %s | %+.1f | %.1f%% | %d |\n",
			sum.Area, sum.Records, formatKG(sum.AvgWasteKG), sum.DeltaKG, sum.OverflowRatePct, sum.LatestPopulation)
	}

	b.WriteString("\n### 🔮 MODEL REGRESI LINEAR\n\n")
	model, err := s.Model()
	if err != nil {
		fmt.Fprintf(&b, "Model tidak tersedia: %v\n", err)
	} else {
		b.WriteString("| Fitur | Koefisien |\n")
		b.WriteString("|-------|-----------|\n")
		fmt.Fprintf(&b, "| intercept | %.4f |\n", model.Intercept())
		for j, c := range model.Coef() {
			fmt.Fprintf(&b, "| %s | %.4f |\n", estimator.FeatureNames[j], c)
		}

		if metrics, err := s.Evaluation(); err != nil {
			fmt.Fprintf(&b, "\nAkurasi tidak terdefinisi: %v\n", err)
		} else {
			fmt.Fprintf(&b, "\n- **MSE (data uji)**: %.2f\n", metrics.MSE)
			fmt.Fprintf(&b, "- **R² (data uji)**: %.4f\n", metrics.R2)
		}
	}

	params := s.HeuristicParams()
	b.WriteString("\n### 🧮 FORMULA STATISTIK (HEURISTIK)\n\n")
	b.WriteString("- **Base rate**: rata-rata sampah area ÷ rata-rata populasi area\n")
	fmt.Fprintf(&b, "- **Hujan > %.0f mm**: ×%.2f\n", params.RainThresholdMM, params.RainFactor)
	fmt.Fprintf(&b, "- **Suhu > %.0f °C**: ×%.2f\n", params.HeatThresholdC, params.HeatFactor)
	fmt.Fprintf(&b, "- **Kampanye daur ulang**: ×%.2f\n", params.CampaignFactor)

	fmt.Fprintf(&b, "\n---\n*Generated by Waste Wisdom Analytics - %s (sesi %s)*\n",
		generated.Format("2 January 2006"), s.ID())

	_, err = io.WriteString(w, b.String())
	return err
}
