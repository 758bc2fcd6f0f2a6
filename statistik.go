package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"wastewise/internal/api"
	"wastewise/internal/charts"
	"wastewise/internal/config"
	"wastewise/internal/dataset"
	"wastewise/internal/estimator"
	"wastewise/internal/report"
	"wastewise/internal/session"
)

const (
	workbookFile = "ringkasan_sampah.xlsx"
	accuracyFile = "akurasi_model.png"
	reportFile   = "laporan_sampah.md"
)

type options struct {
	dataPath  string
	outputDir string
	area      string
	serve     bool
	port      string
	strategy  string

	population float64
	tempC      float64
	rainMM     float64
	weekend    bool
	holiday    bool
	campaign   bool
}

func parseFlags(cfg *config.Config) *options {
	opts := &options{}
	flag.StringVar(&opts.dataPath, "data", cfg.DataPath, "Dataset file (.csv or .xlsx)")
	flag.StringVar(&opts.outputDir, "out", cfg.OutputDir, "Output directory for workbook, charts and report")
	flag.StringVar(&opts.area, "area", "", "Area to predict and chart (default: every area)")
	flag.BoolVar(&opts.serve, "serve", false, "Serve the dashboard over HTTP instead of writing files")
	flag.StringVar(&opts.port, "port", cfg.Port, "HTTP server port")
	flag.StringVar(&opts.strategy, "strategy", "heuristic", "Prediction strategy: heuristic or regression")
	flag.Float64Var(&opts.population, "population", 0, "Population for the prediction (default: latest of the area)")
	flag.Float64Var(&opts.tempC, "temp", session.DefaultTempC, "Temperature in °C")
	flag.Float64Var(&opts.rainMM, "rain", session.DefaultRainMM, "Rainfall in mm")
	flag.BoolVar(&opts.weekend, "weekend", false, "Predict for a weekend day")
	flag.BoolVar(&opts.holiday, "holiday", false, "Predict for a holiday")
	flag.BoolVar(&opts.campaign, "campaign", false, "Recycling campaign is running")
	flag.Parse()
	return opts
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	opts := parseFlags(cfg)

	fmt.Println("♻️  WASTE WISDOM: ANALISIS & PREDIKSI SAMPAH")
	fmt.Println("Memproses data harian...")

	records := readData(opts.dataPath)

	s, err := session.New(records, session.Options{
		TestRatio: cfg.TestRatio,
		SplitSeed: cfg.SplitSeed,
		Heuristic: cfg.Heuristic,
	})
	if err != nil {
		log.Fatal("Error membangun sesi:", err)
	}
	fmt.Printf("🗂️  Sesi %s: %d area\n", s.ID(), len(s.Areas()))
	printModel(s)

	if opts.serve {
		serve(s, opts.port, cfg.TrendDays, cfg.Debug)
		return
	}

	areas := s.Areas()
	if opts.area != "" {
		areas = []string{opts.area}
	}

	for _, area := range areas {
		printAreaSummary(s, area)
		predict(s, area, opts)
	}

	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		log.Fatal("Error membuat direktori output:", err)
	}

	outputs := []string{}
	outputs = append(outputs, createWorkbook(s, opts.outputDir, opts.area, cfg.TrendDays))
	outputs = append(outputs, createCharts(s, opts.outputDir, areas, cfg.TrendDays)...)
	outputs = append(outputs, createReport(s, opts.outputDir))

	fmt.Println("\n✅ ANALISIS SAMPAH SELESAI!")
	fmt.Println("📁 File Output:")
	for _, out := range outputs {
		fmt.Printf("   - %s\n", out)
	}
}

func readData(path string) []dataset.WasteRecord {
	records, err := dataset.Load(path)
	if err != nil {
		log.Fatal("Error membaca dataset: ", err)
	}

	fmt.Printf("📊 Data berhasil dibaca: %d records\n", len(records))
	return records
}

func printModel(s *session.Session) {
	model, err := s.Model()
	if err != nil {
		fmt.Printf("⚠️  Model regresi tidak tersedia: %v\n", err)
		return
	}

	fmt.Printf("📈 Model regresi dilatih pada %d baris (intercept %.3f)\n", model.TrainRows(), model.Intercept())
	metrics, err := s.Evaluation()
	if err != nil {
		fmt.Printf("⚠️  Akurasi tidak terdefinisi: %v\n", err)
		return
	}
	fmt.Printf("🎯 Akurasi data uji: MSE %.2f, R² %.4f\n", metrics.MSE, metrics.R2)
}

func printAreaSummary(s *session.Session, area string) {
	summary, err := s.Summary(area)
	if err != nil {
		log.Fatal("Error ringkasan area: ", err)
	}

	fmt.Printf("\n📍 %s\n", summary.Area)
	fmt.Printf("   Rata-rata: %.1f kg (global %.1f kg, selisih %+.1f kg)\n",
		summary.AvgWasteKG, summary.GlobalAvgWasteKG, summary.DeltaKG)
	fmt.Printf("   Tingkat luapan: %.1f%%\n", summary.OverflowRatePct)
}

func predict(s *session.Session, area string, opts *options) {
	strategy, err := estimator.ParseStrategy(opts.strategy)
	if err != nil {
		log.Fatal(err)
	}

	features, err := s.DefaultFeatures(area)
	if err != nil {
		log.Fatal(err)
	}
	if opts.population > 0 {
		features.Population = opts.population
	}
	features.TempC = opts.tempC
	features.RainMM = opts.rainMM
	features.IsWeekend = opts.weekend
	features.IsHoliday = opts.holiday
	features.RecyclingCampaign = opts.campaign

	prediction, err := s.Predict(strategy, area, features)
	switch {
	case errors.Is(err, estimator.ErrDivisionUndefined):
		fmt.Printf("   🔮 Prediksi (%s): tidak dapat diestimasi untuk area ini\n", strategy)
	case err != nil:
		fmt.Printf("   🔮 Prediksi (%s): %v\n", strategy, err)
	default:
		fmt.Printf("   🔮 Prediksi (%s): %.2f kg\n", strategy, prediction)
	}
}

func createWorkbook(s *session.Session, dir, area string, trendDays int) string {
	f, err := report.Workbook(s, area, trendDays)
	if err != nil {
		log.Fatal("Error membuat Excel:", err)
	}
	defer f.Close()

	path := filepath.Join(dir, workbookFile)
	if err := f.SaveAs(path); err != nil {
		log.Fatal("Error menyimpan Excel:", err)
	}

	fmt.Printf("📈 File Excel berhasil dibuat: %s (%d area)\n", path, len(s.Areas()))
	return path
}

func createCharts(s *session.Session, dir string, areas []string, trendDays int) []string {
	var written []string

	for _, area := range areas {
		slug := fileSlug(area)

		cmp, err := s.DailyComparison(area)
		if err != nil {
			log.Fatal(err)
		}
		p, err := charts.DailyChart(area, cmp.Local, cmp.Global)
		if err != nil {
			log.Fatal(err)
		}
		path := filepath.Join(dir, "harian_"+slug+".png")
		if err := charts.Save(p, path); err != nil {
			log.Fatal(err)
		}
		written = append(written, path)

		recent, err := s.RecentTrend(area, trendDays)
		if err != nil {
			log.Fatal(err)
		}
		p, err = charts.TrendChart(area, recent)
		if err != nil {
			log.Fatal(err)
		}
		path = filepath.Join(dir, "tren_"+slug+".png")
		if err := charts.Save(p, path); err != nil {
			log.Fatal(err)
		}
		written = append(written, path)
	}

	series, err := s.AccuracySeries()
	if err != nil {
		fmt.Printf("⚠️  Grafik akurasi dilewati: %v\n", err)
		return written
	}
	metrics, err := s.Evaluation()
	if err != nil {
		fmt.Printf("⚠️  Grafik akurasi dilewati: %v\n", err)
		return written
	}
	p, err := charts.AccuracyChart(series, metrics)
	if err != nil {
		log.Fatal(err)
	}
	path := filepath.Join(dir, accuracyFile)
	if err := charts.Save(p, path); err != nil {
		log.Fatal(err)
	}
	return append(written, path)
}

func createReport(s *session.Session, dir string) string {
	path := filepath.Join(dir, reportFile)
	file, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	if err := report.WriteMarkdown(file, s, time.Now()); err != nil {
		log.Fatal(err)
	}

	fmt.Println("📋 Laporan berhasil dibuat:", path)
	return path
}

func fileSlug(area string) string {
	slug := strings.ToLower(strings.TrimSpace(area))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, slug)
	if slug == "" {
		return "area"
	}
	return slug
}

func serve(s *session.Session, port string, trendDays int, debug bool) {
	router := api.NewRouter(api.NewHandler(s, trendDays), debug)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
	log.Printf("Dashboard starting at http://localhost:%s", port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
