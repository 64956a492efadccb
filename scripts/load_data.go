// Command load_data seeds the catalog: the fixed category set plus places read from the
// cultural objects CSV export (columns id, title, address, coordinate, description, category_id, url).
//
//	go run ./scripts -file cultural_objects_mnn.csv
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	database "github.com/FACorreiaa/go-tourist-routes/app/db"
	appLogger "github.com/FACorreiaa/go-tourist-routes/app/logger"
	"github.com/FACorreiaa/go-tourist-routes/config"
)

const (
	commitEvery    = 50
	maxDescription = 1000
)

type seedCategory struct {
	ID               int
	Name             string
	Description      string
	AvgVisitDuration int
}

var seedCategories = []seedCategory{
	{1, "Памятники и скульптуры", "Памятники историческим личностям и скульптуры", 15},
	{2, "Парки и скверы", "Парки, скверы, сады для прогулок и отдыха", 45},
	{3, "Тактильные макеты", "Тактильные макеты достопримечательностей для людей с ОВЗ", 10},
	{4, "Набережные", "Набережные рек Волги и Оки", 30},
	{5, "Архитектура и достопримечательности", "Исторические здания, архитектурные памятники", 20},
	{6, "Культурные центры и досуг", "Дворцы культуры, планетарии, кинотеатры", 60},
	{7, "Музеи", "Музеи, галереи, выставочные центры", 60},
	{8, "Театры и филармонии", "Театры, филармонии, концертные залы", 120},
	{9, "Стрит-арт и мозаики", "Уличное искусство, граффити, советские мозаики", 10},
}

// datasetCategories maps dataset category ids onto seedCategories ids. Unlisted ids are skipped.
var datasetCategories = map[int]int{1: 1, 2: 2, 3: 3, 4: 4, 5: 5, 6: 6, 7: 7, 8: 8, 10: 9}

var (
	pointPattern = regexp.MustCompile(`POINT \(([-\d.]+) ([-\d.]+)\)`)
	tagPattern   = regexp.MustCompile(`<[^>]+>`)
)

type placeRow struct {
	ID               int
	Title            string
	Address          string
	Latitude         float64
	Longitude        float64
	Description      string
	DescriptionClean string
	CategoryID       int
	URL              *string
}

var errSkipRow = errors.New("row skipped")

// parsePoint reads "POINT (lon lat)".
func parsePoint(s string) (lat, lon float64, ok bool) {
	m := pointPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	lon, errLon := strconv.ParseFloat(m[1], 64)
	lat, errLat := strconv.ParseFloat(m[2], 64)
	if errLon != nil || errLat != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func cleanHTML(s string) string {
	clean := strings.Join(strings.Fields(tagPattern.ReplaceAllString(s, "")), " ")
	return truncateRunes(clean, maxDescription)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// parseRecord converts one CSV record using the header positions in cols.
func parseRecord(record []string, cols map[string]int) (placeRow, error) {
	get := func(name string) string {
		if i, ok := cols[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	id, err := strconv.Atoi(get("id"))
	if err != nil {
		return placeRow{}, fmt.Errorf("%w: bad id %q", errSkipRow, get("id"))
	}
	lat, lon, ok := parsePoint(get("coordinate"))
	if !ok || lat == 0 || lon == 0 {
		return placeRow{}, fmt.Errorf("%w: place %d has no coordinates", errSkipRow, id)
	}
	datasetCategory, err := strconv.ParseFloat(get("category_id"), 64)
	if err != nil {
		return placeRow{}, fmt.Errorf("%w: place %d has no category", errSkipRow, id)
	}
	categoryID, ok := datasetCategories[int(datasetCategory)]
	if !ok {
		return placeRow{}, fmt.Errorf("%w: place %d has unmapped category %v", errSkipRow, id, datasetCategory)
	}

	description := truncateRunes(get("description"), maxDescription)
	row := placeRow{
		ID:               id,
		Title:            get("title"),
		Address:          get("address"),
		Latitude:         lat,
		Longitude:        lon,
		Description:      description,
		DescriptionClean: cleanHTML(description),
		CategoryID:       categoryID,
	}
	if u := get("url"); u != "" {
		row.URL = &u
	}
	return row, nil
}

func loadCategories(ctx context.Context, pool database.Pool) error {
	for _, c := range seedCategories {
		_, err := pool.Exec(ctx, `
			INSERT INTO categories (id, name, description, avg_visit_duration)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`,
			c.ID, c.Name, c.Description, c.AvgVisitDuration)
		if err != nil {
			return fmt.Errorf("failed to insert category %d: %w", c.ID, err)
		}
	}
	_, err := pool.Exec(ctx, `SELECT setval(pg_get_serial_sequence('categories', 'id'), (SELECT MAX(id) FROM categories))`)
	return err
}

// loadPlaces inserts rows from r, committing every commitEvery inserts. Existing ids are kept.
func loadPlaces(ctx context.Context, pool database.Pool, r io.Reader, logger *slog.Logger) (loaded, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	pending := 0
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			skipped++
			logger.Warn("Unreadable csv record", slog.Any("error", readErr))
			continue
		}

		row, parseErr := parseRecord(record, cols)
		if parseErr != nil {
			skipped++
			logger.Debug("Skipping place", slog.Any("reason", parseErr))
			continue
		}

		tag, execErr := tx.Exec(ctx, `
			INSERT INTO places (id, title, address, latitude, longitude, description, description_clean, category_id, url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING`,
			row.ID, row.Title, row.Address, row.Latitude, row.Longitude,
			row.Description, row.DescriptionClean, row.CategoryID, row.URL)
		if execErr != nil {
			return loaded, skipped, fmt.Errorf("failed to insert place %d: %w", row.ID, execErr)
		}
		if tag.RowsAffected() == 0 {
			skipped++
			continue
		}
		loaded++
		pending++

		if pending == commitEvery {
			if err = tx.Commit(ctx); err != nil {
				return loaded, skipped, fmt.Errorf("failed to commit batch: %w", err)
			}
			logger.Info("Saved places", slog.Int("loaded", loaded))
			if tx, err = pool.Begin(ctx); err != nil {
				return loaded, skipped, fmt.Errorf("failed to begin transaction: %w", err)
			}
			pending = 0
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return loaded, skipped, fmt.Errorf("failed to commit final batch: %w", err)
	}
	if _, err = pool.Exec(ctx, `SELECT setval(pg_get_serial_sequence('places', 'id'), (SELECT COALESCE(MAX(id), 1) FROM places))`); err != nil {
		return loaded, skipped, fmt.Errorf("failed to reset places sequence: %w", err)
	}
	return loaded, skipped, nil
}

func main() {
	file := flag.String("file", "cultural_objects_mnn.csv", "path to the places CSV export")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}
	logger := appLogger.New(cfg.Mode)
	ctx := context.Background()

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		os.Exit(1)
	}
	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		os.Exit(1)
	}
	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		os.Exit(1)
	}
	defer pool.Close()

	if err = loadCategories(ctx, pool); err != nil {
		logger.Error("Failed to load categories", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Categories loaded", slog.Int("count", len(seedCategories)))

	f, err := os.Open(*file)
	if err != nil {
		logger.Error("Failed to open places file", slog.String("file", *file), slog.Any("error", err))
		os.Exit(1)
	}
	defer f.Close()

	loaded, skipped, err := loadPlaces(ctx, pool, f, logger)
	if err != nil {
		logger.Error("Failed to load places", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Places loaded", slog.Int("loaded", loaded), slog.Int("skipped", skipped))
}
