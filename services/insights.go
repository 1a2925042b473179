package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"restaurant-catalog/models"
	"restaurant-catalog/storage"
	"restaurant-catalog/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate reads per-dimension counts from the store.
func (s *InsightService) Generate(ctx context.Context, reader storage.CatalogReader) (*models.InsightReport, error) {
	total, err := reader.CountListings(ctx)
	if err != nil {
		return nil, err
	}
	report := &models.InsightReport{TotalListings: total}
	if total == 0 {
		return report, nil
	}

	if report.ByLocation, err = reader.CountByDimension(ctx, models.DimensionLocation); err != nil {
		return nil, err
	}
	if report.ByCuisine, err = reader.CountByDimension(ctx, models.DimensionCategory); err != nil {
		return nil, err
	}
	if report.ByCost, err = reader.CountByDimension(ctx, models.DimensionCost); err != nil {
		return nil, err
	}
	s.logger.Debug("[insights] %d listings, %d locations, %d cuisines",
		total, len(report.ByLocation), len(report.ByCuisine))
	return report, nil
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  RESTAURANT CATALOG INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Stored restaurants : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  Locations          : \033[1m%d\033[0m\n", len(r.ByLocation))
	fmt.Fprintf(w, "  Cuisines           : \033[1m%d\033[0m\n", len(r.ByCuisine))
	fmt.Fprintln(w)

	printCounts(w, "Restaurants by Location", thin, r.ByLocation)
	printCounts(w, "Restaurants by Cuisine", thin, r.ByCuisine)
	printCounts(w, "Restaurants by Cost", thin, r.ByCost)

	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)
}

func printCounts(w io.Writer, title, thin string, counts []models.DimensionCount) {
	fmt.Fprintf(w, "\033[1;33m  %s\033[0m\n", title)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(counts) == 0 {
		fmt.Fprintf(w, "  No data\n\n")
		return
	}
	for _, c := range counts {
		bar := strings.Repeat("█", c.Count)
		fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(c.Value, 28), bar, c.Count)
	}
	fmt.Fprintln(w)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
