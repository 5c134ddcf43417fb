package services

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"carvalu/models"
	"carvalu/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []models.CleanListing) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByMake:     make(map[string]int),
		ListingsByProvince: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	prices := make([]float64, len(listings))
	odometers := make([]float64, len(listings))
	ages := make([]float64, len(listings))
	for i, l := range listings {
		prices[i] = float64(l.Price)
		odometers[i] = float64(l.Odometer)
		ages[i] = l.CarAge
		if l.TransmissionManual {
			report.ManualListings++
		}
		report.ListingsByMake[l.Make]++
		report.ListingsByProvince[l.Province]++
	}

	report.AveragePrice = round2(stat.Mean(prices, nil))
	report.MinPrice = floats.Min(prices)
	report.MaxPrice = floats.Max(prices)
	report.AverageOdometer = round2(stat.Mean(odometers, nil))
	report.AverageCarAge = round2(stat.Mean(ages, nil))
	report.MostExpensive = &listings[floats.MaxIdx(prices)]

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)
	report.MedianPrice = median(sorted)

	s.logger.Debug("[insights] Summarised %d listings across %d makes",
		report.TotalListings, len(report.ListingsByMake))
	return report
}

func (s *InsightService) Print(r *models.InsightReport, stages []models.StageStats) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🚗 USED-CAR PREPROCESSING SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Pipeline stages
	if len(stages) > 0 {
		fmt.Printf("\033[1;33m  Pipeline Stages\033[0m\n")
		fmt.Printf("  %s\n", thin)
		for _, st := range stages {
			fmt.Printf("  %-10s %7d → %7d  \033[1;31m-%d\033[0m\n", st.Stage, st.In, st.Out, st.Dropped())
		}
		fmt.Println()
	}

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Clean listings      : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  Manual transmission : \033[1m%d\033[0m\n", r.ManualListings)
	fmt.Printf("  Average odometer    : \033[1m%.0f km\033[0m\n", r.AverageOdometer)
	fmt.Printf("  Average car age     : \033[1m%.2f years\033[0m\n", r.AverageCarAge)
	fmt.Println()

	// Price Stats
	fmt.Printf("\033[1;33m  Price Statistics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.TotalListings > 0 {
		fmt.Printf("  Average price : \033[1;32m$%.2f\033[0m\n", r.AveragePrice)
		fmt.Printf("  Median price  : \033[1;32m$%.2f\033[0m\n", r.MedianPrice)
		fmt.Printf("  Minimum price : \033[1;32m$%.0f\033[0m\n", r.MinPrice)
		fmt.Printf("  Maximum price : \033[1;32m$%.0f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	// Most Expensive
	if r.MostExpensive != nil {
		l := r.MostExpensive
		fmt.Printf("\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(fmt.Sprintf("%d %s %s %s", l.Year, l.Make, l.Model, l.Trim), 50))
		fmt.Printf("  Province : %s\n", l.Province)
		fmt.Printf("  Price    : \033[1;31m$%d\033[0m\n", l.Price)
		fmt.Println()
	}

	printCounts("Listings by Make", thin, r.ListingsByMake)
	printCounts("Listings by Province", thin, r.ListingsByProvince)

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func printCounts(title, thin string, counts map[string]int) {
	fmt.Printf("\033[1;33m  %s\033[0m\n", title)
	fmt.Printf("  %s\n", thin)
	if len(counts) == 0 {
		fmt.Printf("  No data\n")
		fmt.Println()
		return
	}

	type keyCount struct {
		key   string
		count int
	}
	var rows []keyCount
	total := 0
	for k, c := range counts {
		rows = append(rows, keyCount{k, c})
		total += c
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].key < rows[j].key
	})
	for _, kc := range rows {
		// Bars are scaled to 30 cells so large batches stay on one line.
		bar := strings.Repeat("█", (kc.count*30+total-1)/total)
		fmt.Printf("  %-20s %s (%d)\n", truncate(kc.key, 18), bar, kc.count)
	}
	fmt.Println()
}

// median expects sorted input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
