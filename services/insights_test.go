package services

import (
	"testing"

	"carvalu/models"
)

func sampleListings() []models.CleanListing {
	return []models.CleanListing{
		{Make: "honda", Model: "civic", Price: 20000, Odometer: 40000, CarAge: 4, Province: "ontario"},
		{Make: "honda", Model: "accord", Price: 25000, Odometer: 60000, CarAge: 5, Province: "quebec", TransmissionManual: true},
		{Make: "ford", Model: "f-150", Price: 45000, Odometer: 80000, CarAge: 3, Province: "ontario"},
		{Make: "toyota", Model: "corolla", Price: 15000, Odometer: 20000, CarAge: 2, Province: "ontario"},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings())
	if r.TotalListings != 4 {
		t.Errorf("TotalListings: got %d, want 4", r.TotalListings)
	}
	if r.ManualListings != 1 {
		t.Errorf("ManualListings: got %d, want 1", r.ManualListings)
	}
}

func TestInsightPrices(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings())
	if r.AveragePrice != 26250 {
		t.Errorf("AveragePrice: got %.2f, want 26250", r.AveragePrice)
	}
	if r.MedianPrice != 22500 {
		t.Errorf("MedianPrice: got %.2f, want 22500", r.MedianPrice)
	}
	if r.MinPrice != 15000 {
		t.Errorf("MinPrice: got %.2f, want 15000", r.MinPrice)
	}
	if r.MaxPrice != 45000 {
		t.Errorf("MaxPrice: got %.2f, want 45000", r.MaxPrice)
	}
	if r.AverageOdometer != 50000 {
		t.Errorf("AverageOdometer: got %.2f, want 50000", r.AverageOdometer)
	}
	if r.AverageCarAge != 3.5 {
		t.Errorf("AverageCarAge: got %.2f, want 3.5", r.AverageCarAge)
	}
}

func TestInsightMostExpensive(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings())
	if r.MostExpensive == nil {
		t.Fatal("MostExpensive should not be nil")
	}
	if r.MostExpensive.Model != "f-150" {
		t.Errorf("MostExpensive: got %q, want %q", r.MostExpensive.Model, "f-150")
	}
}

func TestInsightGrouping(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings())
	if r.ListingsByMake["honda"] != 2 {
		t.Errorf("honda count: got %d, want 2", r.ListingsByMake["honda"])
	}
	if r.ListingsByProvince["ontario"] != 3 {
		t.Errorf("ontario count: got %d, want 3", r.ListingsByProvince["ontario"])
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(nil)
	if r.TotalListings != 0 {
		t.Errorf("expected 0 total listings for empty input")
	}
	if r.MostExpensive != nil {
		t.Errorf("expected no most expensive listing for empty input")
	}
}
