package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"mealdeal/fixture"
	"mealdeal/search"
)

// searchFlags maps CLI flags onto the query keys of GET /api/offers.
var searchFlags = []struct {
	flag, key, usage string
}{
	{"search", "search", "Text matched against offer and restaurant fields"},
	{"cuisine", "cuisine", "Exact cuisine, case-insensitive"},
	{"location", "location", "Location substring, case-insensitive"},
	{"discount", "discount", "Discount band: all, high, medium, low"},
	{"sort-by", "sortBy", "Ordering: created, discount, price, rating, expiry, distance"},
	{"lat", "lat", "Latitude of the search center"},
	{"lng", "lng", "Longitude of the search center"},
	{"radius", "radius", "Radius in km around the center"},
	{"active-only", "activeOnly", "Only active, unexpired offers (true/false)"},
	{"page", "page", "Page number"},
	{"limit", "limit", "Offers per page"},
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search offers in a fixture file without a database",
		RunE:  runSearch,
	}
	for _, f := range searchFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
	cmd.Flags().String("file", "", "YAML fixture file (default: built-in sample)")
	cmd.Flags().String("now", "", "Evaluate expiry at this RFC3339 instant (default: current time)")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	dataset, err := loadDataset(file)
	if err != nil {
		return err
	}

	now := time.Now()
	if v, _ := cmd.Flags().GetString("now"); v != "" {
		now, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
	}

	values := url.Values{}
	for _, f := range searchFlags {
		if v, _ := cmd.Flags().GetString(f.flag); v != "" {
			values.Set(f.key, v)
		}
	}

	page, err := search.NewService(fixture.NewSource(dataset)).Search(cmd.Context(), search.ParseCriteria(values, now))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(page)
}
