// Command genfixture writes a synthetic EM-DAT style CSV fixture with the
// blanks, stray whitespace, and impossible dates the cleaning stages have to
// handle. The output is deterministic for a given seed, so test assertions
// stay stable.
//
// Usage:
//
//	go run ./cmd/genfixture -out data/fixtures/events.csv -rows 500 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hazelcove/emdat-report/internal/dataset"
)

var disasterTypes = []string{"Flood", "Storm", "Earthquake", "Drought", "Wildfire", "Epidemic"}

var places = []struct {
	country, region, continent string
}{
	{"Chile", "South America", "Americas"},
	{"Peru", "South America", "Americas"},
	{"India", "Southern Asia", "Asia"},
	{"Japan", "Eastern Asia", "Asia"},
	{"Kenya", "Eastern Africa", "Africa"},
	{"Australia", "Australia and New Zealand", "Oceania"},
	{"Italy", "Southern Europe", "Europe"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	rows := flag.Int("rows", 500, "number of data rows to generate")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		dataset.ColYear, dataset.ColStartYear, dataset.ColStartMonth, dataset.ColStartDay,
		dataset.ColDisasterType, dataset.ColCountry, dataset.ColRegion, dataset.ColContinent,
		dataset.ColTotalDeaths, dataset.ColTotalAffected,
	}
	if err := w.Write(header); err != nil {
		return err
	}

	stats := map[string]int{}
	for i := 0; i < *rows; i++ {
		if err := w.Write(makeRow(rng, stats)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	log.Printf("wrote %d rows: %s", *rows, *out)
	printStats(stats)
	return nil
}

// makeRow builds one CSV row, deliberately dirtying roughly a tenth of the
// nullable cells.
func makeRow(rng *rand.Rand, stats map[string]int) []string {
	year := 1970 + rng.Intn(55)
	month := 1 + rng.Intn(12)
	day := 1 + rng.Intn(28)
	place := places[rng.Intn(len(places))]
	disasterType := disasterTypes[rng.Intn(len(disasterTypes))]

	startYear := strconv.Itoa(year)
	startMonth := strconv.Itoa(month)
	startDay := strconv.Itoa(day)
	country := place.country
	region := place.region
	deaths := strconv.Itoa(rng.Intn(20000))
	affected := strconv.Itoa(rng.Intn(2000000))

	switch rng.Intn(10) {
	case 0:
		startDay = ""
		stats["blank day"]++
	case 1:
		startMonth = ""
		startDay = ""
		stats["blank month"]++
	case 2:
		// Impossible date, dropped during unification.
		startMonth = "2"
		startDay = "30"
		stats["invalid date"]++
	case 3:
		disasterType = ""
		stats["blank type"]++
	case 4:
		disasterType = "  " + disasterType + " "
		stats["padded type"]++
	case 5:
		country = ""
		stats["blank country"]++
	case 6:
		region = " " + region
		stats["padded region"]++
	case 7:
		deaths = ""
		stats["blank deaths"]++
	case 8:
		affected = ""
		stats["blank affected"]++
	}

	return []string{
		strconv.Itoa(year), startYear, startMonth, startDay,
		disasterType, country, region, place.continent,
		deaths, affected,
	}
}

func printStats(stats map[string]int) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	for _, k := range []string{
		"blank day", "blank month", "invalid date", "blank type",
		"padded type", "blank country", "padded region", "blank deaths", "blank affected",
	} {
		fmt.Printf("%-15s %d\n", k+":", stats[k])
	}
}
