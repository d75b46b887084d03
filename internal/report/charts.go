package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/hazelcove/emdat-report/internal/analysis"
	"github.com/hazelcove/emdat-report/internal/domain"
)

// Input is everything the renderer consumes: the full table for the
// historical variable-cross charts, the windowed table, and the two
// aggregate results computed over it.
type Input struct {
	Full     []domain.EventRecord
	Recent   []domain.EventRecord
	Seasonal analysis.SeasonalResult
	Trends   analysis.TrendResult
}

// Renderer draws the fixed chart set into an output directory, either as
// one PNG per chart or bundled into a single multi-page PDF, and writes the
// summary workbook alongside.
type Renderer struct {
	style     StyleConfig
	outDir    string
	bundlePDF bool
	logger    *slog.Logger
}

// NewRenderer creates a Renderer. The style object is the only styling
// input; there is no package-global configuration to prime.
func NewRenderer(style StyleConfig, outDir string, bundlePDF bool, logger *slog.Logger) *Renderer {
	return &Renderer{style: style, outDir: outDir, bundlePDF: bundlePDF, logger: logger}
}

// page is one named chart of the report.
type page struct {
	name string
	plot *plot.Plot
}

// Render draws all charts and the workbook. It returns the paths written.
// A chart that cannot be built (no matching records, say) is skipped with a
// warning; rendering the rest still succeeds.
func (r *Renderer) Render(ctx context.Context, in Input) ([]string, error) {
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var pages []page
	builders := []struct {
		name  string
		build func(Input) (*plot.Plot, error)
	}{
		{"annual_series", r.annualSeries},
		{"type_trends", r.typeTrends},
		{"monthly_distribution", r.monthlyDistribution},
		{"seasonal_distribution", r.seasonalDistribution},
		{"type_by_season", r.typeBySeason},
		{"earthquakes_by_country", r.earthquakesByCountry},
		{"floods_by_region", r.floodsByRegion},
		{"droughts_by_region", r.droughtsByRegion},
		{"storms_by_continent", r.stormsByContinent},
		{"wildfire_trend", r.wildfireTrend},
	}

	for _, b := range builders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := b.build(in)
		if err != nil {
			r.logger.Warn("skipping chart", "chart", b.name, "error", err)
			continue
		}
		pages = append(pages, page{name: b.name, plot: p})
	}

	var written []string
	if r.bundlePDF {
		path, err := r.writePDF(pages)
		if err != nil {
			return nil, err
		}
		written = append(written, path)
	} else {
		for _, pg := range pages {
			path := filepath.Join(r.outDir, pg.name+".png")
			if err := pg.plot.Save(r.width(), r.height(), path); err != nil {
				return nil, fmt.Errorf("save chart %s: %w", pg.name, err)
			}
			written = append(written, path)
		}
	}

	wbPath := filepath.Join(r.outDir, "disaster_report.xlsx")
	if err := WriteWorkbook(wbPath, in); err != nil {
		return nil, err
	}
	written = append(written, wbPath)

	return written, nil
}

func (r *Renderer) width() vg.Length  { return vg.Length(r.style.WidthIn) * vg.Inch }
func (r *Renderer) height() vg.Length { return vg.Length(r.style.HeightIn) * vg.Inch }

func (r *Renderer) writePDF(pages []page) (string, error) {
	c := vgpdf.New(r.width(), r.height())
	for i, pg := range pages {
		if i > 0 {
			c.NextPage()
		}
		pg.plot.Draw(draw.New(c))
	}

	path := filepath.Join(r.outDir, "disaster_report.pdf")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create pdf: %w", err)
	}
	defer f.Close()

	if _, err := c.WriteTo(f); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}

func (r *Renderer) newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(r.style.TitleSize)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(r.style.LabelSize)
	p.Y.Label.TextStyle.Font.Size = vg.Points(r.style.LabelSize)
	return p
}

// annualSeries is the yearly event count line over the analysis window.
func (r *Renderer) annualSeries(in Input) (*plot.Plot, error) {
	if len(in.Trends.ByYear) == 0 {
		return nil, fmt.Errorf("no yearly counts")
	}

	pts := make(plotter.XYs, len(in.Trends.ByYear))
	for i, yc := range in.Trends.ByYear {
		pts[i].X = float64(yc.Year)
		pts[i].Y = float64(yc.Count)
	}

	p := r.newPlot("Disaster Events per Year", "Year", "Events")
	if err := plotutil.AddLinePoints(p, "All types", pts); err != nil {
		return nil, err
	}
	return p, nil
}

// typeTrends overlays a yearly line per top disaster type.
func (r *Renderer) typeTrends(in Input) (*plot.Plot, error) {
	if len(in.Trends.TopTypes) == 0 {
		return nil, fmt.Errorf("no disaster types")
	}

	years := make([]int, 0, len(in.Trends.ByYear))
	for _, yc := range in.Trends.ByYear {
		years = append(years, yc.Year)
	}

	p := r.newPlot(fmt.Sprintf("Trend by Disaster Type (Top %d)", len(in.Trends.TopTypes)), "Year", "Events")
	var args []interface{}
	for _, tc := range in.Trends.TopTypes {
		pts := make(plotter.XYs, len(years))
		for i, y := range years {
			pts[i].X = float64(y)
			pts[i].Y = float64(in.Trends.ByYearType[y][tc.Type])
		}
		args = append(args, tc.Type, pts)
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return nil, err
	}
	return p, nil
}

// monthlyDistribution is the event count per calendar month.
func (r *Renderer) monthlyDistribution(in Input) (*plot.Plot, error) {
	if len(in.Seasonal.ByMonth) == 0 {
		return nil, fmt.Errorf("no monthly counts")
	}

	values := make(plotter.Values, len(in.Seasonal.ByMonth))
	names := make([]string, len(in.Seasonal.ByMonth))
	for i, mc := range in.Seasonal.ByMonth {
		values[i] = float64(mc.Count)
		names[i] = mc.Name[:3]
	}
	return r.barChart("Events by Month", "Events", values, names, false)
}

// seasonalDistribution is the event count per season.
func (r *Renderer) seasonalDistribution(in Input) (*plot.Plot, error) {
	if len(in.Seasonal.BySeason) == 0 {
		return nil, fmt.Errorf("no seasonal counts")
	}

	values := make(plotter.Values, len(in.Seasonal.BySeason))
	names := make([]string, len(in.Seasonal.BySeason))
	for i, sc := range in.Seasonal.BySeason {
		values[i] = float64(sc.Count)
		names[i] = sc.Season
	}
	return r.barChart("Events by Season", "Events", values, names, false)
}

// typeBySeason draws grouped bars: one group per season, one bar per top
// disaster type.
func (r *Renderer) typeBySeason(in Input) (*plot.Plot, error) {
	if len(in.Trends.TopTypes) == 0 {
		return nil, fmt.Errorf("no disaster types")
	}

	seasons := in.Seasonal.Seasons.Order()
	p := r.newPlot("Disaster Type by Season", "Season", "Events")

	w := vg.Points(r.style.BarWidth / float64(len(in.Trends.TopTypes)))
	for i, tc := range in.Trends.TopTypes {
		values := make(plotter.Values, len(seasons))
		for j, season := range seasons {
			values[j] = float64(in.Seasonal.TypeBySeason[tc.Type][season])
		}
		bars, err := plotter.NewBarChart(values, w)
		if err != nil {
			return nil, err
		}
		bars.LineStyle.Width = 0
		bars.Color = plotutil.Color(i)
		bars.Offset = w * vg.Length(i-len(in.Trends.TopTypes)/2)
		p.Add(bars)
		p.Legend.Add(tc.Type, bars)
	}
	p.Legend.Top = true
	p.NominalX(seasons...)
	return p, nil
}

func (r *Renderer) earthquakesByCountry(in Input) (*plot.Plot, error) {
	return r.crossBars(in.Full, "Earthquake", recCountry,
		"Earthquakes by Country", "Earthquakes", true)
}

func (r *Renderer) floodsByRegion(in Input) (*plot.Plot, error) {
	return r.crossBars(in.Full, "Flood", recRegion,
		"Regions with the Highest Flood Incidence", "Floods", true)
}

func (r *Renderer) droughtsByRegion(in Input) (*plot.Plot, error) {
	return r.crossBars(in.Full, "Drought", recRegion,
		"Regional Drought Patterns", "Droughts", true)
}

func (r *Renderer) stormsByContinent(in Input) (*plot.Plot, error) {
	return r.crossBars(in.Full, "Storm", recContinent,
		"Storm Frequency by Continent", "Storms", false)
}

// wildfireTrend is the yearly wildfire count over the whole table.
func (r *Renderer) wildfireTrend(in Input) (*plot.Plot, error) {
	counts := make(map[int]int)
	minYear, maxYear := 0, 0
	for _, rec := range in.Full {
		if rec.Date == nil || !typeMatches(rec.DisasterType, "Wildfire") {
			continue
		}
		y := rec.Date.Year()
		counts[y]++
		if minYear == 0 || y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("no wildfire records")
	}

	pts := make(plotter.XYs, 0, maxYear-minYear+1)
	for y := minYear; y <= maxYear; y++ {
		pts = append(pts, plotter.XY{X: float64(y), Y: float64(counts[y])})
	}

	p := r.newPlot("Historical Wildfire Trend", "Year", "Wildfires")
	if err := plotutil.AddLinePoints(p, "Wildfires", pts); err != nil {
		return nil, err
	}
	return p, nil
}

// crossBars counts records of one disaster type by a grouping attribute and
// draws the top groups as a bar chart.
func (r *Renderer) crossBars(records []domain.EventRecord, disasterType string, group func(domain.EventRecord) string, title, yLabel string, horizontal bool) (*plot.Plot, error) {
	counts := countWhere(records, disasterType, group, r.style.TopPlaces)
	if len(counts) == 0 {
		return nil, fmt.Errorf("no %s records", strings.ToLower(disasterType))
	}

	values := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Count)
		names[i] = c.Type
	}
	return r.barChart(title, yLabel, values, names, horizontal)
}

func (r *Renderer) barChart(title, countLabel string, values plotter.Values, names []string, horizontal bool) (*plot.Plot, error) {
	bars, err := plotter.NewBarChart(values, vg.Points(r.style.BarWidth))
	if err != nil {
		return nil, err
	}
	bars.LineStyle.Width = 0
	bars.Color = plotutil.Color(0)
	bars.Horizontal = horizontal

	var p *plot.Plot
	if horizontal {
		p = r.newPlot(title, countLabel, "")
		p.Add(bars)
		p.NominalY(names...)
	} else {
		p = r.newPlot(title, "", countLabel)
		p.Add(bars)
		p.NominalX(names...)
	}
	return p, nil
}

func recCountry(rec domain.EventRecord) string   { return rec.Country }
func recRegion(rec domain.EventRecord) string    { return rec.Region }
func recContinent(rec domain.EventRecord) string { return rec.Continent }

// typeMatches reports whether a cleaned disaster type contains the wanted
// word, case-insensitively. EM-DAT uses compound labels ("Mass Movement
// (Wet)"), so substring matching mirrors the source analysis.
func typeMatches(disasterType, want string) bool {
	return strings.Contains(strings.ToLower(disasterType), strings.ToLower(want))
}

// countWhere tallies records matching a disaster type by group, returning
// the top n groups in descending order with first-seen tie-break.
func countWhere(records []domain.EventRecord, disasterType string, group func(domain.EventRecord) string, n int) []domain.TypeCount {
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		if !typeMatches(rec.DisasterType, disasterType) {
			continue
		}
		g := group(rec)
		if g == "" {
			continue
		}
		if counts[g] == 0 {
			order = append(order, g)
		}
		counts[g]++
	}

	out := make([]domain.TypeCount, 0, len(order))
	for _, g := range order {
		out = append(out, domain.TypeCount{Type: g, Count: counts[g]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
