package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lueurxax/media-dashboard/internal/core/domain"
	"github.com/lueurxax/media-dashboard/internal/dataset"
)

// SVG canvas geometry shared by the charts.
const (
	chartWidth   = 640.0
	chartHeight  = 320.0
	chartPadding = 40.0

	minBubbleRadius  = 3.0
	maxBubbleRadius  = 18.0
	maxScatterPoints = 2000

	fmtCoord = "%.1f,%.1f"
)

// viridis samples, dark to light.
var categoryPalette = []string{
	"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// ScatterPoint is one video on the views-vs-likes chart.
type ScatterPoint struct {
	VideoID  string `json:"video_id"`
	Title    string `json:"title"`
	Category string `json:"category_id"`
	Views    int64  `json:"views"`
	Likes    int64  `json:"likes"`
	Comments int64  `json:"comment_count"`

	CX    float64 `json:"-"`
	CY    float64 `json:"-"`
	R     float64 `json:"-"`
	Color string  `json:"-"`
}

// LegendEntry maps a category to its color.
type LegendEntry struct {
	Category string
	Color    string
}

// ScatterChart plots views (x) against likes (y). Bubble area follows the
// comment count and color follows the category.
type ScatterChart struct {
	Points    []ScatterPoint
	Legend    []LegendEntry
	MaxViews  int64
	MaxLikes  int64
	Truncated bool
	Width     float64
	Height    float64
	Padding   float64
}

func buildScatter(videos []domain.VideoRecord) ScatterChart {
	chart := ScatterChart{Width: chartWidth, Height: chartHeight, Padding: chartPadding}

	if len(videos) > maxScatterPoints {
		videos = videos[:maxScatterPoints]
		chart.Truncated = true
	}

	var maxComments int64

	categories := make(map[string]struct{})

	for _, v := range videos {
		chart.MaxViews = max(chart.MaxViews, v.Views)
		chart.MaxLikes = max(chart.MaxLikes, v.Likes)
		maxComments = max(maxComments, v.CommentCount)
		categories[v.CategoryID] = struct{}{}
	}

	colors := categoryColors(categories)
	for _, cat := range sortedCategories(categories) {
		chart.Legend = append(chart.Legend, LegendEntry{Category: cat, Color: colors[cat]})
	}

	chart.Points = make([]ScatterPoint, 0, len(videos))

	for _, v := range videos {
		chart.Points = append(chart.Points, ScatterPoint{
			VideoID:  v.ID,
			Title:    v.Title,
			Category: v.CategoryID,
			Views:    v.Views,
			Likes:    v.Likes,
			Comments: v.CommentCount,
			CX:       scaleX(float64(v.Views), float64(chart.MaxViews)),
			CY:       scaleY(float64(v.Likes), float64(chart.MaxLikes)),
			R:        bubbleRadius(v.CommentCount, maxComments),
			Color:    colors[v.CategoryID],
		})
	}

	return chart
}

func sortedCategories(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return categoryLess(out[i], out[j])
	})

	return out
}

// categoryLess orders numeric identifiers numerically and everything else lexically.
func categoryLess(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)

	if errA == nil && errB == nil && ai != bi {
		return ai < bi
	}

	return a < b
}

func categoryColors(set map[string]struct{}) map[string]string {
	ordered := sortedCategories(set)
	colors := make(map[string]string, len(ordered))

	for i, cat := range ordered {
		idx := 0
		if len(ordered) > 1 {
			idx = i * (len(categoryPalette) - 1) / (len(ordered) - 1)
		}

		colors[cat] = categoryPalette[idx]
	}

	return colors
}

func bubbleRadius(comments, maxComments int64) float64 {
	if maxComments <= 0 || comments <= 0 {
		return minBubbleRadius
	}

	ratio := math.Sqrt(float64(comments) / float64(maxComments))

	return minBubbleRadius + ratio*(maxBubbleRadius-minBubbleRadius)
}

func scaleX(v, maxV float64) float64 {
	if maxV <= 0 {
		return chartPadding
	}

	return chartPadding + v/maxV*(chartWidth-2*chartPadding)
}

func scaleY(v, maxV float64) float64 {
	if maxV <= 0 {
		return chartHeight - chartPadding
	}

	return chartHeight - chartPadding - v/maxV*(chartHeight-2*chartPadding)
}

// Bar is one horizontal bar of a top-N chart.
type Bar struct {
	Label   string
	Count   int
	Percent float64
}

func buildBars(counts []dataset.ValueCount) []Bar {
	bars := make([]Bar, 0, len(counts))

	top := 0
	for _, c := range counts {
		top = max(top, c.Count)
	}

	for _, c := range counts {
		pct := 0.0
		if top > 0 {
			pct = float64(c.Count) / float64(top) * 100
		}

		bars = append(bars, Bar{Label: c.Value, Count: c.Count, Percent: pct})
	}

	return bars
}

// LinePoint is one vertex of the per-day line chart.
type LinePoint struct {
	X     float64
	Y     float64
	Label string
	Count int
}

// LineChart is an SVG polyline of counts per day. Days are placed by their
// calendar distance so gaps without articles stay visible.
type LineChart struct {
	Polyline string
	Points   []LinePoint
	MaxCount int
	First    string
	Last     string
	Width    float64
	Height   float64
	Padding  float64
}

func buildLine(days []dataset.DayCount) LineChart {
	chart := LineChart{Width: chartWidth, Height: chartHeight, Padding: chartPadding}
	if len(days) == 0 {
		return chart
	}

	for _, d := range days {
		chart.MaxCount = max(chart.MaxCount, d.Count)
	}

	first, last := days[0].Day, days[len(days)-1].Day
	span := last.Sub(first).Hours()
	chart.First = first.Format(queryDateLayout)
	chart.Last = last.Format(queryDateLayout)

	coords := make([]string, 0, len(days))

	for _, d := range days {
		x := chartWidth / 2
		if span > 0 {
			x = scaleX(d.Day.Sub(first).Hours(), span)
		}

		y := scaleY(float64(d.Count), float64(chart.MaxCount))

		chart.Points = append(chart.Points, LinePoint{X: x, Y: y, Label: d.Day.Format(queryDateLayout), Count: d.Count})
		coords = append(coords, fmt.Sprintf(fmtCoord, x, y))
	}

	chart.Polyline = strings.Join(coords, " ")

	return chart
}
