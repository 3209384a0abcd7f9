package dashboard

import (
	"fmt"

	"penguinlens/internal/aggregate"
)

// ChartKind tells the presentation layer how to draw a chart.
type ChartKind string

const (
	ChartBar        ChartKind = "bar"
	ChartStackedBar ChartKind = "stacked_bar"
	ChartPie        ChartKind = "pie"
)

const (
	colorMale   = "skyblue"
	colorFemale = "lightcoral"
)

// Chart is a render-ready figure. Categories label the x axis (or pie
// slices); each Series holds one value per category.
type Chart struct {
	Kind       ChartKind `json:"kind"`
	Title      string    `json:"title"`
	XLabel     string    `json:"x_label,omitempty"`
	YLabel     string    `json:"y_label,omitempty"`
	Categories []string  `json:"categories"`
	Series     []Series  `json:"series"`
}

// Series is one colored run of values. Labels, when present, annotate each
// value.
type Series struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
	Values []int    `json:"values"`
	Labels []string `json:"labels,omitempty"`
}

func buildCharts(summary aggregate.Summary, grouped aggregate.GroupedCounts) []Chart {
	return []Chart{
		sexBarChart(summary),
		speciesStackedChart(grouped),
		sexPieChart(summary),
	}
}

func sexBarChart(s aggregate.Summary) Chart {
	return Chart{
		Kind:       ChartBar,
		Title:      "Penguin Count by Sex",
		XLabel:     "Sex",
		YLabel:     "Count",
		Categories: []string{"Male", "Female"},
		Series: []Series{{
			Name:   "Count",
			Colors: []string{colorMale, colorFemale},
			Values: []int{s.Male, s.Female},
			Labels: []string{fmt.Sprint(s.Male), fmt.Sprint(s.Female)},
		}},
	}
}

func speciesStackedChart(g aggregate.GroupedCounts) Chart {
	male := make([]int, len(g.Species))
	female := make([]int, len(g.Species))
	for i, species := range g.Species {
		c := g.Get(species)
		male[i] = c.Male
		female[i] = c.Female
	}
	return Chart{
		Kind:       ChartStackedBar,
		Title:      "Species-wise Sex Distribution (Stacked)",
		XLabel:     "Species",
		YLabel:     "Count",
		Categories: append([]string{}, g.Species...),
		Series: []Series{
			{Name: "Male", Colors: []string{colorMale}, Values: male},
			{Name: "Female", Colors: []string{colorFemale}, Values: female},
		},
	}
}

func sexPieChart(s aggregate.Summary) Chart {
	return Chart{
		Kind:       ChartPie,
		Title:      "Sex Distribution of Penguins",
		Categories: []string{"Male", "Female"},
		Series: []Series{{
			Name:   "Share",
			Colors: []string{colorMale, colorFemale},
			Values: []int{s.Male, s.Female},
			Labels: []string{percent(s.Male, s.Total), percent(s.Female, s.Total)},
		}},
	}
}

// percent formats part/total with one decimal. A zero total yields 0.0%.
func percent(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}
