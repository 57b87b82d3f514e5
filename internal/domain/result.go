package domain

// ChartKind tells the renderer which chart fits a result.
type ChartKind string

const (
	ChartLine       ChartKind = "line"
	ChartBar        ChartKind = "bar"
	ChartPie        ChartKind = "pie"
	ChartStackedBar ChartKind = "stacked-bar"
	ChartArea       ChartKind = "area"
	ChartText       ChartKind = "text"
)

// Result is the renderer-facing output of one report. Only the fields that
// match Kind are populated.
type Result struct {
	Name  string    `json:"name"`
	Title string    `json:"title"`
	Kind  ChartKind `json:"kind"`

	// XLabel and YLabel name the chart axes.
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`

	Timeline []TimeBucket `json:"timeline,omitempty"`
	Entries  []Entry      `json:"entries,omitempty"`

	// Columns names the values of every stack, e.g. ["additions", "deletions"].
	Columns []string `json:"columns,omitempty"`
	Stacks  []Stack  `json:"stacks,omitempty"`

	// Series holds one named point series per column for area charts.
	Series map[string][]Point `json:"series,omitempty"`

	Lines []string `json:"lines,omitempty"`
}

// Empty reports whether the result carries no data at all.
func (r *Result) Empty() bool {
	return len(r.Timeline) == 0 && len(r.Entries) == 0 && len(r.Stacks) == 0 &&
		len(r.Series) == 0 && len(r.Lines) == 0
}
