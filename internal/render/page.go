package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/couchcryptid/campus-tree-forest/internal/viz"
)

// PageData is everything the HTML page shows around the forest SVG.
type PageData struct {
	Title   string
	Search  string
	Sort    viz.SortKey
	Shown   int
	Total   int
	Forest  []byte // output of RenderSVG
	LoadErr bool
}

type sortOption struct {
	Value    viz.SortKey
	Label    string
	Selected bool
}

var sortLabels = map[viz.SortKey]string{
	viz.SortPopulation: "Population",
	viz.SortHeight:     "Height",
	viz.SortDiversity:  "Diversity",
	viz.SortSpread:     "Canopy spread",
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 2rem; background: #F3F4F6; font-family: sans-serif; }
    main { max-width: 72rem; margin: 0 auto; background: #FFF; border-radius: 0.75rem; box-shadow: 0 10px 15px rgba(0,0,0,0.1); padding: 2rem; }
    h1 { text-align: center; font-family: serif; font-size: 1.875rem; margin: 0 0 2rem; }
    form { display: flex; gap: 1rem; justify-content: center; margin-bottom: 1.5rem; }
    .forest > svg { width: 100%; height: auto; }
    .caption { margin-top: 1.5rem; font-size: 0.875rem; color: #4B5563; text-align: center; font-style: italic; }
  </style>
</head>
<body>
<main>
  <h1>{{.Title}}</h1>
  <form method="get" action="/">
    <input type="search" name="search" value="{{.Search}}" placeholder="Search genus...">
    <select name="sort" onchange="this.form.submit()">
      {{- range .SortOptions}}
      <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
      {{- end}}
    </select>
    <button type="submit">Apply</button>
  </form>
  <p class="caption">Showing {{.Shown}} of {{.Total}} genera{{if .LoadErr}} (census data unavailable){{end}}</p>
  <div class="forest">{{.Forest}}</div>
  <p class="caption">A living visualization of our campus canopy. Each tree represents a genus,
    with size reflecting average height and color intensity showing population.</p>
</main>
</body>
</html>
`))

// RenderPage writes the HTML page.
func RenderPage(w io.Writer, d PageData) error {
	if d.Title == "" {
		d.Title = "Forest of Knowledge: UCB Campus Trees"
	}
	opts := make([]sortOption, 0, len(viz.SortKeys))
	for _, k := range viz.SortKeys {
		opts = append(opts, sortOption{Value: k, Label: sortLabels[k], Selected: k == d.Sort})
	}

	err := pageTemplate.Execute(w, struct {
		PageData
		SortOptions []sortOption
		Forest      template.HTML
	}{
		PageData:    d,
		SortOptions: opts,
		Forest:      template.HTML(d.Forest), //nolint:gosec // produced by RenderSVG, which escapes all data
	})
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
