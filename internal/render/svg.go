// Package render draws the forest view as SVG and wraps it in the HTML page
// with search and sort controls.
package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/campus-tree-forest/internal/viz"
)

// Frame geometry in pixels.
const (
	DefaultWidth = 1152.0
	minHeight    = 512.0
	padding      = 24.0
	gap          = 24.0
	labelSpace   = 44.0
	panelWidth   = 260.0
	panelHeight  = 104.0
	iconAspect   = 1.4
)

const placeholderText = "Hover over trees to explore..."

const forestCSS = `
    .tree { cursor: pointer; transition: transform 0.3s ease-in-out; transform-box: fill-box; transform-origin: bottom center; }
    .tree:hover { transform: translateY(-8px) scale(1.1); }
    .tree .label { opacity: 0; transition: opacity 0.3s; font: 500 12px sans-serif; fill: #166534; }
    .tree:hover .label, .tree.highlight .label { opacity: 1; }
    .tree.highlight .canopy { stroke-width: 1.5; }
    .panel-title { font: bold 18px serif; fill: #166534; }
    .panel-line { font: 14px sans-serif; fill: #000; }
    .panel-hint { font: italic 14px sans-serif; fill: #166534; }`

const inspectorJS = `
    (function () {
      var lines = ['inspector-title', 'inspector-count', 'inspector-height', 'inspector-species'].map(function (id) { return document.getElementById(id); });
      var initial = lines.map(function (el) { return el.textContent; });
      var hint = document.getElementById('inspector-hint');
      var initialHint = hint.textContent;
      function show(el) {
        lines[0].textContent = el.dataset.genus;
        lines[1].textContent = 'Population: ' + el.dataset.count + ' trees';
        lines[2].textContent = 'Average Height: ' + el.dataset.height + ' ft';
        lines[3].textContent = 'Species Diversity: ' + el.dataset.species + ' varieties';
        hint.textContent = '';
      }
      function clear() {
        lines.forEach(function (el, i) { el.textContent = initial[i]; });
        hint.textContent = initialHint;
      }
      document.querySelectorAll('.tree').forEach(function (el) {
        el.addEventListener('mouseenter', function () { show(el); });
        el.addEventListener('mouseleave', clear);
      });
    })();`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width  float64
	focus  *viz.Item
	script bool
}

// WithWidth sets the frame width.
func WithWidth(w float64) SVGOption { return func(r *svgRenderer) { r.width = w } }

// WithFocus fills the inspector panel with the focused genus.
func WithFocus(it viz.Item) SVGOption { return func(r *svgRenderer) { r.focus = &it } }

// WithoutScript omits the hover script, e.g. for static export.
func WithoutScript() SVGOption { return func(r *svgRenderer) { r.script = false } }

// placement is the position of one icon in the frame.
type placement struct {
	item viz.Item
	x, y float64
	w, h float64
}

// RenderSVG draws one tree icon per view item, wrapped into centered rows
// aligned at the bottom.
func RenderSVG(v viz.View, opts ...SVGOption) []byte {
	r := svgRenderer{width: DefaultWidth, script: true}
	for _, opt := range opts {
		opt(&r)
	}

	placements, contentBottom := layout(v.Items, r.width)
	height := max(contentBottom+padding, minHeight)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(r.width), num(height), num(r.width), num(height))
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", forestCSS)
	renderBackground(&buf, r.width, height)

	for i, p := range placements {
		renderTree(&buf, i, p)
	}
	renderInspector(&buf, r.focus)

	if r.script {
		fmt.Fprintf(&buf, "  <script><![CDATA[%s\n  ]]></script>\n", inspectorJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// layout flows items left to right, wrapping when a row is full. Each row
// is centered horizontally and its icons share a baseline.
func layout(items []viz.Item, width float64) ([]placement, float64) {
	usable := width - 2*padding
	top := padding + panelHeight + gap

	var (
		out  []placement
		row  []placement
		rowW float64
		y    = top
	)

	flush := func() {
		if len(row) == 0 {
			return
		}
		rowH := 0.0
		for _, p := range row {
			rowH = max(rowH, p.h)
		}
		x := padding + (usable-rowW)/2
		for _, p := range row {
			p.x = x
			p.y = y + rowH - p.h
			out = append(out, p)
			x += p.w + gap
		}
		y += rowH + labelSpace + gap
		row, rowW = row[:0], 0
	}

	for _, it := range items {
		w := it.Size
		h := it.Size * iconAspect
		next := w
		if len(row) > 0 {
			next += rowW + gap
		}
		if len(row) > 0 && next > usable {
			flush()
			next = w
		}
		row = append(row, placement{item: it, w: w, h: h})
		rowW = next
	}
	flush()

	if len(out) == 0 {
		return nil, top
	}
	return out, y - gap
}

func renderBackground(buf *bytes.Buffer, w, h float64) {
	buf.WriteString(`  <defs>
    <linearGradient id="sky" x1="0" y1="0" x2="0" y2="1">
      <stop offset="0" stop-color="#E0F2FE"/>
      <stop offset="1" stop-color="#F0FDF4"/>
    </linearGradient>
  </defs>
`)
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%s" height="%s" rx="8" fill="url(#sky)"/>`+"\n", num(w), num(h))
}

// canopyLayers are the three stacked canopy outlines of the icon, largest
// first, with the vertical extent of each layer's gradient.
var canopyLayers = []struct {
	path   string
	y1, y2 int
}{
	{"M12 2C8 7 3 10 3 16C3 22 21 22 21 16C21 10 16 7 12 2Z", 2, 22},
	{"M12 8C9 12 6 14 6 18C6 22 18 22 18 18C18 14 15 12 12 8Z", 8, 22},
	{"M12 14C10 17 8 18 8 21C8 24 16 24 16 21C16 18 14 17 12 14Z", 14, 24},
}

func renderTree(buf *bytes.Buffer, i int, p placement) {
	it := p.item
	class := "tree"
	if it.Highlighted {
		class += " highlight"
	}

	fmt.Fprintf(buf, `  <g id="tree-%d" class="%s" data-genus="%s" data-count="%d" data-height="%s" data-species="%d" data-spread="%s">`+"\n",
		i, class, esc(it.Genus), it.Count, oneDecimal(it.AvgHeight), it.SpeciesCount, oneDecimal(it.AvgSpread))
	fmt.Fprintf(buf, `    <title>%s</title>`+"\n", esc(it.Genus))
	fmt.Fprintf(buf, `    <svg x="%s" y="%s" width="%s" height="%s" viewBox="0 0 24 34" fill="none">`+"\n",
		num(p.x), num(p.y), num(p.w), num(p.h))

	buf.WriteString("      <defs>\n")
	for j, layer := range canopyLayers {
		fmt.Fprintf(buf, `        <linearGradient id="tree-%d-layer-%d" x1="12" y1="%d" x2="12" y2="%d" gradientUnits="userSpaceOnUse">`+"\n",
			i, j, layer.y1, layer.y2)
		fmt.Fprintf(buf, `          <stop offset="0" stop-color="%s"/>`+"\n", esc(it.Color))
		buf.WriteString(`          <stop offset="1" stop-color="darkgreen"/>` + "\n")
		buf.WriteString("        </linearGradient>\n")
	}
	buf.WriteString("      </defs>\n")

	for j, layer := range canopyLayers {
		fmt.Fprintf(buf, `      <path class="canopy" d="%s" fill="url(#tree-%d-layer-%d)" stroke="darkgreen" stroke-width="0.5"/>`+"\n",
			layer.path, i, j)
	}
	buf.WriteString(`      <rect x="11" y="24" width="2" height="10" fill="#8B4513"/>` + "\n")
	buf.WriteString("    </svg>\n")

	lx, ly := p.x+p.w/2, p.y+p.h+10
	fmt.Fprintf(buf, `    <text class="label" x="%s" y="%s" transform="rotate(45 %s %s)">%s</text>`+"\n",
		num(lx), num(ly), num(lx), num(ly), esc(it.Genus))
	buf.WriteString("  </g>\n")
}

// renderInspector draws the panel in the top-left corner. The hover script
// rewrites its text lines in place.
func renderInspector(buf *bytes.Buffer, focus *viz.Item) {
	x, y := padding, padding
	fmt.Fprintf(buf, `  <g id="inspector">`+"\n")
	fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" rx="8" fill="#FFFFFF" fill-opacity="0.9"/>`+"\n",
		num(x), num(y), num(panelWidth), num(panelHeight))

	title, count, height, species, hint := "", "", "", "", placeholderText
	if focus != nil {
		title, count, height, species = inspectorLines(*focus)
		hint = ""
	}
	fmt.Fprintf(buf, `    <text id="inspector-hint" class="panel-hint" x="%s" y="%s">%s</text>`+"\n", num(x+16), num(y+28), esc(hint))
	fmt.Fprintf(buf, `    <text id="inspector-title" class="panel-title" x="%s" y="%s">%s</text>`+"\n", num(x+16), num(y+26), esc(title))
	fmt.Fprintf(buf, `    <text id="inspector-count" class="panel-line" x="%s" y="%s">%s</text>`+"\n", num(x+16), num(y+48), esc(count))
	fmt.Fprintf(buf, `    <text id="inspector-height" class="panel-line" x="%s" y="%s">%s</text>`+"\n", num(x+16), num(y+68), esc(height))
	fmt.Fprintf(buf, `    <text id="inspector-species" class="panel-line" x="%s" y="%s">%s</text>`+"\n", num(x+16), num(y+88), esc(species))
	buf.WriteString("  </g>\n")
}

// inspectorLines formats the panel text for a genus.
func inspectorLines(it viz.Item) (title, count, height, species string) {
	return it.Genus,
		fmt.Sprintf("Population: %d trees", it.Count),
		fmt.Sprintf("Average Height: %s ft", oneDecimal(it.AvgHeight)),
		fmt.Sprintf("Species Diversity: %d varieties", it.SpeciesCount)
}

func oneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// esc escapes s for XML text and attribute values. Control characters and
// invalid UTF-8 become U+FFFD so the document stays well-formed.
func esc(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s)) //nolint:errcheck // strings.Builder never fails
	return b.String()
}
