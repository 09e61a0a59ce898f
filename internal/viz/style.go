package viz

// DomainColors maps known domains to their display color.
var DomainColors = map[string]string{
	"Physics (The Physical World)":               "#1f77b4",
	"Chemistry (The World of Matter)":            "#2ca02c",
	"Biology (The Living World)":                 "#ff7f0e",
	"Earth & Space Science":                      "#9467bd",
	"Scientific Inquiry & Investigative Process": "#7f7f7f",
}

// tierStyle holds the per-tier visual settings. Weights must stay strictly
// ordered domain > strand > concept.
type tierStyle struct {
	Weight       int
	FontSize     int
	Bold         bool
	Shape        string
	DefaultColor string
}

var (
	domainStyle  = tierStyle{Weight: 45, FontSize: 20, Bold: true, Shape: "box", DefaultColor: "#999999"}
	strandStyle  = tierStyle{Weight: 30, FontSize: 16, Shape: "ellipse", DefaultColor: "#bbbbbb"}
	conceptStyle = tierStyle{Weight: 18, FontSize: 14, Shape: "dot", DefaultColor: "#cccccc"}
)

// CytoscapeShapes maps a node's Shape to the Cytoscape.js shape that draws
// it. Unlisted shapes render as ellipses.
var CytoscapeShapes = map[string]string{
	"box":     "round-rectangle",
	"ellipse": "ellipse",
	"dot":     "ellipse",
}

// Edge colors by kind.
const (
	containsStrandColor  = "#cccccc"
	containsConceptColor = "#dddddd"
	interconnectionColor = "#ff9999"
)

// colorFor returns the domain's color, or the tier default for unknown domains.
func (s tierStyle) colorFor(domain string) string {
	if c, ok := DomainColors[domain]; ok {
		return c
	}
	return s.DefaultColor
}
