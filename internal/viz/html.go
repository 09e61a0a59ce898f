package viz

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout string // "force", "circle", "grid" or "concentric"
	Title  string // Page heading

	// APIBase enables session mode: selections and learned flags go to the
	// kg HTTP API rooted here ("" for same origin). Static pages leave
	// SessionMode false and read details from node data.
	APIBase     string
	SessionMode bool
}

// DefaultTitle is the page heading used when HTMLOptions.Title is empty.
const DefaultTitle = "NCERT Grade 7 – Knowledge Graph"

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Layout: "force",
		Title:  DefaultTitle,
	}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid", "concentric"}

// GenerateHTML generates a self-contained HTML file for the graph visualization.
func GenerateHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}

	if graph.IsEmpty() {
		return emptyHTML, nil
	}

	graphJSON, err := graph.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	data := templateData{
		Title:       title,
		GraphJSON:   template.JS(graphJSON),
		Layout:      layoutToCytoscape(opts.Layout),
		APIBase:     opts.APIBase,
		SessionMode: opts.SessionMode,
		Shapes:      CytoscapeShapes,
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// validateLayout checks if the layout option is valid.
func validateLayout(layout string) error {
	switch layout {
	case "", "force", "circle", "grid", "concentric":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be force, circle, grid, or concentric", layout)
	}
}

// templateData holds data for the HTML template.
type templateData struct {
	Title       string
	GraphJSON   template.JS
	Layout      string
	APIBase     string
	SessionMode bool
	Shapes      map[string]string
}

// layoutToCytoscape converts user-friendly layout names to Cytoscape.js layout algorithm names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	case "concentric":
		return "concentric"
	default:
		return "cose"
	}
}

// emptyHTML is served when no concept survived loading.
const emptyHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>kg: no concepts</title>
<style>
  html, body { height: 100%; margin: 0; }
  body { display: grid; place-items: center; font: 15px system-ui, sans-serif; color: #555; background: #fafafa; }
  main { max-width: 28em; text-align: center; }
  h2 { color: #2c3e50; }
  kbd { font-family: ui-monospace, monospace; background: #eee; padding: 1px 5px; border-radius: 3px; }
</style>
</head>
<body>
<main>
  <h2>No graph data</h2>
  <p>The knowledge base has no usable concepts. Run <kbd>kg check</kbd> to see which records were excluded.</p>
</main>
</body>
</html>`

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      display: flex;
      background: #f5f5f5;
    }
    #sidebar {
      width: 320px;
      height: 100vh;
      overflow-y: auto;
      padding: 16px;
      background: white;
      border-right: 1px solid #ddd;
      font-size: 14px;
    }
    #sidebar h2 {
      font-size: 18px;
      margin: 0 0 12px 0;
    }
    #sidebar h3 {
      margin: 8px 0;
    }
    #sidebar .field {
      font-weight: bold;
      margin-top: 10px;
    }
    #sidebar .info {
      color: #31708f;
      background: #d9edf7;
      padding: 8px;
      border-radius: 4px;
    }
    #main {
      flex: 1;
      display: flex;
      flex-direction: column;
    }
    #main h1 {
      font-size: 20px;
      margin: 12px 16px;
    }
    #cy {
      flex: 1;
      background: white;
    }
  </style>
</head>
<body>
  <div id="sidebar">
    <h2>Concept Details</h2>
    <div id="detail"><div class="info">Click a concept node to view details.</div></div>
  </div>
  <div id="main">
    <h1>{{.Title}}</h1>
    <div id="cy"></div>
  </div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = "{{.Layout}}";
      const sessionMode = {{.SessionMode}};
      const apiBase = {{.APIBase}};
      const shapes = {{.Shapes}};
      let sessionId = null;

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          {
            selector: 'node',
            style: {
              'background-color': 'data(color)',
              'label': 'data(label)',
              'color': '#333',
              'font-size': 'data(fontSize)',
              'text-valign': 'bottom',
              'text-margin-y': '5px',
              'width': 'data(weight)',
              'height': 'data(weight)',
              'shape': function(ele) { return shapes[ele.data('shape')] || 'ellipse'; }
            }
          },
          {
            selector: 'node[kind="domain"]',
            style: {
              'font-weight': 'bold'
            }
          },
          {
            selector: 'edge',
            style: {
              'line-color': 'data(color)',
              'curve-style': 'bezier',
              'width': 1.5
            }
          },
          {
            selector: 'edge[kind="interconnection"]',
            style: {
              'width': 2,
              'line-style': 'dashed'
            }
          },
          {
            selector: 'node.highlighted',
            style: {
              'border-width': 3,
              'border-color': '#F7A7A6'
            }
          },
          {
            selector: 'node.dimmed',
            style: {
              'opacity': 0.3
            }
          },
          {
            selector: 'edge.dimmed',
            style: {
              'opacity': 0.2
            }
          }
        ],
        layout: {
          name: layout,
          animate: false,
          // cose-specific options
          nodeRepulsion: 8000,
          idealEdgeLength: 100,
          edgeElasticity: 100,
          // concentric places heavier tiers in the middle
          concentric: function(node) { return node.data('weight'); },
          levelWidth: function() { return 1; }
        }
      });

      const detail = document.getElementById('detail');

      function escapeHtml(str) {
        if (!str) return '';
        return String(str).replace(/&/g, '&amp;')
                          .replace(/</g, '&lt;')
                          .replace(/>/g, '&gt;')
                          .replace(/"/g, '&quot;');
      }

      function field(name, value) {
        return '<div class="field">' + name + '</div><div>' + value + '</div>';
      }

      function renderDetail(d) {
        if (!d) {
          detail.innerHTML = '<div class="info">Click a concept node to view details.</div>';
          return;
        }
        let html = '<h3>' + escapeHtml(d.concept_name) + '</h3>';
        html += '<div>' + escapeHtml(d.brief_explanation) + '</div>';
        html += field('Domain', escapeHtml(d.domain));
        html += field('Strand', escapeHtml(d.strand));
        html += field('Chapters', (d.chapter_references || []).map(function(ch) {
          return '• ' + escapeHtml(ch);
        }).join('<br>'));
        html += field('Cognitive Level', escapeHtml(d.cognitive_level));
        if (sessionMode) {
          html += '<div class="field"><label><input type="checkbox" id="learned"' +
            (d.learned ? ' checked' : '') + '> Mark concept as learned</label></div>';
        }
        const acts = d.activities || [];
        html += '<div class="field">Learning Activities (' + acts.length + ')</div>';
        if (acts.length === 0) {
          html += '<div>No activities linked to this concept.</div>';
        } else {
          html += acts.map(function(a) { return '<div>• ' + escapeHtml(a) + '</div>'; }).join('');
        }
        detail.innerHTML = html;

        const box = document.getElementById('learned');
        if (box) {
          box.addEventListener('change', function() {
            const url = apiBase + '/api/sessions/' + sessionId + '/learned/' + encodeURIComponent(d.concept_name);
            fetch(url, { method: box.checked ? 'PUT' : 'DELETE' });
          });
        }
      }

      function detailFromNode(data) {
        return {
          concept_name: data.label,
          brief_explanation: data.explanation,
          domain: data.domain,
          strand: data.strand,
          chapter_references: data.chapters,
          cognitive_level: data.cognitiveLevel || '—',
          activities: data.activities
        };
      }

      function highlight(node) {
        cy.elements().removeClass('highlighted dimmed');
        const neighborhood = node.neighborhood().add(node);
        neighborhood.addClass('highlighted');
        cy.elements().not(neighborhood).addClass('dimmed');
      }

      if (sessionMode) {
        fetch(apiBase + '/api/sessions', { method: 'POST' })
          .then(function(r) { return r.json(); })
          .then(function(s) { sessionId = s.id; });
      }

      cy.on('tap', 'node', function(evt) {
        const node = evt.target;
        highlight(node);

        if (node.data('kind') !== 'concept') {
          return;
        }
        if (!sessionMode || !sessionId) {
          renderDetail(detailFromNode(node.data()));
          return;
        }
        fetch(apiBase + '/api/sessions/' + sessionId + '/select', {
          method: 'POST',
          headers: { 'Content-Type': 'application/json' },
          body: JSON.stringify({ nodes: [node.id()] })
        })
          .then(function(r) { return r.json(); })
          .then(function(view) { renderDetail(view.detail); });
      });

      // Click on empty space to reset
      cy.on('tap', function(evt) {
        if (evt.target !== cy) {
          return;
        }
        cy.elements().removeClass('highlighted dimmed');
        renderDetail(null);
        if (sessionMode && sessionId) {
          fetch(apiBase + '/api/sessions/' + sessionId + '/select', { method: 'DELETE' });
        }
      });
    })();
  </script>
</body>
</html>`
