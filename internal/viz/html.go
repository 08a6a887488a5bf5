package viz

import (
	"bytes"
	"encoding/json"
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
	Title string
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Title: "Technology Atlas",
	}
}

// GenerateHTML generates a self-contained HTML page for the graph. The page
// carries the node positions and radii computed here and wires up pan, zoom,
// node drag, hover and selection in a small inline script.
func GenerateHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if graph.IsEmpty() {
		return generateEmptyHTML(), nil
	}

	graphJSON, err := json.Marshal(graph)
	if err != nil {
		return "", err
	}

	title := opts.Title
	if title == "" {
		title = "Technology Atlas"
	}

	data := templateData{
		Title:     title,
		GraphJSON: template.JS(graphJSON),
		Notice:    graph.Notice,
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// templateData holds data for the HTML template.
type templateData struct {
	Title     string
	GraphJSON template.JS
	Notice    string
}

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Technology Atlas - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No graph data</h2>
    <p>Your atlas doesn't have any nodes yet.</p>
    <p>Add one using <code>atlas add</code>, or seed a repository with <code>atlas init --seed</code></p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
      overflow: hidden;
    }
    #canvas {
      width: 100vw;
      height: 100vh;
      background: white;
      cursor: grab;
    }
    #canvas.panning {
      cursor: grabbing;
    }
    #notice {
      position: absolute;
      top: 12px;
      left: 50%;
      transform: translateX(-50%);
      background: #fff3cd;
      border: 1px solid #ffe69c;
      border-radius: 4px;
      padding: 6px 14px;
      font-size: 13px;
      color: #664d03;
      display: none;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 300px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .domain {
      font-size: 10px;
      text-transform: uppercase;
      color: #888;
      margin-bottom: 4px;
    }
    #tooltip .label {
      font-weight: bold;
      margin-bottom: 4px;
    }
    #tooltip .detail {
      color: #555;
      margin: 2px 0;
    }
    #controls {
      position: absolute;
      bottom: 16px;
      right: 16px;
      display: flex;
      gap: 6px;
    }
    #controls button {
      width: 32px;
      height: 32px;
      border: 1px solid #ccc;
      border-radius: 4px;
      background: white;
      font-size: 16px;
      cursor: pointer;
    }
    #controls button:hover {
      background: #f0f0f0;
    }
  </style>
</head>
<body>
  <svg id="canvas"><g id="world"></g></svg>
  <div id="notice">{{.Notice}}</div>
  <div id="tooltip"></div>
  <div id="controls">
    <button id="zoom-in" title="Zoom in">+</button>
    <button id="zoom-out" title="Zoom out">&minus;</button>
    <button id="zoom-reset" title="Reset view">&#8634;</button>
  </div>
  <script>
    (function() {
      const graph = {{.GraphJSON}};

      const ZOOM_FACTOR = 1.2;
      const MIN_SCALE = 0.2;
      const MAX_SCALE = 5.0;
      const DOMAIN_COLORS = {
        'computing': '#4dabf7',
        'electronics': '#ffa94d',
        'energy': '#ffd43b',
        'materials': '#ced4da',
        'transport': '#63e6be',
        'communication': '#b197fc',
        'biotech': '#8ce99a',
        'ai': '#ff8787'
      };
      const SVGNS = 'http://www.w3.org/2000/svg';

      const canvas = document.getElementById('canvas');
      const world = document.getElementById('world');
      const tooltip = document.getElementById('tooltip');
      const noticeEl = document.getElementById('notice');

      if (graph.notice) {
        noticeEl.textContent = graph.notice;
        noticeEl.style.display = 'block';
      }

      // View transform: screen = layout * scale + translate.
      const initial = graph.transform || { translateX: 0, translateY: 0, scale: 1 };
      let view = Object.assign({}, initial);

      const byId = {};
      graph.nodes.forEach(function(n) { byId[n.id] = n; });

      function applyView() {
        world.setAttribute('transform',
          'translate(' + view.translateX + ',' + view.translateY + ') scale(' + view.scale + ')');
      }

      function toLayout(sx, sy) {
        return {
          x: (sx - view.translateX) / view.scale,
          y: (sy - view.translateY) / view.scale
        };
      }

      // Zoom keeping the layout point under the cursor fixed on screen.
      function zoomAt(sx, sy, factor) {
        const next = Math.min(MAX_SCALE, Math.max(MIN_SCALE, view.scale * factor));
        if (next === view.scale) return;
        const anchor = toLayout(sx, sy);
        view.scale = next;
        view.translateX = sx - anchor.x * next;
        view.translateY = sy - anchor.y * next;
        applyView();
      }

      const edgeEls = [];
      const nodeEls = {};

      function render() {
        while (world.firstChild) world.removeChild(world.firstChild);
        edgeEls.length = 0;

        graph.edges.forEach(function(e) {
          const src = byId[e.source], dst = byId[e.target];
          if (!src || !dst) return;
          const line = document.createElementNS(SVGNS, 'line');
          line.setAttribute('stroke', '#adb5bd');
          line.setAttribute('stroke-width', '1.5');
          edgeEls.push({ el: line, edge: e });
          world.appendChild(line);
        });

        graph.nodes.forEach(function(n) {
          const g = document.createElementNS(SVGNS, 'g');
          const circle = document.createElementNS(SVGNS, 'circle');
          circle.setAttribute('r', n.radius);
          circle.setAttribute('fill', DOMAIN_COLORS[n.domain] || '#e9ecef');
          circle.setAttribute('stroke', '#495057');
          circle.setAttribute('stroke-width', '1.5');
          const text = document.createElementNS(SVGNS, 'text');
          text.setAttribute('y', n.radius + 13);
          text.setAttribute('text-anchor', 'middle');
          text.setAttribute('font-size', '11');
          text.setAttribute('fill', '#343a40');
          text.textContent = n.label;
          g.appendChild(circle);
          g.appendChild(text);
          g.style.cursor = 'pointer';
          nodeEls[n.id] = g;
          world.appendChild(g);
        });

        reposition();
        applyView();
      }

      function reposition() {
        edgeEls.forEach(function(entry) {
          const src = byId[entry.edge.source], dst = byId[entry.edge.target];
          entry.el.setAttribute('x1', src.position.x);
          entry.el.setAttribute('y1', src.position.y);
          entry.el.setAttribute('x2', dst.position.x);
          entry.el.setAttribute('y2', dst.position.y);
        });
        graph.nodes.forEach(function(n) {
          nodeEls[n.id].setAttribute('transform',
            'translate(' + n.position.x + ',' + n.position.y + ')');
        });
      }

      function hitTest(sx, sy) {
        const p = toLayout(sx, sy);
        let hit = null;
        graph.nodes.forEach(function(n) {
          const dx = p.x - n.position.x, dy = p.y - n.position.y;
          if (Math.sqrt(dx * dx + dy * dy) <= n.radius) hit = n;
        });
        return hit;
      }

      function nodeTooltip(n) {
        let html = '<div class="domain">' + escapeHtml(n.domain) + '</div>';
        html += '<div class="label">' + escapeHtml(n.label) + '</div>';
        html += '<div class="detail">Year: ' + n.year + '</div>';
        html += '<div class="detail">Status: ' + escapeHtml(n.status) + '</div>';
        html += '<div class="detail">Connections: ' + n.connectionCount + '</div>';
        if (n.description) html += '<div class="detail">' + escapeHtml(n.description) + '</div>';
        return html;
      }

      function escapeHtml(str) {
        if (!str) return '';
        return String(str).replace(/&/g, '&amp;')
                          .replace(/</g, '&lt;')
                          .replace(/>/g, '&gt;')
                          .replace(/"/g, '&quot;');
      }

      // Pointer state machine: idle, panning the viewport, or dragging a node.
      let mode = 'idle';
      let dragNode = null;
      let last = { x: 0, y: 0 };
      let moved = false;

      canvas.addEventListener('mousedown', function(evt) {
        const hit = hitTest(evt.clientX, evt.clientY);
        last = { x: evt.clientX, y: evt.clientY };
        moved = false;
        if (hit) {
          mode = 'dragging';
          dragNode = hit;
        } else {
          mode = 'panning';
          canvas.classList.add('panning');
        }
      });

      window.addEventListener('mousemove', function(evt) {
        const dx = evt.clientX - last.x;
        const dy = evt.clientY - last.y;
        if (mode === 'panning') {
          if (dx !== 0 || dy !== 0) moved = true;
          view.translateX += dx;
          view.translateY += dy;
          applyView();
        } else if (mode === 'dragging') {
          if (dx !== 0 || dy !== 0) moved = true;
          dragNode.position.x += dx / view.scale;
          dragNode.position.y += dy / view.scale;
          reposition();
        } else {
          const hit = hitTest(evt.clientX, evt.clientY);
          if (hit) {
            tooltip.innerHTML = nodeTooltip(hit);
            tooltip.style.display = 'block';
            tooltip.style.left = (evt.clientX + 15) + 'px';
            tooltip.style.top = (evt.clientY + 15) + 'px';
          } else {
            tooltip.style.display = 'none';
          }
        }
        last = { x: evt.clientX, y: evt.clientY };
      });

      window.addEventListener('mouseup', function(evt) {
        if (mode === 'dragging' && !moved && dragNode) {
          highlight(dragNode.id);
        } else if (mode === 'panning' && !moved) {
          clearHighlight();
        }
        mode = 'idle';
        dragNode = null;
        canvas.classList.remove('panning');
      });

      canvas.addEventListener('wheel', function(evt) {
        evt.preventDefault();
        zoomAt(evt.clientX, evt.clientY,
          evt.deltaY < 0 ? ZOOM_FACTOR : 1 / ZOOM_FACTOR);
      }, { passive: false });

      function center() {
        return { x: window.innerWidth / 2, y: window.innerHeight / 2 };
      }

      document.getElementById('zoom-in').addEventListener('click', function() {
        const c = center();
        zoomAt(c.x, c.y, ZOOM_FACTOR);
      });
      document.getElementById('zoom-out').addEventListener('click', function() {
        const c = center();
        zoomAt(c.x, c.y, 1 / ZOOM_FACTOR);
      });
      document.getElementById('zoom-reset').addEventListener('click', function() {
        view = Object.assign({}, initial);
        applyView();
      });

      function neighborIds(id) {
        const ids = { };
        ids[id] = true;
        graph.edges.forEach(function(e) {
          if (e.source === id) ids[e.target] = true;
          if (e.target === id) ids[e.source] = true;
        });
        return ids;
      }

      function highlight(id) {
        const keep = neighborIds(id);
        graph.nodes.forEach(function(n) {
          nodeEls[n.id].style.opacity = keep[n.id] ? '1' : '0.25';
        });
        edgeEls.forEach(function(entry) {
          const on = entry.edge.source === id || entry.edge.target === id;
          entry.el.style.opacity = on ? '1' : '0.15';
        });
      }

      function clearHighlight() {
        graph.nodes.forEach(function(n) { nodeEls[n.id].style.opacity = '1'; });
        edgeEls.forEach(function(entry) { entry.el.style.opacity = '1'; });
      }

      render();
    })();
  </script>
</body>
</html>`
