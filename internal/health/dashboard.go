package health

import (
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Dashboard serves the status page at GET /.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	result := CollectHealth(c.UserContext(), h.Rdb, h.DB, h.Replica)
	result.Context = h.ContextID
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(RenderDashboardHTML(result))
}

// RenderDashboardHTML renders a self-refreshing status page for one context.
func RenderDashboardHTML(health CollectResult) string {
	b, _ := json.Marshal(health)
	// embedded in a JS template literal
	payload := strings.NewReplacer("\\", "\\\\", "`", "\\`", "$", "\\$").Replace(string(b))

	headline := "All Systems Operational"
	if health.Status != "ok" {
		headline = "System Issues Detected"
	}

	keys := make([]string, 0, len(health.Collections))
	for k := range health.Collections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var collections strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&collections, `<div class="row"><span>%s</span><span id="col-%s">%d</span></div>`,
			html.EscapeString(k), html.EscapeString(k), health.Collections[k])
	}

	var deps strings.Builder
	for _, name := range []string{"database", "redis"} {
		d := health.Dependencies[name]
		class := "ok"
		if d.Status != "connected" && d.Status != "not_configured" {
			class = "err"
		}
		fmt.Fprintf(&deps, `<div class="row"><span>%s</span><span id="pill-%s" class="pill %s">%s</span></div>`,
			name, name, class, html.EscapeString(d.Status))
	}

	lastReq := "-"
	if m, ok := health.Traffic.LastRequest.(map[string]interface{}); ok {
		method, _ := m["method"].(string)
		path, _ := m["path"].(string)
		lastReq = html.EscapeString(method + " " + path)
	}

	return `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Surplus Food Sync · Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    :root { --green: #2f7d4f; --dark: #1d3326; --muted: #64748b; --bg: #f6f8f6; }
    body { background: var(--bg); color: var(--dark); font-family: system-ui, sans-serif; margin: 0; display: flex; justify-content: center; padding: 40px 20px; }
    .container { width: 100%; max-width: 1000px; }
    h1 { font-size: 42px; font-weight: 900; letter-spacing: -2px; margin: 0; }
    .subtext { color: var(--muted); font-weight: 700; margin: 8px 0 30px; }
    .card { background: #fff; border-radius: 24px; box-shadow: 0 20px 60px -20px rgba(47,125,79,0.2); overflow: hidden; }
    .grid { display: grid; grid-template-columns: repeat(3, 1fr); }
    .col { padding: 35px; border-right: 1px solid rgba(0,0,0,0.05); }
    .col:last-child { border-right: none; }
    .label { text-transform: uppercase; font-size: 11px; font-weight: 900; letter-spacing: 2px; color: #94a3b8; margin-bottom: 20px; }
    .big { font-size: 36px; font-weight: 900; margin-bottom: 10px; }
    .row { display: flex; justify-content: space-between; padding: 8px 0; border-bottom: 1px solid rgba(0,0,0,0.04); font-size: 14px; font-weight: 700; }
    .pill { padding: 4px 10px; border-radius: 8px; font-size: 11px; font-weight: 900; }
    .ok { background: rgba(47,125,79,0.1); color: var(--green); }
    .err { background: rgba(239,68,68,0.1); color: #ef4444; }
    .footer { background: rgba(0,0,0,0.02); padding: 16px 35px; font-family: monospace; font-size: 13px; display: flex; justify-content: space-between; }
    @media (max-width: 800px) { .grid { grid-template-columns: 1fr; } .col { border-right: none; } }
  </style>
</head>
<body>
  <div class="container">
    <h1 id="headline">` + headline + `</h1>
    <p class="subtext">Context <span id="context">` + html.EscapeString(health.Context) + `</span></p>
    <div class="card">
      <div class="grid">
        <div class="col">
          <div class="label">Traffic</div>
          <div class="big" id="total-req">` + fmt.Sprint(health.Traffic.TotalRequests) + `</div>
          <div class="row"><span>Failed</span><span id="failed-count">` + fmt.Sprint(health.Traffic.FailedCount) + `</span></div>
          <div class="row"><span>Success Rate</span><span id="success-rate">` + health.Traffic.SuccessRate + `%</span></div>
          <div class="row"><span>Avg Latency</span><span id="avg-time">` + fmt.Sprint(health.Traffic.AvgResponseTime) + `ms</span></div>
        </div>
        <div class="col">
          <div class="label">Collections</div>
          ` + collections.String() + `
        </div>
        <div class="col">
          <div class="label">Dependencies</div>
          ` + deps.String() + `
          <div class="row"><span>Goroutines</span><span id="goroutines">` + fmt.Sprint(health.Runtime.Goroutines) + `</span></div>
        </div>
      </div>
      <div class="footer"><span>LAST INBOUND</span><span id="last-req">` + lastReq + `</span></div>
    </div>
  </div>
  <script>
    const render = (d) => {
      document.getElementById('headline').innerText = d.status === 'ok' ? 'All Systems Operational' : 'System Issues Detected';
      document.getElementById('total-req').innerText = d.traffic.totalRequests;
      document.getElementById('failed-count').innerText = d.traffic.failedCount;
      document.getElementById('success-rate').innerText = d.traffic.successRate + '%';
      document.getElementById('avg-time').innerText = d.traffic.avgResponseTime + 'ms';
      document.getElementById('goroutines').innerText = d.runtime.goroutines;
      for (const [k, v] of Object.entries(d.collections || {})) { const el = document.getElementById('col-' + k); if (el) el.innerText = v; }
      if (d.traffic.lastRequest) document.getElementById('last-req').innerText = d.traffic.lastRequest.method + ' ' + d.traffic.lastRequest.path;
    };
    render(JSON.parse(` + "`" + payload + "`" + `));
    setInterval(async () => { try { const r = await fetch('/health/json'); render(await r.json()); } catch (e) {} }, 10000);
  </script>
</body>
</html>`
}
