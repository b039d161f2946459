package report

const baseStyle = `
  :root { --primary: {{.Primary}}; --secondary: {{.Secondary}}; }
  * { box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f8fafc; color: #0f172a; }
  header { background: linear-gradient(135deg, var(--primary), var(--secondary)); color: #fff; padding: 24px 32px; }
  header h1 { margin: 0 0 4px; font-size: 22px; }
  header .meta { opacity: .85; font-size: 13px; }
  main { padding: 24px 32px; }
  .badge { display: inline-block; padding: 2px 10px; border-radius: 999px; font-size: 12px; font-weight: 600; text-transform: uppercase; }
  .pass { background: #dcfce7; color: #166534; }
  .fail { background: #fee2e2; color: #991b1b; }
  .stopped { background: #fef3c7; color: #92400e; }
  .not-test { background: #e2e8f0; color: #475569; }
  .cards { display: flex; gap: 12px; margin-bottom: 20px; }
  .card { background: #fff; border-radius: 8px; padding: 12px 16px; box-shadow: 0 1px 2px rgba(0,0,0,.06); min-width: 120px; }
  .card .value { font-size: 20px; font-weight: 700; }
  table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 8px; overflow: hidden; }
  th, td { text-align: left; padding: 10px 12px; border-bottom: 1px solid #e2e8f0; font-size: 14px; vertical-align: top; }
  th { background: #f1f5f9; font-weight: 600; }
  pre.error { margin: 6px 0 0; white-space: pre-wrap; font-size: 12px; color: #991b1b; }
  a { color: var(--primary); }
  .empty { color: #64748b; font-style: italic; }
`

const scenarioTemplate = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>{{.Profile.Name}} · Scenario {{.ScenarioID}}</title>
<style>` + baseStyle + `</style>
</head>
<body>
<header>
  <h1>{{.Profile.Icon}} {{.Title}}</h1>
  <div class="meta">{{.Profile.Name}} · Scenario {{.ScenarioID}} · <span class="badge {{.Status}}">{{.Status}}</span>{{if .Terminated}} · terminated{{end}}</div>
</header>
<main>
  <div class="cards">
    <div class="card"><div>Duration</div><div class="value">{{.Duration}}</div></div>
    <div class="card"><div>Passed</div><div class="value">{{.Passed}}</div></div>
    <div class="card"><div>Failed</div><div class="value">{{.Failed}}</div></div>
    <div class="card"><div>Not tested</div><div class="value">{{.NotTested}}</div></div>
  </div>
  <p class="meta">Started {{.StartedAt}} · Finished {{.FinishedAt}}{{with .Project}} · Project {{.}}{{end}}{{with .User}} · User {{.}}{{end}}</p>
  <table>
    <thead><tr><th>#</th><th>Step</th><th>Status</th><th>Duration</th></tr></thead>
    <tbody>
    {{- range .Steps}}
      <tr>
        <td>{{.Number}}</td>
        <td>{{.Name}}{{with .Error}}<pre class="error">{{.}}</pre>{{end}}</td>
        <td><span class="badge {{.Status}}">{{.Status}}</span></td>
        <td>{{.Duration}}</td>
      </tr>
    {{- else}}
      <tr><td colspan="4" class="empty">No steps were reported</td></tr>
    {{- end}}
    </tbody>
  </table>
  <h2>History</h2>
  {{- if .History}}
  <ul>
  {{- range .History}}
    <li><a href="{{.Filename}}">{{.Timestamp}}</a></li>
  {{- end}}
  </ul>
  {{- else}}
  <p class="empty">No previous runs</p>
  {{- end}}
  <p class="meta">Rendered {{.RenderedAt}}</p>
</main>
</body>
</html>
`

const dashboardTemplate = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>{{.Profile.Name}} · Scenarios</title>
<style>` + baseStyle + `</style>
</head>
<body>
<header>
  <h1>{{.Profile.Icon}} {{.Profile.Name}}</h1>
  <div class="meta">{{len .Rows}} scenarios · updated {{.RenderedAt}}</div>
</header>
<main>
  <div class="cards">
    <div class="card"><div>Pass</div><div class="value">{{.Passed}}</div></div>
    <div class="card"><div>Fail</div><div class="value">{{.Failed}}</div></div>
    <div class="card"><div>Stopped</div><div class="value">{{.Stopped}}</div></div>
  </div>
  <table>
    <thead><tr><th>ID</th><th>Scenario</th><th>Status</th><th>Duration</th><th>Last run</th></tr></thead>
    <tbody>
    {{- range .Rows}}
      <tr>
        <td>{{.ScenarioID}}</td>
        <td><a href="{{.ReportPath}}">{{.Title}}</a></td>
        <td><span class="badge {{.Status}}">{{.Status}}</span></td>
        <td>{{.Duration}}</td>
        <td>{{.LastRun}}</td>
      </tr>
    {{- else}}
      <tr><td colspan="5" class="empty">No scenarios have run yet</td></tr>
    {{- end}}
    </tbody>
  </table>
</main>
</body>
</html>
`
