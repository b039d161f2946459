package report

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"time"

	"psr/internal/config"
	"psr/internal/domain"
	"psr/internal/storage"
)

const timeLayout = "2006-01-02 15:04:05"

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Renderer turns results into HTML. Rendering is pure: the same inputs always
// produce the same bytes.
type Renderer struct {
	scenario  *template.Template
	dashboard *template.Template
}

// NewRenderer parses the report templates
func NewRenderer() *Renderer {
	return &Renderer{
		scenario:  template.Must(template.New("scenario").Parse(scenarioTemplate)),
		dashboard: template.Must(template.New("dashboard").Parse(dashboardTemplate)),
	}
}

type profileData struct {
	Name string
	Icon string
}

type stepData struct {
	Number   int
	Name     string
	Status   domain.Status
	Duration string
	Error    string
}

type historyData struct {
	Filename  string
	Timestamp string
}

type scenarioData struct {
	Profile    profileData
	Primary    template.CSS
	Secondary  template.CSS
	ScenarioID int
	Title      string
	Status     domain.OverallStatus
	Terminated bool
	Duration   string
	Passed     int
	Failed     int
	NotTested  int
	StartedAt  string
	FinishedAt string
	Project    string
	User       string
	Steps      []stepData
	History    []historyData
	RenderedAt string
}

type dashboardRow struct {
	ScenarioID int
	Title      string
	Status     domain.OverallStatus
	Duration   string
	LastRun    string
	ReportPath string
}

type dashboardData struct {
	Profile    profileData
	Primary    template.CSS
	Secondary  template.CSS
	Rows       []dashboardRow
	Passed     int
	Failed     int
	Stopped    int
	RenderedAt string
}

// Render renders the report of one scenario. An empty result renders the
// page shell with a fail status and no steps.
func (r *Renderer) Render(scenarioID int, result domain.ScenarioResult, profile config.ProductProfile, renderedAt time.Time, history []domain.HistoryEntry) (string, error) {
	status := result.OverallStatus
	if status == "" {
		status = domain.OverallFail
	}
	duration := result.DurationFormatted
	if duration == "" {
		duration = domain.FormatDuration(result.DurationMs)
	}
	passed, failed, notTested := result.Counts()

	data := scenarioData{
		Profile:    profileData{Name: profile.Name, Icon: profile.Icon},
		Primary:    cssColor(profile.PrimaryColor, config.DefaultProfile().PrimaryColor),
		Secondary:  cssColor(profile.SecondaryColor, config.DefaultProfile().SecondaryColor),
		ScenarioID: scenarioID,
		Title:      result.Title,
		Status:     status,
		Terminated: result.Terminated,
		Duration:   duration,
		Passed:     passed,
		Failed:     failed,
		NotTested:  notTested,
		StartedAt:  formatTime(result.StartTime),
		FinishedAt: formatTime(result.EndTime),
		Project:    profile.Defaults.Project,
		User:       profile.Defaults.User,
		RenderedAt: formatTime(renderedAt),
	}
	if data.Title == "" {
		data.Title = fmt.Sprintf("Scenario %d", scenarioID)
	}
	for i, s := range result.Steps {
		data.Steps = append(data.Steps, stepData{
			Number:   i + 1,
			Name:     s.Name,
			Status:   s.Status,
			Duration: fmt.Sprintf("%.1fs", float64(s.DurationMs)/1000),
			Error:    s.Error,
		})
	}
	for _, h := range history {
		data.History = append(data.History, historyData{Filename: h.Filename, Timestamp: formatTime(h.Timestamp)})
	}

	var buf bytes.Buffer
	if err := r.scenario.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render scenario %d: %w", scenarioID, err)
	}
	return buf.String(), nil
}

// RenderDashboard renders the master list of a product
func (r *Renderer) RenderDashboard(profile config.ProductProfile, doc storage.IndexDocument, renderedAt time.Time) (string, error) {
	data := dashboardData{
		Profile:    profileData{Name: profile.Name, Icon: profile.Icon},
		Primary:    cssColor(profile.PrimaryColor, config.DefaultProfile().PrimaryColor),
		Secondary:  cssColor(profile.SecondaryColor, config.DefaultProfile().SecondaryColor),
		RenderedAt: formatTime(renderedAt),
	}
	for _, e := range doc.Scenarios {
		switch e.Status {
		case domain.OverallPass:
			data.Passed++
		case domain.OverallStopped:
			data.Stopped++
		default:
			data.Failed++
		}
		data.Rows = append(data.Rows, dashboardRow{
			ScenarioID: e.ScenarioID,
			Title:      e.Title,
			Status:     e.Status,
			Duration:   e.DurationFormatted,
			LastRun:    formatTime(e.LastRun),
			ReportPath: e.ReportPath,
		})
	}

	var buf bytes.Buffer
	if err := r.dashboard.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render dashboard: %w", err)
	}
	return buf.String(), nil
}

func cssColor(value, fallback string) template.CSS {
	if hexColor.MatchString(value) {
		return template.CSS(value)
	}
	return template.CSS(fallback)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timeLayout)
}
