package reviewconsole

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nctrack/internal/bootstrap/logging"
	"nctrack/internal/usecase/nonconformity"
)

const maxShownAuditEntries = 6
const maxActionLogLines = 8

// Options configures the review console queue.
type Options struct {
	Actor           string
	ScopeFilter     string
	RefreshInterval time.Duration
}

type reviewModel struct {
	ctx             context.Context
	service         *nonconformity.Service
	actor           string
	scopeFilter     string
	refreshInterval time.Duration

	records       []nonconformity.RecordListItem
	selectedIndex int
	detail        nonconformity.RecordDetail
	hasDetail     bool
	status        string
	actionLogs    []string
}

type recordsLoadedMsg struct {
	items []nonconformity.RecordListItem
	err   error
}

type recordDetailLoadedMsg struct {
	recordRef string
	detail    nonconformity.RecordDetail
	err       error
}

type tickMsg struct{}

type actionDoneMsg struct {
	action    string
	recordRef string
	result    string
	err       error
}

func NewReviewModel(ctx context.Context, service *nonconformity.Service, options Options) tea.Model {
	actor := strings.TrimSpace(options.Actor)
	if actor == "" {
		actor = "reviewer"
	}
	scopeFilter := normalizeScopeFilter(options.ScopeFilter)
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &reviewModel{
		ctx:             ctx,
		service:         service,
		actor:           actor,
		scopeFilter:     scopeFilter,
		refreshInterval: interval,
		status:          "starting",
	}
}

func (m *reviewModel) Init() tea.Cmd {
	return tea.Batch(m.loadRecordsCmd(), m.tickCmd())
}

func (m *reviewModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadRecordsCmd(), m.tickCmd())
	case recordsLoadedMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.records = msg.items
		if len(m.records) == 0 {
			m.selectedIndex = 0
			m.hasDetail = false
			m.status = "queue is empty"
			return m, nil
		}
		if m.selectedIndex < 0 {
			m.selectedIndex = 0
		}
		if m.selectedIndex >= len(m.records) {
			m.selectedIndex = len(m.records) - 1
		}
		m.status = fmt.Sprintf("refreshed, %d records", len(m.records))
		return m, m.loadSelectedDetailCmd()
	case recordDetailLoadedMsg:
		if !m.isCurrentSelectedRecord(msg.recordRef) {
			return m, nil
		}
		if msg.err != nil {
			m.hasDetail = false
			m.status = "detail load failed: " + msg.err.Error()
			return m, nil
		}
		m.hasDetail = true
		m.detail = msg.detail
		return m, nil
	case actionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
			m.appendActionLog(msg.action, msg.recordRef, "failed", msg.err)
		} else {
			m.status = fmt.Sprintf("%s done: %s", msg.action, msg.result)
			m.appendActionLog(msg.action, msg.recordRef, msg.result, nil)
		}
		return m, m.loadRecordsCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, m.loadRecordsCmd()
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.records)-1 {
				m.selectedIndex++
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		case "x":
			return m, m.closeCmd()
		case "o":
			return m, m.reopenCmd()
		case "a":
			return m, m.noteCmd()
		}
	}
	return m, nil
}

func (m *reviewModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Nonconformity Review Console"))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"actor=%s scope=%s refresh=%s",
		m.actor,
		firstNonEmpty(m.scopeFilter, "all"),
		m.refreshInterval,
	)))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Queue"))
	builder.WriteString("\n")
	if len(m.records) == 0 {
		builder.WriteString(dimStyle.Render("- no records"))
		builder.WriteString("\n\n")
	} else {
		for index, item := range m.records {
			line := fmt.Sprintf("%s [%s] code=%s severity=%s created=%s",
				item.RecordRef, item.StatusLabel, item.Code, item.SeverityLabel, item.CreatedAt)
			if index == m.selectedIndex {
				builder.WriteString(selectedStyle.Render("> " + line))
			} else {
				builder.WriteString("  " + line)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Detail"))
	builder.WriteString("\n")
	if !m.hasDetail {
		builder.WriteString(dimStyle.Render("- no detail"))
		builder.WriteString("\n\n")
	} else {
		builder.WriteString(fmt.Sprintf("RecordRef: %s\n", m.detail.RecordRef))
		builder.WriteString(fmt.Sprintf("Code: %s\n", m.detail.Code))
		builder.WriteString(fmt.Sprintf("Status: %s\n", m.detail.StatusLabel))
		builder.WriteString(fmt.Sprintf("Severity: %s\n", m.detail.SeverityLabel))
		builder.WriteString(fmt.Sprintf("Category: %s\n", m.detail.CategoryLabel))
		builder.WriteString(fmt.Sprintf("Area: %s\n", firstNonEmpty(m.detail.AreaLabel, "-")))
		builder.WriteString(fmt.Sprintf("Closed: %s\n", firstNonEmpty(m.detail.ClosedAt, "-")))
		builder.WriteString(fmt.Sprintf("Description: %s\n", firstNonEmptyLine(m.detail.Description)))
		builder.WriteString("\nAudit Trail:\n")
		entries := m.detail.AuditTrail
		if len(entries) == 0 {
			builder.WriteString("- none\n")
		} else {
			start := len(entries) - maxShownAuditEntries
			if start < 0 {
				start = 0
			}
			for _, entry := range entries[start:] {
				builder.WriteString(fmt.Sprintf("- #%d %s %s\n", entry.EntryID, entry.Actor, firstNonEmptyLine(entry.Action)))
			}
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + firstNonEmpty(m.status, "ready"))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Actions"))
	builder.WriteString("\n")
	builder.WriteString("- x close record\n")
	builder.WriteString("- o reopen record\n")
	builder.WriteString("- a note review visit\n")
	builder.WriteString("\n")

	builder.WriteString(sectionStyle.Render("Action Log"))
	builder.WriteString("\n")
	if len(m.actionLogs) == 0 {
		builder.WriteString(dimStyle.Render("- no actions"))
		builder.WriteString("\n\n")
	} else {
		for _, line := range m.actionLogs {
			builder.WriteString("- " + line)
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(dimStyle.Render("Keys: up/k down/j move  g refresh  x/o/a actions  q quit"))
	return builder.String()
}

func (m *reviewModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *reviewModel) loadRecordsCmd() tea.Cmd {
	scope := m.scopeFilter
	return func() tea.Msg {
		items, err := m.service.List(m.ctx, nonconformity.QueryInput{})
		if err != nil {
			return recordsLoadedMsg{err: err}
		}
		return recordsLoadedMsg{items: filterRecordsByScope(items, scope)}
	}
}

func (m *reviewModel) loadSelectedDetailCmd() tea.Cmd {
	if len(m.records) == 0 {
		return nil
	}
	selected := m.records[m.selectedIndex]
	return func() tea.Msg {
		detail, err := m.service.Get(m.ctx, selected.RecordRef)
		if err != nil {
			return recordDetailLoadedMsg{recordRef: selected.RecordRef, err: err}
		}
		return recordDetailLoadedMsg{recordRef: selected.RecordRef, detail: detail}
	}
}

func (m *reviewModel) closeCmd() tea.Cmd {
	record, ok := m.selectedRecord()
	if !ok {
		m.status = "no record selected"
		return nil
	}
	recordRef := record.RecordRef
	m.status = "closing..."
	return func() tea.Msg {
		err := m.service.Close(m.ctx, nonconformity.CloseInput{
			RecordRef: recordRef,
			Comment:   "console review close",
			Actor:     m.actor,
		})
		if err != nil {
			return actionDoneMsg{action: "close", recordRef: recordRef, err: err}
		}
		return actionDoneMsg{action: "close", recordRef: recordRef, result: "closed"}
	}
}

func (m *reviewModel) reopenCmd() tea.Cmd {
	record, ok := m.selectedRecord()
	if !ok {
		m.status = "no record selected"
		return nil
	}
	recordRef := record.RecordRef
	m.status = "reopening..."
	return func() tea.Msg {
		err := m.service.Reopen(m.ctx, nonconformity.ReopenInput{
			RecordRef: recordRef,
			Actor:     m.actor,
		})
		if err != nil {
			return actionDoneMsg{action: "reopen", recordRef: recordRef, err: err}
		}
		return actionDoneMsg{action: "reopen", recordRef: recordRef, result: "reopened"}
	}
}

func (m *reviewModel) noteCmd() tea.Cmd {
	record, ok := m.selectedRecord()
	if !ok {
		m.status = "no record selected"
		return nil
	}
	recordRef := record.RecordRef
	m.status = "noting review..."
	return func() tea.Msg {
		err := m.service.AddAction(m.ctx, nonconformity.AddActionInput{
			RecordRef: recordRef,
			Action:    "reviewed in console, no change required",
			Actor:     m.actor,
		})
		if err != nil {
			return actionDoneMsg{action: "note", recordRef: recordRef, err: err}
		}
		return actionDoneMsg{action: "note", recordRef: recordRef, result: "recorded"}
	}
}

func (m *reviewModel) selectedRecord() (nonconformity.RecordListItem, bool) {
	if len(m.records) == 0 {
		return nonconformity.RecordListItem{}, false
	}
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.records) {
		return nonconformity.RecordListItem{}, false
	}
	return m.records[m.selectedIndex], true
}

func (m *reviewModel) isCurrentSelectedRecord(recordRef string) bool {
	selected, ok := m.selectedRecord()
	if !ok {
		return false
	}
	return strings.TrimSpace(selected.RecordRef) == strings.TrimSpace(recordRef)
}

func (m *reviewModel) appendActionLog(action string, recordRef string, result string, opErr error) {
	outcome := strings.TrimSpace(result)
	if opErr != nil {
		outcome = "error: " + opErr.Error()
	}
	if outcome == "" {
		outcome = "ok"
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	line := fmt.Sprintf("%s actor=%s record=%s action=%s result=%s", timestamp, m.actor, recordRef, action, outcome)
	m.actionLogs = append([]string{line}, m.actionLogs...)
	if len(m.actionLogs) > maxActionLogLines {
		m.actionLogs = m.actionLogs[:maxActionLogLines]
	}

	logging.Info(m.ctx, "review console action",
		slog.String("time", timestamp),
		slog.String("actor", m.actor),
		slog.String("record_ref", recordRef),
		slog.String("action", action),
		slog.String("result", outcome),
	)
}

func filterRecordsByScope(items []nonconformity.RecordListItem, scope string) []nonconformity.RecordListItem {
	if scope == "" || scope == "all" {
		return items
	}
	filtered := make([]nonconformity.RecordListItem, 0, len(items))
	for _, item := range items {
		if scope == "closed" && !item.IsClosed {
			continue
		}
		if scope == "open" && item.IsClosed {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func normalizeScopeFilter(input string) string {
	value := strings.TrimSpace(strings.ToLower(input))
	switch value {
	case "open", "closed", "all":
		return value
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		normalized := strings.TrimSpace(value)
		if normalized != "" {
			return normalized
		}
	}
	return ""
}

func firstNonEmptyLine(body string) string {
	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line != "" {
			return line
		}
	}
	return "empty"
}
