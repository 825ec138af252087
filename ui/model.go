package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// File log entry for the scored files list
type FileLogEntry struct {
	Path    string
	Score   int
	Message string
	Error   string
}

func (f FileLogEntry) FilterValue() string { return f.Path }
func (f FileLogEntry) Title() string       { return filepath.Base(f.Path) }
func (f FileLogEntry) Description() string {
	if f.Error != "" {
		return fmt.Sprintf("❌ %s", f.Error)
	}
	return ScoreStyle(f.Score).Render(fmt.Sprintf("%3d%%", f.Score)) + " " + f.Message
}

// Worker state tracking
type WorkerState struct {
	ID          int
	CurrentFile string
	Status      string // "idle", "scoring", "done"
	LastScore   int
	Scored      int
}

// TUI Model for the check command
type TUIModel struct {
	// Application state
	totalFiles     int
	processedFiles int
	failedFiles    int
	workers        []*WorkerState
	fileEntries    []FileLogEntry

	// UI components
	overallProgress progress.Model
	fileList        list.Model

	// Layout
	width  int
	height int

	// Control state
	done     bool
	quitting bool

	// Version for display
	Version string
}

// NewTUIModel creates a new TUI model
func NewTUIModel(numFiles, numWorkers int, version string) TUIModel {
	workers := make([]*WorkerState, numWorkers)
	for i := range workers {
		workers[i] = &WorkerState{ID: i, Status: "idle"}
	}

	fileList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	fileList.Title = "Scored Files"

	return TUIModel{
		totalFiles:      numFiles,
		workers:         workers,
		overallProgress: progress.New(progress.WithDefaultGradient()),
		fileList:        fileList,
		Version:         version,
	}
}

// Init implements tea.Model
func (m TUIModel) Init() tea.Cmd {
	return nil
}

// Quitting reports whether the user asked to stop before all files were scored.
func (m TUIModel) Quitting() bool {
	return m.quitting
}

// Update implements tea.Model
func (m TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.done {
				m.quitting = true
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.overallProgress.Width = max(msg.Width-30, 10)
		m.fileList.SetSize(msg.Width-4, msg.Height/2)

	case WorkerStartedMsg:
		if w := m.worker(msg.WorkerID); w != nil {
			w.CurrentFile = msg.Filename
			w.Status = "scoring"
		}

	case WorkerCompletedMsg:
		if w := m.worker(msg.WorkerID); w != nil {
			w.Status = "idle"
			w.CurrentFile = ""
			w.Scored++
			w.LastScore = msg.Score
		}

		entry := FileLogEntry{
			Path:    msg.Filename,
			Score:   msg.Score,
			Message: msg.Message,
		}
		if !msg.Success {
			m.failedFiles++
			entry.Error = msg.Message
			if msg.Error != nil {
				entry.Error = fmt.Sprintf("%s (%v)", msg.Message, msg.Error)
			}
		}

		m.fileEntries = append(m.fileEntries, entry)
		items := make([]list.Item, len(m.fileEntries))
		for i, entry := range m.fileEntries {
			items[i] = entry
		}
		m.fileList.SetItems(items)

	case OverallProgressMsg:
		m.processedFiles = msg.Completed
		if msg.Total > 0 {
			m.totalFiles = msg.Total
		}

	case DoneMsg:
		m.done = true
		for _, w := range m.workers {
			w.Status = "done"
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m TUIModel) worker(id int) *WorkerState {
	if id < 0 || id >= len(m.workers) {
		return nil
	}
	return m.workers[id]
}

// View implements tea.Model
func (m TUIModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	header := HeaderStyle.Render(fmt.Sprintf("TruthScore %s", m.Version))

	overallPercent := 0.0
	if m.totalFiles > 0 {
		overallPercent = float64(m.processedFiles) / float64(m.totalFiles)
	}
	overallView := fmt.Sprintf("Overall Progress: %s (%d/%d, %d failed)",
		m.overallProgress.ViewAs(overallPercent),
		m.processedFiles,
		m.totalFiles,
		m.failedFiles)

	workerViews := []string{"Worker Status:"}
	for _, w := range m.workers {
		status := fmt.Sprintf("Worker %d: ", w.ID+1)
		if w.Status == "scoring" {
			status += ProcessingStyle.Render("scoring") + " " + w.CurrentFile
		} else {
			status += DimStyle.Render(fmt.Sprintf("%-8s %d files", w.Status, w.Scored))
		}
		workerViews = append(workerViews, status)
	}

	controls := "Controls: [q] Quit"

	sections := []string{
		header,
		overallView,
		strings.Join(workerViews, "\n"),
		m.fileList.View(),
		controls,
	}

	return strings.Join(sections, "\n\n")
}
