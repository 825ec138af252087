package ui

// TUI Message Types for worker communication
type WorkerStartedMsg struct {
	WorkerID int
	Filename string
}

type WorkerCompletedMsg struct {
	WorkerID int
	Filename string
	Score    int
	Message  string
	Success  bool
	Error    error
}

type OverallProgressMsg struct {
	Completed int
	Total     int
}

// DoneMsg is sent once every file has been scored
type DoneMsg struct{}
