package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/truthscore/analyze"
	"github.com/lepinkainen/truthscore/truth"
	"github.com/lepinkainen/truthscore/types"
	"github.com/lepinkainen/truthscore/ui"
	"github.com/lepinkainen/truthscore/utils"
	"github.com/lepinkainen/truthscore/video"
)

// CheckCmd scores local images and videos.
type CheckCmd struct {
	Files   []string `arg:"" name:"files" help:"Images, videos or directories to score" type:"path"`
	Workers int      `help:"Number of parallel workers" default:"0"`
	JSON    bool     `help:"Print results as JSON"`
	TUI     bool     `name:"tui" help:"Show a live dashboard while scoring"`
	Similar int      `help:"Also report files whose fingerprints differ by at most this many bits (0-64, -1 disables)" default:"-1"`
}

// CheckResult is the outcome for one file.
type CheckResult struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type,omitempty"`
	analyze.Outcome
	Error string `json:"error,omitempty"`
}

func (cmd *CheckCmd) Run(appCtx *types.AppContext) error {
	logger := appCtx.LoggerOrNop()

	if cmd.Similar > MaxDistance {
		return fmt.Errorf("similarity threshold must be at most %d, got %d", MaxDistance, cmd.Similar)
	}

	files, err := analyze.ExpandPaths(cmd.Files)
	if err != nil {
		return fmt.Errorf("failed to expand directories: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("🎯 No images or videos to score.")
		return nil
	}

	workers := utils.DefaultWorkers(cmd.Workers, files)
	if cmd.Workers <= 0 && utils.AnyNetworkDrive(files) {
		fmt.Printf("⚠️  Network drive detected, using 1 worker for optimal performance\n")
	}
	if hasVideo(files) {
		if err := utils.ValidateFFmpegDependencies(); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  %v\n", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Debug("scoring files", zap.Int("files", len(files)), zap.Int("workers", workers))

	dispatcher := newDispatcher(appCtx)
	var results []CheckResult
	if cmd.TUI && !cmd.JSON {
		results, err = runWithTUI(ctx, dispatcher, files, workers, appCtx.VersionOrDefault())
		if err != nil {
			return err
		}
	} else {
		if !cmd.JSON {
			fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("TruthScore %s", appCtx.VersionOrDefault())))
			fmt.Println(ui.ProcessingStyle.Render(fmt.Sprintf("Scoring %d files with %d workers:", len(files), workers)))
		}
		results = runWithProgress(ctx, dispatcher, files, workers)
	}

	var pairs []SimilarPair
	if cmd.Similar >= 0 {
		pairs = FindSimilar(results, cmd.Similar)
	}

	if cmd.JSON {
		return writeCheckJSON(os.Stdout, results, pairs)
	}

	printResults(os.Stdout, results)
	if cmd.Similar >= 0 {
		printSimilar(os.Stdout, pairs, cmd.Similar)
	}
	return nil
}

// progressSink receives scoring events from the worker pool.
type progressSink interface {
	Started(worker int, file string)
	Completed(worker int, result CheckResult, done int)
}

// scoreAll scores files with at most workers in flight. Results keep the input order.
func scoreAll(ctx context.Context, d *analyze.Dispatcher, files []string, workers int, sink progressSink) []CheckResult {
	results := make([]CheckResult, len(files))

	// Worker ids are handed out so the dashboard can show one row per slot
	ids := make(chan int, workers)
	for i := 0; i < workers; i++ {
		ids <- i
	}
	var completed atomic.Int64

	var g errgroup.Group
	g.SetLimit(workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			id := <-ids
			defer func() { ids <- id }()

			sink.Started(id, file)
			results[i] = checkFile(ctx, d, file)
			sink.Completed(id, results[i], int(completed.Add(1)))
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// checkFile sniffs the content type of one file and dispatches it.
func checkFile(ctx context.Context, d *analyze.Dispatcher, path string) CheckResult {
	result := CheckResult{Path: path}

	if err := ctx.Err(); err != nil {
		result.Outcome = analyze.Outcome{Message: truth.UserMessage(err), Err: err}
	} else if contentType, err := analyze.DetectContentType(path); err != nil {
		err = truth.Wrap(truth.KindDecode, "check", "failed to read file", err)
		result.Outcome = analyze.Outcome{Message: truth.UserMessage(err), Err: err}
	} else {
		result.ContentType = contentType
		result.Outcome = d.File(ctx, path, contentType)
	}

	if result.Err != nil {
		result.Error = result.Err.Error()
	}
	return result
}

type barSink struct {
	bar *progressbar.ProgressBar
}

func (s barSink) Started(int, string) {}

func (s barSink) Completed(int, CheckResult, int) {
	if s.bar != nil {
		_ = s.bar.Add(1)
	}
}

func runWithProgress(ctx context.Context, d *analyze.Dispatcher, files []string, workers int) []CheckResult {
	var sink barSink
	if len(files) > 1 {
		sink.bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Scoring"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
	}

	results := scoreAll(ctx, d, files, workers, sink)
	if sink.bar != nil {
		_ = sink.bar.Finish()
	}
	return results
}

type tuiSink struct {
	program *tea.Program
	total   int
}

func (s tuiSink) Started(worker int, file string) {
	s.program.Send(ui.WorkerStartedMsg{WorkerID: worker, Filename: file})
}

func (s tuiSink) Completed(worker int, result CheckResult, done int) {
	msg := ui.WorkerCompletedMsg{
		WorkerID: worker,
		Filename: result.Path,
		Message:  result.Message,
		Success:  result.OK(),
		Error:    result.Err,
	}
	if result.Report != nil {
		msg.Score = result.Report.Score
	}
	s.program.Send(msg)
	s.program.Send(ui.OverallProgressMsg{Completed: done, Total: s.total})
}

// runWithTUI scores files behind the bubbletea dashboard. Quitting the
// dashboard cancels the remaining work.
func runWithTUI(ctx context.Context, d *analyze.Dispatcher, files []string, workers int, version string) ([]CheckResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(ui.NewTUIModel(len(files), workers, version))

	var results []CheckResult
	done := make(chan struct{})
	go func() {
		defer close(done)
		results = scoreAll(ctx, d, files, workers, tuiSink{program: program, total: len(files)})
		program.Send(ui.DoneMsg{})
	}()

	final, err := program.Run()
	if err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("dashboard failed: %w", err)
	}
	if m, ok := final.(ui.TUIModel); ok && m.Quitting() {
		cancel()
	}
	<-done

	return results, nil
}

func hasVideo(files []string) bool {
	for _, f := range files {
		if video.IsVideoFile(f) {
			return true
		}
	}
	return false
}

func writeCheckJSON(w io.Writer, results []CheckResult, pairs []SimilarPair) error {
	payload := struct {
		Results []CheckResult `json:"results"`
		Similar []SimilarPair `json:"similar,omitempty"`
	}{Results: results, Similar: pairs}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func printResults(w io.Writer, results []CheckResult) {
	var scored, failed int

	for _, r := range results {
		if !r.OK() {
			fmt.Fprintf(w, "%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ %s: %s", r.Path, r.Message)))
			fmt.Fprintf(w, "   %s\n", ui.DimStyle.Render(r.Error))
			failed++
			continue
		}

		score := r.Report.Score
		fmt.Fprintf(w, "%s %s\n", ui.ScoreStyle(score).Render(fmt.Sprintf("%3d%%", score)), r.Path)
		if details := describeDeductions(r.Report); details != "" {
			fmt.Fprintf(w, "     %s\n", ui.DimStyle.Render(details))
		}
		scored++
	}

	fmt.Fprintf(w, "\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("✅ Scored: %d, ❌ Failed: %d", scored, failed)))
}

func describeDeductions(r *truth.Report) string {
	parts := make([]string, 0, len(r.Deductions))
	for _, d := range r.Deductions {
		parts = append(parts, fmt.Sprintf("%s (-%d)", d.Reason, d.Points))
	}
	return strings.Join(parts, ", ")
}
