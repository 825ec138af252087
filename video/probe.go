package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// StreamInfo holds the facts about the first video stream that scoring needs.
type StreamInfo struct {
	Width      int
	Height     int
	FrameCount int
	FrameRate  float64
}

type probeOutput struct {
	Streams []struct {
		Width         int    `json:"width"`
		Height        int    `json:"height"`
		NbFrames      string `json:"nb_frames"`
		NbReadPackets string `json:"nb_read_packets"`
		AvgFrameRate  string `json:"avg_frame_rate"`
		RFrameRate    string `json:"r_frame_rate"`
	} `json:"streams"`
}

// Probe reads frame size, frame count and frame rate of the first video stream using ffprobe
func Probe(ctx context.Context, videoFile string) (*StreamInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-select_streams", "v:0", "-count_packets",
		"-show_entries", "stream=width,height,nb_frames,nb_read_packets,avg_frame_rate,r_frame_rate",
		"-of", "json", "--", videoFile)
	output, err := cmd.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		return nil, fmt.Errorf("failed to probe video: %w: %s", err, describeProbeFailure(stderr))
	}

	return parseProbeOutput(output)
}

func parseProbeOutput(output []byte) (*StreamInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(output, &out); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return nil, fmt.Errorf("no video stream found")
	}

	s := out.Streams[0]
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size: %dx%d", s.Width, s.Height)
	}

	// nb_frames comes from the container and is missing for some formats (mkv, webm);
	// the packet count is the fallback.
	frames, err := parseCount(s.NbFrames)
	if err != nil || frames == 0 {
		frames, _ = parseCount(s.NbReadPackets)
	}

	rate, err := parseRate(s.AvgFrameRate)
	if err != nil || rate == 0 {
		rate, _ = parseRate(s.RFrameRate)
	}

	return &StreamInfo{
		Width:      s.Width,
		Height:     s.Height,
		FrameCount: frames,
		FrameRate:  rate,
	}, nil
}

func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return 0, fmt.Errorf("count not available")
	}
	return strconv.Atoi(s)
}

// parseRate converts ffprobe rationals like "30000/1001" to frames per second.
// "0/0" means unknown and yields 0.
func parseRate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	num, den, found := strings.Cut(s, "/")
	if !found {
		return strconv.ParseFloat(s, 64)
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q: %w", s, err)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q: %w", s, err)
	}
	if d == 0 {
		return 0, nil
	}
	return n / d, nil
}

// describeProbeFailure turns ffprobe stderr into a one line reason
func describeProbeFailure(output string) string {
	switch {
	case strings.Contains(output, "moov atom not found"):
		return "video file is corrupted (missing metadata): " + extractFirstLine(output)
	case strings.Contains(output, "Invalid data found"),
		strings.Contains(output, "corrupt"),
		strings.Contains(output, "truncated"),
		strings.Contains(output, "Invalid argument"):
		return "video file is corrupted or invalid: " + extractFirstLine(output)
	default:
		return extractFirstLine(output)
	}
}
