package video

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"

	"github.com/lepinkainen/truthscore/sharpness"
)

// Source yields the frames of one video in order. It cannot be rewound;
// open the file again to start over.
type Source interface {
	Info() StreamInfo
	// Next returns the next frame as 8-bit gray, or io.EOF after the last one.
	// The returned image is only valid until the following call.
	Next() (*image.Gray, error)
	Close() error
}

// Opener opens a video file as a Source.
type Opener interface {
	Open(ctx context.Context, path string) (Source, error)
}

// FFmpegOpener probes with ffprobe and decodes with ffmpeg, both taken from PATH.
type FFmpegOpener struct{}

// Open probes the file and starts an ffmpeg process that streams raw gray frames.
func (FFmpegOpener) Open(ctx context.Context, path string) (Source, error) {
	info, err := Probe(ctx, path)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, "ffmpeg", frameArgs(path)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open ffmpeg output: %w", err)
	}
	src := &ffmpegSource{
		info:   *info,
		cmd:    cmd,
		cancel: cancel,
		frame:  make([]byte, info.Width*info.Height),
	}
	cmd.Stderr = &src.stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	src.reader = bufio.NewReaderSize(stdout, len(src.frame))

	return src, nil
}

// frameArgs decodes the first video stream to raw gray frames at the coded
// size reported by ffprobe. Autorotation is off so rotated clips keep that stride.
func frameArgs(path string) []string {
	return []string{"-v", "error", "-nostdin", "-noautorotate",
		"-i", path, "-map", "0:v:0", "-vsync", "0",
		"-f", "rawvideo", "-pix_fmt", "gray", "-"}
}

type ffmpegSource struct {
	info   StreamInfo
	cmd    *exec.Cmd
	cancel context.CancelFunc
	reader *bufio.Reader
	frame  []byte
	stderr bytes.Buffer
	closed bool
}

func (s *ffmpegSource) Info() StreamInfo {
	return s.info
}

func (s *ffmpegSource) Next() (*image.Gray, error) {
	_, err := io.ReadFull(s.reader, s.frame)
	switch {
	case err == nil:
		return sharpness.FromBytes(s.frame, s.info.Width, s.info.Height), nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// A trailing partial frame is dropped.
		if waitErr := s.wait(); waitErr != nil {
			return nil, waitErr
		}
		return nil, io.EOF
	default:
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}
}

func (s *ffmpegSource) wait() error {
	if s.closed {
		return nil
	}
	s.closed = true
	defer s.cancel()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, extractFirstLine(s.stderr.String()))
	}
	return nil
}

func (s *ffmpegSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	// Killed by cancel, so the exit status carries no information.
	_ = s.cmd.Wait()
	return nil
}
