package ffmpegnative

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"pushtohold/internal/hardware"
	"pushtohold/internal/native"
	"pushtohold/internal/utils"
)

// Muxer implements native.Muxer by remuxing an incoming H.264 elementary
// stream and raw PCM into an MP4 container with a single ffmpeg process:
// video arrives on stdin, audio on an extra pipe (fd 3), following the
// teacher's subprocess-IO idiom (internal/capture.Capturer writing to
// ffmpeg's stdin pipe) generalized to two simultaneous input streams.
type Muxer struct {
	audio native.AudioParams

	mu         sync.Mutex
	cmd        *exec.Cmd
	videoIn    *os.File
	audioIn    *os.File
	opened     bool
	videoBytes int64
	start      time.Time
}

// NewMuxer creates a Muxer for the given audio parameters. Video parameters
// are not needed here: the H.264 stream is copied through unchanged
// (-c:v copy) since ffmpegnative.VideoStream already encoded it.
func NewMuxer(audio native.AudioParams) *Muxer {
	return &Muxer{audio: audio}
}

func (m *Muxer) Open(outputPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opened {
		return fmt.Errorf("muxer already open")
	}

	videoRead, videoWrite, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("failed to create video pipe: %w", err)
	}
	audioRead, audioWrite, err := os.Pipe()
	if err != nil {
		videoRead.Close()
		videoWrite.Close()
		return fmt.Errorf("failed to create audio pipe: %w", err)
	}

	args := []string{
		"-hide_banner", "-loglevel", "warning", "-y",
		"-f", "h264", "-i", "pipe:0",
		"-f", "s16le", "-ar", strconv.Itoa(m.audio.SampleRate), "-ac", strconv.Itoa(m.audio.Channels), "-i", "pipe:3",
		"-c:v", "copy",
		"-c:a", "aac", "-b:a", strconv.Itoa(m.audio.BitrateBps),
		"-movflags", "+faststart",
		outputPath,
	}

	cmd := utils.Command(hardware.FFmpegPath, args...)
	cmd.Stdin = videoRead
	cmd.ExtraFiles = []*os.File{audioRead}

	slog.Info("starting muxer", "output", outputPath, "command", hardware.FFmpegPath+" "+strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		videoRead.Close()
		videoWrite.Close()
		audioRead.Close()
		audioWrite.Close()
		return fmt.Errorf("failed to start muxing ffmpeg: %w", err)
	}

	// The subprocess holds the read ends now; close our copies so EOF
	// propagates correctly once we close the write ends on Finalize.
	videoRead.Close()
	audioRead.Close()

	m.cmd = cmd
	m.videoIn = videoWrite
	m.audioIn = audioWrite
	m.opened = true
	m.start = time.Now()
	return nil
}

// WriteVideo writes one H.264 access unit to the piped ffmpeg process.
// s.NativeTS (already rebased by capture.Normalizer) is not consumed here:
// -c:v copy passes the Annex-B stream through unchanged, so ffmpeg derives
// each frame's presentation timestamp from -framerate rather than from a
// per-sample PTS this muxer supplies. The rebased timestamp is therefore
// advisory for video; the output's start_time=0 comes from +faststart and
// the copy remux, not from this value.
func (m *Muxer) WriteVideo(s native.Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened {
		return fmt.Errorf("muxer not open")
	}
	n, err := m.videoIn.Write(annexBStartCode(s.Data))
	m.videoBytes += int64(n)
	return err
}

func (m *Muxer) WriteAudio(s native.Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened {
		return fmt.Errorf("muxer not open")
	}
	_, err := m.audioIn.Write(s.Data)
	return err
}

// Finalize closes both input pipes so ffmpeg sees EOF, waits for it to
// flush the MP4 trailer, and returns the elapsed wall-clock duration.
func (m *Muxer) Finalize() (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened {
		return 0, fmt.Errorf("muxer not open")
	}

	m.videoIn.Close()
	m.audioIn.Close()

	if err := m.cmd.Wait(); err != nil {
		return 0, fmt.Errorf("ffmpeg muxing failed: %w", err)
	}

	m.opened = false
	return time.Since(m.start), nil
}

// annexBStartCode prepends the 4-byte Annex-B start code stripped off by
// the splitter, so the muxer's h264 demuxer can find NAL boundaries again.
func annexBStartCode(nal []byte) []byte {
	out := make([]byte, 0, len(nal)+4)
	out = append(out, 0, 0, 0, 1)
	out = append(out, nal...)
	return out
}
