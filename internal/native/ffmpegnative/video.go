// Package ffmpegnative implements native.VideoStream and native.Muxer by
// shelling out to ffmpeg, the same way the teacher's internal/capture
// package drove screen capture through os/exec rather than a native
// capture API. Where the teacher built one ddagrab-based command for
// Windows, this package picks the platform's screen-grab input
// (avfoundation, gdigrab, x11grab) and the hardware encoder resolved by
// internal/hardware.
package ffmpegnative

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"pushtohold/internal/hardware"
	"pushtohold/internal/native"
	"pushtohold/internal/utils"
)

// VideoStream captures a whole display to an H.264 Annex-B elementary
// stream using ffmpeg as the encoder. params.Region is not applied: the
// capture is never cropped to a region.
type VideoStream struct {
	params  native.VideoParams
	sysInfo *hardware.SystemInfo

	mu      sync.Mutex
	cmd     *exec.Cmd
	running bool
}

// NewVideoStream creates a VideoStream. sysInfo may be nil, in which case
// the CPU libx264 encoder is always used.
func NewVideoStream(params native.VideoParams, sysInfo *hardware.SystemInfo) *VideoStream {
	return &VideoStream{params: params, sysInfo: sysInfo}
}

// Start begins capturing and invokes onSample for every NAL unit produced,
// split on Annex-B start codes. It returns once ffmpeg has started; the
// read loop runs on a background goroutine.
func (v *VideoStream) Start(onSample func(native.Sample)) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.running {
		return fmt.Errorf("video stream already running")
	}

	args := v.buildArgs()
	cmd := utils.Command(hardware.FFmpegPath, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	slog.Info("starting video capture", "command", hardware.FFmpegPath+" "+strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg video capture: %w", err)
	}

	v.cmd = cmd
	v.running = true

	go drainStderr(stderr, "video")
	go v.readLoop(stdout, onSample)

	return nil
}

func (v *VideoStream) readLoop(stdout io.ReadCloser, onSample func(native.Sample)) {
	reader := bufio.NewReaderSize(stdout, 4*1024*1024)
	splitter := newAnnexBSplitter()

	buf := make([]byte, 256*1024)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			for _, nal := range splitter.Feed(buf[:n]) {
				onSample(native.Sample{Data: nal, Keyframe: isKeyframeNAL(nal)})
			}
		}
		if err != nil {
			break
		}
	}

	v.mu.Lock()
	v.running = false
	v.mu.Unlock()
}

func (v *VideoStream) Stop() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.running || v.cmd == nil {
		return nil
	}
	if v.cmd.Process != nil {
		_ = v.cmd.Process.Signal(os.Interrupt)
	}
	done := make(chan struct{})
	go func() { v.cmd.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		if v.cmd.Process != nil {
			_ = v.cmd.Process.Kill()
		}
		<-done
	}
	v.running = false
	return nil
}

func (v *VideoStream) buildArgs() []string {
	args := []string{"-hide_banner", "-loglevel", "warning"}
	args = append(args, v.inputArgs()...)
	args = append(args, v.encoderArgs()...)
	args = append(args, "-f", "h264", "-")
	return args
}

func (v *VideoStream) inputArgs() []string {
	fps := strconv.Itoa(v.params.FPS)
	switch runtime.GOOS {
	case "darwin":
		target := v.params.DisplayID
		if target == "" {
			target = "0"
		}
		return []string{"-f", "avfoundation", "-framerate", fps, "-i", target + ":none"}
	case "windows":
		drawMouse := "0"
		if v.params.CaptureCursor {
			drawMouse = "1"
		}
		return []string{
			"-f", "gdigrab", "-framerate", fps, "-draw_mouse", drawMouse, "-i", "desktop",
		}
	default:
		display := v.params.DisplayID
		if display == "" {
			display = ":0.0"
		}
		return []string{"-f", "x11grab", "-framerate", fps, "-i", display}
	}
}

func (v *VideoStream) encoderArgs() []string {
	bitrate := strconv.Itoa(v.params.BitrateBps)
	gop := strconv.Itoa(native.VideoParams{FPS: v.params.FPS}.KeyframeInterval())

	var encArgs []string
	if v.sysInfo != nil {
		if enc := hardware.FindBestEncoder(v.sysInfo.GPUs); enc != nil {
			encArgs = hardware.GetEncoderArgs(enc, hardware.VendorUnknown)
		}
	}
	if encArgs == nil {
		encArgs = hardware.CPUEncoderArgs()
	}

	args := append([]string{}, encArgs...)
	args = append(args,
		"-profile:v", "high",
		"-pix_fmt", "yuv420p",
		"-g", gop,
		"-b:v", bitrate,
		"-maxrate", bitrate,
		"-bufsize", bitrate,
	)
	return args
}

func drainStderr(r io.ReadCloser, tag string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		slog.Debug("ffmpeg "+tag, "line", scanner.Text())
	}
}

// isKeyframeNAL reports whether an Annex-B NAL unit (without its start
// code) is an IDR slice (NAL type 5).
func isKeyframeNAL(nal []byte) bool {
	if len(nal) == 0 {
		return false
	}
	return nal[0]&0x1f == 5
}
