// Package tray drives the minimal system-tray icon that reflects
// RecordingStatus, the only UI surface cmd/pushtoholdd ships on its own
// (everything else is a command a future shell drives through
// internal/engine.Engine). It is grounded in
// harnyk-shutupandtype-x11's tray.go: a small set of solid-color PNG
// icons rendered at startup and swapped by state, using the same
// github.com/getlantern/systray Run/SetIcon/SetTooltip calls.
package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/getlantern/systray"

	"pushtohold/internal/events"
)

// Status mirrors the RecordingStatus event payload.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRecording Status = "recording"
	StatusSaving    Status = "saving"
	StatusError     Status = "error"
)

var icons map[Status][]byte

func initIcons() {
	icons = map[Status][]byte{
		StatusIdle:      circleIcon(130, 130, 130),
		StatusRecording: circleIcon(220, 50, 50),
		StatusSaving:    circleIcon(230, 170, 0),
		StatusError:     circleIcon(255, 100, 0),
	}
}

// Run subscribes to bus's recording-status events and drives the tray
// icon until onQuit fires from the tray menu.
// It blocks; call it on its own goroutine or as the process's main
// goroutine, matching systray.Run's own contract.
func Run(bus *events.Bus, onQuit func()) {
	systray.Run(func() { onReady(bus, onQuit) }, func() {})
}

func onReady(bus *events.Bus, onQuit func()) {
	initIcons()
	systray.SetIcon(icons[StatusIdle])
	systray.SetTooltip("PushToHold: idle")

	bus.Subscribe(events.RecordingStatus, func(payload any) {
		status, _ := payload.(string)
		setStatus(Status(status))
	})

	mQuit := systray.AddMenuItem("Quit", "Stop PushToHold")
	go func() {
		<-mQuit.ClickedCh
		systray.Quit()
		if onQuit != nil {
			onQuit()
		}
	}()
}

func setStatus(s Status) {
	icon, ok := icons[s]
	if !ok {
		return
	}
	systray.SetIcon(icon)
	systray.SetTooltip("PushToHold: " + string(s))
}

// circleIcon renders a small anti-aliased filled circle as a PNG, the way
// harnyk-shutupandtype-x11's circleIcon does, so the tray never needs a
// bundled icon asset.
func circleIcon(r, g, b uint8) []byte {
	const size = 22
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cx, cy := float64(size)/2, float64(size)/2
	outer := float64(size)/2 - 1
	inner := outer - 1.2

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			dist := math.Sqrt(dx*dx + dy*dy)
			switch {
			case dist <= inner:
				img.SetRGBA(x, y, color.RGBA{r, g, b, 255})
			case dist <= outer:
				alpha := uint8(255 * (outer - dist) / (outer - inner))
				img.SetRGBA(x, y, color.RGBA{r, g, b, alpha})
			}
		}
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
