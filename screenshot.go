package cellfx

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Screenshot queues a labeled screenshot of the composited frame. It is
// written at the end of the current Step as a PNG in ScreenshotDir with a
// timestamped filename.
func (e *Engine) Screenshot(label string) {
	e.screenshotQueue = append(e.screenshotQueue, label)
}

// SaveFrame writes the current frame to path as a PNG.
func (e *Engine) SaveFrame(path string) error {
	return writePNG(path, e.frame.img)
}

// flushScreenshots writes every queued screenshot. Failures are logged and
// dropped.
func (e *Engine) flushScreenshots() {
	if len(e.screenshotQueue) == 0 {
		return
	}
	defer func() { e.screenshotQueue = e.screenshotQueue[:0] }()

	dir := e.ScreenshotDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		e.log.Warn("screenshot: mkdir failed", slog.String("dir", dir), slog.Any("err", err))
		return
	}

	stamp := time.Now().Format("20060102_150405")
	for i, label := range e.screenshotQueue {
		name := fmt.Sprintf("%s_%03d_%s.png", stamp, i, sanitizeLabel(label))
		path := filepath.Join(dir, name)
		if err := writePNG(path, e.frame.img); err != nil {
			e.log.Warn("screenshot failed", slog.Any("err", err))
			continue
		}
		e.log.Info("screenshot", slog.String("path", path))
	}
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
