package cellfx

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name, script, want string
	}{
		{"bad json", `{"steps": [`, "parse test script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "jump"}]}`, `unknown action "jump"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.script))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestTestRunnerSequence(t *testing.T) {
	e := newTestEngine(t)
	hud, _ := e.CreateWindow("hud", WindowOptions{Width: 2, Height: 1})
	e.ScreenshotDir = t.TempDir()

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "camera", "x": 40, "y": 0},
		{"action": "wait", "frames": 2},
		{"action": "move_camera", "x": -8, "y": 4},
		{"action": "toggle_window", "window": "hud"},
		{"action": "screenshot", "label": "after toggle"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	e.SetTestRunner(runner)

	e.Step(0)
	if x, _ := e.Camera().Position(); x != 40 {
		t.Fatalf("camera x = %v, want 40", x)
	}
	e.Step(0) // wait starts
	e.Step(0) // still waiting
	if x, _ := e.Camera().Position(); x != 40 {
		t.Fatalf("camera moved during wait: %v", x)
	}
	e.Step(0)
	if x, y := e.Camera().Position(); x != 32 || y != 4 {
		t.Fatalf("camera = (%v,%v), want (32,4)", x, y)
	}
	e.Step(0)
	if hud.Visible {
		t.Error("toggle_window left hud visible")
	}
	if runner.Done() {
		t.Fatal("runner done before the screenshot step")
	}
	e.Step(0)
	if !runner.Done() {
		t.Fatal("runner not done after the last step")
	}

	matches, _ := filepath.Glob(filepath.Join(e.ScreenshotDir, "*_000_after_toggle.png"))
	if len(matches) != 1 {
		t.Fatalf("screenshots = %v, want one", matches)
	}
	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode screenshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != e.Frame().Width() || b.Dy() != e.Frame().Height() {
		t.Errorf("screenshot size = %v", b)
	}
}

func TestSaveFrame(t *testing.T) {
	e := newTestEngine(t)
	e.Step(0)
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := e.SaveFrame(path); err != nil {
		t.Fatal(err)
	}
	if st, err := os.Stat(path); err != nil || st.Size() == 0 {
		t.Errorf("frame file: %v", err)
	}
	if err := e.SaveFrame(filepath.Join(t.TempDir(), "missing", "frame.png")); err == nil {
		t.Error("SaveFrame into a missing directory should fail")
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"lit-room", "lit-room"},
		{"a b/c", "a_b_c"},
		{"  ", "unlabeled"},
		{"v1.2", "v1.2"},
		{"héllo", "h_llo"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMergeSortStable(t *testing.T) {
	type item struct{ key, seq int }
	items := []item{{3, 0}, {1, 1}, {3, 2}, {2, 3}, {1, 4}, {3, 5}, {0, 6}}
	var buf []item
	buf = mergeSort(items, buf, func(a, b item) bool { return a.key <= b.key })
	want := []item{{0, 6}, {1, 1}, {1, 4}, {2, 3}, {3, 0}, {3, 2}, {3, 5}}
	for i := range want {
		if items[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", items, want)
		}
	}
	if cap(buf) < len(items) {
		t.Error("scratch buffer not grown")
	}

	// Reusing the buffer must not disturb a second sort.
	again := []item{{2, 0}, {1, 1}}
	mergeSort(again, buf, func(a, b item) bool { return a.key <= b.key })
	if again[0] != (item{1, 1}) || again[1] != (item{2, 0}) {
		t.Errorf("second sort = %v", again)
	}
}
