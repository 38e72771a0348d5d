package export

import (
	"strings"
	"testing"

	"github.com/pursuitlab/slap/internal/traj"
	"github.com/pursuitlab/slap/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 19)

	svg := CanvasToSVG(c, 4)
	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("expected XML header")
	}
	if !strings.Contains(svg, "<circle") {
		t.Error("expected dots for the drawn line")
	}
	if CanvasToSVG(nil, 4) != "" {
		t.Error("expected empty output for nil canvas")
	}
}

func TestCanvasToSVGEmpty(t *testing.T) {
	c := viz.NewCanvas(4, 4)
	svg := CanvasToSVG(c, 4)
	if strings.Contains(svg, "<circle") {
		t.Error("empty canvas should produce no dots")
	}
}

func TestSceneToSVG(t *testing.T) {
	scene := ScenePaths{
		Paths: [][]traj.Point{
			{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 0}},
			{{X: 0, Y: 1}, {X: 10, Y: 1}},
		},
		Colors: []string{"#ff0000"},
	}

	svg := SceneToSVG(scene, 400, 300)
	if count := strings.Count(svg, "<path"); count != 2 {
		t.Errorf("expected 2 paths, got %d", count)
	}
	if !strings.Contains(svg, "#ff0000") {
		t.Error("expected chosen stroke color")
	}
}

func TestSceneToSVGTooFewPoints(t *testing.T) {
	scene := ScenePaths{Paths: [][]traj.Point{{{X: 1, Y: 1}}}}
	if SceneToSVG(scene, 100, 100) != "" {
		t.Error("expected empty output for a single point")
	}
}
