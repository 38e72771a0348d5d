package viz

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pursuitlab/slap/internal/kinematics"
	"github.com/pursuitlab/slap/internal/planner"
	"github.com/pursuitlab/slap/internal/target"
	"github.com/pursuitlab/slap/internal/traj"
)

const (
	width  = 80
	height = 24
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(38)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model is the live pursuit view: one planning cycle per tick, drawn on a
// Braille canvas with the target path and vehicle trails.
type Model struct {
	planner planner.Planner
	stepper kinematics.Stepper
	sys     kinematics.System

	waypoints []traj.Point
	speed     float64
	initC     kinematics.State
	initT     []kinematics.State

	tgt      *target.Model
	center   kinematics.State
	trackers []kinematics.State

	t          float64
	dt         float64
	duration   float64
	radius     float64
	separation float64

	running bool
	failed  error
	cycles  int
	solveMs float64

	canvas        *Canvas
	tgtPath       []traj.Point
	trailTrackers [][]traj.Point
}

func NewModel(p planner.Planner, stepper kinematics.Stepper, waypoints []traj.Point, speed float64,
	center kinematics.State, trackers []kinematics.State, dt, duration, radius float64) (Model, error) {

	tgt, err := target.NewModel(waypoints, speed)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		planner:       p,
		stepper:       stepper,
		sys:           kinematics.NewUnicycle(),
		waypoints:     waypoints,
		speed:         speed,
		initC:         center.Clone(),
		initT:         cloneStates(trackers),
		tgt:           tgt,
		center:        center.Clone(),
		trackers:      cloneStates(trackers),
		dt:            dt,
		duration:      duration,
		radius:        radius,
		separation:    math.Inf(1),
		running:       true,
		canvas:        NewCanvas(width, height),
		tgtPath:       tgt.Path(200),
		trailTrackers: make([][]traj.Point, len(trackers)),
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/10, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		}

	case TickMsg:
		if m.running && m.failed == nil && m.t < m.duration && !m.tgt.Done() {
			m.step()
		}
		return m, tea.Tick(time.Second/10, func(t time.Time) tea.Msg { return TickMsg(t) })
	}

	return m, nil
}

func (m *Model) step() {
	est := m.tgt.Telemetry()

	plan, err := m.planner.Plan(m.t, m.center, m.trackers, est)
	if err != nil {
		m.failed = err
		return
	}

	m.center = m.stepper.Step(m.sys, m.center, plan.CenterControl, m.dt)
	for i := range m.trackers {
		m.trackers[i] = m.stepper.Step(m.sys, m.trackers[i], plan.TrackerControls[i], m.dt)
	}
	m.tgt.Advance(m.dt)
	m.t += m.dt
	m.cycles++
	m.solveMs = float64(plan.SolveTime.Microseconds()) / 1000

	if len(m.trackers) >= 2 {
		m.separation = m.trackers[0].Dist(m.trackers[1])
	}

	for i, tr := range m.trackers {
		m.trailTrackers[i] = append(m.trailTrackers[i], traj.Point{X: tr[kinematics.IX], Y: tr[kinematics.IY]})
	}
}

func (m *Model) reset() {
	tgt, err := target.NewModel(m.waypoints, m.speed)
	if err != nil {
		m.failed = err
		return
	}
	m.tgt = tgt
	m.center = m.initC.Clone()
	m.trackers = cloneStates(m.initT)
	m.t = 0
	m.cycles = 0
	m.failed = nil
	m.running = true
	m.separation = math.Inf(1)
	m.trailTrackers = make([][]traj.Point, len(m.initT))
}

func (m Model) View() string {
	m.draw()

	var stats string
	stats += headerStyle.Render("pursuit") + "\n"
	stats += row("time", fmt.Sprintf("%.1f / %.0f s", m.t, m.duration))
	stats += row("cycles", fmt.Sprintf("%d", m.cycles))
	stats += row("solve", fmt.Sprintf("%.1f ms", m.solveMs))
	if math.IsInf(m.separation, 1) {
		stats += row("separation", "-")
	} else {
		stats += row("separation", fmt.Sprintf("%.2f m", m.separation))
	}
	stats += row("target", fmt.Sprintf("(%.1f, %.1f)", m.tgt.Telemetry().State[kinematics.IX], m.tgt.Telemetry().State[kinematics.IY]))
	stats += row("center", fmt.Sprintf("(%.1f, %.1f)", m.center[kinematics.IX], m.center[kinematics.IY]))

	switch {
	case m.failed != nil:
		stats += "\n" + alertStyle.Render("planning failed: "+m.failed.Error())
	case m.tgt.Done():
		stats += "\n" + valueStyle.Render("target reached end of path")
	case !m.running:
		stats += "\n" + valueStyle.Render("paused")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(stats),
	)
	return body + "\n" + helpStyle.Render("space pause · r reset · q quit")
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

func (m *Model) draw() {
	m.canvas.Clear()

	n := len(m.tgtPath)
	for _, trail := range m.trailTrackers {
		n += len(trail)
	}
	all := make([]traj.Point, 0, n)
	all = append(all, m.tgtPath...)
	for _, trail := range m.trailTrackers {
		all = append(all, trail...)
	}
	proj := NewProjection(all, width, height)

	DrawPath(m.canvas, proj, m.tgtPath)
	for _, trail := range m.trailTrackers {
		DrawPath(m.canvas, proj, trail)
	}

	cx, cy := proj.Px(traj.Point{X: m.center[kinematics.IX], Y: m.center[kinematics.IY]})
	m.canvas.DrawCircle(cx, cy, proj.Radius(m.radius))

	tx, ty := proj.Px(traj.Point{X: m.tgt.Telemetry().State[kinematics.IX], Y: m.tgt.Telemetry().State[kinematics.IY]})
	m.canvas.DrawMarker(tx, ty)
	for _, tr := range m.trackers {
		x, y := proj.Px(traj.Point{X: tr[kinematics.IX], Y: tr[kinematics.IY]})
		m.canvas.DrawMarker(x, y)
	}
}

func cloneStates(states []kinematics.State) []kinematics.State {
	out := make([]kinematics.State, len(states))
	for i, s := range states {
		out[i] = s.Clone()
	}
	return out
}
