package report

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/shotmap-report/internal/domain/shot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	slotColors = [2]color.Color{
		color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
		color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	}
	outsiderColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	pitchColor    = color.RGBA{R: 0xf4, G: 0xf4, B: 0xf0, A: 0xff}
	lineColor     = color.Black
)

// Pitch markings in provider units.
const (
	penaltyAreaDepth = 18.0
	penaltyAreaWidth = 44.0
	sixYardDepth     = 6.0
	sixYardWidth     = 20.0
	centreRadius     = 10.0
	penaltySpotDist  = 12.0
	goalWidth        = 8.0
)

// ShotMapRenderer draws shots over a 120x80 pitch and saves a PNG.
type ShotMapRenderer struct {
	Width  vg.Length
	Height vg.Length
}

func NewShotMapRenderer() *ShotMapRenderer {
	return &ShotMapRenderer{Width: 10 * vg.Inch, Height: 6 * vg.Inch}
}

// TeamColor maps a team to its marker color by identity slot. Teams outside
// the pair share a neutral color.
func TeamColor(pair shot.TeamPair, team string) color.Color {
	slot := pair.Slot(team)
	if slot < 0 {
		return outsiderColor
	}
	return slotColors[slot]
}

// MarkerShape keys the glyph on the goal outcome.
func MarkerShape(e shot.Entry) draw.GlyphDrawer {
	if e.IsGoal() {
		return draw.PyramidGlyph{}
	}
	return draw.CircleGlyph{}
}

func (r *ShotMapRenderer) Render(ex shot.Extraction, path string) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".png" {
		return crerr.Newf("shot map must be saved as png, got %q", path)
	}

	p := plot.New()
	p.Title.Text = "Shot Map - " + ex.Scoreline()
	p.HideAxes()
	p.Legend.Top = true
	p.Legend.Left = true

	if err := addPitch(p); err != nil {
		return crerr.Wrap(err, "draw pitch")
	}
	if err := addShots(p, ex); err != nil {
		return crerr.Wrap(err, "draw shots")
	}

	// Provider y grows downward from the top touchline.
	p.X.Min, p.X.Max = -2, shot.PitchLength+2
	p.Y.Min, p.Y.Max = -2, shot.PitchWidth+2
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	width, height := r.Width, r.Height
	if width <= 0 || height <= 0 {
		width, height = 10*vg.Inch, 6*vg.Inch
	}
	if err := p.Save(width, height, path); err != nil {
		return crerr.Wrapf(err, "save shot map path=%s", path)
	}
	return nil
}

type shotGroup struct {
	label string
	color color.Color
	shape draw.GlyphDrawer
	xys   plotter.XYs
}

// addShots adds one scatter per team and goal/non-goal combination so the
// legend can name each of them.
func addShots(p *plot.Plot, ex shot.Extraction) error {
	groups := make([]*shotGroup, 0, 4)
	index := make(map[string]*shotGroup, 4)

	for _, entry := range ex.Shots {
		if !finite(entry.X) || !finite(entry.Y) {
			continue
		}
		goal := entry.IsGoal()
		key := fmt.Sprintf("%s|%t", entry.Team, goal)
		group, ok := index[key]
		if !ok {
			label := entry.Team
			if goal {
				label += " (goal)"
			}
			group = &shotGroup{
				label: label,
				color: TeamColor(ex.Teams, entry.Team),
				shape: MarkerShape(entry),
			}
			index[key] = group
			groups = append(groups, group)
		}
		group.xys = append(group.xys, plotter.XY{X: entry.X, Y: entry.Y})
	}

	for _, group := range groups {
		scatter, err := plotter.NewScatter(group.xys)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = group.color
		scatter.GlyphStyle.Shape = group.shape
		scatter.GlyphStyle.Radius = vg.Points(5)
		p.Add(scatter)
		p.Legend.Add(group.label, scatter)
	}
	return nil
}

func addPitch(p *plot.Plot) error {
	grass, err := plotter.NewPolygon(plotter.XYs{
		{X: 0, Y: 0}, {X: shot.PitchLength, Y: 0},
		{X: shot.PitchLength, Y: shot.PitchWidth}, {X: 0, Y: shot.PitchWidth},
	})
	if err != nil {
		return err
	}
	grass.Color = pitchColor
	grass.LineStyle.Color = lineColor
	grass.LineStyle.Width = vg.Points(1.2)
	p.Add(grass)

	midY := shot.PitchWidth / 2
	markings := []plotter.XYs{
		{{X: shot.PitchLength / 2, Y: 0}, {X: shot.PitchLength / 2, Y: shot.PitchWidth}},
		box(0, penaltyAreaDepth, midY, penaltyAreaWidth),
		box(shot.PitchLength, -penaltyAreaDepth, midY, penaltyAreaWidth),
		box(0, sixYardDepth, midY, sixYardWidth),
		box(shot.PitchLength, -sixYardDepth, midY, sixYardWidth),
		{{X: 0, Y: midY - goalWidth/2}, {X: 0, Y: midY + goalWidth/2}},
		{{X: shot.PitchLength, Y: midY - goalWidth/2}, {X: shot.PitchLength, Y: midY + goalWidth/2}},
		circle(shot.PitchLength/2, midY, centreRadius, 64),
	}

	for _, xys := range markings {
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.LineStyle.Color = lineColor
		line.LineStyle.Width = vg.Points(1)
		p.Add(line)
	}

	spots, err := plotter.NewScatter(plotter.XYs{
		{X: penaltySpotDist, Y: midY},
		{X: shot.PitchLength / 2, Y: midY},
		{X: shot.PitchLength - penaltySpotDist, Y: midY},
	})
	if err != nil {
		return err
	}
	spots.GlyphStyle.Color = lineColor
	spots.GlyphStyle.Shape = draw.CircleGlyph{}
	spots.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(spots)
	return nil
}

// box is a three sided area drawn from the goal line at x0 into the pitch.
// A negative depth draws toward decreasing x.
func box(x0, depth, midY, width float64) plotter.XYs {
	top, bottom := midY-width/2, midY+width/2
	return plotter.XYs{
		{X: x0, Y: top},
		{X: x0 + depth, Y: top},
		{X: x0 + depth, Y: bottom},
		{X: x0, Y: bottom},
	}
}

func circle(cx, cy, radius float64, segments int) plotter.XYs {
	out := make(plotter.XYs, 0, segments+1)
	for i := 0; i <= segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		out = append(out, plotter.XY{X: cx + radius*math.Cos(theta), Y: cy + radius*math.Sin(theta)})
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
