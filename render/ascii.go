package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/lguibr/brickduel/game"
	"github.com/lguibr/brickduel/utils"
)

// cell is one character of the frame and the color it is drawn in.
type cell struct {
	ch    rune
	color string // "#rrggbb", empty for the terminal default
}

// rgbToAnsi converts a color to an ANSI 24-bit foreground escape code.
func rgbToAnsi(c utils.RGB) string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", c[0], c[1], c[2])
}

// frame maps canvas coordinates onto a cols x rows character grid.
type frame struct {
	cells      [][]cell
	cols, rows int
	sx, sy     float64
}

func newFrame(s game.Snapshot, cols, rows int) *frame {
	f := &frame{cols: cols, rows: rows}
	f.sx = float64(cols) / math.Max(s.CanvasWidth, 1)
	f.sy = float64(rows) / math.Max(s.CanvasHeight, 1)
	f.cells = make([][]cell, rows)
	for r := range f.cells {
		f.cells[r] = make([]cell, cols)
		for c := range f.cells[r] {
			f.cells[r][c] = cell{ch: ' '}
		}
	}
	return f
}

func (f *frame) col(x float64) int { return int(math.Floor(x * f.sx)) }
func (f *frame) row(y float64) int { return int(math.Floor(y * f.sy)) }

func (f *frame) set(c, r int, ch rune, color string) {
	if c < 0 || c >= f.cols || r < 0 || r >= f.rows {
		return
	}
	f.cells[r][c] = cell{ch: ch, color: color}
}

// fillRect draws ch over every cell a canvas rectangle touches.
func (f *frame) fillRect(x, y, w, h float64, ch rune, color string) {
	c0, c1 := f.col(x), f.col(x+w-1e-9)
	r0, r1 := f.row(y), f.row(y+h-1e-9)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			f.set(c, r, ch, color)
		}
	}
}

func brickRune(p game.PowerUp) rune {
	switch p {
	case game.PowerUpFreezeRay:
		return 'F'
	case game.PowerUpLaser:
		return 'L'
	case game.PowerUpWide:
		return 'W'
	}
	return '#'
}

func paddleRune(p game.PaddleView) (rune, string) {
	switch {
	case p.IsAshes:
		return '.', "#7f8c8d"
	case p.IsFrozen:
		return '*', "#74b9ff"
	}
	return '=', "#ecf0f1"
}

// ASCII draws a snapshot as cols x rows characters plus a status line. With
// color set every drawn character carries an ANSI color escape.
func ASCII(s game.Snapshot, cols, rows int, color bool) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	f := newFrame(s, cols, rows)

	for _, fr := range s.Fragments {
		f.set(f.col(fr.X), f.row(fr.Y), ',', fr.Color)
	}
	for _, b := range s.Bricks {
		f.fillRect(b.X, b.Y, b.Width, b.Height, brickRune(b.PowerUp), b.Color)
	}
	for _, p := range s.Projectiles {
		ch, clr := '|', "#74b9ff"
		if p.Kind == game.LaserBeam {
			clr = "#e74c3c"
		}
		c := f.col(p.X)
		lo, hi := f.row(math.Min(p.Y, p.TipY)), f.row(math.Max(p.Y, p.TipY))
		for r := lo; r <= hi; r++ {
			f.set(c, r, ch, clr)
		}
	}
	for _, p := range s.Paddles {
		ch, clr := paddleRune(p)
		f.fillRect(p.X, p.Y, p.Width, p.Height, ch, clr)
	}
	for _, b := range s.Balls {
		f.set(f.col(b.X), f.row(b.Y), 'O', "#ffffff")
	}

	var out strings.Builder
	for _, line := range f.cells {
		for _, c := range line {
			if color && c.color != "" && c.ch != ' ' {
				if rgb, ok := utils.ParseHexColor(c.color); ok {
					out.WriteString(rgbToAnsi(rgb))
					out.WriteRune(c.ch)
					out.WriteString("\033[0m")
					continue
				}
			}
			out.WriteRune(c.ch)
		}
		out.WriteByte('\n')
	}
	out.WriteString(StatusLine(s))
	out.WriteByte('\n')
	return out.String()
}

// StatusLine summarises scores, weapons and the match state.
func StatusLine(s game.Snapshot) string {
	parts := make([]string, 0, len(s.Paddles)+2)
	for _, p := range s.Paddles {
		part := fmt.Sprintf("P%d %d", p.Player, p.Score)
		var flags []string
		if p.HasFreezeRay {
			flags = append(flags, "freeze")
		}
		if p.HasLaser {
			flags = append(flags, "laser")
		}
		if p.IsWide {
			flags = append(flags, "wide")
		}
		if len(flags) > 0 {
			part += " [" + strings.Join(flags, ",") + "]"
		}
		parts = append(parts, part)
	}
	parts = append(parts, fmt.Sprintf("%s %d bricks", s.Pattern, s.ActiveBricks))
	status := string(s.Status)
	if s.Status == game.StatusGameOver {
		if s.Winner == 0 {
			status += " (draw)"
		} else {
			status += fmt.Sprintf(" (P%d wins)", s.Winner)
		}
	}
	parts = append(parts, status)
	return strings.Join(parts, " | ")
}
