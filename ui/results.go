package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/klod/score"
)

// Action is a menu choice made by the player.
type Action int

const (
	ActionNone Action = iota
	ActionPlay
	ActionRetry
	ActionMainMenu
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionPlay:
		return "play"
	case ActionRetry:
		return "retry"
	case ActionMainMenu:
		return "main_menu"
	case ActionQuit:
		return "quit"
	}
	return "none"
}

const (
	buttonWidth  = 160
	buttonHeight = 32
	menuWidth    = 420
)

// ResultLines are the text rows of the results panel for s.
func ResultLines(s score.Score) []string {
	return []string{s.TimeLabel(), s.BoneMassLabel(), s.ManaLabel(), s.Hint()}
}

// BestLines formats stored results as a short leaderboard.
func BestLines(best []score.Result) []string {
	lines := make([]string, 0, len(best))
	for i, r := range best {
		mark := ""
		if r.Won {
			mark = " *"
		}
		lines = append(lines, fmt.Sprintf("%d. %.0f mana (%s)%s", i+1, r.Mana, r.FinishedAt.Format("2006-01-02"), mark))
	}
	return lines
}

// ResultsPanel is the scoreboard shown when a level ends.
type ResultsPanel struct {
	renderer *Renderer
}

// NewResultsPanel creates a results panel.
func NewResultsPanel() *ResultsPanel {
	return &ResultsPanel{renderer: NewRenderer()}
}

// Draw renders the scoreboard centered on screen and returns the button the
// player clicked this frame.
func (p *ResultsPanel) Draw(s score.Score, best []score.Result, screenW, screenH int32) Action {
	r := p.renderer
	t := r.Theme
	lines := ResultLines(s)
	board := BestLines(best)

	height := t.Padding*3 + t.TitleFontSize + 10 + int32(len(lines))*t.LineHeight + buttonHeight
	if len(board) > 0 {
		height += t.LineHeight + 2 + int32(len(board))*t.LineHeight + 6
	}
	x, y := r.Anchored(AnchorCenter, menuWidth, height, screenW, screenH)
	r.DrawPanel(x, y, menuWidth, height)

	titleColor := t.Bad
	if s.Won() {
		titleColor = t.Good
	}
	title := s.Title()
	tw := rl.MeasureText(title, t.TitleFontSize)
	y += t.Padding
	rl.DrawText(title, x+(menuWidth-tw)/2, y, t.TitleFontSize, titleColor)
	y += t.TitleFontSize + 10

	for _, line := range lines {
		rl.DrawText(line, x+t.Padding, y, t.FontSize, t.ValueColor)
		y += t.LineHeight
	}

	if len(board) > 0 {
		y += 6
		y = r.DrawSectionHeader(x+t.Padding, y, "Best")
		for _, line := range board {
			rl.DrawText(line, x+t.Padding, y, t.FontSize, t.LabelColor)
			y += t.LineHeight
		}
	}

	y += t.Padding
	gap := float32(menuWidth-2*buttonWidth) / 3
	if gui.Button(rl.Rectangle{X: float32(x) + gap, Y: float32(y), Width: buttonWidth, Height: buttonHeight}, "Retry") {
		return ActionRetry
	}
	if gui.Button(rl.Rectangle{X: float32(x) + 2*gap + buttonWidth, Y: float32(y), Width: buttonWidth, Height: buttonHeight}, "Main menu") {
		return ActionMainMenu
	}
	return ActionNone
}

// MainMenu is the title screen.
type MainMenu struct {
	renderer *Renderer
}

// NewMainMenu creates the title screen.
func NewMainMenu() *MainMenu {
	return &MainMenu{renderer: NewRenderer()}
}

// Draw renders the title screen for the named level and returns the button
// the player clicked this frame.
func (m *MainMenu) Draw(level string, screenW, screenH int32) Action {
	r := m.renderer
	t := r.Theme
	height := t.Padding*4 + 40 + t.LineHeight + 2*buttonHeight + 8
	x, y := r.Anchored(AnchorCenter, menuWidth, height, screenW, screenH)
	r.DrawPanel(x, y, menuWidth, height)

	y += t.Padding
	tw := rl.MeasureText("KLOD", 40)
	rl.DrawText("KLOD", x+(menuWidth-tw)/2, y, 40, t.SectionHeader)
	y += 40 + t.Padding

	sub := fmt.Sprintf("Level: %s", level)
	sw := rl.MeasureText(sub, t.FontSize)
	rl.DrawText(sub, x+(menuWidth-sw)/2, y, t.FontSize, t.LabelColor)
	y += t.LineHeight + t.Padding

	bx := float32(x + (menuWidth-buttonWidth)/2)
	if gui.Button(rl.Rectangle{X: bx, Y: float32(y), Width: buttonWidth, Height: buttonHeight}, "Play") {
		return ActionPlay
	}
	y += buttonHeight + 8
	if gui.Button(rl.Rectangle{X: bx, Y: float32(y), Width: buttonWidth, Height: buttonHeight}, "Quit") {
		return ActionQuit
	}
	return ActionNone
}
