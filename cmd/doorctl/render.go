package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cory-johannsen/doorgame/internal/game/activity"
	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/world"
	"github.com/cory-johannsen/doorgame/internal/gameserver"
)

const (
	glyphSelf = "@"
	glyphHole = " "
	// glyphUnknown marks a cell whose terrain has no glyph.
	glyphUnknown = "?"
)

func renderCharacter(out io.Writer, c *character.Character) {
	fmt.Fprintf(out, "#%d %s (level %d, %s)\n", c.ID, c.Handle, c.Level, c.Gender)
	fmt.Fprintf(out, "  HP %d/%d  Str %d  Def %d  Gold %d  Gems %d  Exp %d\n",
		c.HitPoints, c.HitPointsMax, c.Strength, c.Defense, c.Gold, c.Gem, c.Experience)
	fmt.Fprintf(out, "  Fights %d  Human fights %d\n", c.FightsLeft, c.HumanFightsLeft)
}

// renderMap draws the grid with the viewer's cell marked.
func renderMap(out io.Writer, wm *world.Manager, g *world.Grid, here *world.Cell) {
	for _, row := range g.Layout() {
		var b strings.Builder
		for _, c := range row {
			b.WriteString(cellGlyph(wm, c, here))
		}
		fmt.Fprintln(out, strings.TrimRight(b.String(), " "))
	}
}

func cellGlyph(wm *world.Manager, c, here *world.Cell) string {
	switch {
	case c == nil:
		return glyphHole
	case here != nil && c.ID == here.ID:
		return glyphSelf
	}
	t, ok := wm.Terrain(c)
	if !ok || t.Glyph == "" {
		return glyphUnknown
	}
	return t.Glyph
}

func renderView(out io.Writer, wm *world.Manager, v *gameserver.View) {
	c := v.Character
	fmt.Fprintf(out, "%s [%s]\n", c.Handle, v.Status)
	fmt.Fprintf(out, "HP %d/%d (%s)  Fights %d (%s)  Human fights %d (%s)\n",
		c.HitPoints, c.HitPointsMax, v.HP.Level,
		c.FightsLeft, v.Fights.Level,
		c.HumanFightsLeft, v.HumanFights.Level)
	if v.Weapon != nil && v.Armor != nil {
		fmt.Fprintf(out, "Wielding %s, wearing %s\n", v.Weapon.Name, v.Armor.Name)
	}

	where := v.Cell.String()
	if v.Terrain != nil {
		where = fmt.Sprintf("%s (%s)", where, v.Terrain.Name)
	}
	if v.Grid != nil {
		fmt.Fprintf(out, "%s, %s\n", v.Grid.Name, where)
		renderMap(out, wm, v.Grid, v.Cell)
	} else {
		fmt.Fprintln(out, where)
	}
	if v.Cell.Safe {
		fmt.Fprintln(out, "This is a no-fight zone.")
	}

	var exits []string
	for _, e := range v.Exits {
		if e.Passable {
			exits = append(exits, e.Direction.Name())
		}
	}
	if len(exits) == 0 {
		fmt.Fprintln(out, "There is no way out of here.")
	} else {
		fmt.Fprintf(out, "You can travel %s.\n", strings.Join(exits, ", "))
	}

	if len(v.Nearby) == 0 {
		fmt.Fprintln(out, "You are alone here.")
		return
	}
	fmt.Fprintln(out, "Also here:")
	for _, n := range v.Nearby {
		fmt.Fprintf(out, "  #%d %s (level %d) %s\n", n.ID, n.Handle, n.Level, n.Status)
	}
}

func renderInbox(out io.Writer, entries []activity.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "Nothing new.")
		return
	}
	for _, e := range entries {
		mark := " "
		if !e.Viewed {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %s [%s] %s\n", mark, e.CreatedAt.Format("15:04:05"), e.Category.Label(), e.Message)
	}
}
