package panel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/token-hud/pkg/actor"
)

const (
	// tooltipWidth is the wrap column of tooltip text.
	tooltipWidth = 40
	// moveDescriptionLimit caps move descriptions so tooltips stay small.
	moveDescriptionLimit = 120
)

var (
	breakTags  = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockClose = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|ul|ol)>`)
	anyTag     = regexp.MustCompile(`<[^>]+>`)
	blankLines = regexp.MustCompile(`\n{3,}`)
	entities   = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">")
)

// CleanRichText turns rich-text markup into plain text, keeping line breaks.
func CleanRichText(s string) string {
	if s == "" {
		return ""
	}
	s = breakTags.ReplaceAllString(s, "\n")
	s = blockClose.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, "")
	s = entities.Replace(s)
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// limit truncates s to n printable cells, marking the cut with an ellipsis.
func limit(s string, n int) string {
	if ansi.PrintableRuneWidth(s) <= n {
		return s
	}
	return truncate.String(s, uint(n)) + "..."
}

func wrap(s string) string {
	return wordwrap.String(s, tooltipWidth)
}

// MoveTooltip is the plain-text tooltip for a move taught by item.
func MoveTooltip(item *actor.Item, move *actor.Move, labels Localizer) string {
	var b strings.Builder

	header := move.Name
	if move.Type != "" {
		header += " [" + labels.Localize(labelKey("Wuxue.Type", move.Type)) + "]"
	}
	b.WriteString(header)
	b.WriteString("\n")

	level := "?"
	if move.Level > 0 {
		level = fmt.Sprintf("Lv.%d", move.Level)
	}
	b.WriteString(item.Name + " · " + level)
	if move.Range != "" {
		b.WriteString(" · " + move.Range)
	}
	b.WriteString("\n")

	if line := costLine(move.Cost); line != "" {
		b.WriteString(line + "\n")
	}
	if move.Damage > 0 {
		fmt.Fprintf(&b, "Damage: %d\n", move.Damage)
	}
	if desc := CleanRichText(move.Description); desc != "" {
		b.WriteString(wrap(limit(desc, moveDescriptionLimit)) + "\n")
	}
	if note := CleanRichText(move.AutomationNote); note != "" {
		b.WriteString("Auto: " + wrap(note) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// ItemTooltip is the plain-text tooltip for a carried item. Item descriptions
// are never truncated.
func ItemTooltip(item *actor.Item) string {
	var b strings.Builder

	b.WriteString(item.Name)
	if item.Quantity > 1 {
		fmt.Fprintf(&b, " x%d", item.Quantity)
	}
	b.WriteString("\n")

	if desc := CleanRichText(item.Description); desc != "" {
		b.WriteString(wrap(desc) + "\n")
	} else {
		b.WriteString("(no description)\n")
	}
	if note := CleanRichText(item.AutomationNote); note != "" {
		b.WriteString("Auto: " + wrap(note) + "\n")
	}

	action := "use"
	if item.IsEquipment() {
		action = "equip/unequip"
	}
	b.WriteString("Click to " + action)
	return b.String()
}

func costLine(c actor.Cost) string {
	if c.IsZero() {
		return ""
	}
	var parts []string
	if c.MP != 0 {
		parts = append(parts, fmt.Sprintf("MP %d", c.MP))
	}
	if c.Rage != 0 {
		parts = append(parts, fmt.Sprintf("Rage %d", c.Rage))
	}
	if c.HP != 0 {
		parts = append(parts, fmt.Sprintf("HP %d", c.HP))
	}
	return strings.Join(parts, "  ")
}
