package main

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/jwebster45206/token-hud/pkg/actor"
	"github.com/jwebster45206/token-hud/pkg/hud"
	"github.com/jwebster45206/token-hud/pkg/panel"
)

const (
	cardWidth = 32
	barWidth  = 20
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(cardWidth)

	friendBorder = lipgloss.Color("39")  // teal
	enemyBorder  = lipgloss.Color("196") // red

	nameStyle = lipgloss.NewStyle().Bold(true)

	hpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	ghostStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	rageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	effectStyles = map[hud.Effect]lipgloss.Style{
		hud.EffectUltimate: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Bold(true),
		hud.EffectShake:    lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("160")),
		hud.EffectHeal:     lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("78")),
		hud.EffectCast:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("63")),
		hud.EffectSurge:    lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("81")),
	}
)

// cardFace is what a terminal card shows. Both freshly rendered cards and
// patched cards reduce to it.
type cardFace struct {
	Name      string
	Category  hud.Category
	Obscured  bool
	Status    hud.Status
	Primary   hud.Meter
	Ghost     float64
	Secondary *hud.Meter
	Counter   *hud.CounterView
	Dead      bool
}

func faceFromCard(d hud.CardData) cardFace {
	return cardFace{
		Name:      d.Name,
		Category:  d.Category,
		Obscured:  d.Obscured,
		Status:    d.Status,
		Primary:   d.Primary,
		Ghost:     d.Primary.Percent,
		Secondary: d.Secondary,
		Counter:   d.Counter,
		Dead:      d.Dead,
	}
}

func faceFromPatch(category hud.Category, p hud.Patch) cardFace {
	f := cardFace{
		Name:     p.Name,
		Category: category,
		Obscured: p.Obscured,
		Status:   p.Status,
		Primary:  p.Primary.Meter,
		Ghost:    p.Primary.Ghost.Percent,
		Counter:  p.Counter,
		Dead:     p.Dead,
	}
	if p.Secondary != nil {
		m := p.Secondary.Meter
		f.Secondary = &m
	}
	return f
}

func meter(style lipgloss.Style, m hud.Meter, ghost float64) string {
	filled := int(m.Percent / 100 * barWidth)
	trail := max(0, int(ghost/100*barWidth)-filled)
	rest := max(0, barWidth-filled-trail)
	bar := style.Render(strings.Repeat("█", filled)) +
		ghostStyle.Render(strings.Repeat("▓", trail)) +
		dimStyle.Render(strings.Repeat("░", rest))
	if m.Text != "" {
		bar += " " + m.Text
	}
	return bar
}

func (f cardFace) render(effect hud.Effect, active bool) string {
	var b strings.Builder

	name := truncate.StringWithTail(f.Name, cardWidth-4, "…")
	b.WriteString(nameStyle.Render(name))
	if f.Dead {
		b.WriteString(" ✝")
	}
	b.WriteString("\n")
	if f.Obscured {
		b.WriteString(dimStyle.Render(f.Status.Label) + "\n")
	}
	b.WriteString(meter(hpStyle, f.Primary, f.Ghost) + "\n")
	if f.Secondary != nil {
		b.WriteString(meter(mpStyle, *f.Secondary, f.Secondary.Percent) + "\n")
	}
	if f.Counter != nil {
		var dots strings.Builder
		for _, on := range f.Counter.Dots {
			if on {
				dots.WriteString("●")
			} else {
				dots.WriteString("○")
			}
		}
		line := rageStyle.Render(dots.String())
		if f.Counter.Overload {
			line += rageStyle.Bold(true).Render(" OVERLOAD")
		}
		b.WriteString(line + "\n")
	}
	if s, ok := effectStyles[effect]; ok {
		b.WriteString(s.Render(" " + strings.ToUpper(string(effect)) + " "))
	}

	border := friendBorder
	if f.Category == hud.CategoryEnemy {
		border = enemyBorder
	}
	style := cardStyle.BorderForeground(border)
	if !active {
		style = style.Faint(true)
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

// termRenderer renders card and panel payloads as terminal text.
type termRenderer struct{}

var _ hud.Renderer = termRenderer{}

func (termRenderer) Render(ctx context.Context, template string, data any) (string, error) {
	switch template {
	case hud.CardTemplate:
		d, ok := data.(hud.CardData)
		if !ok {
			return "", fmt.Errorf("card template needs hud.CardData, got %T", data)
		}
		return faceFromCard(d).render(hud.EffectNone, true), nil
	case panel.PlayerTemplate:
		d, ok := data.(panel.Data)
		if !ok {
			return "", fmt.Errorf("player template needs panel.Data, got %T", data)
		}
		return renderPanel(d), nil
	default:
		return "", fmt.Errorf("%w: %s", hud.ErrUnknownTemplate, template)
	}
}

// termCard is one card node on the terminal surface.
type termCard struct {
	id        string
	container hud.Container
	markup    string
	face      *cardFace
	active    bool
	effect    hud.Effect
}

func (c *termCard) view() string {
	if c.face == nil {
		return c.markup
	}
	return c.face.render(c.effect, c.active)
}

// termSurface keeps the cards and the focal panel for the terminal view.
// Engine timers call it from other goroutines; the UI reads it on every frame.
type termSurface struct {
	mu         sync.Mutex
	cards      map[string]*termCard
	order      []string
	panel      string
	panelActor string
}

var (
	_ hud.Surface   = (*termSurface)(nil)
	_ panel.Surface = (*termSurface)(nil)
)

func newTermSurface() *termSurface {
	return &termSurface{cards: make(map[string]*termCard)}
}

func (s *termSurface) Insert(container hud.Container, id string, markup string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[id]; !ok {
		s.order = append(s.order, id)
	}
	s.cards[id] = &termCard{id: id, container: container, markup: markup}
	return nil
}

func (s *termSurface) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cards, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
}

func (s *termSurface) SetActive(id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cards[id]; ok {
		c.active = active
	}
}

func (s *termSurface) Apply(id string, p hud.Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok {
		return
	}
	category := hud.CategoryFriend
	if c.container == hud.ContainerEnemies {
		category = hud.CategoryEnemy
	}
	f := faceFromPatch(category, p)
	c.face = &f
}

// RestoreTransition has nothing to restore in a terminal: the ghost is
// redrawn at its new length on the next frame.
func (s *termSurface) RestoreTransition(id string, bar hud.Bar) {}

func (s *termSurface) PlayEffect(id string, e hud.Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cards[id]; ok {
		c.effect = e
	}
}

func (s *termSurface) ClearEffect(id string, e hud.Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cards[id]; ok && c.effect == e {
		c.effect = hud.EffectNone
	}
}

func (s *termSurface) ShowPanel(actorID string, markup string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panel = markup
	s.panelActor = actorID
	return nil
}

func (s *termSurface) HidePanel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panel = ""
	s.panelActor = ""
}

// Column renders the cards of one container in insertion order.
func (s *termSurface) Column(container hud.Container) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var views []string
	for _, id := range s.order {
		if c := s.cards[id]; c.container == container {
			views = append(views, c.view())
		}
	}
	if len(views) == 0 {
		return dimStyle.Render("(none)")
	}
	return lipgloss.JoinVertical(lipgloss.Left, views...)
}

// Panel returns the focal panel text and the actor it shows.
func (s *termSurface) Panel() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panel, s.panelActor
}

// Card returns the current view of one card.
func (s *termSurface) Card(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok {
		return "", false
	}
	return c.view(), true
}

// renderPanel lays out the focal panel.
func renderPanel(d panel.Data) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.Name))
	if d.RealmName != "" {
		b.WriteString(dimStyle.Render(" · " + d.RealmName))
	}
	b.WriteString("\n\n")

	b.WriteString(meter(hpStyle, hud.Meter{Percent: d.HP.Percent, Text: hud.FormatValue(d.HP.Value) + "/" + hud.FormatValue(d.HP.Max)}, d.HP.Percent) + "\n")
	b.WriteString(meter(mpStyle, hud.Meter{Percent: d.MP.Percent, Text: hud.FormatValue(d.MP.Value) + "/" + hud.FormatValue(d.MP.Max)}, d.MP.Percent) + "\n")
	if d.Huti > 0 {
		b.WriteString(fmt.Sprintf("Shield %s (%.0f%%)\n", hud.FormatValue(d.Huti), d.HutiPercent))
	}
	b.WriteString(fmt.Sprintf("Rage %d/%d  Element %s\n", d.Rage.Value, actor.MaxRage, d.Element))
	if d.Stance != nil {
		b.WriteString("Stance " + d.Stance.Name + "\n")
	}

	if d.Collapsed {
		return b.String()
	}

	if len(d.Stats) > 0 {
		var parts []string
		for _, s := range d.Stats {
			parts = append(parts, fmt.Sprintf("%s %d", s.Label, s.Value))
		}
		b.WriteString("\n" + strings.Join(parts, "  ") + "\n")
	}

	if len(d.Shortcuts) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Shortcuts") + "\n")
		for i, sc := range d.Shortcuts {
			b.WriteString(fmt.Sprintf("%d. %s · %s\n", i+1, sc.ItemName, sc.MoveName))
		}
	}
	if len(d.Consumables) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Consumables") + "\n")
		for _, e := range d.Consumables {
			b.WriteString(fmt.Sprintf("• %s x%d\n", e.Name, e.Quantity))
		}
	}
	if len(d.Equipment) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Equipment") + "\n")
		for _, g := range d.Equipment {
			if g.Collapsed {
				b.WriteString(fmt.Sprintf("%s ▸ %d\n", g.Label, len(g.Items)))
				continue
			}
			var names []string
			for _, e := range g.Items {
				name := e.Name
				if e.Equipped {
					name += "*"
				}
				if e.Acupoint != "" {
					name += " @" + e.Acupoint
				}
				names = append(names, name)
			}
			b.WriteString(fmt.Sprintf("%s: %s\n", g.Label, strings.Join(names, ", ")))
		}
	}
	if len(d.Skills) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Skills") + "\n")
		for _, g := range d.Skills {
			var parts []string
			for _, s := range g.Skills {
				parts = append(parts, fmt.Sprintf("%s %d", s.Label, s.Value))
			}
			b.WriteString(fmt.Sprintf("%s %d: %s\n", g.Label, g.Value.Value, strings.Join(parts, ", ")))
		}
	}
	if len(d.Arts) > 0 {
		var parts []string
		for _, a := range d.Arts {
			parts = append(parts, fmt.Sprintf("%s %d", a.Label, a.Value))
		}
		b.WriteString("\n" + sectionStyle.Render("Arts") + "\n" + strings.Join(parts, ", ") + "\n")
	}
	return b.String()
}
