package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/token-hud/pkg/actor"
	"github.com/jwebster45206/token-hud/pkg/hud"
	"github.com/jwebster45206/token-hud/pkg/panel"
	"github.com/jwebster45206/token-hud/pkg/scene"
)

const (
	frameInterval = 50 * time.Millisecond
	logLines      = 5
	step          = 10
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("205")).
			Bold(true)

	columnStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Attack   key.Binding
	Damage   key.Binding
	Heal     key.Binding
	Cast     key.Binding
	Restore  key.Binding
	Rage     key.Binding
	Ultimate key.Binding
	Hide     key.Binding
	Combat   key.Binding
	Only     key.Binding
	Round    key.Binding
	End      key.Binding
	Collapse key.Binding
	Copy     key.Binding
	Equip    key.Binding
	Use      key.Binding
	Quantity key.Binding
	Move     key.Binding
	Stance   key.Binding
	Group    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Attack, k.Damage, k.Heal, k.Cast, k.Ultimate, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Collapse, k.Group, k.Copy},
		{k.Equip, k.Use, k.Quantity, k.Move, k.Stance},
		{k.Attack, k.Damage, k.Heal, k.Cast, k.Restore},
		{k.Rage, k.Ultimate, k.Hide, k.Combat},
		{k.Only, k.Round, k.End, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next token")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev token")),
	Attack:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "attack")),
	Damage:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "damage")),
	Heal:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "heal")),
	Cast:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "spend mp")),
	Restore:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "restore mp")),
	Rage:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "build rage")),
	Ultimate: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "ultimate")),
	Hide:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "toggle hidden")),
	Combat:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "toggle combatant")),
	Only:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "only combatants")),
	Round:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next round")),
	End:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end combat")),
	Collapse: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "collapse panel")),
	Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy shortcut")),
	Equip:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "equip/unequip")),
	Use:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "use item")),
	Quantity: key.NewBinding(key.WithKeys("#"), key.WithHelp("#", "edit quantity")),
	Move:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "use pinned move")),
	Stance:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle stance")),
	Group:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "collapse group")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// sceneRef is the live scene. A file reload swaps it.
type sceneRef struct {
	mu sync.RWMutex
	sc *scene.Scene
}

func (r *sceneRef) Get() *scene.Scene {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sc
}

func (r *sceneRef) Set(sc *scene.Scene) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sc = sc
}

func (r *sceneRef) Source() hud.WorldSource {
	return func(ctx context.Context) (hud.World, error) {
		return r.Get(), nil
	}
}

func (r *sceneRef) OnlyCombatants(ctx context.Context) (bool, error) {
	return r.Get().OnlyCombatants(ctx)
}

// dispatcher hands events to the router one at a time.
type dispatcher struct {
	mu     sync.Mutex
	router *hud.Router
}

func (d *dispatcher) dispatch(ev hud.Event) tea.Cmd {
	return func() tea.Msg {
		d.mu.Lock()
		defer d.mu.Unlock()
		return handledMsg{ev: ev, err: d.router.Handle(context.Background(), ev)}
	}
}

type handledMsg struct {
	ev  hud.Event
	err error
}

type frameMsg struct{}

type reloadMsg struct {
	file *scene.File
}

type watchErrMsg struct {
	err error
}

// ConsoleUI is the BubbleTea model that runs the UI.
type ConsoleUI struct {
	ref        *sceneRef
	dispatcher *dispatcher
	engine     *hud.Engine
	controller *panel.Controller
	surface    *termSurface
	sim        *simulator
	rng        *rand.Rand
	viewer     hud.Viewer

	panelViewport viewport.Model
	help          help.Model
	prompt        *picker
	quantity      *quantityInput

	selected int
	log      []string
	width    int
	height   int
}

func NewConsoleUI(ref *sceneRef, d *dispatcher, engine *hud.Engine, controller *panel.Controller,
	surface *termSurface, sim *simulator, rng *rand.Rand, viewer hud.Viewer) ConsoleUI {
	vp := viewport.New(40, 20)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		ref:           ref,
		dispatcher:    d,
		engine:        engine,
		controller:    controller,
		surface:       surface,
		sim:           sim,
		rng:           rng,
		viewer:        viewer,
		panelViewport: vp,
		help:          help.New(),
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func (m ConsoleUI) Init() tea.Cmd {
	sc := m.ref.Get()
	return tea.Batch(m.dispatcher.dispatch(sc.Ready()), m.selectCmd(), frameTick())
}

// tokens lists the selectable tokens: those with an owner record.
func (m ConsoleUI) tokens() []*actor.Token {
	var out []*actor.Token
	for _, t := range m.ref.Get().Tokens() {
		if t.ActorID != "" {
			out = append(out, t)
		}
	}
	return out
}

func (m ConsoleUI) current() (*actor.Token, bool) {
	toks := m.tokens()
	if len(toks) == 0 {
		return nil, false
	}
	return toks[m.selected%len(toks)], true
}

func (m ConsoleUI) selectCmd() tea.Cmd {
	tok, ok := m.current()
	if !ok {
		return nil
	}
	return m.dispatcher.dispatch(m.ref.Get().Select(tok.ID))
}

func (m *ConsoleUI) logf(format string, args ...any) {
	m.log = append(m.log, fmt.Sprintf(format, args...))
	if len(m.log) > logLines {
		m.log = m.log[len(m.log)-logLines:]
	}
}

// mutate applies a scene change to the selected token's owner record.
func (m *ConsoleUI) mutate(label string, fn func(sc *scene.Scene, tok *actor.Token) (hud.Event, error)) tea.Cmd {
	tok, ok := m.current()
	if !ok {
		return nil
	}
	ev, err := fn(m.ref.Get(), tok)
	if err != nil {
		m.logf("%s: %v", label, err)
		return nil
	}
	m.logf("%s: %s", tok.Name, label)
	return m.dispatcher.dispatch(ev)
}

func (m *ConsoleUI) attack() tea.Cmd {
	tok, ok := m.current()
	if !ok {
		return nil
	}
	sc := m.ref.Get()
	var targets []*actor.Token
	for _, t := range sc.Tokens() {
		if t.ActorID == "" || t.ActorID == tok.ActorID || t.Hidden {
			continue
		}
		if t.Disposition.IsHostile() != tok.Disposition.IsHostile() {
			targets = append(targets, t)
		}
	}
	if len(targets) == 0 {
		m.logf("%s has nobody to attack", tok.Name)
		return nil
	}
	target := targets[m.rng.IntN(len(targets))]

	res, err := m.sim.strike(sc, tok.ActorID, target.ActorID)
	if err != nil {
		m.logf("attack: %v", err)
		return nil
	}
	m.logf("%s attacks %s: %s", tok.Name, target.Name, res)
	if !res.Hit {
		return nil
	}
	return m.dispatcher.dispatch(res.Event)
}

func (m *ConsoleUI) copyShortcut() {
	tok, ok := m.current()
	if !ok {
		return
	}
	a, ok := m.ref.Get().Actor(tok.ActorID)
	if !ok {
		return
	}
	d := panel.Build(tok, a, panel.Labels{})
	if len(d.Shortcuts) == 0 {
		m.logf("%s has no pinned moves", tok.Name)
		return
	}
	ref := d.Shortcuts[0].Ref
	if err := clipboard.WriteAll(ref); err != nil {
		m.logf("copy failed: %v", err)
		return
	}
	m.logf("copied %s", ref)
}

// focus returns the selected token and its owner record if the viewer may
// act on it.
func (m *ConsoleUI) focus() (*actor.Token, *actor.Actor, bool) {
	tok, ok := m.current()
	if !ok {
		return nil, nil, false
	}
	a, ok := m.ref.Get().Actor(tok.ActorID)
	if !ok {
		return nil, nil, false
	}
	if !a.IsOwner(m.viewer.UserID, m.viewer.IsGM) {
		m.logf("%s is not yours to command", tok.Name)
		return nil, nil, false
	}
	return tok, a, true
}

func (m *ConsoleUI) openPicker(kind promptKind, title, empty string, options []option) {
	if len(options) == 0 {
		m.logf("%s", empty)
		return
	}
	m.prompt = newPicker(kind, title, options)
}

func (m *ConsoleUI) openEquip() {
	tok, a, ok := m.focus()
	if !ok {
		return
	}
	var options []option
	for _, g := range panel.Build(tok, a, panel.Labels{}).Equipment {
		for _, e := range g.Items {
			label := e.Name
			if e.Equipped {
				label += " (worn"
				if e.Acupoint != "" {
					label += " @" + e.Acupoint
				}
				label += ")"
			}
			options = append(options, option{label: label, value: e.ID})
		}
	}
	m.openPicker(promptEquip, "Equip", tok.Name+" has no equipment", options)
}

func (m *ConsoleUI) openConsumables(kind promptKind, title string) {
	tok, a, ok := m.focus()
	if !ok {
		return
	}
	var options []option
	for _, e := range panel.Build(tok, a, panel.Labels{}).Consumables {
		options = append(options, option{label: fmt.Sprintf("%s x%d", e.Name, e.Quantity), value: e.ID})
	}
	m.openPicker(kind, title, tok.Name+" carries no consumables", options)
}

func (m *ConsoleUI) openMoves() {
	tok, a, ok := m.focus()
	if !ok {
		return
	}
	var options []option
	for _, sh := range panel.Build(tok, a, panel.Labels{}).Shortcuts {
		options = append(options, option{label: sh.ItemName + ": " + sh.MoveName, value: sh.Ref})
	}
	m.openPicker(promptMove, "Use move", tok.Name+" has no pinned moves", options)
}

// toggleStance leaves an active stance, or offers the known stances.
func (m *ConsoleUI) toggleStance() tea.Cmd {
	tok, a, ok := m.focus()
	if !ok {
		return nil
	}
	if a.Martial.StanceActive {
		return m.mutate("leaves the stance", func(sc *scene.Scene, t *actor.Token) (hud.Event, error) {
			return sc.StopStance(t.ActorID)
		})
	}
	var options []option
	for _, ref := range a.StanceMoves() {
		itemID, moveID, _ := actor.ParsePinned(ref)
		item, _ := a.Item(itemID)
		move, _ := item.Move(moveID)
		options = append(options, option{label: item.Name + ": " + move.Name, value: ref})
	}
	m.openPicker(promptStance, "Stance", tok.Name+" knows no stance", options)
	return nil
}

func (m *ConsoleUI) openGroups() {
	tok, a, ok := m.focus()
	if !ok {
		return
	}
	var options []option
	for _, g := range panel.Build(tok, a, panel.Labels{}).Equipment {
		label := g.Label
		if m.controller.GroupCollapsed(g.Key) {
			label += " (collapsed)"
		}
		options = append(options, option{label: label, value: g.Key})
	}
	m.openPicker(promptGroup, "Equipment group", tok.Name+" has no equipment", options)
}

// equip toggles an item. Putting on a qizhen first asks for a free acupoint.
func (m *ConsoleUI) equip(itemID string) tea.Cmd {
	tok, a, ok := m.focus()
	if !ok {
		return nil
	}
	item, ok := a.Item(itemID)
	if !ok {
		m.logf("equip: %v", actor.ErrItemNotFound)
		return nil
	}
	if item.Type == actor.ItemQizhen && !item.Equipped {
		var options []option
		for _, point := range a.AvailableAcupoints() {
			options = append(options, option{label: point, value: point})
		}
		m.openPicker(promptAcupoint, "Acupoint for "+item.Name, tok.Name+" has no free acupoint", options)
		if m.prompt != nil {
			m.prompt.itemID = itemID
		}
		return nil
	}
	label := "puts on " + item.Name
	if item.Equipped {
		label = "takes off " + item.Name
	}
	return m.mutate(label, func(sc *scene.Scene, t *actor.Token) (hud.Event, error) {
		return sc.ToggleEquip(t.ActorID, itemID, "")
	})
}

func (m *ConsoleUI) renderPanel() tea.Cmd {
	return func() tea.Msg {
		return handledMsg{err: m.controller.Render(context.Background())}
	}
}

func (m ConsoleUI) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.prompt
	choice, done, ok := p.update(msg)
	if !done {
		return m, nil
	}
	m.prompt = nil
	if !ok {
		m.logf("%s cancelled", p.title)
		return m, nil
	}

	switch p.kind {
	case promptEquip:
		return m, m.equip(choice.value)
	case promptAcupoint:
		return m, m.mutate("seats a qizhen at "+choice.value, func(sc *scene.Scene, t *actor.Token) (hud.Event, error) {
			return sc.ToggleEquip(t.ActorID, p.itemID, choice.value)
		})
	case promptUseItem:
		return m, m.mutate("uses "+choice.label, func(sc *scene.Scene, t *actor.Token) (hud.Event, error) {
			return sc.UseItem(t.ActorID, choice.value)
		})
	case promptQuantity:
		if _, a, ok := m.focus(); ok {
			if item, ok := a.Item(choice.value); ok {
				m.quantity = newQuantityInput(item.ID, item.Name, item.Quantity)
			}
		}
		return m, nil
	case promptMove, promptStance:
		itemID, moveID, _ := actor.ParsePinned(choice.value)
		if p.kind == promptStance {
			return m, m.mutate("takes a stance", func(sc *scene.Scene, t *actor.Token) (hud.Event, error) {
				return sc.SetStance(t.ActorID, itemID, moveID)
			})
		}
		return m, m.mutate("uses "+choice.label, func(sc *scene.Scene, t *actor.Token) (hud.Event, error) {
			return sc.UseMove(t.ActorID, itemID, moveID)
		})
	case promptGroup:
		m.controller.ToggleGroup(choice.value)
		return m, m.renderPanel()
	}
	return m, nil
}

func (m ConsoleUI) updateQuantity(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.quantity
	n, done, ok, err := q.update(msg)
	if !done {
		return m, nil
	}
	m.quantity = nil
	switch {
	case err != nil:
		m.logf("quantity rejected: %v", err)
		return m, nil
	case !ok:
		m.logf("quantity cancelled")
		return m, nil
	}
	return m, m.mutate(fmt.Sprintf("has %d %s", n, q.name), func(sc *scene.Scene, t *actor.Token) (hud.Event, error) {
		return sc.SetItemQuantity(t.ActorID, q.itemID, n)
	})
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.panelViewport.Width = max(20, m.width-2*(cardWidth+6)-4)
		m.panelViewport.Height = max(5, m.height-logLines-6)
		return m, nil

	case frameMsg:
		content, _ := m.surface.Panel()
		if content == "" {
			content = separatorStyle.Render("Select a token you own to see its panel.")
		}
		m.panelViewport.SetContent(wordwrap.String(content, m.panelViewport.Width))
		return m, frameTick()

	case handledMsg:
		if msg.err != nil {
			m.logf("%s failed: %v", msg.ev.Kind, msg.err)
		}
		return m, nil

	case reloadMsg:
		sc, err := scene.FromFile(msg.file)
		if err != nil {
			m.logf("reload rejected: %v", err)
			return m, nil
		}
		sim, err := newSimulator(sc, m.rng)
		if err != nil {
			m.logf("reload rejected: %v", err)
			return m, nil
		}
		m.ref.Set(sc)
		m.sim = sim
		m.selected = 0
		m.logf("scene reloaded")
		return m, tea.Batch(m.dispatcher.dispatch(sc.Ready()), m.selectCmd())

	case watchErrMsg:
		m.logf("watch: %v", msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.panelViewport, cmd = m.panelViewport.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quantity != nil {
		return m.updateQuantity(msg)
	}
	if m.prompt != nil {
		return m.updatePrompt(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Next):
		m.selected++
		return m, m.selectCmd()
	case key.Matches(msg, keys.Prev):
		if n := len(m.tokens()); n > 0 {
			m.selected = (m.selected + n - 1) % n
		}
		return m, m.selectCmd()
	case key.Matches(msg, keys.Attack):
		return m, m.attack()
	case key.Matches(msg, keys.Damage):
		return m, m.mutate("takes damage", func(sc *scene.Scene, t *actor.Token) (hud.Event, error) {
			return sc.Damage(t.ActorID, step)
		})
	case key.Matches(msg, keys.Heal):
		return m, m.mutate("is healed", func(sc *scene.Scene, t *actor.Token) (hud.Event, error) {
			return sc.Heal(t.ActorID, step)
		})
	case key.Matches(msg, keys.Cast):
		return m, m.mutate("casts", func(sc *scene.Scene, t *actor.Token) (hud.Event, error) {
			return sc.SpendMP(t.ActorID, step/2)
		})
	case key.Matches(msg, keys.Restore):
		return m, m.mutate("recovers mp", func(sc *scene.Scene, t *actor.Token) (hud.Event, error) {
			return sc.RestoreMP(t.ActorID, step/2)
		})
	case key.Matches(msg, keys.Rage):
		return m, m.mutate("builds rage", func(sc *scene.Scene, t *actor.Token) (hud.Event, error) {
			return sc.AddRage(t.ActorID, 1)
		})
	case key.Matches(msg, keys.Ultimate):
		return m, m.mutate("unleashes", func(sc *scene.Scene, t *actor.Token) (hud.Event, error) {
			return sc.AddRage(t.ActorID, -actor.MaxRage)
		})
	case key.Matches(msg, keys.Hide):
		return m, m.mutate("toggles hidden", func(sc *scene.Scene, t *actor.Token) (hud.Event, error) {
			return sc.SetHidden(t.ID, !t.Hidden)
		})
	case key.Matches(msg, keys.Combat):
		return m, m.mutate("toggles combat", func(sc *scene.Scene, t *actor.Token) (hud.Event, error) {
			if sc.InCombat(t.ID) {
				return sc.RemoveCombatant(t.ID)
			}
			return sc.AddCombatant(t.ID)
		})
	case key.Matches(msg, keys.Only):
		sc := m.ref.Get()
		only, _ := sc.OnlyCombatants(context.Background())
		m.logf("only combatants: %t", !only)
		return m, m.dispatcher.dispatch(sc.SetOnlyCombatants(!only))
	case key.Matches(msg, keys.Round):
		sc := m.ref.Get()
		ev := sc.NextRound()
		m.logf("round %d", sc.Round())
		return m, m.dispatcher.dispatch(ev)
	case key.Matches(msg, keys.End):
		m.logf("combat ended")
		return m, m.dispatcher.dispatch(m.ref.Get().EndCombat())
	case key.Matches(msg, keys.Collapse):
		m.controller.SetCollapsed(!m.controller.Collapsed())
		return m, m.renderPanel()
	case key.Matches(msg, keys.Copy):
		m.copyShortcut()
		return m, nil
	case key.Matches(msg, keys.Equip):
		m.openEquip()
		return m, nil
	case key.Matches(msg, keys.Use):
		m.openConsumables(promptUseItem, "Use item")
		return m, nil
	case key.Matches(msg, keys.Quantity):
		m.openConsumables(promptQuantity, "Edit quantity")
		return m, nil
	case key.Matches(msg, keys.Move):
		m.openMoves()
		return m, nil
	case key.Matches(msg, keys.Stance):
		return m, m.toggleStance()
	case key.Matches(msg, keys.Group):
		m.openGroups()
		return m, nil
	}

	var cmd tea.Cmd
	m.panelViewport, cmd = m.panelViewport.Update(msg)
	return m, cmd
}

func (m ConsoleUI) View() string {
	if m.width == 0 {
		return "\n  Initializing..."
	}

	sc := m.ref.Get()
	header := titleStyle.Render(strings.ToUpper(sc.Name()))
	if r := sc.Round(); r > 0 {
		header += separatorStyle.Render(fmt.Sprintf("  round %d", r))
	}
	header += separatorStyle.Render(fmt.Sprintf("  %d cards", len(m.engine.CardIDs())))
	if m.viewer.IsGM {
		header += separatorStyle.Render("  (GM)")
	}
	if tok, ok := m.current(); ok {
		header += "  " + selectedStyle.Render(" "+tok.Name+" ")
	}

	friends := columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Allies"), m.surface.Column(hud.ContainerFriends)))
	enemies := columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Enemies"), m.surface.Column(hud.ContainerEnemies)))
	panelCol := columnStyle.Render(m.panelViewport.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, friends, enemies, panelCol)

	var logView strings.Builder
	for _, line := range m.log {
		style := separatorStyle
		if strings.Contains(line, "failed") || strings.Contains(line, "rejected") {
			style = errorStyle
		}
		logView.WriteString(style.Render(line) + "\n")
	}

	footer := m.help.View(keys)
	switch {
	case m.quantity != nil:
		footer = m.quantity.view()
	case m.prompt != nil:
		footer = m.prompt.view()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		separatorStyle.Render(strings.Repeat("─", max(0, m.width-2))),
		logView.String(),
		footer,
	)
}
