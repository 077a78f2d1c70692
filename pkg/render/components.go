package render

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/jwebster45206/token-hud/pkg/hud"
	"github.com/jwebster45206/token-hud/pkg/panel"
)

// Container is the overlay root holding the friend and enemy groups.
func Container() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<div id="hud-root">`)
		h.raw(`<div class="hud-group" id="`, string(hud.ContainerFriends), `"></div>`)
		h.raw(`<div class="hud-group" id="`, string(hud.ContainerEnemies), `"></div>`)
		h.raw(`</div>`)
		return h.err
	})
}

// Card is one token's HUD card.
func Card(d hud.CardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		mode := "mode-exact"
		if d.Obscured {
			mode = "mode-obscured"
		}
		dead := ""
		if d.Dead {
			dead = "dead"
		}

		h.raw(`<div class="`, esc(classes("hud-card", string(d.Category), mode, dead)), `" data-token-id="`, esc(d.ID), `">`)
		h.raw(`<div class="hud-avatar"><img src="`, esc(d.Avatar), `" alt=""></div>`)
		h.raw(`<div class="hud-name">`)
		h.text(d.Name)
		h.raw(`</div>`)
		h.raw(`<div class="hud-status `, esc(d.Status.Class), `">`)
		h.text(d.Status.Label)
		h.raw(`</div>`)

		bar(h, "hp", d.Primary)
		if d.Secondary != nil {
			bar(h, "mp", *d.Secondary)
		}
		if d.Counter != nil {
			counter(h, *d.Counter)
		}

		h.raw(`<div class="ultimate-cutin"><img src="`, esc(d.Art), `" alt=""></div>`)
		h.raw(`</div>`)
		return h.err
	})
}

func bar(h *html, kind string, m hud.Meter) {
	h.raw(`<div class="hud-bar `, kind, `">`)
	h.raw(`<div class="bar-ghost" style="width:`, pct(m.Percent), `"></div>`)
	h.raw(`<div class="bar-fill" style="width:`, pct(m.Percent), `"></div>`)
	if m.Text != "" {
		h.raw(`<span class="bar-text">`)
		h.text(m.Text)
		h.raw(`</span>`)
	}
	h.raw(`</div>`)
}

func counter(h *html, c hud.CounterView) {
	overload := ""
	if c.Overload {
		overload = "overload"
	}
	h.raw(`<div class="`, classes("hud-rage", overload), `" style="--overload:`,
		strconv.FormatFloat(c.Intensity, 'f', 3, 64), `">`)
	for _, on := range c.Dots {
		if on {
			h.raw(`<span class="rage-dot active"></span>`)
		} else {
			h.raw(`<span class="rage-dot"></span>`)
		}
	}
	h.raw(`</div>`)
}

// Player is the focal-entity panel.
func Player(d panel.Data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		collapsed := ""
		if d.Collapsed {
			collapsed = "collapsed"
		}

		h.raw(`<section id="hud-player" class="`, classes("hud-player", collapsed), `" data-actor-id="`, esc(d.ActorID), `">`)
		h.raw(`<header><img src="`, esc(d.Img), `" alt=""><span class="name">`)
		h.text(d.Name)
		h.raw(`</span><span class="realm">`)
		h.text(d.RealmName)
		h.raw(`</span><span class="element element-`, esc(d.Element), `"></span></header>`)

		h.raw(`<div class="pools">`)
		pool(h, "hp", d.HP)
		h.raw(`<div class="huti" style="width:`, pct(d.HutiPercent), `"></div>`)
		pool(h, "mp", d.MP)
		counter(h, d.Rage)
		h.raw(`</div>`)

		h.raw(`<ul class="stats">`)
		for _, s := range d.Stats {
			h.raw(`<li data-key="`, esc(s.Key), `">`)
			h.text(s.Label)
			h.raw(` <b>`, strconv.Itoa(s.Value), `</b></li>`)
		}
		h.raw(`</ul>`)

		if d.Stance != nil {
			h.raw(`<div class="stance" data-item-id="`, esc(d.Stance.ItemID), `" title="`, esc(d.Stance.Tooltip), `">`)
			h.text(d.Stance.Name)
			h.raw(`</div>`)
		}

		h.raw(`<ul class="shortcuts">`)
		for _, s := range d.Shortcuts {
			h.raw(`<li data-ref="`, esc(s.Ref), `" title="`, esc(s.Tooltip), `">`)
			h.text(s.MoveName)
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)

		h.raw(`<ul class="consumables">`)
		for _, c := range d.Consumables {
			entry(h, c)
		}
		h.raw(`</ul>`)

		for _, g := range d.Equipment {
			groupCollapsed := ""
			if g.Collapsed {
				groupCollapsed = "collapsed"
			}
			h.raw(`<div class="`, classes("equip-group", groupCollapsed), `" data-slot="`, esc(g.Key), `"><h4>`)
			h.text(g.Label)
			h.raw(`</h4><ul>`)
			for _, item := range g.Items {
				entry(h, item)
			}
			h.raw(`</ul></div>`)
		}

		for _, g := range d.Skills {
			h.raw(`<div class="skill-group" data-stat="`, esc(g.Key), `"><h4>`)
			h.text(g.Label)
			h.raw(` <b>`, strconv.Itoa(g.Value.Value), `</b></h4><ul>`)
			for _, s := range g.Skills {
				h.raw(`<li>`)
				h.text(s.Label)
				h.raw(` <b>`, strconv.Itoa(s.Value), `</b></li>`)
			}
			h.raw(`</ul></div>`)
		}

		if len(d.Arts) > 0 {
			h.raw(`<ul class="arts">`)
			for _, a := range d.Arts {
				h.raw(`<li>`)
				h.text(a.Label)
				h.raw(` <b>`, strconv.Itoa(a.Value), `</b></li>`)
			}
			h.raw(`</ul>`)
		}

		h.raw(`</section>`)
		return h.err
	})
}

func pool(h *html, kind string, p panel.Pool) {
	h.raw(`<div class="pool `, kind, `"><div class="fill" style="width:`, pct(p.Percent), `"></div><span>`)
	h.text(hud.FormatValue(p.Value) + "/" + hud.FormatValue(p.Max))
	h.raw(`</span></div>`)
}

func entry(h *html, e panel.Entry) {
	equipped := ""
	if e.Equipped {
		equipped = "equipped"
	}
	h.raw(`<li class="`, classes("item", equipped), `" data-item-id="`, esc(e.ID), `"`)
	if e.Acupoint != "" {
		h.raw(` data-acupoint="`, esc(e.Acupoint), `"`)
	}
	h.raw(` title="`, esc(e.Tooltip), `">`)
	h.text(e.Name)
	if e.Quantity > 1 {
		h.raw(` <small>x`, strconv.Itoa(e.Quantity), `</small>`)
	}
	h.raw(`</li>`)
}
