// Package render renders HUD payloads to HTML fragments with templ components.
package render

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/jwebster45206/token-hud/pkg/hud"
	"github.com/jwebster45206/token-hud/pkg/panel"
)

// builder turns a template payload into a component.
type builder func(data any) (templ.Component, error)

// HTML is a hud.Renderer backed by templ components.
type HTML struct {
	builders map[string]builder
}

var _ hud.Renderer = (*HTML)(nil)

// NewHTML creates a renderer with the container, card and panel templates.
func NewHTML() *HTML {
	return &HTML{builders: map[string]builder{
		hud.ContainerTemplate: func(any) (templ.Component, error) { return Container(), nil },
		hud.CardTemplate: func(data any) (templ.Component, error) {
			card, ok := data.(hud.CardData)
			if !ok {
				return nil, fmt.Errorf("card template expects hud.CardData, got %T", data)
			}
			return Card(card), nil
		},
		panel.PlayerTemplate: func(data any) (templ.Component, error) {
			d, ok := data.(panel.Data)
			if !ok {
				return nil, fmt.Errorf("player template expects panel.Data, got %T", data)
			}
			return Player(d), nil
		},
	}}
}

// Render implements hud.Renderer.
func (h *HTML) Render(ctx context.Context, template string, data any) (string, error) {
	build, ok := h.builders[template]
	if !ok {
		return "", fmt.Errorf("%w: %s", hud.ErrUnknownTemplate, template)
	}
	c, err := build(data)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", template, err)
	}
	return b.String(), nil
}

// html is a small error-latching writer for hand-written components.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func esc(s string) string {
	return templ.EscapeString(s)
}

func pct(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

func classes(names ...string) string {
	var out []string
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}
