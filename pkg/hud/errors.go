package hud

import "errors"

var (
	// ErrMissingData marks a token whose owner record has nothing to render.
	ErrMissingData = errors.New("token has no renderable resources")
	// ErrUnknownTemplate is returned by renderers asked for a template they do not have.
	ErrUnknownTemplate = errors.New("unknown template")
)
