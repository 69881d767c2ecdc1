package story

import (
	"context"
	"strings"

	"github.com/jonwraymond/storycache/auth"
	"github.com/jonwraymond/storycache/cache"
)

// Params are caller-supplied story context fields, as read from a request.
type Params struct {
	UserID    string `json:"user_id,omitempty"`
	Genre     string `json:"genre,omitempty"`
	Tone      string `json:"tone,omitempty"`
	Character string `json:"character,omitempty"`
	Setting   string `json:"setting,omitempty"`
}

// ContextFromRequest builds a StoryContext from p. Fields are trimmed.
// An empty UserID falls back to the authenticated principal in ctx.
func ContextFromRequest(ctx context.Context, p Params) (cache.StoryContext, error) {
	sc := cache.StoryContext{
		UserID:    strings.TrimSpace(p.UserID),
		Genre:     strings.TrimSpace(p.Genre),
		Tone:      strings.TrimSpace(p.Tone),
		Character: strings.TrimSpace(p.Character),
		Setting:   strings.TrimSpace(p.Setting),
	}
	if sc.UserID == "" {
		sc.UserID = auth.PrincipalFromContext(ctx)
	}
	if sc.UserID == "" {
		return cache.StoryContext{}, ErrMissingUser
	}
	return sc, nil
}
