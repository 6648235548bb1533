package engine

import (
	"errors"
	"testing"

	"pethub/internal/models"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name       string
		tier       int
		action     Action
		wantDenied bool
	}{
		{"tier 1 text chat denied", 1, ActionTextChat, true},
		{"tier 2 text chat denied", 2, ActionTextChat, true},
		{"tier 3 text chat allowed", 3, ActionTextChat, false},
		{"tier 1 voice chat denied", 1, ActionVoiceChat, true},
		{"tier 2 voice chat denied", 2, ActionVoiceChat, true},
		{"tier 3 voice chat allowed", 3, ActionVoiceChat, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.tier, tt.action)
			if tt.wantDenied {
				if !errors.Is(err, ErrTierInsufficient) {
					t.Errorf("Authorize(%d, %s) = %v, want ErrTierInsufficient", tt.tier, tt.action, err)
				}
			} else if err != nil {
				t.Errorf("Authorize(%d, %s) = %v, want nil", tt.tier, tt.action, err)
			}
		})
	}
}

func TestAuthorizeUnknownAction(t *testing.T) {
	err := Authorize(3, Action("tickle"))
	if err == nil {
		t.Fatal("expected an error for an unknown action")
	}
	if errors.Is(err, ErrTierInsufficient) {
		t.Fatal("unknown action must not read as a tier denial")
	}
}

func TestGatedAction(t *testing.T) {
	tests := []struct {
		itype models.InteractionType
		want  Action
		gated bool
	}{
		{models.InteractionTouch, "", false},
		{models.InteractionBreathing, "", false},
		{models.InteractionGame, "", false},
		{models.InteractionTextChat, ActionTextChat, true},
		{models.InteractionVoiceChat, ActionVoiceChat, true},
	}

	for _, tt := range tests {
		action, gated := GatedAction(tt.itype)
		if gated != tt.gated || action != tt.want {
			t.Errorf("GatedAction(%s) = (%q, %v), want (%q, %v)", tt.itype, action, gated, tt.want, tt.gated)
		}
	}
}
