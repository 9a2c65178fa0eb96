package localbot

import (
	"context"
	"strings"
	"testing"

	"github.com/ninthcircle/conclave/pkg/completion"
	"github.com/ninthcircle/conclave/pkg/diplomacy"
)

func userRequest(content string) completion.Request {
	return completion.Request{Messages: []completion.Message{
		{Role: "system", Content: "system prompt"},
		{Role: "user", Content: content},
	}}
}

func TestComplete_MovementProposesMoveTowardAdjacentSupplyCenter(t *testing.T) {
	svc := New(diplomacy.France)
	prompt := "PHASE: movement\n\nGAME STATE:\nfrance:Apar\n"

	resp, err := svc.Complete(context.Background(), userRequest(prompt))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.HasPrefix(resp.Content, "ORDERS:\n") {
		t.Fatalf("expected an ORDERS section, got %q", resp.Content)
	}
	if !strings.Contains(resp.Content, "A par -> bre") {
		t.Errorf("expected par's army to head toward the adjacent supply center bre, got %q", resp.Content)
	}
}

func TestComplete_MovementEmptyOrdersWithNoUnits(t *testing.T) {
	svc := New(diplomacy.France)
	prompt := "PHASE: movement\n\nGAME STATE:\nfrance:\n"

	resp, err := svc.Complete(context.Background(), userRequest(prompt))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if strings.TrimSpace(resp.Content) != "ORDERS:" {
		t.Errorf("expected an empty ORDERS section when no units are found, got %q", resp.Content)
	}
}

func TestComplete_RetreatDisbandsEveryUnit(t *testing.T) {
	svc := New(diplomacy.France)
	prompt := "PHASE: retreat\n\nGAME STATE:\nfrance:Apar,Fbre\n"

	resp, err := svc.Complete(context.Background(), userRequest(prompt))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.HasPrefix(resp.Content, "RETREATS:\n") {
		t.Fatalf("expected a RETREATS section, got %q", resp.Content)
	}
	if !strings.Contains(resp.Content, "A par DISBAND") || !strings.Contains(resp.Content, "F bre DISBAND") {
		t.Errorf("expected every dislodged unit disbanded, got %q", resp.Content)
	}
}

func TestComplete_BuildWaivesEveryTime(t *testing.T) {
	svc := New(diplomacy.France)
	prompt := "PHASE: build\n\nGAME STATE:\nfrance:Apar\n"

	resp, err := svc.Complete(context.Background(), userRequest(prompt))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.Contains(resp.Content, "WAIVE") {
		t.Errorf("expected a WAIVE build order, got %q", resp.Content)
	}
}

func TestComplete_DefaultsToMovementWhenPhaseMissing(t *testing.T) {
	svc := New(diplomacy.France)
	prompt := "GAME STATE:\nfrance:Apar\n"

	resp, err := svc.Complete(context.Background(), userRequest(prompt))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.HasPrefix(resp.Content, "ORDERS:\n") {
		t.Errorf("expected movement orders as the default phase, got %q", resp.Content)
	}
}

func TestComplete_RespectsCanceledContext(t *testing.T) {
	svc := New(diplomacy.France)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Complete(ctx, userRequest("PHASE: movement\n"))
	if err == nil {
		t.Error("expected Complete to return an error for an already-canceled context")
	}
}

func TestExtractSelfUnits_IgnoresOtherPowersLines(t *testing.T) {
	units := extractSelfUnits("france:Apar,Fbre\nengland:Flon\n", diplomacy.France)
	if len(units) != 2 {
		t.Fatalf("expected 2 units parsed for france, got %d", len(units))
	}
	if units[0].Province != "bre" || units[1].Province != "par" {
		t.Errorf("expected units sorted by province, got %+v", units)
	}
}
