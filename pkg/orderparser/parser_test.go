package orderparser

import (
	"testing"

	"github.com/ninthcircle/conclave/pkg/diplomacy"
)

func TestParseReply_OrdersSection(t *testing.T) {
	text := "ORDERS:\nA par -> bur\nF bre HOLD\nA mar S par -> bur\n"
	res := ParseReply(text)

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.Errors)
	}
	if len(res.Orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(res.Orders))
	}

	move := res.Orders[0]
	if move.Type != diplomacy.OrderMove || move.Location != "par" || move.Target != "bur" {
		t.Errorf("unexpected move order: %+v", move)
	}

	hold := res.Orders[1]
	if hold.Type != diplomacy.OrderHold || hold.Location != "bre" {
		t.Errorf("unexpected hold order: %+v", hold)
	}

	support := res.Orders[2]
	if support.Type != diplomacy.OrderSupport || support.Location != "mar" || support.AuxLoc != "par" || support.AuxTarget != "bur" {
		t.Errorf("unexpected support order: %+v", support)
	}
}

func TestParseReply_MarkdownAndBulletNoise(t *testing.T) {
	text := "**ORDERS:**\n- A PAR moves to BUR\n* F bre holds\n"
	res := ParseReply(text)

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.Errors)
	}
	if len(res.Orders) != 2 {
		t.Fatalf("expected 2 orders despite markdown/bullet noise, got %d", len(res.Orders))
	}
	if res.Orders[0].Type != diplomacy.OrderMove || res.Orders[0].Target != "bur" {
		t.Errorf("expected markdown-decorated move to still parse, got %+v", res.Orders[0])
	}
}

func TestParseReply_NoHeaderFallsBackToUnsectioned(t *testing.T) {
	text := "A par -> bur\n"
	res := ParseReply(text)

	if len(res.Orders) != 1 {
		t.Fatalf("expected a single fallback-scanned order, got %d", len(res.Orders))
	}
}

func TestParseReply_ReasoningSectionIgnored(t *testing.T) {
	text := "REASONING:\nI think Burgundy is key this turn.\nORDERS:\nA par -> bur\n"
	res := ParseReply(text)

	if len(res.Orders) != 1 {
		t.Fatalf("expected reasoning prose to be excluded from orders, got %d orders", len(res.Orders))
	}
}

func TestParseReply_ConvoyOrder(t *testing.T) {
	text := "ORDERS:\nF eng CONVOY A lon -> bre\n"
	res := ParseReply(text)

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.Errors)
	}
	if len(res.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(res.Orders))
	}
	o := res.Orders[0]
	if o.Type != diplomacy.OrderConvoy || o.Location != "eng" || o.AuxLoc != "lon" || o.AuxTarget != "bre" {
		t.Errorf("unexpected convoy order: %+v", o)
	}
}

func TestParseReply_RetreatsSection(t *testing.T) {
	text := "RETREATS:\nA bur -> gas\nF nth DISBAND\n"
	res := ParseReply(text)

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.Errors)
	}
	if len(res.RetreatOrders) != 2 {
		t.Fatalf("expected 2 retreat orders, got %d", len(res.RetreatOrders))
	}
	if res.RetreatOrders[0].Type != diplomacy.RetreatMove || res.RetreatOrders[0].Target != "gas" {
		t.Errorf("unexpected retreat move: %+v", res.RetreatOrders[0])
	}
	if res.RetreatOrders[1].Type != diplomacy.RetreatDisband {
		t.Errorf("unexpected retreat disband: %+v", res.RetreatOrders[1])
	}
}

func TestParseReply_BuildsSection(t *testing.T) {
	text := "BUILDS:\nBUILD A par\nWAIVE\nDISBAND F bre\n"
	res := ParseReply(text)

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.Errors)
	}
	if len(res.BuildOrders) != 3 {
		t.Fatalf("expected 3 build orders, got %d", len(res.BuildOrders))
	}
	if res.BuildOrders[0].Type != diplomacy.BuildUnit || res.BuildOrders[0].Location != "par" {
		t.Errorf("unexpected build order: %+v", res.BuildOrders[0])
	}
	if res.BuildOrders[1].Type != diplomacy.WaiveBuild {
		t.Errorf("unexpected waive order: %+v", res.BuildOrders[1])
	}
	if res.BuildOrders[2].Type != diplomacy.DisbandUnit || res.BuildOrders[2].Location != "bre" {
		t.Errorf("unexpected disband order: %+v", res.BuildOrders[2])
	}
}

func TestParseReply_DiplomacySendWithStageAndCondition(t *testing.T) {
	text := `DIPLOMACY:
SEND germany: [opening] "IF you hold Burgundy, THEN I will support your move to Munich"
`
	res := ParseReply(text)

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.Errors)
	}
	if len(res.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(res.Messages))
	}
	msg := res.Messages[0]
	if msg.To != diplomacy.Germany {
		t.Errorf("expected recipient germany, got %q", msg.To)
	}
	if msg.Stage != StageOpening {
		t.Errorf("expected opening stage, got %q", msg.Stage)
	}
	if msg.Condition == "" {
		t.Error("expected an IF/THEN condition to be captured")
	}
}

func TestParseReply_UnparseableLineRecordedAsError(t *testing.T) {
	text := "ORDERS:\nA par -> bur\nthis is gibberish not an order\n"
	res := ParseReply(text)

	if len(res.Orders) != 1 {
		t.Fatalf("expected the valid line to still parse, got %d orders", len(res.Orders))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected the gibberish line to be recorded as an error, got %d", len(res.Errors))
	}
}

func TestParseReply_SupportHoldWithoutMove(t *testing.T) {
	text := "ORDERS:\nA mar SUPPORT F spa\n"
	res := ParseReply(text)

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.Errors)
	}
	if len(res.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(res.Orders))
	}
	o := res.Orders[0]
	if o.Type != diplomacy.OrderSupport || o.AuxUnitType != diplomacy.Fleet || o.AuxTarget != "" {
		t.Errorf("expected a support-hold of a fleet with no aux target, got %+v", o)
	}
}
