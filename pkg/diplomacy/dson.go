package diplomacy

import (
	"fmt"
	"strings"
)

// DSONOrderType enumerates every order DSON can represent, across all
// three phase kinds.
type DSONOrderType int

const (
	DSONHold        DSONOrderType = iota // A vie H
	DSONMove                             // A bud - rum
	DSONSupportHold                      // A tyr S A vie H
	DSONSupportMove                      // A gal S A bud - rum
	DSONConvoy                           // F mao C A bre - spa
	DSONRetreat                          // A vie R boh
	DSONDisband                          // F tri D (retreat or build phase)
	DSONBuild                            // A vie B
	DSONWaive                            // W
)

// DSONOrder is a phase-agnostic order in the shape of the DSON wire
// format: one struct that can represent a movement, retreat, or build
// order depending on Type.
type DSONOrder struct {
	Type DSONOrderType

	// The ordered unit. Unused for DSONWaive.
	UnitType UnitType
	Location string
	Coast    Coast

	// Move destination (DSONMove, DSONRetreat) or build coast (DSONBuild).
	Target      string
	TargetCoast Coast

	// The supported or convoyed unit (DSONSupportHold, DSONSupportMove,
	// DSONConvoy).
	AuxUnitType UnitType
	AuxLocation string
	AuxCoast    Coast

	// Destination of the supported/convoyed move (DSONSupportMove,
	// DSONConvoy).
	AuxTarget      string
	AuxTargetCoast Coast
}

// FormatDSON renders a slice of orders as a single DSON string, each
// order separated by " ; ".
func FormatDSON(orders []DSONOrder) string {
	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		parts = append(parts, formatOne(o))
	}
	return strings.Join(parts, " ; ")
}

func formatOne(o DSONOrder) string {
	if o.Type == DSONWaive {
		return "W"
	}

	var b strings.Builder
	b.Grow(32)

	writeUnitToken(&b, o.UnitType, o.Location, o.Coast)

	switch o.Type {
	case DSONHold:
		b.WriteString(" H")

	case DSONMove:
		b.WriteString(" - ")
		writeLocationToken(&b, o.Target, o.TargetCoast)

	case DSONSupportHold:
		b.WriteString(" S ")
		writeUnitToken(&b, o.AuxUnitType, o.AuxLocation, o.AuxCoast)
		b.WriteString(" H")

	case DSONSupportMove:
		b.WriteString(" S ")
		writeUnitToken(&b, o.AuxUnitType, o.AuxLocation, o.AuxCoast)
		b.WriteString(" - ")
		writeLocationToken(&b, o.AuxTarget, o.AuxTargetCoast)

	case DSONConvoy:
		b.WriteString(" C A ")
		writeLocationToken(&b, o.AuxLocation, o.AuxCoast)
		b.WriteString(" - ")
		writeLocationToken(&b, o.AuxTarget, o.AuxTargetCoast)

	case DSONRetreat:
		b.WriteString(" R ")
		writeLocationToken(&b, o.Target, o.TargetCoast)

	case DSONDisband:
		b.WriteString(" D")

	case DSONBuild:
		b.WriteString(" B")
	}

	return b.String()
}

// writeUnitToken writes "A vie" or "F stp/nc".
func writeUnitToken(b *strings.Builder, ut UnitType, province string, coast Coast) {
	if ut == Army {
		b.WriteByte('A')
	} else {
		b.WriteByte('F')
	}
	b.WriteByte(' ')
	writeLocationToken(b, province, coast)
}

// writeLocationToken writes "vie" or "stp/nc".
func writeLocationToken(b *strings.Builder, province string, coast Coast) {
	b.WriteString(province)
	if coast != NoCoast {
		b.WriteByte('/')
		b.WriteString(string(coast))
	}
}

// ParseDSON parses a DSON string (one order, or several joined by " ; ")
// into a slice of DSONOrders.
func ParseDSON(s string) ([]DSONOrder, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	segments := strings.Split(s, " ; ")
	orders := make([]DSONOrder, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		o, err := parseOne(seg)
		if err != nil {
			return nil, fmt.Errorf("dson: parsing %q: %w", seg, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func parseOne(s string) (DSONOrder, error) {
	if s == "W" {
		return DSONOrder{Type: DSONWaive}, nil
	}

	tokens := strings.Fields(s)
	if len(tokens) < 2 {
		return DSONOrder{}, fmt.Errorf("too few tokens")
	}

	unitType, err := parseUnitChar(tokens[0])
	if err != nil {
		return DSONOrder{}, err
	}
	prov, coast, err := parseLocationToken(tokens[1])
	if err != nil {
		return DSONOrder{}, fmt.Errorf("unit location: %w", err)
	}

	if len(tokens) < 3 {
		return DSONOrder{}, fmt.Errorf("missing action")
	}

	o := DSONOrder{UnitType: unitType, Location: prov, Coast: coast}

	action, rest := tokens[2], tokens[3:]

	switch action {
	case "H":
		o.Type = DSONHold
		return o, nil

	case "-":
		o.Type = DSONMove
		if len(rest) < 1 {
			return DSONOrder{}, fmt.Errorf("move missing target")
		}
		o.Target, o.TargetCoast, err = parseLocationToken(rest[0])
		if err != nil {
			return DSONOrder{}, fmt.Errorf("move target: %w", err)
		}
		return o, nil

	case "S":
		return parseSupport(o, rest)

	case "C":
		return parseConvoy(o, rest)

	case "R":
		o.Type = DSONRetreat
		if len(rest) < 1 {
			return DSONOrder{}, fmt.Errorf("retreat missing target")
		}
		o.Target, o.TargetCoast, err = parseLocationToken(rest[0])
		if err != nil {
			return DSONOrder{}, fmt.Errorf("retreat target: %w", err)
		}
		return o, nil

	case "D":
		o.Type = DSONDisband
		return o, nil

	case "B":
		o.Type = DSONBuild
		return o, nil

	default:
		return DSONOrder{}, fmt.Errorf("unknown action %q", action)
	}
}

// parseSupport parses the tail of a support order: "A vie H" (hold) or
// "A bud - rum" (move).
func parseSupport(o DSONOrder, tokens []string) (DSONOrder, error) {
	if len(tokens) < 3 {
		return DSONOrder{}, fmt.Errorf("support order too short")
	}

	auxUnit, err := parseUnitChar(tokens[0])
	if err != nil {
		return DSONOrder{}, fmt.Errorf("supported unit: %w", err)
	}
	auxLoc, auxCoast, err := parseLocationToken(tokens[1])
	if err != nil {
		return DSONOrder{}, fmt.Errorf("supported unit location: %w", err)
	}

	o.AuxUnitType = auxUnit
	o.AuxLocation = auxLoc
	o.AuxCoast = auxCoast

	switch tokens[2] {
	case "H":
		o.Type = DSONSupportHold
		return o, nil
	case "-":
		o.Type = DSONSupportMove
		if len(tokens) < 4 {
			return DSONOrder{}, fmt.Errorf("support move missing destination")
		}
		o.AuxTarget, o.AuxTargetCoast, err = parseLocationToken(tokens[3])
		if err != nil {
			return DSONOrder{}, fmt.Errorf("support move target: %w", err)
		}
		return o, nil
	default:
		return DSONOrder{}, fmt.Errorf("support: expected H or -, got %q", tokens[2])
	}
}

// parseConvoy parses the tail of a convoy order: "A loc - dst".
func parseConvoy(o DSONOrder, tokens []string) (DSONOrder, error) {
	if len(tokens) < 4 {
		return DSONOrder{}, fmt.Errorf("convoy order too short")
	}
	if tokens[0] != "A" {
		return DSONOrder{}, fmt.Errorf("convoy: expected convoyed unit type A, got %q", tokens[0])
	}

	o.Type = DSONConvoy
	var err error
	o.AuxLocation, o.AuxCoast, err = parseLocationToken(tokens[1])
	if err != nil {
		return DSONOrder{}, fmt.Errorf("convoy source: %w", err)
	}

	if tokens[2] != "-" {
		return DSONOrder{}, fmt.Errorf("convoy: expected '-', got %q", tokens[2])
	}

	o.AuxTarget, o.AuxTargetCoast, err = parseLocationToken(tokens[3])
	if err != nil {
		return DSONOrder{}, fmt.Errorf("convoy target: %w", err)
	}

	o.AuxUnitType = Army
	return o, nil
}

// parseUnitChar parses "A" or "F".
func parseUnitChar(s string) (UnitType, error) {
	switch s {
	case "A":
		return Army, nil
	case "F":
		return Fleet, nil
	default:
		return Army, fmt.Errorf("invalid unit type %q (expected A or F)", s)
	}
}

// parseLocationToken parses "vie" or "stp/nc" into province and coast.
func parseLocationToken(s string) (string, Coast, error) {
	province, coastPart, hasCoast := strings.Cut(s, "/")
	if len(province) != 3 {
		return "", NoCoast, fmt.Errorf("invalid province %q (must be 3 lowercase letters)", province)
	}

	if !hasCoast {
		return province, NoCoast, nil
	}

	coast := Coast(coastPart)
	switch coast {
	case NorthCoast, SouthCoast, EastCoast:
		return province, coast, nil
	default:
		return "", NoCoast, fmt.Errorf("invalid coast %q", coastPart)
	}
}

// OrderToDSON converts a movement-phase Order to a DSONOrder.
func OrderToDSON(o Order) DSONOrder {
	d := DSONOrder{UnitType: o.UnitType, Location: o.Location, Coast: o.Coast}
	switch o.Type {
	case OrderHold:
		d.Type = DSONHold
	case OrderMove:
		d.Type = DSONMove
		d.Target = o.Target
		d.TargetCoast = o.TargetCoast
	case OrderSupport:
		if o.AuxTarget == "" {
			d.Type = DSONSupportHold
		} else {
			d.Type = DSONSupportMove
			d.AuxTarget = o.AuxTarget
		}
		d.AuxUnitType = o.AuxUnitType
		d.AuxLocation = o.AuxLoc
	case OrderConvoy:
		d.Type = DSONConvoy
		d.AuxUnitType = Army
		d.AuxLocation = o.AuxLoc
		d.AuxTarget = o.AuxTarget
	}
	return d
}

// RetreatOrderToDSON converts a RetreatOrder to a DSONOrder.
func RetreatOrderToDSON(o RetreatOrder) DSONOrder {
	d := DSONOrder{UnitType: o.UnitType, Location: o.Location, Coast: o.Coast}
	switch o.Type {
	case RetreatMove:
		d.Type = DSONRetreat
		d.Target = o.Target
		d.TargetCoast = o.TargetCoast
	case RetreatDisband:
		d.Type = DSONDisband
	}
	return d
}

// BuildOrderToDSON converts a BuildOrder to a DSONOrder.
func BuildOrderToDSON(o BuildOrder) DSONOrder {
	d := DSONOrder{UnitType: o.UnitType, Location: o.Location, Coast: o.Coast}
	switch o.Type {
	case BuildUnit:
		d.Type = DSONBuild
	case DisbandUnit:
		d.Type = DSONDisband
	case WaiveBuild:
		d.Type = DSONWaive
	}
	return d
}

// DSONToOrder converts a DSONOrder back to a movement-phase Order. Only
// meaningful for DSONHold, DSONMove, DSONSupportHold, DSONSupportMove, and
// DSONConvoy.
func DSONToOrder(d DSONOrder, power Power) Order {
	o := Order{UnitType: d.UnitType, Power: power, Location: d.Location, Coast: d.Coast}
	switch d.Type {
	case DSONHold:
		o.Type = OrderHold
	case DSONMove:
		o.Type = OrderMove
		o.Target = d.Target
		o.TargetCoast = d.TargetCoast
	case DSONSupportHold:
		o.Type = OrderSupport
		o.AuxUnitType = d.AuxUnitType
		o.AuxLoc = d.AuxLocation
	case DSONSupportMove:
		o.Type = OrderSupport
		o.AuxUnitType = d.AuxUnitType
		o.AuxLoc = d.AuxLocation
		o.AuxTarget = d.AuxTarget
	case DSONConvoy:
		o.Type = OrderConvoy
		o.AuxLoc = d.AuxLocation
		o.AuxTarget = d.AuxTarget
		o.AuxUnitType = Army
	}
	return o
}

// DSONToRetreatOrder converts a DSONOrder back to a RetreatOrder. Only
// meaningful for DSONRetreat and DSONDisband.
func DSONToRetreatOrder(d DSONOrder, power Power) RetreatOrder {
	o := RetreatOrder{UnitType: d.UnitType, Power: power, Location: d.Location, Coast: d.Coast}
	switch d.Type {
	case DSONRetreat:
		o.Type = RetreatMove
		o.Target = d.Target
		o.TargetCoast = d.TargetCoast
	case DSONDisband:
		o.Type = RetreatDisband
	}
	return o
}

// DSONToBuildOrder converts a DSONOrder back to a BuildOrder. Only
// meaningful for DSONBuild, DSONDisband, and DSONWaive.
func DSONToBuildOrder(d DSONOrder, power Power) BuildOrder {
	o := BuildOrder{Power: power, UnitType: d.UnitType, Location: d.Location, Coast: d.Coast}
	switch d.Type {
	case DSONBuild:
		o.Type = BuildUnit
	case DSONDisband:
		o.Type = DisbandUnit
	case DSONWaive:
		o.Type = WaiveBuild
	}
	return o
}
