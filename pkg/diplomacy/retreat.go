package diplomacy

// RetreatOrderType is the kind of instruction a dislodged unit can be
// given in the retreat phase.
type RetreatOrderType int

const (
	RetreatMove    RetreatOrderType = iota // retreat to an adjacent, unoccupied province
	RetreatDisband                         // the unit is removed from play
)

// RetreatOrder is one instruction for a unit dislodged in the preceding
// movement phase.
type RetreatOrder struct {
	UnitType    UnitType
	Power       Power
	Location    string // where the unit was dislodged from
	Coast       Coast
	Type        RetreatOrderType
	Target      string
	TargetCoast Coast
}

// RetreatResult pairs a retreat order with its outcome.
type RetreatResult struct {
	Order  RetreatOrder
	Result OrderResult
}

// findDislodged looks up the dislodgement record for a unit of power at
// location, or nil if none exists.
func findDislodged(gs *GameState, location string, power Power) *DislodgedUnit {
	for i := range gs.Dislodged {
		if gs.Dislodged[i].DislodgedFrom == location && gs.Dislodged[i].Unit.Power == power {
			return &gs.Dislodged[i]
		}
	}
	return nil
}

// ValidateRetreatOrder checks one retreat order against the board. A
// disband is always legal; a move must target an adjacent, unoccupied
// province other than the one the attacker came from.
func ValidateRetreatOrder(order RetreatOrder, gs *GameState, m *DiplomacyMap) error {
	if order.Type == RetreatDisband {
		return nil
	}

	dislodged := findDislodged(gs, order.Location, order.Power)
	if dislodged == nil {
		return &ValidationError{
			Order:   Order{Location: order.Location, Power: order.Power},
			Message: "no dislodged unit at " + order.Location,
		}
	}

	if order.Target == dislodged.AttackerFrom {
		return &ValidationError{
			Order:   Order{Location: order.Location, Power: order.Power},
			Message: "cannot retreat to province attacker came from",
		}
	}

	isFleet := order.UnitType == Fleet
	if !m.Adjacent(order.Location, order.Coast, order.Target, order.TargetCoast, isFleet) {
		return &ValidationError{
			Order:   Order{Location: order.Location, Power: order.Power},
			Message: "target not adjacent for retreat",
		}
	}

	if gs.UnitAt(order.Target) != nil {
		return &ValidationError{
			Order:   Order{Location: order.Location, Power: order.Power},
			Message: "cannot retreat to occupied province",
		}
	}

	// A retreat into a province that stood off during the movement phase
	// is not rejected: GameState doesn't carry standoff history, and no
	// caller checks for standoffs either.

	return nil
}

// ResolveRetreats adjudicates a set of retreat orders: unordered dislodged
// units disband by default, invalid orders are voided, and two units
// retreating to the same province both bounce (and so both disband).
func ResolveRetreats(orders []RetreatOrder, gs *GameState, m *DiplomacyMap) []RetreatResult {
	var results []RetreatResult

	hasOrder := make(map[string]bool, len(orders))
	for _, o := range orders {
		hasOrder[o.Location] = true
	}

	for _, d := range gs.Dislodged {
		if !hasOrder[d.DislodgedFrom] {
			results = append(results, RetreatResult{
				Order: RetreatOrder{
					UnitType: d.Unit.Type,
					Power:    d.Unit.Power,
					Location: d.DislodgedFrom,
					Coast:    d.Unit.Coast,
					Type:     RetreatDisband,
				},
				Result: ResultSucceeded,
			})
		}
	}

	contenders := make(map[string]int, len(orders))
	for _, o := range orders {
		if o.Type == RetreatMove {
			contenders[o.Target]++
		}
	}

	for _, o := range orders {
		if o.Type == RetreatDisband {
			results = append(results, RetreatResult{Order: o, Result: ResultSucceeded})
			continue
		}

		if err := ValidateRetreatOrder(o, gs, m); err != nil {
			results = append(results, RetreatResult{Order: o, Result: ResultVoid})
			continue
		}

		if contenders[o.Target] > 1 {
			results = append(results, RetreatResult{Order: o, Result: ResultBounced})
		} else {
			results = append(results, RetreatResult{Order: o, Result: ResultSucceeded})
		}
	}

	return results
}

// ApplyRetreats places successfully retreated units back on the board and
// clears the prior phase's dislodgement list.
func ApplyRetreats(gs *GameState, results []RetreatResult, m *DiplomacyMap) {
	for _, r := range results {
		if r.Order.Type != RetreatMove || r.Result != ResultSucceeded {
			continue
		}

		coast := r.Order.TargetCoast
		if coast == NoCoast && m.HasCoasts(r.Order.Target) {
			if reachable := m.FleetCoastsTo(r.Order.Location, r.Order.Coast, r.Order.Target); len(reachable) == 1 {
				coast = reachable[0]
			}
		}

		gs.Units = append(gs.Units, Unit{
			Type:     r.Order.UnitType,
			Power:    r.Order.Power,
			Province: r.Order.Target,
			Coast:    coast,
		})
	}

	gs.Dislodged = nil
}
