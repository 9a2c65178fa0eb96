package diplomacy

import "fmt"

// ValidationError explains why a submitted order is illegal.
type ValidationError struct {
	Order   Order
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order %s: %s", e.Order.Describe(), e.Message)
}

// ValidateOrder checks one order against the current game state and map,
// returning nil if it's legal or a *ValidationError explaining why not.
func ValidateOrder(order Order, gs *GameState, m *DiplomacyMap) error {
	unit := gs.UnitAt(order.Location)
	if unit == nil {
		return &ValidationError{order, "no unit at " + order.Location}
	}
	if unit.Power != order.Power {
		return &ValidationError{order, fmt.Sprintf("unit belongs to %s, not %s", unit.Power, order.Power)}
	}
	if unit.Type != order.UnitType {
		return &ValidationError{order, fmt.Sprintf("unit is %s, not %s", unit.Type, order.UnitType)}
	}

	switch order.Type {
	case OrderHold:
		return nil
	case OrderMove:
		return validateMove(order, gs, m)
	case OrderSupport:
		return validateSupport(order, gs, m)
	case OrderConvoy:
		return validateConvoy(order, gs, m)
	default:
		return &ValidationError{order, "unknown order type"}
	}
}

func validateMove(order Order, gs *GameState, m *DiplomacyMap) error {
	isFleet := order.UnitType == Fleet
	target := m.Provinces[order.Target]
	if target == nil {
		return &ValidationError{order, "target province does not exist: " + order.Target}
	}

	if isFleet && target.Type == Land {
		return &ValidationError{order, "fleet cannot move to inland province"}
	}
	if !isFleet && target.Type == Sea {
		return &ValidationError{order, "army cannot move to sea province"}
	}

	if m.Adjacent(order.Location, order.Coast, order.Target, order.TargetCoast, isFleet) {
		if isFleet && m.HasCoasts(order.Target) {
			return validateFleetCoast(order, m)
		}
		return nil
	}

	// Not directly adjacent: an army can still get there by convoy.
	if !isFleet && reachableByConvoy(order.Location, order.Target, gs, m) {
		return nil
	}

	return &ValidationError{order, fmt.Sprintf("cannot move from %s to %s", order.Location, order.Target)}
}

// validateFleetCoast resolves/checks the coast a fleet move names when the
// destination has more than one.
func validateFleetCoast(order Order, m *DiplomacyMap) error {
	reachable := m.FleetCoastsTo(order.Location, order.Coast, order.Target)

	if order.TargetCoast == NoCoast {
		switch len(reachable) {
		case 0:
			return &ValidationError{order, "fleet cannot reach any coast of " + order.Target}
		case 1:
			return nil
		default:
			return &ValidationError{order, "must specify coast for " + order.Target}
		}
	}

	for _, c := range reachable {
		if c == order.TargetCoast {
			return nil
		}
	}
	return &ValidationError{order, fmt.Sprintf("fleet cannot reach %s/%s from %s", order.Target, order.TargetCoast, order.Location)}
}

func validateSupport(order Order, gs *GameState, m *DiplomacyMap) error {
	supported := gs.UnitAt(order.AuxLoc)
	if supported == nil {
		return &ValidationError{order, "no unit at " + order.AuxLoc + " to support"}
	}

	isFleet := order.UnitType == Fleet

	if order.AuxTarget == "" {
		if !m.Adjacent(order.Location, order.Coast, order.AuxLoc, NoCoast, isFleet) {
			return &ValidationError{order, fmt.Sprintf("cannot support hold at %s from %s", order.AuxLoc, order.Location)}
		}
		return nil
	}

	// Support-move: the supporter just needs to be able to reach the
	// target itself — it need not be adjacent to the supported unit.
	if !m.Adjacent(order.Location, order.Coast, order.AuxTarget, NoCoast, isFleet) {
		return &ValidationError{order, fmt.Sprintf("cannot support move to %s from %s", order.AuxTarget, order.Location)}
	}

	supportedIsFleet := supported.Type == Fleet
	if !m.Adjacent(order.AuxLoc, supported.Coast, order.AuxTarget, NoCoast, supportedIsFleet) {
		if supported.Type == Army && reachableByConvoy(order.AuxLoc, order.AuxTarget, gs, m) {
			return nil
		}
		return &ValidationError{order, fmt.Sprintf("supported unit at %s cannot reach %s", order.AuxLoc, order.AuxTarget)}
	}

	return nil
}

func validateConvoy(order Order, gs *GameState, m *DiplomacyMap) error {
	if order.UnitType != Fleet {
		return &ValidationError{order, "only fleets can convoy"}
	}

	prov := m.Provinces[order.Location]
	if prov == nil || prov.Type != Sea {
		return &ValidationError{order, "fleet must be in a sea province to convoy"}
	}

	convoyed := gs.UnitAt(order.AuxLoc)
	if convoyed == nil {
		return &ValidationError{order, "no unit at " + order.AuxLoc + " to convoy"}
	}
	if convoyed.Type != Army {
		return &ValidationError{order, "only armies can be convoyed"}
	}

	return nil
}

// reachableByConvoy reports whether an existing chain of fleets could
// ferry an army from src to dst, independent of whether anyone actually
// ordered that convoy this phase.
func reachableByConvoy(src, dst string, gs *GameState, m *DiplomacyMap) bool {
	srcProv := m.Provinces[src]
	dstProv := m.Provinces[dst]
	if srcProv == nil || dstProv == nil || srcProv.Type == Sea || dstProv.Type == Sea {
		return false
	}

	fleetAt := func(provID string) bool {
		u := gs.UnitAt(provID)
		return u != nil && u.Type == Fleet
	}

	visited := make(map[string]bool)
	var frontier []string

	for _, adj := range m.Adjacencies[src] {
		if !adj.FleetOK {
			continue
		}
		sea := m.Provinces[adj.To]
		if sea != nil && sea.Type == Sea && fleetAt(adj.To) && !visited[adj.To] {
			visited[adj.To] = true
			frontier = append(frontier, adj.To)
		}
	}

	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]

		for _, adj := range m.Adjacencies[cur] {
			if adj.To == dst && adj.FleetOK {
				return true
			}
		}

		for _, adj := range m.Adjacencies[cur] {
			if !adj.FleetOK {
				continue
			}
			sea := m.Provinces[adj.To]
			if sea != nil && sea.Type == Sea && !visited[adj.To] && fleetAt(adj.To) {
				visited[adj.To] = true
				frontier = append(frontier, adj.To)
			}
		}
	}

	return false
}

// ValidateAndDefaultOrders completes a submitted order set to one order
// per unit on the board: invalid orders are replaced with a Hold (and
// reported as ResultVoid), and units that received no order at all default
// to Hold.
func ValidateAndDefaultOrders(orders []Order, gs *GameState, m *DiplomacyMap) ([]Order, []ResolvedOrder) {
	ordered := make(map[string]bool)
	var complete []Order
	var voided []ResolvedOrder

	for _, o := range orders {
		if err := ValidateOrder(o, gs, m); err != nil {
			complete = append(complete, Order{
				UnitType: o.UnitType,
				Power:    o.Power,
				Location: o.Location,
				Coast:    o.Coast,
				Type:     OrderHold,
			})
			voided = append(voided, ResolvedOrder{Order: o, Result: ResultVoid})
			ordered[o.Location] = true
			continue
		}
		complete = append(complete, o)
		ordered[o.Location] = true
	}

	for _, unit := range gs.Units {
		if !ordered[unit.Province] {
			complete = append(complete, Order{
				UnitType: unit.Type,
				Power:    unit.Power,
				Location: unit.Province,
				Coast:    unit.Coast,
				Type:     OrderHold,
			})
		}
	}

	return complete, voided
}
