package diplomacy

// adjState tracks where an order sits in the Kruijswijk dependency-graph
// resolution: not yet visited, tentatively guessed (we're inside a cycle
// and assumed an outcome to break it), or settled.
type adjState int

const (
	stateUnvisited adjState = iota
	stateGuessed
	stateSettled
)

// orderNode is one order's working state during adjudication: its parsed
// province indices (so the hot path never does a string lookup) plus the
// resolution flag once known.
type orderNode struct {
	order        Order
	state        adjState
	succeeds     bool
	locIdx       int16
	targetIdx    int16
	auxLocIdx    int16
	auxTargetIdx int16
}

// ResolveOrders adjudicates a set of validated orders against the given
// game state and returns each order's outcome plus the units it dislodged.
func ResolveOrders(orders []Order, gs *GameState, m *DiplomacyMap) ([]ResolvedOrder, []DislodgedUnit) {
	e := newEngine(orders, gs, m)
	return e.run()
}

// engine holds the working set for one adjudication pass: a dense slot per
// order plus a province-index -> slot lookup so dependency edges (who
// supports whom, who attacks where) can be walked without map lookups.
type engine struct {
	slotOf [ProvinceCount]int16 // province index -> nodes offset, -1 if unordered
	nodes  []orderNode
	orders []Order
	state  *GameState
	board  *DiplomacyMap
}

// nodeAt returns the node occupying a province index, or nil if that
// province has no order this phase.
func (e *engine) nodeAt(provIdx int16) *orderNode {
	if provIdx < 0 {
		return nil
	}
	slot := e.slotOf[provIdx]
	if slot < 0 {
		return nil
	}
	return &e.nodes[slot]
}

// nodeAtLoc is nodeAt by province ID rather than dense index.
func (e *engine) nodeAtLoc(loc string) *orderNode {
	return e.nodeAt(int16(e.board.ProvinceIndex(loc)))
}

// indexOrders fills slotOf and each node's parsed province indices from
// the raw order list.
func (e *engine) indexOrders() {
	for i := range e.slotOf {
		e.slotOf[i] = -1
	}
	for i, o := range e.orders {
		locIdx := int16(e.board.ProvinceIndex(o.Location))
		targetIdx := int16(-1)
		if o.Target != "" {
			targetIdx = int16(e.board.ProvinceIndex(o.Target))
		}
		auxLocIdx := int16(-1)
		if o.AuxLoc != "" {
			auxLocIdx = int16(e.board.ProvinceIndex(o.AuxLoc))
		}
		auxTargetIdx := int16(-1)
		if o.AuxTarget != "" {
			auxTargetIdx = int16(e.board.ProvinceIndex(o.AuxTarget))
		}
		e.nodes[i] = orderNode{
			order:        o,
			locIdx:       locIdx,
			targetIdx:    targetIdx,
			auxLocIdx:    auxLocIdx,
			auxTargetIdx: auxTargetIdx,
		}
		if locIdx >= 0 {
			e.slotOf[locIdx] = int16(i)
		}
	}
}

func newEngine(orders []Order, gs *GameState, m *DiplomacyMap) *engine {
	e := &engine{
		nodes:  make([]orderNode, len(orders)),
		orders: orders,
		state:  gs,
		board:  m,
	}
	e.indexOrders()
	return e
}

func (e *engine) run() ([]ResolvedOrder, []DislodgedUnit) {
	for i := range e.nodes {
		e.adjudicate(e.nodes[i].locIdx)
	}
	return e.collectResults()
}

// adjudicate resolves the order at provIdx using the Kruijswijk approach:
// guess an outcome, recurse through the dependency graph, and if the
// recursion contradicts the guess, flip it and resolve once more.
// Dependency cycles that remain self-consistent under the guess settle on
// the first pass.
func (e *engine) adjudicate(provIdx int16) bool {
	n := e.nodeAt(provIdx)
	if n == nil {
		return false
	}

	switch n.state {
	case stateSettled:
		return n.succeeds
	case stateGuessed:
		return n.succeeds
	}

	n.state = stateGuessed
	n.succeeds = true

	outcome := e.resolveOne(provIdx)

	if n.state == stateGuessed && outcome != n.succeeds {
		n.succeeds = outcome
		outcome = e.resolveOne(provIdx)
	}

	n.state = stateSettled
	n.succeeds = outcome
	return outcome
}

func (e *engine) resolveOne(provIdx int16) bool {
	n := e.nodeAt(provIdx)
	switch n.order.Type {
	case OrderHold:
		return true
	case OrderMove:
		return e.resolveMove(provIdx)
	case OrderSupport:
		return e.resolveSupport(provIdx)
	case OrderConvoy:
		return e.resolveConvoy(provIdx)
	default:
		return false
	}
}

// resolveMove reports whether a move order displaces whatever holds (or
// fails to hold) its target province.
func (e *engine) resolveMove(provIdx int16) bool {
	n := e.nodeAt(provIdx)

	if e.requiresConvoy(n.order) && !e.convoyPathExists(n.order) {
		return false
	}

	attack := e.attackStrength(provIdx)
	hold := e.holdStrength(n.targetIdx)

	if attack <= hold {
		return false
	}

	// Head-to-head: if the unit at the target is itself moving into our
	// province, our attack must beat its attack, not just its hold.
	defender := e.nodeAt(n.targetIdx)
	if defender != nil && defender.order.Type == OrderMove && defender.targetIdx == provIdx {
		if attack <= e.attackStrength(n.targetIdx) {
			return false
		}
	}

	// Must also beat every other move competing for the same target.
	for i := range e.nodes {
		rival := &e.nodes[i]
		if rival.locIdx == provIdx {
			continue
		}
		if rival.order.Type == OrderMove && rival.targetIdx == n.targetIdx {
			if attack <= e.preventStrength(rival.locIdx) {
				return false
			}
		}
	}

	return true
}

// resolveSupport reports whether a support order takes effect, i.e. isn't
// cut by an attack on the supporting unit.
func (e *engine) resolveSupport(provIdx int16) bool {
	n := e.nodeAt(provIdx)

	for i := range e.nodes {
		attacker := &e.nodes[i]
		if attacker.order.Type != OrderMove || attacker.targetIdx != provIdx {
			continue
		}

		// A support order can't be cut by the very unit it's supporting
		// an attack against.
		if n.auxTargetIdx >= 0 && attacker.locIdx == n.auxTargetIdx {
			continue
		}

		// Support is never cut by a unit of the supporting power.
		if attacker.order.Power == n.order.Power {
			continue
		}

		// A convoyed attacker only cuts support if its convoy succeeds.
		if e.requiresConvoy(attacker.order) && !e.adjudicate(attacker.locIdx) {
			continue
		}

		return false
	}

	return true
}

// resolveConvoy reports whether a convoy order survives — it fails only
// if the convoying fleet is itself successfully dislodged.
func (e *engine) resolveConvoy(provIdx int16) bool {
	for i := range e.nodes {
		attacker := &e.nodes[i]
		if attacker.order.Type == OrderMove && attacker.targetIdx == provIdx {
			if e.adjudicate(attacker.locIdx) {
				return false
			}
		}
	}
	return true
}

// attackStrength is the number of units (the mover plus successful
// supporters) backing a move order.
func (e *engine) attackStrength(provIdx int16) int {
	n := e.nodeAt(provIdx)
	if n.order.Type != OrderMove {
		return 0
	}

	strength := 1

	// A unit may not attack a province held by its own power unless the
	// occupant is itself vacating (and not swapping back into provIdx).
	occupant := e.state.UnitAt(n.order.Target)
	if occupant != nil && occupant.Power == n.order.Power {
		occupantOrder := e.nodeAt(n.targetIdx)
		if occupantOrder == nil || occupantOrder.order.Type != OrderMove {
			return 0
		}
		if occupantOrder.targetIdx == provIdx {
			return 0
		}
	}

	for i := range e.nodes {
		s := &e.nodes[i]
		if s.order.Type != OrderSupport {
			continue
		}
		if s.auxLocIdx != provIdx || s.auxTargetIdx != n.targetIdx {
			continue
		}
		if e.adjudicate(s.locIdx) {
			strength++
		}
	}

	return strength
}

// holdStrength is the strength defending a province: 0 if its occupant
// successfully moves away, otherwise 1 plus successful hold-supports.
func (e *engine) holdStrength(provIdx int16) int {
	n := e.nodeAt(provIdx)
	if n == nil {
		return 0
	}

	if n.order.Type == OrderMove {
		if e.adjudicate(provIdx) {
			return 0
		}
		return 1
	}

	strength := 1
	for i := range e.nodes {
		s := &e.nodes[i]
		if s.order.Type != OrderSupport {
			continue
		}
		if s.auxLocIdx != provIdx || s.auxTargetIdx >= 0 {
			continue
		}
		if e.adjudicate(s.locIdx) {
			strength++
		}
	}
	return strength
}

// preventStrength is the strength a move order brings to bear against
// rival moves targeting the same province.
func (e *engine) preventStrength(provIdx int16) int {
	n := e.nodeAt(provIdx)
	if n.order.Type != OrderMove {
		return 0
	}

	defender := e.nodeAt(n.targetIdx)
	if defender != nil && defender.order.Type == OrderMove && defender.targetIdx == provIdx {
		if !e.adjudicate(provIdx) {
			return 0
		}
	}

	strength := 1
	for i := range e.nodes {
		s := &e.nodes[i]
		if s.order.Type != OrderSupport {
			continue
		}
		if s.auxLocIdx != provIdx || s.auxTargetIdx != n.targetIdx {
			continue
		}
		if e.adjudicate(s.locIdx) {
			strength++
		}
	}
	return strength
}

// requiresConvoy reports whether an army's move order can only succeed
// via a convoy chain (i.e. source and target aren't directly adjacent).
func (e *engine) requiresConvoy(order Order) bool {
	if order.Type != OrderMove || order.UnitType != Army {
		return false
	}
	return !e.board.Adjacent(order.Location, order.Coast, order.Target, NoCoast, false)
}

// convoyPathExists breadth-first searches the graph of successfully
// adjudicated convoy orders for a sea route from order.Location to
// order.Target.
func (e *engine) convoyPathExists(order Order) bool {
	srcIdx := int16(e.board.ProvinceIndex(order.Location))
	dstIdx := int16(e.board.ProvinceIndex(order.Target))

	reached := make(map[int16]bool)
	var frontier []int16

	for i := range e.nodes {
		n := &e.nodes[i]
		if n.order.Type != OrderConvoy || n.auxLocIdx != srcIdx || n.auxTargetIdx != dstIdx {
			continue
		}
		prov := e.board.Provinces[n.order.Location]
		if prov == nil || prov.Type != Sea {
			continue
		}
		if e.board.Adjacent(order.Location, NoCoast, n.order.Location, NoCoast, true) && e.adjudicate(n.locIdx) {
			reached[n.locIdx] = true
			frontier = append(frontier, n.locIdx)
		}
	}

	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]

		curNode := e.nodeAt(cur)
		if e.board.Adjacent(curNode.order.Location, NoCoast, order.Target, NoCoast, true) {
			return true
		}

		for i := range e.nodes {
			n := &e.nodes[i]
			if reached[n.locIdx] || n.order.Type != OrderConvoy {
				continue
			}
			if n.auxLocIdx != srcIdx || n.auxTargetIdx != dstIdx {
				continue
			}
			prov := e.board.Provinces[n.order.Location]
			if prov == nil || prov.Type != Sea {
				continue
			}
			if e.board.Adjacent(curNode.order.Location, NoCoast, n.order.Location, NoCoast, true) && e.adjudicate(n.locIdx) {
				reached[n.locIdx] = true
				frontier = append(frontier, n.locIdx)
			}
		}
	}

	return false
}

// classifyResult maps an order's type and raw success flag to its public
// OrderResult, before dislodgement is factored in.
func classifyResult(o Order, succeeded bool) OrderResult {
	switch o.Type {
	case OrderMove:
		if !succeeded {
			return ResultBounced
		}
	case OrderSupport:
		if !succeeded {
			return ResultCut
		}
	case OrderConvoy:
		if !succeeded {
			return ResultFailed
		}
	}
	return ResultSucceeded
}

// dislodgedUnitFrom builds the DislodgedUnit record for an order whose
// province was taken by attacker.
func dislodgedUnitFrom(o Order, attacker string) DislodgedUnit {
	return DislodgedUnit{
		Unit: Unit{
			Type:     o.UnitType,
			Power:    o.Power,
			Province: o.Location,
			Coast:    o.Coast,
		},
		DislodgedFrom: o.Location,
		AttackerFrom:  attacker,
	}
}

// collectResults turns the engine's settled node states into the public
// result/dislodgement lists, allocating fresh slices each call.
func (e *engine) collectResults() ([]ResolvedOrder, []DislodgedUnit) {
	var results []ResolvedOrder
	var dislodged []DislodgedUnit

	winners := make(map[string]string)
	for i := range e.nodes {
		n := &e.nodes[i]
		if n.order.Type == OrderMove && n.succeeds {
			winners[n.order.Target] = n.order.Location
		}
	}

	for _, o := range e.orders {
		n := e.nodeAtLoc(o.Location)
		if n == nil {
			continue
		}

		result := classifyResult(o, n.succeeds)

		if attacker, taken := winners[o.Location]; taken {
			if o.Type != OrderMove || !n.succeeds {
				result = ResultDislodged
				dislodged = append(dislodged, dislodgedUnitFrom(o, attacker))
			}
		}

		results = append(results, ResolvedOrder{Order: o, Result: result})
	}

	return results, dislodged
}

// unitKey identifies a unit by power and current province, for the
// apply-resolution maps below.
type unitKey struct {
	power    Power
	province string
}

// moveOutcome is what a successful move does to the mover's position.
type moveOutcome struct {
	target      string
	targetCoast Coast
	clearCoast  bool
}

// ApplyResolution updates gs in place to reflect a resolved order set:
// successful movers change province, and dislodged units are removed.
func ApplyResolution(gs *GameState, m *DiplomacyMap, results []ResolvedOrder, dislodged []DislodgedUnit) {
	dislodgedSet := make(map[unitKey]bool, len(dislodged))
	for _, d := range dislodged {
		dislodgedSet[unitKey{d.Unit.Power, d.DislodgedFrom}] = true
	}

	moves := make(map[unitKey]moveOutcome)
	for _, ro := range results {
		if ro.Order.Type == OrderMove && ro.Result == ResultSucceeded {
			moves[unitKey{ro.Order.Power, ro.Order.Location}] = moveOutcome{
				target:      ro.Order.Target,
				targetCoast: ro.Order.TargetCoast,
				clearCoast:  ro.Order.TargetCoast == NoCoast && !m.HasCoasts(ro.Order.Target),
			}
		}
	}
	applyMoves(gs, moves, dislodgedSet, dislodged)
}

// applyMoves mutates gs.Units per moves, then drops anything in
// dislodgedSet and records the dislodged list on gs.
func applyMoves(gs *GameState, moves map[unitKey]moveOutcome, dislodgedSet map[unitKey]bool, dislodged []DislodgedUnit) {
	for i := range gs.Units {
		key := unitKey{gs.Units[i].Power, gs.Units[i].Province}
		if mv, ok := moves[key]; ok {
			gs.Units[i].Province = mv.target
			if mv.targetCoast != NoCoast {
				gs.Units[i].Coast = mv.targetCoast
			} else if mv.clearCoast {
				gs.Units[i].Coast = NoCoast
			}
		}
	}

	remaining := gs.Units[:0]
	for _, u := range gs.Units {
		if !dislodgedSet[unitKey{u.Power, u.Province}] {
			remaining = append(remaining, u)
		}
	}
	gs.Units = remaining
	gs.Dislodged = dislodged
}

// Resolver is a reusable adjudicator: allocate once with NewResolver and
// call Resolve repeatedly to avoid reallocating its working buffers on
// every phase. The slices Resolve/Apply hand back are owned by the
// Resolver and are only valid until the next Resolve call.
type Resolver struct {
	e engine

	resBuf  []ResolvedOrder
	disBuf  []DislodgedUnit
	winners map[string]string // move target -> mover, for dislodgement lookups

	dislodgedSet map[unitKey]bool
	movesMap     map[unitKey]moveOutcome
}

// NewResolver creates a reusable resolver sized for capacity orders per
// phase (e.g. 34 for a full 7-power board).
func NewResolver(capacity int) *Resolver {
	rv := &Resolver{
		e: engine{
			nodes: make([]orderNode, 0, capacity),
		},
		resBuf:       make([]ResolvedOrder, 0, capacity),
		disBuf:       make([]DislodgedUnit, 0, 4),
		winners:      make(map[string]string, capacity),
		dislodgedSet: make(map[unitKey]bool, 4),
		movesMap:     make(map[unitKey]moveOutcome, capacity),
	}
	for i := range rv.e.slotOf {
		rv.e.slotOf[i] = -1
	}
	return rv
}

// Resolve adjudicates orders against gs/m and returns the resolved orders
// plus dislodged units, reusing the Resolver's internal buffers.
func (rv *Resolver) Resolve(orders []Order, gs *GameState, m *DiplomacyMap) ([]ResolvedOrder, []DislodgedUnit) {
	rv.reset(orders, gs, m)

	for i := range rv.e.nodes {
		rv.e.adjudicate(rv.e.nodes[i].locIdx)
	}

	return rv.collectResults()
}

func (rv *Resolver) reset(orders []Order, gs *GameState, m *DiplomacyMap) {
	e := &rv.e
	n := len(orders)
	if cap(e.nodes) >= n {
		e.nodes = e.nodes[:n]
	} else {
		e.nodes = make([]orderNode, n)
	}
	e.orders = orders
	e.state = gs
	e.board = m
	e.indexOrders()
}

func (rv *Resolver) collectResults() ([]ResolvedOrder, []DislodgedUnit) {
	rv.resBuf = rv.resBuf[:0]
	rv.disBuf = rv.disBuf[:0]
	clear(rv.winners)

	e := &rv.e
	for i := range e.nodes {
		n := &e.nodes[i]
		if n.order.Type == OrderMove && n.succeeds {
			rv.winners[n.order.Target] = n.order.Location
		}
	}

	for _, o := range e.orders {
		n := e.nodeAtLoc(o.Location)
		if n == nil {
			continue
		}

		result := classifyResult(o, n.succeeds)

		if attacker, taken := rv.winners[o.Location]; taken {
			if o.Type != OrderMove || !n.succeeds {
				result = ResultDislodged
				rv.disBuf = append(rv.disBuf, dislodgedUnitFrom(o, attacker))
			}
		}

		rv.resBuf = append(rv.resBuf, ResolvedOrder{Order: o, Result: result})
	}

	return rv.resBuf, rv.disBuf
}

// Apply updates gs using the results from the most recent Resolve call.
func (rv *Resolver) Apply(gs *GameState, m *DiplomacyMap) {
	clear(rv.dislodgedSet)
	clear(rv.movesMap)

	for _, d := range rv.disBuf {
		rv.dislodgedSet[unitKey{d.Unit.Power, d.DislodgedFrom}] = true
	}

	for _, ro := range rv.resBuf {
		if ro.Order.Type == OrderMove && ro.Result == ResultSucceeded {
			rv.movesMap[unitKey{ro.Order.Power, ro.Order.Location}] = moveOutcome{
				target:      ro.Order.Target,
				targetCoast: ro.Order.TargetCoast,
				clearCoast:  ro.Order.TargetCoast == NoCoast && !m.HasCoasts(ro.Order.Target),
			}
		}
	}
	applyMoves(gs, rv.movesMap, rv.dislodgedSet, rv.disBuf)
}

// HasDislodged reports whether the last Resolve call produced any
// dislodged units.
func (rv *Resolver) HasDislodged() bool {
	return len(rv.disBuf) > 0
}
