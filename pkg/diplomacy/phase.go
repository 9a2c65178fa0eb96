package diplomacy

// NextPhase computes the phase that follows the current one:
// Movement -> Retreat (if anything was dislodged) or straight on to the
// next season's Movement/Build; Retreat -> wherever that season's
// Movement would have gone (Spring to Fall Movement, Fall to Build); Build ->
// Spring Movement of the following year.
func NextPhase(gs *GameState, hasDislodgements bool) (Season, PhaseType) {
	switch gs.Phase {
	case PhaseMovement:
		if hasDislodgements {
			return gs.Season, PhaseRetreat
		}
		return afterMovement(gs.Season)
	case PhaseRetreat:
		return afterMovement(gs.Season)
	case PhaseBuild:
		return Spring, PhaseMovement
	}
	return Spring, PhaseMovement
}

// afterMovement is where a season goes once its movement (and any
// retreats) are done: Spring moves on to Fall movement, Fall moves on to
// the Build phase.
func afterMovement(season Season) (Season, PhaseType) {
	if season == Spring {
		return Fall, PhaseMovement
	}
	return Fall, PhaseBuild
}

// NeedsBuildPhase reports whether any power's unit count no longer
// matches its supply center count, meaning adjustments are owed.
func NeedsBuildPhase(gs *GameState) bool {
	for _, power := range AllPowers() {
		if gs.SupplyCenterCount(power) != gs.UnitCount(power) {
			return true
		}
	}
	return false
}

// MaxYear is the year a game is ruled a draw at, if play runs on that long.
const MaxYear = 3000

// IsYearLimitReached reports whether the game has run past MaxYear.
func IsYearLimitReached(gs *GameState) bool {
	return gs.Year > MaxYear
}

// IsGameOver reports whether a power has reached the 18-center solo
// victory threshold, and which one.
func IsGameOver(gs *GameState) (bool, Power) {
	for _, power := range AllPowers() {
		if gs.SupplyCenterCount(power) >= 18 {
			return true, power
		}
	}
	return false, Neutral
}

// AdvanceState moves gs to the phase following its current one. Supply
// center ownership is refreshed whenever a Fall movement or Fall retreat
// just concluded. Callers must have already applied the phase's
// resolution results to gs.Units before calling this.
func AdvanceState(gs *GameState, hasDislodgements bool) {
	nextSeason, nextPhase := NextPhase(gs, hasDislodgements)

	if gs.Season == Fall && (gs.Phase == PhaseMovement || gs.Phase == PhaseRetreat) {
		UpdateSupplyCenterOwnership(gs)
	}

	if nextSeason == Spring && nextPhase == PhaseMovement {
		gs.Year++
	}
	gs.Season = nextSeason
	gs.Phase = nextPhase
	if nextPhase != PhaseRetreat {
		gs.Dislodged = nil
	}
}

// UpdateSupplyCenterOwnership reassigns each supply center to whichever
// power's unit currently occupies it. A center with no occupant keeps its
// existing owner. AdvanceState calls this automatically after Fall
// movement/retreat; it's also safe (idempotent) to call directly when a
// caller needs fresh ownership before AdvanceState runs, e.g. to persist
// a phase's resulting state.
func UpdateSupplyCenterOwnership(gs *GameState) {
	board := StandardMap()
	for provID := range gs.SupplyCenters {
		prov := board.Provinces[provID]
		if prov == nil || !prov.IsSupplyCenter {
			continue
		}
		if unit := gs.UnitAt(provID); unit != nil {
			gs.SupplyCenters[provID] = unit.Power
		}
	}
}

// homeCenters caches each power's home supply centers, computed once on
// first request since the board layout never changes at runtime.
var homeCenters map[Power][]string

// HomeCenters returns the home supply center IDs belonging to power.
func HomeCenters(power Power) []string {
	if homeCenters != nil {
		if c, ok := homeCenters[power]; ok {
			return c
		}
	}
	if homeCenters == nil {
		homeCenters = make(map[Power][]string, len(AllPowers()))
	}
	board := StandardMap()
	var centers []string
	for _, prov := range board.Provinces {
		if prov.HomePower == power && prov.IsSupplyCenter {
			centers = append(centers, prov.ID)
		}
	}
	homeCenters[power] = centers
	return centers
}
