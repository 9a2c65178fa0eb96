package diplomacy

import (
	"sort"
	"sync"
)

var (
	standardMapOnce sync.Once
	standardMapInst *DiplomacyMap
)

// StandardMap returns the standard 75-province Diplomacy map, built once
// and cached for the lifetime of the process. The returned pointer is
// shared across every caller, so callers must never mutate it.
func StandardMap() *DiplomacyMap {
	standardMapOnce.Do(func() {
		standardMapInst = buildStandardMap()
	})
	return standardMapInst
}

// buildStandardMap assembles the 1901 standard map: 75 provinces and the
// full adjacency graph between them. The board data below is copied from
// the ruleset, not derived — every province and edge is a game fact, and
// none of it should be "simplified" without checking a rulebook first.
func buildStandardMap() *DiplomacyMap {
	m := &DiplomacyMap{
		Provinces:   make(map[string]*Province, ProvinceCount),
		Adjacencies: make(map[string][]Adjacency, 150),
	}

	// register defines one province.
	register := func(id, name string, pt ProvinceType, isSC bool, home Power, coasts ...Coast) {
		m.Provinces[id] = &Province{
			ID:             id,
			Name:           name,
			Type:           pt,
			IsSupplyCenter: isSC,
			HomePower:      home,
			Coasts:         coasts,
		}
	}

	// link records a single directed edge.
	link := func(from string, fromCoast Coast, to string, toCoast Coast, armyOK, fleetOK bool) {
		m.Adjacencies[from] = append(m.Adjacencies[from], Adjacency{
			From:      from,
			FromCoast: fromCoast,
			To:        to,
			ToCoast:   toCoast,
			ArmyOK:    armyOK,
			FleetOK:   fleetOK,
		})
	}

	// linkArmy joins two provinces with a bidirectional army-only edge.
	linkArmy := func(from, to string) {
		link(from, NoCoast, to, NoCoast, true, false)
		link(to, NoCoast, from, NoCoast, true, false)
	}

	// linkFleet joins two provinces (optionally naming a specific coast on
	// each side) with a bidirectional fleet-only edge.
	linkFleet := func(from string, fromCoast Coast, to string, toCoast Coast) {
		link(from, fromCoast, to, toCoast, false, true)
		link(to, toCoast, from, fromCoast, false, true)
	}

	// linkBoth joins two provinces with a bidirectional edge usable by
	// either unit type.
	linkBoth := func(from, to string) {
		link(from, NoCoast, to, NoCoast, true, true)
		link(to, NoCoast, from, NoCoast, true, true)
	}

	// =========================================================================
	// Provinces: 14 inland + 39 coastal + 3 split-coast + 19 sea = 75
	// =========================================================================

	// --- Inland (14) ---
	register("boh", "Bohemia", Land, false, Neutral)
	register("bud", "Budapest", Land, true, Austria)
	register("bur", "Burgundy", Land, false, Neutral)
	register("gal", "Galicia", Land, false, Neutral)
	register("mos", "Moscow", Land, true, Russia)
	register("mun", "Munich", Land, true, Germany)
	register("par", "Paris", Land, true, France)
	register("ruh", "Ruhr", Land, false, Neutral)
	register("ser", "Serbia", Land, true, Neutral)
	register("sil", "Silesia", Land, false, Neutral)
	register("tyr", "Tyrolia", Land, false, Neutral)
	register("ukr", "Ukraine", Land, false, Neutral)
	register("vie", "Vienna", Land, true, Austria)
	register("war", "Warsaw", Land, true, Russia)

	// --- Coastal, single coast (39) ---
	register("alb", "Albania", Coastal, false, Neutral)
	register("ank", "Ankara", Coastal, true, Turkey)
	register("apu", "Apulia", Coastal, false, Neutral)
	register("arm", "Armenia", Coastal, false, Neutral)
	register("bel", "Belgium", Coastal, true, Neutral)
	register("ber", "Berlin", Coastal, true, Germany)
	register("bre", "Brest", Coastal, true, France)
	register("cly", "Clyde", Coastal, false, Neutral)
	register("con", "Constantinople", Coastal, true, Turkey)
	register("den", "Denmark", Coastal, true, Neutral)
	register("edi", "Edinburgh", Coastal, true, England)
	register("fin", "Finland", Coastal, false, Neutral)
	register("gas", "Gascony", Coastal, false, Neutral)
	register("gre", "Greece", Coastal, true, Neutral)
	register("hol", "Holland", Coastal, true, Neutral)
	register("kie", "Kiel", Coastal, true, Germany)
	register("lon", "London", Coastal, true, England)
	register("lvn", "Livonia", Coastal, false, Neutral)
	register("lvp", "Liverpool", Coastal, true, England)
	register("mar", "Marseilles", Coastal, true, France)
	register("naf", "North Africa", Coastal, false, Neutral)
	register("nap", "Naples", Coastal, true, Italy)
	register("nwy", "Norway", Coastal, true, Neutral)
	register("pic", "Picardy", Coastal, false, Neutral)
	register("pie", "Piedmont", Coastal, false, Neutral)
	register("por", "Portugal", Coastal, true, Neutral)
	register("pru", "Prussia", Coastal, false, Neutral)
	register("rom", "Rome", Coastal, true, Italy)
	register("rum", "Rumania", Coastal, true, Neutral)
	register("sev", "Sevastopol", Coastal, true, Russia)
	register("smy", "Smyrna", Coastal, true, Turkey)
	register("swe", "Sweden", Coastal, true, Neutral)
	register("syr", "Syria", Coastal, false, Neutral)
	register("tri", "Trieste", Coastal, true, Austria)
	register("tun", "Tunisia", Coastal, true, Neutral)
	register("tus", "Tuscany", Coastal, false, Neutral)
	register("ven", "Venice", Coastal, true, Italy)
	register("wal", "Wales", Coastal, false, Neutral)
	register("yor", "Yorkshire", Coastal, false, Neutral)

	// --- Split-coast (3) ---
	register("bul", "Bulgaria", Coastal, true, Neutral, EastCoast, SouthCoast)
	register("spa", "Spain", Coastal, true, Neutral, NorthCoast, SouthCoast)
	register("stp", "St. Petersburg", Coastal, true, Russia, NorthCoast, SouthCoast)

	// --- Sea (19) ---
	register("adr", "Adriatic Sea", Sea, false, Neutral)
	register("aeg", "Aegean Sea", Sea, false, Neutral)
	register("bal", "Baltic Sea", Sea, false, Neutral)
	register("bar", "Barents Sea", Sea, false, Neutral)
	register("bla", "Black Sea", Sea, false, Neutral)
	register("bot", "Gulf of Bothnia", Sea, false, Neutral)
	register("eas", "Eastern Mediterranean", Sea, false, Neutral)
	register("eng", "English Channel", Sea, false, Neutral)
	register("gol", "Gulf of Lyon", Sea, false, Neutral)
	register("hel", "Heligoland Bight", Sea, false, Neutral)
	register("ion", "Ionian Sea", Sea, false, Neutral)
	register("iri", "Irish Sea", Sea, false, Neutral)
	register("mao", "Mid-Atlantic Ocean", Sea, false, Neutral)
	register("nao", "North Atlantic Ocean", Sea, false, Neutral)
	register("nrg", "Norwegian Sea", Sea, false, Neutral)
	register("nth", "North Sea", Sea, false, Neutral)
	register("ska", "Skagerrak", Sea, false, Neutral)
	register("tys", "Tyrrhenian Sea", Sea, false, Neutral)
	register("wes", "Western Mediterranean", Sea, false, Neutral)

	// =========================================================================
	// Adjacencies. Every pair appears once below, except split-coast pairs,
	// which get one linkFleet per coast plus a linkArmy. linkArmy/linkFleet/
	// linkBoth each add both directions.
	//
	//   linkFleet - sea<->sea, sea<->coastal, or coastal<->coastal joined
	//               only by water
	//   linkArmy  - involves an inland province, or coastal<->coastal joined
	//               only by land
	//   linkBoth  - coastal<->coastal joined by both land and water
	//
	// Split-coast provinces (spa, stp, bul) take army edges through linkArmy
	// (armies ignore coasts) and fleet edges through linkFleet with the
	// coast that borders the water in question.
	// =========================================================================

	// ---- Sea-to-sea ----
	linkFleet("adr", NoCoast, "ion", NoCoast)
	linkFleet("aeg", NoCoast, "eas", NoCoast)
	linkFleet("aeg", NoCoast, "ion", NoCoast)
	linkFleet("bal", NoCoast, "bot", NoCoast)
	linkFleet("eng", NoCoast, "iri", NoCoast)
	linkFleet("eng", NoCoast, "mao", NoCoast)
	linkFleet("eng", NoCoast, "nth", NoCoast)
	linkFleet("gol", NoCoast, "tys", NoCoast)
	linkFleet("gol", NoCoast, "wes", NoCoast)
	linkFleet("hel", NoCoast, "nth", NoCoast)
	linkFleet("ion", NoCoast, "eas", NoCoast)
	linkFleet("ion", NoCoast, "tys", NoCoast)
	linkFleet("iri", NoCoast, "mao", NoCoast)
	linkFleet("iri", NoCoast, "nao", NoCoast)
	linkFleet("mao", NoCoast, "nao", NoCoast)
	linkFleet("mao", NoCoast, "wes", NoCoast)
	linkFleet("nao", NoCoast, "nrg", NoCoast)
	linkFleet("nth", NoCoast, "nrg", NoCoast)
	linkFleet("nth", NoCoast, "ska", NoCoast)
	linkFleet("nrg", NoCoast, "bar", NoCoast)
	linkFleet("tys", NoCoast, "wes", NoCoast)

	// ---- Sea-to-coastal ----

	// Adriatic Sea
	linkFleet("adr", NoCoast, "alb", NoCoast)
	linkFleet("adr", NoCoast, "apu", NoCoast)
	linkFleet("adr", NoCoast, "tri", NoCoast)
	linkFleet("adr", NoCoast, "ven", NoCoast)

	// Aegean Sea
	linkFleet("aeg", NoCoast, "bul", SouthCoast)
	linkFleet("aeg", NoCoast, "con", NoCoast)
	linkFleet("aeg", NoCoast, "gre", NoCoast)
	linkFleet("aeg", NoCoast, "smy", NoCoast)

	// Baltic Sea
	linkFleet("bal", NoCoast, "ber", NoCoast)
	linkFleet("bal", NoCoast, "den", NoCoast)
	linkFleet("bal", NoCoast, "kie", NoCoast)
	linkFleet("bal", NoCoast, "lvn", NoCoast)
	linkFleet("bal", NoCoast, "pru", NoCoast)
	linkFleet("bal", NoCoast, "swe", NoCoast)

	// Barents Sea
	linkFleet("bar", NoCoast, "nwy", NoCoast)
	linkFleet("bar", NoCoast, "stp", NorthCoast)

	// Black Sea
	linkFleet("bla", NoCoast, "ank", NoCoast)
	linkFleet("bla", NoCoast, "arm", NoCoast)
	linkFleet("bla", NoCoast, "bul", EastCoast)
	linkFleet("bla", NoCoast, "con", NoCoast)
	linkFleet("bla", NoCoast, "rum", NoCoast)
	linkFleet("bla", NoCoast, "sev", NoCoast)

	// Gulf of Bothnia
	linkFleet("bot", NoCoast, "fin", NoCoast)
	linkFleet("bot", NoCoast, "lvn", NoCoast)
	linkFleet("bot", NoCoast, "stp", SouthCoast)
	linkFleet("bot", NoCoast, "swe", NoCoast)

	// Eastern Mediterranean
	linkFleet("eas", NoCoast, "smy", NoCoast)
	linkFleet("eas", NoCoast, "syr", NoCoast)

	// English Channel
	linkFleet("eng", NoCoast, "bel", NoCoast)
	linkFleet("eng", NoCoast, "bre", NoCoast)
	linkFleet("eng", NoCoast, "lon", NoCoast)
	linkFleet("eng", NoCoast, "pic", NoCoast)
	linkFleet("eng", NoCoast, "wal", NoCoast)

	// Gulf of Lyon
	linkFleet("gol", NoCoast, "mar", NoCoast)
	linkFleet("gol", NoCoast, "pie", NoCoast)
	linkFleet("gol", NoCoast, "spa", SouthCoast)
	linkFleet("gol", NoCoast, "tus", NoCoast)

	// Heligoland Bight
	linkFleet("hel", NoCoast, "den", NoCoast)
	linkFleet("hel", NoCoast, "hol", NoCoast)
	linkFleet("hel", NoCoast, "kie", NoCoast)

	// Ionian Sea
	linkFleet("ion", NoCoast, "alb", NoCoast)
	linkFleet("ion", NoCoast, "apu", NoCoast)
	linkFleet("ion", NoCoast, "gre", NoCoast)
	linkFleet("ion", NoCoast, "nap", NoCoast)
	linkFleet("ion", NoCoast, "tun", NoCoast)

	// Irish Sea
	linkFleet("iri", NoCoast, "lvp", NoCoast)
	linkFleet("iri", NoCoast, "wal", NoCoast)

	// Mid-Atlantic Ocean
	linkFleet("mao", NoCoast, "bre", NoCoast)
	linkFleet("mao", NoCoast, "gas", NoCoast)
	linkFleet("mao", NoCoast, "naf", NoCoast)
	linkFleet("mao", NoCoast, "por", NoCoast)
	linkFleet("mao", NoCoast, "spa", NorthCoast)
	linkFleet("mao", NoCoast, "spa", SouthCoast)

	// North Atlantic Ocean
	linkFleet("nao", NoCoast, "cly", NoCoast)
	linkFleet("nao", NoCoast, "lvp", NoCoast)

	// North Sea
	linkFleet("nth", NoCoast, "bel", NoCoast)
	linkFleet("nth", NoCoast, "den", NoCoast)
	linkFleet("nth", NoCoast, "edi", NoCoast)
	linkFleet("nth", NoCoast, "hol", NoCoast)
	linkFleet("nth", NoCoast, "lon", NoCoast)
	linkFleet("nth", NoCoast, "nwy", NoCoast)
	linkFleet("nth", NoCoast, "yor", NoCoast)

	// Norwegian Sea
	linkFleet("nrg", NoCoast, "cly", NoCoast)
	linkFleet("nrg", NoCoast, "edi", NoCoast)
	linkFleet("nrg", NoCoast, "nwy", NoCoast)

	// Skagerrak
	linkFleet("ska", NoCoast, "den", NoCoast)
	linkFleet("ska", NoCoast, "nwy", NoCoast)
	linkFleet("ska", NoCoast, "swe", NoCoast)

	// Tyrrhenian Sea
	linkFleet("tys", NoCoast, "nap", NoCoast)
	linkFleet("tys", NoCoast, "rom", NoCoast)
	linkFleet("tys", NoCoast, "tun", NoCoast)
	linkFleet("tys", NoCoast, "tus", NoCoast)

	// Western Mediterranean
	linkFleet("wes", NoCoast, "naf", NoCoast)
	linkFleet("wes", NoCoast, "spa", SouthCoast)
	linkFleet("wes", NoCoast, "tun", NoCoast)

	// ---- Inland-to-inland ----
	linkArmy("boh", "gal")
	linkArmy("boh", "mun")
	linkArmy("boh", "sil")
	linkArmy("boh", "tyr")
	linkArmy("boh", "vie")
	linkArmy("bud", "gal")
	linkArmy("bud", "vie")
	linkArmy("bur", "mun")
	linkArmy("bur", "par")
	linkArmy("bur", "ruh")
	linkArmy("gal", "sil")
	linkArmy("gal", "ukr")
	linkArmy("gal", "vie")
	linkArmy("gal", "war")
	linkArmy("mos", "ukr")
	linkArmy("mos", "war")
	linkArmy("mun", "ruh")
	linkArmy("mun", "sil")
	linkArmy("mun", "tyr")
	linkArmy("sil", "war")
	linkArmy("tyr", "vie")
	linkArmy("ukr", "war")

	// ---- Inland-to-coastal ----
	linkArmy("bud", "rum")
	linkArmy("bud", "ser")
	linkArmy("bud", "tri")
	linkArmy("bur", "bel")
	linkArmy("bur", "gas")
	linkArmy("bur", "mar")
	linkArmy("bur", "pic")
	linkArmy("gal", "rum")
	linkArmy("gas", "mar")
	linkArmy("mos", "lvn")
	linkArmy("mos", "sev")
	linkArmy("mos", "stp")
	linkArmy("mun", "ber")
	linkArmy("mun", "kie")
	linkArmy("par", "bre")
	linkArmy("par", "gas")
	linkArmy("par", "pic")
	linkArmy("ruh", "bel")
	linkArmy("ruh", "hol")
	linkArmy("ruh", "kie")
	linkArmy("ser", "alb")
	linkArmy("ser", "bul")
	linkArmy("ser", "gre")
	linkArmy("ser", "rum")
	linkArmy("ser", "tri")
	linkArmy("sil", "ber")
	linkArmy("sil", "pru")
	linkArmy("tyr", "pie")
	linkArmy("tyr", "tri")
	linkArmy("tyr", "ven")
	linkArmy("ukr", "rum")
	linkArmy("ukr", "sev")
	linkArmy("vie", "tri")
	linkArmy("war", "lvn")
	linkArmy("war", "pru")

	// ---- Coastal-to-coastal, both land and sea border ----
	linkBoth("alb", "gre")
	linkBoth("alb", "tri")
	linkBoth("ank", "arm")
	linkBoth("ank", "con")
	linkBoth("apu", "nap")
	linkBoth("apu", "ven")
	linkBoth("bel", "hol")
	linkBoth("bel", "pic")
	linkBoth("ber", "kie")
	linkBoth("ber", "pru")
	linkBoth("bre", "gas")
	linkBoth("bre", "pic")
	linkBoth("cly", "edi")
	linkBoth("cly", "lvp")
	linkBoth("con", "smy")
	linkBoth("den", "kie")
	linkBoth("den", "swe")
	linkBoth("edi", "yor")
	linkBoth("fin", "swe")
	linkBoth("hol", "kie")
	linkBoth("lon", "wal")
	linkBoth("lon", "yor")
	linkBoth("lvp", "wal")
	linkBoth("mar", "pie")
	linkBoth("naf", "tun")
	linkBoth("nwy", "swe")
	linkBoth("pie", "tus")
	linkBoth("pru", "lvn")
	linkBoth("rom", "nap")
	linkBoth("rom", "tus")
	linkBoth("sev", "arm")
	linkBoth("sev", "rum")
	linkBoth("smy", "syr")
	linkBoth("tri", "ven")

	// ---- Coastal-to-coastal, land border only (different seas) ----
	linkArmy("ank", "smy")
	linkArmy("apu", "rom")
	linkArmy("arm", "smy")
	linkArmy("arm", "syr")
	linkArmy("edi", "lvp")
	linkArmy("fin", "nwy")
	linkArmy("lvp", "yor")
	linkArmy("pie", "ven")
	linkArmy("rom", "ven")
	linkArmy("tus", "ven")
	linkArmy("wal", "yor")

	// ---- Split-coast fleet edges, one per coast (army links follow below) ----
	linkFleet("con", NoCoast, "bul", EastCoast)
	linkFleet("con", NoCoast, "bul", SouthCoast)
	linkFleet("gre", NoCoast, "bul", SouthCoast)
	linkFleet("rum", NoCoast, "bul", EastCoast)
	linkFleet("gas", NoCoast, "spa", NorthCoast)
	linkFleet("mar", NoCoast, "spa", SouthCoast)
	linkFleet("por", NoCoast, "spa", NorthCoast)
	linkFleet("por", NoCoast, "spa", SouthCoast)
	linkFleet("fin", NoCoast, "stp", SouthCoast)
	linkFleet("lvn", NoCoast, "stp", SouthCoast)
	linkFleet("nwy", NoCoast, "stp", NorthCoast)

	// ---- Coastal-to-coastal/split-coast, land border only ----
	linkArmy("con", "bul")
	linkArmy("gre", "bul")
	linkArmy("rum", "bul")
	linkArmy("gas", "spa")
	linkArmy("mar", "spa")
	linkArmy("por", "spa")
	linkArmy("fin", "stp")
	linkArmy("lvn", "stp")
	linkArmy("nwy", "stp")

	// Dense index, built last and sorted so the assignment is deterministic
	// across runs (Go map iteration order is not).
	ids := make([]string, 0, len(m.Provinces))
	for id := range m.Provinces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	m.indexLookup = make(map[string]int, len(ids))
	for i, id := range ids {
		m.indexLookup[id] = i
		m.idByIndex[i] = id
	}

	return m
}
