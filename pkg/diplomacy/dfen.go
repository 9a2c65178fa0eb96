package diplomacy

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// powerToChar is the DFEN single-character abbreviation for each power.
var powerToChar = map[Power]byte{
	Austria: 'A',
	England: 'E',
	France:  'F',
	Germany: 'G',
	Italy:   'I',
	Russia:  'R',
	Turkey:  'T',
	Neutral: 'N',
}

// charToPower inverts powerToChar.
var charToPower = map[byte]Power{
	'A': Austria,
	'E': England,
	'F': France,
	'G': Germany,
	'I': Italy,
	'R': Russia,
	'T': Turkey,
	'N': Neutral,
}

// powerOrder is the canonical power ordering used for deterministic DFEN
// output.
var powerOrder = []Power{Austria, England, France, Germany, Italy, Russia, Turkey}

var seasonToChar = map[Season]byte{
	Spring: 's',
	Fall:   'f',
}

var charToSeason = map[byte]Season{
	's': Spring,
	'f': Fall,
}

var phaseToChar = map[PhaseType]byte{
	PhaseMovement: 'm',
	PhaseRetreat:  'r',
	PhaseBuild:    'b',
}

var charToPhase = map[byte]PhaseType{
	'm': PhaseMovement,
	'r': PhaseRetreat,
	'b': PhaseBuild,
}

// EncodeDFEN serializes a GameState to its DFEN string: four '/'-separated
// sections (phase info, units, supply centers, dislodged units), each
// sorted into power order and then alphabetically, so identical states
// always produce byte-identical output.
func EncodeDFEN(gs *GameState) string {
	var b strings.Builder
	b.Grow(512)

	writePhaseInfo(&b, gs)
	b.WriteByte('/')
	writeUnits(&b, gs)
	b.WriteByte('/')
	writeSupplyCenters(&b, gs)
	b.WriteByte('/')
	writeDislodged(&b, gs)

	return b.String()
}

func writePhaseInfo(b *strings.Builder, gs *GameState) {
	b.WriteString(strconv.Itoa(gs.Year))
	b.WriteByte(seasonToChar[gs.Season])
	b.WriteByte(phaseToChar[gs.Phase])
}

// writeLocation appends a province, plus a dot-separated coast suffix when
// one is set.
func writeLocation(b *strings.Builder, province string, coast Coast) {
	b.WriteString(province)
	if coast != NoCoast {
		b.WriteByte('.')
		b.WriteString(string(coast))
	}
}

func writeUnitKind(b *strings.Builder, t UnitType) {
	if t == Army {
		b.WriteByte('a')
	} else {
		b.WriteByte('f')
	}
}

func writeUnits(b *strings.Builder, gs *GameState) {
	if len(gs.Units) == 0 {
		b.WriteByte('-')
		return
	}

	byPower := make(map[Power][]Unit, len(powerOrder))
	for _, u := range gs.Units {
		byPower[u.Power] = append(byPower[u.Power], u)
	}

	wrote := false
	for _, power := range powerOrder {
		units := byPower[power]
		sort.Slice(units, func(i, j int) bool { return units[i].Province < units[j].Province })
		for _, u := range units {
			if wrote {
				b.WriteByte(',')
			}
			wrote = true
			b.WriteByte(powerToChar[u.Power])
			writeUnitKind(b, u.Type)
			writeLocation(b, u.Province, u.Coast)
		}
	}

	if !wrote {
		b.WriteByte('-')
	}
}

func writeSupplyCenters(b *strings.Builder, gs *GameState) {
	byPower := make(map[Power][]string)
	for prov, power := range gs.SupplyCenters {
		byPower[power] = append(byPower[power], prov)
	}
	for _, provs := range byPower {
		sort.Strings(provs)
	}

	order := append(append([]Power{}, powerOrder...), Neutral)

	wrote := false
	for _, power := range order {
		for _, prov := range byPower[power] {
			if wrote {
				b.WriteByte(',')
			}
			wrote = true
			b.WriteByte(powerToChar[power])
			b.WriteString(prov)
		}
	}
}

func writeDislodged(b *strings.Builder, gs *GameState) {
	if len(gs.Dislodged) == 0 {
		b.WriteByte('-')
		return
	}

	sorted := make([]DislodgedUnit, len(gs.Dislodged))
	copy(sorted, gs.Dislodged)
	sort.Slice(sorted, func(i, j int) bool {
		pi, pj := powerToChar[sorted[i].Unit.Power], powerToChar[sorted[j].Unit.Power]
		if pi != pj {
			return pi < pj
		}
		return sorted[i].Unit.Province < sorted[j].Unit.Province
	})

	for i, d := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(powerToChar[d.Unit.Power])
		writeUnitKind(b, d.Unit.Type)
		writeLocation(b, d.Unit.Province, d.Unit.Coast)
		b.WriteByte('<')
		b.WriteString(d.AttackerFrom)
	}
}

// DecodeDFEN parses a DFEN string back into a GameState.
func DecodeDFEN(s string) (*GameState, error) {
	sections := strings.SplitN(s, "/", 4)
	if len(sections) != 4 {
		return nil, fmt.Errorf("dfen: expected 4 sections separated by '/', got %d", len(sections))
	}

	gs := &GameState{}

	if err := readPhaseInfo(sections[0], gs); err != nil {
		return nil, err
	}
	if err := readUnits(sections[1], gs); err != nil {
		return nil, err
	}
	if err := readSupplyCenters(sections[2], gs); err != nil {
		return nil, err
	}
	if err := readDislodged(sections[3], gs); err != nil {
		return nil, err
	}

	return gs, nil
}

// readPhaseInfo parses a string like "1901sm" into year/season/phase.
func readPhaseInfo(s string, gs *GameState) error {
	if len(s) < 3 {
		return fmt.Errorf("dfen: phase info too short: %q", s)
	}

	phaseChar := s[len(s)-1]
	seasonChar := s[len(s)-2]
	yearStr := s[:len(s)-2]

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return fmt.Errorf("dfen: invalid year %q: %w", yearStr, err)
	}

	season, ok := charToSeason[seasonChar]
	if !ok {
		return fmt.Errorf("dfen: invalid season %q", string(seasonChar))
	}

	phase, ok := charToPhase[phaseChar]
	if !ok {
		return fmt.Errorf("dfen: invalid phase %q", string(phaseChar))
	}

	gs.Year = year
	gs.Season = season
	gs.Phase = phase
	return nil
}

// readUnits parses "Aavie,Aabud,Aftri,..." or "-".
func readUnits(s string, gs *GameState) error {
	if s == "-" {
		return nil
	}
	for entry := range strings.SplitSeq(s, ",") {
		u, err := parseUnitEntry(entry)
		if err != nil {
			return fmt.Errorf("dfen: unit %q: %w", entry, err)
		}
		gs.Units = append(gs.Units, u)
	}
	return nil
}

// parseUnitEntry parses one entry like "Aavie" or "Rfstp.sc".
func parseUnitEntry(s string) (Unit, error) {
	if len(s) < 5 {
		return Unit{}, fmt.Errorf("too short")
	}

	power, ok := charToPower[s[0]]
	if !ok || power == Neutral {
		return Unit{}, fmt.Errorf("invalid power char %q", string(s[0]))
	}

	var unitType UnitType
	switch s[1] {
	case 'a':
		unitType = Army
	case 'f':
		unitType = Fleet
	default:
		return Unit{}, fmt.Errorf("invalid unit type %q", string(s[1]))
	}

	province, coast, err := parseLocation(s[2:])
	if err != nil {
		return Unit{}, err
	}

	return Unit{Type: unitType, Power: power, Province: province, Coast: coast}, nil
}

// parseLocation parses a DFEN location like "vie" or "stp.sc".
func parseLocation(s string) (string, Coast, error) {
	province, coastPart, hasCoast := strings.Cut(s, ".")
	if len(province) != 3 {
		return "", NoCoast, fmt.Errorf("invalid province id %q (must be 3 lowercase letters)", province)
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

// readSupplyCenters parses "Abud,Atri,Avie,...".
func readSupplyCenters(s string, gs *GameState) error {
	gs.SupplyCenters = make(map[string]Power)
	for entry := range strings.SplitSeq(s, ",") {
		if len(entry) < 4 {
			return fmt.Errorf("dfen: sc entry too short: %q", entry)
		}
		power, ok := charToPower[entry[0]]
		if !ok {
			return fmt.Errorf("dfen: invalid power in sc %q", entry)
		}
		prov := entry[1:]
		if len(prov) != 3 {
			return fmt.Errorf("dfen: invalid province in sc %q", entry)
		}
		gs.SupplyCenters[prov] = power
	}
	return nil
}

// readDislodged parses "Aaser<bul,Rfsev<bla" or "-".
func readDislodged(s string, gs *GameState) error {
	if s == "-" {
		return nil
	}
	for entry := range strings.SplitSeq(s, ",") {
		d, err := parseDislodgedEntry(entry)
		if err != nil {
			return fmt.Errorf("dfen: dislodged %q: %w", entry, err)
		}
		gs.Dislodged = append(gs.Dislodged, d)
	}
	return nil
}

// parseDislodgedEntry parses "Aaser<bul" or "Rfstp.sc<rum".
func parseDislodgedEntry(s string) (DislodgedUnit, error) {
	unitPart, attackerFrom, ok := strings.Cut(s, "<")
	if !ok {
		return DislodgedUnit{}, fmt.Errorf("missing '<' separator")
	}
	if len(attackerFrom) != 3 {
		return DislodgedUnit{}, fmt.Errorf("invalid attacker province %q", attackerFrom)
	}

	u, err := parseUnitEntry(unitPart)
	if err != nil {
		return DislodgedUnit{}, err
	}

	return DislodgedUnit{Unit: u, DislodgedFrom: u.Province, AttackerFrom: attackerFrom}, nil
}
