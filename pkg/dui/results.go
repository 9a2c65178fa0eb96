package dui

import (
	"fmt"
	"strconv"
	"strings"
)

// Info is one "info" line emitted by the engine during a search.
type Info struct {
	Depth int
	Nodes int
	NPS   int
	Time  int
	Score int
	PV    string
}

// SearchResults accumulates everything a Go command produced: every info
// line received, plus the terminating bestorders.
type SearchResults struct {
	BestOrders string
	Infos      []Info
}

// EngineID is the engine's self-reported identity from the handshake.
type EngineID struct {
	Name            string
	Author          string
	ProtocolVersion int
}

// EngineOption describes one configuration option the engine advertised
// during the handshake.
type EngineOption struct {
	Name    string
	Type    string
	Default string
	Min     string
	Max     string
	Vars    []string
}

// GoParams bounds a search started by Engine.Go.
type GoParams struct {
	MoveTime int  // milliseconds; 0 means engine default
	Depth    int  // ply limit; 0 means unlimited
	Nodes    int  // node count limit; 0 means unlimited
	Infinite bool // search until Stop is called
}

// String renders GoParams as the suffix of a DUI "go" command.
func (p GoParams) String() string {
	if p.Infinite {
		return "infinite"
	}
	var parts []string
	if p.MoveTime > 0 {
		parts = append(parts, fmt.Sprintf("movetime %d", p.MoveTime))
	}
	if p.Depth > 0 {
		parts = append(parts, fmt.Sprintf("depth %d", p.Depth))
	}
	if p.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %d", p.Nodes))
	}
	return strings.Join(parts, " ")
}

// intField reads the token following key in tokens[i:], returning the
// parsed value and how many extra tokens were consumed.
func intField(tokens []string, i int) (int, int) {
	if i+1 >= len(tokens) {
		return 0, 0
	}
	n, _ := strconv.Atoi(tokens[i+1])
	return n, 1
}

// parseInfo parses one "info" line into an Info; fields absent from the
// line are left zero. A "pv" field runs to the end of the line.
func parseInfo(line string) Info {
	var info Info
	tokens := strings.Fields(line)
	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "info":
		case "depth":
			n, skip := intField(tokens, i)
			info.Depth, i = n, i+skip
		case "nodes":
			n, skip := intField(tokens, i)
			info.Nodes, i = n, i+skip
		case "nps":
			n, skip := intField(tokens, i)
			info.NPS, i = n, i+skip
		case "time":
			n, skip := intField(tokens, i)
			info.Time, i = n, i+skip
		case "score":
			n, skip := intField(tokens, i)
			info.Score, i = n, i+skip
		case "pv":
			info.PV = strings.Join(tokens[i+1:], " ")
			return info
		}
	}
	return info
}

// parseEngineOption parses one "option" handshake line:
// "option name <id> type <type> [default <x>] [min <x>] [max <x>] [var <x> ...]".
func parseEngineOption(line string) EngineOption {
	var opt EngineOption
	tokens := strings.Fields(line)

	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "option":
		case "name":
			if i+1 < len(tokens) {
				i++
				opt.Name = tokens[i]
			}
		case "type":
			if i+1 < len(tokens) {
				i++
				opt.Type = tokens[i]
			}
		case "default":
			if i+1 < len(tokens) {
				i++
				opt.Default = tokens[i]
			}
		case "min":
			if i+1 < len(tokens) {
				i++
				opt.Min = tokens[i]
			}
		case "max":
			if i+1 < len(tokens) {
				i++
				opt.Max = tokens[i]
			}
		case "var":
			if i+1 < len(tokens) {
				i++
				opt.Vars = append(opt.Vars, tokens[i])
			}
		}
	}
	return opt
}
