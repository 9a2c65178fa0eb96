package diplomacy

import "fmt"

// OrderType is the kind of instruction a single unit can be given in a
// movement phase.
type OrderType int

const (
	OrderHold    OrderType = iota // stay put
	OrderMove                     // move to an adjacent province
	OrderSupport                  // support another unit's hold or move
	OrderConvoy                   // fleet ferries an army across sea
)

func (o OrderType) String() string {
	switch o {
	case OrderHold:
		return "hold"
	case OrderMove:
		return "move"
	case OrderSupport:
		return "support"
	case OrderConvoy:
		return "convoy"
	default:
		return "unknown"
	}
}

// Order is one instruction issued to one unit for the current phase.
// Which of the Target*/Aux* fields are meaningful depends on Type.
type Order struct {
	// The ordered unit.
	UnitType UnitType
	Power    Power
	Location string
	Coast    Coast // set only for a fleet on a split-coast province

	Type OrderType

	// Target is the destination for OrderMove, or unused otherwise.
	Target      string
	TargetCoast Coast

	// AuxLoc/AuxTarget/AuxUnitType describe the *other* unit an order
	// refers to:
	//   OrderSupport: the supported unit's location, its move destination
	//     (empty for a support-hold), and its type.
	//   OrderConvoy: the convoyed army's location and its move destination.
	AuxLoc      string
	AuxTarget   string
	AuxUnitType UnitType
}

// OrderResult is the adjudicated outcome of one order.
type OrderResult int

const (
	ResultSucceeded OrderResult = iota
	ResultFailed                // the order could not take effect (disrupted convoy, build/disband beyond the allowance)
	ResultDislodged            // the ordered unit was dislodged
	ResultBounced              // a move failed to displace the occupant
	ResultCut                  // a support order was cut
	ResultVoid                 // the order was invalid and treated as a hold
)

func (r OrderResult) String() string {
	switch r {
	case ResultSucceeded:
		return "succeeded"
	case ResultFailed:
		return "failed"
	case ResultDislodged:
		return "dislodged"
	case ResultBounced:
		return "bounced"
	case ResultCut:
		return "cut"
	case ResultVoid:
		return "void"
	default:
		return "unknown"
	}
}

// ResolvedOrder pairs a submitted order with what the adjudicator decided.
type ResolvedOrder struct {
	Order  Order
	Result OrderResult
}

// unitLetter renders a UnitType in the single-letter notation orders use.
func unitLetter(t UnitType) string {
	if t == Fleet {
		return "F"
	}
	return "A"
}

// Describe renders an order in standard Diplomacy notation, e.g.
// "F spa/sc S A mar -> pie" or "A par Hold".
func (o *Order) Describe() string {
	loc := o.Location
	if o.Coast != NoCoast {
		loc += "/" + string(o.Coast)
	}

	switch o.Type {
	case OrderHold:
		return fmt.Sprintf("%s %s Hold", unitLetter(o.UnitType), loc)
	case OrderMove:
		target := o.Target
		if o.TargetCoast != NoCoast {
			target += "/" + string(o.TargetCoast)
		}
		return fmt.Sprintf("%s %s -> %s", unitLetter(o.UnitType), loc, target)
	case OrderSupport:
		if o.AuxTarget == "" {
			return fmt.Sprintf("%s %s S %s %s Hold", unitLetter(o.UnitType), loc, unitLetter(o.AuxUnitType), o.AuxLoc)
		}
		return fmt.Sprintf("%s %s S %s %s -> %s", unitLetter(o.UnitType), loc, unitLetter(o.AuxUnitType), o.AuxLoc, o.AuxTarget)
	case OrderConvoy:
		return fmt.Sprintf("%s %s C A %s -> %s", unitLetter(o.UnitType), loc, o.AuxLoc, o.AuxTarget)
	default:
		return fmt.Sprintf("%s %s ???", unitLetter(o.UnitType), loc)
	}
}
