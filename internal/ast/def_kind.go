package ast

// DefKind is the definition vocabulary shared by definitions and usages.
// A 'part def' and a 'part' usage carry the same kind.
type DefKind uint8

const (
	DefPart DefKind = iota
	DefItem
	DefAttribute
	DefPort
	DefAction
	DefConnection
	DefInterface
	DefRequirement
	DefConstraint
	DefState
	DefCalc
	DefEnum

	// DefPackage tags package symbols in layers that need a single kind
	// vocabulary. The parser never produces it on Definition nodes.
	DefPackage
)

var defKindNames = [...]string{
	DefPart:        "part",
	DefItem:        "item",
	DefAttribute:   "attribute",
	DefPort:        "port",
	DefAction:      "action",
	DefConnection:  "connection",
	DefInterface:   "interface",
	DefRequirement: "requirement",
	DefConstraint:  "constraint",
	DefState:       "state",
	DefCalc:        "calc",
	DefEnum:        "enum",
	DefPackage:     "package",
}

func (k DefKind) String() string {
	if int(k) < len(defKindNames) {
		return defKindNames[k]
	}
	return "def(?)"
}

// DefKinds lists every kind the parser produces, in declaration order.
var DefKinds = []DefKind{
	DefPart, DefItem, DefAttribute, DefPort, DefAction, DefConnection,
	DefInterface, DefRequirement, DefConstraint, DefState, DefCalc, DefEnum,
}
