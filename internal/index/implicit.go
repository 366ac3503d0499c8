package index

import "syster/internal/ast"

// implicitRoots maps every definition kind to its language-mandated
// root supertype. The edges are consulted during chain walks and never
// materialized as tree nodes.
var implicitRoots = map[ast.DefKind]string{
	ast.DefPart:        "Parts::Part",
	ast.DefItem:        "Items::Item",
	ast.DefAttribute:   "Base::DataValue",
	ast.DefPort:        "Ports::Port",
	ast.DefAction:      "Actions::Action",
	ast.DefConnection:  "Connections::Connection",
	ast.DefInterface:   "Interfaces::Interface",
	ast.DefRequirement: "Requirements::RequirementCheck",
	ast.DefConstraint:  "Constraints::ConstraintCheck",
	ast.DefState:       "States::StateAction",
	ast.DefCalc:        "Calculations::Calculation",
	ast.DefEnum:        "Attributes::AttributeValue",
}

// ImplicitRoot returns the implicit supertype's qualified name for a
// definition kind. Packages have none.
func ImplicitRoot(kind ast.DefKind) (string, bool) {
	name, ok := implicitRoots[kind]
	return name, ok
}
