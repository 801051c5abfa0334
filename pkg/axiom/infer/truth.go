package infer

// Truth is a value in the three-valued lattice. Undetermined absorbs all
// uncertainty; evaluation never fails.
type Truth int

const (
	Undetermined Truth = iota
	True
	False
)

func (t Truth) String() string {
	switch t {
	case True:
		return "TRUE"
	case False:
		return "FALSE"
	default:
		return "UNDETERMINED"
	}
}

// Symbol returns the formal logic symbol for the value.
func (t Truth) Symbol() string {
	switch t {
	case True:
		return "⊤"
	case False:
		return "⊥"
	default:
		return "?"
	}
}

// Not flips TRUE and FALSE and passes UNDETERMINED through.
func Not(v Truth) Truth {
	switch v {
	case True:
		return False
	case False:
		return True
	default:
		return Undetermined
	}
}

// And is FALSE if either operand is FALSE, TRUE only if both are TRUE.
func And(left, right Truth) Truth {
	switch {
	case left == False || right == False:
		return False
	case left == True && right == True:
		return True
	default:
		return Undetermined
	}
}

// Or is TRUE if either operand is TRUE, FALSE only if both are FALSE.
func Or(left, right Truth) Truth {
	switch {
	case left == True || right == True:
		return True
	case left == False && right == False:
		return False
	default:
		return Undetermined
	}
}

// Xor is never inferred from partial information: any UNDETERMINED operand
// makes it UNDETERMINED; otherwise TRUE iff the operands differ.
func Xor(left, right Truth) Truth {
	if left == Undetermined || right == Undetermined {
		return Undetermined
	}
	if left != right {
		return True
	}
	return False
}

// Implies is TRUE when the antecedent is FALSE, follows the consequent when
// the antecedent is TRUE, and with an UNDETERMINED antecedent is TRUE only
// when the consequent is already TRUE.
func Implies(left, right Truth) Truth {
	switch left {
	case False:
		return True
	case True:
		return right
	default:
		if right == True {
			return True
		}
		return Undetermined
	}
}

// Iff is UNDETERMINED if either side is, else TRUE iff the sides agree.
func Iff(left, right Truth) Truth {
	if left == Undetermined || right == Undetermined {
		return Undetermined
	}
	if left == right {
		return True
	}
	return False
}
