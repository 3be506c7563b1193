package typesystem

// Equal decides structural equality of two types.
//
// The case analysis is on b, with a's shape checked inside each case.
// Parameter names never take part in the comparison: only the arity,
// the parameter types in order and the return type do.
func Equal(a, b Type) bool {
	switch tb := b.(type) {
	case TBoolean:
		_, ok := a.(TBoolean)
		return ok
	case TNumber:
		_, ok := a.(TNumber)
		return ok
	case TFunc:
		ta, ok := a.(TFunc)
		if !ok {
			return false
		}
		if len(ta.Params) != len(tb.Params) {
			return false
		}
		for i := range ta.Params {
			if !Equal(ta.Params[i].Type, tb.Params[i].Type) {
				return false
			}
		}
		return Equal(ta.ReturnType, tb.ReturnType)
	}
	return false
}
