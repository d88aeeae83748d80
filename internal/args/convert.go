package args

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ToCty converts a native Go value tree, as produced by YAML decoding, into
// its cty.Value counterpart. Lists become tuples and maps become objects so
// heterogeneous argument values survive the round trip.
func ToCty(v any) (cty.Value, error) {
	switch val := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return val, nil
	case string:
		return cty.StringVal(val), nil
	case bool:
		return cty.BoolVal(val), nil
	case int:
		return cty.NumberIntVal(int64(val)), nil
	case int64:
		return cty.NumberIntVal(val), nil
	case uint64:
		return cty.NumberUIntVal(val), nil
	case float64:
		return cty.NumberFloatVal(val), nil
	case []any:
		if len(val) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, 0, len(val))
		for i, elem := range val {
			converted, err := ToCty(elem)
			if err != nil {
				return cty.NilVal, fmt.Errorf("in element %d: %w", i, err)
			}
			elems = append(elems, converted)
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		if len(val) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(val))
		for key, elem := range val {
			converted, err := ToCty(elem)
			if err != nil {
				return cty.NilVal, fmt.Errorf("in attribute %q: %w", key, err)
			}
			attrs[key] = converted
		}
		return cty.ObjectVal(attrs), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported argument value of type %T", v)
	}
}

// FromCty recursively converts a cty.Value to its most natural Go
// counterpart. Numbers come back as float64, the common representation for a
// generic target.
func FromCty(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert cty.Number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := FromCty(elem)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		goMap := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			keyStr := key.AsString()
			native, err := FromCty(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", keyStr, err)
			}
			goMap[keyStr] = native
		}
		return goMap, nil

	default:
		return nil, fmt.Errorf("unsupported cty type for native conversion: %s", ty.FriendlyName())
	}
}
