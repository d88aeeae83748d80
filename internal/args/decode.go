package args

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var ctyValueType = reflect.TypeOf(cty.Value{})

// Decode populates dst, a pointer to a struct, from resolved argument
// values. Fields opt in with an `orchid:"name"` tag. A field typed
// cty.Value receives the raw value; a field typed any receives the native
// conversion; every other field goes through cty's conversion rules, so a
// number argument can land in an int field and a tuple in a typed slice.
// Arguments without a matching field are ignored, as are null values.
func Decode(dst any, resolved map[string]cty.Value) error {
	ptr := reflect.ValueOf(dst)
	if ptr.Kind() != reflect.Pointer || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a pointer to a struct, got %T", dst)
	}

	structVal := ptr.Elem()
	structType := structVal.Type()

	for i := 0; i < structType.NumField(); i++ {
		fieldDef := structType.Field(i)
		fieldVal := structVal.Field(i)
		if !fieldDef.IsExported() || !fieldVal.CanSet() {
			continue
		}

		tagName := strings.Split(fieldDef.Tag.Get("orchid"), ",")[0]
		if tagName == "" || tagName == "-" {
			continue
		}

		value, ok := resolved[tagName]
		if !ok || value.IsNull() {
			continue
		}

		if err := decodeField(value, fieldDef, fieldVal); err != nil {
			return fmt.Errorf("argument %q: %w", tagName, err)
		}
	}
	return nil
}

func decodeField(value cty.Value, fieldDef reflect.StructField, fieldVal reflect.Value) error {
	if fieldDef.Type == ctyValueType {
		fieldVal.Set(reflect.ValueOf(value))
		return nil
	}

	if fieldDef.Type.Kind() == reflect.Interface && fieldDef.Type.NumMethod() == 0 {
		native, err := FromCty(value)
		if err != nil {
			return err
		}
		if native != nil {
			fieldVal.Set(reflect.ValueOf(native))
		}
		return nil
	}

	wantType, err := gocty.ImpliedType(reflect.Zero(fieldDef.Type).Interface())
	if err != nil {
		return fmt.Errorf("cannot imply cty type for Go field %s: %w", fieldDef.Name, err)
	}

	converted, err := convert.Convert(value, wantType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to %s: %w", value.Type().FriendlyName(), wantType.FriendlyName(), err)
	}

	return gocty.FromCtyValue(converted, fieldVal.Addr().Interface())
}
