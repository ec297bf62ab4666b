package sdk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceValue_Types(t *testing.T) {
	tests := []struct {
		name  string
		typ   FlagType
		value string
		want  any
	}{
		{"boolean true", FlagBoolean, "true", true},
		{"boolean false", FlagBoolean, "false", false},
		{"boolean is case sensitive", FlagBoolean, "True", false},
		{"boolean rejects 1", FlagBoolean, "1", false},
		{"number integer", FlagNumber, "42", float64(42)},
		{"number float", FlagNumber, "3.14", 3.14},
		{"number negative", FlagNumber, "-7.5", -7.5},
		{"string passthrough", FlagString, "hello", "hello"},
		{"unknown type passthrough", FlagType("color"), "#fff", "#fff"},
		{"json object", FlagJSON, `{"a":1}`, map[string]any{"a": float64(1)}},
		{"json array", FlagJSON, `[1,2]`, []any{float64(1), float64(2)}},
		{"json soft-fails to raw string", FlagJSON, `{broken`, `{broken`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := coerceValue(&FlagRecord{Key: "k", Type: tt.typ, Value: tt.value, Enabled: true})
			if !ok {
				t.Fatal("expected a present value")
			}
			assert.Equal(t, tt.want, v)
		})
	}
}

// An unparsable number coerces to the NaN sentinel, not the raw string.
func TestCoerceValue_UnparsableNumberIsNaN(t *testing.T) {
	v, ok := coerceValue(&FlagRecord{Key: "n", Type: FlagNumber, Value: "not-a-number", Enabled: true})
	if !ok {
		t.Fatal("expected a present value")
	}
	f, isFloat := v.(float64)
	if !isFloat {
		t.Fatalf("expected float64, got %T", v)
	}
	if !math.IsNaN(f) {
		t.Errorf("expected NaN, got %v", f)
	}
}

func TestCoerceValue_AbsentOrDisabled(t *testing.T) {
	if _, ok := coerceValue(nil); ok {
		t.Error("nil record must coerce to absent")
	}
	if _, ok := coerceValue(&FlagRecord{Key: "off", Type: FlagBoolean, Value: "true", Enabled: false}); ok {
		t.Error("disabled record must coerce to absent")
	}
}

// coerceValue is total: no (type, value) pair may panic.
func TestCoerceValue_Total(t *testing.T) {
	types := []FlagType{FlagBoolean, FlagString, FlagNumber, FlagJSON, FlagType("")}
	values := []string{"", "true", "false", "0", "NaN", "{", "null", "\x00"}
	for _, typ := range types {
		for _, val := range values {
			_, _ = coerceValue(&FlagRecord{Key: "k", Type: typ, Value: val, Enabled: true})
		}
	}
}
