package builtins

import (
	"fmt"
	"math"

	"justina/token"
	"justina/value"
)

func numArg(args []value.Value, i int) (float32, error) {
	v := args[i]
	if !v.IsNumeric() {
 return 0, token.NewExecError(token.CodeNumberExpected, "numeric argument expected")
	}
	return v.AsFloat(), nil
}

func strArg(args []value.Value, i int) (string, error) {
	v := args[i]
	if v.Kind != token.ValueString {
 return "", token.NewExecError(token.CodeStringExpected, "string argument expected")
	}
	return v.Str.String(), nil
}

func biAbs(h Host, args []value.Value) (value.Value, error) {
	v := args[0]
	switch v.Kind {
	case token.ValueLong:
 if v.Long < 0 {
 return value.Long(-v.Long), nil
 }
 return v, nil
	case token.ValueFloat:
 return value.Float(float32(math.Abs(float64(v.Flt)))), nil
	default:
 return value.Value{}, token.NewExecError(token.CodeNumberExpected, "abs: numeric argument expected")
	}
}

func biSgn(h Host, args []value.Value) (value.Value, error) {
	f, err := numArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	switch {
	case f > 0:
 return value.Long(1), nil
	case f < 0:
 return value.Long(-1), nil
	default:
 return value.Long(0), nil
	}
}

func biSqrt(h Host, args []value.Value) (value.Value, error) {
	f, err := numArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	if f < 0 {
 return value.Value{}, token.NewExecError(token.CodeUndefinedResult, "sqrt of negative number")
	}
	return value.Float(float32(math.Sqrt(float64(f)))), nil
}

func biSin(h Host, args []value.Value) (value.Value, error) {
	f, err := numArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	return value.Float(float32(math.Sin(float64(f)))), nil
}

func biCos(h Host, args []value.Value) (value.Value, error) {
	f, err := numArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	return value.Float(float32(math.Cos(float64(f)))), nil
}

func biTan(h Host, args []value.Value) (value.Value, error) {
	f, err := numArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	return value.Float(float32(math.Tan(float64(f)))), nil
}

func biMin(h Host, args []value.Value) (value.Value, error) {
	a, err := numArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	b, err := numArg(args, 1)
	if err != nil {
 return value.Value{}, err
	}
	if a < b {
 return args[0], nil
	}
	return args[1], nil
}

func biMax(h Host, args []value.Value) (value.Value, error) {
	a, err := numArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	b, err := numArg(args, 1)
	if err != nil {
 return value.Value{}, err
	}
	if a > b {
 return args[0], nil
	}
	return args[1], nil
}

func biLen(h Host, args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	return value.Long(int32(len(s))), nil
}

func biAsc(h Host, args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	if len(s) == 0 {
 return value.Long(0), nil
	}
	return value.Long(int32(s[0])), nil
}

func biChar(h Host, args []value.Value) (value.Value, error) {
	f, err := numArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	s := string([]byte{byte(int32(f))})
	return value.Str(h.NewIntermediateString(s)), nil
}

func biLeft(h Host, args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	n, err := numArg(args, 1)
	if err != nil {
 return value.Value{}, err
	}
	k := int(n)
	if k < 0 {
 k = 0
	}
	if k > len(s) {
 k = len(s)
	}
	return value.Str(h.NewIntermediateString(s[:k])), nil
}

func biRight(h Host, args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	n, err := numArg(args, 1)
	if err != nil {
 return value.Value{}, err
	}
	k := int(n)
	if k < 0 {
 k = 0
	}
	if k > len(s) {
 k = len(s)
	}
	return value.Str(h.NewIntermediateString(s[len(s)-k:])), nil
}

func biMid(h Host, args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	start, err := numArg(args, 1)
	if err != nil {
 return value.Value{}, err
	}
	from := int(start) - 1
	if from < 0 {
 from = 0
	}
	if from > len(s) {
 from = len(s)
	}
	length := len(s) - from
	if len(args) == 3 {
 n, err := numArg(args, 2)
 if err != nil {
 return value.Value{}, err
 }
 length = int(n)
	}
	if length < 0 {
 length = 0
	}
	if from+length > len(s) {
 length = len(s) - from
	}
	return value.Str(h.NewIntermediateString(s[from : from+length])), nil
}

func biUpper(h Host, args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
 c := s[i]
 if c >= 'a' && c <= 'z' {
 c -= 'a' - 'A'
 }
 out[i] = c
	}
	return value.Str(h.NewIntermediateString(string(out))), nil
}

func biLower(h Host, args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
 c := s[i]
 if c >= 'A' && c <= 'Z' {
 c += 'a' - 'A'
 }
 out[i] = c
	}
	return value.Str(h.NewIntermediateString(string(out))), nil
}

func biValueType(h Host, args []value.Value) (value.Value, error) {
	return value.Long(int32(args[0].Kind)), nil
}

func biDims(h Host, args []value.Value) (value.Value, error) {
	v := args[0]
	if v.Kind != token.ValueArray || v.Arr == nil {
 return value.Value{}, token.NewExecError(token.CodeArrayDimCountInvalid, "dims: array argument expected")
	}
	return value.Long(int32(v.Arr.NDims)), nil
}

func biUbound(h Host, args []value.Value) (value.Value, error) {
	v := args[0]
	if v.Kind != token.ValueArray || v.Arr == nil {
 return value.Value{}, token.NewExecError(token.CodeArrayDimCountInvalid, "ubound: array argument expected")
	}
	dimArg, err := numArg(args, 1)
	if err != nil {
 return value.Value{}, err
	}
	d := int(dimArg) - 1
	if d < 0 || d >= int(v.Arr.NDims) {
 return value.Value{}, token.NewExecError(token.CodeArraySubscriptOutOfBounds, "ubound: dimension out of range")
	}
	return value.Long(int32(v.Arr.Dims[d])), nil
}

func biMillis(h Host, args []value.Value) (value.Value, error) {
	return value.Long(int32(h.Millis())), nil
}

func biLast(h Host, args []value.Value) (value.Value, error) {
	depth := 0
	if len(args) == 1 {
 f, err := numArg(args, 0)
 if err != nil {
 return value.Value{}, err
 }
 depth = int(f)
	}
	v, ok := h.LastResult(depth)
	if !ok {
 return value.Long(0), nil
	}
	return v, nil
}

func biFmtNum(h Host, args []value.Value) (value.Value, error) {
	f, err := numArg(args, 0)
	if err != nil {
 return value.Value{}, err
	}
	widthF, err := numArg(args, 1)
	if err != nil {
 return value.Value{}, err
	}
	precision := 6
	if len(args) >= 3 {
 p, err := numArg(args, 2)
 if err != nil {
 return value.Value{}, err
 }
 precision = int(p)
	}
	spec := fmt.Sprintf("%%%d.%df", int(widthF), precision)
	return value.Str(h.NewIntermediateString(fmt.Sprintf(spec, f))), nil
}

func biNl(h Host, args []value.Value) (value.Value, error) {
	return value.Str(h.NewIntermediateString("\n")), nil
}
