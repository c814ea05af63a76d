package action

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"fieldmapper/internal/mapping"
	"fieldmapper/primitive"
)

// normalizeNumber returns int64 for integers that fit, *big.Int for larger
// integers and float64 otherwise.
func normalizeNumber(f *big.Float) any {
	if f.IsInt() {
		if i, acc := f.Int64(); acc == big.Exact {
			return i
		}

		i, _ := f.Int(nil)

		return i
	}

	v, _ := f.Float64()

	return v
}

func numberFunc(fn func(f *big.Float) (any, error)) Func {
	return func(_ mapping.Action, v any) (any, error) {
		if v == nil {
			return nil, nil
		}

		f, err := primitive.NumberValue(v)
		if err != nil {
			return nil, err
		}

		return fn(f)
	}
}

func absoluteValue(a mapping.Action, v any) (any, error) {
	return numberFunc(func(f *big.Float) (any, error) {
		return normalizeNumber(new(big.Float).Abs(f)), nil
	})(a, v)
}

// integral applies a float64 rounding function and checks the result fits a long.
func integral(round func(float64) float64) Func {
	return numberFunc(func(f *big.Float) (any, error) {
		if f.IsInt() {
			return normalizeNumber(f), nil
		}

		x, _ := f.Float64()
		r := round(x)

		if r < math.MinInt64 || r >= math.MaxInt64 {
			return nil, fmt.Errorf("%v overflows long", r)
		}

		return int64(r), nil
	})
}

func ceiling(a mapping.Action, v any) (any, error) { return integral(math.Ceil)(a, v) }

func floor(a mapping.Action, v any) (any, error) { return integral(math.Floor)(a, v) }

func round(a mapping.Action, v any) (any, error) { return integral(math.Round)(a, v) }

func dayOfWeek(_ mapping.Action, v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		wd := int64(t.Weekday())
		if wd == 0 {
			wd = 7
		}

		return wd, nil
	default:
		return nil, fmt.Errorf("expected a date, got %T", v)
	}
}

// numbers collects the non-null elements of a many-to-one input.
func numbers(v any) ([]any, []*big.Float, error) {
	items, _ := v.([]any)

	var (
		kept   []any
		values []*big.Float
	)

	for _, item := range items {
		if item == nil {
			continue
		}

		f, err := primitive.NumberValue(item)
		if err != nil {
			return nil, nil, err
		}

		kept = append(kept, item)
		values = append(values, f)
	}

	return kept, values, nil
}

func sum(_ mapping.Action, v any) (any, error) {
	_, values, err := numbers(v)
	if err != nil {
		return nil, err
	}

	total := new(big.Float).SetPrec(256)
	for _, f := range values {
		total.Add(total, f)
	}

	return normalizeNumber(total), nil
}

func average(_ mapping.Action, v any) (any, error) {
	_, values, err := numbers(v)
	if err != nil || len(values) == 0 {
		return nil, err
	}

	total := new(big.Float).SetPrec(256)
	for _, f := range values {
		total.Add(total, f)
	}

	avg, _ := total.Quo(total, big.NewFloat(float64(len(values)))).Float64()

	return avg, nil
}

// extreme returns the element whose value compares as want (1 max, -1 min).
func extreme(v any, want int) (any, error) {
	kept, values, err := numbers(v)
	if err != nil || len(values) == 0 {
		return nil, err
	}

	best := 0
	for i := 1; i < len(values); i++ {
		if values[i].Cmp(values[best]) == want {
			best = i
		}
	}

	return kept[best], nil
}

func maximum(_ mapping.Action, v any) (any, error) { return extreme(v, 1) }

func minimum(_ mapping.Action, v any) (any, error) { return extreme(v, -1) }
