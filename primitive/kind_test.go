package primitive_test

import (
	"fmt"
	"math/big"
	"time"

	"fieldmapper/primitive"
)

func Example() {
	type Opaque struct{}

	fmt.Println(primitive.TypeOf(int32(0)))
	fmt.Println(primitive.TypeOf(""))
	fmt.Println(primitive.TypeOf(float64(0)))
	fmt.Println(primitive.TypeOf(big.NewInt(1)))
	fmt.Println(primitive.TypeOf(time.Time{}))
	fmt.Println(primitive.TypeOf(map[string]any{}))
	fmt.Println(primitive.TypeOf(Opaque{}))
	fmt.Println(primitive.TypeOf(nil))
	// Output:
	// integer
	// string
	// double
	// big-integer
	// date-time-tz
	// complex
	// any
	// none
}

func ExampleParseFieldType() {
	for _, name := range []string{"STRING", "date_time", "int", "big-integer", ""} {
		t, err := primitive.ParseFieldType(name)
		fmt.Println(t, err)
	}
	// Output:
	// string <nil>
	// date-time <nil>
	// integer <nil>
	// big-integer <nil>
	// none <nil>
}
