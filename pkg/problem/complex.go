package problem

import (
	"encoding/json"
	"fmt"
)

// Complex wraps complex128 with the JSON representation encoding/json
// cannot derive on its own (the standard library has no complex
// number codec): a two-element [real, imag] array, matching the
// teacher's preference for plain encoding/json struct tags over a
// third-party codec for simple cases.
type Complex complex128

// MarshalJSON encodes c as [real, imag].
func (c Complex) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{real(complex128(c)), imag(complex128(c))})
}

// UnmarshalJSON decodes a [real, imag] array into c.
func (c *Complex) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("problem: decoding complex value: %w", err)
	}
	*c = Complex(complex(pair[0], pair[1]))
	return nil
}

// Value returns the underlying complex128.
func (c Complex) Value() complex128 { return complex128(c) }
