package fluid

import "github.com/x448/float16"

// roundHalf rounds v to the nearest IEEE 754 binary16 value and widens it
// back to float32.
func roundHalf(v float32) float32 {
	return float16.Fromfloat32(v).Float32()
}

// quantizeHalf rounds every element of data through binary16.
func quantizeHalf(data []float32) {
	for i, v := range data {
		data[i] = roundHalf(v)
	}
}
