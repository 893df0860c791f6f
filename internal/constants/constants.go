// Package constants holds the physical constants shared across the
// solver core.
package constants

import "math"

// Mu0 is the permeability of free space, in H/m.
const Mu0 = 4 * math.Pi * 1e-7

// FourPi is a precomputed 4*pi, used throughout the Green-function and
// Biot-Savart kernels.
const FourPi = 4 * math.Pi
