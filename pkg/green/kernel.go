package green

// phi is the closed-form antiderivative whose alternating corner sum
// yields the volume-volume integral of 1/||r|| over a rectangular
// voxel pair (the classic Hoer/Love inductance kernel cited in
// spec.md §4.1): a rational-polynomial expression in x,y,z built from
// log, atan and the Euclidean norm, each wrapped to evaluate to 0 at
// its removable singularities (on-axis coordinates) instead of NaN.
func phi(x, y, z float64) float64 {
	r := norm3(x, y, z)

	logTerm := y*z*safeLog(x, r) + x*z*safeLog(y, r) + x*y*safeLog(z, r)

	atanTerm := x*x*safeAtanRatio(y*z, x*r) +
		y*y*safeAtanRatio(x*z, y*r) +
		z*z*safeAtanRatio(x*y, z*r)

	return 0.5*logTerm - atanTerm/6
}

// psi is the closed-form kernel for the area-to-volume (5D) integral
// of spec.md §4.1: the face is integrated over its two tangential
// axes only, so the normal-axis coordinate enters psi undifferenced.
func psi(u, v, w float64) float64 {
	r := norm3(u, v, w)
	return u*v*safeLog(w, r) + 0.5*v*w*safeLog(u, r) + 0.5*u*w*safeLog(v, r) -
		0.5*w*w*safeAtanRatio(u*v, w*r)
}

// cornerSum3 evaluates phi at the 8 corners of the relative offset box
// [Δa - da, Δa + da] (a = x,y,z), alternating sign sx*sy*sz, the
// "eight corner-combinations" alternating sum of spec.md §4.1.
func cornerSum3(dx, dy, dz, mx, my, mz float64) float64 {
	var sum float64
	for _, sx := range [2]float64{-1, 1} {
		for _, sy := range [2]float64{-1, 1} {
			for _, sz := range [2]float64{-1, 1} {
				sign := sx * sy * sz
				sum += sign * phi(mx+sx*dx, my+sy*dy, mz+sz*dz)
			}
		}
	}
	return sum
}

// cornerSum2 evaluates psi at the 4 corners of the tangential-axis
// offset box, holding the normal-axis offset w fixed — the "four
// corner-combinations" sum of spec.md §4.1 for the 5D integral.
func cornerSum2(du, dv, mu, mv, w float64) float64 {
	var sum float64
	for _, su := range [2]float64{-1, 1} {
		for _, sv := range [2]float64{-1, 1} {
			sign := su * sv
			sum += sign * psi(mu+su*du, mv+sv*dv, w)
		}
	}
	return sum
}

// absf returns |v|.
func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
