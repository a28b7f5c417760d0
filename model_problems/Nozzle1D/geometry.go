package Nozzle1D

import "math"

// SymmetricNozzleGeometry evaluates the diameter and its axial
// derivative of a parabolic converging-diverging profile. The throat
// sits at the midpoint with half the inlet diameter, and the exit
// diameter equals the inlet diameter.
func SymmetricNozzleGeometry(x, length, dIn float64) (diam, dDiamDx float64) {
	var (
		xi = 2.*x/length - 1. // [-1, 1]
	)
	diam = dIn * (0.5 + 0.5*xi*xi)
	dDiamDx = dIn * xi * 2. / length
	return
}

// FlowArea converts a diameter to a circular cross section area.
func FlowArea(diam float64) float64 {
	return 0.25 * math.Pi * diam * diam
}
