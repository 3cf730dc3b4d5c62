package geo

import (
	"context"
)

// Point is one node fed into matrix construction: p[0] is always the
// depot, p[1:] are visit-nodes for that sub-problem.
type Point struct {
	Lat, Lon float64
}

// Matrices bundles the three matrices C1 must produce atomically so
// downstream solvers can trust dimensional consistency.
type Matrices struct {
	DistKm       [][]float64
	TimeMin      [][]int
	ArcCostCents [][]int
	Degraded     bool // true if any cell needed the Haversine fallback
}

// Build produces dist_km, time_min, and arc_cost_cents for the given
// points using oracle when available, falling back to Haversine x
// RoadFactor per cell. variableCostPerKm, driverWagePerHour, and
// averageSpeedKmh come from config; they are never hardcoded here,
// including in the terminal Haversine fallback tier.
func Build(ctx context.Context, points []Point, oracle Oracle, variableCostPerKm, driverWagePerHour, averageSpeedKmh float64) (Matrices, error) {
	n := len(points)
	m := Matrices{
		DistKm:       make([][]float64, n),
		TimeMin:      make([][]int, n),
		ArcCostCents: make([][]int, n),
	}
	for i := range m.DistKm {
		m.DistKm[i] = make([]float64, n)
		m.TimeMin[i] = make([]int, n)
		m.ArcCostCents[i] = make([]int, n)
	}
	if n == 0 {
		return m, nil
	}

	fo := FallbackOracle{Primary: oracle, Fallback: HaversineOracle{AverageSpeedKmh: averageSpeedKmh}}

	for i := 0; i < n; i++ {
		for lo := 0; lo < n; lo += batchSize {
			hi := lo + batchSize
			if hi > n {
				hi = n
			}
			pairs := make([]Pair, 0, hi-lo)
			dests := make([]int, 0, hi-lo)
			for j := lo; j < hi; j++ {
				if j == i {
					continue
				}
				pairs = append(pairs, Pair{OriginLat: points[i].Lat, OriginLon: points[i].Lon, DestLat: points[j].Lat, DestLon: points[j].Lon})
				dests = append(dests, j)
			}
			if len(pairs) == 0 {
				continue
			}
			bctx, cancel := context.WithTimeout(ctx, timeout)
			results, degraded, err := fo.BatchDistances(bctx, pairs)
			cancel()
			if err != nil {
				return m, err
			}
			for k, j := range dests {
				r := results[k]
				m.DistKm[i][j] = r.DistKm
				m.TimeMin[i][j] = r.TimeMin
				m.ArcCostCents[i][j] = arcCostCents(r.DistKm, r.TimeMin, variableCostPerKm, driverWagePerHour)
				if degraded[k] {
					m.Degraded = true
				}
			}
		}
	}
	return m, nil
}

func arcCostCents(distKm float64, timeMin int, variableCostPerKm, driverWagePerHour float64) int {
	distCents := round(distKm * variableCostPerKm * 100)
	timeCents := round(float64(timeMin) / 60 * driverWagePerHour * 100)
	return distCents + timeCents
}

func round(x float64) int {
	if x < 0 {
		return -int(-x + 0.5)
	}
	return int(x + 0.5)
}
