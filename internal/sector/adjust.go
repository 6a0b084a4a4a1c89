package sector

// Adjustment is the outcome of comparing a company against its sector peers.
type Adjustment struct {
	Fraction float64  // signed, already clamped to the sector cap
	Insights []string // human-readable reasoning, drives the explanation
}

// sensitivity converts relative deviation from the peer median into score
// adjustment. 10% relative outperformance moves the score 1%.
const sensitivity = 0.10

// Adjust compares ROE and, where the sector tracks it, ROCE against the
// sector medians and returns the clamped adjustment fraction. A company with
// no benchmark data gets a zero adjustment.
func Adjust(roe, roce, opm float64, b Benchmark) Adjustment {
	if b.ROEMedian == 0 && !b.HasROCE {
		return Adjustment{Insights: []string{"no peer benchmarks for sector"}}
	}

	var devSum float64
	var devCount int

	if b.ROEMedian > 0 {
		devSum += (roe - b.ROEMedian) / b.ROEMedian
		devCount++
	}
	if b.HasROCE && b.ROCEMedian > 0 {
		devSum += (roce - b.ROCEMedian) / b.ROCEMedian
		devCount++
	}

	if devCount == 0 {
		return Adjustment{Insights: []string{"no peer benchmarks for sector"}}
	}

	raw := devSum / float64(devCount) * sensitivity
	clamped := raw
	if clamped > b.AdjustmentCap {
		clamped = b.AdjustmentCap
	}
	if clamped < -b.AdjustmentCap {
		clamped = -b.AdjustmentCap
	}

	adj := Adjustment{Fraction: clamped}
	adj.Insights = insights(roe, roce, opm, b, clamped)
	return adj
}

func insights(roe, roce, opm float64, b Benchmark, applied float64) []string {
	var out []string

	if b.ROEMedian > 0 {
		switch {
		case roe > b.ROEMedian:
			out = append(out, "ROE above "+b.Name+" peer median")
		case roe < b.ROEMedian*0.7:
			out = append(out, "ROE well below "+b.Name+" peer median")
		}
	}
	if b.HasROCE && b.ROCEMedian > 0 && roce > b.ROCEMedian {
		out = append(out, "ROCE above "+b.Name+" peer median")
	}
	if !b.HasROCE {
		out = append(out, "ROCE not applicable for "+b.Name)
	}
	if b.OPMNorm > 0 {
		switch {
		case opm > b.OPMNorm*1.2:
			out = append(out, "margins exceptional for "+b.Name)
		case opm < b.OPMNorm*0.6:
			out = append(out, "margins below "+b.Name+" average")
		}
	}
	if applied == b.AdjustmentCap || applied == -b.AdjustmentCap {
		out = append(out, "sector adjustment clamped at cap")
	}

	return out
}
