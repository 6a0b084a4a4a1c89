package ranking

// Quality multiplier bonus: companies compounding above 10% ROE earn up to a
// 60% score uplift, scaling linearly and saturating at ROE 34%.
const (
	qualityROEFloor = 10.0
	qualityROESpan  = 40.0
	qualityCap      = 0.60
)

// qualityMultiplier returns the bonus fraction for a company's ROE.
func qualityMultiplier(roe float64) float64 {
	bonus := (roe - qualityROEFloor) / qualityROESpan
	if bonus < 0 {
		return 0
	}
	if bonus > qualityCap {
		return qualityCap
	}
	return bonus
}
