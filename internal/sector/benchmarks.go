package sector

// Benchmark holds the peer norms used to judge a company against its sector.
// ROCEMedian of 0 with HasROCE false means the metric does not apply, which
// is the case for Banking.
type Benchmark struct {
	Name          string  `yaml:"name"`
	ROEMedian     float64 `yaml:"roeMedian"`
	ROCEMedian    float64 `yaml:"roceMedian"`
	HasROCE       bool    `yaml:"hasRoce"`
	DebtNorm      float64 `yaml:"debtNorm"`
	OPMNorm       float64 `yaml:"opmNorm"`
	AdjustmentCap float64 `yaml:"adjustmentCap"` // max |adjustment| as fraction
}

// defaultBenchmarks are Indian-market sector norms. Capital-intensive and
// regulated sectors get wider caps because peer dispersion is wider there.
func defaultBenchmarks() map[Sector]Benchmark {
	return map[Sector]Benchmark{
		IT: {
			Name: "Information Technology", ROEMedian: 20, ROCEMedian: 25, HasROCE: true,
			DebtNorm: 0.5, OPMNorm: 20, AdjustmentCap: 0.08,
		},
		Banking: {
			Name: "Banking & Financial Services", ROEMedian: 12, HasROCE: false,
			DebtNorm: 5.0, OPMNorm: 40, AdjustmentCap: 0.15,
		},
		Pharma: {
			Name: "Pharmaceuticals", ROEMedian: 15, ROCEMedian: 18, HasROCE: true,
			DebtNorm: 0.8, OPMNorm: 20, AdjustmentCap: 0.10,
		},
		Manufacturing: {
			Name: "Manufacturing", ROEMedian: 12, ROCEMedian: 15, HasROCE: true,
			DebtNorm: 1.5, OPMNorm: 10, AdjustmentCap: 0.12,
		},
		Telecom: {
			Name: "Telecommunications", ROEMedian: 8, ROCEMedian: 10, HasROCE: true,
			DebtNorm: 2.5, OPMNorm: 30, AdjustmentCap: 0.15,
		},
		RealEstate: {
			Name: "Real Estate", ROEMedian: 8, ROCEMedian: 10, HasROCE: true,
			DebtNorm: 2.0, OPMNorm: 25, AdjustmentCap: 0.12,
		},
		FMCG: {
			Name: "Fast Moving Consumer Goods", ROEMedian: 18, ROCEMedian: 25, HasROCE: true,
			DebtNorm: 0.5, OPMNorm: 15, AdjustmentCap: 0.08,
		},
		Auto: {
			Name: "Automobile", ROEMedian: 12, ROCEMedian: 15, HasROCE: true,
			DebtNorm: 1.2, OPMNorm: 8, AdjustmentCap: 0.12,
		},
		Energy: {
			Name: "Energy & Power", ROEMedian: 10, ROCEMedian: 12, HasROCE: true,
			DebtNorm: 2.0, OPMNorm: 12, AdjustmentCap: 0.15,
		},
		Healthcare: {
			Name: "Healthcare Services", ROEMedian: 15, ROCEMedian: 18, HasROCE: true,
			DebtNorm: 1.0, OPMNorm: 18, AdjustmentCap: 0.10,
		},
		Unknown: {
			Name: "Unclassified", AdjustmentCap: 0.10,
		},
	}
}
