package sector

// Sector is the closed set of recognised sectors. Inputs outside the set map
// to Unknown rather than extending the set at runtime.
type Sector string

const (
	IT            Sector = "IT"
	Banking       Sector = "Banking"
	Pharma        Sector = "Pharma"
	Manufacturing Sector = "Manufacturing"
	Telecom       Sector = "Telecom"
	RealEstate    Sector = "RealEstate"
	FMCG          Sector = "FMCG"
	Auto          Sector = "Auto"
	Energy        Sector = "Energy"
	Healthcare    Sector = "Healthcare"
	Unknown       Sector = "Unknown"
)

// All lists the recognised sectors in a fixed order, Unknown last.
var All = []Sector{
	Auto, Banking, Energy, FMCG, Healthcare, IT,
	Manufacturing, Pharma, RealEstate, Telecom, Unknown,
}

// Parse maps an input sector string onto the closed set. Empty or unrecognised
// values become Unknown.
func Parse(s string) Sector {
	switch Sector(s) {
	case IT, Banking, Pharma, Manufacturing, Telecom,
		RealEstate, FMCG, Auto, Energy, Healthcare:
		return Sector(s)
	default:
		return Unknown
	}
}

// IsFinancial reports whether the sector carries structural leverage and
// accounting FCF that should not be judged by industrial norms.
func (s Sector) IsFinancial() bool {
	return s == Banking
}
