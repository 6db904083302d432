package common

// Physical constants in SI-derived units.
const (
	AUToKm   = 1.495978707e8
	PcToKm   = 3.0856775814913673e13
	SToH     = 1.0 / 3600.0
	HToS     = 3600.0
	baseMToU = 1e-9
)

// Units holds the internal-unit conversion factors derived from a distance scale factor.
// Internal units (U) are 1e9 m at a scale factor of 1. Values are recomputed with
// NewUnits whenever the scale factor changes, never mutated in place.
type Units struct {
	DistanceScaleFactor float64

	MToU   float64
	KmToU  float64
	AUToU  float64
	PcToU  float64
	KpcToU float64
	MpcToU float64

	UToM  float64
	UToKm float64
	UToAU float64
	UToPc float64
}

// NewUnits computes the conversion table for the given distance scale factor.
// A non-positive factor falls back to 1.
//
// Parameters:
//   - distanceScaleFactor: multiplier applied to the base meter-to-unit ratio
//
// Returns:
//   - Units: the conversion table
func NewUnits(distanceScaleFactor float64) Units {
	if distanceScaleFactor <= 0 {
		distanceScaleFactor = 1
	}
	mToU := baseMToU * distanceScaleFactor
	kmToU := mToU * 1000
	pcToU := PcToKm * kmToU
	return Units{
		DistanceScaleFactor: distanceScaleFactor,
		MToU:                mToU,
		KmToU:               kmToU,
		AUToU:               AUToKm * kmToU,
		PcToU:               pcToU,
		KpcToU:              pcToU * 1e3,
		MpcToU:              pcToU * 1e6,
		UToM:                1 / mToU,
		UToKm:               1 / kmToU,
		UToAU:               1 / (AUToKm * kmToU),
		UToPc:               1 / pcToU,
	}
}
