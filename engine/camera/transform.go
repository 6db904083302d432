package camera

import (
	"log/slog"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	obliquityJ2000 = 23.4392808
	galR           = 32.93192
	galQ           = 27.12825
	galP           = 192.85948
)

// rotationMatrix applies Ry(gamma)·Rz(beta)·Ry(alpha), angles in degrees, for the
// internal frame where ZX is the fundamental plane and Y points up.
func rotationMatrix(alpha, beta, gamma float64) mgl64.Mat4 {
	return mgl64.HomogRotate3DY(mgl64.DegToRad(gamma)).
		Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(beta))).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(alpha)))
}

var transforms = func() map[string]mgl64.Mat4 {
	eqToEcl := rotationMatrix(0, -obliquityJ2000, 0)
	eclToEq := rotationMatrix(0, obliquityJ2000, 0)
	galToEq := rotationMatrix(-galR, 90-galQ, 90+galP)
	eqToGal := galToEq.Inv()
	m := map[string]mgl64.Mat4{
		"identity":             mgl64.Ident4(),
		"equatorialtoecliptic": eqToEcl,
		"eqtoecl":              eqToEcl,
		"ecliptictoequatorial": eclToEq,
		"ecltoeq":              eclToEq,
		"galactictoequatorial": galToEq,
		"galtoeq":              galToEq,
		"equatorialtogalactic": eqToGal,
		"eqtogal":              eqToGal,
		"ecliptictogalactic":   galToEq.Mul4(eqToEcl),
		"ecltogal":             galToEq.Mul4(eqToEcl),
		"galactictoecliptic":   eclToEq.Mul4(eqToGal),
		"galtoecl":             eclToEq.Mul4(eqToGal),
	}
	return m
}()

// Transform looks up a named coordinate transform, case-insensitively. Unknown names
// are logged and resolve to the identity matrix.
//
// Parameters:
//   - name: the transform name, e.g. "eclipticToEquatorial"
//   - logger: where to report unknown names, nil for slog.Default()
//
// Returns:
//   - mgl64.Mat4: the rotation matrix
func Transform(name string, logger *slog.Logger) mgl64.Mat4 {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return mgl64.Ident4()
	}
	if m, ok := transforms[key]; ok {
		return m
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("unknown coordinate transform, using identity", "transform", name)
	return mgl64.Ident4()
}

// TransformVec applies the rotation part of m to v.
func TransformVec(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}
