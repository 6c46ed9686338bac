package solar

import (
	"math"
	"time"
)

// SkyModel selects the sky-diffuse model used to transpose horizontal
// irradiance onto a tilted plane (§4.3). Perez is the default.
type SkyModel string

const (
	Perez     SkyModel = "perez"
	Isotropic SkyModel = "isotropic"
	HayDavies SkyModel = "hay-davies"
)

// ParseSkyModel validates a model string, defaulting to Perez.
func ParseSkyModel(s string) SkyModel {
	switch SkyModel(s) {
	case Perez, Isotropic, HayDavies:
		return SkyModel(s)
	default:
		return Perez
	}
}

const defaultGroundAlbedo = 0.20

// cosAOI returns the cosine of the angle of incidence between the sun
// and a plane of the given tilt/azimuth (both degrees, azimuth from
// north clockwise).
func cosAOI(zenithDeg, sunAzimuthDeg, tiltDeg, planeAzimuthDeg float64) float64 {
	zr := degToRad(zenithDeg)
	tr := degToRad(tiltDeg)
	dAz := degToRad(sunAzimuthDeg - planeAzimuthDeg)
	return math.Cos(zr)*math.Cos(tr) + math.Sin(zr)*math.Sin(tr)*math.Cos(dAz)
}

// POASeries computes plane-of-array global irradiance for a tilted
// plane given the decomposed components and solar positions. Tilt=0 is
// a degenerate case the caller should usually short-circuit (§8): GHI
// equals POA for a flat plane, which this function also produces
// correctly since cos(AOI) reduces to cos(zenith) and ground-reflected
// diffuse vanishes.
func POASeries(timestamps []time.Time, positions []Position, dni, ghi, dhi []float64, tiltDeg, azimuthDeg float64, model SkyModel) []float64 {
	n := len(ghi)
	poa := make([]float64, n)
	cosTilt := math.Cos(degToRad(tiltDeg))
	sinTilt := math.Sin(degToRad(tiltDeg))

	for i := 0; i < n; i++ {
		zenithDeg := positions[i].ZenithDeg
		cosZ := cosZenithRad(zenithDeg)
		if cosZ <= 0 {
			poa[i] = 0
			continue
		}

		aoi := cosAOI(zenithDeg, positions[i].AzimuthDeg, tiltDeg, azimuthDeg)
		beam := dni[i] * math.Max(aoi, 0)
		ground := ghi[i] * defaultGroundAlbedo * (1 - cosTilt) / 2

		var diffuse float64
		switch model {
		case Isotropic:
			diffuse = dhi[i] * (1 + cosTilt) / 2
		case HayDavies:
			diffuse = hayDaviesDiffuse(dhi[i], dni[i], cosZ, aoi, cosTilt)
		default:
			diffuse = perezDiffuse(timestamps[i], zenithDeg, dni[i], dhi[i], cosZ, aoi, cosTilt, sinTilt)
		}
		if diffuse < 0 {
			diffuse = 0
		}

		poa[i] = beam + diffuse + ground
	}
	return poa
}

func hayDaviesDiffuse(dhi, dni, cosZ, aoi, cosTilt float64) float64 {
	i0n := solarConstant
	if i0n <= 0 {
		return dhi * (1 + cosTilt) / 2
	}
	anisotropyIndex := dni / i0n
	if anisotropyIndex > 1 {
		anisotropyIndex = 1
	}
	rb := math.Max(aoi, 0) / cosZ
	isotropicTerm := (1 - anisotropyIndex) * (1 + cosTilt) / 2
	circumsolarTerm := anisotropyIndex * rb
	return dhi * (isotropicTerm + circumsolarTerm)
}

// perezCoefficients is the standard Perez (1990) coefficient table,
// indexed by clearness-index bin: columns are {f11, f12, f13, f21, f22, f23}.
var perezCoefficients = [8][6]float64{
	{-0.0083117, 0.5877285, -0.0620636, -0.0596012, 0.0721249, -0.0220216},
	{0.1299457, 0.6825954, -0.1513752, -0.0189325, 0.0659650, -0.0288748},
	{0.3296958, 0.4868735, -0.2210958, 0.0554140, -0.0639588, -0.0260542},
	{0.5682053, 0.1874525, -0.2951290, 0.1088631, -0.1519229, -0.0139754},
	{0.8730280, -0.3920403, -0.3616149, 0.2255647, -0.4620442, 0.0012448},
	{1.1326077, -1.2367359, -0.4118494, 0.2877813, -0.8230357, 0.0558651},
	{1.0601591, -1.5999137, -0.3589221, 0.2642124, -1.1272340, 0.1310694},
	{0.6777470, -0.3272588, -0.2504286, 0.1561313, -1.3765031, 0.2506212},
}

var perezEpsilonBins = [7]float64{1.065, 1.230, 1.500, 1.950, 2.800, 4.500, 6.200}

func perezEpsilonBin(epsilon float64) int {
	for i, upper := range perezEpsilonBins {
		if epsilon < upper {
			return i
		}
	}
	return 7
}

// perezDiffuse implements the Perez (1990) all-sky anisotropic
// sky-diffuse model.
func perezDiffuse(ts time.Time, zenithDeg, dni, dhi, cosZ, aoi, cosTilt, sinTilt float64) float64 {
	if dhi <= 0 {
		return 0
	}
	zenithRad := degToRad(zenithDeg)

	kappa := 1.041
	epsilon := 1.0
	if dhi > 0 {
		epsilon = ((dhi+dni)/dhi + kappa*zenithRad*zenithRad*zenithRad) / (1 + kappa*zenithRad*zenithRad*zenithRad)
	}
	bin := perezEpsilonBin(epsilon)

	dayOfYear := float64(ts.YearDay())
	eccentricity := 1 + 0.033*math.Cos(2*math.Pi*dayOfYear/365)
	i0n := solarConstant * eccentricity

	airmass := 1 / (cosZ + 0.50572*math.Pow(96.07995-zenithDeg, -1.6364))
	delta := dhi * airmass / i0n

	c := perezCoefficients[bin]
	f1 := c[0] + c[1]*delta + c[2]*zenithRad
	if f1 < 0 {
		f1 = 0
	}
	f2 := c[3] + c[4]*delta + c[5]*zenithRad

	rb := math.Max(aoi, 0) / math.Max(cosZ, 0.01)
	isotropicTerm := (1 - f1) * (1 + cosTilt) / 2
	circumsolarTerm := f1 * rb
	horizonTerm := f2 * sinTilt

	return dhi * (isotropicTerm + circumsolarTerm + horizonTerm)
}
