// Package domain models cyclone risk scoring and evacuation-shelter selection.
//
// # Data Sources
//
// Live weather comes from the Open-Meteo forecast API (current conditions at
// 10 m height, km/h). Routing comes from an OSRM server. Shelters are read
// once at startup from a CSV file with the columns
//
//	camp_name,latitude,longitude,capacity
//
// and never change for the lifetime of the process.
//
// # Storm Stress
//
// Storm stress is a unitless proxy for destructive potential:
//
//	stress = wind² + precipitation × 10
//
// Wind load grows with the square of speed, rainfall adds a linear penalty.
// The score is not a calibrated meteorological model.
//
// Reanalysis data (ERA5-style) reports orthogonal wind components instead of a
// speed and carries no gusts. [ReadingFromWindComponents] derives the speed as
// √(u²+v²), multiplies it by [GustFactor] to approximate peak gusts, and stores
// the gust in the normalized reading so [StormStress] treats both sources the
// same way. The two sources are calibrated against different quantities
// (sustained wind vs. gust proxy); the live thresholds below are not adjusted
// for reanalysis input.
//
// # Risk Tiers
//
//	stress > 2500         HIGH      red
//	1500 < stress ≤ 2500  MODERATE  orange
//	stress ≤ 1500         LOW       green
//
// Comparisons are strict, so a value exactly on a boundary lands in the lower
// tier. NaN and negative input classify as LOW.
//
// # Distance
//
// Great-circle distance uses the Haversine formula on a sphere of radius
// 6371 km ([EarthRadiusKm]). Shelter selection is a linear scan; the first
// shelter at the minimum distance wins ties.
//
// # Failure Model
//
// Provider failures are expected and recoverable. Adapters wrap them with
// [ErrUnavailable]; callers check with errors.Is and degrade. An empty shelter
// set ([ErrEmptyShelterSet]) is a startup error.
package domain
