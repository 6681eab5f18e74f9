// Package history builds the historical cyclone-event table from the IBTrACS
// best-track archive and attaches synthetic reanalysis weather to each event.
//
// Nothing in the live advisory path reads these artifacts.
package history
