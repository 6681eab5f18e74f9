package history

import (
	"bytes"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
)

// Trimmed IBTrACS export: header, units row, then track points.
const ibtracsSample = `SID,SEASON,NUMBER,BASIN,SUBBASIN,NAME,ISO_TIME,NATURE,LAT,LON,WMO_WIND,WMO_PRES
 ,Year, , , , ,,,degrees_north,degrees_east,kts,mb
1999298N12094,1999,77,NI,BB,NOT_NAMED,1999-10-29 00:00:00,TS,19.5,86.5,140,912
1999298N12094,1999,77,NI,BB,NOT_NAMED,1999-10-29 06:00:00,TS,20.5,86.0,120,930
1999298N12094,1999,77,NI,BB,NOT_NAMED,1999-10-25 00:00:00,TS,12.0,94.0,30,1000
2013282N14091,2013,70,NI,BB,PHAILIN,2013-10-12 12:00:00,TS,19.0,85.0,115,940
2013282N14091,2013,70,NI,BB,PHAILIN,2013-10-12 18:00:00,TS,19.5,84.5, ,
2019117N05088,2019,30,NI,BB,FANI,2019-05-03 00:00:00,TS,19.8,85.8, ,
2020136N10088,2020,40,WP,MM,OTHER,2020-05-20 00:00:00,TS,20.0,85.0,90,970
2008100N10088,2008,10,NI,BB,LATE,2008-04-10 00:00:00,TS,bad,85.0,50,990
`

func TestParseIBTrACS(t *testing.T) {
	events, err := ParseIBTrACS(strings.NewReader(ibtracsSample), BasinNorthIndian, domain.OdishaBounds)
	require.NoError(t, err)

	want := []CycloneEvent{
		{
			EventID:    "1999298N12094",
			Timestamp:  time.Date(1999, 10, 29, 0, 0, 0, 0, time.UTC),
			Lat:        20.0,
			Lon:        86.25,
			MaxWindKmh: 140 * KnotsToKmh,
			Name:       "NOT_NAMED",
		},
		{
			EventID:    "2013282N14091",
			Timestamp:  time.Date(2013, 10, 12, 12, 0, 0, 0, time.UTC),
			Lat:        19.25,
			Lon:        84.75,
			MaxWindKmh: 115 * KnotsToKmh,
			Name:       "PHAILIN",
		},
	}
	// Knot conversion happens at runtime; constant-folded expectations can differ in the last bit.
	assert.InDelta(t, 259.28, events[0].MaxWindKmh, 1e-9)
	if diff := cmp.Diff(want, events, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIBTrACS_SortsByTimestamp(t *testing.T) {
	data := `SID,BASIN,NAME,ISO_TIME,LAT,LON,WMO_WIND
units,,,,,,
A,NI,LATE,2020-05-20 00:00:00,20.0,85.0,60
B,NI,EARLY,2001-05-20 00:00:00,20.0,85.0,60
`
	events, err := ParseIBTrACS(strings.NewReader(data), BasinNorthIndian, domain.OdishaBounds)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "EARLY", events[0].Name)
	assert.Equal(t, "LATE", events[1].Name)
}

func TestParseIBTrACS_MissingColumn(t *testing.T) {
	_, err := ParseIBTrACS(strings.NewReader("SID,BASIN\n"), BasinNorthIndian, domain.OdishaBounds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestParseIBTrACS_HeaderOnly(t *testing.T) {
	events, err := ParseIBTrACS(strings.NewReader("SID,BASIN,NAME,ISO_TIME,LAT,LON,WMO_WIND\n"), BasinNorthIndian, domain.OdishaBounds)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventsRoundTrip(t *testing.T) {
	events := []CycloneEvent{{
		EventID:    "2013282N14091",
		Timestamp:  time.Date(2013, 10, 12, 12, 0, 0, 0, time.UTC),
		Lat:        19.25,
		Lon:        84.75,
		MaxWindKmh: 212.98,
		Name:       "PHAILIN",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteEvents(&buf, events))
	assert.True(t, strings.HasPrefix(buf.String(), "event_id,timestamp,lat,lon,max_wind_speed,name\n"))
	assert.Contains(t, buf.String(), "2013282N14091,2013-10-12 12:00:00,19.25,84.75,212.98,PHAILIN")

	got, err := ReadEvents(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(events, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadEvents_BadRow(t *testing.T) {
	_, err := ReadEvents(strings.NewReader("event_id,timestamp,lat,lon,max_wind_speed,name\nX,2013-10-12 12:00:00,abc,1,2,N\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestSynthesizeWeather_Bands(t *testing.T) {
	ts := time.Date(2019, 5, 3, 0, 0, 0, 0, time.UTC)
	events := []CycloneEvent{
		{EventID: "severe", MaxWindKmh: 200, Timestamp: ts},
		{EventID: "moderate", MaxWindKmh: 120, Timestamp: ts},
		{EventID: "weak", MaxWindKmh: 80, Timestamp: ts},
		{EventID: "edge", MaxWindKmh: 150, Timestamp: ts},
	}

	for seed := range uint64(50) {
		weather := SynthesizeWeather(events, rand.New(rand.NewPCG(seed, 1)))
		require.Len(t, weather, 4)

		for i, w := range weather {
			base := events[i].MaxWindKmh
			assert.Equal(t, events[i].EventID, w.EventID)
			assert.GreaterOrEqual(t, w.MaxWindKmh, base*0.85)
			assert.Less(t, w.MaxWindKmh, base*0.95)
			assert.GreaterOrEqual(t, w.MaxGustKmh, w.MaxWindKmh*1.2)
			assert.Less(t, w.MaxGustKmh, w.MaxWindKmh*1.5)
		}

		assert.GreaterOrEqual(t, weather[0].TotalRainfallMm, 300.0)
		assert.Less(t, weather[0].TotalRainfallMm, 700.0)
		assert.GreaterOrEqual(t, weather[1].TotalRainfallMm, 150.0)
		assert.Less(t, weather[1].TotalRainfallMm, 400.0)
		assert.GreaterOrEqual(t, weather[2].TotalRainfallMm, 50.0)
		assert.Less(t, weather[2].TotalRainfallMm, 200.0)
		assert.Less(t, weather[3].TotalRainfallMm, 400.0, "150 km/h is not severe")
	}
}

func TestSynthesizeWeather_Deterministic(t *testing.T) {
	events := []CycloneEvent{{EventID: "a", MaxWindKmh: 180}}
	a := SynthesizeWeather(events, rand.New(rand.NewPCG(7, 7)))
	b := SynthesizeWeather(events, rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, a, b)
}

func TestWeatherRoundTrip(t *testing.T) {
	weather := []EventWeather{{
		EventID:         "2019117N05088",
		Name:            "FANI",
		Timestamp:       time.Date(2019, 5, 3, 0, 0, 0, 0, time.UTC),
		MaxWindKmh:      190.5,
		MaxGustKmh:      250.25,
		TotalRainfallMm: 512.75,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteWeather(&buf, weather))
	assert.True(t, strings.HasPrefix(buf.String(), "event_id,name,timestamp,max_wind_speed,max_gust_speed,total_rainfall\n"))

	got, err := ReadWeather(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(weather, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestGustStress(t *testing.T) {
	assert.InDelta(t, 100*100+50*10.0, GustStress(EventWeather{MaxWindKmh: 80, MaxGustKmh: 100, TotalRainfallMm: 50}), 1e-9)
}

func TestSummarize(t *testing.T) {
	stats, err := Summarize([]float64{4, 1, 3, 2, 5})
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Count)
	assert.InDelta(t, 3.0, stats.Mean, 1e-12)
	assert.InDelta(t, 5.0, stats.Max, 1e-12)
	assert.InDelta(t, 1.0, stats.Min, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), stats.Std, 1e-12)
	assert.InDelta(t, 3.0, stats.Median, 1e-12)
	assert.InDelta(t, 4.6, stats.P90, 1e-12)
	assert.InDelta(t, 4.8, stats.P95, 1e-12)
}

func TestSummarize_EvenCountMedian(t *testing.T) {
	stats, err := Summarize([]float64{10, 20, 30, 40})
	require.NoError(t, err)
	assert.InDelta(t, 25.0, stats.Median, 1e-12)
	assert.InDelta(t, 37.0, stats.P90, 1e-12)
}

func TestSummarize_SingleSample(t *testing.T) {
	stats, err := Summarize([]float64{42})
	require.NoError(t, err)
	assert.InDelta(t, 42.0, stats.Median, 0)
	assert.True(t, math.IsNaN(stats.Std))
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(nil)
	require.ErrorIs(t, err, ErrNoSamples)
}
