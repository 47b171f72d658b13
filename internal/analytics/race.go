package analytics

import "github.com/apatti/hyroxtrainer/internal/models"

// Split is one timed segment of a race.
type Split struct {
	Segment string  `json:"segment"`
	Kind    string  `json:"kind"`
	Seconds int     `json:"seconds"`
	Share   float64 `json:"share_pct"`
}

// RaceBreakdown is a race result reduced to its recorded splits.
type RaceBreakdown struct {
	TotalSeconds   int     `json:"total_seconds"`
	Splits         []Split `json:"splits"`
	RunSeconds     int     `json:"run_seconds"`
	StationSeconds int     `json:"station_seconds"`
	Transitions    *int    `json:"transitions_seconds"`
	FastestStation *Split  `json:"fastest_station"`
	SlowestStation *Split  `json:"slowest_station"`
}

var runSegments = []string{"run_1", "run_2", "run_3", "run_4", "run_5", "run_6", "run_7", "run_8"}

// StationSplits lays out a race's recorded splits in race order (run, station, run, ...) and
// picks out the fastest and slowest station. Missing splits are skipped.
func StationSplits(race models.RaceResult) RaceBreakdown {
	b := RaceBreakdown{TotalSeconds: race.TotalTimeSeconds, Transitions: race.TransitionsTotalTime}
	stations := race.StationTimes()
	runs := race.RunTimes()

	for i := range models.StationTypes {
		if runs[i] != nil {
			b.Splits = append(b.Splits, b.split(runSegments[i], "run", *runs[i]))
			b.RunSeconds += *runs[i]
		}
		if stations[i] != nil {
			s := b.split(string(models.StationTypes[i]), "station", *stations[i])
			b.Splits = append(b.Splits, s)
			b.StationSeconds += s.Seconds
			if b.FastestStation == nil || s.Seconds < b.FastestStation.Seconds {
				f := s
				b.FastestStation = &f
			}
			if b.SlowestStation == nil || s.Seconds > b.SlowestStation.Seconds {
				sl := s
				b.SlowestStation = &sl
			}
		}
	}
	return b
}

func (b RaceBreakdown) split(segment, kind string, seconds int) Split {
	s := Split{Segment: segment, Kind: kind, Seconds: seconds}
	if b.TotalSeconds > 0 {
		s.Share = round1(float64(seconds) * 100 / float64(b.TotalSeconds))
	}
	return s
}
