package datasource

import (
	"fmt"
	"strings"
)

// League identifies a league-season grouping of team-season datasets
type League string

const (
	LeagueAL21  League = "AL21"
	LeagueNL21  League = "NL21"
	LeagueAL19  League = "AL19"
	LeagueNL19  League = "NL19"
	LeagueOther League = "OTHER"

	// GroupAll selects every known dataset
	GroupAll = "ALL"
)

var leagueDatasets = map[League][]string{
	LeagueAL21: {"det21", "chw21", "cle21", "kcr21", "min21", "tbr21", "bos21", "nyy21", "tor21", "bal21", "hou21", "sea21", "oak21", "laa21", "tex21"},
	LeagueNL21: {"atl21", "phi21", "nym21", "mia21", "was21", "mil21", "stl21", "cin21", "chc21", "pit21", "sfg21", "lad21", "sdp21", "col21", "ari21"},
	LeagueAL19: {"det19", "chw19", "cle19", "kcr19", "min19", "tbr19", "bos19", "nyy19", "tor19", "bal19", "hou19", "sea19", "oak19", "laa19", "tex19"},
	LeagueNL19: {"atl19", "phi19", "nym19", "mia19", "was19", "mil19", "stl19", "cin19", "chc19", "pit19", "sfg19", "lad19", "sdp19", "col19", "ari19"},
}

// Leagues lists the known leagues in legend order
var Leagues = []League{LeagueAL21, LeagueNL21, LeagueAL19, LeagueNL19}

// Datasets returns the dataset ids of a group. Unknown or empty groups
// select every dataset.
func Datasets(group string) []string {
	if ids, ok := leagueDatasets[League(strings.ToUpper(group))]; ok {
		return append([]string(nil), ids...)
	}
	all := make([]string, 0, 60)
	for _, league := range Leagues {
		all = append(all, leagueDatasets[league]...)
	}
	return all
}

// ResolveDatasets returns explicit ids when given, else the ids of group
func ResolveDatasets(group string, explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		seen := make(map[string]struct{}, len(explicit))
		ids := make([]string, 0, len(explicit))
		for _, id := range explicit {
			id = strings.TrimSpace(id)
			if id == "" {
				return nil, fmt.Errorf("empty dataset id")
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		return ids, nil
	}
	return Datasets(group), nil
}

// LeagueOf returns the league a dataset id belongs to
func LeagueOf(id string) League {
	for _, league := range Leagues {
		for _, known := range leagueDatasets[league] {
			if known == id {
				return league
			}
		}
	}
	return LeagueOther
}

// Color returns the plot colour used for a league
func (l League) Color() string {
	switch l {
	case LeagueAL21:
		return "r"
	case LeagueNL21:
		return "b"
	case LeagueAL19:
		return "darkorange"
	case LeagueNL19:
		return "darkviolet"
	default:
		return "g"
	}
}
