package models

// SeasonRow is one simulated game: the input record plus the staking outcome
type SeasonRow struct {
	GameRecord
	Bet      float64 `json:"bet"`
	Payout   float64 `json:"payout"`
	Balance  float64 `json:"balance"`
	Earnings float64 `json:"earnings"`
	Refilled bool    `json:"refilled"`
}

// SeasonResult is the output of one staking engine run over one team-season
type SeasonResult struct {
	ID      string      `json:"id"`
	Policy  Policy      `json:"policy"`
	Params  StakeParams `json:"params"`
	Rows    []SeasonRow `json:"rows"`
	Refills int         `json:"refills"`
}

// Wins counts the winning games of the season
func (s *SeasonResult) Wins() int {
	wins := 0
	for _, row := range s.Rows {
		if row.Result.IsWin() {
			wins++
		}
	}
	return wins
}

// FinalEarnings returns cumulative earnings after the last game
func (s *SeasonResult) FinalEarnings() (float64, error) {
	if len(s.Rows) == 0 {
		return 0, ErrEmptyResult
	}
	return s.Rows[len(s.Rows)-1].Earnings, nil
}

// SeasonSet maps team-season ids to results, preserving insertion order
type SeasonSet struct {
	ids  []string
	byID map[string]*SeasonResult
}

// NewSeasonSet creates an empty season set
func NewSeasonSet() *SeasonSet {
	return &SeasonSet{byID: make(map[string]*SeasonResult)}
}

// Put stores a result; re-putting an id keeps its first position
func (s *SeasonSet) Put(result *SeasonResult) {
	if _, ok := s.byID[result.ID]; !ok {
		s.ids = append(s.ids, result.ID)
	}
	s.byID[result.ID] = result
}

// Get returns the result for an id
func (s *SeasonSet) Get(id string) (*SeasonResult, bool) {
	result, ok := s.byID[id]
	return result, ok
}

// IDs returns ids in insertion order
func (s *SeasonSet) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Len returns the number of stored results
func (s *SeasonSet) Len() int {
	return len(s.ids)
}

// Results returns results in insertion order
func (s *SeasonSet) Results() []*SeasonResult {
	results := make([]*SeasonResult, 0, len(s.ids))
	for _, id := range s.ids {
		results = append(results, s.byID[id])
	}
	return results
}
