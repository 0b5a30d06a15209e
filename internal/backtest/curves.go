package backtest

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/yourusername/martingale-lab/internal/datasource"
	"github.com/yourusername/martingale-lab/internal/models"
)

// CurvePoint is cumulative earnings after one game
type CurvePoint struct {
	Game     int     `json:"game"`
	Earnings float64 `json:"earnings"`
}

// EarningsCurve is the cumulative earnings path of one team-season
type EarningsCurve struct {
	ID     string            `json:"id"`
	League datasource.League `json:"league"`
	Color  string            `json:"color"`
	Points []CurvePoint      `json:"points"`
}

// ScatterPoint places one team-season on the earnings-vs-wins chart
type ScatterPoint struct {
	Name     string            `json:"name"`
	Wins     int               `json:"wins"`
	Earnings float64           `json:"earnings"`
	League   datasource.League `json:"league"`
	Color    string            `json:"color"`
}

// EarningsCurves returns one curve per season, in set order
func EarningsCurves(set *models.SeasonSet) []EarningsCurve {
	if set == nil {
		return nil
	}
	curves := make([]EarningsCurve, 0, set.Len())
	for _, result := range set.Results() {
		league := datasource.LeagueOf(result.ID)
		points := make([]CurvePoint, 0, len(result.Rows))
		for _, row := range result.Rows {
			points = append(points, CurvePoint{Game: row.Order, Earnings: row.Earnings})
		}
		curves = append(curves, EarningsCurve{
			ID:     result.ID,
			League: league,
			Color:  league.Color(),
			Points: points,
		})
	}
	return curves
}

// ScatterPoints colours team summaries by league
func ScatterPoints(summaries []models.TeamSummary) []ScatterPoint {
	points := make([]ScatterPoint, 0, len(summaries))
	for _, summary := range summaries {
		league := datasource.LeagueOf(summary.Name)
		points = append(points, ScatterPoint{
			Name:     summary.Name,
			Wins:     summary.Wins,
			Earnings: summary.Earnings,
			League:   league,
			Color:    league.Color(),
		})
	}
	return points
}

// CurvesToCSV exports curves in long format
func CurvesToCSV(curves []EarningsCurve) string {
	var buf bytes.Buffer
	buf.WriteString("id,league,game,earnings\n")
	for _, curve := range curves {
		for _, point := range curve.Points {
			buf.WriteString(curve.ID)
			buf.WriteString(",")
			buf.WriteString(string(curve.League))
			buf.WriteString(",")
			buf.WriteString(strconv.Itoa(point.Game))
			buf.WriteString(",")
			buf.WriteString(formatFloat(point.Earnings))
			buf.WriteString("\n")
		}
	}
	return buf.String()
}

// CurvesToJSON exports curves to a JSON string
func CurvesToJSON(curves []EarningsCurve) string {
	data, _ := json.Marshal(curves)
	return string(data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
