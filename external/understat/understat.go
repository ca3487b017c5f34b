package understat

// leagueDataEnvelope is the body of getLeagueData/{league}/{season}.
type leagueDataEnvelope struct {
	Teams map[string]Team `json:"teams"`
	Dates []Match         `json:"dates"`
}

type Team struct {
	ID      any          `json:"id"`
	Title   string       `json:"title"`
	History []TeamResult `json:"history"`
}

// TeamResult is one played match in a team's history. Numbers arrive as JSON
// numbers or strings depending on the endpoint.
type TeamResult struct {
	XG     any    `json:"xG"`
	XGA    any    `json:"xGA"`
	Date   string `json:"date"`
	Result string `json:"result"`
}

type Match struct {
	ID       any       `json:"id"`
	IsResult bool      `json:"isResult"`
	Home     MatchSide `json:"h"`
	Away     MatchSide `json:"a"`
	Datetime string    `json:"datetime"`
}

type MatchSide struct {
	ID         any    `json:"id"`
	Title      string `json:"title"`
	ShortTitle string `json:"short_title"`
}
