package shared

// TeamID identifies one of the two fixed teams.
type TeamID string

const (
	Team1 TeamID = "team1" // Even seats
	Team2 TeamID = "team2" // Odd seats
)

// Team is a view over the players seated on it. Its score is the sum of its
// members' scores and is never tracked on its own.
type Team struct {
	ID        TeamID   `json:"id"`
	Name      string   `json:"name"`
	PlayerIDs []string `json:"player_ids"`
	Score     int      `json:"score"`
}

// BuildTeams splits players by seat parity.
func BuildTeams(players []*Player) []*Team {
	teams := []*Team{
		{ID: Team1, Name: "Team 1", PlayerIDs: []string{}},
		{ID: Team2, Name: "Team 2", PlayerIDs: []string{}},
	}
	for seat, p := range players {
		t := teams[seat%2]
		t.PlayerIDs = append(t.PlayerIDs, p.ID)
		t.Score += p.Score
	}
	return teams
}

// Clone returns a copy that shares nothing with t.
func (t *Team) Clone() *Team {
	c := *t
	c.PlayerIDs = append([]string(nil), t.PlayerIDs...)
	return &c
}
