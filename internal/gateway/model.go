package gateway

// Wire shapes for the authority's four calls. Field names follow the
// gateway's JSON exactly; everything the client consumes is listed here.

type JoinRequest struct {
	Name string `json:"name"`
}

type JoinResponse struct {
	Token    string `json:"token"`
	PlayerID int    `json:"player_id"`
	Message  string `json:"message"`
}

type CommandRequest struct {
	Token   string `json:"token"`
	Command string `json:"command"`
}

type CommandResponse struct {
	Message string `json:"message"`
}

type UpdatesResponse struct {
	Message string `json:"message"`
}

type Player struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	Ping float64 `json:"ping"`
	OK   bool    `json:"ok"`
}

// SlotCard pairs a seat with the card it holds, used for both the live
// table slots and the recent-trick report.
type SlotCard struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
	Card string `json:"card"`
}

// State is the full authoritative snapshot pulled each state tick.
type State struct {
	Scoreboard        map[string]int `json:"scoreboard"`
	CurrentTurn       int            `json:"current_turn"`
	Trump             string         `json:"trump"`
	Phase             string         `json:"phase"`
	Players           []Player       `json:"players"`
	TableCards        []string       `json:"table_cards"`
	Hand              []string       `json:"hand"`
	TableSlots        []SlotCard     `json:"table_slots"`
	LastWinner        int            `json:"last_winner"`
	HighlightUntil    float64        `json:"highlight_until"`
	RecentTrick       []SlotCard     `json:"recent_trick"`
	RecentTrickExpire float64        `json:"recent_trick_expire"`
}

// errorBody is the gateway's failure detail envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// Session is what a successful join leaves the client holding: the opaque
// credential and the assigned seat.
type Session struct {
	Token   string
	Seat    int
	Message string
}
