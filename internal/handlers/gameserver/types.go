package gameserver

// envelope is the wire frame exchanged with the game-server bridge. Inbound
// frames carry chat lines and player lifecycle events; outbound frames carry
// whispers, kicks, privilege elevation and relays.
type envelope struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Line     string `json:"line,omitempty"`
	Text     string `json:"text,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Target   string `json:"target,omitempty"`
	Sender   string `json:"sender,omitempty"`
}

const (
	// inbound
	typeChat  = "chat"
	typeJoin  = "join"
	typeLeave = "leave"

	// outbound
	typeTell  = "tell"
	typeKick  = "kick"
	typeOp    = "op"
	typeRelay = "relay"
)
