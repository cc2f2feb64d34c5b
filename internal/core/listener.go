package core

// TownListener is the notification contract a town subscriber implements.
// Every method is mandatory; a listener registered with a TownController
// receives each event at most once, in listener-registration order.
type TownListener interface {
	// OnPlayerJoined is called when a player joins the town.
	OnPlayerJoined(player *Player)
	// OnPlayerMoved is called when a player's location changes.
	OnPlayerMoved(player *Player)
	// OnMessageSent is called when a chat message passes every rule and is
	// broadcast.
	OnMessageSent(msg ChatMessage)
	// OnPlayerDisconnected is called when a player's session ends.
	OnPlayerDisconnected(player *Player)
	// OnTownDestroyed is called exactly once when the town is torn down.
	OnTownDestroyed()
}
