package game

// Settings carries the tunables the coordinator needs. Hand size and the
// start minimum are configuration, not literals.
type Settings struct {
	HandSize   int
	MinPlayers int
	MaxPlayers int
}

func DefaultSettings() Settings {
	return Settings{
		HandSize:   10,
		MinPlayers: 3,
		MaxPlayers: 12,
	}
}

// Game coordinates a shared match over a Store. It holds no timers and no
// in-process state of its own: many instances in many processes may operate
// on the same room concurrently, and correctness comes entirely from the
// store's constraints and conditional writes.
type Game struct {
	store    Store
	settings Settings
}

func New(store Store, settings Settings) *Game {
	if settings.HandSize <= 0 {
		settings.HandSize = DefaultSettings().HandSize
	}
	if settings.MinPlayers <= 1 {
		settings.MinPlayers = DefaultSettings().MinPlayers
	}
	return &Game{store: store, settings: settings}
}

func (g *Game) Store() Store {
	return g.store
}

func (g *Game) Settings() Settings {
	return g.settings
}
