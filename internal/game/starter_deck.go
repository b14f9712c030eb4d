package game

// SeedStarterDeck loads a small built-in deck, used by the in-memory
// server mode and handy for local play. Big enough for a few rounds with
// a full table; real decks are loaded from CSV into the database.
func SeedStarterDeck(store Store) (uint, error) {
	deck := Deck{Name: "Starter"}
	if err := store.CreateDeck(&deck); err != nil {
		return 0, err
	}
	for _, text := range starterPrompts {
		card := Card{DeckID: deck.ID, Kind: CardKindPrompt, Text: text, Pick: 1}
		if err := store.CreateCard(&card); err != nil {
			return 0, err
		}
	}
	for _, text := range starterAnswers {
		card := Card{DeckID: deck.ID, Kind: CardKindAnswer, Text: text, Pick: 1}
		if err := store.CreateCard(&card); err != nil {
			return 0, err
		}
	}
	return deck.ID, nil
}

var starterPrompts = []string{
	"The secret ingredient in grandma's soup is ____.",
	"My autobiography will be titled ____.",
	"Nothing ruins a road trip faster than ____.",
	"The real reason the meeting ran long: ____.",
	"Scientists have finally discovered ____.",
	"Next year's hottest gadget is ____.",
	"I knew the party was over when I saw ____.",
	"The museum's newest exhibit features ____.",
	"My superpower would be useless against ____.",
	"The landlord said the apartment comes with ____.",
	"Breaking news: the city has banned ____.",
	"My therapist says I should let go of ____.",
}

var starterAnswers = []string{
	"a suspiciously confident pigeon",
	"the world's loudest whisper",
	"forty-seven rubber ducks",
	"an expired coupon for happiness",
	"my neighbor's conspiracy wall",
	"a motivational fax machine",
	"the last working pay phone",
	"an aggressively friendly mime",
	"decaf coffee, unmarked",
	"a ladder with trust issues",
	"the office thermostat wars",
	"a haunted spreadsheet",
	"my collection of single socks",
	"an apology written in glitter",
	"the elevator music remix album",
	"a very small violin",
	"instructions in the original Latin",
	"the fourth attempt at sourdough",
	"a parallel parking certificate",
	"an umbrella that only opens indoors",
	"the group chat at 3 a.m.",
	"a lukewarm bath of regret",
	"my cousin's pyramid scheme",
	"the wrong kind of glue",
	"a standing ovation from no one",
	"the squeaky shopping cart wheel",
	"a well-rehearsed shrug",
	"the neighbor's karaoke machine",
	"an alibi made of cheese",
	"a surprisingly legal firework",
	"the printer that smells fear",
	"a map of places to avoid",
	"one enormous left shoe",
	"the complete works of my dentist",
	"a whistle only dogs respect",
	"an unsolicited drum solo",
	"the leftovers nobody claims",
	"a chair that remembers everything",
	"my browser history, unredacted",
	"a handshake that lasts too long",
	"the eleventh secret herb",
	"an echo with opinions",
	"the stairs that skip a step",
	"a trophy for participation in traffic",
}
