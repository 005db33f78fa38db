package roleplay

// action describes one expressive command: its API endpoint, embed color,
// the action line for a valid target, and the refusal/error lines.
type action struct {
	Name        string
	Description string
	Endpoint    string
	Color       int
	// Line is the embed text, formatted with (actor, target mention).
	Line string
	// Self and Bot are sent instead when the member targets themselves or
	// Mars; Error replaces the reply when the GIF API fails.
	Self  string
	Bot   string
	Error string
}

var actions = []action{
	{
		Name: "hug", Description: "Give someone a warm hug", Endpoint: "hug", Color: 0xF4A8B8,
		Line:  "%s wraps %s in a warm hug 🤗",
		Self:  "Um... you can't really hug yourself. Maybe ask someone else for a hug?",
		Bot:   "Oh! Thank you for the thought... Mars accepts the hug, just this once.",
		Error: "The hug got lost somewhere in the mail. Try again in a bit?",
	},
	{
		Name: "pat", Description: "Pat someone on the head", Endpoint: "pat", Color: 0xA8D8F4,
		Line:  "%s gently pats %s on the head",
		Self:  "Patting yourself is a bit hard, don't you think? Maybe someone else can pat you.",
		Bot:   "Mars leans into the pat and pretends not to like it.",
		Error: "The pat didn't land. Try again in a bit?",
	},
	{
		Name: "cuddle", Description: "Cuddle up with someone", Endpoint: "cuddle", Color: 0xE8C8F0,
		Line:  "%s cuddles up with %s 💞",
		Self:  "Cuddling yourself might be a bit lonely. Maybe find someone to cuddle with?",
		Bot:   "Mars blushes... but allows the cuddle.",
		Error: "No cuddles right now, the blanket fort collapsed. Try again soon?",
	},
	{
		Name: "slap", Description: "Slap someone (gently)", Endpoint: "slap", Color: 0xE89898,
		Line:  "%s slaps %s! Ouch!",
		Self:  "Why would you want to slap yourself? Please don't hurt yourself.",
		Bot:   "Mars flinches. W-what did Mars do wrong...?",
		Error: "Your hand missed. Probably for the best. Try again later?",
	},
	{
		Name: "poke", Description: "Poke someone", Endpoint: "poke", Color: 0xC8E8C8,
		Line:  "%s pokes %s. Poke poke.",
		Self:  "You're trying to poke yourself? That's a bit silly, don't you think?",
		Bot:   "Mars jumps slightly. You startled them!",
		Error: "The poke fizzled out. Try again in a bit?",
	},
	{
		Name: "bite", Description: "Bite someone (playfully)", Endpoint: "bite", Color: 0xD8B8A8,
		Line:  "%s playfully bites %s. Chomp!",
		Self:  "Biting yourself? That seems painful! Please don't.",
		Bot:   "Mars squeaks. Please don't bite the bot!",
		Error: "Your teeth missed. Try again later?",
	},
	{
		Name: "highfive", Description: "High five someone", Endpoint: "highfive", Color: 0xF8E8A8,
		Line:  "%s high fives %s! ✋",
		Self:  "High fiving yourself? That's a bit lonely. Maybe find a friend!",
		Bot:   "Mars shyly raises a hand and high fives you back.",
		Error: "The high five whiffed. Try again soon?",
	},
	{
		Name: "wave", Description: "Wave at someone", Endpoint: "wave", Color: 0xA8E0E8,
		Line:  "%s waves happily at %s 👋",
		Self:  "Waving at yourself? That's a bit odd. Maybe wave at someone else?",
		Bot:   "Mars waves back, shyly. Hello there!",
		Error: "Your wave got lost in the wind. Try again in a bit?",
	},
}
