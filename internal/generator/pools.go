package generator

var commentPhrases = []string{
	"This beat is fire! 🔥",
	"Bars are on point, keep it up!",
	"Underrated artist, subscribed!",
	"Nah, not feeling this one.",
	"Got this on repeat!",
	"The storytelling here is incredible.",
	"Future of rap right here.",
	"Reminds me of classic hip-hop, love it!",
	"So fresh, so clean.",
	"First!",
	"There's a lot of depth in these lyrics.",
	"Perfect for a late-night drive.",
	"Needs more originality.",
	"Been following since day one, proud of your growth!",
	"Mix is clean, production is top-notch.",
	"This is a masterpiece!",
	"Can't wait for the next one!",
	"You're inspiring me to make music.",
	"The visuals are amazing too!",
	"Not my cup of tea.",
	"Who's listening in 2025?",
	"This song changed my life.",
	"So much talent!",
	"Keep grinding!",
	"Love the energy!",
}

var commentUsers = []string{
	"BeatMasterFlex",
	"RhymeSlinger",
	"MusicLover22",
	"HaterGonnaHate",
	"VibeChecker",
	"LyricAnalyst",
	"TrendSetter",
	"OldSchoolFan",
	"NewGen",
	"RandomDude",
	"DeepThinker",
	"ChillVibes",
	"CritiqueKing",
	"FanForLife",
	"SoundEngineer",
	"RapGod",
	"FlowState",
	"MicCheck",
	"GrooveGuru",
	"TuneTrooper",
}

// Countries and cities are ordered; allocation walks them in this order
var countries = []string{"USA", "Canada", "UK", "Germany", "France", "Australia", "Brazil", "India", "Japan", "Mexico"}

var cities = []string{
	"New York",
	"Los Angeles",
	"London",
	"Toronto",
	"Berlin",
	"Paris",
	"Sydney",
	"Rio de Janeiro",
	"Mumbai",
	"Tokyo",
	"Chicago",
	"Houston",
	"Mexico City",
	"São Paulo",
	"Delhi",
}

// Countries returns the country dimension keys
func Countries() []string {
	return append([]string(nil), countries...)
}

// Cities returns the city dimension keys
func Cities() []string {
	return append([]string(nil), cities...)
}
