package embed

// importantTerms is a static gazetteer of US state names/abbreviations and
// major cities. Tokens in this set get a 2x weight so that location-bearing
// queries rank location-bearing documents above generic ones.
var importantTerms = map[string]bool{
	// State abbreviations and names
	"ny": true, "ca": true, "tx": true, "fl": true, "il": true,
	"pa": true, "ohio": true, "ga": true, "nc": true, "mi": true,
	"nj": true, "va": true, "wa": true, "az": true, "ma": true,
	"tn": true, "in": true, "mo": true, "md": true, "wi": true,
	"york": true, "california": true, "texas": true, "florida": true,
	"illinois": true, "pennsylvania": true, "georgia": true,
	"carolina": true, "michigan": true, "jersey": true, "virginia": true,
	"washington": true, "arizona": true, "massachusetts": true,
	"tennessee": true, "indiana": true, "missouri": true,
	"maryland": true, "wisconsin": true,
	// Major cities
	"chicago": true, "houston": true, "phoenix": true,
	"philadelphia": true, "antonio": true, "diego": true, "dallas": true,
	"jose": true, "austin": true, "jacksonville": true, "francisco": true,
	"columbus": true, "charlotte": true, "indianapolis": true,
	"seattle": true, "denver": true, "boston": true, "detroit": true,
	"nashville": true, "memphis": true, "portland": true, "vegas": true,
	"louisville": true, "baltimore": true, "milwaukee": true,
	"albuquerque": true, "tucson": true, "fresno": true, "mesa": true,
	"sacramento": true, "atlanta": true, "kansas": true, "miami": true,
	"oakland": true, "minneapolis": true, "tulsa": true,
	"cleveland": true, "wichita": true, "arlington": true, "worth": true,
}

// importantBigrams is the static set of two-word place names. Bigrams in
// this set get a 3x weight. Keys are "w1 w2".
var importantBigrams = map[string]bool{
	"new york": true, "new jersey": true, "new mexico": true,
	"new hampshire": true, "new orleans": true, "los angeles": true,
	"san francisco": true, "san diego": true, "san antonio": true,
	"san jose": true, "fort worth": true, "fort wayne": true,
	"salt lake": true, "el paso": true, "north carolina": true,
	"south carolina": true, "south dakota": true, "north dakota": true,
	"west virginia": true, "las vegas": true, "santa barbara": true,
	"santa cruz": true, "kansas city": true, "oklahoma city": true,
	"jersey city": true, "virginia beach": true,
}
