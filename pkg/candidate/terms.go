package candidate

// InstitutionalKeywords mark a candidate as naming a medical or academic
// institution. Presence of any one of them is worth a single +5 bonus.
var InstitutionalKeywords = []string{
	"अस्पताल",     // hospital
	"हॉस्पिटल",    // hospital (loanword)
	"चिकित्सालय",  // clinic
	"आरोग्यशाला",  // sanatorium
	"संस्थान",     // institute
	"महाविद्यालय", // college
	"चिकित्सा",    // medical
	"आयुर्विज्ञान", // medical science
}

// FunctionWords are grammatical words that indicate descriptive prose
// rather than a proper name. Each occurrence costs 2 points, counted with
// repetition over the whole candidate. Matching is substring matching, so
// है also counts inside हैं; names rarely contain either.
var FunctionWords = []string{
	"का", "के", "में", "है", "हैं", "की", "को", "से", "पर", "तक",
	"भी", "सभी", "कुछ", "बहुत", "यह", "वह", "इस", "उस",
	"होता", "होती", "होते", "होतीं",
}

// CityNames are major city names whose presence in a long candidate
// suggests an address or a news sentence rather than a facility name.
var CityNames = []string{
	"भारत", "दिल्ली", "मुंबई", "बंगलुरु", "चेन्नई",
	"कोलकाता", "हैदराबाद", "पुणे", "अहमदाबाद", "जयपुर",
}
