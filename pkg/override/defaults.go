package override

// DefaultRules returns the built-in correction table for the UP facility
// roster. The exact entries pin specific export spellings (including their
// double spaces); the pattern rule catches the HARAIYA row however the
// export happens to space or case it.
func DefaultRules() *RuleSet {
	return &RuleSet{
		Name: "up-roster-defaults",
		Exact: map[string]string{
			"CHC HARAIYA  (AZAMGARH)":            "सामुदायिक स्वास्थ्य केंद्र, हरैया, आजमगढ़",
			"chc-hariya":                         "सामुदायिक स्वास्थ्य केंद्र, हरिया",
			"chc-parshurampur":                   "सामुदायिक स्वास्थ्य केंद्र, परशुरामपुर",
			"CHC Martinganj  (Azamgarh)":         "सामुदायिक स्वास्थ्य केंद्र, मार्टिंगंज, आजमगढ़",
			"CHC Kushalgaon (Azamgarh)":          "सामुदायिक स्वास्थ्य केंद्र, कुशलगांव, आजमगढ़",
			"CHC Sahaswan (BADAUN)":              "सामुदायिक स्वास्थ्य केंद्र, सहसवान, बदायूं",
			"CHC UJHANI  (BADAUN)":               "सामुदायिक स्वास्थ्य केंद्र, उझानी, बदायूं",
			"CHA BARSANA (MATHURA)":              "सामुदायिक स्वास्थ्य केंद्र, बरसाना, मथुरा",
			"CHC MEERGANJ (BAREILLY)":            "सामुदायिक स्वास्थ्य केंद्र, मीरगंज, बरेली",
			"CHC BHAMORA (BAREILLY)":             "सामुदायिक स्वास्थ्य केंद्र, भमोरा, बरेली",
			"CHC PHOOL BEHAD (LAKHIMPUR KHEERI)": "सामुदायिक स्वास्थ्य केंद्र, फूल बेहड़, लखीमपुर खीरी",
			"CHC MIRZAPUR (AZAMGARH)":            "सामुदायिक स्वास्थ्य केंद्र, मिर्ज़ापुर, आजमगढ़",
		},
		Patterns: []PatternRule{
			{
				Name:    "chc-haraiya-azamgarh",
				Pattern: `^\s*CHC\s+HARAIYA\s*\(\s*AZAMGARH\s*\)\s*$`,
				Value:   "सामुदायिक स्वास्थ्य केंद्र, हरैया, आजमगढ़",
			},
		},
	}
}
