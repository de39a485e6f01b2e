package features

// Lexicon holds the curated marker lists used by the naturalness bonus
type Lexicon struct {
	Informal []string // Colloquial particles, slang and common misspellings
	Formal   []string // Connectives and jargon favored by generated text
}

// DefaultLexicon returns the Indonesian lexicon, with common English markers
func DefaultLexicon() Lexicon {
	return Lexicon{
		Informal: []string{
			// Particles and slang
			"yg", "gw", "gue", "gua", "lu", "lo", "elo", "gak", "ga", "nggak", "enggak",
			"udah", "udh", "aja", "nih", "kalo", "donk", "dong", "banget", "bgt", "sih",
			"deh", "kok", "tuh", "loh", "lho", "cuma", "kayak", "kyk", "nyadar", "abis",
			"gini", "gitu", "gimana", "emang", "bener", "pake", "bikin", "capek", "males",
			"wkwk", "wkwkwk", "hehe", "haha", "btw", "jg", "dgn", "krn", "tdk", "blm", "sy",
			// Non-standard spellings common in human writing
			"merubah", "praktek", "resiko", "nasehat", "sekedar", "ijin", "jaman",
			"apotik", "kwalitas", "antri", "silahkan", "ketemu",
			// English
			"gonna", "wanna", "gotta", "kinda", "sorta", "dunno", "yeah", "nope",
			"lol", "tbh", "idk", "imo",
		},
		Formal: []string{
			"oleh karena itu", "dengan demikian", "selain itu", "lebih lanjut",
			"penting untuk dicatat", "perlu diperhatikan", "secara keseluruhan",
			"dalam konteks ini", "pada akhirnya", "tidak dapat dipungkiri",
			"paradigma", "komprehensif", "holistik", "transformatif", "sinergi",
			"esensial", "krusial", "multifaset", "lanskap",
			"therefore", "furthermore", "moreover", "additionally", "in conclusion",
			"it is important to note", "it is worth noting", "paradigm", "comprehensive",
			"delve", "crucial", "holistic", "seamless", "leverage", "pivotal", "multifaceted",
		},
	}
}
