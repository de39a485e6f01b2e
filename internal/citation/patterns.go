package citation

import "regexp"

// IntroPhraseMaxWords bounds the reporting-phrase heuristic to short segments
const IntroPhraseMaxWords = 45

// name fragment: a capitalized word, possibly hyphenated or with an apostrophe
const nameWord = `[A-Z][\p{L}'’\-]+`

// builtinCategories returns the default pattern set in priority order
func builtinCategories() []Category {
	return []Category{
		// Hard exclusions
		{
			Name: "headers",
			Tier: TierHard,
			Pattern: regexp.MustCompile(
				`(?i)\b(?:daftar pustaka|daftar rujukan|daftar referensi|references|bibliography|works cited)\b` +
					`|(?i)^(?:[ivx\d]+\.?\s*)?(?:abstrak|abstract|metodologi|methodology|metode penelitian|kata kunci|keywords|lampiran)\s*(?::|$)`),
		},
		{
			Name:    "url",
			Tier:    TierHard,
			Pattern: regexp.MustCompile(`(?i)https?://[^\s<>"]+|www\.[^\s<>"]+|doi\.org/[^\s<>"]+`),
		},
		{
			Name:    "email",
			Tier:    TierHard,
			Pattern: regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
		},
		{
			Name: "journal_metadata",
			Tier: TierHard,
			Pattern: regexp.MustCompile(
				`(?i)\bvol(?:ume)?\.?\s*\d+\s*,?\s*(?:no|nomor|issue)\.?\s*\d+` +
					`|(?i)\b[ep]?-?issn\b` +
					`|(?i)\bdoi\s*:?\s*10\.\d{4,}` +
					`|\b10\.\d{4,9}/\S+`),
		},
		{
			Name: "legal",
			Tier: TierHard,
			Pattern: regexp.MustCompile(
				`(?i)\b(?:pasal\s+\d+[a-z]?|ayat\s*\(\d+\)` +
					`|(?:uu|undang-undang|perpu|perppu|pp|perpres|permen|perda|keppres|peraturan (?:pemerintah|presiden|menteri|daerah))\s+(?:no\.?|nomor)\s*\d+(?:\s+tahun\s+\d{4})?` +
					`|article\s+\d+(?:\s*\(\d+\))?)` +
					`|§\s*\d+`),
		},

		// Quotes and reference markers
		{
			Name:    "direct_quote",
			Tier:    TierReference,
			Pattern: regexp.MustCompile(`["“][^"”]{30,}["”]`),
		},
		{
			Name: "parenthetical",
			Tier: TierReference,
			Pattern: regexp.MustCompile(
				`\(` + nameWord + `(?:\s+(?:et al\.?|dkk\.?|&|and|dan)(?:\s+` + nameWord + `)?)?,?\s+(?:19|20)\d{2}[a-z]?` +
					`(?:\s*[,:]\s*(?:(?:pp?|hlm|hal)\.\s*)?\d+(?:\s*[-–]\s*\d+)?)?(?:;[^()]*)?\)`),
		},
		{
			Name: "narrative",
			Tier: TierReference,
			Pattern: regexp.MustCompile(
				`\b` + nameWord + `(?:\s+(?:et al\.?|dkk\.?))?\s+\((?:19|20)\d{2}[a-z]?(?:\s*[,:]\s*(?:(?:pp?|hlm|hal)\.\s*)?\d+)?\)`),
		},
		{
			Name:    "bracketed",
			Tier:    TierReference,
			Pattern: regexp.MustCompile(`\[\d{1,3}(?:\s*[,–\-]\s*\d{1,3})*\]`),
		},
		{
			Name: "bib_style",
			Tier: TierReference,
			Pattern: regexp.MustCompile(
				`(?m)^` + nameWord + `,\s*(?:[A-Z]\.\s?)+(?:,?\s*(?:&|dan|and)\s*` + nameWord + `,?\s*(?:[A-Z]\.\s?)*)*.*?\(?(?:19|20)\d{2}[a-z]?\)?` +
					`|(?m)^` + nameWord + `(?:,\s*[\p{L}. ]+)?\.\s*\((?:19|20)\d{2}[a-z]?\)`),
		},
		{
			Name:    "footnote",
			Tier:    TierReference,
			Pattern: regexp.MustCompile(`(?i)\b(?:ibid|op\.\s*cit|loc\.\s*cit)\b|\[\^\d+\]`),
		},
		{
			Name: "statistics",
			Tier: TierReference,
			Pattern: regexp.MustCompile(
				`\bp\s*[<>=≤≥]\s*0?[.,]\d+` +
					`|\b[Ftz]\s*\(\s*\d+\s*(?:,\s*\d+\s*)?\)\s*=\s*-?\d+(?:[.,]\d+)?` +
					`|\b(?:r|R2|R²|chi2)\s*=\s*-?0?[.,]\d+` +
					`|(?i)\bsig\.?\s*[<>=]\s*0?[.,]\d+`),
		},
		{
			Name:    "title_case_run",
			Tier:    TierReference,
			Pattern: regexp.MustCompile(`(?:\b` + nameWord + `[,:]?\s+){5,}` + nameWord),
		},

		// Heuristic
		{
			Name: "intro_phrase",
			Tier: TierHeuristic,
			Pattern: regexp.MustCompile(
				`(?i)^\W*(?:menurut|berdasarkan|seperti yang dinyatakan oleh|selaras dengan|merujuk pada|sesuai dengan pasal|sesuai pasal` +
					`|sebagaimana|seperti dikutip dari|dikutip dari|according to|based on|as stated by|as cited in)\b`),
			MaxWords: IntroPhraseMaxWords,
		},
	}
}
