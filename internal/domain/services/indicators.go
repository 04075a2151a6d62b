package services

import (
	"slices"
	"strings"
	"unicode/utf16"

	"palava-proof/internal/domain/models"
)

// indicator is one entry of the detection table. Entries are evaluated in
// table order and each one contributes its weight at most once.
type indicator struct {
	category models.Category
	weight   int
	finding  string
	keywords []string
	// caseSensitive keywords are matched against the original text
	caseSensitive bool
	// match replaces keyword matching for structural checks
	match func(original string) bool
}

func (in indicator) triggered(original, lower string) bool {
	if in.match != nil {
		return in.match(original)
	}
	text := lower
	if in.caseSensitive {
		text = original
	}
	for _, kw := range in.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// shoutingRatio is the share of uppercase letters above which a message
// counts as shouting, expressed as num/den to keep the comparison exact
const (
	shoutingRatioNum = 2
	shoutingRatioDen = 5
)

// isShouting reports "!!!" or more than 40% uppercase letters. Only ASCII
// A-Z count as uppercase, and the length is measured in UTF-16 code units
// over the whole message including spaces and punctuation, so a rune outside
// the BMP such as an emoji counts twice.
func isShouting(message string) bool {
	if strings.Contains(message, "!!!") {
		return true
	}
	var upper, length int
	for _, r := range message {
		length += utf16.RuneLen(r)
		if 'A' <= r && r <= 'Z' {
			upper++
		}
	}
	return upper*shoutingRatioDen > length*shoutingRatioNum
}

var indicators = [...]indicator{
	{
		category: models.CategoryUrgency,
		weight:   15,
		finding:  "Creates false urgency",
		keywords: []string{"urgent", "immediately", "now", "today", "limited", "expires", "deadline", "action required"},
	},
	{
		category: models.CategoryPrizes,
		weight:   20,
		finding:  "Claims you won something",
		keywords: []string{"won", "prize", "winner", "congratulations", "awarded", "selected", "lucky"},
	},
	{
		category: models.CategoryFree,
		weight:   15,
		finding:  "Offers free gifts/money",
		keywords: []string{"free", "gift", "bonus", "reward", "claim", "discount", "offer"},
	},
	{
		category: models.CategoryAccount,
		weight:   20,
		finding:  "Asks to verify account",
		keywords: []string{"account", "verify", "verification", "update", "locked", "suspended", "restricted"},
	},
	{
		category: models.CategoryMoney,
		weight:   10,
		finding:  "Mentions money/transfers",
		keywords: []string{"money", "cash", "transfer", "payment", "bank", "orange money", "mtn", "loan"},
	},
	{
		category: models.CategoryLinks,
		weight:   25,
		finding:  "Contains shortened URL",
		keywords: []string{"bit.ly", "tinyurl", "goo.gl", "ow.ly", "click", "link"},
	},
	{
		category:      models.CategoryPhone,
		weight:        15,
		finding:       "Contains Liberian phone number",
		keywords:      []string{"077", "088", "055", "056", "231"},
		caseSensitive: true,
	},
	{
		category: models.CategoryShouting,
		weight:   10,
		finding:  "Uses excessive urgency",
		match:    isShouting,
	},
}

// Categories returns a copy of the detection table in evaluation order
func Categories() []models.CategoryInfo {
	out := make([]models.CategoryInfo, 0, len(indicators))
	for _, in := range indicators {
		out = append(out, models.CategoryInfo{
			Category:      in.category,
			Weight:        in.weight,
			Keywords:      slices.Clone(in.keywords),
			Finding:       in.finding,
			CaseSensitive: in.caseSensitive,
		})
	}
	return out
}
