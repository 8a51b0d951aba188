// Package grocery classifies free-text item names into store categories.
package grocery

import (
	"sort"
	"strings"
)

// FallbackCategory is returned when no keyword matches.
const FallbackCategory = "Other"

// Suggest returns the category name for an item. Matching is
// case-insensitive: an exact name match wins, then the longest keyword
// contained in the name.
func Suggest(itemName string) string {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return FallbackCategory
	}

	if cat, ok := exactIndex[name]; ok {
		return cat
	}
	for _, rule := range substringIndex {
		if strings.Contains(name, rule.keyword) {
			return rule.category
		}
	}
	return FallbackCategory
}

// exactKeywords lists item names that map to a category as-is. Plural
// forms are generated, so only singulars need listing unless the plural
// is irregular.
var exactKeywords = map[string][]string{
	"Produce": {
		"apple", "banana", "orange", "lemon", "lime", "avocado",
		"tomato", "potato", "onion", "garlic", "lettuce", "spinach",
		"kale", "broccoli", "carrot", "celery", "cucumber", "mushroom",
		"corn", "grape", "strawberry", "blueberry", "raspberry",
		"watermelon", "pineapple", "mango", "peach", "pear",
		"cilantro", "basil", "parsley", "ginger", "zucchini",
		"asparagus", "green beans",
	},
	"Dairy": {
		"milk", "butter", "cheese", "yogurt", "cream", "sour cream",
		"cream cheese", "cottage cheese", "egg", "half and half",
	},
	"Meat & Seafood": {
		"chicken", "beef", "pork", "turkey", "ham", "bacon",
		"sausage", "steak", "ground beef", "salmon", "tuna",
		"shrimp", "fish", "lamb",
	},
	"Bakery": {
		"bread", "bagel", "tortilla", "muffin", "croissant", "baguette",
	},
	"Pantry": {
		"rice", "pasta", "flour", "sugar", "salt", "cereal",
		"oatmeal", "granola", "honey", "ketchup", "mustard", "mayo",
		"mayonnaise", "vinegar",
	},
	"Frozen": {
		"ice cream", "popsicle", "ice",
	},
	"Beverages": {
		"coffee", "tea", "juice", "soda", "water", "beer", "wine",
		"kombucha",
	},
	"Snacks": {
		"chip", "cracker", "cookie", "popcorn", "pretzel", "candy",
		"chocolate", "nut", "almond", "cashew",
	},
	"Household": {
		"shampoo", "conditioner", "toothpaste", "deodorant", "soap",
		"lotion", "sunscreen", "tissue", "sponge", "foil",
	},
}

// substringKeywords match anywhere in the item name, so "boneless
// chicken thighs" still lands in Meat & Seafood.
var substringKeywords = map[string][]string{
	"Produce": {
		"lettuce", "spinach", "tomato", "potato", "onion", "pepper",
		"carrot", "celery", "berries", "salad",
	},
	"Dairy": {
		"milk", "cheese", "yogurt", "butter", "cream", "eggs",
	},
	"Meat & Seafood": {
		"chicken", "beef", "pork", "turkey", "bacon", "sausage",
		"steak", "salmon", "shrimp", "fish",
	},
	"Bakery": {
		"sourdough", "whole wheat", "bread", "bagel", "tortilla",
		"bun", "roll", "muffin", "croissant",
	},
	"Pantry": {
		"peanut butter", "olive oil", "coconut oil", "maple syrup",
		"hot sauce", "soy sauce", "pasta sauce", "tomato sauce",
		"canned", "cereal", "oatmeal", "granola", "rice", "pasta",
		"noodle", "flour", "sugar", "spice", "seasoning", "sauce",
		"broth", "stock", "soup", "bean", "lentil",
	},
	"Frozen": {
		"frozen", "ice cream", "popsicle",
	},
	"Beverages": {
		"sparkling water", "orange juice", "apple juice", "coffee",
		"tea", "juice", "soda", "water", "beer", "wine", "drink",
	},
	"Snacks": {
		"granola bar", "trail mix", "chip", "cracker", "cookie",
		"popcorn", "pretzel", "candy", "chocolate", "snack",
	},
	"Household": {
		"paper towel", "toilet paper", "trash bag", "garbage bag",
		"dish soap", "laundry", "detergent", "cleaner", "cleaning",
		"sponge", "foil", "plastic wrap", "ziplock", "battery",
		"light bulb", "shampoo", "toothpaste", "deodorant", "lotion",
		"razor", "tissue",
	},
}

type substringRule struct {
	keyword  string
	category string
}

var (
	exactIndex     map[string]string
	substringIndex []substringRule
)

func init() {
	exactIndex = make(map[string]string)
	for category, words := range exactKeywords {
		for _, w := range words {
			exactIndex[w] = category
			exactIndex[plural(w)] = category
		}
	}

	for category, words := range substringKeywords {
		for _, w := range words {
			substringIndex = append(substringIndex, substringRule{keyword: w, category: category})
		}
	}
	// Longer keywords first, so "ice cream" beats "ice" and "peanut
	// butter" beats "butter". Ties break alphabetically to keep the
	// order deterministic.
	sort.Slice(substringIndex, func(i, j int) bool {
		a, b := substringIndex[i], substringIndex[j]
		if len(a.keyword) != len(b.keyword) {
			return len(a.keyword) > len(b.keyword)
		}
		return a.keyword < b.keyword
	})
}

func plural(w string) string {
	switch {
	case strings.HasSuffix(w, "y") && !strings.HasSuffix(w, "ey"):
		return w[:len(w)-1] + "ies"
	case strings.HasSuffix(w, "s") || strings.HasSuffix(w, "sh") || strings.HasSuffix(w, "ch"):
		return w + "es"
	default:
		return w + "s"
	}
}
