package rules

// Default returns the built-in rule set used when no categories are configured.
// Order matters: Services precedes Online Shopping so that "NETFLIX.COM" is not
// swallowed by the broad ".COM" literal, and Tech Services precedes Online
// Shopping so AWS invoices are not filed under AMAZON.
func Default() *RuleSet {
	return MustRuleSet(
		Category{Name: "Food", Rules: []Rule{
			MustLiteral("CHIPOTLE"),
			MustLiteral("MCDONALD"),
			MustLiteral("DOORDASH"),
			MustLiteral("UBER EATS"),
			MustLiteral("GRUBHUB"),
			MustLiteral("PIZZA"),
			MustPattern(`\bTACO\b`, false),
		}},
		Category{Name: "Groceries", Rules: []Rule{
			MustLiteral("WHOLE FOODS"),
			MustLiteral("TRADER JOE'S"),
			MustLiteral("SAFEWAY"),
			MustLiteral("KROGER"),
			MustLiteral("COSTCO"),
		}},
		Category{Name: "Coffee", Rules: []Rule{
			MustLiteral("STARBUCKS"),
			MustLiteral("PEETS"),
			MustLiteral("PHILZ"),
			MustLiteral("DUNKIN"),
		}},
		Category{Name: "Services", Rules: []Rule{
			MustLiteral("NETFLIX"),
			MustLiteral("SPOTIFY"),
			MustLiteral("HULU"),
			MustLiteral("DISNEY PLUS"),
			MustLiteral("YOUTUBE PREMIUM"),
		}},
		Category{Name: "Tech Services", Rules: []Rule{
			MustPattern(`\bAWS\b`, false),
			MustPattern(`AMAZON\.COM\*WEBSERVICES`, false),
			MustLiteral("GITHUB"),
			MustLiteral("DIGITALOCEAN"),
		}},
		// UBER and LYFT are substrings; UBER EATS is caught by Food first.
		Category{Name: "Transportation", Rules: []Rule{
			MustLiteral("UBER"),
			MustLiteral("LYFT"),
			MustLiteral("CHEVRON"),
			MustLiteral("SHELL OIL"),
			MustPattern(`\bPARKING\b`, false),
		}},
		Category{Name: "Utilities", Rules: []Rule{
			MustLiteral("PG&E"),
			MustLiteral("COMCAST"),
			MustLiteral("VERIZON"),
			MustLiteral("AT&T"),
		}},
		// ".COM" matches nearly any URL-like description; keep this late.
		Category{Name: "Online Shopping", Rules: []Rule{
			MustLiteral("AMAZON"),
			MustLiteral("EBAY"),
			MustLiteral("ETSY"),
			MustLiteral(".COM"),
		}},
		Category{Name: "Entertainment", Rules: []Rule{
			MustLiteral("AMC THEATRES"),
			MustLiteral("TICKETMASTER"),
			MustLiteral("STEAM GAMES"),
		}},
		Category{Name: "Income", Rules: []Rule{
			MustPattern(`\b(PAYROLL|DIRECT\s*DEP)\b`, false),
			MustLiteral("INTEREST PAID"),
		}},
	)
}
