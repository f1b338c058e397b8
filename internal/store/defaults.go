package store

import "fjacquet/statement-import/internal/models"

func expense(id, name string, merchants, keywords []string) models.CategoryConfig {
	return models.CategoryConfig{ID: id, Name: name, Kind: models.KindExpense, Merchants: merchants, Keywords: keywords}
}

func income(id, name string, merchants, keywords []string) models.CategoryConfig {
	return models.CategoryConfig{ID: id, Name: name, Kind: models.KindIncome, Merchants: merchants, Keywords: keywords}
}

func float(v float64) *float64 { return &v }

// DefaultCategories returns the built-in rule tables, used when no
// categories.yaml is found. Patterns target South African merchants.
func DefaultCategories() models.CategoriesConfig {
	return models.CategoriesConfig{
		Categories: []models.CategoryConfig{
			expense("cat_needs_rent", "Rent", nil,
				[]string{`rent`, `lease`, `landlord`}),
			expense("cat_needs_groceries", "Groceries",
				[]string{`pick\s*n\s*pay`, `pnp\s`, `woolworths`, `woolies`, `checkers`, `shoprite`, `spar`,
					`boxer`, `usave`, `food\s*lover`, `makro`, `game\s*store`, `cambridge`},
				[]string{`grocery`, `supermarket`, `food`}),
			expense("cat_needs_transport", "Transport",
				[]string{`uber`, `bolt`, `taxify`, `gautrain`, `metrorail`, `shell`, `engen`, `bp\s`, `caltex`,
					`sasol`, `total`, `petrol`, `fuel`, `garage`, `filling\s*station`},
				[]string{`transport`, `taxi`, `bus`, `train`}),
			expense("cat_needs_utilities", "Utilities",
				[]string{`eskom`, `city\s*power`, `municipality`, `rates`, `water\s*bill`, `electricity`, `prepaid`},
				[]string{`utility`, `water`, `electric`}),
			expense("cat_needs_data", "Data & Airtime",
				[]string{`vodacom`, `mtn`, `cell\s*c`, `telkom`, `rain`, `airtime`, `data\s*bundle`, `recharge`},
				nil),
			expense("cat_wants_dining", "Eating Out",
				[]string{`nando`, `kfc`, `mcdonald`, `steers`, `wimpy`, `spur`, `ocean\s*basket`, `mugg\s*&\s*bean`,
					`vida`, `seattle`, `restaurant`, `cafe`, `coffee`, `pizza`, `burger`, `takeaway`, `uber\s*eats`,
					`mr\s*d`, `order\s*in`},
				[]string{`restaurant`, `food`, `eat`, `dine`}),
			expense("cat_wants_entertainment", "Entertainment",
				[]string{`ster\s*kinekor`, `nu\s*metro`, `cinema`, `movie`, `netflix`, `showmax`, `dstv`,
					`multichoice`, `spotify`, `apple\s*music`, `youtube\s*premium`, `playstation`, `xbox`, `steam`, `game`},
				[]string{`entertainment`, `movie`, `show`}),
			expense("cat_wants_subscriptions", "Subscriptions",
				[]string{`subscription`, `monthly\s*fee`, `membership`, `gym`, `virgin\s*active`, `planet\s*fitness`},
				nil),
			expense("cat_wants_shopping", "Shopping",
				[]string{`takealot`, `superbalist`, `zando`, `spree`, `mr\s*price`, `edgars`, `woolworths\s*fashion`,
					`truworths`, `foschini`, `ackermans`, `pep`, `clicks`, `dis-chem`, `amazon`, `shein`},
				nil),
			expense("cat_savings_goals", "Savings Goals",
				[]string{`savings`, `investment`, `unit\s*trust`, `easy\s*equities`, `satrix`, `tfsa`},
				nil),
			expense("cat_savings_emergency", "Emergency Fund", nil,
				[]string{`emergency`, `savings`}),
			expense("cat_debt_credit_card", "Credit Card",
				[]string{`credit\s*card`, `visa`, `mastercard`, `amex`},
				[]string{`credit`, `card`}),
			expense("cat_debt_loan", "Loan Repayment",
				[]string{`loan\s*payment`, `personal\s*loan`, `home\s*loan`, `vehicle\s*finance`, `capitec\s*loan`,
					`african\s*bank`},
				nil),
			income("cat_income_salary", "Salary",
				[]string{`salary`, `payroll`, `wages`, `income`},
				[]string{`salary`, `pay`, `wage`}),
			income("cat_income_freelance", "Freelance",
				[]string{`freelance`, `consulting`, `contract`, `invoice`},
				nil),
		},
		AmountRules: DefaultAmountRules(),
	}
}

// DefaultAmountRules returns the built-in expense amount buckets.
func DefaultAmountRules() []models.AmountRuleConfig {
	return []models.AmountRuleConfig{
		{Above: float(3000), Category: "cat_needs_rent", Confidence: 0.4},
		{Above: float(200), Category: "cat_needs_groceries", Confidence: 0.4},
		{Below: float(100), Category: "cat_needs_transport", Confidence: 0.3},
	}
}

func profile(name, dateColumn, dateFormat string, autoDetect bool) models.BankProfile {
	return models.BankProfile{
		Name:       name,
		AutoDetect: autoDetect,
		ColumnMapping: models.ColumnMapping{
			Date:        dateColumn,
			Description: "Description",
			Amount:      "Amount",
			Balance:     "Balance",
			DateFormat:  dateFormat,
		},
	}
}

// DefaultBankProfiles returns the built-in bank layouts, used when no
// bank_profiles.yaml is found.
func DefaultBankProfiles() []models.BankProfile {
	return []models.BankProfile{
		profile("fnb", "Date", "%Y/%m/%d", false),
		profile("standard_bank", "Transaction Date", "%d/%m/%Y", true),
		profile("capitec", "Date", "%d-%m-%Y", false),
		profile("nedbank", "Date", "%Y-%m-%d", false),
		profile("absa", "Date", "%d/%m/%Y", false),
	}
}
