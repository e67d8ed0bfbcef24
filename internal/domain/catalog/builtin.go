package catalog

import (
	"github.com/basket-service/basket_service/internal/domain/entities"
)

func hybrid(id, name string, incp, std, r3, r5, sharpe, er, alloc float64) entities.Fund {
	return entities.Fund{
		ID: id, Name: name, Category: entities.FundCategoryHybrid,
		InceptionRet: incp, StdDev: std, Ret3Y: r3, Ret5Y: r5,
		Sharpe: sharpe, ExpenseRatio: er, Allocation: alloc,
	}
}

func builtin() []entities.Basket {
	return []entities.Basket{
		{
			ID:              "conservative-balanced",
			Name:            "Conservative Balanced Basket",
			Description:     "Conservative hybrid balanced portfolio for shorter horizons",
			Color:           "#10B981",
			RiskLevel:       entities.RiskLevelLow,
			AgeRange:        "All ages",
			TimeHorizon:     "1-3 years",
			Goals:           []string{"Short-term Goals", "Parking Fund", "Emergency Buffer", "Marriage"},
			ExperienceLevel: "Beginner to Expert",
			MinInvestment:   10000,
			Funds: []entities.Fund{
				hybrid("f17", "ICICI Pru Balanced Advantage Fund(G)", 11.42, 7.15, 13.43, 13.22, 0.36, 1.44, 14.29),
				hybrid("f18", "SBI Balanced Advantage Fund-Reg(G)", 11.64, 7.75, 13.8, 0, 0.18, 1.55, 14.29),
				hybrid("f19", "HDFC Balanced Advantage Fund(G)", 17.06, 9.66, 17.39, 20.59, 0.05, 1.34, 14.29),
				hybrid("f20", "DSP Dynamic Asset Allocation Fund-Reg(G)", 9.24, 5.6, 12.11, 9.66, 0.21, 1.89, 14.29),
				hybrid("f21", "ICICI Pru Regular Savings Fund-Reg(G)", 9.92, 3.54, 10.04, 9.34, 0.39, 1.72, 14.29),
				hybrid("f22", "SBI Conservative Hybrid Fund-Reg(G)", 8.46, 3.86, 9.77, 9.98, 0.19, 1.54, 14.29),
				hybrid("f23", "HDFC Hybrid Debt Fund(G)", 10.16, 3.7, 9.73, 10.22, 0.1, 1.75, 14.29),
			},
		},
		{
			ID:              "aggressive-hybrid",
			Name:            "Aggressive Hybrid Basket",
			Description:     "Equity-leaning hybrid mix with a short-term debt cushion",
			Color:           "#F59E0B",
			RiskLevel:       entities.RiskLevelModerate,
			AgeRange:        "25-45",
			TimeHorizon:     "3-5 years",
			Goals:           []string{"Wealth Creation", "Home Down Payment", "Vehicle Purchase"},
			ExperienceLevel: "Intermediate",
			MinInvestment:   5000,
			Funds: []entities.Fund{
				hybrid("f11", "HDFC Hybrid Equity Fund(G)", 12.82, 9.9, 11.6, 14.97, 0, 1.68, 16.67),
				hybrid("f12", "ICICI Pru Equity & Debt Fund(G)", 15.31, 10.7, 18.58, 22.77, 0.25, 1.54, 16.67),
				hybrid("f13", "SBI Equity Hybrid Fund-Reg(G)", 15.43, 10.48, 13.61, 14.34, 0.24, 1.38, 16.67),
				hybrid("f14", "HDFC Hybrid Equity Fund(G)(Adjusted)", 15.09, 9.9, 11.6, 14.97, 0, 1.68, 16.67),
				hybrid("f15", "Tata Equity Savings Fund-Reg(G)", 7.95, 3.42, 9.65, 9.18, 0.22, 1.13, 16.67),
				{
					ID: "f16", Name: "Kotak Bond Short Term Fund(G)", Category: entities.FundCategoryDebt,
					InceptionRet: 7.37, StdDev: 1.11, Ret3Y: 7.22, Ret5Y: 5.58,
					Sharpe: 1.17, ExpenseRatio: 1.12, Allocation: 16.67,
				},
			},
		},
		{
			ID:              "great-india",
			Name:            "Great India Basket",
			Description:     "Large and flexi cap leaders of the Indian economy",
			Color:           "#3B82F6",
			RiskLevel:       entities.RiskLevelModerateHigh,
			AgeRange:        "25-50",
			TimeHorizon:     "5+ years",
			Goals:           []string{"Wealth Creation", "Retirement"},
			ExperienceLevel: "Intermediate to Expert",
			MinInvestment:   5000,
			CAGR1Y:          16.8,
			CAGR3Y:          17.9,
			CAGR5Y:          19.6,
			RiskPercentage:  13.4,
			SharpeRatio:     1.05,
			Funds: []entities.Fund{
				{ID: "g1", Name: "Parag Parikh Flexi Cap Fund-Reg(G)", Category: entities.FundCategoryEquity, Allocation: 30, ExpenseRatio: 1.34},
				{ID: "g2", Name: "ICICI Pru Bluechip Fund(G)", Category: entities.FundCategoryEquity, Allocation: 25, ExpenseRatio: 1.45},
				{ID: "g3", Name: "HDFC Flexi Cap Fund(G)", Category: entities.FundCategoryEquity, Allocation: 25, ExpenseRatio: 1.42},
				{ID: "g4", Name: "Nippon India Large Cap Fund(G)", Category: entities.FundCategoryEquity, Allocation: 20, ExpenseRatio: 1.51},
			},
		},
		{
			ID:              "raising-india",
			Name:            "Raising India Basket",
			Description:     "Mid and small cap growth compounders",
			Color:           "#EF4444",
			RiskLevel:       entities.RiskLevelHigh,
			AgeRange:        "21-40",
			TimeHorizon:     "7+ years",
			Goals:           []string{"Aggressive Growth", "Early Retirement"},
			ExperienceLevel: "Expert",
			MinInvestment:   5000,
			CAGR1Y:          21.4,
			CAGR3Y:          24.2,
			CAGR5Y:          26.1,
			RiskPercentage:  18.7,
			SharpeRatio:     1.12,
			Funds: []entities.Fund{
				{ID: "r1", Name: "Motilal Oswal Midcap Fund-Reg(G)", Category: entities.FundCategoryEquity, Allocation: 35, ExpenseRatio: 1.58},
				{ID: "r2", Name: "Nippon India Small Cap Fund(G)", Category: entities.FundCategoryEquity, Allocation: 35, ExpenseRatio: 1.49},
				{ID: "r3", Name: "Kotak Emerging Equity Fund(G)", Category: entities.FundCategoryEquity, Allocation: 30, ExpenseRatio: 1.44},
			},
		},
		{
			ID:              "every-common-india",
			Name:            "Every Common India Basket",
			Description:     "Index-heavy core portfolio for first-time investors",
			Color:           "#8B5CF6",
			RiskLevel:       entities.RiskLevelModerate,
			AgeRange:        "All ages",
			TimeHorizon:     "5+ years",
			Goals:           []string{"Wealth Creation", "Child Education"},
			ExperienceLevel: "Beginner",
			MinInvestment:   1000,
			CAGR1Y:          13.2,
			CAGR3Y:          14.1,
			CAGR5Y:          15.3,
			RiskPercentage:  12.2,
			SharpeRatio:     0.94,
			Funds: []entities.Fund{
				{ID: "e1", Name: "UTI Nifty 50 Index Fund-Reg(G)", Category: entities.FundCategoryEquity, Allocation: 40, ExpenseRatio: 0.3},
				{ID: "e2", Name: "ICICI Pru Nifty Next 50 Index Fund(G)", Category: entities.FundCategoryEquity, Allocation: 30, ExpenseRatio: 0.66},
				{ID: "e3", Name: "HDFC Corporate Bond Fund(G)", Category: entities.FundCategoryDebt, Allocation: 30, ExpenseRatio: 0.61},
			},
		},
		{
			ID:              "white-basket",
			Name:            "White Basket",
			Description:     "Debt-first stability with a small equity sleeve",
			Color:           "#64748B",
			RiskLevel:       entities.RiskLevelLow,
			AgeRange:        "40+",
			TimeHorizon:     "1-3 years",
			Goals:           []string{"Capital Preservation", "Regular Income"},
			ExperienceLevel: "Beginner",
			MinInvestment:   10000,
			CAGR1Y:          8.1,
			CAGR3Y:          8.6,
			CAGR5Y:          8.9,
			RiskPercentage:  4.1,
			SharpeRatio:     0.71,
			Funds: []entities.Fund{
				{ID: "w1", Name: "SBI Magnum Gilt Fund-Reg(G)", Category: entities.FundCategoryDebt, Allocation: 40, ExpenseRatio: 0.94},
				{ID: "w2", Name: "ICICI Pru Corporate Bond Fund(G)", Category: entities.FundCategoryDebt, Allocation: 35, ExpenseRatio: 0.58},
				{ID: "w3", Name: "Kotak Equity Savings Fund-Reg(G)", Category: entities.FundCategoryHybrid, Allocation: 25, ExpenseRatio: 1.16},
			},
		},
		{
			ID:              "child-education",
			Name:            "Child Education Basket",
			Description:     "Glide-path portfolio for education goals ten or more years away",
			Color:           "#EC4899",
			RiskLevel:       entities.RiskLevelModerate,
			AgeRange:        "25-45",
			TimeHorizon:     "10+ years",
			Goals:           []string{"Child Education"},
			ExperienceLevel: "Beginner to Intermediate",
			MinInvestment:   2000,
			CAGR1Y:          14.5,
			CAGR3Y:          15,
			CAGR5Y:          18,
			RiskPercentage:  12.8,
			SharpeRatio:     0.98,
			Funds: []entities.Fund{
				{ID: "c1", Name: "HDFC Children's Gift Fund(G)", Category: entities.FundCategoryHybrid, Allocation: 50, ExpenseRatio: 1.72},
				{ID: "c2", Name: "ICICI Pru Child Care Fund-Gift Plan(G)", Category: entities.FundCategoryHybrid, Allocation: 30, ExpenseRatio: 2.15},
				{ID: "c3", Name: "UTI Nifty 50 Index Fund-Reg(G)", Category: entities.FundCategoryEquity, Allocation: 20, ExpenseRatio: 0.3},
			},
		},
	}
}
