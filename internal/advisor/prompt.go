// Package advisor renders the prompt sent to the AI financial advisor.
package advisor

import (
	"strings"
	"text/template"

	"github.com/Dan9191/cashcompass/internal/models"
	"github.com/Dan9191/cashcompass/internal/money"
)

const (
	starterIntro = `Based on the provided financial data, it appears that very little or no financial transactions (income, expenses, savings, or debt) have been recorded yet, or all recorded values are zero.
Please provide foundational financial advice tailored for someone starting to track their finances. Focus on:
- The importance of consistent recording (income, expenses, savings, debt).
- Basic steps to begin building a financial picture.
- General best practices for financial health in the early stages (e.g., creating a simple budget, starting an emergency fund, understanding debt).
Do not attempt to provide detailed analysis of specific numbers, as the data is minimal.`

	analysisIntro = `As a professional financial advisor, analyze the following financial data and provide comprehensive, actionable advice.
Identify key strengths and areas for improvement based on these specific figures.
Ensure your advice directly references the provided numerical data where applicable.`
)

var promptTemplate = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"money":  money.Format,
	"number": money.Number,
	"list":   joinOrNone,
}).Parse(`{{.Intro}}

**Financial Summary:**
 Total Income (All Time): {{money .S.TotalIncome}}
 Total Expenses (All Time): {{money .S.TotalExpenses}}
 Current Net Worth: {{money .S.NetWorth}}
 Overall Cash Flow: {{money .S.CashFlow}}
 Total Savings: {{money .S.TotalAssets}}
 Total Debt: {{money .S.TotalLiabilities}}
 Average Monthly Expenses: {{money .S.AverageMonthlyExpenses}}

**Detailed Analysis:**
 Emergency Fund Target ({{.Months}} months): {{money .S.EmergencyFundTarget}}
 Emergency Fund Coverage: {{number .S.EmergencyFundCoverage}} months
 Over-Budget Categories: {{list .S.OverBudgetCategories}}
 Top Spending Categories: {{list .S.TopSpendingCategories}}
 Financial Health Score: {{.S.HealthScore}}/100

Please provide detailed advice covering:
1. **Financial Health Assessment** - Overall financial position analysis
2. **Net Worth & Cash Flow Optimization** - Strategies to improve financial position
3. **Debt Management Strategy** - Prioritized debt payoff recommendations
4. **Emergency Fund Planning** - Steps to build adequate emergency reserves
5. **Budget Optimization** - Spending habit improvements and budget recommendations
6. **Investment & Growth Opportunities** - Suggestions for wealth building
7. **Risk Management** - Insurance and protection strategies
8. **Action Plan** - Specific next steps with timelines

Format your response with clear headings, bullet points, and actionable recommendations using Markdown. Be encouraging while being realistic about challenges and opportunities.
`))

// BuildPrompt renders the advisor prompt for a snapshot. months is the
// emergency fund horizon the target was computed with.
func BuildPrompt(s *models.FinancialSnapshot, months int64) (string, error) {
	intro := analysisIntro
	if !hasSignificantData(s) {
		intro = starterIntro
	}

	var b strings.Builder
	err := promptTemplate.Execute(&b, struct {
		Intro  string
		Months int64
		S      *models.FinancialSnapshot
	}{intro, months, s})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// hasSignificantData reports whether any figure of the snapshot is non-zero
func hasSignificantData(s *models.FinancialSnapshot) bool {
	return s.TotalIncome.IsPositive() || s.TotalExpenses.IsPositive() ||
		s.TotalAssets.IsPositive() || s.TotalLiabilities.IsPositive() ||
		!s.NetWorth.IsZero() || !s.CashFlow.IsZero() ||
		s.AverageMonthlyExpenses.IsPositive() || s.EmergencyFundCoverage > 0 ||
		len(s.OverBudgetCategories) > 0 || len(s.TopSpendingCategories) > 0
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
