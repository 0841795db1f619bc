package alerts

import (
	"fmt"
	"time"

	"github.com/Dan9191/cashcompass/internal/models"
	"github.com/Dan9191/cashcompass/internal/money"
	"github.com/shopspring/decimal"
)

// Alert thresholds
const (
	DueSoonDays       = 7
	OverdueWindowDays = 30

	SavingsAlmostDonePercent = 75
	SavingsProgressPercent   = 25
)

var (
	CashFlowTightLimit = decimal.NewFromInt(100)
	DebtWarningLimit   = decimal.NewFromInt(5000)
	DebtCriticalLimit  = decimal.NewFromInt(15000)
)

const (
	noAlertsKey      = "no_alerts_message"
	healthSummaryKey = "financial_health_summary_alert_general_info"
	keyMonthLayout   = "2006-01"
)

var hundred = decimal.NewFromInt(100)

func newAlert(severity models.Severity, icon, key, message string) models.Alert {
	return models.Alert{
		Severity:    severity,
		Message:     message,
		Icon:        icon,
		Fingerprint: Fingerprint(key),
	}
}

// budgetAlerts warns about overspent categories and acknowledges untouched budgets.
func budgetAlerts(lines []models.CategoryBudget, today time.Time) []models.Alert {
	var out []models.Alert
	month := today.Format(keyMonthLayout)
	for _, c := range lines {
		key := fmt.Sprintf("budget_alert_%s_%s", c.Category, month)
		switch {
		case c.Remaining.IsNegative():
			out = append(out, newAlert(models.SeverityWarning, "fas fa-exclamation-triangle", key,
				fmt.Sprintf("Heads up! You're **%s over budget** for **%s** this month. Time to adjust?",
					money.Plain(c.Remaining.Abs()), c.Category)))
		case c.Budgeted.IsPositive() && c.Spent.IsZero():
			out = append(out, newAlert(models.SeverityInfo, "fas fa-check-circle", key,
				fmt.Sprintf("Great start! You've budgeted **%s** for **%s** and haven't spent anything yet.",
					money.Plain(c.Budgeted), c.Category)))
		}
	}
	return out
}

// debtDueAlert reports a debt due within DueSoonDays or overdue by less than
// OverdueWindowDays. ok is false when the debt needs no alert.
func debtDueAlert(d models.Debt, due, today time.Time) (models.Alert, bool) {
	days := daysBetween(today, due)
	key := fmt.Sprintf("debt_alert_%d_%s", d.ID, due.Format(models.DueDateLayout))
	switch {
	case days >= 0 && days <= DueSoonDays:
		return newAlert(models.SeverityDanger, "fas fa-calendar-times", key,
			fmt.Sprintf("Action Required: Your **%s** payment of **%s** is due in **%d day(s)**! Don't miss it!",
				d.Name, money.Plain(d.CurrentBalance), days)), true
	case days < 0 && -days < OverdueWindowDays:
		return newAlert(models.SeverityDanger, "fas fa-bell", key,
			fmt.Sprintf("Urgent: Your **%s** payment was due **%d day(s) ago**. Please address this promptly!",
				d.Name, -days)), true
	}
	return models.Alert{}, false
}

// savingsAlert celebrates or nudges progress on a savings goal.
func savingsAlert(g models.SavingsProgress) (models.Alert, bool) {
	var tier, icon, msg string
	severity := models.SeverityInfo
	switch {
	case !g.TargetAmount.IsPositive():
		tier, icon = "no_target", "fas fa-clipboard-list"
		msg = fmt.Sprintf("Your savings goal '%s' doesn't have a target amount. Set one to track your progress!", g.Goal)
	case g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount):
		tier, icon, severity = "smashed", "fas fa-trophy", models.SeveritySuccess
		msg = fmt.Sprintf("Fantastic! You've **smashed your %s goal**! Consider setting a new one!", g.Goal)
	case g.ProgressPercentage >= SavingsAlmostDonePercent:
		tier, icon = "75_percent", "fas fa-star"
		msg = fmt.Sprintf("Almost there! Your **%s goal is %.0f%% complete**. Keep pushing!", g.Goal, g.ProgressPercentage)
	case g.ProgressPercentage >= SavingsProgressPercent:
		tier, icon = "25_percent", "fas fa-piggy-bank"
		msg = fmt.Sprintf("Good progress on **%s!** You're at **%.0f%%** of your target.", g.Goal, g.ProgressPercentage)
	case g.CurrentAmount.IsPositive():
		tier, icon = "initial_progress", "fas fa-seedling"
		msg = fmt.Sprintf("Great start on your **%s goal**! You've already saved **%s**. Keep going!",
			g.Goal, money.Plain(g.CurrentAmount))
	default:
		return models.Alert{}, false
	}
	return newAlert(severity, icon, fmt.Sprintf("savings_alert_%d_%s", g.ID, tier), msg), true
}

func cashFlowAlert(cashFlow decimal.Decimal, today time.Time) models.Alert {
	month := today.Format(keyMonthLayout)
	switch {
	case cashFlow.IsNegative():
		return newAlert(models.SeverityDanger, "fas fa-chart-line", "cash_flow_alert_negative_"+month,
			fmt.Sprintf("Warning! Your **net cash flow is negative (%s)**. Let's find ways to boost income or cut expenses.",
				money.Plain(cashFlow.Abs())))
	case cashFlow.LessThan(CashFlowTightLimit):
		return newAlert(models.SeverityWarning, "fas fa-chart-bar", "cash_flow_alert_tight_"+month,
			fmt.Sprintf("Your cash flow is a bit tight (**%s**). Small changes can make a big difference!",
				money.Plain(cashFlow)))
	default:
		return newAlert(models.SeveritySuccess, "fas fa-dollar-sign", "cash_flow_alert_healthy_"+month,
			fmt.Sprintf("Excellent cash flow! You're adding **%s** to your financial cushion. Keep it up!",
				money.Plain(cashFlow)))
	}
}

// emergencyFundAlert measures savings against the emergency fund target.
// partial is the share of the target that counts as a growing fund.
func emergencyFundAlert(s *models.FinancialSnapshot, months int64, partial decimal.Decimal) models.Alert {
	target := s.EmergencyFundTarget
	savings := s.TotalAssets
	switch {
	case !target.IsPositive():
		return newAlert(models.SeverityInfo, "fas fa-clipboard", "emergency_fund_alert_no_expense_data",
			"To assess your emergency fund, please record some expenses first. Then we can calculate your target!")
	case savings.GreaterThanOrEqual(target):
		return newAlert(models.SeveritySuccess, "fas fa-shield-alt", "emergency_fund_alert_strong",
			fmt.Sprintf("Your **emergency fund is strong**! You have at least %d months of expenses covered. Financial security unlocked!", months))
	case savings.GreaterThanOrEqual(partial):
		pct := savings.Div(target).Mul(hundred).Round(0)
		return newAlert(models.SeverityWarning, "fas fa-hand-holding-usd", "emergency_fund_alert_growing",
			fmt.Sprintf("Your **emergency fund is growing**! You're at %s%% of your %d-month target. Keep saving!", pct.String(), months))
	default:
		return newAlert(models.SeverityDanger, "fas fa-fire", "emergency_fund_alert_low",
			fmt.Sprintf("Focus on your **emergency fund**. It's currently below 50%% of your %d-month target (%s).",
				months, money.Plain(target)))
	}
}

// debtStatusAlert looks at total liabilities. ok is false for a moderate
// debt load or when there is no income to call the user debt-free.
func debtStatusAlert(liabilities, income decimal.Decimal) (models.Alert, bool) {
	switch {
	case liabilities.GreaterThan(DebtCriticalLimit):
		return newAlert(models.SeverityDanger, "fas fa-hand-holding-dollar", "debt_status_alert_critical",
			fmt.Sprintf("Critical Debt Alert! Your total liabilities are **%s**. Let's strategize a robust repayment plan!",
				money.Plain(liabilities))), true
	case liabilities.GreaterThan(DebtWarningLimit):
		return newAlert(models.SeverityWarning, "fas fa-chart-pie", "debt_status_alert_warning",
			fmt.Sprintf("Your total debt is **%s**. It's manageable, but keeping an eye on it is key!",
				money.Plain(liabilities))), true
	case liabilities.IsZero() && income.IsPositive():
		return newAlert(models.SeveritySuccess, "fas fa-check-double", "debt_status_alert_debt_free",
			"Congratulations! You are **debt-free**! That's a huge financial win!"), true
	}
	return models.Alert{}, false
}

func healthSummaryAlert(score int) models.Alert {
	return newAlert(models.SeverityInfo, "fas fa-heartbeat", healthSummaryKey,
		fmt.Sprintf("Your overall financial health score is **%d/100**. Click 'View Savings & Financial Health Overview' for details!", score))
}

func noAlertsAlert() models.Alert {
	return newAlert(models.SeverityInfo, "fas fa-check-circle", noAlertsKey, "You have no alerts for now.")
}

// daysBetween counts calendar days from a to b, negative when b is earlier.
func daysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
