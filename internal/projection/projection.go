// Package projection computes deterministic financial projections for the
// simulator: investment growth, loan amortization, retirement drawdown and
// goal time-to-target. All functions are pure, with no I/O and no state between
// calls. Inputs are assumed to be sanitized at the HTTP boundary (missing or
// non-numeric form fields arrive as zero); results are full-precision floats
// and are rounded only when rendered.
package projection

import "math"

// payoutYears is the assumed post-retirement horizon for the drawdown phase.
const payoutYears = 25

// InvestmentInput holds parameters for a compound-growth projection.
type InvestmentInput struct {
	InitialAmount       float64 `json:"initial_amount"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	AnnualRatePercent   float64 `json:"annual_rate"`
	Years               float64 `json:"years"`
}

// InvestmentResult is the outcome of an investment projection.
type InvestmentResult struct {
	FinalAmount   float64 `json:"final_amount"`
	TotalInvested float64 `json:"total_invested"`
	TotalInterest float64 `json:"total_interest"`
}

// LoanInput holds parameters for a financing projection. FinancedAmount is
// derived as AssetPrice − DownPayment, clamped to zero.
type LoanInput struct {
	AssetPrice        float64 `json:"amount"`
	DownPayment       float64 `json:"down_payment"`
	AnnualRatePercent float64 `json:"annual_rate"`
	Years             float64 `json:"years"`
}

// LoanResult is the outcome of a loan amortization projection.
type LoanResult struct {
	FinancedAmount float64 `json:"financed_amount"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPaid      float64 `json:"total_paid"`
	TotalInterest  float64 `json:"total_interest"`
}

// RetirementInput holds parameters for a retirement projection.
type RetirementInput struct {
	CurrentAge           int     `json:"current_age"`
	RetirementAge        int     `json:"retirement_age"`
	DesiredMonthlyIncome float64 `json:"desired_monthly_income"`
	CurrentSavings       float64 `json:"current_savings"`
	MonthlyContribution  float64 `json:"monthly_contribution"`
	AnnualRatePercent    float64 `json:"annual_rate"`
}

// RetirementResult is the outcome of a retirement projection. Surplus is
// signed: negative means the sustainable withdrawal falls short of the
// desired income.
type RetirementResult struct {
	TotalAtRetirement float64 `json:"total_at_retirement"`
	MonthlyWithdrawal float64 `json:"monthly_withdrawal"`
	Surplus           float64 `json:"surplus"`
	YearsToRetire     int     `json:"years_to_retire"`
}

// GoalInput holds parameters for a savings-goal projection.
type GoalInput struct {
	TargetAmount        float64 `json:"target_amount"`
	CurrentAmount       float64 `json:"current_amount"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	AnnualRatePercent   float64 `json:"annual_rate"`
	HorizonYears        float64 `json:"horizon_years"`
}

// GoalResult is the outcome of a goal projection. Unbounded reports that the
// goal can never be reached with a zero contribution; Achieved reports that
// the current amount already covers the target. MonthsNeeded is zero in both
// sentinel cases.
type GoalResult struct {
	MonthsNeeded float64 `json:"months_needed"`
	YearsNeeded  float64 `json:"years_needed"`
	Unbounded    bool    `json:"unbounded"`
	Achieved     bool    `json:"achieved"`
	FinalAmount  float64 `json:"final_amount"`
	Shortfall    float64 `json:"shortfall"`
}

// monthlyRate converts an annual percentage rate to a fractional monthly rate.
func monthlyRate(annualPercent float64) float64 {
	return annualPercent / 100 / 12
}

// futureValue returns the value of an initial sum plus a monthly annuity
// after compounding for the given number of months. rate == 0 falls back to
// simple linear accumulation.
func futureValue(initial, monthly, rate, months float64) float64 {
	if rate == 0 {
		return initial + monthly*months
	}
	growth := math.Pow(1+rate, months)
	return initial*growth + monthly*(growth-1)/rate
}

// Investment projects compound growth of a lump sum plus monthly
// contributions.
func Investment(in InvestmentInput) InvestmentResult {
	rate := monthlyRate(in.AnnualRatePercent)
	months := in.Years * 12

	final := futureValue(in.InitialAmount, in.MonthlyContribution, rate, months)
	invested := in.InitialAmount + in.MonthlyContribution*months

	return InvestmentResult{
		FinalAmount:   final,
		TotalInvested: invested,
		TotalInterest: final - invested,
	}
}

// Loan projects a level-payment amortization of the financed amount using the
// standard annuity formula.
func Loan(in LoanInput) LoanResult {
	financed := in.AssetPrice - in.DownPayment
	if financed < 0 {
		financed = 0
	}

	rate := monthlyRate(in.AnnualRatePercent)
	months := in.Years * 12

	var payment float64
	switch {
	case months == 0:
		payment = 0
	case rate == 0:
		payment = financed / months
	default:
		growth := math.Pow(1+rate, months)
		payment = financed * (rate * growth) / (growth - 1)
	}

	total := payment * months
	return LoanResult{
		FinancedAmount: financed,
		MonthlyPayment: payment,
		TotalPaid:      total,
		TotalInterest:  total - financed,
	}
}

// Retirement projects accumulation until retirement age followed by a level
// drawdown over a fixed 25-year payout. A zero rate uses the same linear
// fallback as Investment: the drawdown then simply divides the accumulated
// total across the payout months.
func Retirement(in RetirementInput) RetirementResult {
	rate := monthlyRate(in.AnnualRatePercent)
	yearsToRetire := in.RetirementAge - in.CurrentAge
	monthsToRetire := float64(yearsToRetire) * 12
	payoutMonths := float64(payoutYears) * 12

	total := futureValue(in.CurrentSavings, in.MonthlyContribution, rate, monthsToRetire)

	var withdrawal float64
	if rate == 0 {
		withdrawal = total / payoutMonths
	} else {
		withdrawal = total * rate / (1 - math.Pow(1+rate, -payoutMonths))
	}

	return RetirementResult{
		TotalAtRetirement: total,
		MonthlyWithdrawal: withdrawal,
		Surplus:           withdrawal - in.DesiredMonthlyIncome,
		YearsToRetire:     yearsToRetire,
	}
}

// Goal projects the time needed to reach a savings target and the projected
// balance at the stated horizon.
func Goal(in GoalInput) GoalResult {
	rate := monthlyRate(in.AnnualRatePercent)
	horizonMonths := in.HorizonYears * 12
	remaining := in.TargetAmount - in.CurrentAmount

	final := futureValue(in.CurrentAmount, in.MonthlyContribution, rate, horizonMonths)
	shortfall := in.TargetAmount - final
	if shortfall < 0 {
		shortfall = 0
	}

	res := GoalResult{FinalAmount: final, Shortfall: shortfall}

	if remaining <= 0 {
		res.Achieved = true
		return res
	}
	if in.MonthlyContribution == 0 {
		res.Unbounded = true
		return res
	}

	var months float64
	if rate == 0 {
		months = remaining / in.MonthlyContribution
	} else {
		arg := 1 + remaining*rate/in.MonthlyContribution
		if arg <= 0 {
			res.Achieved = true
			return res
		}
		months = math.Log(arg) / math.Log(1+rate)
	}
	if months < 0 {
		res.Achieved = true
		return res
	}

	res.MonthsNeeded = months
	res.YearsNeeded = months / 12
	return res
}
