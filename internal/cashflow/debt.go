package cashflow

import "math"

// Loan is a French-amortization loan with constant annual payments.
type Loan struct {
	Principal float64
	Rate      float64
	TermYears int
}

// Installment is one year of debt service.
type Installment struct {
	Year      int
	Interest  float64
	Principal float64
	Balance   float64
}

// Payment returns the total service for the installment.
func (i Installment) Payment() float64 {
	return i.Interest + i.Principal
}

// Annuity returns P·r(1+r)^n / ((1+r)^n − 1), or P/n for a zero rate.
func (l Loan) Annuity() float64 {
	if l.Principal <= 0 || l.TermYears <= 0 {
		return 0
	}
	n := float64(l.TermYears)
	if l.Rate == 0 {
		return l.Principal / n
	}
	g := math.Pow(1+l.Rate, n)
	return l.Principal * l.Rate * g / (g - 1)
}

// Schedule returns the installments for years 1..TermYears. The last
// installment repays whatever balance remains so the loan closes exactly.
func (l Loan) Schedule() []Installment {
	if l.Principal <= 0 || l.TermYears <= 0 {
		return nil
	}
	annuity := l.Annuity()
	balance := l.Principal
	out := make([]Installment, 0, l.TermYears)
	for y := 1; y <= l.TermYears && balance > 0; y++ {
		interest := balance * l.Rate
		principal := annuity - interest
		if principal > balance || y == l.TermYears {
			principal = balance
		}
		balance -= principal
		out = append(out, Installment{Year: y, Interest: interest, Principal: principal, Balance: balance})
	}
	return out
}
