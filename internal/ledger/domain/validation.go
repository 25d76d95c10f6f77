package domain

import "github.com/shopspring/decimal"

// CheckBalanced verifies that debits equal credits across the lines of one
// entry. An entry with no lines counts as balanced.
func CheckBalanced(lines []EntryLine) error {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		switch line.Direction {
		case EntryDirectionDebit:
			debits = debits.Add(line.Amount)
		case EntryDirectionCredit:
			credits = credits.Add(line.Amount)
		default:
			return ErrUnbalancedEntry
		}
	}
	if !debits.Equal(credits) {
		return ErrUnbalancedEntry
	}
	return nil
}
