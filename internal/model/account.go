package model

import (
	"fmt"
	"strings"
)

// AccountType selects the QIF "!Type:" header written at the top of a file.
type AccountType int

const (
	AccountTypeBank AccountType = iota
	AccountTypeCash
	AccountTypeCreditCard
)

// Header returns the literal used after "!Type:".
func (a AccountType) Header() string {
	switch a {
	case AccountTypeBank:
		return "Bank"
	case AccountTypeCash:
		return "Cash"
	case AccountTypeCreditCard:
		return "CCard"
	default:
		return ""
	}
}

func (a AccountType) String() string { return a.Header() }

// ParseAccountType accepts the header literal or a spelled-out name.
func ParseAccountType(s string) (AccountType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bank":
		return AccountTypeBank, nil
	case "cash":
		return AccountTypeCash, nil
	case "ccard", "creditcard", "credit-card", "credit_card":
		return AccountTypeCreditCard, nil
	default:
		return 0, fmt.Errorf("unknown account type %q (want Bank, Cash or CCard)", s)
	}
}

// SignConvention says what a positive amount in the source file means.
type SignConvention int

const (
	// PositiveIsWithdrawal negates amounts before they are written.
	PositiveIsWithdrawal SignConvention = iota
	PositiveIsDeposit
)

func (s SignConvention) String() string {
	switch s {
	case PositiveIsWithdrawal:
		return "withdrawal"
	case PositiveIsDeposit:
		return "deposit"
	default:
		return ""
	}
}

// ParseSignConvention accepts "withdrawal" or "deposit", with or without a
// "positive-is-" prefix.
func ParseSignConvention(s string) (SignConvention, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "positive-is-")
	v = strings.TrimPrefix(v, "positive_is_")
	switch v {
	case "withdrawal":
		return PositiveIsWithdrawal, nil
	case "deposit":
		return PositiveIsDeposit, nil
	default:
		return 0, fmt.Errorf("unknown sign convention %q (want withdrawal or deposit)", s)
	}
}
