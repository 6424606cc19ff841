package cgt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/cgt/date"
)

// Kind is the kind of a Transaction.
type Kind int

const (
	Acquisition Kind = iota
	Disposal
	CorporateActionKind
)

func (k Kind) String() string {
	switch k {
	case Acquisition:
		return "acquisition"
	case Disposal:
		return "disposal"
	case CorporateActionKind:
		return "corporate_action"
	default:
		return "unknown"
	}
}

// ParseKind parses a string into a Kind. "buy" and "sell" are accepted as aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "acquisition", "buy":
		return Acquisition, nil
	case "disposal", "sell":
		return Disposal, nil
	case "corporate_action", "action":
		return CorporateActionKind, nil
	default:
		return 0, fmt.Errorf("unknown transaction kind: %q", s)
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *Kind) UnmarshalText(b []byte) (err error) {
	*k, err = ParseKind(string(b))
	return err
}

// Wrapper is the tax wrapper of the account that holds a transaction.
type Wrapper string

const (
	GIA     Wrapper = "GIA" // General Investment Account
	ISA     Wrapper = "ISA"
	JISA    Wrapper = "JISA"
	LISA    Wrapper = "LISA"
	SIPP    Wrapper = "SIPP"
	Unknown Wrapper = ""
)

// Sheltered reports whether gains in the wrapper are outside the scope of CGT.
func (w Wrapper) Sheltered() bool {
	switch Wrapper(strings.ToUpper(string(w))) {
	case ISA, JISA, LISA, SIPP:
		return true
	}
	return false
}

// ActionType is the type of a corporate action.
type ActionType string

const (
	StockSplit      ActionType = "STOCK_SPLIT"
	ReverseSplit    ActionType = "REVERSE_SPLIT" // consolidation
	NameChange      ActionType = "NAME_CHANGE"
	RightsIssue     ActionType = "RIGHTS_ISSUE"
	Merger          ActionType = "MERGER"
	SpinOff         ActionType = "SPIN_OFF"
	ReturnOfCapital ActionType = "RETURN_OF_CAPITAL"
	ScripDividend   ActionType = "SCRIP_DIVIDEND"
	TenderOffer     ActionType = "TENDER_OFFER"
)

// CorporateAction describes a reorganisation of a security: holders of From
// shares receive To shares. A 2-for-1 split is From=1, To=2; a 1-for-10
// consolidation is From=10, To=1.
type CorporateAction struct {
	Type ActionType `json:"type"`
	From Quantity   `json:"from"`
	To   Quantity   `json:"to"`
}

// Ratio returns the number of new shares per old share.
func (a CorporateAction) Ratio() Quantity { return a.To.Div(a.From) }

// Transaction is a single buy, sell or corporate action on a security.
// Transactions are never modified by the engine.
type Transaction struct {
	ID       string           `json:"id"`
	Security string           `json:"security"`
	Date     date.Date        `json:"date"`
	Kind     Kind             `json:"kind"`
	Quantity Quantity         `json:"quantity"`
	Price    Money            `json:"price"` // unit price
	Fees     Money            `json:"fees"`
	Wrapper  Wrapper          `json:"wrapper,omitempty"`
	Action   *CorporateAction `json:"action,omitempty"`
}

// Gross returns quantity * unit price.
func (tx Transaction) Gross() Money { return tx.Price.Mul(tx.Quantity) }

func (tx Transaction) String() string {
	if tx.Kind == CorporateActionKind && tx.Action != nil {
		return fmt.Sprintf("%s %s %s %s %s:%s", tx.ID, tx.Date, tx.Security, tx.Action.Type, tx.Action.From, tx.Action.To)
	}
	return fmt.Sprintf("%s %s %s %s %s @ %s", tx.ID, tx.Date, tx.Security, tx.Kind, tx.Quantity, tx.Price)
}

// Validate checks that the transaction is well formed.
// It returns all failures joined together.
func (tx Transaction) Validate() error {
	var errs []error
	if tx.Security == "" {
		errs = append(errs, errors.New("missing security"))
	}
	if tx.Date.IsZero() {
		errs = append(errs, errors.New("missing date"))
	}
	switch tx.Kind {
	case Acquisition, Disposal:
		if !tx.Quantity.IsPositive() {
			errs = append(errs, fmt.Errorf("quantity must be positive, got %s", tx.Quantity))
		}
		if tx.Price.IsNegative() {
			errs = append(errs, fmt.Errorf("price must not be negative, got %s", tx.Price.Decimal()))
		}
		if tx.Fees.IsNegative() {
			errs = append(errs, fmt.Errorf("fees must not be negative, got %s", tx.Fees.Decimal()))
		}
	case CorporateActionKind:
		if tx.Action == nil {
			errs = append(errs, errors.New("corporate action without descriptor"))
		} else if tx.Action.Type == StockSplit || tx.Action.Type == ReverseSplit {
			if !tx.Action.From.IsPositive() || !tx.Action.To.IsPositive() {
				errs = append(errs, fmt.Errorf("%s ratio must be positive, got %s:%s", tx.Action.Type, tx.Action.From, tx.Action.To))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("unknown kind %d", tx.Kind))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w %q: %w", ErrInvalidTransaction, tx.ID, errors.Join(errs...))
}
