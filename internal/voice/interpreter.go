// Package voice turns a spoken transcript into a structured ledger intent.
//
// Interpretation is keyword based and stateless: every transcript is judged on
// its own against a snapshot of the user's ledger. Nothing here touches
// storage; callers apply the returned Intent.
package voice

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"wagewise/internal/core"
)

// DefaultCategory is used when no keyword names a category.
const DefaultCategory = "Voice"

type (
	Kind   string
	Reason string
)

const (
	KindCreate Kind = "create"
	KindDelete Kind = "delete"
	KindNoop   Kind = "noop"
)

const (
	ReasonEmptyCommand Reason = "empty_command"
	ReasonNoAmount     Reason = "no_amount"
	ReasonEmptyLedger  Reason = "empty_ledger"
	ReasonNoMatch      Reason = "no_match"
)

// Intent is the unexecuted outcome of one transcript. Create fields are set
// only for KindCreate, TargetID only for KindDelete and Reason only for
// KindNoop.
type Intent struct {
	Kind         Kind
	Reason       Reason
	Type         core.TxType
	Amount       decimal.Decimal
	Category     string
	Date         string
	Note         string
	CurrencyCode string
	TargetID     string
}

var amountPattern = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)`)

type keyword struct {
	word     string
	category string
}

// Checked in order; the first word found anywhere in the transcript wins.
var categoryKeywords = []keyword{
	{"food", "Food"},
	{"pizza", "Food"},
	{"restaurant", "Food"},
	{"coffee", "Coffee"},
	{"starbucks", "Coffee"},
	{"fuel", "Fuel"},
	{"gas", "Fuel"},
	{"petrol", "Fuel"},
	{"rent", "Rent"},
	{"room", "Rent"},
	{"uber", "Transport"},
	{"taxi", "Transport"},
	{"bus", "Transport"},
	{"bag", "Shopping"},
	{"clothes", "Shopping"},
	{"shopping", "Shopping"},
	{"beauty", "Beauty"},
	{"salon", "Beauty"},
	{"income", "Income"},
	{"salary", "Income"},
	{"wage", "Income"},
	{"wages", "Income"},
}

var (
	deleteWords = []string{"delete", "remove", "truncate", "cancel"}
	incomeWords = []string{"salary", "income", "got paid", "received", "wage"}
)

// Interpret classifies transcript as a create, delete or no-op. A leading
// wake phrase is stripped first. ledger is consulted only for deletes and is
// searched in the order given; today and currencyCode stamp created records.
func Interpret(transcript string, ledger []core.Transaction, today core.Date, currencyCode string) Intent {
	command := StripWakePhrase(transcript)
	if command == "" {
		return noop(ReasonEmptyCommand)
	}
	text := strings.ToLower(command)

	amount, hasAmount := extractAmount(text)
	category := inferCategory(text)

	if containsAny(text, deleteWords) {
		return resolveDelete(text, amount, hasAmount, category, ledger)
	}

	if !hasAmount || amount.Sign() <= 0 {
		return noop(ReasonNoAmount)
	}
	typ := core.Expense
	if containsAny(text, incomeWords) {
		typ = core.Income
	}
	return Intent{
		Kind:         KindCreate,
		Type:         typ,
		Amount:       amount,
		Category:     category,
		Date:         today.String(),
		Note:         command,
		CurrencyCode: currencyCode,
	}
}

// resolveDelete picks the first record whose rounded amount matches (when an
// amount was spoken) and whose category matches (when a keyword named one).
// With neither constraint the first record matches.
func resolveDelete(text string, amount decimal.Decimal, hasAmount bool, category string, ledger []core.Transaction) Intent {
	if len(ledger) == 0 {
		return noop(ReasonEmptyLedger)
	}
	checkAmount := hasAmount && !amount.IsZero()
	want := amount.Round(0)
	catLower := strings.ToLower(category)

	for _, tx := range ledger {
		if checkAmount && !tx.Amount.Round(0).Equal(want) {
			continue
		}
		if category != DefaultCategory {
			txCat := strings.ToLower(tx.CategoryOrDefault())
			if txCat != catLower && !strings.Contains(text, txCat) {
				continue
			}
		}
		return Intent{Kind: KindDelete, TargetID: tx.ID}
	}
	return noop(ReasonNoMatch)
}

func extractAmount(text string) (decimal.Decimal, bool) {
	m := amountPattern.FindString(text)
	if m == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func inferCategory(text string) string {
	for _, k := range categoryKeywords {
		if strings.Contains(text, k.word) {
			return k.category
		}
	}
	return DefaultCategory
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func noop(r Reason) Intent {
	return Intent{Kind: KindNoop, Reason: r}
}

// normalize folds compatibility forms (full-width digits, ligatures) so that
// keyword and number matching sees plain text.
func normalize(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}
