// Package ofx parses OFX/QFX bank statements into record drafts so an
// exported statement can be imported as income and expense entries.
package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/budgetiq/budgetiq/internal/model"
	"github.com/budgetiq/budgetiq/internal/records"
)

// Entry is one statement transaction mapped to a record draft plus the
// variant it belongs to. Credits become income, debits become expenses.
type Entry struct {
	Variant records.Variant
	Draft   model.RecordDraft
}

// Parser implements OFX/QFX statement parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocess fixes common formatting issues in OFX files.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// Parse reads an OFX/QFX statement and returns importable entries.
func (p *Parser) Parse(reader io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var entries []Entry
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, tx := range stmt.BankTranList.Transactions {
				entries = append(entries, p.convert(tx))
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, tx := range stmt.BankTranList.Transactions {
				entries = append(entries, p.convert(tx))
			}
		}
	}

	slog.Info("Parsed OFX file",
		"entries", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return entries, nil
}

// convert maps one OFX transaction onto a record draft. OFX uses negative
// amounts for debits, so the sign picks the variant.
func (p *Parser) convert(tx ofxgo.Transaction) Entry {
	amount, _ := tx.TrnAmt.Float64()
	name := cleanName(tx)

	if amount >= 0 {
		return Entry{
			Variant: records.Income,
			Draft: model.RecordDraft{
				Amount:   amount,
				Source:   name,
				Category: incomeCategory(fmt.Sprintf("%v", tx.TrnType)),
				Date:     model.NewTime(tx.DtPosted.Time),
			},
		}
	}

	return Entry{
		Variant: records.Expense,
		Draft: model.RecordDraft{
			Amount:      -amount,
			Category:    expenseCategory(fmt.Sprintf("%v", tx.TrnType)),
			Description: name,
			Date:        model.NewTime(tx.DtPosted.Time),
		},
	}
}

// incomeCategory maps an OFX transaction type onto the income allow-list.
func incomeCategory(trnType string) string {
	switch trnType {
	case "INT", "DIV":
		return "Investments"
	case "DIRECTDEP":
		return "Salary"
	default:
		return "Other"
	}
}

// expenseCategory maps an OFX transaction type onto the expense allow-list.
func expenseCategory(trnType string) string {
	switch trnType {
	case "FEE", "SRVCHG", "REPEATPMT":
		return "Bills"
	case "ATM", "CASH":
		return "Other"
	default:
		return "Shopping"
	}
}

// cleanName tries to get a readable counterparty name from OFX data.
func cleanName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if name == "" && tx.Memo != "" {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Strip leading "MM/DD " date stamps some banks prepend.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}
