// Package ofx turns OFX/QFX bank and credit card statements into ledger
// entries.
package ofx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/financas/internal/common"
	"github.com/Veraticus/financas/internal/model"
	"github.com/Veraticus/financas/internal/service"
	"github.com/aclindsa/ofxgo"
)

// EntryIDPrefix marks entries created from a statement. The rest of the id
// is the bank's FITID, so importing a statement twice creates nothing new.
const EntryIDPrefix = "ofx-"

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	datePrefix    = regexp.MustCompile(`^\d{2}/\d{2}\s+`)
)

// Transaction is a single statement line.
type Transaction struct {
	Posted    time.Time
	FITID     string
	AccountID string
	Name      string
	Type      string
	Amount    float64
}

// IsDebit reports whether money left the account.
func (t Transaction) IsDebit() bool {
	return t.Amount < 0
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns its transactions in file
// order. Amounts keep the statement sign: debits are negative.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			transactions = append(transactions, p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			transactions = append(transactions, p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, accountID string) []Transaction {
	if list == nil {
		return nil
	}

	transactions := make([]Transaction, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		amount, _ := ofxTx.TrnAmt.Float64()
		transactions = append(transactions, Transaction{
			FITID:     string(ofxTx.FiTID),
			AccountID: accountID,
			Name:      p.extractMerchantName(ofxTx),
			Type:      ofxTx.TrnType.String(),
			Posted:    ofxTx.DtPosted.Time,
			Amount:    amount,
		})
	}
	return transactions
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && (name == "" || isGenericDescription(name)) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	prefixes := []string{
		"COMPRA CARTAO ",
		"COMPRA CARTÃO ",
		"COMPRA DEBITO ",
		"COMPRA DÉBITO ",
		"PAGAMENTO DE BOLETO ",
		"PIX ENVIADO ",
		"POS PURCHASE ",
		"DEBIT CARD PURCHASE ",
	}

	upper := strings.ToUpper(name)
	for _, prefix := range prefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop a leading "DD/MM " date
	return strings.TrimSpace(datePrefix.ReplaceAllString(name, ""))
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBITO", "DÉBITO", "CREDITO", "CRÉDITO", "COMPRA", "PAGAMENTO", "PIX", "DEBIT", "PURCHASE", "PAYMENT":
		return true
	default:
		return false
	}
}

// ToEntry converts a debit into a paid EXTRA/NECESSIDADE entry. The posted
// date is both the due and the payment date; the account id becomes the
// fonte and the transaction type the modo.
func ToEntry(tx Transaction, now time.Time) model.Lancamento {
	posted := tx.Posted.Format(model.DateLayout)
	amount := tx.Amount
	if amount < 0 {
		amount = -amount
	}

	descricao := tx.Name
	if descricao == "" {
		descricao = tx.Type
	}
	fonte := strings.TrimSpace(tx.AccountID)
	if fonte == "" {
		fonte = model.DefaultLabel
	}
	modo := strings.TrimSpace(tx.Type)
	if modo == "" {
		modo = model.DefaultLabel
	}

	stamp := model.FormatTimestamp(now)
	return model.Lancamento{
		ID:             EntryIDPrefix + tx.FITID,
		MesRef:         tx.Posted.Format(model.MonthLayout),
		Descricao:      descricao,
		DataVencimento: posted,
		DataPagamento:  model.StringPtr(posted),
		Valor:          amount,
		Tipo:           model.TipoExtra,
		Prioridade:     model.PrioridadeNecessidade,
		Fonte:          fonte,
		Modo:           modo,
		CreatedAt:      stamp,
		UpdatedAt:      stamp,
	}
}

// Result counts what an import did.
type Result struct {
	Created    int
	Duplicates int
	Credits    int
}

// Import creates an entry for every debit in transactions. Credits are
// skipped, and transactions whose entry already exists are counted as
// duplicates.
func Import(ctx context.Context, gateway service.Gateway, transactions []Transaction, now time.Time) (Result, error) {
	var result Result

	for _, tx := range transactions {
		if !tx.IsDebit() {
			result.Credits++
			continue
		}
		if tx.FITID == "" {
			return result, fmt.Errorf("%w: transaction %q has no FITID", common.ErrInvalidInput, tx.Name)
		}

		entry := ToEntry(tx, now)
		err := gateway.Create(ctx, &entry)
		switch {
		case errors.Is(err, common.ErrDuplicateEntry):
			result.Duplicates++
		case err != nil:
			return result, fmt.Errorf("failed to create entry for %s: %w", tx.FITID, err)
		default:
			result.Created++
		}
	}

	slog.Info("Imported OFX transactions",
		"created", result.Created,
		"duplicates", result.Duplicates,
		"credits_skipped", result.Credits)
	return result, nil
}
