package cgt

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// decodeTransaction decodes one JSON object into a Transaction. line is used
// to name transactions without id.
func decodeTransaction(b []byte, line int) (Transaction, error) {
	// kind shadows the embedded field, so that a missing kind is an error
	// instead of a silent acquisition.
	var temp struct {
		Transaction
		Kind     string `json:"kind"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(b, &temp); err != nil {
		return Transaction{}, fmt.Errorf("line %d: %w", line, err)
	}
	tx := temp.Transaction
	kind, err := ParseKind(temp.Kind)
	if err != nil {
		return Transaction{}, fmt.Errorf("line %d: %w", line, err)
	}
	tx.Kind = kind
	tx.Price.cur, tx.Fees.cur = temp.Currency, temp.Currency
	if tx.ID == "" {
		tx.ID = fmt.Sprintf("%s#%d", tx.Security, line)
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, fmt.Errorf("line %d: %w", line, err)
	}
	return tx, nil
}

// DecodeTransactions decodes transactions from a stream of JSONL data, one
// transaction per line. Empty lines are skipped.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := bytes.TrimSpace(scanner.Bytes())
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		tx, err := decodeTransaction(lineBytes, line)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

// DecodeDocument decodes transactions from a JSON document produced upstream,
// for instance a statement parser output. path is a JSONPath expression
// selecting the array of transactions, like "$.transactions".
func DecodeDocument(r io.Reader, path string) ([]Transaction, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber() // keep decimals exact when re-encoding items
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("could not decode document: %w", err)
	}
	selected, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("could not evaluate %q: %w", path, err)
	}
	items, ok := selected.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%q selects a %T, want an array of transactions", path, selected)
	}
	txs := make([]Transaction, 0, len(items))
	for i, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		tx, err := decodeTransaction(b, i+1)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// marshalTransaction encodes a transaction in its canonical form, with
// decimals in full precision.
func marshalTransaction(tx Transaction) ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", tx.ID)
	w.Append("date", tx.Date)
	w.Append("security", tx.Security)
	w.Append("kind", tx.Kind)
	if tx.Kind == CorporateActionKind {
		w.Append("action", tx.Action)
	} else {
		w.Append("quantity", tx.Quantity.Decimal())
		w.Append("price", tx.Price.Decimal())
		if !tx.Fees.IsZero() {
			w.Append("fees", tx.Fees.Decimal())
		}
		w.Optional("currency", tx.Price.Currency())
	}
	w.Optional("wrapper", string(tx.Wrapper))
	return w.MarshalJSON()
}

// EncodeTransactions writes transactions as JSONL, one per line.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	for _, tx := range txs {
		b, err := marshalTransaction(tx)
		if err != nil {
			return fmt.Errorf("could not encode %q: %w", tx.ID, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", b); err != nil {
			return err
		}
	}
	return nil
}
