// Package filter applies a FilterPolicy to normalized transactions.
package filter

import (
	"strings"

	"fjacquet/budget-analyzer/internal/dateutils"
	"fjacquet/budget-analyzer/internal/models"
)

// Engine is a FilterPolicy compiled into lookup sets. It is safe for concurrent use.
type Engine struct {
	policy     models.FilterPolicy
	payees     map[string]struct{}
	prefixes   []string
	categories map[string]struct{}
	accounts   map[string]struct{}
}

// New compiles policy. Empty payee prefixes are ignored since they would match
// every transaction.
func New(policy models.FilterPolicy) *Engine {
	e := &Engine{
		policy:     policy,
		payees:     toSet(policy.ExcludedPayees),
		categories: toSet(policy.ExcludedCategories),
		accounts:   toSet(policy.ExcludedAccounts),
	}
	for _, p := range policy.ExcludedPayeePrefixes {
		if p != "" {
			e.prefixes = append(e.prefixes, p)
		}
	}
	return e
}

// Apply returns the transactions that satisfy the policy, in input order.
func Apply(txs []models.Transaction, policy models.FilterPolicy) []models.Transaction {
	return New(policy).Apply(txs)
}

// Policy returns the policy the engine was compiled from.
func (e *Engine) Policy() models.FilterPolicy {
	return e.policy
}

// Apply returns the transactions that satisfy the policy, in input order.
// The input slice is not modified.
func (e *Engine) Apply(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if e.Keep(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// Keep reports whether a single transaction passes every predicate.
func (e *Engine) Keep(tx models.Transaction) bool {
	if !dateutils.InRange(tx.Date, e.policy.StartDate, e.policy.EndDate) {
		return false
	}
	if _, excluded := e.payees[tx.Payee]; excluded {
		return false
	}
	if e.hasExcludedPrefix(tx.Payee) {
		return false
	}
	if _, excluded := e.categories[tx.Category]; excluded {
		return false
	}
	if _, excluded := e.accounts[tx.Account]; excluded {
		return false
	}
	return true
}

func (e *Engine) hasExcludedPrefix(payee string) bool {
	for _, prefix := range e.prefixes {
		if strings.HasPrefix(payee, prefix) {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
