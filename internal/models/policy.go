package models

import "time"

// FilterPolicy is the declarative exclusion and date-range policy of a run.
// Date bounds are inclusive calendar dates; a zero bound leaves that side open.
type FilterPolicy struct {
	StartDate             time.Time `json:"start_date" yaml:"start_date"`
	EndDate               time.Time `json:"end_date" yaml:"end_date"`
	ExcludedPayees        []string  `json:"excluded_payees" yaml:"excluded_payees"`
	ExcludedPayeePrefixes []string  `json:"excluded_payee_prefixes" yaml:"excluded_payee_prefixes"`
	ExcludedCategories    []string  `json:"excluded_categories" yaml:"excluded_categories"`
	ExcludedAccounts      []string  `json:"excluded_accounts" yaml:"excluded_accounts"`
}

// WithRange returns a copy of the policy with the same exclusions over another
// date range.
func (p FilterPolicy) WithRange(start, end time.Time) FilterPolicy {
	out := p
	out.StartDate = start
	out.EndDate = end
	return out
}
