package models

// RawTransaction is a transaction as returned by the budgeting service.
// Amount is a signed milliunit value: negative for money leaving an account.
type RawTransaction struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Amount       *int64  `json:"amount"`
	PayeeName    *string `json:"payee_name"`
	CategoryName *string `json:"category_name"`
	AccountName  string  `json:"account_name"`
	Deleted      bool    `json:"deleted"`
}

// RawCategoryGroup groups the categories of a budget.
type RawCategoryGroup struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Hidden     bool          `json:"hidden"`
	Deleted    bool          `json:"deleted"`
	Categories []RawCategory `json:"categories"`
}

// RawCategory carries the current-period amounts of one category, in milliunits.
type RawCategory struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Hidden   bool   `json:"hidden"`
	Deleted  bool   `json:"deleted"`
	Budgeted *int64 `json:"budgeted"`
	Activity *int64 `json:"activity"`
	Balance  *int64 `json:"balance"`
}
