package accounts

// Account is one upstream credential usable to make requests to the cloud
// inference API. Identity and credential are immutable for the lifetime of
// a loaded account set; runtime state (cooldowns, failure counters) is
// tracked separately by the health tracker.
type Account struct {
	// Name is the unique identifier for the account.
	Name string `yaml:"name" json:"name"`

	// APIKey is the secret credential attached to upstream requests.
	// It must never appear in logs or API responses.
	APIKey string `yaml:"api_key" json:"api_key"`

	// Description is free-form text describing the account.
	Description string `yaml:"description" json:"description"`
}

// accountList is the on-disk shape of the account configuration: a mapping
// with a single "accounts" key holding an ordered list of records.
type accountList struct {
	Accounts []Account `yaml:"accounts" json:"accounts"`
}
