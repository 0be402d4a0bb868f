package core

// Settings is the small persisted preferences object next to the
// transaction snapshot.
type Settings struct {
	Currency  string `json:"currency"`
	DarkTheme bool   `json:"dark_theme"`
}

func (s Settings) Validate() error {
	return ValidateCurrency(s.Currency)
}
