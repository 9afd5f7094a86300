package models

// Settings is the singleton app configuration document.
type Settings struct {
	BaseCurrency string `json:"baseCurrency"`
	FirstWeekday int    `json:"firstWeekday"`
	BackupKeep   int    `json:"backupKeep"`
	Theme        string `json:"theme"`
}

// DefaultSettings returns the settings a fresh installation starts with.
func DefaultSettings() Settings {
	return Settings{
		BaseCurrency: "USD",
		FirstWeekday: 1,
		BackupKeep:   10,
		Theme:        "system",
	}
}
