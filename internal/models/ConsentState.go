package models

type ConsentState struct {
	OptedIn         bool `json:"opted_in"`
	PromptDismissed bool `json:"prompt_dismissed"`
}
