package model

type Recipe struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Ingredients string `json:"ingredients"`
	Steps       string `json:"steps"`
	Notes       string `json:"notes"`
}
