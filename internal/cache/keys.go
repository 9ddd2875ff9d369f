package cache

// SpendingKey — ключ кэша суммарных месячных расходов владельца.
func SpendingKey(owner string) string {
	return "spending:" + owner
}

// SuggestionsKey — ключ кэша списка рекомендаций владельца.
func SuggestionsKey(owner string) string {
	return "suggestions:" + owner
}
