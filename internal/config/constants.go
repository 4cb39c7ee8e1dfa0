package config

// Page sizes used by the catalog views
const (
	// HomepageSampleSize is the number of random books shown on the homepage
	HomepageSampleSize = 7

	// TopBooksLimit is the number of books shown on the top books page
	TopBooksLimit = 50
)
