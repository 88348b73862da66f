package redis

const (
	// KeyStars holds the whole star collection as one JSON array.
	// Whole-collection granularity matches the file backend: every
	// save replaces the complete value.
	KeyStars = "starfield:stars"
)
