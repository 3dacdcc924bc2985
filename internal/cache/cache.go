package cache

// Cache defines the interface for label caching
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string)
}

// LabelKey builds the cache key for a referenced entity's display label
func LabelKey(id, language string) string {
	return "wikibox:label:" + language + ":" + id
}
