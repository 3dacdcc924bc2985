package cache

import "testing"

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewRequestScoped()

	key := LabelKey("Q3630", "en")
	if _, found := c.Get(key); found {
		t.Fatal("Expected miss on fresh cache")
	}

	c.Set(key, "Jakarta")
	got, found := c.Get(key)
	if !found || got != "Jakarta" {
		t.Errorf("Get = %q, %v; want Jakarta, true", got, found)
	}
}

func TestLabelKeyDistinguishesLanguages(t *testing.T) {
	if LabelKey("Q3630", "en") == LabelKey("Q3630", "id") {
		t.Error("Keys for different languages must differ")
	}
}
