package datrie

import (
	"bytes"
	"testing"
)

func TestSetAndExactMatchSearch(t *testing.T) {
	tr := New[int32]()

	tr.Set("ni", 1)
	tr.Set("hao", 2)

	v, ok := tr.ExactMatchSearch("ni")
	if !ok || v != 1 {
		t.Fatalf("ExactMatchSearch(ni) = (%d, %v), want (1, true)", v, ok)
	}
	if _, ok := tr.ExactMatchSearch("missing"); ok {
		t.Fatalf("ExactMatchSearch(missing) found a value that was never set")
	}
	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}
}

func TestSetOverwritesExistingKey(t *testing.T) {
	tr := New[int32]()
	tr.Set("ni", 1)
	tr.Set("ni", 5)

	v, ok := tr.ExactMatchSearch("ni")
	if !ok || v != 5 {
		t.Fatalf("ExactMatchSearch(ni) = (%d, %v), want (5, true)", v, ok)
	}
	if tr.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after overwriting an existing key", tr.Len())
	}
}

func TestUpdateAppliesFunctionToMissingAndExistingKeys(t *testing.T) {
	tr := New[int32]()
	inc := func(v int32) int32 { return v + 1 }

	tr.Update("ni", inc)
	tr.Update("ni", inc)

	v, ok := tr.ExactMatchSearch("ni")
	if !ok || v != 2 {
		t.Fatalf("ExactMatchSearch(ni) = (%d, %v), want (2, true)", v, ok)
	}
	if tr.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tr.Len())
	}
}

func TestErase(t *testing.T) {
	tr := New[int32]()
	tr.Set("ni", 1)

	if !tr.Erase("ni") {
		t.Fatalf("Erase(ni) = false, want true")
	}
	if tr.Erase("ni") {
		t.Fatalf("Erase(ni) = true on second call, want false")
	}
	if tr.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after erasing the only key", tr.Len())
	}
}

func TestPrefixSearch(t *testing.T) {
	tr := New[int32]()
	tr.Set("n", 1)
	tr.Set("ni", 2)
	tr.Set("niha", 3)

	var found []string
	tr.PrefixSearch("nihao", func(key string, v int32) bool {
		found = append(found, key)
		return true
	})

	if len(found) != 3 {
		t.Fatalf("PrefixSearch found %v, want 3 prefixes of \"nihao\"", found)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tr := New[int32]()
	tr.Set("ni", 1)
	tr.Set("hao", 2)
	tr.Set("zhongguo", 3)

	var buf bytes.Buffer
	if err := tr.Save(&buf); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := New[int32]()
	if err := loaded.Load(&buf); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Len() != 3 {
		t.Fatalf("Len() after Load = %d, want 3", loaded.Len())
	}
	for _, tc := range []struct {
		key  string
		want int32
	}{
		{"ni", 1},
		{"hao", 2},
		{"zhongguo", 3},
	} {
		v, ok := loaded.ExactMatchSearch(tc.key)
		if !ok || v != tc.want {
			t.Fatalf("ExactMatchSearch(%q) = (%d, %v), want (%d, true)", tc.key, v, ok, tc.want)
		}
	}
}

func TestClear(t *testing.T) {
	tr := New[int32]()
	tr.Set("ni", 1)
	tr.Clear()

	if tr.Len() != 0 {
		t.Fatalf("Len() = %d after Clear, want 0", tr.Len())
	}
	if _, ok := tr.ExactMatchSearch("ni"); ok {
		t.Fatalf("ExactMatchSearch(ni) found a value after Clear")
	}
}
