package swrcache

import "testing"

func TestGenerateKeyDeterministic(t *testing.T) {
	u := "https://example.com/feed?page=2"
	a := GenerateKey(u, map[string]string{"platform": "ios", "lang": "en", "limit": "50"})
	b := GenerateKey(u, map[string]string{"limit": "50", "lang": "en", "platform": "ios"})

	if a.Hash == "" || a.ParamsHash == "" {
		t.Fatalf("empty digest: %+v", a)
	}
	if a != b {
		t.Fatalf("same url + same params must derive identical keys: %+v vs %+v", a, b)
	}
	if a.URL != u || a.Platform != "ios" {
		t.Fatalf("key fields not propagated: %+v", a)
	}
}

func TestGenerateKeyDiffers(t *testing.T) {
	u := "https://example.com/feed"
	base := GenerateKey(u, map[string]string{"lang": "en"})

	if got := GenerateKey(u, map[string]string{"lang": "de"}); got.Hash == base.Hash {
		t.Fatalf("different param values must change the hash")
	}
	if got := GenerateKey(u+"/x", map[string]string{"lang": "en"}); got.Hash == base.Hash {
		t.Fatalf("different urls must change the hash")
	}
	if got := GenerateKey(u, nil); got.Hash == base.Hash {
		t.Fatalf("dropping params must change the hash")
	}
}

func TestGenerateKeyNoParams(t *testing.T) {
	a := GenerateKey("https://example.com", nil)
	b := GenerateKey("https://example.com", map[string]string{})
	if a != b {
		t.Fatalf("nil and empty param sets must derive the same key")
	}
	if a.Platform != "" {
		t.Fatalf("platform should be empty: %+v", a)
	}
}
