package swrcache

import "github.com/unkn0wn-root/swrcache/internal/util"

// Key is the derived identifier for a URL plus an option set. It is a
// caller-side helper only: the backend's storage key is the engine prefix
// plus whatever raw key the caller passes to Get/Set.
type Key struct {
	URL        string
	Hash       string // digest(urlHash + ":" + paramsHash)
	ParamsHash string
	Platform   string
}

// GenerateKey derives a deterministic, collision-resistant Key. Params are
// canonicalized by sorting keys lexicographically, so two calls with the same
// URL and the same param set yield the same Hash regardless of map insertion
// order; differing values yield different hashes with overwhelming
// probability.
func GenerateKey(url string, params map[string]string) Key {
	paramsHash := util.Digest(util.CanonicalParams(params))
	urlHash := util.Digest(url)
	return Key{
		URL:        url,
		Hash:       util.Digest(urlHash + ":" + paramsHash),
		ParamsHash: paramsHash,
		Platform:   params["platform"],
	}
}
