package scene

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/gowebpki/jcs"

	"github.com/matzehuels/chartoverlay/pkg/errors"
)

// Digest returns the sha256 hex digest of cfg's RFC 8785 canonical JSON
// form. Scenes that differ only in key order or number spelling share a
// digest, so it serves as an artifact cache key.
func Digest(cfg *Config) (string, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "canonicalize scene")
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
