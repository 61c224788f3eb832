package build

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint captures every input that shapes a rendered page. Two
// builds with the same RenderHash produce the same bytes.
type Fingerprint struct {
	ContentHash string
	ThemeHash   string
	ConfigHash  string
	LayoutHash  string
	IntroHash   string
	RenderHash  string
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	for _, part := range []string{f.ContentHash, f.ThemeHash, f.ConfigHash, f.LayoutHash, f.IntroHash} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}
