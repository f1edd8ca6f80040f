package fuzztests

import (
	"testing"

	"brook/internal/irfile"
)

// Decode не паникует на произвольных байтах.
func FuzzDecode(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("BKIR"))
	f.Add(append([]byte("BKIR"), irfile.Version[:]...))
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		obj, err := irfile.Decode(clamp(data, maxFuzzInput))
		if err == nil && obj == nil {
			t.Fatal("nil object without error")
		}
	})
}
