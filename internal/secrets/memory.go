package secrets

// KeySize is the length of a master key in bytes.
const KeySize = 32

// MasterKey holds a derived 256-bit key. It is never persisted; callers must
// defer Wipe as soon as they obtain one.
type MasterKey struct {
	b      [KeySize]byte
	locked bool
}

func newMasterKey(raw []byte) *MasterKey {
	k := &MasterKey{}
	copy(k.b[:], raw)
	k.locked = lockMemory(k.b[:]) == nil
	return k
}

// Bytes exposes the key material. The slice aliases the key and is zeroed by Wipe.
func (k *MasterKey) Bytes() []byte {
	return k.b[:]
}

// Wipe zeroes the key and releases its memory lock. Safe to call more than once
// and on a nil key.
func (k *MasterKey) Wipe() {
	if k == nil {
		return
	}
	Wipe(k.b[:])
	if k.locked {
		_ = unlockMemory(k.b[:])
		k.locked = false
	}
}

// Wipe overwrites a byte slice with zeros.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
