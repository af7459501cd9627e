package array

// Bitmap is a fixed-length bit set used for row masks.
type Bitmap struct {
	bits []uint64
	n    int
}

func NewBitmap(n int, defaultSet bool) Bitmap {
	b := Bitmap{bits: make([]uint64, (n+63)/64), n: n}
	if defaultSet {
		for i := range b.bits {
			b.bits[i] = ^uint64(0)
		}
		if n%64 != 0 && len(b.bits) > 0 {
			b.bits[len(b.bits)-1] = (uint64(1) << uint(n%64)) - 1
		}
	}
	return b
}

func NewBitmapFromBools(mask []bool) Bitmap {
	b := NewBitmap(len(mask), false)
	for i := range mask {
		if mask[i] {
			b.Set(i)
		}
	}
	return b
}

func (b Bitmap) Len() int { return b.n }

func (b Bitmap) Get(i int) bool {
	return (b.bits[i/64]>>(uint(i%64)))&1 == 1
}

func (b Bitmap) Set(i int) {
	b.bits[i/64] |= uint64(1) << uint(i%64)
}

func (b Bitmap) Clear(i int) {
	b.bits[i/64] &^= uint64(1) << uint(i%64)
}

// Count returns the number of set bits.
func (b Bitmap) Count() int {
	n := 0
	for _, w := range b.bits {
		for w != 0 {
			w &= w - 1
			n++
		}
	}
	return n
}

func (b Bitmap) Bools() []bool {
	out := make([]bool, b.n)
	for i := range out {
		out[i] = b.Get(i)
	}
	return out
}

// And, Or and Not return new bitmaps; lengths must match.
func (b Bitmap) And(o Bitmap) Bitmap {
	out := Bitmap{bits: make([]uint64, len(b.bits)), n: b.n}
	for i := range b.bits {
		out.bits[i] = b.bits[i] & o.bits[i]
	}
	return out
}

func (b Bitmap) Or(o Bitmap) Bitmap {
	out := Bitmap{bits: make([]uint64, len(b.bits)), n: b.n}
	for i := range b.bits {
		out.bits[i] = b.bits[i] | o.bits[i]
	}
	return out
}

func (b Bitmap) Not() Bitmap {
	out := NewBitmap(b.n, true)
	for i := range b.bits {
		out.bits[i] &^= b.bits[i]
	}
	return out
}

type BitmapBuilder struct {
	bits []uint64
	n    int
}

func (b *BitmapBuilder) Append(set bool) {
	if b.n%64 == 0 {
		b.bits = append(b.bits, 0)
	}
	if set {
		b.bits[b.n/64] |= uint64(1) << uint(b.n%64)
	}
	b.n++
}

func (b *BitmapBuilder) Len() int { return b.n }

func (b *BitmapBuilder) Build() Bitmap {
	return Bitmap{bits: b.bits, n: b.n}
}
