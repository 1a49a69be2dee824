package bytesutil

import "testing"

func TestCompareEqualPrefixLengthTiebreak(t *testing.T) {
	// This is exactly the case spec.md §9's Open Question flags: a pure
	// positional comparison would stop at the shared prefix and report
	// "equal" or compare out-of-bounds garbage; byte-lex-with-length-
	// tiebreak must say the shorter string sorts first.
	short := []byte{0x01, 0x02}
	long := []byte{0x01, 0x02, 0x00}

	if !Less(short, long) {
		t.Fatalf("expected %v < %v", short, long)
	}
	if !Greater(long, short) {
		t.Fatalf("expected %v > %v", long, short)
	}
}

func TestCompareOrdering(t *testing.T) {
	cases := []struct {
		a, b []byte
		want int
	}{
		{[]byte("a"), []byte("b"), -1},
		{[]byte("b"), []byte("a"), 1},
		{[]byte("a"), []byte("a"), 0},
		{[]byte{}, []byte{0x00}, -1},
		{nil, nil, 0},
	}
	for _, c := range cases {
		got := Compare(c.a, c.b)
		if (got < 0) != (c.want < 0) || (got > 0) != (c.want > 0) || (got == 0) != (c.want == 0) {
			t.Errorf("Compare(%v, %v) = %d, want sign of %d", c.a, c.b, got, c.want)
		}
	}
}

func TestConcat(t *testing.T) {
	got := Concat([]byte("a"), []byte("bc"), nil, []byte("d"))
	want := "abcd"
	if string(got) != want {
		t.Errorf("Concat() = %q, want %q", got, want)
	}
}

func TestHexRoundTrip(t *testing.T) {
	orig := []byte{0xde, 0xad, 0xbe, 0xef}
	s := ToHex(orig)
	back, err := FromHex(s)
	if err != nil {
		t.Fatalf("FromHex: %v", err)
	}
	if !Equal(orig, back) {
		t.Errorf("round trip mismatch: got %x, want %x", back, orig)
	}
}
