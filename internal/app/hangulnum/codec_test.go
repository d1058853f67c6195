package hangulnum

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

var sampleNumbers = []uint64{
	0, 1, 2, 127, 128, 255, 1000, 12345, 16383, 16384, 1_000_000,
	math.MaxUint32, math.MaxUint64 / 2, math.MaxUint64 - 1, math.MaxUint64,
}

func TestEncodeDecode_RoundTripAllSeeds(t *testing.T) {
	c := Default()
	for _, n := range sampleNumbers {
		for seed := 0; seed < Base; seed++ {
			text, err := c.EncodeWithSeed(n, seed)
			if err != nil {
				t.Fatalf("EncodeWithSeed(%d, %d): %v", n, seed, err)
			}
			got, gotSeed, err := c.DecodeSeed(text)
			if err != nil {
				t.Fatalf("DecodeSeed(%q): %v", text, err)
			}
			if got != n {
				t.Fatalf("num=%d seed=%d: got %d", n, seed, got)
			}
			if gotSeed != seed {
				t.Fatalf("num=%d: seed got %d, want %d", n, gotSeed, seed)
			}
		}
	}
}

func TestEncodeWithSeed_KnownValues(t *testing.T) {
	cases := []struct {
		num  uint64
		seed int
		want string
	}{
		{12345, 0, "가크새"},
		{12345, 1, "간키서"},
		{0, 0, "가가"},
		{0, 5, "고고"},
		{127, 1, "간가"}, // (127+1)%128 回绕到 0
		{128, 0, "가간가"},
		{math.MaxUint64, 0, "가간히히히히히히히히히"},
		{math.MaxUint64, 127, "히가후후후후후후후후후"},
	}
	c := Default()
	for _, tc := range cases {
		got, err := c.EncodeWithSeed(tc.num, tc.seed)
		if err != nil {
			t.Fatalf("EncodeWithSeed(%d, %d): %v", tc.num, tc.seed, err)
		}
		if got != tc.want {
			t.Fatalf("EncodeWithSeed(%d, %d): got %q, want %q", tc.num, tc.seed, got, tc.want)
		}
	}
}

func TestEncodeWithSeed_ZeroIsTwoSymbols(t *testing.T) {
	c := Default()
	for seed := 0; seed < Base; seed++ {
		text, err := c.EncodeWithSeed(0, seed)
		if err != nil {
			t.Fatalf("seed=%d: %v", seed, err)
		}
		if n := uniseg.GraphemeClusterCount(text); n != 2 {
			t.Fatalf("seed=%d: got %d symbols, want 2 (%q)", seed, n, text)
		}
	}
}

func TestEncodeWithSeed_DigitCount(t *testing.T) {
	cases := []struct {
		num    uint64
		digits int
	}{
		{0, 1},
		{1, 1},
		{127, 1},
		{128, 2},
		{128*128 - 1, 2},
		{128 * 128, 3},
		{1 << 63, 10},
		{math.MaxUint64, 10},
	}
	c := Default()
	for _, tc := range cases {
		text, err := c.EncodeWithSeed(tc.num, 42)
		if err != nil {
			t.Fatalf("EncodeWithSeed(%d): %v", tc.num, err)
		}
		if got := uniseg.GraphemeClusterCount(text) - 1; got != tc.digits {
			t.Fatalf("num=%d: got %d digits, want %d", tc.num, got, tc.digits)
		}
		if got := EncodedLen(tc.num); got != tc.digits+1 {
			t.Fatalf("EncodedLen(%d): got %d, want %d", tc.num, got, tc.digits+1)
		}
	}
}

func TestEncodeWithSeed_InvalidSeed(t *testing.T) {
	c := Default()
	for _, seed := range []int{-1, 128, 200} {
		if _, err := c.EncodeWithSeed(100, seed); !errors.Is(err, ErrInvalidSeed) {
			t.Fatalf("seed=%d: got %v, want ErrInvalidSeed", seed, err)
		}
	}
}

func TestEncodeAll(t *testing.T) {
	c := Default()
	all := c.EncodeAll(12345)
	if len(all) != Base {
		t.Fatalf("len: got %d, want %d", len(all), Base)
	}
	for seed, text := range all {
		want, _ := c.EncodeWithSeed(12345, seed)
		if text != want {
			t.Fatalf("seed=%d: got %q, want %q", seed, text, want)
		}
		got, err := c.Decode(text)
		if err != nil || got != 12345 {
			t.Fatalf("Decode(%q): got %d, %v", text, got, err)
		}
	}
	if all[0] == all[1] {
		t.Fatalf("seed 0 and 1 produced the same text %q", all[0])
	}
}

func TestEncode_UsesSeedSource(t *testing.T) {
	c, err := NewCodec(HangulSymbols(), FixedSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Encode(12345); got != "간키서" {
		t.Fatalf("got %q, want %q", got, "간키서")
	}

	// 越界的种子取模后使用，不报错
	c, _ = NewCodec(HangulSymbols(), SeedFunc(func() int { return -127 }))
	if got := c.Encode(12345); got != "간키서" {
		t.Fatalf("negative seed: got %q, want %q", got, "간키서")
	}
}

func TestEncode_ClockSeedDecodes(t *testing.T) {
	c := Default()
	for i := 0; i < 50; i++ {
		text := c.Encode(987654321)
		got, err := c.Decode(text)
		if err != nil || got != 987654321 {
			t.Fatalf("Decode(%q): got %d, %v", text, got, err)
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	c := Default()
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", ErrTooShort},
		{"single symbol", "가", ErrTooShort},
		{"unknown seed", "A가", ErrUnknownSymbol},
		{"unknown digit", "가각", ErrUnknownSymbol},
		{"ascii digits", "12", ErrUnknownSymbol},
		{"overflow", "가" + strings.Repeat("히", 11), ErrOverflow},
		{"one past max", "가강" + strings.Repeat("가", 9), ErrOverflow}, // 2*128^9 == 2^64
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := c.Decode(tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("Decode(%q): got %v, want %v", tc.in, err, tc.want)
			}
		})
	}
}

func TestDecode_UnknownSymbolNamesSymbol(t *testing.T) {
	_, err := Default().Decode("가가X")
	if err == nil || !strings.Contains(err.Error(), `"X"`) {
		t.Fatalf("got %v, want error naming \"X\"", err)
	}
}

func TestDecode_NormalizesDecomposedInput(t *testing.T) {
	c := Default()
	text, _ := c.EncodeWithSeed(12345, 7)
	nfd := norm.NFD.String(text)
	if nfd == text {
		t.Fatal("NFD form should differ for Hangul syllables")
	}
	got, err := c.Decode(nfd)
	if err != nil || got != 12345 {
		t.Fatalf("Decode(NFD): got %d, %v", got, err)
	}
}

func TestDecode_LeadingZeroDigitsAccepted(t *testing.T) {
	// 编码器不会产出前导零，但解码器按大端累加，前导零不影响结果
	got, err := Default().Decode("가가가간")
	if err != nil || got != 1 {
		t.Fatalf("got %d, %v; want 1", got, err)
	}
}

func TestNewCodec_RejectsMalformedAlphabet(t *testing.T) {
	short := HangulSymbols()[:127]
	if _, err := NewCodec(short, nil); !errors.Is(err, ErrAlphabetSize) {
		t.Fatalf("127 symbols: got %v, want ErrAlphabetSize", err)
	}

	dup := HangulSymbols()
	dup[5] = dup[0]
	if _, err := NewCodec(dup, nil); !errors.Is(err, ErrDuplicateSymbol) {
		t.Fatalf("duplicate: got %v, want ErrDuplicateSymbol", err)
	}

	multi := HangulSymbols()
	multi[3] = "가나"
	if _, err := NewCodec(multi, nil); !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("two graphemes: got %v, want ErrInvalidSymbol", err)
	}

	decomposed := HangulSymbols()
	decomposed[3] = norm.NFD.String(decomposed[3])
	if _, err := NewCodec(decomposed, nil); !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("NFD symbol: got %v, want ErrInvalidSymbol", err)
	}

	empty := HangulSymbols()
	empty[0] = ""
	if _, err := NewCodec(empty, nil); !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("empty symbol: got %v, want ErrInvalidSymbol", err)
	}
}

func TestNewCodec_CustomAlphabet(t *testing.T) {
	// 任意 128 个单字素符号都可以作为字母表，包括多字节 emoji 组合
	symbols := make([]string, Base)
	for i := range symbols {
		symbols[i] = string(rune(0x4E00 + i))
	}
	symbols[0] = "👍🏽"
	c, err := NewCodec(symbols, FixedSeed(0))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	for _, n := range sampleNumbers {
		text := c.Encode(n)
		got, err := c.Decode(text)
		if err != nil || got != n {
			t.Fatalf("num=%d text=%q: got %d, %v", n, text, got, err)
		}
	}
	if got, _ := c.Decode("👍🏽👍🏽"); got != 0 {
		t.Fatalf("emoji zero: got %d", got)
	}
}

func TestSymbols_ReturnsCopy(t *testing.T) {
	c := Default()
	s := c.Symbols()
	s[0] = "X"
	if c.Symbols()[0] != "가" {
		t.Fatal("Symbols must not expose internal table")
	}
}

func TestCodec_ConcurrentUse(t *testing.T) {
	c := Default()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				n := uint64(g*1_000_000 + i)
				text, _ := c.EncodeWithSeed(n, (g+i)%Base)
				if got, err := c.Decode(text); err != nil || got != n {
					t.Errorf("num=%d: got %d, %v", n, got, err)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestVariants(t *testing.T) {
	vs := Default().Variants(12345)
	if len(vs) != Base {
		t.Fatalf("len: got %d, want %d", len(vs), Base)
	}
	for i, v := range vs {
		if v.Seed != i || !v.Verified {
			t.Fatalf("variant %d: %+v", i, v)
		}
	}

	// 被篡改的编码应标记为未通过
	texts := Default().EncodeAll(5)
	texts[3] = "가가"
	vs = VerifyVariants(Default(), 5, texts)
	if vs[3].Verified {
		t.Fatal("tampered variant should not verify")
	}
	if !vs[4].Verified {
		t.Fatal("untouched variant should verify")
	}
}
