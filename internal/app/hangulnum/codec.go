package hangulnum

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// 领域层统一错误，上层（HTTP/CLI）用 errors.Is 判断后映射成 400 或提示文案。
var (
	ErrInvalidSeed   = errors.New("seed must be between 0 and 127")
	ErrTooShort      = errors.New("encoded text must have at least 2 symbols")
	ErrUnknownSymbol = errors.New("unknown symbol")
	ErrOverflow      = errors.New("encoded value overflows uint64")

	ErrAlphabetSize    = errors.New("alphabet must have exactly 128 symbols")
	ErrInvalidSymbol   = errors.New("alphabet symbol must be a single NFC grapheme")
	ErrDuplicateSymbol = errors.New("duplicate alphabet symbol")
)

// Codec 把非负整数编码成「种子符号 + 扰动后的 128 进制数字符号」。
//
// 同一个数字在 128 个种子下有 128 种写法，全部都能解码回原值。
// 构造完成后只读，可以被多个 goroutine 直接共享。
type Codec struct {
	symbols [Base]string
	reverse map[string]int
	seeds   SeedSource
}

// NewCodec 校验字母表并建立反查表。seeds 为 nil 时使用 ClockSeed。
//
// 字母表必须恰好 128 个、互不相同、每个都是单个 NFC 字素簇，否则返回错误：
// 解码时按字素切分并做 NFC 归一化，不满足这两点的符号永远匹配不上。
func NewCodec(symbols []string, seeds SeedSource) (*Codec, error) {
	if len(symbols) != Base {
		return nil, fmt.Errorf("%w: got %d", ErrAlphabetSize, len(symbols))
	}
	if seeds == nil {
		seeds = ClockSeed
	}

	c := &Codec{
		reverse: make(map[string]int, Base),
		seeds:   seeds,
	}
	for i, sym := range symbols {
		if uniseg.GraphemeClusterCount(sym) != 1 || !norm.NFC.IsNormalString(sym) {
			return nil, fmt.Errorf("%w: %q at %d", ErrInvalidSymbol, sym, i)
		}
		if prev, ok := c.reverse[sym]; ok {
			return nil, fmt.Errorf("%w: %q at %d and %d", ErrDuplicateSymbol, sym, prev, i)
		}
		c.symbols[i] = sym
		c.reverse[sym] = i
	}
	return c, nil
}

var (
	defaultCodec *Codec
	defaultOnce  sync.Once
)

// Default 返回基于内置韩文字母表的全局 Codec。
func Default() *Codec {
	defaultOnce.Do(func() {
		var err error
		defaultCodec, err = NewCodec(hangulSymbols[:], nil)
		if err != nil {
			panic("hangulnum: builtin alphabet invalid: " + err.Error())
		}
	})
	return defaultCodec
}

// Symbols 返回字母表副本。
func (c *Codec) Symbols() []string {
	out := make([]string, Base)
	copy(out, c.symbols[:])
	return out
}

// EncodeWithSeed 用指定种子编码。相同的 (num, seed) 输出永远相同。
func (c *Codec) EncodeWithSeed(num uint64, seed int) (string, error) {
	if seed < 0 || seed >= Base {
		return "", fmt.Errorf("%w: got %d", ErrInvalidSeed, seed)
	}
	return c.encode(num, seed), nil
}

// Encode 从 SeedSource 取种子后编码，同一个数字多次调用结果可能不同。
func (c *Codec) Encode(num uint64) string {
	seed := c.seeds.Seed() % Base
	if seed < 0 {
		seed += Base
	}
	return c.encode(num, seed)
}

// EncodeAll 返回种子 0..127 的全部编码，下标即种子。
func (c *Codec) EncodeAll(num uint64) []string {
	out := make([]string, Base)
	for seed := range Base {
		out[seed] = c.encode(num, seed)
	}
	return out
}

// encode 要求 seed 已经在 [0,128) 内。
func (c *Codec) encode(num uint64, seed int) string {
	var buf [maxDigits]int
	digits := appendDigits(buf[:0], num)

	var sb strings.Builder
	// 每个韩文音节 UTF-8 下占 3 字节
	sb.Grow((len(digits) + 1) * 3)
	sb.WriteString(c.symbols[seed])
	for _, d := range digits {
		sb.WriteString(c.symbols[(d+seed)%Base])
	}
	return sb.String()
}

// maxDigits：128^9 < 2^64 <= 128^10，所以 uint64 最多 10 位。
const maxDigits = 10

// appendDigits 按高位在前追加 num 的 128 进制数字。0 也占一位。
func appendDigits(dst []int, num uint64) []int {
	if num == 0 {
		return append(dst, 0)
	}
	start := len(dst)
	for num > 0 {
		dst = append(dst, int(num%Base))
		num /= Base
	}
	// 先得到的是低位，翻转成高位在前
	for i, j := start, len(dst)-1; i < j; i, j = i+1, j-1 {
		dst[i], dst[j] = dst[j], dst[i]
	}
	return dst
}

// EncodedLen 返回 num 编码后的符号数（含种子符号）。
func EncodedLen(num uint64) int {
	n := 1
	for num >= Base {
		num /= Base
		n++
	}
	return n + 1
}

// Decode 把编码文本还原成数字。
func (c *Codec) Decode(s string) (uint64, error) {
	num, _, err := c.DecodeSeed(s)
	return num, err
}

// DecodeSeed 与 Decode 相同，额外返回编码时使用的种子。
//
// 输入先做 NFC 归一化（从 macOS 文件名、部分输入法拷出来的韩文可能是分解形式），
// 再按字素簇切分：一个符号是一个「用户感知的字符」，不能按字节或 rune 切。
func (c *Codec) DecodeSeed(s string) (uint64, int, error) {
	symbols := splitSymbols(s)
	if len(symbols) < 2 {
		return 0, 0, fmt.Errorf("%w: got %d", ErrTooShort, len(symbols))
	}

	seed, ok := c.reverse[symbols[0]]
	if !ok {
		return 0, 0, fmt.Errorf("%w: seed %q", ErrUnknownSymbol, symbols[0])
	}

	var num uint64
	for _, sym := range symbols[1:] {
		idx, ok := c.reverse[sym]
		if !ok {
			return 0, 0, fmt.Errorf("%w: %q", ErrUnknownSymbol, sym)
		}
		d := uint64((idx - seed + Base) % Base)
		if num > (math.MaxUint64-d)/Base {
			return 0, 0, ErrOverflow
		}
		num = num*Base + d
	}
	return num, seed, nil
}

func splitSymbols(s string) []string {
	s = norm.NFC.String(s)
	out := make([]string, 0, maxDigits+1)
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}
