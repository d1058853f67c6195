package hangulnum

// Variant 是某个种子下的一种写法。
//
// Verified 表示这条编码经过 Decode 往返后仍等于原数字；正常情况下永远为 true，
// 展示层用它打 ✓/✗，字母表被改坏时能第一时间看出来。
type Variant struct {
	Seed     int
	Text     string
	Verified bool
}

// Variants 返回 num 在全部 128 个种子下的编码并逐条往返校验。
func (c *Codec) Variants(num uint64) []Variant {
	return VerifyVariants(c, num, c.EncodeAll(num))
}

// VerifyVariants 对已经生成好的编码（例如来自缓存）做往返校验，下标即种子。
func VerifyVariants(d Decoder, num uint64, texts []string) []Variant {
	out := make([]Variant, len(texts))
	for seed, text := range texts {
		got, err := d.Decode(text)
		out[seed] = Variant{
			Seed:     seed,
			Text:     text,
			Verified: err == nil && got == num,
		}
	}
	return out
}
