package hangulnum

// Encoder 表示「数字 -> 文本」的用例能力。
//
// 上层（HTTP/CLI）只依赖接口，便于替换字母表或在测试里注入固定种子。
type Encoder interface {
	EncodeWithSeed(num uint64, seed int) (string, error)
	Encode(num uint64) string
	EncodeAll(num uint64) []string
}

// Decoder 表示「文本 -> 数字」的用例能力。
type Decoder interface {
	Decode(s string) (uint64, error)
}

// Converter 同时具备编解码能力，*Codec 实现了它。
type Converter interface {
	Encoder
	Decoder
	DecodeSeed(s string) (uint64, int, error)
}

var _ Converter = (*Codec)(nil)
