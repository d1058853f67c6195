package hangulnum

import "time"

// SeedSource 为 Encode 提供扰动种子。
//
// 返回值不要求落在 [0,128)，Codec 会自己取模；实现不应持有共享的可变状态。
type SeedSource interface {
	Seed() int
}

// SeedFunc 让普通函数满足 SeedSource。
type SeedFunc func() int

func (f SeedFunc) Seed() int { return f() }

// FixedSeed 总是返回同一个种子，测试里用。
type FixedSeed int

func (s FixedSeed) Seed() int { return int(s) }

// ClockSeed 取当前时间的纳秒部分。不是密码学随机，只是让每次输出看起来不一样。
var ClockSeed SeedFunc = func() int {
	return time.Now().Nanosecond() % Base
}
