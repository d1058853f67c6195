// Package console 是命令行的输出层，所有函数只写 io.Writer，方便测试。
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"
	"hangulnum.local/internal/app/hangulnum"
)

const (
	rowSize = 8
	rule    = "--------------------------------------------------"
	markOK  = "✓"
	markBad = "✗"
)

// Banner 是交互模式的开场白。
func Banner(w io.Writer) {
	fmt.Fprintln(w, "=== Hangul Number Converter (Base-128, Variable Length) ===")
	fmt.Fprintln(w, "Enter a non-negative integer to encode.")
	fmt.Fprintln(w, "Type 'exit' to quit.")
	fmt.Fprintln(w)
}

// RenderTable 每行 8 个，编码后面跟往返校验结果。
func RenderTable(w io.Writer, num uint64, variants []hangulnum.Variant) {
	fmt.Fprintf(w, "\nAll %d encodings for %s:\n", len(variants), hangulnum.FormatNumber(num))
	fmt.Fprintln(w, rule)

	items := make([]string, 0, rowSize)
	for i, v := range variants {
		mark := markOK
		if !v.Verified {
			mark = markBad
		}
		items = append(items, v.Text+mark)
		if len(items) == rowSize || i == len(variants)-1 {
			fmt.Fprintln(w, strings.Join(items, "  "))
			items = items[:0]
		}
	}

	if len(variants) > 0 {
		fmt.Fprintf(w, "\nTotal: %d variants, Length: %d chars each\n",
			len(variants), uniseg.GraphemeClusterCount(variants[0].Text))
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

// RunREPL 循环读数字并打印全部变体；空行、exit 或输入结束时返回。
func RunREPL(in io.Reader, out io.Writer, codec *hangulnum.Codec) error {
	Banner(out)
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Enter number: ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		answer := strings.TrimSpace(sc.Text())
		if answer == "" || strings.EqualFold(answer, "exit") {
			return nil
		}
		num, err := hangulnum.ParseNumber(answer)
		if err != nil {
			fmt.Fprintln(out, "Please enter a valid number.")
			fmt.Fprintln(out)
			continue
		}
		RenderTable(out, num, codec.Variants(num))
	}
}
