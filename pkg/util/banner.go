package util

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
)

// ANSI 颜色常量
const (
	ColorReset  = "\x1b[0m"
	ColorRed    = "\x1b[1;31m"
	ColorGreen  = "\x1b[1;32m"
	ColorYellow = "\x1b[1;33m"
	ColorBlue   = "\x1b[1;34m"
	ColorCyan   = "\x1b[1;36m"
)

// 颜色名转 ANSI 颜色码
func colorCode(name string) string {
	switch name {
	case "ColorRed":
		return ColorRed
	case "ColorGreen":
		return ColorGreen
	case "ColorYellow":
		return ColorYellow
	case "ColorBlue":
		return ColorBlue
	case "ColorCyan":
		return ColorCyan
	default:
		return ColorReset
	}
}

// PrintBanner 启动时打印统一颜色的 ASCII banner
func PrintBanner(text string, color string) {
	fig := figure.NewFigure(text, "", true)
	lines := fig.Slicify()

	ansiColor := colorCode(color)
	for _, line := range lines {
		fmt.Println(ansiColor + line + ColorReset)
	}
}
