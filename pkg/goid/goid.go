package goid

import "runtime"

// GetGID 获取当前 goroutine 的 ID（用于日志字段，避免正则解析的开销）
func GetGID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	// 栈信息格式: "goroutine 123 [running]:\n"
	var id uint64
	for i := 10; i < len(b); i++ {
		c := b[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
