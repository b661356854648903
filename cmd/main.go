package main

import (
	"github.com/speedtest-bridge/cmd/bridge"
)

func main() {
	bridge.Execute()
}
