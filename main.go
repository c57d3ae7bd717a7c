package main

import (
	"github.com/Nrich-sunny/ptt-crawler/cmd"
)

func main() {
	cmd.Execute()
}
