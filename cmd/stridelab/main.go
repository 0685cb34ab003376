package main

import "github.com/marcusgo82/stridelab/ui"

func main() {
	ui.GetInstance().Run()
}
