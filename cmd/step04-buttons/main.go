package main

import (
	"github.com/robotalks/badge.go/pkg/badge"
	"github.com/robotalks/badge.go/pkg/board"
)

func main() {
	board.Main(badge.StepButtons)
}
